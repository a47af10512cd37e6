package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"owlfi/backend/internal/dto"
	"owlfi/backend/internal/service"
	"owlfi/backend/pkg/response"
)

// CalendarHandler 月历与日历订阅 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
	icsSvc      service.ICSService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService, icsSvc service.ICSService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc, icsSvc: icsSvc}
}

// GetMonth 获取月历
// GET /api/v1/roadshows/calendar?year=2026&month=3&sort=chronological
func (h *CalendarHandler) GetMonth(c *gin.Context) {
	var req dto.CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeBadParam, "参数校验失败")
		return
	}

	view, err := h.calendarSvc.Month(c.Request.Context(), &req)
	if err != nil {
		// 存储不可用时仍返回结构完整的空月历
		if errors.Is(err, service.ErrRoadshowStore) && view != nil {
			response.OK(c, view)
			return
		}
		handleRoadshowError(c, err)
		return
	}

	response.OK(c, view)
}

// NavigateMonth 月份前后翻页
// GET /api/v1/roadshows/calendar/navigate?year=2026&month=1&delta=-1
func (h *CalendarHandler) NavigateMonth(c *gin.Context) {
	var req dto.NavigateMonthRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeBadParam, "参数校验失败")
		return
	}

	ref, err := h.calendarSvc.Navigate(c.Request.Context(), &req)
	if err != nil {
		handleRoadshowError(c, err)
		return
	}

	response.OK(c, ref)
}

// ExportICS 月度日历订阅
// GET /api/v1/roadshows/calendar.ics?year=2026&month=3
func (h *CalendarHandler) ExportICS(c *gin.Context) {
	var req dto.MonthQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeBadParam, "参数校验失败")
		return
	}

	data, filename, err := h.icsSvc.ExportMonth(c.Request.Context(), req.Year, req.Month)
	if err != nil {
		handleRoadshowError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}
