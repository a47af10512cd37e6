package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"owlfi/backend/internal/dto"
	"owlfi/backend/internal/service"
	"owlfi/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportMonth 导出月度路演排期
// GET /api/v1/admin/roadshows/export?year=2026&month=3
func (h *ExportHandler) ExportMonth(c *gin.Context) {
	var req dto.MonthQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeBadParam, "year 与 month 参数无效")
		return
	}

	buf, filename, err := h.exportSvc.ExportMonth(c.Request.Context(), req.Year, req.Month)
	if err != nil {
		handleRoadshowError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
