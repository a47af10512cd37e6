package handler

import (
	"github.com/gin-gonic/gin"

	"owlfi/backend/internal/dto"
	"owlfi/backend/internal/service"
	"owlfi/backend/pkg/response"
)

// CourseHandler 路演转课程 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseConversionService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseConversionService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// ConvertToCourse 将路演转为课程
// POST /api/v1/admin/roadshows/:id/convert-course
func (h *CourseHandler) ConvertToCourse(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	callerID, ok := MustGetOperatorID(c)
	if !ok {
		return
	}

	courseID, err := h.courseSvc.ConvertToCourse(c.Request.Context(), id, callerID)
	if err != nil {
		handleRoadshowError(c, err)
		return
	}

	// course_id 为 0 表示写入结果未确认，由前端提示运营核实
	response.OK(c, dto.ConvertCourseResponse{CourseID: courseID})
}
