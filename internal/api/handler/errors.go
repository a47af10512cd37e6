package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"owlfi/backend/internal/service"
	apperrors "owlfi/backend/pkg/errors"
	"owlfi/backend/pkg/response"
)

// ── 业务错误码 ──
// 17xxx 路演 / 月历 / 导入导出，18xxx 课程

const (
	CodeRoadshowNotFound    = 17001
	CodeRoadshowInvalid     = 17002
	CodeRoadshowUnavailable = 17003
	CodeICSInvalid          = 17101
	CodeICSTooLarge         = 17102
	CodeICSFetchFailed      = 17103
	CodeExportFailed        = 17201
	CodeCourseCreateFailed  = 18001
)

// handleRoadshowError 统一处理路演相关业务错误
func handleRoadshowError(c *gin.Context, err error) {
	if ve, ok := apperrors.AsValidation(err); ok {
		response.ErrorWithDetails(c, http.StatusBadRequest, CodeRoadshowInvalid, "参数校验失败", ve.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrRoadshowNotFound):
		response.NotFound(c, CodeRoadshowNotFound, "路演不存在")
	case errors.Is(err, service.ErrRoadshowStore):
		response.ServiceUnavailable(c, CodeRoadshowUnavailable, "路演数据暂不可用，请稍后重试")
	case errors.Is(err, service.ErrICSTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, CodeICSTooLarge, "ICS 内容超过大小限制")
	case errors.Is(err, service.ErrICSInvalid):
		response.BadRequest(c, CodeICSInvalid, "ICS 内容格式无效")
	case errors.Is(err, service.ErrICSFetchFailed):
		response.Error(c, http.StatusBadGateway, CodeICSFetchFailed, "获取 ICS 订阅失败")
	case errors.Is(err, service.ErrCourseCreateFailed):
		response.Error(c, http.StatusBadGateway, CodeCourseCreateFailed, "课程创建失败")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, CodeExportFailed, "生成导出文件失败")
	default:
		response.InternalError(c)
	}
}

// parseID 解析路径中的路演 ID
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, response.CodeBadParam, "路演ID无效")
		return 0, false
	}
	return id, true
}
