package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"owlfi/backend/internal/dto"
	"owlfi/backend/internal/service"
	"owlfi/backend/pkg/response"
)

// ICSHandler ICS 导入 HTTP 处理器
type ICSHandler struct {
	icsSvc service.ICSService
}

// NewICSHandler 创建 ICSHandler
func NewICSHandler(icsSvc service.ICSService) *ICSHandler {
	return &ICSHandler{icsSvc: icsSvc}
}

// ImportICS 导入 ICS
// POST /api/v1/admin/roadshows/import-ics
//
// 两种方式：multipart 表单字段 file 上传文件；或 JSON {"url": "webcal://..."}
func (h *ICSHandler) ImportICS(c *gin.Context) {
	callerID, ok := MustGetOperatorID(c)
	if !ok {
		return
	}

	var (
		result *dto.ImportICSResponse
		err    error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			response.BadRequest(c, response.CodeBadParam, "请上传 ICS 文件")
			return
		}
		f, ferr := fh.Open()
		if ferr != nil {
			response.BadRequest(c, response.CodeBadParam, "读取上传文件失败")
			return
		}
		defer f.Close()
		result, err = h.icsSvc.Import(c.Request.Context(), f, callerID)
	} else {
		var req dto.ImportICSRequest
		if berr := c.ShouldBindJSON(&req); berr != nil {
			response.BadRequest(c, response.CodeBadParam, "参数校验失败")
			return
		}
		result, err = h.icsSvc.ImportURL(c.Request.Context(), req.URL, callerID)
	}
	if err != nil {
		handleRoadshowError(c, err)
		return
	}

	response.OK(c, result)
}
