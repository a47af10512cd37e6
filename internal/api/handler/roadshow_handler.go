package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"owlfi/backend/internal/dto"
	"owlfi/backend/internal/service"
	"owlfi/backend/pkg/response"
)

// RoadshowHandler 路演模块 HTTP 处理器（公众端与运营端共用）
type RoadshowHandler struct {
	roadshowSvc service.RoadshowService
}

// NewRoadshowHandler 创建 RoadshowHandler
func NewRoadshowHandler(roadshowSvc service.RoadshowService) *RoadshowHandler {
	return &RoadshowHandler{roadshowSvc: roadshowSvc}
}

// ListRoadshows 获取路演列表
// GET /api/v1/roadshows
func (h *RoadshowHandler) ListRoadshows(c *gin.Context) {
	result, err := h.roadshowSvc.List(c.Request.Context())
	if err != nil {
		h.respondDegraded(c, result, err)
		return
	}

	response.OK(c, result)
}

// ListPastRoadshows 获取往期路演（最近结束的在前）
// GET /api/v1/roadshows/past
func (h *RoadshowHandler) ListPastRoadshows(c *gin.Context) {
	result, err := h.roadshowSvc.ListPast(c.Request.Context())
	if err != nil {
		h.respondDegraded(c, result, err)
		return
	}

	response.OK(c, result)
}

// GetRoadshow 获取路演详情
// GET /api/v1/roadshows/:id
func (h *RoadshowHandler) GetRoadshow(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	view, err := h.roadshowSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleRoadshowError(c, err)
		return
	}

	response.OK(c, view)
}

// CreateRoadshow 创建路演
// POST /api/v1/admin/roadshows
func (h *RoadshowHandler) CreateRoadshow(c *gin.Context) {
	var req dto.CreateRoadshowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParam, "参数校验失败")
		return
	}

	callerID, ok := MustGetOperatorID(c)
	if !ok {
		return
	}

	result, err := h.roadshowSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleRoadshowError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateRoadshow 更新路演
// PUT /api/v1/admin/roadshows/:id
func (h *RoadshowHandler) UpdateRoadshow(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateRoadshowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParam, "参数校验失败")
		return
	}

	callerID, ok := MustGetOperatorID(c)
	if !ok {
		return
	}

	result, err := h.roadshowSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handleRoadshowError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteRoadshow 删除路演
// DELETE /api/v1/admin/roadshows/:id
func (h *RoadshowHandler) DeleteRoadshow(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	callerID, ok := MustGetOperatorID(c)
	if !ok {
		return
	}

	if err := h.roadshowSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		handleRoadshowError(c, err)
		return
	}

	response.OK(c, nil)
}

// ReplaceMaterials 整体替换参考资料
// PUT /api/v1/admin/roadshows/:id/materials
func (h *RoadshowHandler) ReplaceMaterials(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.ReplaceMaterialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParam, "参数校验失败")
		return
	}

	callerID, ok := MustGetOperatorID(c)
	if !ok {
		return
	}

	view, err := h.roadshowSvc.ReplaceMaterials(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handleRoadshowError(c, err)
		return
	}

	response.OK(c, view)
}

// CheckConflicts 草稿冲突预检
// POST /api/v1/admin/roadshows/conflicts/check
func (h *RoadshowHandler) CheckConflicts(c *gin.Context) {
	var req dto.CheckConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParam, "参数校验失败")
		return
	}

	result, err := h.roadshowSvc.CheckConflicts(c.Request.Context(), &req)
	if err != nil {
		handleRoadshowError(c, err)
		return
	}

	response.OK(c, result)
}

// respondDegraded 存储不可用时列表类视图返回空的降级结果，而不是报错
func (h *RoadshowHandler) respondDegraded(c *gin.Context, result *dto.RoadshowListResponse, err error) {
	if errors.Is(err, service.ErrRoadshowStore) && result != nil {
		response.OK(c, result)
		return
	}
	handleRoadshowError(c, err)
}
