package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"owlfi/backend/pkg/response"
)

// TokenRevoker Token 吊销存储（Redis）
type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthHandler 运营会话 HTTP 处理器
// Token 由外部身份服务签发，这里只负责注销
type AuthHandler struct {
	revoker TokenRevoker
}

// NewAuthHandler 创建 AuthHandler；revoker 为 nil 时注销仅返回成功（Redis 降级）
func NewAuthHandler(revoker TokenRevoker) *AuthHandler {
	return &AuthHandler{revoker: revoker}
}

// Logout 运营登出：将当前 Access Token 加入吊销名单
// POST /api/v1/admin/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := MustGetOperatorID(c); !ok {
		return
	}

	jti, exp, ok := tokenInfo(c)
	if !ok || h.revoker == nil {
		response.OK(c, nil)
		return
	}

	if err := h.revoker.RevokeToken(c.Request.Context(), jti, time.Until(exp)); err != nil {
		response.ServiceUnavailable(c, response.CodeInternalError, "注销失败，请稍后重试")
		return
	}

	response.OK(c, nil)
}
