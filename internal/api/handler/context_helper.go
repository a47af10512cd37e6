package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"owlfi/backend/pkg/response"
)

// MustGetOperatorID 从 Gin 上下文中安全提取 operator_id。
// 如果 JWT 中间件未正确注入 operator_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetOperatorID(c *gin.Context) (string, bool) {
	v, exists := c.Get("operator_id")
	if !exists {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return "", false
	}
	return s, true
}

// tokenInfo 当前 Token 的 jti 与过期时间，缺失时 ok=false
func tokenInfo(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString("token_jti")
	v, exists := c.Get("token_exp")
	if jti == "" || !exists {
		return "", time.Time{}, false
	}
	exp, ok := v.(time.Time)
	return jti, exp, ok
}
