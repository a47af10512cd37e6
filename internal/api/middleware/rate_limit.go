package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"owlfi/backend/pkg/redis"
	"owlfi/backend/pkg/response"
)

// RateLimit 基于 Redis 滑动窗口的速率限制中间件
//
// scope 为限流维度前缀（public / admin）；已认证请求按运营 ID 计数，其余按客户端 IP。
// limit <= 0 表示不限流；rdb 为 nil 或 Redis 出错时降级放行。
func RateLimit(rdb *redis.Client, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		subject := c.ClientIP()
		if op := c.GetString("operator_id"); op != "" {
			subject = "op:" + op
		}
		key := fmt.Sprintf("owlfi:rate_limit:%s:%s", scope, subject)

		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.Error(c, http.StatusTooManyRequests, response.CodeTooMany, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
