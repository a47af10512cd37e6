package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"owlfi/backend/config"
	"owlfi/backend/internal/api/handler"
	"owlfi/backend/internal/api/middleware"
	"owlfi/backend/pkg/jwt"
	"owlfi/backend/pkg/redis"
)

// multipartOverhead ICS 上传时 multipart 边界与表单字段的额外余量
const multipartOverhead = 64 << 10

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, "/health"))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes, cfg.Roadshow.ICSMaxBytes+multipartOverhead))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	limit := cfg.Roadshow.RateLimitPerMinute

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 公众端（无需认证）
		public := v1.Group("/roadshows")
		public.Use(middleware.RateLimit(rdb, "public", limit, time.Minute))
		{
			public.GET("", h.Roadshow.ListRoadshows)
			public.GET("/past", h.Roadshow.ListPastRoadshows)
			public.GET("/calendar", h.Calendar.GetMonth)
			public.GET("/calendar/navigate", h.Calendar.NavigateMonth)
			public.GET("/calendar.ics", h.Calendar.ExportICS)
			public.GET("/:id", h.Roadshow.GetRoadshow)
		}

		// 运营端（需要认证）
		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(jwtMgr, rdb))
		admin.Use(middleware.RoleAuth("admin", "editor"))
		admin.Use(middleware.RateLimit(rdb, "admin", limit, time.Minute))
		{
			admin.POST("/auth/logout", h.Auth.Logout)

			roadshows := admin.Group("/roadshows")
			{
				roadshows.GET("", h.Roadshow.ListRoadshows)
				roadshows.GET("/calendar", h.Calendar.GetMonth)
				roadshows.GET("/export", h.Export.ExportMonth)
				roadshows.POST("/conflicts/check", h.Roadshow.CheckConflicts)
				roadshows.POST("/import-ics", h.ICS.ImportICS)
				roadshows.POST("", h.Roadshow.CreateRoadshow)
				roadshows.GET("/:id", h.Roadshow.GetRoadshow)
				roadshows.PUT("/:id", h.Roadshow.UpdateRoadshow)
				roadshows.DELETE("/:id", h.Roadshow.DeleteRoadshow)
				roadshows.PUT("/:id/materials", h.Roadshow.ReplaceMaterials)
				roadshows.POST("/:id/convert-course", h.Course.ConvertToCourse)
			}
		}
	}

	return r
}
