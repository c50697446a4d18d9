package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Lukhanyo05/cooltech-credentials/config"
	"github.com/Lukhanyo05/cooltech-credentials/internal/api/handler"
	"github.com/Lukhanyo05/cooltech-credentials/internal/api/middleware"
	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/jwt"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/redis"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/response"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil：此时不做 Token 黑名单与限流
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	resolver middleware.ActorResolver,
	logger *zap.Logger,
) *gin.Engine {
	handler.RegisterValidatorTags()

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// 认证模块（无需认证，按 IP 限流）
		limit := middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, time.Minute, logger)
		auth := api.Group("/auth")
		{
			auth.POST("/register", limit, h.Auth.Register)
			auth.POST("/login", limit, h.Auth.Login)
		}

		// 需要认证的路由
		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, resolver, logger))
		{
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 凭据模块（授权在 Service 层按 policy 判定）
			credentials := authorized.Group("/credentials")
			{
				credentials.GET("/my-credentials", h.Credential.MyCredentials)
				credentials.GET("/division/:id", h.Credential.ListByDivision)
				credentials.POST("", h.Credential.Create)
				credentials.PUT("/:id", h.Credential.Update)
				credentials.DELETE("/:id", h.Credential.Delete)
			}

			// 部门模块
			divisions := authorized.Group("/divisions")
			{
				divisions.GET("", middleware.RoleAuth(model.RoleAdmin), h.Division.ListDivisions)
				divisions.GET("/my-divisions", h.Division.MyDivisions)
			}

			// 管理员模块
			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleAuth(model.RoleAdmin))
			{
				admin.GET("/users", h.User.ListUsers)
				admin.GET("/users/export", h.Export.ExportUsers)
				admin.POST("/users/import", h.Export.ImportUsers)
				admin.PUT("/users/:id/role", h.User.ChangeRole)
				admin.POST("/users/:id/divisions/:divisionId", h.User.AssignDivision)
				admin.DELETE("/users/:id/divisions/:divisionId", h.User.UnassignDivision)
				admin.POST("/users/:id/ous/:ouId", h.User.AssignOU)
				admin.DELETE("/users/:id/ous/:ouId", h.User.UnassignOU)
				admin.GET("/divisions", h.Division.ListDivisions)
				admin.GET("/ous", h.Division.ListOUs)
			}
		}
	}

	return r
}
