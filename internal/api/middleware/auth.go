package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
	"github.com/Lukhanyo05/cooltech-credentials/internal/policy"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/jwt"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/redis"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/response"
)

// ActorResolver 按用户 ID 加载当前角色与部门
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (policy.Actor, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Token，
// 再从存储加载授权主体，角色或部门变更在下一次请求即生效。
// rdb 为 nil 时跳过黑名单检查
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client, resolver ActorResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "No token, authorization denied")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, "No token, authorization denied")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			msg := "Token is not valid"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			}
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}

		revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			// Redis 出错时降级放行
			logger.Warn("检查 Token 黑名单失败", zap.Error(err))
		}
		if revoked {
			response.Unauthorized(c, "Token has been revoked")
			c.Abort()
			return
		}

		actor, err := resolver.ResolveActor(c.Request.Context(), claims.UserID)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		c.Set("actor", actor)
		c.Set("user_id", actor.UserID)
		c.Set("role", string(actor.Role))
		c.Set("token_jti", claims.ID)
		if claims.ExpiresAt != nil {
			c.Set("token_exp", claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...model.Role) gin.HandlerFunc {
	names := make([]string, 0, len(allowedRoles))
	for _, r := range allowedRoles {
		s := string(r)
		if s != "" {
			s = strings.ToUpper(s[:1]) + s[1:]
		}
		names = append(names, s)
	}
	denied := "Access denied. " + strings.Join(names, " or ") + " role required."

	return func(c *gin.Context) {
		v, exists := c.Get("actor")
		actor, ok := v.(policy.Actor)
		if !exists || !ok {
			response.Unauthorized(c, "No token, authorization denied")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if actor.Role == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, denied)
		c.Abort()
	}
}
