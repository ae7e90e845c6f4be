package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"go-farmlink/models"
	"go-farmlink/utils"
)

// SessionKey 会话在 gin.Context 中的键
const SessionKey = "session"

// SessionResolver 将令牌解析为会话
type SessionResolver interface {
	ParseToken(token string) (string, error)
	Session(ctx context.Context, userID string) (models.Session, error)
}

// AuthMiddleware 验证JWT Token，并按令牌中的用户加载会话
func AuthMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")
		if authorization == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authorization, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			utils.Unauthorized(c, "Authorization header format must be Bearer {token}")
			c.Abort()
			return
		}

		userID, err := resolver.ParseToken(parts[1])
		if err != nil {
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		session, err := resolver.Session(c.Request.Context(), userID)
		if errors.Is(err, models.ErrUnauthorized) {
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}
		if err != nil {
			utils.Fail(c, "load session", err)
			c.Abort()
			return
		}

		c.Set(SessionKey, session)
		c.Next()
	}
}

// SessionFrom 取出当前会话，未登录时返回零值
func SessionFrom(c *gin.Context) models.Session {
	if v, ok := c.Get(SessionKey); ok {
		if session, ok := v.(models.Session); ok {
			return session
		}
	}
	return models.Session{}
}

// RequireRole 会话角色不在 roles 中时返回 403 ACCESS_RESTRICTED
func RequireRole(message string, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if !session.Authenticated() {
			utils.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		for _, role := range roles {
			if session.Role == role {
				c.Next()
				return
			}
		}
		utils.Forbidden(c, models.CodeAccessRestricted, message)
		c.Abort()
	}
}
