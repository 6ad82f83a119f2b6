package middleware

import (
	"strings"

	"github.com/workhive/workhive-server/internal/domain"
	"github.com/workhive/workhive-server/pkg/jwt"
	"github.com/workhive/workhive-server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const UserContextKey = "auth_user"

type AuthMiddleware struct {
	jwtManager *jwt.JWTManager
}

func NewAuthMiddleware(jwtManager *jwt.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return response.Unauthorized(c, "invalid authorization header format")
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			return response.Unauthorized(c, "invalid or expired token")
		}

		c.Locals(UserContextKey, &domain.AuthUser{
			ID:   claims.UserID,
			Role: domain.Role(claims.Role),
		})
		return c.Next()
	}
}

func GetAuthUser(c *fiber.Ctx) *domain.AuthUser {
	user, ok := c.Locals(UserContextKey).(*domain.AuthUser)
	if !ok {
		return nil
	}
	return user
}
