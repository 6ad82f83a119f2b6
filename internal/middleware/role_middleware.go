package middleware

import (
	"github.com/workhive/workhive-server/internal/domain"
	"github.com/workhive/workhive-server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetAuthUser(c)
		if user == nil {
			return response.Unauthorized(c, "user not authenticated")
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return response.Forbidden(c, "insufficient permissions")
	}
}

func RequireCandidate() fiber.Handler {
	return RequireRole(domain.RoleCandidate)
}

func RequireMIS() fiber.Handler {
	return RequireRole(domain.RoleMIS)
}
