package routes

import (
	"github.com/workhive/workhive-server/internal/handler"
	"github.com/workhive/workhive-server/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Profile  *handler.ProfileHandler
	Resume   *handler.ResumeHandler
	Approval *handler.ApprovalHandler
}

type Middlewares struct {
	Auth *middleware.AuthMiddleware
}

func Setup(app *fiber.App, handlers Handlers, middlewares Middlewares) {
	app.Get("/health", healthCheck)

	api := app.Group("/api/v1")

	setupProfileRoutes(api, handlers.Profile, middlewares.Auth)
	setupResumeRoutes(api, handlers.Resume, middlewares.Auth)
	setupAdminRoutes(api, handlers.Approval, middlewares.Auth)
}

func healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "server is running",
	})
}
