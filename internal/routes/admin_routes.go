package routes

import (
	"github.com/workhive/workhive-server/internal/handler"
	"github.com/workhive/workhive-server/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func setupAdminRoutes(router fiber.Router, h *handler.ApprovalHandler, authMiddleware *middleware.AuthMiddleware) {
	admin := router.Group("/admin")
	admin.Use(authMiddleware.Authenticate(), middleware.RequireMIS())

	admin.Patch("/candidates/:id/approval", h.SetApproval)
}
