package routes

import (
	"github.com/workhive/workhive-server/internal/handler"
	"github.com/workhive/workhive-server/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func setupProfileRoutes(router fiber.Router, h *handler.ProfileHandler, authMiddleware *middleware.AuthMiddleware) {
	profiles := router.Group("/profiles")
	profiles.Use(authMiddleware.Authenticate(), middleware.RequireCandidate())

	profiles.Post("/extract", h.Extract)
	profiles.Post("/", h.Create)
	profiles.Get("/me", h.GetMe)
	profiles.Put("/me", h.UpdateMe)
	profiles.Get("/me/pdf", h.ExportPDF)
	profiles.Get("/me/approval", h.GetApproval)
}
