package routes

import (
	"github.com/workhive/workhive-server/internal/handler"
	"github.com/workhive/workhive-server/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func setupResumeRoutes(router fiber.Router, h *handler.ResumeHandler, authMiddleware *middleware.AuthMiddleware) {
	resumes := router.Group("/resumes")
	resumes.Use(authMiddleware.Authenticate(), middleware.RequireCandidate())

	resumes.Post("/", h.Upload)
	resumes.Get("/", h.List)
	resumes.Patch("/:id", h.Update)
	resumes.Delete("/:id", h.Delete)
}
