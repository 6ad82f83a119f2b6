package handler

import (
	"errors"
	"strconv"

	"github.com/workhive/workhive-server/internal/domain"
	"github.com/workhive/workhive-server/internal/middleware"
	"github.com/workhive/workhive-server/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ResumeHandler struct {
	resumeService domain.ResumeService
}

func NewResumeHandler(resumeService domain.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService}
}

func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	user := middleware.GetAuthUser(c)
	if user == nil {
		return response.Unauthorized(c, "user not authenticated")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "resume file is required, use form field 'file'")
	}

	isPrimary, _ := strconv.ParseBool(c.FormValue("is_primary", "false"))
	allowFetch, _ := strconv.ParseBool(c.FormValue("is_allow_fetch", "true"))

	resume, err := h.resumeService.Upload(c.UserContext(), user.ID, &domain.ResumeUpload{
		File:       file,
		IsPrimary:  isPrimary,
		AllowFetch: allowFetch,
	})
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrCandidateNotFound):
			return response.NotFound(c, "candidate profile not found")
		case errors.As(err, &validationErr):
			return response.BadRequest(c, validationErr.Error())
		case errors.Is(err, domain.ErrStorageFailed):
			return response.ServiceUnavailable(c, "resume storage is not available, please try again")
		}
		return response.InternalError(c, err.Error())
	}

	return response.Success(c, fiber.StatusCreated, "resume uploaded", resume)
}

func (h *ResumeHandler) List(c *fiber.Ctx) error {
	user := middleware.GetAuthUser(c)
	if user == nil {
		return response.Unauthorized(c, "user not authenticated")
	}

	resumes, err := h.resumeService.List(c.UserContext(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrCandidateNotFound) {
			return response.NotFound(c, "candidate profile not found")
		}
		return response.InternalError(c, err.Error())
	}

	return response.Success(c, fiber.StatusOK, "resumes retrieved", resumes)
}

func (h *ResumeHandler) Update(c *fiber.Ctx) error {
	user := middleware.GetAuthUser(c)
	if user == nil {
		return response.Unauthorized(c, "user not authenticated")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "invalid resume id")
	}

	var req domain.UpdateResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	resume, err := h.resumeService.Update(c.UserContext(), user.ID, id, &req)
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrCandidateNotFound):
			return response.NotFound(c, "candidate profile not found")
		case errors.Is(err, domain.ErrResumeNotFound):
			return response.NotFound(c, "resume not found")
		case errors.As(err, &validationErr):
			return response.BadRequest(c, validationErr.Error())
		}
		return response.InternalError(c, err.Error())
	}

	return response.Success(c, fiber.StatusOK, "resume updated", resume)
}

func (h *ResumeHandler) Delete(c *fiber.Ctx) error {
	user := middleware.GetAuthUser(c)
	if user == nil {
		return response.Unauthorized(c, "user not authenticated")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "invalid resume id")
	}

	if err := h.resumeService.Remove(c.UserContext(), user.ID, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrCandidateNotFound):
			return response.NotFound(c, "candidate profile not found")
		case errors.Is(err, domain.ErrResumeNotFound):
			return response.NotFound(c, "resume not found")
		}
		return response.InternalError(c, err.Error())
	}

	return response.Success(c, fiber.StatusOK, "resume deleted", nil)
}
