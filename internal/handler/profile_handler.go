package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/workhive/workhive-server/internal/domain"
	"github.com/workhive/workhive-server/internal/middleware"
	"github.com/workhive/workhive-server/pkg/response"
	"github.com/workhive/workhive-server/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profileService    domain.ProfileService
	extractionService domain.ExtractionService
	approvalService   domain.ApprovalService
	fileValidator     *validator.FileValidator
}

func NewProfileHandler(
	profileService domain.ProfileService,
	extractionService domain.ExtractionService,
	approvalService domain.ApprovalService,
) *ProfileHandler {
	return &ProfileHandler{
		profileService:    profileService,
		extractionService: extractionService,
		approvalService:   approvalService,
		fileValidator:     validator.ExtractionDocumentValidator(),
	}
}

// Extract parses an uploaded CV into an editable profile preview. Nothing is
// persisted; the client reviews the result and submits it via Create.
func (h *ProfileHandler) Extract(c *fiber.Ctx) error {
	user := middleware.GetAuthUser(c)
	if user == nil {
		return response.Unauthorized(c, "user not authenticated")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "document is required, use form field 'file'")
	}

	if err := h.fileValidator.Validate(file); err != nil {
		return response.BadRequest(c, err.Error())
	}

	opened, err := file.Open()
	if err != nil {
		return response.InternalError(c, "failed to read uploaded file")
	}
	defer opened.Close()

	data, err := io.ReadAll(opened)
	if err != nil {
		return response.InternalError(c, "failed to read uploaded file")
	}

	result, err := h.extractionService.Extract(
		c.UserContext(), data, file.Filename, file.Header.Get("Content-Type"), file.Size,
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAIClientUnavailable):
			return response.ServiceUnavailable(c, "document extraction is not available")
		case errors.Is(err, domain.ErrExtractionTimeout):
			return response.ServiceUnavailable(c, "document extraction timed out, please try again")
		case errors.Is(err, domain.ErrExtractionInvalid):
			return response.UnprocessableEntity(c, "could not extract a profile from this document")
		}
		return response.InternalError(c, err.Error())
	}

	result.Profile.Source = domain.SkillSourceTypeExtraction
	return response.Success(c, fiber.StatusOK, "document extracted", result)
}

// Create ingests a full candidate profile. The payload is JSON, or
// multipart/form-data with the JSON in field 'profile' and an optional resume
// document in field 'resume'.
func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetAuthUser(c)
	if user == nil {
		return response.Unauthorized(c, "user not authenticated")
	}

	var profile domain.CanonicalProfile
	var upload *domain.ResumeUpload

	if strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data") {
		raw := c.FormValue("profile")
		if raw == "" {
			return response.BadRequest(c, "profile JSON is required, use form field 'profile'")
		}
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			return response.BadRequest(c, "invalid profile JSON")
		}

		if file, err := c.FormFile("resume"); err == nil {
			isPrimary, _ := strconv.ParseBool(c.FormValue("is_primary", "true"))
			allowFetch, _ := strconv.ParseBool(c.FormValue("is_allow_fetch", "true"))
			upload = &domain.ResumeUpload{
				File:       file,
				IsPrimary:  isPrimary,
				AllowFetch: allowFetch,
			}
		}
	} else if err := c.BodyParser(&profile); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	result, err := h.profileService.Create(c.UserContext(), user.ID, &profile, upload)
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrProfileAlreadyExists):
			return response.Conflict(c, "candidate profile already exists")
		case errors.As(err, &validationErr):
			return response.BadRequest(c, validationErr.Error())
		}
		return response.InternalError(c, err.Error())
	}

	return response.Success(c, fiber.StatusCreated, "candidate profile created", result)
}

func (h *ProfileHandler) GetMe(c *fiber.Ctx) error {
	user := middleware.GetAuthUser(c)
	if user == nil {
		return response.Unauthorized(c, "user not authenticated")
	}

	profile, err := h.profileService.GetByUserID(c.UserContext(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrCandidateNotFound) {
			return response.NotFound(c, "candidate profile not found")
		}
		return response.InternalError(c, err.Error())
	}

	return response.Success(c, fiber.StatusOK, "candidate profile retrieved", profile)
}

func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	user := middleware.GetAuthUser(c)
	if user == nil {
		return response.Unauthorized(c, "user not authenticated")
	}

	var req domain.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	candidate, err := h.profileService.Update(c.UserContext(), user.ID, &req)
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrCandidateNotFound):
			return response.NotFound(c, "candidate profile not found")
		case errors.As(err, &validationErr):
			return response.BadRequest(c, validationErr.Error())
		}
		return response.InternalError(c, err.Error())
	}

	return response.Success(c, fiber.StatusOK, "candidate profile updated", candidate)
}

func (h *ProfileHandler) ExportPDF(c *fiber.Ctx) error {
	user := middleware.GetAuthUser(c)
	if user == nil {
		return response.Unauthorized(c, "user not authenticated")
	}

	pdfBytes, err := h.profileService.ExportPDF(c.UserContext(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrCandidateNotFound) {
			return response.NotFound(c, "candidate profile not found")
		}
		return response.InternalError(c, err.Error())
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=profile_%s.pdf", user.ID.String()))
	return c.Send(pdfBytes)
}

func (h *ProfileHandler) GetApproval(c *fiber.Ctx) error {
	user := middleware.GetAuthUser(c)
	if user == nil {
		return response.Unauthorized(c, "user not authenticated")
	}

	info, err := h.approvalService.GetStatus(c.UserContext(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrCandidateNotFound) {
			return response.NotFound(c, "candidate profile not found")
		}
		return response.InternalError(c, err.Error())
	}

	return response.Success(c, fiber.StatusOK, "approval status retrieved", info)
}
