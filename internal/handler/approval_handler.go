package handler

import (
	"errors"

	"github.com/workhive/workhive-server/internal/domain"
	"github.com/workhive/workhive-server/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ApprovalHandler exposes the MIS review surface. Routes mounting it sit
// behind the mis role middleware.
type ApprovalHandler struct {
	approvalService domain.ApprovalService
}

func NewApprovalHandler(approvalService domain.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func (h *ApprovalHandler) SetApproval(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "invalid candidate id")
	}

	var req domain.UpdateApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	info, err := h.approvalService.SetStatus(c.UserContext(), candidateID, req.Status)
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrCandidateNotFound):
			return response.NotFound(c, "candidate not found")
		case errors.As(err, &validationErr):
			return response.BadRequest(c, validationErr.Error())
		}
		return response.InternalError(c, err.Error())
	}

	return response.Success(c, fiber.StatusOK, "approval status updated", info)
}
