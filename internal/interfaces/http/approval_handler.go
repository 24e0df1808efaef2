package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/adamugarba/thanledger/internal/application/dto"
	"github.com/adamugarba/thanledger/internal/application/workflow"
	"github.com/adamugarba/thanledger/internal/domain"
)

// ApprovalHandler exposes the reviewer surface: list pending requests,
// approve (replay) or reject one. Routes are admin-gated in the router and
// the orchestrator re-checks the role, so a misconfigured route still fails
// closed.
type ApprovalHandler struct {
	orchestrator *workflow.Orchestrator
}

func NewApprovalHandler(orchestrator *workflow.Orchestrator) *ApprovalHandler {
	return &ApprovalHandler{orchestrator: orchestrator}
}

// pendingView is the reviewer-facing shape of a queued request.
type pendingView struct {
	ID            string    `json:"id"`
	RequestedBy   string    `json:"requested_by"`
	RequesterName string    `json:"requester_name"`
	Description   string    `json:"description"`
	RiskReason    string    `json:"risk_reason"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *ApprovalHandler) ListPending(c *fiber.Ctx) error {
	pending, err := h.orchestrator.ListPending()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	views := make([]pendingView, 0, len(pending))
	for _, req := range pending {
		views = append(views, pendingView{
			ID:            req.ID,
			RequestedBy:   req.RequestedBy,
			RequesterName: req.RequesterName,
			Description:   req.Action.Describe(),
			RiskReason:    req.RiskReason,
			CreatedAt:     req.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(views), "pending": views})
}

func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	approver := workflow.Actor{ID: GetUserID(c), Name: GetUserName(c), Role: GetRole(c)}
	result, err := h.orchestrator.ExecuteApproved(c.Context(), c.Params("id"), approver)
	if err != nil {
		return approvalError(c, err)
	}
	return c.JSON(dto.ChatReply{
		Status:    result.Status,
		Text:      result.Message,
		RequestID: result.RequestID,
		Warnings:  result.Warnings,
	})
}

func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	approver := workflow.Actor{ID: GetUserID(c), Name: GetUserName(c), Role: GetRole(c)}
	result, err := h.orchestrator.RejectApproval(c.Context(), c.Params("id"), approver)
	if err != nil {
		return approvalError(c, err)
	}
	return c.JSON(dto.ChatReply{
		Status:    result.Status,
		Text:      result.Message,
		RequestID: result.RequestID,
	})
}

func approvalError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrPermission):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
