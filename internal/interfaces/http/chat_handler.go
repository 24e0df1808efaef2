package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/adamugarba/thanledger/internal/application/dto"
	"github.com/adamugarba/thanledger/internal/application/ports"
	"github.com/adamugarba/thanledger/internal/application/workflow"
	"github.com/adamugarba/thanledger/internal/domain"
)

// ChatHandler receives operator messages from the chat bridge, classifies
// them and routes the resulting action through the workflow. Replies are
// plain text the bridge relays verbatim, so domain failures come back as a
// 200 with status "error" rather than an HTTP error.
type ChatHandler struct {
	classifier   ports.IntentClassifier
	orchestrator *workflow.Orchestrator
	threshold    float64
	timeout      time.Duration
}

// NewChatHandler builds the handler. threshold is the minimum classifier
// confidence to act on; below it the clarification question is surfaced
// verbatim instead.
func NewChatHandler(classifier ports.IntentClassifier, orchestrator *workflow.Orchestrator, threshold float64, timeout time.Duration) *ChatHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChatHandler{
		classifier:   classifier,
		orchestrator: orchestrator,
		threshold:    threshold,
		timeout:      timeout,
	}
}

func (h *ChatHandler) Message(c *fiber.Ctx) error {
	actor := workflow.Actor{ID: GetUserID(c), Name: GetUserName(c), Role: GetRole(c)}

	var in dto.InboundMessage
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	if in.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "text is required"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	intent, err := h.classifier.Classify(ctx, in.Text)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ChatReply{
			Status: "error",
			Text:   "I could not reach the language service, please try again in a moment.",
		})
	}

	if intent.Confidence < h.threshold {
		text := intent.Clarification
		if text == "" {
			text = "I did not quite get that, could you rephrase?"
		}
		return c.JSON(dto.ChatReply{Status: "clarification", Text: text})
	}

	result, err := h.orchestrator.Submit(ctx, intent.Action, actor)
	if err != nil {
		// Domain errors carry a corrective prompt for the operator; upstream
		// failures were already logged and get a generic retry message.
		text := err.Error()
		if errors.Is(err, domain.ErrUpstream) {
			text = "something went wrong on our side, please try again in a moment"
		}
		return c.JSON(dto.ChatReply{Status: "error", Text: text})
	}

	return c.JSON(dto.ChatReply{
		Status:    result.Status,
		Text:      result.Message,
		RequestID: result.RequestID,
		Warnings:  result.Warnings,
	})
}
