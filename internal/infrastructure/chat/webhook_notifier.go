// Package chat bridges workflow notifications to the chat transport. The
// webhook notifier posts plain JSON to the configured endpoint; the logger
// notifier stands in when no endpoint is configured.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/adamugarba/thanledger/internal/application/workflow"
	"github.com/adamugarba/thanledger/internal/domain/entity"
)

var _ workflow.Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier delivers notifications as JSON POSTs to a chat gateway
// (WhatsApp bridge, Slack relay, or test double).
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

// NewWebhookNotifier builds the adapter. timeout bounds each delivery; the
// caller's ctx can shorten it further.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// outboundMessage is the gateway wire shape. An empty Recipient means
// broadcast to the reviewer group.
type outboundMessage struct {
	Recipient string `json:"recipient,omitempty"`
	Text      string `json:"text"`
	RequestID string `json:"request_id,omitempty"`
}

// NotifyReviewers prompts the reviewer group about a pending request.
func (n *WebhookNotifier) NotifyReviewers(ctx context.Context, req *entity.ApprovalRequest) error {
	text := fmt.Sprintf("Approval needed: %s requested to %s (%s). Reply approve %s or reject %s.",
		req.RequesterName, req.Action.Describe(), req.RiskReason, req.ID, req.ID)
	return n.post(ctx, outboundMessage{Text: text, RequestID: req.ID})
}

// NotifyRequester tells one actor the outcome of their request.
func (n *WebhookNotifier) NotifyRequester(ctx context.Context, recipientID, message string) error {
	return n.post(ctx, outboundMessage{Recipient: recipientID, Text: message})
}

func (n *WebhookNotifier) post(ctx context.Context, msg outboundMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("chat: marshal message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("chat: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chat: deliver message: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chat: gateway HTTP %d", resp.StatusCode)
	}
	return nil
}
