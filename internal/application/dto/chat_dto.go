package dto

import "github.com/adamugarba/thanledger/internal/domain/action"

// InboundMessage is one operator message delivered by the chat transport.
type InboundMessage struct {
	Text string `json:"text"`
}

// ChatReply is the plain-text outcome sent back to the requesting actor.
// RequestID is set when the action was deferred for approval.
type ChatReply struct {
	Status    string   `json:"status"` // completed | pending | duplicate | clarification | error
	Text      string   `json:"text"`
	RequestID string   `json:"request_id,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// IntentResult is what the classifier port returns: the parsed action, the
// model's confidence, and a clarification prompt to surface verbatim when
// confidence is below the acting threshold.
type IntentResult struct {
	Action        action.Action `json:"action"`
	Confidence    float64       `json:"confidence"`
	Clarification string        `json:"clarification,omitempty"`
}
