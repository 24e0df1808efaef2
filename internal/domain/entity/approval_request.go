package entity

import (
	"time"

	"github.com/adamugarba/thanledger/internal/domain/action"
)

// Approval request lifecycle. pending is the only non-terminal state;
// approved and rejected are terminal with no transitions out.
const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// ApprovalRequest is one deferred write action awaiting human review.
// The full action payload is captured at enqueue time and replayed verbatim
// on approval, never re-derived from current inventory state.
type ApprovalRequest struct {
	ID            string
	RequestedBy   string // actor id
	RequesterName string
	Action        action.Action
	RiskReason    string
	Status        string
	ResolvedBy    string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}
