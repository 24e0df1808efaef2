package workflow

import (
	"context"

	"github.com/adamugarba/thanledger/internal/domain/entity"
)

// Notifier is the outbound port to the chat transport: it prompts reviewers
// about pending requests and tells requesters the outcome. Delivery failures
// never abort the workflow; they are logged and the request stays resolvable
// through the pending list.
type Notifier interface {
	NotifyReviewers(ctx context.Context, req *entity.ApprovalRequest) error
	NotifyRequester(ctx context.Context, recipientID, message string) error
}
