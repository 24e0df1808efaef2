package chat

import (
	"context"

	"github.com/adamugarba/thanledger/internal/application/workflow"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/pkg/logger"
)

var _ workflow.Notifier = (*LogNotifier)(nil)

// LogNotifier writes notifications to the log instead of a gateway. Used in
// development and when CHAT_WEBHOOK_URL is unset.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyReviewers(_ context.Context, req *entity.ApprovalRequest) error {
	n.log.Info().
		Str("request_id", req.ID).
		Str("requested_by", req.RequesterName).
		Str("action", req.Action.Describe()).
		Str("reason", req.RiskReason).
		Msg("approval needed")
	return nil
}

func (n *LogNotifier) NotifyRequester(_ context.Context, recipientID, message string) error {
	n.log.Info().
		Str("recipient", recipientID).
		Str("message", message).
		Msg("notify requester")
	return nil
}
