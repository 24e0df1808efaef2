package repository

import (
	"time"

	"github.com/adamugarba/thanledger/internal/domain/entity"
)

// ApprovalRepository is the durable pending-request log. Resolve flips exactly
// one pending row to a terminal status; when no pending row matches the id
// (already resolved or nonexistent) it returns domain.ErrNotFound, which is
// what guarantees at-most-one resolution per request.
type ApprovalRepository interface {
	Create(req *entity.ApprovalRequest) error
	Get(id string) (*entity.ApprovalRequest, error)
	ListPending() ([]*entity.ApprovalRequest, error)
	Resolve(id, status, resolvedBy string, at time.Time) error
}
