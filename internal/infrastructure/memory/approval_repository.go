package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
)

var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)

// ApprovalRepo is the in-memory approval queue.
type ApprovalRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.ApprovalRequest
}

// NewApprovalRepository builds an empty queue.
func NewApprovalRepository() *ApprovalRepo {
	return &ApprovalRepo{rows: make(map[string]*entity.ApprovalRequest)}
}

// Create appends a request.
func (r *ApprovalRepo) Create(req *entity.ApprovalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[req.ID]; exists {
		return domain.ErrDuplicate
	}
	cp := *req
	r.rows[req.ID] = &cp
	return nil
}

// Get returns a copy of the request, or nil when absent.
func (r *ApprovalRepo) Get(id string) (*entity.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

// ListPending returns open requests oldest first.
func (r *ApprovalRepo) ListPending() ([]*entity.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ApprovalRequest
	for _, req := range r.rows {
		if req.Status == entity.ApprovalStatusPending {
			cp := *req
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Resolve flips exactly one pending row to a terminal status. When the row is
// absent or already resolved it returns domain.ErrNotFound — the single-
// resolution guarantee.
func (r *ApprovalRepo) Resolve(id, status, resolvedBy string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.rows[id]
	if !ok || req.Status != entity.ApprovalStatusPending {
		return domain.ErrNotFound
	}
	req.Status = status
	req.ResolvedBy = resolvedBy
	req.ResolvedAt = &at
	return nil
}
