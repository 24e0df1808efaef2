package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/action"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
)

var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)

// ApprovalRepo persists pending approval requests. The captured action is
// stored as JSONB so the exact payload survives restarts.
type ApprovalRepo struct {
	q Querier
}

func NewApprovalRepository(q Querier) *ApprovalRepo {
	return &ApprovalRepo{q: q}
}

func (r *ApprovalRepo) Create(req *entity.ApprovalRequest) error {
	payload, err := action.Encode(req.Action)
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}
	query := `
		INSERT INTO approval_requests (id, requested_by, requester_name, action, risk_reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.q.Exec(context.Background(), query,
		req.ID, req.RequestedBy, req.RequesterName, payload, req.RiskReason, req.Status, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert approval request: %w", err)
	}
	return nil
}

func (r *ApprovalRepo) Get(id string) (*entity.ApprovalRequest, error) {
	query := `
		SELECT id, requested_by, requester_name, action, risk_reason, status, COALESCE(resolved_by, ''), created_at, resolved_at
		FROM approval_requests WHERE id = $1`
	req, err := scanApproval(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get approval request: %w", err)
	}
	return req, nil
}

func (r *ApprovalRepo) ListPending() ([]*entity.ApprovalRequest, error) {
	query := `
		SELECT id, requested_by, requester_name, action, risk_reason, status, COALESCE(resolved_by, ''), created_at, resolved_at
		FROM approval_requests WHERE status = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, entity.ApprovalStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending approvals: %w", err)
	}
	defer rows.Close()
	var list []*entity.ApprovalRequest
	for rows.Next() {
		req, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("scan approval request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// Resolve flips one pending row to a terminal status. The status guard in the
// WHERE clause makes a second resolution a no-op: zero rows affected maps to
// domain.ErrNotFound.
func (r *ApprovalRepo) Resolve(id, status, resolvedBy string, at time.Time) error {
	query := `
		UPDATE approval_requests
		SET status = $2, resolved_by = $3, resolved_at = $4
		WHERE id = $1 AND status = $5`
	tag, err := r.q.Exec(context.Background(), query, id, status, resolvedBy, at, entity.ApprovalStatusPending)
	if err != nil {
		return fmt.Errorf("resolve approval request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanApproval(row pgx.Row) (*entity.ApprovalRequest, error) {
	var (
		req     entity.ApprovalRequest
		payload string
	)
	err := row.Scan(
		&req.ID, &req.RequestedBy, &req.RequesterName, &payload, &req.RiskReason,
		&req.Status, &req.ResolvedBy, &req.CreatedAt, &req.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	act, err := action.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	req.Action = act
	return &req, nil
}
