package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo persists the append-only movement log and keeps the
// per-(item, branch) running balance in step inside one transaction.
type StockMovementRepo struct {
	pool *pgxpool.Pool
}

func NewStockMovementRepository(pool *pgxpool.Pool) *StockMovementRepo {
	return &StockMovementRepo{pool: pool}
}

// Append writes the movement and adjusts the running balance atomically.
func (r *StockMovementRepo) Append(mov *entity.StockMovement) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin stock tx: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO stock_movements (id, item_id, package_no, branch, movement_type, qty_in, qty_out, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.Exec(ctx, insert,
		mov.ID, mov.ItemID, mov.PackageNo, mov.Branch, mov.Type, mov.QtyIn, mov.QtyOut, mov.ReferenceID, mov.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}

	upsert := `
		INSERT INTO stock_levels (item_id, branch, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id, branch)
		DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	delta := mov.QtyIn.Sub(mov.QtyOut)
	if _, err := tx.Exec(ctx, upsert, mov.ItemID, mov.Branch, delta, mov.CreatedAt); err != nil {
		return fmt.Errorf("adjust stock level: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit stock tx: %w", err)
	}
	return nil
}

func (r *StockMovementRepo) ListByItem(itemID, branch string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, item_id, package_no, branch, movement_type, qty_in, qty_out, reference_id, created_at
		FROM stock_movements WHERE item_id = $1 AND branch = $2 ORDER BY created_at, id`
	rows, err := r.pool.Query(context.Background(), query, itemID, branch)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		err := rows.Scan(&m.ID, &m.ItemID, &m.PackageNo, &m.Branch, &m.Type, &m.QtyIn, &m.QtyOut,
			&m.ReferenceID, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// GetLevel returns the running balance; a missing row reads as zero.
func (r *StockMovementRepo) GetLevel(itemID, branch string) (*entity.StockLevel, error) {
	query := `SELECT item_id, branch, quantity, updated_at FROM stock_levels WHERE item_id = $1 AND branch = $2`
	var lvl entity.StockLevel
	err := r.pool.QueryRow(context.Background(), query, itemID, branch).
		Scan(&lvl.ItemID, &lvl.Branch, &lvl.Quantity, &lvl.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLevel{ItemID: itemID, Branch: branch, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &lvl, nil
}

// SumByItem is the full scan-and-reduce oracle over the raw movements.
func (r *StockMovementRepo) SumByItem(itemID, branch string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(qty_in - qty_out), 0)
		FROM stock_movements WHERE item_id = $1 AND branch = $2`
	var sum decimal.Decimal
	if err := r.pool.QueryRow(context.Background(), query, itemID, branch).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum stock movements: %w", err)
	}
	return sum, nil
}
