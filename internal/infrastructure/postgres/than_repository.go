package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
)

var _ repository.ThanRepository = (*ThanRepo)(nil)

// ThanRepo implements ThanRepository over PostgreSQL (usable with pool or tx).
type ThanRepo struct {
	q Querier
}

// NewThanRepository builds the adapter. Pass a pool or tx (Querier).
func NewThanRepository(q Querier) *ThanRepo {
	return &ThanRepo{q: q}
}

const thanColumns = `package_no, than_no, design, shade, yards, status, warehouse,
		price_per_yard, sold_to, sold_date, updated_at, version`

func scanThan(row pgx.Row) (*entity.Than, error) {
	var t entity.Than
	err := row.Scan(
		&t.PackageNo, &t.ThanNo, &t.Design, &t.Shade, &t.Yards, &t.Status, &t.Warehouse,
		&t.PricePerYard, &t.SoldTo, &t.SoldDate, &t.UpdatedAt, &t.Version,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a than row; (package_no, than_no) is the primary key.
func (r *ThanRepo) Create(than *entity.Than) error {
	query := `
		INSERT INTO thans (package_no, than_no, design, shade, yards, status, warehouse,
			price_per_yard, sold_to, sold_date, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1)`
	_, err := r.q.Exec(context.Background(), query,
		than.PackageNo, than.ThanNo, than.Design, than.Shade, than.Yards, than.Status,
		than.Warehouse, than.PricePerYard, than.SoldTo, than.SoldDate, than.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert than: %w", err)
	}
	return nil
}

// Get fetches one than row, nil when absent.
func (r *ThanRepo) Get(packageNo string, thanNo int) (*entity.Than, error) {
	query := `SELECT ` + thanColumns + ` FROM thans WHERE package_no = $1 AND than_no = $2`
	t, err := scanThan(r.q.QueryRow(context.Background(), query, packageNo, thanNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get than: %w", err)
	}
	return t, nil
}

// ListByPackage lists all thans of one package ordered by than number.
func (r *ThanRepo) ListByPackage(packageNo string) ([]*entity.Than, error) {
	return r.Find(entity.ThanFilter{PackageNo: packageNo})
}

// Find lists thans matching the filter; zero-valued fields are ignored.
func (r *ThanRepo) Find(filter entity.ThanFilter) ([]*entity.Than, error) {
	where, args := filterClause(filter)
	query := `SELECT ` + thanColumns + ` FROM thans` + where + ` ORDER BY package_no, than_no`
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("find thans: %w", err)
	}
	defer rows.Close()
	var list []*entity.Than
	for rows.Next() {
		t, err := scanThan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan than: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update writes the row guarded by the version read by the caller; a version
// mismatch (concurrent writer won) surfaces as domain.ErrConflict.
func (r *ThanRepo) Update(than *entity.Than) error {
	query := `
		UPDATE thans
		SET status = $3, warehouse = $4, price_per_yard = $5, sold_to = $6,
			sold_date = $7, updated_at = $8, version = version + 1
		WHERE package_no = $1 AND than_no = $2 AND version = $9`
	tag, err := r.q.Exec(context.Background(), query,
		than.PackageNo, than.ThanNo, than.Status, than.Warehouse, than.PricePerYard,
		than.SoldTo, than.SoldDate, than.UpdatedAt, than.Version,
	)
	if err != nil {
		return fmt.Errorf("update than: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	than.Version++
	return nil
}

// UpdatePriceWhere reprices every matching row regardless of status and
// returns the number of rows touched.
func (r *ThanRepo) UpdatePriceWhere(filter entity.ThanFilter, newPrice decimal.Decimal) (int, error) {
	where, args := filterClause(filter)
	args = append(args, newPrice)
	query := fmt.Sprintf(`UPDATE thans SET price_per_yard = $%d, version = version + 1, updated_at = now()%s`,
		len(args), where)
	tag, err := r.q.Exec(context.Background(), query, args...)
	if err != nil {
		return 0, fmt.Errorf("update price: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// filterClause builds the WHERE clause for a ThanFilter.
func filterClause(f entity.ThanFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("package_no", f.PackageNo)
	add("design", f.Design)
	add("shade", f.Shade)
	add("warehouse", f.Warehouse)
	add("status", f.Status)
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
