package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo is the append-only journal store. It holds the pool directly
// because CreateEntries opens its own transaction.
type LedgerRepo struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// CreateEntries appends all entries of one transaction atomically.
func (r *LedgerRepo) CreateEntries(entries []*entity.LedgerEntry) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO ledger_entries (id, txn_id, entry_date, account_code, debit, credit, narration, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, e := range entries {
		_, err := tx.Exec(ctx, query,
			e.ID, e.TxnID, e.Date, e.AccountCode, e.Debit, e.Credit, e.Narration, e.CreatedBy, e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert ledger entry: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}
	return nil
}

func (r *LedgerRepo) ListByTxn(txnID string) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, txn_id, entry_date, account_code, debit, credit, narration, created_by, created_at
		FROM ledger_entries WHERE txn_id = $1 ORDER BY created_at, id`
	rows, err := r.pool.Query(context.Background(), query, txnID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		err := rows.Scan(&e.ID, &e.TxnID, &e.Date, &e.AccountCode, &e.Debit, &e.Credit,
			&e.Narration, &e.CreatedBy, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// TxnExists reports whether any entry was already posted under txnID.
func (r *LedgerRepo) TxnExists(txnID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE txn_id = $1)`
	if err := r.pool.QueryRow(context.Background(), query, txnID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check txn: %w", err)
	}
	return exists, nil
}

// AggregateByAccount reduces all entries into per-account totals.
func (r *LedgerRepo) AggregateByAccount() ([]*entity.AccountBalance, error) {
	query := `
		SELECT account_code, COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM ledger_entries GROUP BY account_code ORDER BY account_code`
	rows, err := r.pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("aggregate ledger: %w", err)
	}
	defer rows.Close()
	var list []*entity.AccountBalance
	for rows.Next() {
		var b entity.AccountBalance
		if err := rows.Scan(&b.AccountCode, &b.TotalDebit, &b.TotalCredit); err != nil {
			return nil, fmt.Errorf("scan account balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
