package memory

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo is the in-memory journal: an append-only slice.
type LedgerRepo struct {
	mu      sync.RWMutex
	entries []*entity.LedgerEntry
}

// NewLedgerRepository builds an empty journal.
func NewLedgerRepository() *LedgerRepo {
	return &LedgerRepo{}
}

// CreateEntries appends all entries of one transaction.
func (r *LedgerRepo) CreateEntries(entries []*entity.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		cp := *e
		r.entries = append(r.entries, &cp)
	}
	return nil
}

// ListByTxn returns the entries of one transaction.
func (r *LedgerRepo) ListByTxn(txnID string) ([]*entity.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.LedgerEntry
	for _, e := range r.entries {
		if e.TxnID == txnID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// All returns every entry in append order.
func (r *LedgerRepo) All() []*entity.LedgerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.LedgerEntry, 0, len(r.entries))
	for _, e := range r.entries {
		cp := *e
		out = append(out, &cp)
	}
	return out
}

// TxnExists reports whether any entry carries the txn id.
func (r *LedgerRepo) TxnExists(txnID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.TxnID == txnID {
			return true, nil
		}
	}
	return false, nil
}

// AggregateByAccount reduces all entries into per-account totals, ordered by
// account code.
func (r *LedgerRepo) AggregateByAccount() ([]*entity.AccountBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	index := map[string]*entity.AccountBalance{}
	for _, e := range r.entries {
		b, ok := index[e.AccountCode]
		if !ok {
			b = &entity.AccountBalance{
				AccountCode: e.AccountCode,
				TotalDebit:  decimal.Zero,
				TotalCredit: decimal.Zero,
			}
			index[e.AccountCode] = b
		}
		b.TotalDebit = b.TotalDebit.Add(e.Debit)
		b.TotalCredit = b.TotalCredit.Add(e.Credit)
	}
	var out []*entity.AccountBalance
	for _, b := range index {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out, nil
}
