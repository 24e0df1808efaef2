// Package memory implements every repository port over in-process maps.
// It backs the usecase tests and the development mode (no DATABASE_URL).
// Repos hand out copies so callers observe the same read-your-own-write
// behavior as the SQL adapters, and than updates enforce the same optimistic
// version check.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
)

var _ repository.ThanRepository = (*ThanRepo)(nil)

// ThanRepo is the in-memory than table, keyed by (packageNo, thanNo).
type ThanRepo struct {
	mu   sync.RWMutex
	rows map[string]*entity.Than
}

// NewThanRepository builds an empty than table.
func NewThanRepository() *ThanRepo {
	return &ThanRepo{rows: make(map[string]*entity.Than)}
}

func thanKey(packageNo string, thanNo int) string {
	return fmt.Sprintf("%s/%d", packageNo, thanNo)
}

// Create inserts a row; the (packageNo, thanNo) pair must be unique.
func (r *ThanRepo) Create(than *entity.Than) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := thanKey(than.PackageNo, than.ThanNo)
	if _, exists := r.rows[key]; exists {
		return domain.ErrDuplicate
	}
	cp := *than
	if cp.Version == 0 {
		cp.Version = 1
	}
	r.rows[key] = &cp
	return nil
}

// Get returns a copy of the row, or nil when absent.
func (r *ThanRepo) Get(packageNo string, thanNo int) (*entity.Than, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.rows[thanKey(packageNo, thanNo)]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

// ListByPackage returns all rows of the package ordered by than number.
func (r *ThanRepo) ListByPackage(packageNo string) ([]*entity.Than, error) {
	return r.Find(entity.ThanFilter{PackageNo: packageNo})
}

// Find applies the filter; zero-valued fields are ignored.
func (r *ThanRepo) Find(filter entity.ThanFilter) ([]*entity.Than, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Than
	for _, t := range r.rows {
		if matches(t, filter) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PackageNo != out[j].PackageNo {
			return out[i].PackageNo < out[j].PackageNo
		}
		return out[i].ThanNo < out[j].ThanNo
	})
	return out, nil
}

func matches(t *entity.Than, f entity.ThanFilter) bool {
	if f.PackageNo != "" && t.PackageNo != f.PackageNo {
		return false
	}
	if f.Design != "" && t.Design != f.Design {
		return false
	}
	if f.Shade != "" && t.Shade != f.Shade {
		return false
	}
	if f.Warehouse != "" && t.Warehouse != f.Warehouse {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}

// Update writes the row iff the stored version matches the one the caller
// read, then bumps it. A mismatch is domain.ErrConflict.
func (r *ThanRepo) Update(than *entity.Than) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := thanKey(than.PackageNo, than.ThanNo)
	stored, ok := r.rows[key]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != than.Version {
		return domain.ErrConflict
	}
	cp := *than
	cp.Version++
	r.rows[key] = &cp
	than.Version = cp.Version
	return nil
}

// UpdatePriceWhere reprices every matching row regardless of status and
// returns the count.
func (r *ThanRepo) UpdatePriceWhere(filter entity.ThanFilter, newPrice decimal.Decimal) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.rows {
		if matches(t, filter) {
			t.PricePerYard = newPrice
			t.Version++
			n++
		}
	}
	return n, nil
}
