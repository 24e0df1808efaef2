package memory

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo is the in-memory movement log plus its running balances.
type StockMovementRepo struct {
	mu        sync.Mutex
	movements []*entity.StockMovement
	levels    map[string]*entity.StockLevel
}

// NewStockMovementRepository builds an empty log.
func NewStockMovementRepository() *StockMovementRepo {
	return &StockMovementRepo{levels: make(map[string]*entity.StockLevel)}
}

func levelKey(itemID, branch string) string { return itemID + "@" + branch }

// Append records the movement and adjusts the running balance in one step.
func (r *StockMovementRepo) Append(mov *entity.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *mov
	r.movements = append(r.movements, &cp)

	key := levelKey(mov.ItemID, mov.Branch)
	level, ok := r.levels[key]
	if !ok {
		level = &entity.StockLevel{ItemID: mov.ItemID, Branch: mov.Branch, Quantity: decimal.Zero}
		r.levels[key] = level
	}
	level.Quantity = level.Quantity.Add(mov.QtyIn).Sub(mov.QtyOut)
	level.UpdatedAt = time.Now()
	return nil
}

// ListByItem returns movements for (itemID, branch) in append order.
func (r *StockMovementRepo) ListByItem(itemID, branch string) ([]*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.ItemID == itemID && m.Branch == branch {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

// GetLevel returns the running balance; a missing pair reads as zero.
func (r *StockMovementRepo) GetLevel(itemID, branch string) (*entity.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	level, ok := r.levels[levelKey(itemID, branch)]
	if !ok {
		return &entity.StockLevel{ItemID: itemID, Branch: branch, Quantity: decimal.Zero}, nil
	}
	cp := *level
	return &cp, nil
}

// SumByItem is the scan-and-reduce oracle over the raw movements.
func (r *StockMovementRepo) SumByItem(itemID, branch string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.ItemID == itemID && m.Branch == branch {
			sum = sum.Add(m.QtyIn).Sub(m.QtyOut)
		}
	}
	return sum, nil
}
