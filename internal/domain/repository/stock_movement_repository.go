package repository

import (
	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/domain/entity"
)

// StockMovementRepository is the append-only movement log plus its
// materialized running balance. Append writes the movement and adjusts the
// (item, branch) level in the same atomic step.
type StockMovementRepository interface {
	Append(mov *entity.StockMovement) error
	ListByItem(itemID, branch string) ([]*entity.StockMovement, error)
	// GetLevel returns the running balance; a missing row reads as zero.
	GetLevel(itemID, branch string) (*entity.StockLevel, error)
	// SumByItem is the full scan-and-reduce oracle over the raw movements.
	SumByItem(itemID, branch string) (decimal.Decimal, error)
}
