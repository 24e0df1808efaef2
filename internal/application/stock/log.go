// Package stock maintains the append-only movement log. The stock level per
// (item, branch) is a derived reduction over movements; reads use the
// materialized running balance, the full scan stays available as an oracle.
package stock

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
	"github.com/adamugarba/thanledger/pkg/logger"
)

// Log appends movements and serves level reads.
type Log struct {
	movements repository.StockMovementRepository
	log       *logger.Logger
}

// NewLog builds the movement log service.
func NewLog(movements repository.StockMovementRepository, log *logger.Logger) *Log {
	return &Log{movements: movements, log: log}
}

// RecordSaleOut appends a sale_out movement (quantity leaving the branch).
func (l *Log) RecordSaleOut(itemID, packageNo, branch string, qty decimal.Decimal, referenceID string) error {
	return l.append(entity.MovementSaleOut, itemID, packageNo, branch, decimal.Zero, qty, referenceID)
}

// RecordReturnIn appends a return_in movement (quantity re-entering).
func (l *Log) RecordReturnIn(itemID, packageNo, branch string, qty decimal.Decimal, referenceID string) error {
	return l.append(entity.MovementReturnIn, itemID, packageNo, branch, qty, decimal.Zero, referenceID)
}

// RecordPurchaseIn appends a purchase_in movement (bulk import intake).
func (l *Log) RecordPurchaseIn(itemID, packageNo, branch string, qty decimal.Decimal, referenceID string) error {
	return l.append(entity.MovementPurchaseIn, itemID, packageNo, branch, qty, decimal.Zero, referenceID)
}

func (l *Log) append(movType, itemID, packageNo, branch string, qtyIn, qtyOut decimal.Decimal, referenceID string) error {
	if itemID == "" || branch == "" {
		return fmt.Errorf("%w: movement needs item and branch", domain.ErrValidation)
	}
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ItemID:      itemID,
		PackageNo:   packageNo,
		Branch:      branch,
		Type:        movType,
		QtyIn:       qtyIn,
		QtyOut:      qtyOut,
		ReferenceID: referenceID,
		CreatedAt:   time.Now(),
	}
	if err := l.movements.Append(mov); err != nil {
		return fmt.Errorf("append %s movement: %w", movType, err)
	}
	// The log records facts; it never blocks a sale. A negative balance means
	// intake movements were not imported for this item and is worth surfacing.
	if level, err := l.movements.GetLevel(itemID, branch); err == nil && level.Quantity.IsNegative() {
		l.log.Warn().
			Str("item", itemID).
			Str("branch", branch).
			Str("quantity", level.Quantity.String()).
			Msg("stock level negative after movement")
	}
	return nil
}

// Stock returns the running balance for (itemID, branch).
func (l *Log) Stock(itemID, branch string) (decimal.Decimal, error) {
	level, err := l.movements.GetLevel(itemID, branch)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock level %s/%s: %w", itemID, branch, err)
	}
	return level.Quantity, nil
}

// ComputeStock is the scan-and-reduce over raw movements. It exists as the
// verification oracle for the running balance and for audits.
func (l *Log) ComputeStock(itemID, branch string) (decimal.Decimal, error) {
	sum, err := l.movements.SumByItem(itemID, branch)
	if err != nil {
		return decimal.Zero, fmt.Errorf("compute stock %s/%s: %w", itemID, branch, err)
	}
	return sum, nil
}

// Movements lists the raw movement rows for (itemID, branch).
func (l *Log) Movements(itemID, branch string) ([]*entity.StockMovement, error) {
	return l.movements.ListByItem(itemID, branch)
}
