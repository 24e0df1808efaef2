package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock movement types. Sales post quantity out; returns and purchases post
// quantity in. There is no transfer movement: warehouse moves mutate the than
// row only.
const (
	MovementSaleOut    = "sale_out"
	MovementReturnIn   = "return_in"
	MovementPurchaseIn = "purchase_in"
)

// StockMovement is one append-only record of quantity entering or leaving an
// (item, branch) pair. Available stock is the reduction sum(QtyIn) - sum(QtyOut).
type StockMovement struct {
	ID          string
	ItemID      string // design+shade natural key, see Than.ItemID
	PackageNo   string
	Branch      string
	Type        string
	QtyIn       decimal.Decimal
	QtyOut      decimal.Decimal
	ReferenceID string // txn id of the sale/return, or import reference
	CreatedAt   time.Time
}

// StockLevel is the materialized running balance per (item, branch), kept in
// step with every appended movement. The full scan over movements remains the
// verification oracle.
type StockLevel struct {
	ItemID    string
	Branch    string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
