package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a minimal counterparty record, created lazily the first time a
// sale or payment references the name. Payments decrement the outstanding
// balance, floored at zero.
type Customer struct {
	ID                 string
	Name               string
	OutstandingBalance decimal.Decimal
	CreditLimit        decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
