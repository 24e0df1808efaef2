package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Than lifecycle states. Only two transitions exist:
// available --sell--> sold and sold --return--> available.
const (
	ThanStatusAvailable = "available"
	ThanStatusSold      = "sold"
)

// Than is the atomic inventory unit: one fabric piece with a fixed yard
// quantity. The pair (PackageNo, ThanNo) is unique. Yards never change after
// creation; Version guards read-then-write mutations (optimistic concurrency).
type Than struct {
	PackageNo    string
	ThanNo       int
	Design       string
	Shade        string
	Yards        decimal.Decimal
	Status       string
	Warehouse    string
	PricePerYard decimal.Decimal
	SoldTo       string
	SoldDate     *time.Time
	UpdatedAt    time.Time
	Version      int64
}

// ItemID is the natural stock-keeping key for the movement log:
// packageNo + "-" + design + "|" + shade.
func (t *Than) ItemID() string {
	return fmt.Sprintf("%s-%s|%s", t.PackageNo, t.Design, t.Shade)
}

// Value is yards x price per yard for this than.
func (t *Than) Value() decimal.Decimal {
	return t.Yards.Mul(t.PricePerYard)
}

// ThanFilter narrows inventory queries. Zero-valued fields are ignored.
type ThanFilter struct {
	PackageNo string
	Design    string
	Shade     string
	Warehouse string
	Status    string
}
