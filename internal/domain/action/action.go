// Package action defines the fixed set of inventory actions as a tagged
// union. The union is what the approval queue serializes: a replayed action
// carries exactly the payload captured at enqueue time, with no runtime shape
// assumptions.
package action

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/domain"
)

// Kind enumerates the supported action kinds.
type Kind string

const (
	KindSellThan        Kind = "sell_than"
	KindSellPackage     Kind = "sell_package"
	KindSellBatch       Kind = "sell_batch"
	KindReturnThan      Kind = "return_than"
	KindReturnPackage   Kind = "return_package"
	KindTransferThan    Kind = "transfer_than"
	KindTransferPackage Kind = "transfer_package"
	KindTransferBatch   Kind = "transfer_batch"
	KindUpdatePrice     Kind = "update_price"
	KindRecordPayment   Kind = "record_payment"
	KindAddCustomer     Kind = "add_customer"
)

// writeKinds is the WRITE_ACTIONS set used by the risk evaluator. Every
// supported kind mutates state, so all of them are members.
var writeKinds = map[Kind]bool{
	KindSellThan: true, KindSellPackage: true, KindSellBatch: true,
	KindReturnThan: true, KindReturnPackage: true,
	KindTransferThan: true, KindTransferPackage: true, KindTransferBatch: true,
	KindUpdatePrice: true, KindRecordPayment: true, KindAddCustomer: true,
}

// IsWrite reports whether the kind belongs to the WRITE_ACTIONS set.
func (k Kind) IsWrite() bool { return writeKinds[k] }

// IsSale reports whether the kind is a sale variant.
func (k Kind) IsSale() bool {
	return k == KindSellThan || k == KindSellPackage || k == KindSellBatch
}

// Action is the tagged union. Kind selects which payload pointer is set;
// Validate enforces the correspondence.
type Action struct {
	Kind     Kind             `json:"kind"`
	Sell     *SellPayload     `json:"sell,omitempty"`
	Return   *ReturnPayload   `json:"return,omitempty"`
	Transfer *TransferPayload `json:"transfer,omitempty"`
	Price    *PricePayload    `json:"price,omitempty"`
	Payment  *PaymentPayload  `json:"payment,omitempty"`
	Customer *CustomerPayload `json:"customer,omitempty"`
}

// SellPayload covers sell_than (PackageNo+ThanNo), sell_package (PackageNo)
// and sell_batch (Packages).
type SellPayload struct {
	PackageNo string   `json:"package_no,omitempty"`
	ThanNo    int      `json:"than_no,omitempty"`
	Packages  []string `json:"packages,omitempty"`
	Customer  string   `json:"customer"`
}

// ReturnPayload covers return_than and return_package.
type ReturnPayload struct {
	PackageNo string `json:"package_no"`
	ThanNo    int    `json:"than_no,omitempty"`
}

// TransferPayload covers transfer_than, transfer_package and transfer_batch.
type TransferPayload struct {
	PackageNo   string   `json:"package_no,omitempty"`
	ThanNo      int      `json:"than_no,omitempty"`
	Packages    []string `json:"packages,omitempty"`
	ToWarehouse string   `json:"to_warehouse"`
}

// PricePayload filters by package and/or design+shade; every matching row is
// repriced regardless of status.
type PricePayload struct {
	PackageNo string          `json:"package_no,omitempty"`
	Design    string          `json:"design,omitempty"`
	Shade     string          `json:"shade,omitempty"`
	NewPrice  decimal.Decimal `json:"new_price"`
}

// PaymentPayload records a customer payment.
type PaymentPayload struct {
	Customer string          `json:"customer"`
	Amount   decimal.Decimal `json:"amount"`
	Method   string          `json:"method"` // cash | bank
}

// CustomerPayload creates a customer explicitly.
type CustomerPayload struct {
	Name        string          `json:"name"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// Validate checks that the payload matching the kind is present and complete.
func (a Action) Validate() error {
	switch a.Kind {
	case KindSellThan:
		if a.Sell == nil || a.Sell.PackageNo == "" || a.Sell.ThanNo <= 0 || a.Sell.Customer == "" {
			return fmt.Errorf("%w: sell_than needs package, than and customer", domain.ErrValidation)
		}
	case KindSellPackage:
		if a.Sell == nil || a.Sell.PackageNo == "" || a.Sell.Customer == "" {
			return fmt.Errorf("%w: sell_package needs package and customer", domain.ErrValidation)
		}
	case KindSellBatch:
		if a.Sell == nil || len(a.Sell.Packages) == 0 || a.Sell.Customer == "" {
			return fmt.Errorf("%w: sell_batch needs packages and customer", domain.ErrValidation)
		}
	case KindReturnThan:
		if a.Return == nil || a.Return.PackageNo == "" || a.Return.ThanNo <= 0 {
			return fmt.Errorf("%w: return_than needs package and than", domain.ErrValidation)
		}
	case KindReturnPackage:
		if a.Return == nil || a.Return.PackageNo == "" {
			return fmt.Errorf("%w: return_package needs package", domain.ErrValidation)
		}
	case KindTransferThan:
		if a.Transfer == nil || a.Transfer.PackageNo == "" || a.Transfer.ThanNo <= 0 || a.Transfer.ToWarehouse == "" {
			return fmt.Errorf("%w: transfer_than needs package, than and destination warehouse", domain.ErrValidation)
		}
	case KindTransferPackage:
		if a.Transfer == nil || a.Transfer.PackageNo == "" || a.Transfer.ToWarehouse == "" {
			return fmt.Errorf("%w: transfer_package needs package and destination warehouse", domain.ErrValidation)
		}
	case KindTransferBatch:
		if a.Transfer == nil || len(a.Transfer.Packages) == 0 || a.Transfer.ToWarehouse == "" {
			return fmt.Errorf("%w: transfer_batch needs packages and destination warehouse", domain.ErrValidation)
		}
	case KindUpdatePrice:
		if a.Price == nil || (a.Price.PackageNo == "" && a.Price.Design == "" && a.Price.Shade == "") {
			return fmt.Errorf("%w: update_price needs a package or design/shade filter", domain.ErrValidation)
		}
		if !a.Price.NewPrice.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: update_price needs a positive price", domain.ErrValidation)
		}
	case KindRecordPayment:
		if a.Payment == nil || a.Payment.Customer == "" || !a.Payment.Amount.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: record_payment needs customer and positive amount", domain.ErrValidation)
		}
		if m := a.Payment.Method; m != "cash" && m != "bank" {
			return fmt.Errorf("%w: payment method must be cash or bank", domain.ErrValidation)
		}
	case KindAddCustomer:
		if a.Customer == nil || a.Customer.Name == "" {
			return fmt.Errorf("%w: add_customer needs a name", domain.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown action kind %q", domain.ErrValidation, a.Kind)
	}
	return nil
}

// Describe renders a short human summary for chat prompts and narrations.
func (a Action) Describe() string {
	switch a.Kind {
	case KindSellThan:
		return fmt.Sprintf("sell than %d of package %s to %s", a.Sell.ThanNo, a.Sell.PackageNo, a.Sell.Customer)
	case KindSellPackage:
		return fmt.Sprintf("sell package %s to %s", a.Sell.PackageNo, a.Sell.Customer)
	case KindSellBatch:
		return fmt.Sprintf("sell packages %s to %s", strings.Join(a.Sell.Packages, ", "), a.Sell.Customer)
	case KindReturnThan:
		return fmt.Sprintf("return than %d of package %s", a.Return.ThanNo, a.Return.PackageNo)
	case KindReturnPackage:
		return fmt.Sprintf("return package %s", a.Return.PackageNo)
	case KindTransferThan:
		return fmt.Sprintf("transfer than %d of package %s to %s", a.Transfer.ThanNo, a.Transfer.PackageNo, a.Transfer.ToWarehouse)
	case KindTransferPackage:
		return fmt.Sprintf("transfer package %s to %s", a.Transfer.PackageNo, a.Transfer.ToWarehouse)
	case KindTransferBatch:
		return fmt.Sprintf("transfer packages %s to %s", strings.Join(a.Transfer.Packages, ", "), a.Transfer.ToWarehouse)
	case KindUpdatePrice:
		return fmt.Sprintf("update price to %s (package=%q design=%q shade=%q)",
			a.Price.NewPrice.String(), a.Price.PackageNo, a.Price.Design, a.Price.Shade)
	case KindRecordPayment:
		return fmt.Sprintf("record %s payment of %s from %s", a.Payment.Method, a.Payment.Amount.String(), a.Payment.Customer)
	case KindAddCustomer:
		return fmt.Sprintf("add customer %s", a.Customer.Name)
	}
	return string(a.Kind)
}

// Encode serializes the action for durable storage in the approval queue.
func Encode(a Action) (string, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode action: %w", err)
	}
	return string(b), nil
}

// Decode restores an action from its stored form and re-validates the shape.
func Decode(payload string) (Action, error) {
	var a Action
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return Action{}, fmt.Errorf("decode action: %w", err)
	}
	if err := a.Validate(); err != nil {
		return Action{}, err
	}
	return a, nil
}
