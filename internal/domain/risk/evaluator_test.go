package risk_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/adamugarba/thanledger/internal/domain/action"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/risk"
)

func sellAction() action.Action {
	return action.Action{
		Kind: action.KindSellPackage,
		Sell: &action.SellPayload{PackageNo: "5801", Customer: "Ibrahim"},
	}
}

// Role-gated policy: every write action by a non-admin is escalated,
// admins are always safe.
func TestEvaluate_RoleGated(t *testing.T) {
	cfg := risk.Config{Policy: risk.PolicyRoleGated}

	writes := []action.Kind{
		action.KindSellThan, action.KindSellPackage, action.KindSellBatch,
		action.KindReturnThan, action.KindReturnPackage,
		action.KindTransferThan, action.KindTransferPackage, action.KindTransferBatch,
		action.KindUpdatePrice, action.KindRecordPayment, action.KindAddCustomer,
	}
	for _, k := range writes {
		a := action.Action{Kind: k}
		v := risk.Evaluate(cfg, a, entity.RoleOperator, decimal.Zero)
		assert.True(t, v.RequiresApproval, "operator %s must require approval", k)
		assert.Contains(t, v.Reason, "admin approval", "reason must cite admin approval for %s", k)

		v = risk.Evaluate(cfg, a, entity.RoleAdmin, decimal.Zero)
		assert.False(t, v.RequiresApproval, "admin %s must be safe", k)
	}
}

// Threshold policy: only oversized sales/payments and price changes escalate.
func TestEvaluate_Threshold(t *testing.T) {
	cfg := risk.Config{Policy: risk.PolicyThreshold, SaleLimit: decimal.NewFromInt(100_000)}

	// Small sale by an operator: safe.
	v := risk.Evaluate(cfg, sellAction(), entity.RoleOperator, decimal.NewFromInt(30_000))
	assert.False(t, v.RequiresApproval)

	// Sale at the limit: escalated.
	v = risk.Evaluate(cfg, sellAction(), entity.RoleOperator, decimal.NewFromInt(100_000))
	assert.True(t, v.RequiresApproval)
	assert.Contains(t, v.Reason, "approval limit")

	// Price change always escalates for non-admins.
	price := action.Action{Kind: action.KindUpdatePrice, Price: &action.PricePayload{Design: "Ankara", NewPrice: decimal.NewFromInt(1200)}}
	v = risk.Evaluate(cfg, price, entity.RoleOperator, decimal.Zero)
	assert.True(t, v.RequiresApproval)

	// Returns and transfers are safe under the threshold variant.
	ret := action.Action{Kind: action.KindReturnThan, Return: &action.ReturnPayload{PackageNo: "5801", ThanNo: 1}}
	v = risk.Evaluate(cfg, ret, entity.RoleOperator, decimal.Zero)
	assert.False(t, v.RequiresApproval)

	// Oversized payment escalates.
	pay := action.Action{Kind: action.KindRecordPayment, Payment: &action.PaymentPayload{Customer: "Ibrahim", Amount: decimal.NewFromInt(250_000), Method: "bank"}}
	v = risk.Evaluate(cfg, pay, entity.RoleOperator, decimal.NewFromInt(250_000))
	assert.True(t, v.RequiresApproval)

	// Admins are safe regardless of size.
	v = risk.Evaluate(cfg, sellAction(), entity.RoleAdmin, decimal.NewFromInt(999_999))
	assert.False(t, v.RequiresApproval)
}
