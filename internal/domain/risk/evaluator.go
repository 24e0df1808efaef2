// Package risk classifies actions before execution. Evaluation is a pure
// function over the action, the actor role and an optional monetary estimate;
// it touches no storage.
package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/domain/action"
	"github.com/adamugarba/thanledger/internal/domain/entity"
)

// Policy selects which of the two coexisting classification rules applies.
// The origin system carried both without composing them, so the choice is
// runtime configuration, not a hardcoded preference.
type Policy string

const (
	// PolicyRoleGated escalates every write action by a non-admin.
	PolicyRoleGated Policy = "role_gated"
	// PolicyThreshold escalates only oversized sales, price changes and
	// payment records above the configured limit.
	PolicyThreshold Policy = "threshold"
)

// Config parameterizes evaluation.
type Config struct {
	Policy    Policy
	SaleLimit decimal.Decimal // threshold policy: sale/payment value at or above this requires approval
}

// Verdict is the classification outcome.
type Verdict struct {
	RequiresApproval bool
	Reason           string
}

// Evaluate classifies an action for the given actor role. estimatedValue is
// the monetary size of the action when the caller can compute one (sale value,
// payment amount); pass decimal.Zero when unknown.
func Evaluate(cfg Config, a action.Action, actorRole string, estimatedValue decimal.Decimal) Verdict {
	if actorRole == entity.RoleAdmin {
		return Verdict{}
	}

	switch cfg.Policy {
	case PolicyThreshold:
		return evaluateThreshold(cfg, a, estimatedValue)
	default:
		// role_gated is the default: every member of the write set needs
		// admin approval when submitted by non-admin staff.
		if a.Kind.IsWrite() {
			return Verdict{
				RequiresApproval: true,
				Reason:           fmt.Sprintf("%s is a write action: staff submissions require admin approval", a.Kind),
			}
		}
		return Verdict{}
	}
}

func evaluateThreshold(cfg Config, a action.Action, estimatedValue decimal.Decimal) Verdict {
	switch {
	case a.Kind == action.KindUpdatePrice:
		return Verdict{
			RequiresApproval: true,
			Reason:           "price changes require admin approval",
		}
	case a.Kind.IsSale() && cfg.SaleLimit.GreaterThan(decimal.Zero) && estimatedValue.GreaterThanOrEqual(cfg.SaleLimit):
		return Verdict{
			RequiresApproval: true,
			Reason: fmt.Sprintf("sale value %s meets the approval limit %s",
				estimatedValue.String(), cfg.SaleLimit.String()),
		}
	case a.Kind == action.KindRecordPayment && cfg.SaleLimit.GreaterThan(decimal.Zero) && estimatedValue.GreaterThanOrEqual(cfg.SaleLimit):
		return Verdict{
			RequiresApproval: true,
			Reason: fmt.Sprintf("payment of %s meets the approval limit %s",
				estimatedValue.String(), cfg.SaleLimit.String()),
		}
	}
	return Verdict{}
}
