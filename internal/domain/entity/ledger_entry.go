package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Chart of accounts used by the posting service.
const (
	AccountCash         = "1000" // Cash on hand
	AccountBank         = "1010" // Bank
	AccountReceivable   = "1100" // Customer Receivable
	AccountSalesRevenue = "4000" // Sales Revenue
)

// AccountName maps an account code to its display name.
func AccountName(code string) string {
	switch code {
	case AccountCash:
		return "Cash"
	case AccountBank:
		return "Bank"
	case AccountReceivable:
		return "Customer Receivable"
	case AccountSalesRevenue:
		return "Sales Revenue"
	}
	return code
}

// LedgerEntry is one immutable journal line. Exactly one of Debit/Credit is
// positive; entries sharing a TxnID always balance (sum of debits equals sum
// of credits).
type LedgerEntry struct {
	ID          string
	TxnID       string
	Date        time.Time
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Narration   string
	CreatedBy   string
	CreatedAt   time.Time
}

// AccountBalance is one trial balance row: per-account debit/credit totals.
type AccountBalance struct {
	AccountCode string
	AccountName string
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Balance     decimal.Decimal // TotalDebit - TotalCredit
}
