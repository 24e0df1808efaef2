// Package ledger posts balanced double-entry journal pairs for sales, returns
// and payments, and aggregates the trial balance.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
)

// PostingService writes journal pairs keyed by transaction id. Posting is
// idempotent per txnID: replaying an already-posted transaction is a no-op,
// which makes the post-commit effect pipeline safe to retry.
type PostingService struct {
	entries repository.LedgerRepository
}

// NewPostingService builds the service.
func NewPostingService(entries repository.LedgerRepository) *PostingService {
	return &PostingService{entries: entries}
}

// RecordSale posts {debit Customer Receivable, credit Sales Revenue} for
// yards x pricePerYard.
func (s *PostingService) RecordSale(customer string, yards, pricePerYard decimal.Decimal, txnID, createdBy string) error {
	return s.RecordSaleValue(customer, yards, yards.Mul(pricePerYard), txnID, createdBy)
}

// RecordSaleValue posts the sale pair for a precomputed total value; used for
// package and batch sales where thans may carry different per-yard prices.
func (s *PostingService) RecordSaleValue(customer string, yards, value decimal.Decimal, txnID, createdBy string) error {
	narration := fmt.Sprintf("sale of %syd to %s", yards.String(), customer)
	return s.postPair(txnID, entity.AccountReceivable, entity.AccountSalesRevenue, value, narration, createdBy)
}

// RecordReturn posts the reverse pair {debit Sales Revenue, credit Customer
// Receivable} for the returned value.
func (s *PostingService) RecordReturn(customer string, yards, pricePerYard decimal.Decimal, txnID, createdBy string) error {
	return s.RecordReturnValue(customer, yards, yards.Mul(pricePerYard), txnID, createdBy)
}

// RecordReturnValue posts the reverse pair for a precomputed total value.
func (s *PostingService) RecordReturnValue(customer string, yards, value decimal.Decimal, txnID, createdBy string) error {
	narration := fmt.Sprintf("return of %syd from %s", yards.String(), customer)
	return s.postPair(txnID, entity.AccountSalesRevenue, entity.AccountReceivable, value, narration, createdBy)
}

// RecordPaymentReceived posts {debit Cash/Bank, credit Customer Receivable}.
// method is "cash" or "bank".
func (s *PostingService) RecordPaymentReceived(customer string, amount decimal.Decimal, method, txnID, createdBy string) error {
	debitAccount := entity.AccountBank
	if method == "cash" {
		debitAccount = entity.AccountCash
	}
	narration := fmt.Sprintf("%s payment received from %s", method, customer)
	return s.postPair(txnID, debitAccount, entity.AccountReceivable, amount, narration, createdBy)
}

// postPair appends one balanced debit/credit pair under txnID. A transaction
// that already has entries is left untouched.
func (s *PostingService) postPair(txnID, debitAccount, creditAccount string, amount decimal.Decimal, narration, createdBy string) error {
	if !amount.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: ledger pair needs a positive amount", domain.ErrValidation)
	}
	exists, err := s.entries.TxnExists(txnID)
	if err != nil {
		return fmt.Errorf("check txn %s: %w", txnID, err)
	}
	if exists {
		return nil
	}
	now := time.Now()
	pair := []*entity.LedgerEntry{
		{
			ID:          uuid.New().String(),
			TxnID:       txnID,
			Date:        now,
			AccountCode: debitAccount,
			Debit:       amount,
			Credit:      decimal.Zero,
			Narration:   narration,
			CreatedBy:   createdBy,
			CreatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			TxnID:       txnID,
			Date:        now,
			AccountCode: creditAccount,
			Debit:       decimal.Zero,
			Credit:      amount,
			Narration:   narration,
			CreatedBy:   createdBy,
			CreatedAt:   now,
		},
	}
	if err := validateBalanced(pair); err != nil {
		return err
	}
	if err := s.entries.CreateEntries(pair); err != nil {
		return fmt.Errorf("post pair %s: %w", txnID, err)
	}
	return nil
}

// validateBalanced enforces sum(debit) == sum(credit) and debit XOR credit
// per entry before anything hits storage. Singletons never pass.
func validateBalanced(entries []*entity.LedgerEntry) error {
	if len(entries) < 2 {
		return fmt.Errorf("%w: a transaction needs a pair, not a singleton", domain.ErrValidation)
	}
	debits, credits := decimal.Zero, decimal.Zero
	for _, e := range entries {
		debitSet := e.Debit.GreaterThan(decimal.Zero)
		creditSet := e.Credit.GreaterThan(decimal.Zero)
		if debitSet == creditSet {
			return fmt.Errorf("%w: entry must carry exactly one of debit/credit", domain.ErrValidation)
		}
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}
	if !debits.Equal(credits) {
		return fmt.Errorf("%w: unbalanced transaction (debits %s, credits %s)", domain.ErrValidation, debits, credits)
	}
	return nil
}

// TrialBalance aggregates every entry into per-account debit/credit totals.
func (s *PostingService) TrialBalance() ([]*entity.AccountBalance, error) {
	balances, err := s.entries.AggregateByAccount()
	if err != nil {
		return nil, fmt.Errorf("trial balance: %w", err)
	}
	for _, b := range balances {
		b.AccountName = entity.AccountName(b.AccountCode)
		b.Balance = b.TotalDebit.Sub(b.TotalCredit)
	}
	return balances, nil
}

// EntriesByTxn returns the journal lines of one transaction.
func (s *PostingService) EntriesByTxn(txnID string) ([]*entity.LedgerEntry, error) {
	return s.entries.ListByTxn(txnID)
}
