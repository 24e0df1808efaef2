package ledger_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamugarba/thanledger/internal/application/ledger"
	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/infrastructure/memory"
)

func newService() *ledger.PostingService {
	return ledger.NewPostingService(memory.NewLedgerRepository())
}

func TestRecordSale_PostsBalancedPair(t *testing.T) {
	s := newService()
	require.NoError(t, s.RecordSale("Bala", decimal.NewFromInt(30), decimal.NewFromInt(1000), "txn-1", "Adamu"))

	entries, err := s.EntriesByTxn("txn-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	debits, credits := decimal.Zero, decimal.Zero
	for _, e := range entries {
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
		// debit XOR credit per line
		assert.True(t, e.Debit.IsZero() != e.Credit.IsZero())
	}
	assert.True(t, debits.Equal(credits))
	assert.True(t, debits.Equal(decimal.NewFromInt(30000)))

	assert.Equal(t, entity.AccountReceivable, entries[0].AccountCode)
	assert.Equal(t, entity.AccountSalesRevenue, entries[1].AccountCode)
}

func TestRecordSale_ReplaySameTxnIsNoOp(t *testing.T) {
	s := newService()
	require.NoError(t, s.RecordSale("Bala", decimal.NewFromInt(10), decimal.NewFromInt(100), "txn-1", "Adamu"))
	require.NoError(t, s.RecordSale("Bala", decimal.NewFromInt(10), decimal.NewFromInt(100), "txn-1", "Adamu"))

	entries, err := s.EntriesByTxn("txn-1")
	require.NoError(t, err)
	assert.Len(t, entries, 2, "a replayed txn id must not double-post")
}

func TestRecordReturn_ReversesTheSalePair(t *testing.T) {
	s := newService()
	require.NoError(t, s.RecordSale("Bala", decimal.NewFromInt(10), decimal.NewFromInt(100), "txn-sale", "Adamu"))
	require.NoError(t, s.RecordReturn("Bala", decimal.NewFromInt(10), decimal.NewFromInt(100), "txn-ret", "Adamu"))

	balances, err := s.TrialBalance()
	require.NoError(t, err)
	for _, b := range balances {
		assert.True(t, b.Balance.IsZero(), "account %s should net to zero, got %s", b.AccountCode, b.Balance)
	}
}

func TestRecordPaymentReceived_CashVersusBank(t *testing.T) {
	s := newService()
	require.NoError(t, s.RecordPaymentReceived("Bala", decimal.NewFromInt(500), "cash", "txn-1", "Adamu"))
	require.NoError(t, s.RecordPaymentReceived("Bala", decimal.NewFromInt(700), "bank", "txn-2", "Adamu"))

	balances, err := s.TrialBalance()
	require.NoError(t, err)
	byCode := map[string]*entity.AccountBalance{}
	for _, b := range balances {
		byCode[b.AccountCode] = b
	}
	require.Contains(t, byCode, entity.AccountCash)
	require.Contains(t, byCode, entity.AccountBank)
	assert.True(t, byCode[entity.AccountCash].TotalDebit.Equal(decimal.NewFromInt(500)))
	assert.True(t, byCode[entity.AccountBank].TotalDebit.Equal(decimal.NewFromInt(700)))
	assert.True(t, byCode[entity.AccountReceivable].TotalCredit.Equal(decimal.NewFromInt(1200)))
}

func TestPostPair_RejectsNonPositiveAmount(t *testing.T) {
	s := newService()
	err := s.RecordSaleValue("Bala", decimal.Zero, decimal.Zero, "txn-1", "Adamu")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	err = s.RecordSaleValue("Bala", decimal.NewFromInt(1), decimal.NewFromInt(-5), "txn-2", "Adamu")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestTrialBalance_NamesAndNets(t *testing.T) {
	s := newService()
	require.NoError(t, s.RecordSale("Bala", decimal.NewFromInt(10), decimal.NewFromInt(100), "txn-1", "Adamu"))

	balances, err := s.TrialBalance()
	require.NoError(t, err)
	require.Len(t, balances, 2)
	for _, b := range balances {
		assert.NotEmpty(t, b.AccountName)
		assert.True(t, b.Balance.Equal(b.TotalDebit.Sub(b.TotalCredit)))
	}
}
