package repository

import "github.com/adamugarba/thanledger/internal/domain/entity"

// LedgerRepository is the append-only journal store. Entries are immutable
// once written.
type LedgerRepository interface {
	// CreateEntries appends all entries of one transaction atomically.
	CreateEntries(entries []*entity.LedgerEntry) error
	ListByTxn(txnID string) ([]*entity.LedgerEntry, error)
	// TxnExists reports whether any entry was already posted under txnID;
	// the posting service uses it to keep replays idempotent.
	TxnExists(txnID string) (bool, error)
	// AggregateByAccount reduces all entries into per-account totals.
	AggregateByAccount() ([]*entity.AccountBalance, error)
}
