package repository

import (
	"errors"

	"paystream/internal/domain"
)

// AccountRepository is the keyed store of per-client account state. It is
// owned by the ledger engine and mutated only from the consumer goroutine,
// so implementations do not need to be safe for concurrent use.
type AccountRepository interface {
	GetOrCreate(client uint16) *domain.Account
	Get(client uint16) (*domain.Account, error)
	Clients() []uint16
	Len() int
}

// HistoryRepository is the append-only arena of accepted deposits and
// withdrawals, keyed by globally unique transaction id. Entries are never
// removed; disputes hold ids into this arena rather than copies.
type HistoryRepository interface {
	Append(entry *domain.HistoryEntry) error
	Get(tx uint32) (*domain.HistoryEntry, error)
	Contains(tx uint32) bool
	Len() int
}

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate entry")
)
