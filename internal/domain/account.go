package domain

import (
	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	KindDeposit    EntryKind = "deposit"
	KindWithdrawal EntryKind = "withdrawal"
)

// HistoryEntry is an immutable record of an accepted deposit or withdrawal.
// Entries are appended once and never removed; disputes reference them by Tx.
// Reversed is set when a deposit has been charged back, which bars the entry
// from ever being disputed again.
type HistoryEntry struct {
	Tx       uint32
	Client   uint16
	Kind     EntryKind
	Amount   decimal.Decimal
	Reversed bool
}

// Account is the stored per-client state. Balances are not kept here:
// TotalCredits, TotalDebits and TotalReversed only ever grow, and the
// available/held/total figures are derived from them plus the amounts of the
// history entries referenced by OpenDisputes.
type Account struct {
	Client        uint16
	Locked        bool
	TotalCredits  decimal.Decimal
	TotalDebits   decimal.Decimal
	TotalReversed decimal.Decimal
	OpenDisputes  map[uint32]struct{}
}

func NewAccount(client uint16) *Account {
	return &Account{
		Client:       client,
		OpenDisputes: make(map[uint32]struct{}),
	}
}

func (a *Account) Disputed(tx uint32) bool {
	_, ok := a.OpenDisputes[tx]
	return ok
}

// AccountSnapshot is the derived state of one client account. Available,
// Held and Total are computed from transaction history and open disputes at
// query time, never stored.
type AccountSnapshot struct {
	Client    uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}
