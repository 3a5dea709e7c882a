package ledger

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"paystream/internal/domain"
	"paystream/internal/repository"
)

// Outcome classifies the effect of applying one record. Rejections and
// ignored references are ordinary outcomes, not errors: the engine is total
// over malformed references so a single bad record never aborts the stream.
type Outcome string

const (
	OutcomeAccepted          Outcome = "accepted"
	OutcomeDuplicateTx       Outcome = "duplicate_tx"
	OutcomeInsufficientFunds Outcome = "insufficient_funds"
	OutcomeDisputeOpened     Outcome = "dispute_opened"
	OutcomeDisputeResolved   Outcome = "dispute_resolved"
	OutcomeChargeback        Outcome = "chargeback"
	OutcomeIgnoredRef        Outcome = "ignored_reference"
	OutcomeLockedRejected    Outcome = "locked_rejected"
)

const DefaultPrecision int32 = 4

// Options tune engine behavior. The zero value gives the defaults: locked
// accounts reject everything, snapshots rounded to 4 decimal places.
type Options struct {
	LockedPolicy LockedPolicy
	Precision    int32
}

// Engine owns all per-client account state and the transaction history
// arena. Apply is called once per record, strictly in arrival order, from a
// single goroutine; nothing here is safe for concurrent use.
type Engine struct {
	accounts  repository.AccountRepository
	history   repository.HistoryRepository
	locked    LockedPolicy
	precision int32
	logger    *slog.Logger
}

func NewEngine(
	accounts repository.AccountRepository,
	history repository.HistoryRepository,
	opts Options,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.LockedPolicy == "" {
		opts.LockedPolicy = LockedRejectAll
	}
	if opts.Precision == 0 {
		opts.Precision = DefaultPrecision
	}
	return &Engine{
		accounts:  accounts,
		history:   history,
		locked:    opts.LockedPolicy,
		precision: opts.Precision,
		logger:    logger,
	}
}

// Apply runs one record through the state machine and reports what happened.
// It never fails: every malformed reference (unknown tx, wrong client, bad
// dispute state) is absorbed as a no-op outcome.
func (e *Engine) Apply(rec domain.Record) Outcome {
	account := e.accounts.GetOrCreate(rec.Client)

	if account.Locked && e.locked == LockedRejectAll {
		e.logger.Debug("record rejected, account locked",
			slog.Uint64("client", uint64(rec.Client)),
			slog.Uint64("tx", uint64(rec.Tx)),
			slog.String("type", string(rec.Type)))
		return OutcomeLockedRejected
	}

	var outcome Outcome
	switch rec.Type {
	case domain.TypeDeposit:
		outcome = e.applyDeposit(account, rec)
	case domain.TypeWithdrawal:
		outcome = e.applyWithdrawal(account, rec)
	case domain.TypeDispute:
		outcome = e.applyDispute(account, rec)
	case domain.TypeResolve:
		outcome = e.applyResolve(account, rec)
	case domain.TypeChargeback:
		outcome = e.applyChargeback(account, rec)
	default:
		outcome = OutcomeIgnoredRef
	}

	e.logger.Debug("record applied",
		slog.String("type", string(rec.Type)),
		slog.Uint64("client", uint64(rec.Client)),
		slog.Uint64("tx", uint64(rec.Tx)),
		slog.String("outcome", string(outcome)))
	return outcome
}

func (e *Engine) applyDeposit(account *domain.Account, rec domain.Record) Outcome {
	if e.history.Contains(rec.Tx) {
		return OutcomeDuplicateTx
	}

	if err := e.history.Append(&domain.HistoryEntry{
		Tx:     rec.Tx,
		Client: rec.Client,
		Kind:   domain.KindDeposit,
		Amount: *rec.Amount,
	}); err != nil {
		return OutcomeDuplicateTx
	}

	account.TotalCredits = account.TotalCredits.Add(*rec.Amount)
	return OutcomeAccepted
}

func (e *Engine) applyWithdrawal(account *domain.Account, rec domain.Record) Outcome {
	if e.history.Contains(rec.Tx) {
		return OutcomeDuplicateTx
	}

	// A rejected withdrawal leaves no trace: no history entry, no balance
	// change. Rejection is a policy outcome, not a failure.
	if e.available(account).LessThan(*rec.Amount) {
		return OutcomeInsufficientFunds
	}

	if err := e.history.Append(&domain.HistoryEntry{
		Tx:     rec.Tx,
		Client: rec.Client,
		Kind:   domain.KindWithdrawal,
		Amount: *rec.Amount,
	}); err != nil {
		return OutcomeDuplicateTx
	}

	account.TotalDebits = account.TotalDebits.Add(*rec.Amount)
	return OutcomeAccepted
}

func (e *Engine) applyDispute(account *domain.Account, rec domain.Record) Outcome {
	entry, err := e.history.Get(rec.Tx)
	if err != nil {
		return OutcomeIgnoredRef
	}
	if entry.Client != rec.Client || entry.Reversed || account.Disputed(rec.Tx) {
		return OutcomeIgnoredRef
	}

	account.OpenDisputes[rec.Tx] = struct{}{}
	return OutcomeDisputeOpened
}

func (e *Engine) applyResolve(account *domain.Account, rec domain.Record) Outcome {
	if !account.Disputed(rec.Tx) {
		return OutcomeIgnoredRef
	}

	delete(account.OpenDisputes, rec.Tx)
	return OutcomeDisputeResolved
}

func (e *Engine) applyChargeback(account *domain.Account, rec domain.Record) Outcome {
	if !account.Disputed(rec.Tx) {
		return OutcomeIgnoredRef
	}

	// Every id in the dispute set came through applyDispute, so the history
	// entry must exist and belong to this client.
	entry, err := e.history.Get(rec.Tx)
	if err != nil {
		return OutcomeIgnoredRef
	}

	delete(account.OpenDisputes, rec.Tx)
	account.Locked = true

	// Only charged-back deposits move money: the funds leave the account for
	// good. A charged-back withdrawal already left, so the lock is the whole
	// effect. Reversal is tracked as its own monotonic sum so credits and
	// debits stay append-only.
	if entry.Kind == domain.KindDeposit {
		account.TotalReversed = account.TotalReversed.Add(entry.Amount)
		entry.Reversed = true
	}

	e.logger.Info("account locked by chargeback",
		slog.Uint64("client", uint64(rec.Client)),
		slog.Uint64("tx", uint64(rec.Tx)))
	return OutcomeChargeback
}

// held sums the amounts of open disputed deposits. Disputed withdrawals
// contribute nothing. Dispute sets are tiny in practice (a client rarely has
// more than a couple open at once), so the linear scan is fine.
func (e *Engine) held(account *domain.Account) decimal.Decimal {
	held := decimal.Zero
	for tx := range account.OpenDisputes {
		entry, err := e.history.Get(tx)
		if err != nil {
			continue
		}
		if entry.Kind == domain.KindDeposit {
			held = held.Add(entry.Amount)
		}
	}
	return held
}

// available may go negative: disputing a deposit whose funds were already
// withdrawn leaves the client owing the difference.
func (e *Engine) available(account *domain.Account) decimal.Decimal {
	return account.TotalCredits.
		Sub(account.TotalDebits).
		Sub(account.TotalReversed).
		Sub(e.held(account))
}

// Snapshot derives the current balances for one client. Cost is linear in
// the size of that client's open-dispute set.
func (e *Engine) Snapshot(client uint16) (domain.AccountSnapshot, error) {
	account, err := e.accounts.Get(client)
	if err != nil {
		return domain.AccountSnapshot{}, err
	}
	return e.snapshot(account), nil
}

// Snapshots returns every known account in ascending client order.
func (e *Engine) Snapshots() []domain.AccountSnapshot {
	clients := e.accounts.Clients()
	out := make([]domain.AccountSnapshot, 0, len(clients))
	for _, client := range clients {
		account, err := e.accounts.Get(client)
		if err != nil {
			continue
		}
		out = append(out, e.snapshot(account))
	}
	return out
}

// AccountCount reports how many client accounts exist.
func (e *Engine) AccountCount() int {
	return e.accounts.Len()
}

func (e *Engine) snapshot(account *domain.Account) domain.AccountSnapshot {
	available := e.available(account)
	held := e.held(account)
	return domain.AccountSnapshot{
		Client:    account.Client,
		Available: available.Round(e.precision),
		Held:      held.Round(e.precision),
		Total:     available.Add(held).Round(e.precision),
		Locked:    account.Locked,
	}
}
