package validator

import (
	"errors"
	"fmt"

	"paystream/internal/domain"
)

var (
	ErrUnknownType   = errors.New("unknown record type")
	ErrMissingAmount = errors.New("missing required amount")
	ErrInvalidAmount = errors.New("invalid record amount")
)

// RecordValidator checks decoded records against the data contract: a known
// record type, and a positive amount on every deposit and withdrawal. It does
// not touch reference integrity (unknown tx ids, wrong clients) — those are
// absorbed further down by the ledger engine, not reported here.
type RecordValidator struct{}

func NewRecordValidator() *RecordValidator {
	return &RecordValidator{}
}

func (v *RecordValidator) ValidateRecord(rec *domain.Record) error {
	var errs []error

	if _, ok := domain.ParseRecordType(string(rec.Type)); !ok {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownType, rec.Type))
	}

	if rec.RequiresAmount() {
		if rec.Amount == nil {
			errs = append(errs, fmt.Errorf("%w: %s tx %d", ErrMissingAmount, rec.Type, rec.Tx))
		} else if rec.Amount.Sign() <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidAmount, rec.Amount))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %v", errs)
	}

	return nil
}
