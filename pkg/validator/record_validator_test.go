package validator

import (
	"testing"

	"github.com/shopspring/decimal"

	"paystream/internal/domain"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRecordValidator_ValidDeposit(t *testing.T) {
	v := NewRecordValidator()
	rec := &domain.Record{Type: domain.TypeDeposit, Client: 1, Tx: 1, Amount: amount("10.5")}

	err := v.ValidateRecord(rec)

	if err != nil {
		t.Fatalf("expected valid record, got err=%v", err)
	}
}

func TestRecordValidator_ValidDisputeWithoutAmount(t *testing.T) {
	v := NewRecordValidator()
	rec := &domain.Record{Type: domain.TypeDispute, Client: 1, Tx: 1}

	err := v.ValidateRecord(rec)

	if err != nil {
		t.Fatalf("expected valid record, got err=%v", err)
	}
}

func TestRecordValidator_MissingAmount(t *testing.T) {
	v := NewRecordValidator()
	rec := &domain.Record{Type: domain.TypeWithdrawal, Client: 1, Tx: 2}

	err := v.ValidateRecord(rec)

	if err == nil {
		t.Fatal("expected error for missing amount, got nil")
	}
}

func TestRecordValidator_NegativeAmount(t *testing.T) {
	v := NewRecordValidator()
	rec := &domain.Record{Type: domain.TypeDeposit, Client: 1, Tx: 3, Amount: amount("-1")}

	err := v.ValidateRecord(rec)

	if err == nil {
		t.Fatal("expected error for negative amount, got nil")
	}
}

func TestRecordValidator_ZeroAmount(t *testing.T) {
	v := NewRecordValidator()
	rec := &domain.Record{Type: domain.TypeDeposit, Client: 1, Tx: 4, Amount: amount("0")}

	err := v.ValidateRecord(rec)

	if err == nil {
		t.Fatal("expected error for zero amount, got nil")
	}
}

func TestRecordValidator_UnknownType(t *testing.T) {
	v := NewRecordValidator()
	rec := &domain.Record{Type: "refund", Client: 1, Tx: 5}

	err := v.ValidateRecord(rec)

	if err == nil {
		t.Fatal("expected error for unknown record type, got nil")
	}
}
