package domain

import (
	"github.com/shopspring/decimal"
)

type RecordType string

const (
	TypeDeposit    RecordType = "deposit"
	TypeWithdrawal RecordType = "withdrawal"
	TypeDispute    RecordType = "dispute"
	TypeResolve    RecordType = "resolve"
	TypeChargeback RecordType = "chargeback"
)

// ParseRecordType maps a wire value to a RecordType. Unknown values are
// returned as-is with ok=false so callers can report what they saw.
func ParseRecordType(s string) (RecordType, bool) {
	switch RecordType(s) {
	case TypeDeposit, TypeWithdrawal, TypeDispute, TypeResolve, TypeChargeback:
		return RecordType(s), true
	}
	return RecordType(s), false
}

// Record is one ingested transaction record. Tx identifies the transaction
// globally; for dispute/resolve/chargeback it references an earlier deposit
// or withdrawal. Amount is set only for deposit and withdrawal.
type Record struct {
	Type   RecordType
	Client uint16
	Tx     uint32
	Amount *decimal.Decimal
}

func (r Record) RequiresAmount() bool {
	return r.Type == TypeDeposit || r.Type == TypeWithdrawal
}
