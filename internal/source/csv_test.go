package source

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paystream/internal/domain"
	"paystream/internal/logging"
)

func readAll(t *testing.T, s *CSVSource) ([]domain.Record, error) {
	t.Helper()
	var records []domain.Record
	for {
		rec, err := s.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

func TestCSVSource_ReadsRecordsInOrder(t *testing.T) {
	input := strings.Join([]string{
		"type,client,tx,amount",
		"deposit,1,1,10.0",
		"withdrawal, 1, 2, 5",
		"dispute,1,1,",
		"resolve,1,1,",
		"chargeback,1,1,",
	}, "\n")

	src := NewCSVSource("test.csv", strings.NewReader(input), MalformedFatal, logging.Discard())
	records, err := readAll(t, src)
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, domain.TypeDeposit, records[0].Type)
	require.NotNil(t, records[0].Amount)
	assert.Equal(t, "10", records[0].Amount.String())

	assert.Equal(t, domain.TypeWithdrawal, records[1].Type)
	assert.Equal(t, uint16(1), records[1].Client)
	assert.Equal(t, uint32(2), records[1].Tx)

	for _, rec := range records[2:] {
		assert.Nil(t, rec.Amount)
	}
	assert.Equal(t, domain.TypeDispute, records[2].Type)
	assert.Equal(t, domain.TypeResolve, records[3].Type)
	assert.Equal(t, domain.TypeChargeback, records[4].Type)
}

func TestCSVSource_WithoutHeader(t *testing.T) {
	src := NewCSVSource("test.csv", strings.NewReader("deposit,5,9,1.25\n"), MalformedFatal, logging.Discard())

	records, err := readAll(t, src)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint16(5), records[0].Client)
	assert.Equal(t, uint32(9), records[0].Tx)
}

func TestCSVSource_ReferenceRowWithoutAmountColumn(t *testing.T) {
	src := NewCSVSource("test.csv", strings.NewReader("dispute,1,1\n"), MalformedFatal, logging.Discard())

	records, err := readAll(t, src)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Amount)
}

func TestCSVSource_MalformedRowsAreFatalByDefault(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing amount on deposit", "deposit,1,1,\n"},
		{"garbage amount", "deposit,1,1,abc\n"},
		{"negative amount", "withdrawal,1,1,-3\n"},
		{"bad client id", "deposit,notanumber,1,1\n"},
		{"client id overflow", "deposit,70000,1,1\n"},
		{"bad tx id", "deposit,1,x,1\n"},
		{"unknown type", "refund,1,1,1\n"},
		{"too few fields", "deposit,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewCSVSource("test.csv", strings.NewReader(tt.input), MalformedFatal, logging.Discard())
			_, err := readAll(t, src)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestCSVSource_SkipPolicyDropsMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		"type,client,tx,amount",
		"deposit,1,1,10",
		"deposit,1,2,",
		"refund,1,3,1",
		"withdrawal,1,4,2",
	}, "\n")

	src := NewCSVSource("test.csv", strings.NewReader(input), MalformedSkip, logging.Discard())
	records, err := readAll(t, src)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, uint32(1), records[0].Tx)
	assert.Equal(t, uint32(4), records[1].Tx)
}

func TestParseMalformedPolicy(t *testing.T) {
	policy, err := ParseMalformedPolicy("skip")
	require.NoError(t, err)
	assert.Equal(t, MalformedSkip, policy)

	_, err = ParseMalformedPolicy("lenient")
	require.Error(t, err)
}
