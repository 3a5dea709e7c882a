package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paystream/internal/domain"
)

func snap(client uint16, available, held, total string, locked bool) domain.AccountSnapshot {
	return domain.AccountSnapshot{
		Client:    client,
		Available: decimal.RequireFromString(available),
		Held:      decimal.RequireFromString(held),
		Total:     decimal.RequireFromString(total),
		Locked:    locked,
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	err := WriteCSV(&buf, []domain.AccountSnapshot{
		snap(1, "1.5", "0", "1.5", false),
		snap(2, "-5", "0", "-5", true),
	}, 4)

	require.NoError(t, err)
	assert.Equal(t,
		"client,available,held,total,locked\n"+
			"1,1.5000,0.0000,1.5000,false\n"+
			"2,-5.0000,0.0000,-5.0000,true\n",
		buf.String())
}

func TestWriteCSV_EmptySnapshotStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer

	err := WriteCSV(&buf, nil, 4)

	require.NoError(t, err)
	assert.Equal(t, "client,available,held,total,locked\n", buf.String())
}

func TestWriteCSV_PrecisionControlsColumnWidth(t *testing.T) {
	var buf bytes.Buffer

	err := WriteCSV(&buf, []domain.AccountSnapshot{
		snap(3, "2.25", "0", "2.25", false),
	}, 2)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "3,2.25,0.00,2.25,false\n")
}
