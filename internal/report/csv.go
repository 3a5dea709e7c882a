package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"paystream/internal/domain"
)

// WriteCSV renders the final account snapshots as CSV with a fixed column
// order: client, available, held, total, locked. Snapshots are written in
// the order given; the engine hands them over sorted by client id, so output
// is deterministic and diffable.
func WriteCSV(w io.Writer, snapshots []domain.AccountSnapshot, precision int32) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}

	for _, snap := range snapshots {
		row := []string{
			strconv.FormatUint(uint64(snap.Client), 10),
			snap.Available.StringFixed(precision),
			snap.Held.StringFixed(precision),
			snap.Total.StringFixed(precision),
			strconv.FormatBool(snap.Locked),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
