package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"paystream/internal/domain"
	"paystream/pkg/validator"
)

// MalformedPolicy decides what a malformed row does to the run: abort it
// entirely, or skip the row and keep going. Fatal is the default.
type MalformedPolicy string

const (
	MalformedFatal MalformedPolicy = "fatal"
	MalformedSkip  MalformedPolicy = "skip"
)

func ParseMalformedPolicy(s string) (MalformedPolicy, error) {
	switch MalformedPolicy(s) {
	case MalformedFatal, MalformedSkip:
		return MalformedPolicy(s), nil
	}
	return "", fmt.Errorf("unknown malformed-record policy: %q", s)
}

// ErrMalformedRecord wraps every row-level decoding or validation failure.
var ErrMalformedRecord = errors.New("malformed record")

// CSVSource decodes transaction records from CSV input with columns
// type,client,tx,amount. Fields are whitespace-trimmed and a leading header
// row is skipped. Next returns io.EOF when the set is exhausted.
type CSVSource struct {
	name      string
	reader    *csv.Reader
	validator *validator.RecordValidator
	policy    MalformedPolicy
	logger    *slog.Logger
	started   bool
}

func NewCSVSource(name string, r io.Reader, policy MalformedPolicy, logger *slog.Logger) *CSVSource {
	if logger == nil {
		logger = slog.Default()
	}
	reader := csv.NewReader(r)
	// Reference records carry no amount and some producers drop the column
	// entirely, so the field count varies per row.
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	return &CSVSource{
		name:      name,
		reader:    reader,
		validator: validator.NewRecordValidator(),
		policy:    policy,
		logger:    logger,
	}
}

func (s *CSVSource) Name() string {
	return s.name
}

// Next returns the next record in the set. Malformed rows either fail the
// stream or are logged and skipped, per the configured policy. Stream-level
// read failures are always fatal.
func (s *CSVSource) Next() (domain.Record, error) {
	for {
		row, err := s.reader.Read()
		if err == io.EOF {
			return domain.Record{}, io.EOF
		}
		if err != nil {
			return domain.Record{}, fmt.Errorf("%s: %w", s.name, err)
		}

		if !s.started {
			s.started = true
			if isHeader(row) {
				continue
			}
		}

		rec, err := s.decode(row)
		if err != nil {
			line, _ := s.reader.FieldPos(0)
			if s.policy == MalformedSkip {
				s.logger.Warn("skipping malformed record",
					slog.String("source", s.name),
					slog.Int("line", line),
					slog.String("error", err.Error()))
				continue
			}
			return domain.Record{}, fmt.Errorf("%s: line %d: %w", s.name, line, err)
		}

		return rec, nil
	}
}

func (s *CSVSource) decode(row []string) (domain.Record, error) {
	fields := make([]string, len(row))
	for i, f := range row {
		fields[i] = strings.TrimSpace(f)
	}

	if len(fields) < 3 {
		return domain.Record{}, fmt.Errorf("%w: expected at least 3 fields, got %d", ErrMalformedRecord, len(fields))
	}

	client, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: client id %q", ErrMalformedRecord, fields[1])
	}

	tx, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: tx id %q", ErrMalformedRecord, fields[2])
	}

	rec := domain.Record{
		Type:   domain.RecordType(fields[0]),
		Client: uint16(client),
		Tx:     uint32(tx),
	}

	if len(fields) > 3 && fields[3] != "" {
		amount, err := decimal.NewFromString(fields[3])
		if err != nil {
			return domain.Record{}, fmt.Errorf("%w: amount %q", ErrMalformedRecord, fields[3])
		}
		rec.Amount = &amount
	}

	if err := s.validator.ValidateRecord(&rec); err != nil {
		return domain.Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	return rec, nil
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "type")
}
