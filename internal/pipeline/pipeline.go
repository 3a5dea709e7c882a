package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"paystream/internal/domain"
	"paystream/internal/ledger"
	"paystream/pkg/metrics"
)

const DefaultCapacity = 256

// Source produces an ordered, finite sequence of records. Next returns
// io.EOF once the set is exhausted; any other error is fatal for the run.
type Source interface {
	Name() string
	Next() (domain.Record, error)
}

// Pipeline connects one producer reading a Source to one consumer feeding
// the ledger engine, through a bounded channel. The channel capacity is a
// small constant, so in-flight memory stays O(capacity) regardless of input
// size: the producer blocks when the consumer falls behind.
type Pipeline struct {
	engine    *ledger.Engine
	capacity  int
	collector *metrics.Collector
	logger    *slog.Logger
}

func New(engine *ledger.Engine, capacity int, collector *metrics.Collector, logger *slog.Logger) *Pipeline {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		engine:    engine,
		capacity:  capacity,
		collector: collector,
		logger:    logger,
	}
}

// Run drains one record set through the engine. Records reach Apply in
// exactly the order the source produced them; nothing else touches the
// engine while Run is in flight. A fatal error on either side cancels the
// other and aborts the run. Sets must be run one at a time — later sets may
// reference transactions established by earlier ones.
func (p *Pipeline) Run(ctx context.Context, src Source) error {
	start := time.Now()
	logger := p.logger.With(
		slog.String("run_id", uuid.NewString()),
		slog.String("source", src.Name()))

	relay := make(chan domain.Record, p.capacity)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(relay)
		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			rec, err := src.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("record source: %w", err)
			}

			select {
			case relay <- rec:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	g.Go(func() error {
		applied := 0
		for rec := range relay {
			outcome := p.engine.Apply(rec)
			p.collector.RecordOutcome(string(outcome))
			applied++
		}
		logger.Info("record set drained",
			slog.Int("records", applied),
			slog.Duration("took", time.Since(start)))
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("run aborted", slog.String("error", err.Error()))
		return err
	}

	p.collector.ObserveRun(time.Since(start))
	p.collector.SetAccountsTracked(p.engine.AccountCount())
	return nil
}
