package usecase

import (
	"context"
	"fmt"
	"time"

	"OptionPulse/internal/domain/models"
	drepo "OptionPulse/internal/domain/repository"
)

// TradeJournal routes closed trade records to the configured export
// backend. With backend "none" it swallows records silently; the ledger
// remains the only authority either way.
type TradeJournal struct {
	pub     drepo.Publisher
	store   drepo.Storage
	metrics drepo.Metrics
	backend string
}

// NewTradeJournal creates a new TradeJournal instance.
func NewTradeJournal(
	pub drepo.Publisher,
	store drepo.Storage,
	metrics drepo.Metrics,
	backend string,
) *TradeJournal {
	return &TradeJournal{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
	}
}

// Record exports a single trade record to the configured backend.
func (j *TradeJournal) Record(ctx context.Context, rec *models.TradeRecord) error {
	if rec == nil {
		return fmt.Errorf("trade record is nil")
	}

	start := time.Now()
	var err error

	switch j.backend {
	case "kafka":
		err = j.pub.Publish(ctx, rec)
	case "clickhouse":
		err = j.store.Store(ctx, rec)
	case "none":
		return nil
	default:
		err = fmt.Errorf("unknown backend: %s", j.backend)
	}

	if err != nil {
		j.metrics.RecordError("journal")
		return fmt.Errorf("journal trade: %w", err)
	}

	j.metrics.RecordLatency("journal", time.Since(start).Seconds())
	return nil
}

// Health pings the storage backend when one is configured.
func (j *TradeJournal) Health(ctx context.Context) error {
	if j.store != nil {
		return j.store.Health(ctx)
	}
	return nil
}

// Close closes underlying resources if available.
func (j *TradeJournal) Close() {
	if j.pub != nil {
		_ = j.pub.Close()
	}
	if j.store != nil {
		_ = j.store.Close()
	}
}
