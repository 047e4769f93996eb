package usecase

import (
	"context"
	"time"

	"OptionPulse/internal/domain/models"
	domrepo "OptionPulse/internal/domain/repository"
	"OptionPulse/internal/ledger"
	applogger "OptionPulse/pkg/logger"
)

// ResultsChecker polls the gateway for closed positions and settles them
// in the ledger and journal. The gateway stops reporting a position once
// it has been consumed, so each closed position is recorded once.
type ResultsChecker struct {
	gw       domrepo.Gateway
	ledger   *ledger.Ledger
	journal  *TradeJournal
	metrics  domrepo.Metrics
	log      *applogger.Logger
	interval time.Duration
}

// NewResultsChecker creates a results poller.
func NewResultsChecker(
	gw domrepo.Gateway,
	led *ledger.Ledger,
	journal *TradeJournal,
	metrics domrepo.Metrics,
	interval time.Duration,
	log *applogger.Logger,
) *ResultsChecker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ResultsChecker{
		gw:       gw,
		ledger:   led,
		journal:  journal,
		metrics:  metrics,
		log:      log,
		interval: interval,
	}
}

// Run polls until the context is cancelled.
func (rc *ResultsChecker) Run(ctx context.Context) {
	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rc.CheckOnce(ctx); err != nil {
				rc.metrics.RecordError("results")
				rc.log.Warn("results check failed", applogger.Error(err))
			}
		}
	}
}

// CheckOnce fetches positions and settles every closed one. Returns the
// gateway error, if any; settlement itself does not fail.
func (rc *ResultsChecker) CheckOnce(ctx context.Context) error {
	if !rc.gw.IsConnected() {
		return nil
	}

	positions, err := rc.gw.GetOpenPositions(ctx)
	if err != nil {
		return err
	}

	for _, p := range positions {
		if p.Status != "closed" {
			continue
		}

		result := models.ResultLoss
		if p.Win {
			result = models.ResultWin
		}
		rec := rc.ledger.RecordResult(p.Asset, p.Amount, p.Direction, result, p.Profit)
		rc.log.Info("trade settled",
			applogger.String("asset", p.Asset),
			applogger.String("result", string(result)),
			applogger.Float64("profit", p.Profit))

		if rc.journal != nil {
			if err := rc.journal.Record(ctx, &rec); err != nil {
				rc.log.Warn("journal export failed",
					applogger.String("asset", p.Asset), applogger.Error(err))
			}
		}
	}
	return nil
}
