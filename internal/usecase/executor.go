package usecase

import (
	"context"
	"sync"
	"time"

	"OptionPulse/internal/domain/models"
	domrepo "OptionPulse/internal/domain/repository"
	"OptionPulse/internal/ledger"
	applogger "OptionPulse/pkg/logger"
)

// ExecutorConfig holds the risk and signal parameters for one batch.
type ExecutorConfig struct {
	MaxBankFraction   float64
	StopLossFraction  float64
	StopGainFraction  float64
	StrengthThreshold float64
	MinTradeAmount    float64
	ExpirationMinutes int
}

// Executor orchestrates one execution batch: refresh the day ledger,
// enforce the daily stop, size entries, analyze each asset and submit
// orders for strong signals. Batches are serialized; two concurrent
// Execute calls never interleave their ledger updates.
type Executor struct {
	mu sync.Mutex

	gw       domrepo.Gateway
	ledger   *ledger.Ledger
	analyzer *Analyzer
	journal  *TradeJournal
	metrics  domrepo.Metrics
	log      *applogger.Logger
	cfg      ExecutorConfig
}

// NewExecutor creates the execution orchestrator.
func NewExecutor(
	gw domrepo.Gateway,
	led *ledger.Ledger,
	analyzer *Analyzer,
	journal *TradeJournal,
	metrics domrepo.Metrics,
	cfg ExecutorConfig,
	log *applogger.Logger,
) *Executor {
	return &Executor{
		gw:       gw,
		ledger:   led,
		analyzer: analyzer,
		journal:  journal,
		metrics:  metrics,
		log:      log,
		cfg:      cfg,
	}
}

// Execute runs one batch over the given assets. A triggered daily stop
// halts the whole batch before any order is considered. Per-asset
// failures do not abort the remaining assets.
func (e *Executor) Execute(ctx context.Context, assets []string) (*models.ExecutionReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	balance, err := e.gw.GetBalance(ctx)
	if err != nil {
		e.metrics.RecordError("balance")
		return nil, err
	}
	e.metrics.RecordBalance(balance)

	now := time.Now()
	if e.ledger.Rollover(now, balance) {
		e.log.Info("trading day rolled over",
			applogger.String("day", now.Format("2006-01-02")),
			applogger.Float64("opening_balance", balance))
	}
	e.ledger.RefreshBalance(balance)

	check := e.ledger.CheckStop(e.cfg.StopLossFraction, e.cfg.StopGainFraction)
	e.metrics.RecordDailyPL(check.PLPercent)
	if check.Triggered {
		e.log.Warn("daily stop active, batch halted",
			applogger.String("reason", string(check.Reason)),
			applogger.Float64("pl_percent", check.PLPercent))
		return &models.ExecutionReport{
			Status:     "stopped",
			StopReason: check.Reason,
			PLPercent:  check.PLPercent,
		}, nil
	}

	sizes := e.ledger.SizeEntries(assets, e.cfg.MaxBankFraction)
	outcomes := make([]models.TradeOutcome, 0, len(assets))
	for _, asset := range assets {
		outcomes = append(outcomes, e.executeOne(ctx, asset, sizes[asset]))
	}

	return &models.ExecutionReport{
		Status:    "executed",
		PLPercent: check.PLPercent,
		Trades:    outcomes,
	}, nil
}

func (e *Executor) executeOne(ctx context.Context, asset string, amount float64) models.TradeOutcome {
	if amount < e.cfg.MinTradeAmount {
		e.log.Debug("entry below minimum unit",
			applogger.String("asset", asset),
			applogger.Float64("amount", amount))
		return models.TradeOutcome{
			Asset:  asset,
			Status: models.OutcomeSkipped,
			Reason: models.SkipAmountTooSmall,
			Amount: amount,
		}
	}

	analysis, err := e.analyzer.Analyze(ctx, asset)
	if err != nil {
		e.metrics.RecordError("analyze")
		e.log.Error("analysis failed", applogger.String("asset", asset), applogger.Error(err))
		return models.TradeOutcome{
			Asset:   asset,
			Status:  models.OutcomeError,
			Amount:  amount,
			Message: err.Error(),
		}
	}

	fused := analysis.Overall
	if fused.Direction == models.DirectionNeutral || fused.Strength < e.cfg.StrengthThreshold {
		return models.TradeOutcome{
			Asset:    asset,
			Status:   models.OutcomeSkipped,
			Reason:   models.SkipNoStrongSignal,
			Amount:   amount,
			Strength: fused.Strength,
		}
	}

	ticket, err := e.gw.PlaceOrder(ctx, asset, amount, fused.Direction, e.cfg.ExpirationMinutes)
	if err != nil {
		e.metrics.RecordError("order")
		e.log.Error("order rejected",
			applogger.String("asset", asset),
			applogger.String("direction", string(fused.Direction)),
			applogger.Error(err))
		return models.TradeOutcome{
			Asset:     asset,
			Status:    models.OutcomeFailed,
			Direction: fused.Direction,
			Amount:    amount,
			Strength:  fused.Strength,
			Message:   err.Error(),
		}
	}

	id := e.ledger.RecordEntry(asset, amount, fused.Direction)
	e.ledger.MarkOrder(id, ticket.OrderID)
	e.metrics.RecordOrderPlaced(asset, string(fused.Direction))
	e.log.Info("order placed",
		applogger.String("asset", asset),
		applogger.String("direction", string(fused.Direction)),
		applogger.Float64("amount", amount),
		applogger.Float64("strength", fused.Strength),
		applogger.String("order_id", ticket.OrderID))

	return models.TradeOutcome{
		Asset:      asset,
		Status:     models.OutcomePlaced,
		Direction:  fused.Direction,
		Amount:     amount,
		Strength:   fused.Strength,
		Expiration: e.cfg.ExpirationMinutes,
		OrderID:    ticket.OrderID,
	}
}
