package repository

import (
	"context"
	"time"

	"OptionPulse/internal/domain/models"
)

// Gateway is the broker-facing contract: balance queries, candle
// retrieval, order placement and open-position listing. Calls are
// blocking; failures surface as *GatewayError.
type Gateway interface {
	Connect(ctx context.Context) error
	GetBalance(ctx context.Context) (float64, error)
	GetCandles(ctx context.Context, asset string, timeframe, count int, endTime time.Time) ([]models.Candle, error)
	GetAvailableAssets(ctx context.Context) ([]string, error)
	PlaceOrder(ctx context.Context, asset string, amount float64, direction models.Direction, expiration int) (models.OrderTicket, error)
	GetOpenPositions(ctx context.Context) ([]models.Position, error)
	SetBalanceType(balanceType string) error
	IsConnected() bool
	Close() error
}

// GatewayError wraps connectivity/auth/rate-limit failures from the broker.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return "gateway " + e.Op + ": " + e.Err.Error() }

func (e *GatewayError) Unwrap() error { return e.Err }

// Publisher exports trade records to a message broker.
type Publisher interface {
	Publish(ctx context.Context, rec *models.TradeRecord) error
	Close() error
}

// Storage exports trade records to a durable analytics store.
// The ledger never reads these back; export is write-only.
type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, rec *models.TradeRecord) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics is the instrumentation contract for the trading core.
type Metrics interface {
	RecordOrderPlaced(asset string, direction string)
	RecordError(kind string)
	RecordBalance(balance float64)
	RecordDailyPL(pct float64)
	RecordLatency(op string, seconds float64)
}
