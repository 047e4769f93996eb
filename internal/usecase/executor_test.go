package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"OptionPulse/internal/domain/models"
	drepo "OptionPulse/internal/domain/repository"
	"OptionPulse/internal/indicator"
	"OptionPulse/internal/ledger"
	applogger "OptionPulse/pkg/logger"
)

type placedOrder struct {
	asset     string
	amount    float64
	direction models.Direction
}

type fakeGateway struct {
	balance     float64
	candles     map[string][]models.Candle
	candleErr   map[string]error
	positions   []models.Position
	assets      []string
	orderErr    error
	candleCalls int
	orders      []placedOrder
}

func (f *fakeGateway) Connect(ctx context.Context) error { return nil }

func (f *fakeGateway) GetBalance(ctx context.Context) (float64, error) { return f.balance, nil }

func (f *fakeGateway) GetCandles(ctx context.Context, asset string, timeframe, count int, endTime time.Time) ([]models.Candle, error) {
	f.candleCalls++
	if err := f.candleErr[asset]; err != nil {
		return nil, err
	}
	return f.candles[asset], nil
}

func (f *fakeGateway) GetAvailableAssets(ctx context.Context) ([]string, error) {
	return f.assets, nil
}

func (f *fakeGateway) PlaceOrder(ctx context.Context, asset string, amount float64, direction models.Direction, expiration int) (models.OrderTicket, error) {
	if f.orderErr != nil {
		return models.OrderTicket{}, f.orderErr
	}
	f.orders = append(f.orders, placedOrder{asset: asset, amount: amount, direction: direction})
	return models.OrderTicket{OrderID: "ord-1"}, nil
}

func (f *fakeGateway) GetOpenPositions(ctx context.Context) ([]models.Position, error) {
	return f.positions, nil
}

func (f *fakeGateway) SetBalanceType(balanceType string) error { return nil }

func (f *fakeGateway) IsConnected() bool { return true }

func (f *fakeGateway) Close() error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordOrderPlaced(asset, direction string) {}
func (nopMetrics) RecordError(kind string)                   {}
func (nopMetrics) RecordBalance(balance float64)             {}
func (nopMetrics) RecordDailyPL(pct float64)                 {}
func (nopMetrics) RecordLatency(op string, seconds float64)  {}

var _ drepo.Gateway = (*fakeGateway)(nil)
var _ drepo.Metrics = nopMetrics{}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func bar(o, h, lo, c, v float64) models.Candle {
	return models.Candle{Open: o, High: h, Low: lo, Close: c, Volume: v}
}

// bullishSeries is two bars only, so RSI and MACD sit out and both
// remaining indicators vote CALL: engulfing pattern plus a volume spike
// on a bullish bar. Fused strength is 100.
func bullishSeries() []models.Candle {
	return []models.Candle{
		bar(1.10, 1.105, 1.075, 1.08, 100),
		bar(1.07, 1.115, 1.065, 1.11, 400),
	}
}

func flatTwoBars() []models.Candle {
	return []models.Candle{
		bar(1.10, 1.10, 1.10, 1.10, 100),
		bar(1.10, 1.10, 1.10, 1.10, 100),
	}
}

func newTestExecutor(t *testing.T, gw *fakeGateway) (*Executor, *ledger.Ledger) {
	t.Helper()
	log := testLogger(t)
	led := ledger.New()
	engine := indicator.NewEngine(indicator.DefaultConfig())
	analyzer := NewAnalyzer(gw, engine, nil, 0, 60, 100, log)
	journal := NewTradeJournal(nil, nil, nopMetrics{}, "none")
	cfg := ExecutorConfig{
		MaxBankFraction:   0.20,
		StopLossFraction:  0.40,
		StopGainFraction:  0.50,
		StrengthThreshold: 60,
		MinTradeAmount:    1,
		ExpirationMinutes: 1,
	}
	return NewExecutor(gw, led, analyzer, journal, nopMetrics{}, cfg, log), led
}

func TestExecutePlacesOrderOnStrongSignal(t *testing.T) {
	gw := &fakeGateway{
		balance: 1000,
		candles: map[string][]models.Candle{"EURUSD": bullishSeries()},
	}
	ex, led := newTestExecutor(t, gw)

	report, err := ex.Execute(context.Background(), []string{"EURUSD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Stopped() {
		t.Fatalf("batch must not be stopped: %+v", report)
	}
	if len(report.Trades) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(report.Trades))
	}
	out := report.Trades[0]
	if out.Status != models.OutcomePlaced || out.Direction != models.DirectionCall {
		t.Fatalf("expected placed CALL, got %+v", out)
	}
	if out.Amount != 200 {
		t.Fatalf("expected 20%% of 1000, got %v", out.Amount)
	}
	if len(gw.orders) != 1 || gw.orders[0].asset != "EURUSD" {
		t.Fatalf("expected one gateway order, got %+v", gw.orders)
	}

	snap := led.Snapshot()
	if len(snap.Trades) != 1 || snap.Trades[0].Result != models.ResultPending {
		t.Fatalf("expected one pending ledger trade, got %+v", snap.Trades)
	}
	if snap.Trades[0].OrderID != "ord-1" {
		t.Fatalf("expected order id on the ledger record, got %+v", snap.Trades[0])
	}
}

func TestExecuteSkipsAmountTooSmall(t *testing.T) {
	gw := &fakeGateway{
		balance: 0.5,
		candles: map[string][]models.Candle{"EURUSD": bullishSeries()},
	}
	ex, _ := newTestExecutor(t, gw)

	report, err := ex.Execute(context.Background(), []string{"EURUSD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := report.Trades[0]
	if out.Status != models.OutcomeSkipped || out.Reason != models.SkipAmountTooSmall {
		t.Fatalf("expected amount-too-small skip, got %+v", out)
	}
	// A skipped asset never reaches the broker, not even for candles.
	if gw.candleCalls != 0 || len(gw.orders) != 0 {
		t.Fatalf("gateway must not be called for a skipped asset")
	}
}

func TestExecuteSkipsWeakSignal(t *testing.T) {
	gw := &fakeGateway{
		balance: 1000,
		candles: map[string][]models.Candle{"EURUSD": flatTwoBars()},
	}
	ex, _ := newTestExecutor(t, gw)

	report, err := ex.Execute(context.Background(), []string{"EURUSD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := report.Trades[0]
	if out.Status != models.OutcomeSkipped || out.Reason != models.SkipNoStrongSignal {
		t.Fatalf("expected no-strong-signal skip, got %+v", out)
	}
	if len(gw.orders) != 0 {
		t.Fatalf("no order must be placed on a weak signal")
	}
}

func TestExecuteContinuesAfterAssetFailure(t *testing.T) {
	gw := &fakeGateway{
		balance: 1000,
		candles: map[string][]models.Candle{"GOOD": bullishSeries()},
		candleErr: map[string]error{
			"BAD": &drepo.GatewayError{Op: "get_candles", Err: errors.New("boom")},
		},
	}
	ex, _ := newTestExecutor(t, gw)

	report, err := ex.Execute(context.Background(), []string{"BAD", "GOOD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Trades) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(report.Trades))
	}
	if report.Trades[0].Status != models.OutcomeError {
		t.Fatalf("expected error outcome for BAD, got %+v", report.Trades[0])
	}
	if report.Trades[1].Status != models.OutcomePlaced {
		t.Fatalf("a failing asset must not abort the batch, got %+v", report.Trades[1])
	}
}

func TestExecuteHaltsOnDailyStop(t *testing.T) {
	gw := &fakeGateway{
		balance: 1000,
		candles: map[string][]models.Candle{"EURUSD": bullishSeries()},
	}
	ex, _ := newTestExecutor(t, gw)

	if _, err := ex.Execute(context.Background(), []string{"EURUSD"}); err != nil {
		t.Fatalf("first batch: %v", err)
	}

	// Down 42% on the same day: the stop trips before any analysis.
	gw.balance = 580
	gw.candleCalls = 0
	report, err := ex.Execute(context.Background(), []string{"EURUSD"})
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if !report.Stopped() || report.StopReason != models.StopLoss {
		t.Fatalf("expected stop-loss halt, got %+v", report)
	}
	if len(report.Trades) != 0 || gw.candleCalls != 0 {
		t.Fatalf("a stopped batch must not touch any asset")
	}
}
