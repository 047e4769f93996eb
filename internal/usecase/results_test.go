package usecase

import (
	"context"
	"testing"
	"time"

	"OptionPulse/internal/domain/models"
	"OptionPulse/internal/ledger"
)

func TestResultsCheckerSettlesClosedPositions(t *testing.T) {
	gw := &fakeGateway{
		balance: 1000,
		positions: []models.Position{
			{Asset: "EURUSD", Status: "closed", Direction: models.DirectionCall, Amount: 100, Win: true, Profit: 87},
			{Asset: "GBPUSD", Status: "open", Direction: models.DirectionPut, Amount: 100},
		},
	}
	led := ledger.New()
	led.Rollover(time.Now(), 1000)
	led.RecordEntry("EURUSD", 100, models.DirectionCall)

	journal := NewTradeJournal(nil, nil, nopMetrics{}, "none")
	rc := NewResultsChecker(gw, led, journal, nopMetrics{}, time.Second, testLogger(t))

	if err := rc.CheckOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := led.Snapshot()
	stats := snap.Assets["EURUSD"]
	if stats.Trades != 1 || stats.Wins != 1 || stats.ProfitLoss != 87 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if _, ok := snap.Assets["GBPUSD"]; ok {
		t.Fatalf("open positions must not be settled")
	}
	if snap.Trades[0].Result != models.ResultWin {
		t.Fatalf("pending trade must be closed as WIN, got %+v", snap.Trades[0])
	}
}

func TestResultsCheckerLoss(t *testing.T) {
	gw := &fakeGateway{
		balance: 1000,
		positions: []models.Position{
			{Asset: "EURUSD", Status: "closed", Direction: models.DirectionPut, Amount: 50, Win: false, Profit: -50},
		},
	}
	led := ledger.New()
	led.Rollover(time.Now(), 1000)

	rc := NewResultsChecker(gw, led, nil, nopMetrics{}, time.Second, testLogger(t))
	if err := rc.CheckOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := led.Snapshot().Assets["EURUSD"]
	if stats.Losses != 1 || stats.ProfitLoss != -50 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
