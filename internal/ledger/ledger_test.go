package ledger

import (
	"math"
	"testing"
	"time"

	"OptionPulse/internal/domain/models"
)

func newDayLedger(opening float64) *Ledger {
	l := New()
	l.Rollover(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), opening)
	return l
}

func TestBalanceInvariant(t *testing.T) {
	l := newDayLedger(1000)

	for _, balance := range []float64{1000, 1080, 950.25, 950.25, 1200} {
		l.RefreshBalance(balance)
		snap := l.Snapshot()
		if got := snap.CurrentBalance - snap.OpeningBalance; math.Abs(got-snap.RealizedPL) > 1e-9 {
			t.Fatalf("invariant broken after refresh to %v: current-opening=%v realized=%v",
				balance, got, snap.RealizedPL)
		}
	}
}

func TestStopLossTriggers(t *testing.T) {
	l := newDayLedger(1000)
	l.RefreshBalance(580) // down 42%

	check := l.CheckStop(0.40, 0.50)
	if !check.Triggered || check.Reason != models.StopLoss {
		t.Fatalf("expected stop-loss at -42%%, got %+v", check)
	}
	if math.Abs(check.PLPercent-(-42)) > 1e-9 {
		t.Fatalf("expected pl_pct -42, got %v", check.PLPercent)
	}
}

func TestStopGainTriggers(t *testing.T) {
	l := newDayLedger(1000)
	l.RefreshBalance(1500)

	check := l.CheckStop(0.40, 0.50)
	if !check.Triggered || check.Reason != models.StopGain {
		t.Fatalf("expected stop-gain at +50%%, got %+v", check)
	}
}

func TestStopIsSticky(t *testing.T) {
	l := newDayLedger(1000)
	l.RefreshBalance(580)
	if check := l.CheckStop(0.40, 0.50); !check.Triggered {
		t.Fatalf("expected stop to trigger first")
	}

	// Balance recovers above the threshold, stop must hold.
	l.RefreshBalance(990)
	check := l.CheckStop(0.40, 0.50)
	if !check.Triggered || check.Reason != models.StopLoss {
		t.Fatalf("stop must stay triggered until rollover, got %+v", check)
	}
}

func TestStopZeroOpeningBalance(t *testing.T) {
	l := newDayLedger(0)
	l.RefreshBalance(0)

	check := l.CheckStop(0.40, 0.50)
	if check.Triggered || check.PLPercent != 0 {
		t.Fatalf("zero opening balance must yield pl_pct 0 and no stop, got %+v", check)
	}
}

func TestSizeEntriesEvenSplit(t *testing.T) {
	l := newDayLedger(1000)

	sizes := l.SizeEntries([]string{"EURUSD", "GBPUSD"}, 0.20)
	if sizes["EURUSD"] != 100 || sizes["GBPUSD"] != 100 {
		t.Fatalf("expected 100 per asset, got %v", sizes)
	}
}

func TestSizeEntriesFloorsToCents(t *testing.T) {
	l := newDayLedger(1000)

	// 1000 * 0.10 / 3 = 33.333...
	sizes := l.SizeEntries([]string{"A", "B", "C"}, 0.10)
	for asset, amount := range sizes {
		if amount != 33.33 {
			t.Fatalf("expected 33.33 for %s, got %v", asset, amount)
		}
	}
}

func TestSizeEntriesEmptyAssets(t *testing.T) {
	l := newDayLedger(1000)

	sizes := l.SizeEntries(nil, 0.20)
	if len(sizes) != 0 {
		t.Fatalf("expected empty map, got %v", sizes)
	}
}

func TestSizeEntriesNegativeBalancePanics(t *testing.T) {
	l := newDayLedger(1000)
	l.RefreshBalance(-50)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on negative entry size")
		}
	}()
	l.SizeEntries([]string{"EURUSD"}, 0.20)
}

func TestRolloverResetsDay(t *testing.T) {
	l := newDayLedger(1000)
	l.RefreshBalance(580)
	l.CheckStop(0.40, 0.50)
	l.RecordEntry("EURUSD", 100, models.DirectionCall)
	l.RecordResult("EURUSD", 100, models.DirectionCall, models.ResultLoss, -100)

	next := time.Date(2026, 3, 3, 0, 5, 0, 0, time.UTC)
	if !l.Rollover(next, 580) {
		t.Fatalf("expected rollover on a new date")
	}

	snap := l.Snapshot()
	if snap.OpeningBalance != 580 || snap.RealizedPL != 0 {
		t.Fatalf("expected fresh day opening at 580, got %+v", snap)
	}
	if len(snap.Trades) != 0 || len(snap.Assets) != 0 {
		t.Fatalf("trades and stats must not survive rollover")
	}
	if check := l.CheckStop(0.40, 0.50); check.Triggered {
		t.Fatalf("stop must clear on rollover, got %+v", check)
	}
}

func TestRolloverSameDayNoop(t *testing.T) {
	l := newDayLedger(1000)
	l.RefreshBalance(900)

	later := time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC)
	if l.Rollover(later, 900) {
		t.Fatalf("same-date rollover must be a noop")
	}
	if snap := l.Snapshot(); snap.OpeningBalance != 1000 {
		t.Fatalf("opening balance changed on a same-day rollover: %+v", snap)
	}
}

func TestRecordResultClosesPendingTrade(t *testing.T) {
	l := newDayLedger(1000)

	id := l.RecordEntry("EURUSD", 100, models.DirectionCall)
	l.MarkOrder(id, "ord-1")
	l.RecordResult("EURUSD", 100, models.DirectionCall, models.ResultWin, 87)

	snap := l.Snapshot()
	if len(snap.Trades) != 1 {
		t.Fatalf("expected the pending trade to be closed in place, got %d records", len(snap.Trades))
	}
	rec := snap.Trades[0]
	if rec.Result != models.ResultWin || rec.ProfitLoss != 87 || rec.OrderID != "ord-1" {
		t.Fatalf("unexpected closed record: %+v", rec)
	}
	stats := snap.Assets["EURUSD"]
	if stats.Trades != 1 || stats.Wins != 1 || stats.ProfitLoss != 87 {
		t.Fatalf("unexpected asset stats: %+v", stats)
	}
}

func TestRecordResultWithoutPendingAppends(t *testing.T) {
	l := newDayLedger(1000)

	l.RecordResult("GBPUSD", 50, models.DirectionPut, models.ResultLoss, -50)

	snap := l.Snapshot()
	if len(snap.Trades) != 1 {
		t.Fatalf("expected an appended record, got %d", len(snap.Trades))
	}
	stats := snap.Assets["GBPUSD"]
	if stats.Trades != 1 || stats.Losses != 1 || stats.ProfitLoss != -50 {
		t.Fatalf("unexpected asset stats: %+v", stats)
	}
}

func TestEnsureDayResetsStaleState(t *testing.T) {
	l := newDayLedger(1000)
	l.RefreshBalance(1200)
	l.RecordEntry("EURUSD", 100, models.DirectionCall)

	// Same day: a read-side check must not disturb anything.
	if l.EnsureDay(time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("same-day EnsureDay must be a noop")
	}

	// Next morning, before any balance refresh: the day resets and the
	// last known balance carries over as the new opening.
	if !l.EnsureDay(time.Date(2026, 3, 3, 0, 5, 0, 0, time.UTC)) {
		t.Fatalf("expected a reset on the new day")
	}
	snap := l.Snapshot()
	if snap.OpeningBalance != 1200 || snap.RealizedPL != 0 {
		t.Fatalf("expected opening 1200 and zero P/L, got %+v", snap)
	}
	if len(snap.Trades) != 0 {
		t.Fatalf("yesterday's trades must not survive the rollover: %+v", snap.Trades)
	}
}

func TestEnsureDayUninitializedNoop(t *testing.T) {
	l := New()
	if l.EnsureDay(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("an uninitialized ledger has no day to roll over")
	}
}
