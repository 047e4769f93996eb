package ledger

import (
	"fmt"
	"math"
	"sync"
	"time"

	"OptionPulse/internal/domain/models"
)

// Ledger tracks one trading day's balance, realized P/L, trades and
// per-asset stats. All access goes through its methods; the mutex keeps
// the invariant current - opening == realized intact under concurrent
// execution batches. State never survives a day rollover.
type Ledger struct {
	mu sync.Mutex

	tradingDay     time.Time
	openingBalance float64
	currentBalance float64
	realizedPL     float64
	trades         []models.TradeRecord
	assets         map[string]models.AssetStats

	// stopReason is sticky: once a stop condition is observed it holds
	// until the day rolls over.
	stopReason models.StopReason
}

// New creates an uninitialized ledger; the first Rollover activates it.
func New() *Ledger {
	return &Ledger{assets: make(map[string]models.AssetStats)}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Rollover replaces the day state when the wall-clock date has advanced
// past the current trading day. Returns true if a reset happened.
func (l *Ledger) Rollover(today time.Time, openingBalance float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.tradingDay.IsZero() && sameDay(l.tradingDay, today) {
		return false
	}

	l.tradingDay = today
	l.openingBalance = openingBalance
	l.currentBalance = openingBalance
	l.realizedPL = 0
	l.trades = nil
	l.assets = make(map[string]models.AssetStats)
	l.stopReason = models.StopNone
	return true
}

// EnsureDay lazily rolls the day state over before a read when the
// wall-clock date has advanced. The current balance carries over as the
// new opening balance until the next gateway refresh.
func (l *Ledger) EnsureDay(today time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tradingDay.IsZero() || sameDay(l.tradingDay, today) {
		return false
	}

	l.tradingDay = today
	l.openingBalance = l.currentBalance
	l.realizedPL = 0
	l.trades = nil
	l.assets = make(map[string]models.AssetStats)
	l.stopReason = models.StopNone
	return true
}

// RefreshBalance sets the current balance and recomputes realized P/L
// from it. Balance-derived P/L is the authoritative figure.
func (l *Ledger) RefreshBalance(balance float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentBalance = balance
	l.realizedPL = balance - l.openingBalance
}

// CheckStop evaluates the daily stop conditions. The fractions are of
// the opening balance (0.40 means 40%). A zero opening balance yields
// pl_pct 0 instead of a division error. Once triggered, the result
// stays triggered until rollover.
func (l *Ledger) CheckStop(stopLossFraction, stopGainFraction float64) models.StopCheck {
	l.mu.Lock()
	defer l.mu.Unlock()

	plPct := 0.0
	if l.openingBalance > 0 {
		plPct = l.realizedPL / l.openingBalance * 100
	}

	if l.stopReason == models.StopNone {
		switch {
		case plPct <= -stopLossFraction*100:
			l.stopReason = models.StopLoss
		case plPct >= stopGainFraction*100:
			l.stopReason = models.StopGain
		}
	}

	return models.StopCheck{
		Triggered: l.stopReason != models.StopNone,
		Reason:    l.stopReason,
		PLPercent: plPct,
	}
}

// SizeEntries splits the risked bank fraction evenly across the assets,
// floored to 2 decimal places. Amounts below the caller's minimum unit
// are for the orchestrator to skip, not for the ledger to round up.
// An empty asset list yields an empty map.
func (l *Ledger) SizeEntries(assets []string, maxBankFraction float64) map[string]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]float64, len(assets))
	if len(assets) == 0 {
		return out
	}

	totalRisk := l.currentBalance * maxBankFraction
	perAsset := math.Floor(totalRisk/float64(len(assets))*100) / 100
	if perAsset < 0 {
		// A negative size means the balance accounting is broken.
		panic(fmt.Sprintf("ledger: negative entry size %v (balance=%v fraction=%v)",
			perAsset, l.currentBalance, maxBankFraction))
	}

	for _, asset := range assets {
		out[asset] = perAsset
	}
	return out
}

// RecordEntry appends a pending trade at order-submission time and
// returns its id for later mutation.
func (l *Ledger) RecordEntry(asset string, amount float64, direction models.Direction) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.trades = append(l.trades, models.TradeRecord{
		Asset:     asset,
		Amount:    amount,
		Direction: direction,
		Timestamp: time.Now(),
		Result:    models.ResultPending,
	})
	return len(l.trades) - 1
}

// MarkOrder attaches the gateway order id to a recorded trade.
func (l *Ledger) MarkOrder(id int, orderID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id >= 0 && id < len(l.trades) {
		l.trades[id].OrderID = orderID
	}
}

// RecordResult closes the oldest pending trade for the asset, or
// appends a closed record when none is pending (positions opened before
// this process started still get counted). Per-asset stats accumulate
// here; the ledger-level realized P/L is not touched, RefreshBalance
// remains the source of truth for it.
func (l *Ledger) RecordResult(asset string, amount float64, direction models.Direction, result models.TradeResult, profitLoss float64) models.TradeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.trades {
		if l.trades[i].Asset == asset && l.trades[i].Result == models.ResultPending {
			idx = i
			break
		}
	}
	if idx == -1 {
		l.trades = append(l.trades, models.TradeRecord{
			Asset:     asset,
			Amount:    amount,
			Direction: direction,
			Timestamp: time.Now(),
		})
		idx = len(l.trades) - 1
	}

	l.trades[idx].Result = result
	l.trades[idx].ProfitLoss = profitLoss

	stats := l.assets[asset]
	stats.Trades++
	switch result {
	case models.ResultWin:
		stats.Wins++
	case models.ResultLoss:
		stats.Losses++
	}
	stats.ProfitLoss += profitLoss
	l.assets[asset] = stats

	return l.trades[idx]
}

// Snapshot returns a deep copy of the day state for reporting.
func (l *Ledger) Snapshot() models.LedgerSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	trades := make([]models.TradeRecord, len(l.trades))
	copy(trades, l.trades)
	assets := make(map[string]models.AssetStats, len(l.assets))
	for k, v := range l.assets {
		assets[k] = v
	}

	return models.LedgerSnapshot{
		TradingDay:     l.tradingDay,
		OpeningBalance: l.openingBalance,
		CurrentBalance: l.currentBalance,
		RealizedPL:     l.realizedPL,
		Trades:         trades,
		Assets:         assets,
	}
}
