package models

import "time"

// TradeResult is the lifecycle state of a recorded trade.
type TradeResult string

const (
	ResultPending TradeResult = "PENDING"
	ResultWin     TradeResult = "WIN"
	ResultLoss    TradeResult = "LOSS"
)

// TradeRecord is one order recorded in the daily ledger. It is created at
// submission time and mutated exactly once when the position closes.
type TradeRecord struct {
	Asset      string
	Amount     float64
	Direction  Direction
	Timestamp  time.Time
	OrderID    string
	Result     TradeResult
	ProfitLoss float64
}

// AssetStats accumulates per-asset outcomes as trades close. Its
// ProfitLoss is reporting-only; the ledger's balance-derived realized
// P/L stays authoritative.
type AssetStats struct {
	Trades     int
	Wins       int
	Losses     int
	ProfitLoss float64
}

// StopReason says whether trading may continue for the day.
type StopReason string

const (
	StopNone StopReason = ""
	StopLoss StopReason = "STOP_LOSS"
	StopGain StopReason = "STOP_GAIN"
)

// StopCheck is the outcome of a daily stop-condition evaluation.
type StopCheck struct {
	Triggered bool
	Reason    StopReason
	PLPercent float64
}

// LedgerSnapshot is a read-only copy of the daily ledger state.
type LedgerSnapshot struct {
	TradingDay     time.Time
	OpeningBalance float64
	CurrentBalance float64
	RealizedPL     float64
	Trades         []TradeRecord
	Assets         map[string]AssetStats
}

// OrderTicket is the gateway's acknowledgement of a placed order.
type OrderTicket struct {
	OrderID string
}

// Position is an open or recently closed position reported by the gateway.
type Position struct {
	Asset     string
	Status    string // "open" or "closed"
	Direction Direction
	Amount    float64
	Win       bool
	Profit    float64
}
