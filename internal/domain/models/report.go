package models

// OutcomeStatus tags the per-asset result of an execution batch.
type OutcomeStatus string

const (
	OutcomePlaced  OutcomeStatus = "placed"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeError   OutcomeStatus = "error"
)

// Skip reasons surfaced in TradeOutcome.Reason.
const (
	SkipAmountTooSmall = "amount-too-small"
	SkipNoStrongSignal = "no-strong-signal"
)

// TradeOutcome describes what happened to a single asset in a batch.
type TradeOutcome struct {
	Asset      string
	Status     OutcomeStatus
	Reason     string
	Direction  Direction
	Amount     float64
	Strength   float64
	Expiration int
	OrderID    string
	Message    string
}

// ExecutionReport is the result of one orchestration batch.
type ExecutionReport struct {
	Status     string // "executed" or "stopped"
	StopReason StopReason
	PLPercent  float64
	Trades     []TradeOutcome
}

// Stopped reports whether the batch was halted by a daily stop condition.
func (r *ExecutionReport) Stopped() bool { return r.Status == "stopped" }
