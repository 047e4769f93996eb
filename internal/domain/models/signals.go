package models

import "time"

// Direction is the directional opinion of an indicator or fused decision.
type Direction string

const (
	DirectionCall    Direction = "CALL"
	DirectionPut     Direction = "PUT"
	DirectionNeutral Direction = "NEUTRAL"
)

// SignalKind identifies which indicator produced a signal.
type SignalKind string

const (
	KindRSI     SignalKind = "rsi"
	KindMACD    SignalKind = "macd"
	KindVolume  SignalKind = "volume"
	KindPattern SignalKind = "patterns"
)

// IndicatorSignal is one indicator's opinion plus its raw metrics.
type IndicatorSignal struct {
	Kind      SignalKind
	Direction Direction
	Metrics   map[string]float64
}

// FusedSignal is the plurality-vote combination of indicator signals.
// Strength is the winning fraction in percent; Evaluated counts the
// indicators that actually contributed to the vote.
type FusedSignal struct {
	Direction Direction
	Strength  float64
	CallCount int
	PutCount  int
	Evaluated int
}

// Analysis is the full output of one analysis invocation for an asset.
type Analysis struct {
	Asset     string
	Timestamp time.Time
	Signals   []IndicatorSignal
	Overall   FusedSignal
	// Skipped lists indicators excluded from fusion (e.g. series too
	// short for the lookback), keyed by kind with the reason.
	Skipped map[SignalKind]string
}
