package indicator

import (
	"errors"
	"fmt"
	"time"

	"OptionPulse/internal/domain/models"
)

// Config holds the tunable parameters for all indicators.
type Config struct {
	RSIPeriod     int
	RSIOverbought float64
	RSIOversold   float64

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	VolumeWindow     int
	VolumeSpikeRatio float64
}

// DefaultConfig returns the standard parameter set (RSI 14/70/30,
// MACD 12/26/9, 10-bar volume window with a 1.5x spike threshold).
func DefaultConfig() Config {
	return Config{
		RSIPeriod:        14,
		RSIOverbought:    70,
		RSIOversold:      30,
		MACDFast:         12,
		MACDSlow:         26,
		MACDSignal:       9,
		VolumeWindow:     10,
		VolumeSpikeRatio: 1.5,
	}
}

// InsufficientDataError indicates a series too short for an indicator's
// lookback. The indicator is excluded from fusion, not fatal.
type InsufficientDataError struct {
	Kind models.SignalKind
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need %d candles, have %d", e.Kind, e.Need, e.Have)
}

// Engine computes all indicator signals for a candle series.
// It is pure: no I/O, no retained state between calls.
type Engine struct {
	cfg Config
}

// NewEngine creates an indicator engine with the given parameters.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Analyze runs every indicator over the series and fuses the results.
// A malformed candle aborts the whole analysis; an indicator short on
// data is recorded under Skipped and left out of the vote.
func (e *Engine) Analyze(asset string, candles []models.Candle) (*models.Analysis, error) {
	for _, c := range candles {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}

	compute := []func([]models.Candle) (models.IndicatorSignal, error){
		e.RSI,
		e.MACD,
		e.Volume,
		e.Patterns,
	}

	signals := make([]models.IndicatorSignal, 0, len(compute))
	skipped := make(map[models.SignalKind]string)
	for _, fn := range compute {
		sig, err := fn(candles)
		if err != nil {
			var insufficient *InsufficientDataError
			if errors.As(err, &insufficient) {
				skipped[insufficient.Kind] = insufficient.Error()
				continue
			}
			return nil, err
		}
		signals = append(signals, sig)
	}

	return &models.Analysis{
		Asset:     asset,
		Timestamp: time.Now(),
		Signals:   signals,
		Overall:   Fuse(signals),
		Skipped:   skipped,
	}, nil
}

// ema computes an exponential moving average with span smoothing
// (alpha = 2/(span+1)), seeded with the first value.
func ema(values []float64, span int) []float64 {
	alpha := 2.0 / (float64(span) + 1.0)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}
