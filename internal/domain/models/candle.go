package models

import "fmt"

// Candle represents one OHLCV bar for a fixed time interval.
// Candles are immutable once produced by the gateway.
type Candle struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp int64 // epoch seconds
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool { return c.Close > c.Open }

// IsBearish reports whether the candle closed below its open.
func (c Candle) IsBearish() bool { return c.Close < c.Open }

// BodySize returns the absolute size of the candle body.
func (c Candle) BodySize() float64 {
	if c.Close >= c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// UpperShadow returns the distance from the body top to the high.
func (c Candle) UpperShadow() float64 {
	top := c.Open
	if c.Close > top {
		top = c.Close
	}
	return c.High - top
}

// LowerShadow returns the distance from the body bottom to the low.
func (c Candle) LowerShadow() float64 {
	bottom := c.Open
	if c.Close < bottom {
		bottom = c.Close
	}
	return bottom - c.Low
}

// Range returns the full high-low span.
func (c Candle) Range() float64 { return c.High - c.Low }

// Validate checks the OHLC invariant: high covers the body top and
// low covers the body bottom.
func (c Candle) Validate() error {
	top, bottom := c.Open, c.Open
	if c.Close > top {
		top = c.Close
	}
	if c.Close < bottom {
		bottom = c.Close
	}
	if c.High < top || c.Low > bottom {
		return &MalformedCandleError{Candle: c}
	}
	return nil
}

// MalformedCandleError indicates a candle violating the OHLC invariant.
type MalformedCandleError struct {
	Candle Candle
}

func (e *MalformedCandleError) Error() string {
	return fmt.Sprintf("malformed candle at ts=%d: o=%g h=%g l=%g c=%g",
		e.Candle.Timestamp, e.Candle.Open, e.Candle.High, e.Candle.Low, e.Candle.Close)
}

// Closes extracts close prices in series order.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
