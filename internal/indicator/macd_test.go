package indicator

import (
	"math"
	"testing"

	"OptionPulse/internal/domain/models"
)

func TestMACDFlatSeries(t *testing.T) {
	e := NewEngine(DefaultConfig())

	sig, err := e.MACD(flatSeries(40, 1.10, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sig.Metrics["macd"]; math.Abs(got) > 1e-12 {
		t.Fatalf("expected macd 0 on a constant series, got %v", got)
	}
	if sig.Direction != models.DirectionNeutral {
		t.Fatalf("expected NEUTRAL, got %s", sig.Direction)
	}
}

func TestMACDAcceleratingRise(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// Flat base then a quickening climb: fast EMA pulls ahead of slow,
	// histogram is positive and still widening on the last bar.
	series := make([]models.Candle, 60)
	price := 1.0
	for i := range series {
		if i >= 40 {
			price += 0.001 * float64(i-39)
		}
		series[i] = bar(price-0.0005, price+0.001, price-0.001, price, 100)
	}
	sig, err := e.MACD(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Direction != models.DirectionCall {
		t.Fatalf("expected CALL, got %s (hist=%v)", sig.Direction, sig.Metrics["histogram"])
	}
	if sig.Metrics["crossover"] != 1 {
		t.Fatalf("expected macd above signal line")
	}
}

func TestMACDInsufficientData(t *testing.T) {
	e := NewEngine(DefaultConfig())

	_, err := e.MACD(flatSeries(34, 1.10, 100))
	ins, ok := err.(*InsufficientDataError)
	if !ok {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if ins.Kind != models.KindMACD || ins.Need != 35 {
		t.Fatalf("unexpected error detail: %+v", ins)
	}
}
