package indicator

import (
	"testing"

	"OptionPulse/internal/domain/models"
)

func TestRSIMonotonicRise(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// No losing bar in the window: RSI must be exactly 100, not NaN.
	sig, err := e.RSI(risingSeries(20, 1.0, 0.01, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sig.Metrics["value"]; got != 100.0 {
		t.Fatalf("expected RSI 100, got %v", got)
	}
	if sig.Direction != models.DirectionPut {
		t.Fatalf("RSI 100 is overbought, expected PUT, got %s", sig.Direction)
	}
}

func TestRSIMonotonicFall(t *testing.T) {
	e := NewEngine(DefaultConfig())

	series := make([]models.Candle, 20)
	for i := range series {
		close := 2.0 - float64(i)*0.01
		series[i] = bar(close+0.005, close+0.01, close-0.001, close, 100)
	}
	sig, err := e.RSI(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sig.Metrics["value"]; got != 0.0 {
		t.Fatalf("expected RSI 0 on pure losses, got %v", got)
	}
	if sig.Direction != models.DirectionCall {
		t.Fatalf("RSI 0 is oversold, expected CALL, got %s", sig.Direction)
	}
}

func TestRSIInsufficientData(t *testing.T) {
	e := NewEngine(DefaultConfig())

	_, err := e.RSI(risingSeries(14, 1.0, 0.01, 100))
	ins, ok := err.(*InsufficientDataError)
	if !ok {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if ins.Kind != models.KindRSI || ins.Need != 15 {
		t.Fatalf("unexpected error detail: %+v", ins)
	}
}

func TestRSINeutralMidRange(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// Alternate small gains and losses: RSI lands near 50.
	series := make([]models.Candle, 20)
	price := 1.0
	for i := range series {
		if i%2 == 0 {
			price += 0.01
		} else {
			price -= 0.01
		}
		series[i] = bar(price-0.001, price+0.002, price-0.002, price, 100)
	}
	sig, err := e.RSI(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Direction != models.DirectionNeutral {
		t.Fatalf("expected NEUTRAL, got %s (rsi=%v)", sig.Direction, sig.Metrics["value"])
	}
}
