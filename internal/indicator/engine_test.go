package indicator

import (
	"errors"
	"testing"

	"OptionPulse/internal/domain/models"
)

func bar(open, high, low, close, volume float64) models.Candle {
	return models.Candle{Open: open, High: high, Low: low, Close: close, Volume: volume}
}

// flatSeries builds n identical candles with constant close and volume.
func flatSeries(n int, price, volume float64) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = bar(price, price, price, price, volume)
	}
	return out
}

// risingSeries builds n candles with strictly increasing closes.
func risingSeries(n int, start, step, volume float64) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		close := start + float64(i)*step
		open := close - step/2
		out[i] = bar(open, close+0.01, open-0.01, close, volume)
	}
	return out
}

func TestAnalyzeExcludesShortIndicators(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// 5 bars: enough for volume and patterns, too short for RSI and MACD.
	a, err := e.Analyze("EURUSD", risingSeries(5, 1.10, 0.001, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Signals) != 2 {
		t.Fatalf("expected 2 evaluated signals, got %d", len(a.Signals))
	}
	if _, ok := a.Skipped[models.KindRSI]; !ok {
		t.Fatalf("expected rsi to be skipped")
	}
	if _, ok := a.Skipped[models.KindMACD]; !ok {
		t.Fatalf("expected macd to be skipped")
	}
	if a.Overall.Evaluated != 2 {
		t.Fatalf("fusion denominator should shrink to 2, got %d", a.Overall.Evaluated)
	}
}

func TestAnalyzeMalformedCandle(t *testing.T) {
	e := NewEngine(DefaultConfig())

	series := flatSeries(40, 1.10, 100)
	series[10].High = 1.05 // below the body top

	_, err := e.Analyze("EURUSD", series)
	var malformed *models.MalformedCandleError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedCandleError, got %v", err)
	}
}

func TestAnalyzeFullSeries(t *testing.T) {
	e := NewEngine(DefaultConfig())

	a, err := e.Analyze("EURUSD", flatSeries(40, 1.10, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Signals) != 4 {
		t.Fatalf("expected all 4 indicators evaluated, got %d", len(a.Signals))
	}
	if len(a.Skipped) != 0 {
		t.Fatalf("expected no skips, got %v", a.Skipped)
	}
}
