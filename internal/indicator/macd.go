package indicator

import "OptionPulse/internal/domain/models"

// MACD computes the Moving Average Convergence Divergence signal.
// A bullish call requires the MACD line above its signal line with a
// positive and rising histogram; the put condition mirrors it.
func (e *Engine) MACD(candles []models.Candle) (models.IndicatorSignal, error) {
	need := e.cfg.MACDSlow + e.cfg.MACDSignal
	if len(candles) < need {
		return models.IndicatorSignal{}, &InsufficientDataError{Kind: models.KindMACD, Need: need, Have: len(candles)}
	}

	closes := models.Closes(candles)
	emaFast := ema(closes, e.cfg.MACDFast)
	emaSlow := ema(closes, e.cfg.MACDSlow)

	macdLine := make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = emaFast[i] - emaSlow[i]
	}
	signalLine := ema(macdLine, e.cfg.MACDSignal)

	histogram := make([]float64, len(closes))
	for i := range closes {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	last := len(closes) - 1
	latestMACD := macdLine[last]
	latestSignal := signalLine[last]
	latestHist := histogram[last]

	// With a single histogram point "rising" is false by definition.
	prevHist := 0.0
	rising, falling := false, false
	if last > 0 {
		prevHist = histogram[last-1]
		rising = latestHist > prevHist
		falling = latestHist < prevHist
	}

	direction := models.DirectionNeutral
	switch {
	case latestMACD > latestSignal && latestHist > 0 && rising:
		direction = models.DirectionCall
	case latestMACD < latestSignal && latestHist < 0 && falling:
		direction = models.DirectionPut
	}

	return models.IndicatorSignal{
		Kind:      models.KindMACD,
		Direction: direction,
		Metrics: map[string]float64{
			"macd":      latestMACD,
			"signal":    latestSignal,
			"histogram": latestHist,
			"crossover": boolMetric(latestMACD > latestSignal),
		},
	}, nil
}
