package indicator

import "OptionPulse/internal/domain/models"

// RSI computes the Relative Strength Index over a simple rolling mean of
// gains and losses (not Wilder smoothing). A pure-gain window yields RSI
// 100 instead of a division error.
func (e *Engine) RSI(candles []models.Candle) (models.IndicatorSignal, error) {
	period := e.cfg.RSIPeriod
	if len(candles) < period+1 {
		return models.IndicatorSignal{}, &InsufficientDataError{Kind: models.KindRSI, Need: period + 1, Have: len(candles)}
	}

	closes := models.Closes(candles)

	// Trailing window: the last `period` per-bar deltas.
	var gainSum, lossSum float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum += -delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	rsi := 100.0
	if avgLoss > 0 {
		rs := avgGain / avgLoss
		rsi = 100.0 - 100.0/(1.0+rs)
	}

	direction := models.DirectionNeutral
	switch {
	case rsi < e.cfg.RSIOversold:
		direction = models.DirectionCall // oversold, potential buy
	case rsi > e.cfg.RSIOverbought:
		direction = models.DirectionPut // overbought, potential sell
	}

	return models.IndicatorSignal{
		Kind:      models.KindRSI,
		Direction: direction,
		Metrics: map[string]float64{
			"value":      rsi,
			"overbought": boolMetric(rsi > e.cfg.RSIOverbought),
			"oversold":   boolMetric(rsi < e.cfg.RSIOversold),
		},
	}, nil
}

func boolMetric(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
