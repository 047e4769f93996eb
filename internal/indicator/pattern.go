package indicator

import "OptionPulse/internal/domain/models"

// Patterns detects doji, hammer and engulfing formations on the last
// bars of the series. Engulfing needs two bars; doji and hammer only
// look at the latest one. Zero-size bodies and ranges are treated as
// "no pattern" instead of dividing by zero.
func (e *Engine) Patterns(candles []models.Candle) (models.IndicatorSignal, error) {
	if len(candles) < 2 {
		return models.IndicatorSignal{}, &InsufficientDataError{Kind: models.KindPattern, Need: 2, Have: len(candles)}
	}

	latest := candles[len(candles)-1]
	prev := candles[len(candles)-2]

	doji := false
	if r := latest.Range(); r > 0 {
		doji = latest.BodySize()/r < 0.1
	}

	hammer := false
	if body := latest.BodySize(); body > 0 {
		hammer = latest.LowerShadow()/body > 2 && latest.UpperShadow()/body < 0.5
	}

	bullishEngulfing := latest.IsBullish() && prev.IsBearish() &&
		latest.Open < prev.Close && latest.Close > prev.Open
	bearishEngulfing := latest.IsBearish() && prev.IsBullish() &&
		latest.Open > prev.Close && latest.Close < prev.Open

	direction := models.DirectionNeutral
	switch {
	case bullishEngulfing || (hammer && latest.IsBullish()):
		direction = models.DirectionCall
	case bearishEngulfing || (hammer && latest.IsBearish()):
		direction = models.DirectionPut
	}

	return models.IndicatorSignal{
		Kind:      models.KindPattern,
		Direction: direction,
		Metrics: map[string]float64{
			"doji":              boolMetric(doji),
			"hammer":            boolMetric(hammer),
			"bullish_engulfing": boolMetric(bullishEngulfing),
			"bearish_engulfing": boolMetric(bearishEngulfing),
		},
	}, nil
}
