package indicator

import "OptionPulse/internal/domain/models"

// Volume compares the latest bar's volume against a rolling mean. With
// fewer bars than the window, the mean covers all available bars; a zero
// or undefined mean yields ratio 1 rather than NaN.
func (e *Engine) Volume(candles []models.Candle) (models.IndicatorSignal, error) {
	if len(candles) == 0 {
		return models.IndicatorSignal{}, &InsufficientDataError{Kind: models.KindVolume, Need: 1, Have: 0}
	}

	window := e.cfg.VolumeWindow
	if window > len(candles) {
		window = len(candles)
	}

	var sum float64
	for i := len(candles) - window; i < len(candles); i++ {
		sum += candles[i].Volume
	}
	avgVolume := sum / float64(window)

	latest := candles[len(candles)-1]
	ratio := 1.0
	if avgVolume > 0 {
		ratio = latest.Volume / avgVolume
	}

	direction := models.DirectionNeutral
	if ratio > e.cfg.VolumeSpikeRatio {
		switch {
		case latest.IsBullish():
			direction = models.DirectionCall // volume spike on a rising bar
		case latest.IsBearish():
			direction = models.DirectionPut
		}
	}

	return models.IndicatorSignal{
		Kind:      models.KindVolume,
		Direction: direction,
		Metrics: map[string]float64{
			"volume":     latest.Volume,
			"avg_volume": avgVolume,
			"ratio":      ratio,
		},
	}, nil
}
