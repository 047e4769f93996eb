package indicator

import "OptionPulse/internal/domain/models"

// Fuse combines indicator opinions with a plurality vote. Strength is
// the winning fraction in percent over the indicators actually
// evaluated; a tie (including zero votes) is Neutral with strength 0.
func Fuse(signals []models.IndicatorSignal) models.FusedSignal {
	var calls, puts int
	for _, s := range signals {
		switch s.Direction {
		case models.DirectionCall:
			calls++
		case models.DirectionPut:
			puts++
		}
	}

	fused := models.FusedSignal{
		Direction: models.DirectionNeutral,
		CallCount: calls,
		PutCount:  puts,
		Evaluated: len(signals),
	}

	if len(signals) == 0 || calls == puts {
		return fused
	}

	if calls > puts {
		fused.Direction = models.DirectionCall
		fused.Strength = float64(calls) / float64(len(signals)) * 100
	} else {
		fused.Direction = models.DirectionPut
		fused.Strength = float64(puts) / float64(len(signals)) * 100
	}
	return fused
}
