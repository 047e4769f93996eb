package indicator

import (
	"testing"

	"OptionPulse/internal/domain/models"
)

func sig(kind models.SignalKind, dir models.Direction) models.IndicatorSignal {
	return models.IndicatorSignal{Kind: kind, Direction: dir}
}

func TestFusePlurality(t *testing.T) {
	fused := Fuse([]models.IndicatorSignal{
		sig(models.KindRSI, models.DirectionCall),
		sig(models.KindMACD, models.DirectionCall),
		sig(models.KindVolume, models.DirectionPut),
		sig(models.KindPattern, models.DirectionNeutral),
	})
	if fused.Direction != models.DirectionCall {
		t.Fatalf("expected CALL, got %s", fused.Direction)
	}
	if fused.Strength != 50.0 {
		t.Fatalf("expected strength 50, got %v", fused.Strength)
	}
	if fused.CallCount != 2 || fused.PutCount != 1 {
		t.Fatalf("unexpected counts: %d calls, %d puts", fused.CallCount, fused.PutCount)
	}
}

func TestFuseTieIsNeutral(t *testing.T) {
	fused := Fuse([]models.IndicatorSignal{
		sig(models.KindRSI, models.DirectionCall),
		sig(models.KindMACD, models.DirectionPut),
	})
	if fused.Direction != models.DirectionNeutral {
		t.Fatalf("expected NEUTRAL on tie, got %s", fused.Direction)
	}
	if fused.Strength != 0 {
		t.Fatalf("expected strength 0 on tie, got %v", fused.Strength)
	}
}

func TestFuseShrunkenDenominator(t *testing.T) {
	// One indicator excluded: the fraction is over 3, not 4.
	fused := Fuse([]models.IndicatorSignal{
		sig(models.KindRSI, models.DirectionPut),
		sig(models.KindVolume, models.DirectionPut),
		sig(models.KindPattern, models.DirectionNeutral),
	})
	if fused.Direction != models.DirectionPut {
		t.Fatalf("expected PUT, got %s", fused.Direction)
	}
	want := 2.0 / 3.0 * 100
	if fused.Strength != want {
		t.Fatalf("expected strength %v, got %v", want, fused.Strength)
	}
	if fused.Evaluated != 3 {
		t.Fatalf("expected 3 evaluated, got %d", fused.Evaluated)
	}
}

func TestFuseEmpty(t *testing.T) {
	fused := Fuse(nil)
	if fused.Direction != models.DirectionNeutral || fused.Strength != 0 {
		t.Fatalf("expected neutral zero-strength on empty input, got %+v", fused)
	}
}
