package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"OptionPulse/internal/domain/models"
	domrepo "OptionPulse/internal/domain/repository"
	"OptionPulse/internal/indicator"
	icache "OptionPulse/internal/service/cache"
	applogger "OptionPulse/pkg/logger"
	"OptionPulse/pkg/util"
)

// Analyzer runs the indicator engine over fresh gateway candles. Results
// are cached per asset and candle bucket so repeated requests inside one
// bar do not hit the broker again.
type Analyzer struct {
	gw     domrepo.Gateway
	engine *indicator.Engine
	cache  icache.BytesCache // nil disables caching
	ttl    time.Duration
	log    *applogger.Logger

	timeframe   int // seconds per candle
	candleCount int
}

// NewAnalyzer creates an Analyzer. cache may be nil.
func NewAnalyzer(
	gw domrepo.Gateway,
	engine *indicator.Engine,
	cache icache.BytesCache,
	ttl time.Duration,
	timeframe, candleCount int,
	log *applogger.Logger,
) *Analyzer {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Analyzer{
		gw:          gw,
		engine:      engine,
		cache:       cache,
		ttl:         ttl,
		log:         log,
		timeframe:   timeframe,
		candleCount: candleCount,
	}
}

// Analyze produces a fused directional opinion for the asset at the
// configured timeframe, using the default candle count.
func (a *Analyzer) Analyze(ctx context.Context, asset string) (*models.Analysis, error) {
	return a.AnalyzeAt(ctx, asset, a.timeframe, a.candleCount)
}

// AnalyzeAt produces a fused directional opinion for an explicit
// timeframe and candle count.
func (a *Analyzer) AnalyzeAt(ctx context.Context, asset string, timeframe, count int) (*models.Analysis, error) {
	if asset == "" {
		return nil, fmt.Errorf("asset required")
	}
	if timeframe <= 0 {
		timeframe = a.timeframe
	}
	if count <= 0 {
		count = a.candleCount
	}

	now := time.Now()
	key := fmt.Sprintf("analysis:%s:%d:%d:%d",
		asset, timeframe, count, util.AlignToTimeframe(now, timeframe).Unix())

	if a.cache != nil {
		if b, ok, err := a.cache.GetBytes(key); err == nil && ok {
			var cached models.Analysis
			if err := json.Unmarshal(b, &cached); err == nil {
				a.log.Debug("analysis cache hit", applogger.String("asset", asset))
				return &cached, nil
			}
		}
	}

	start := time.Now()
	candles, err := a.gw.GetCandles(ctx, asset, timeframe, count, now)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}

	analysis, err := a.engine.Analyze(asset, candles)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", asset, err)
	}

	a.log.Info("analysis complete",
		applogger.String("asset", asset),
		applogger.String("direction", string(analysis.Overall.Direction)),
		applogger.Float64("strength", analysis.Overall.Strength),
		applogger.Int("evaluated", analysis.Overall.Evaluated),
		applogger.Duration("duration_ms", time.Since(start)),
	)

	if a.cache != nil {
		if b, err := json.Marshal(analysis); err == nil {
			_ = a.cache.SetBytes(key, b, a.ttl)
		}
	}

	return analysis, nil
}

// Candles fetches raw candles for the asset, for direct inspection over
// the API.
func (a *Analyzer) Candles(ctx context.Context, asset string, timeframe, count int) ([]models.Candle, error) {
	if asset == "" {
		return nil, fmt.Errorf("asset required")
	}
	if timeframe <= 0 {
		timeframe = a.timeframe
	}
	if count <= 0 {
		count = a.candleCount
	}
	candles, err := a.gw.GetCandles(ctx, asset, timeframe, count, time.Now())
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	return candles, nil
}
