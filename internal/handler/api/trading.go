package api

import (
	"time"

	"OptionPulse/internal/domain/models"
	domrepo "OptionPulse/internal/domain/repository"
	"OptionPulse/internal/ledger"
	"OptionPulse/internal/service/ratelimit"
	"OptionPulse/internal/usecase"
	xhttp "OptionPulse/pkg/http"
	xlogger "OptionPulse/pkg/logger"
	"OptionPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// TradingHandler exposes the trading core over HTTP.
type TradingHandler struct {
	logger   *xlogger.Logger
	analyzer *usecase.Analyzer
	executor *usecase.Executor
	ledger   *ledger.Ledger
	gw       domrepo.Gateway
	journal  *usecase.TradeJournal
	rl       *ratelimit.Limiter

	defaultAssets []string
	environment   string
}

// NewTradingHandler creates the API handler.
func NewTradingHandler(
	logger *xlogger.Logger,
	analyzer *usecase.Analyzer,
	executor *usecase.Executor,
	led *ledger.Ledger,
	gw domrepo.Gateway,
	journal *usecase.TradeJournal,
	defaultAssets []string,
	environment string,
) *TradingHandler {
	return &TradingHandler{
		logger:        logger,
		analyzer:      analyzer,
		executor:      executor,
		ledger:        led,
		gw:            gw,
		journal:       journal,
		rl:            ratelimit.New(),
		defaultAssets: defaultAssets,
		environment:   environment,
	}
}

func (h *TradingHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/connect", h.Connect)
	g.GET("/balance", h.Balance)
	g.GET("/assets", h.Assets)
	g.GET("/candles/:asset", h.Candles)
	g.GET("/analyze/:asset", h.Analyze)
	g.POST("/trade", h.Trade)
	g.GET("/positions", h.Positions)
	g.GET("/results", h.Results)
	g.GET("/stats", h.Stats)
	g.GET("/settings", h.SettingsView)
	g.PUT("/settings", h.Settings)
	g.GET("/health", h.Health)
}

// Connect establishes the broker session with configured credentials.
func (h *TradingHandler) Connect(c echo.Context) error {
	req := &models.ConnectRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if !h.gw.IsConnected() {
		if err := h.gw.Connect(c.Request().Context()); err != nil {
			h.logger.Error("broker connect failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("connect: %v", err).WithError(err))
		}
	}
	if req.BalanceType != "" {
		if err := h.gw.SetBalanceType(req.BalanceType); err != nil {
			h.logger.Error("balance type switch failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("set balance type: %v", err).WithError(err))
		}
	}
	return xhttp.SuccessResponse(c, map[string]any{"connected": true})
}

// Balance reports the current account balance.
func (h *TradingHandler) Balance(c echo.Context) error {
	balance, err := h.gw.GetBalance(c.Request().Context())
	if err != nil {
		h.logger.Error("balance fetch failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("get balance: %v", err).WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]any{"balance": balance})
}

// Assets lists the asset names the broker currently offers.
func (h *TradingHandler) Assets(c echo.Context) error {
	assets, err := h.gw.GetAvailableAssets(c.Request().Context())
	if err != nil {
		h.logger.Error("assets fetch failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("get assets: %v", err).WithError(err))
	}
	return xhttp.ListResponse(c, assets, int64(len(assets)))
}

// Candles returns raw gateway candles for one asset.
func (h *TradingHandler) Candles(c echo.Context) error {
	asset := c.Param("asset")
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	endTime := util.ParseTimeDefault(req.EndTime, time.Now())
	candles, err := h.gw.GetCandles(c.Request().Context(), asset, req.Timeframe, req.Count, endTime)
	if err != nil {
		h.logger.Error("candles fetch failed", xlogger.String("asset", asset), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("get candles: %v", err).WithError(err))
	}
	return xhttp.ListResponse(c, candles, int64(len(candles)))
}

// Analyze runs the indicator engine for one asset.
func (h *TradingHandler) Analyze(c echo.Context) error {
	asset := c.Param("asset")
	if !h.rl.Allow(c.RealIP()+":analyze", 5, 2) {
		h.logger.Warn("analyze rate limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many requests", 429))
	}

	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	analysis, err := h.analyzer.AnalyzeAt(c.Request().Context(), asset, req.Timeframe, req.Count)
	if err != nil {
		h.logger.Error("analyze failed", xlogger.String("asset", asset), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("analyze: %v", err).WithError(err))
	}
	return xhttp.SuccessResponse(c, analysis)
}

// Trade runs one execution batch over the requested assets.
func (h *TradingHandler) Trade(c echo.Context) error {
	req := &models.TradeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	assets := req.Assets
	if len(assets) == 0 {
		assets = h.defaultAssets
	}

	report, err := h.executor.Execute(c.Request().Context(), assets)
	if err != nil {
		h.logger.Error("execution batch failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("execute: %v", err).WithError(err))
	}
	return xhttp.SuccessResponse(c, report)
}

// Positions lists positions the broker currently reports.
func (h *TradingHandler) Positions(c echo.Context) error {
	positions, err := h.gw.GetOpenPositions(c.Request().Context())
	if err != nil {
		h.logger.Error("positions fetch failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("get positions: %v", err).WithError(err))
	}
	return xhttp.ListResponse(c, positions, int64(len(positions)))
}

// Results returns the day's recorded trades. The ledger rolls over
// lazily so an early-morning read never shows yesterday's trades.
func (h *TradingHandler) Results(c echo.Context) error {
	h.ledger.EnsureDay(time.Now())
	snap := h.ledger.Snapshot()
	return xhttp.ListResponse(c, snap.Trades, int64(len(snap.Trades)))
}

// Stats returns the full day snapshot: balances, realized P/L and
// per-asset outcomes.
func (h *TradingHandler) Stats(c echo.Context) error {
	h.ledger.EnsureDay(time.Now())
	return xhttp.SuccessResponse(c, h.ledger.Snapshot())
}

// SettingsView reports the runtime settings the API exposes.
func (h *TradingHandler) SettingsView(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]any{
		"environment":    h.environment,
		"default_assets": h.defaultAssets,
	})
}

// Settings updates runtime-switchable settings.
func (h *TradingHandler) Settings(c echo.Context) error {
	req := &models.SettingsUpdate{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if req.BalanceType != "" {
		if err := h.gw.SetBalanceType(req.BalanceType); err != nil {
			h.logger.Error("balance type switch failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("set balance type: %v", err).WithError(err))
		}
	}
	return xhttp.SuccessResponse(c, map[string]any{"balance_type": req.BalanceType})
}

// Health reports service, broker-session and journal-backend status.
func (h *TradingHandler) Health(c echo.Context) error {
	journal := "ok"
	if h.journal != nil {
		if err := h.journal.Health(c.Request().Context()); err != nil {
			journal = err.Error()
		}
	}
	return xhttp.SuccessResponse(c, map[string]any{
		"status":      "ok",
		"environment": h.environment,
		"connected":   h.gw.IsConnected(),
		"journal":     journal,
	})
}
