package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "OptionPulse/internal/domain/repository"
	"OptionPulse/internal/usecase"
	pkgch "OptionPulse/pkg/clickhouse"
	"OptionPulse/pkg/config"
	xhttp "OptionPulse/pkg/http"
	applogger "OptionPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg     *config.Config
	log     *applogger.Logger
	gw      domrepo.Gateway
	checker *usecase.ResultsChecker
	journal *usecase.TradeJournal
	ch      *pkgch.Client // nil unless the clickhouse journal backend is active

	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	gw domrepo.Gateway,
	checker *usecase.ResultsChecker,
	journal *usecase.TradeJournal,
	ch *pkgch.Client,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		gw:          gw,
		checker:     checker,
		journal:     journal,
		ch:          ch,
		httpHandler: handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Broker connect is best-effort at startup; /api/connect retries.
	connectCtx, connectCancel := context.WithTimeout(ctx, 30*time.Second)
	if err := a.gw.Connect(connectCtx); err != nil {
		a.log.Warn("broker connect failed at startup", applogger.Error(err))
	}
	connectCancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if a.cfg.Metrics.Enabled {
		a.httpServer.UseRequestMetrics(a.log, 2*time.Second)
	}

	go a.checker.Run(ctx)
	a.log.Info("results checker started",
		applogger.Duration("interval_ms", a.cfg.Trading.ResultsPollInterval))

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("service started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("journal_backend", a.cfg.Journal.Backend),
		applogger.Strings("assets", a.cfg.Trading.DefaultAssets))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.gw.Close(); err != nil {
		a.log.Warn("gateway close error", applogger.Error(err))
	}

	if a.journal != nil {
		a.journal.Close()
	}
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
