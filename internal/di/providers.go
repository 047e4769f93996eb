package di

import (
	"context"
	"fmt"
	"time"

	"OptionPulse/internal/domain/repository"
	"OptionPulse/internal/handler/api"
	"OptionPulse/internal/indicator"
	"OptionPulse/internal/ledger"
	internalrepo "OptionPulse/internal/repository"
	icache "OptionPulse/internal/service/cache"
	"OptionPulse/internal/service/gateway"
	"OptionPulse/internal/usecase"
	pkgch "OptionPulse/pkg/clickhouse"
	"OptionPulse/pkg/config"
	xhttp "OptionPulse/pkg/http"
	pkgkafka "OptionPulse/pkg/kafka"
	applogger "OptionPulse/pkg/logger"
	"OptionPulse/pkg/metrics"
	"OptionPulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEngine creates the indicator engine from config.
func ProvideEngine(cfg *config.Config) *indicator.Engine {
	ec := indicator.DefaultConfig()
	ec.RSIPeriod = cfg.Indicators.RSIPeriod
	ec.RSIOverbought = cfg.Indicators.RSIOverbought
	ec.RSIOversold = cfg.Indicators.RSIOversold
	ec.MACDFast = cfg.Indicators.MACDFast
	ec.MACDSlow = cfg.Indicators.MACDSlow
	ec.MACDSignal = cfg.Indicators.MACDSignal
	ec.VolumeWindow = cfg.Indicators.VolumeWindow
	ec.VolumeSpikeRatio = cfg.Indicators.VolumeSpikeRatio
	return indicator.NewEngine(ec)
}

// ProvideLedger creates the daily risk ledger.
func ProvideLedger() *ledger.Ledger {
	return ledger.New()
}

// ProvideGateway creates the broker WebSocket gateway.
func ProvideGateway(cfg *config.Config, log *applogger.Logger) repository.Gateway {
	return gateway.New(gateway.Config{
		URL:            cfg.Gateway.URL,
		Token:          cfg.Gateway.Token,
		BalanceType:    cfg.Gateway.BalanceType,
		RequestTimeout: cfg.Gateway.RequestTimeout,
		ReconnectDelay: cfg.Gateway.ReconnectDelay,
		PingInterval:   cfg.Gateway.PingInterval,
	}, log)
}

// ProvideCache creates the analysis cache, or nil when disabled.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideClickHouseClient creates a ClickHouse client when the journal
// backend needs one; otherwise nil.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Journal.Backend != "clickhouse" {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.Journal.ClickHouse.Host),
		pkgch.WithPort(cfg.Journal.ClickHouse.Port),
		pkgch.WithDatabase(cfg.Journal.ClickHouse.Database),
		pkgch.WithCredentials(cfg.Journal.ClickHouse.User, cfg.Journal.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.Journal.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.Journal.ClickHouse.AsyncInsert, cfg.Journal.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.Journal.ClickHouse.DialTimeout, cfg.Journal.ClickHouse.ReadTimeout, cfg.Journal.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.Journal.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer when the journal backend
// needs one; otherwise nil.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Journal.Backend != "kafka" {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Journal.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Journal.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Journal.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Journal.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Journal.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Journal.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Journal.Kafka.Producer.WriteTimeout, cfg.Journal.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Journal.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Journal.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideJournalPublisher creates the Kafka trade journal, or nil.
func ProvideJournalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaJournal(producer, cfg.Journal.Kafka.Topic)
}

// ProvideJournalStorage creates the ClickHouse trade journal, or nil.
func ProvideJournalStorage(ch *pkgch.Client, cfg *config.Config) (repository.Storage, error) {
	if ch == nil {
		return nil, nil
	}
	store := internalrepo.NewClickHouseJournal(ch, cfg.Journal.ClickHouse.Database+".trades")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("journal schema: %w", err)
	}
	return store, nil
}

// ProvideTradeJournal creates the journal router use case.
func ProvideTradeJournal(
	pub repository.Publisher,
	store repository.Storage,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.TradeJournal {
	return usecase.NewTradeJournal(pub, store, m, cfg.Journal.Backend)
}

// ProvideAnalyzer creates the analysis use case.
func ProvideAnalyzer(
	gw repository.Gateway,
	engine *indicator.Engine,
	cache icache.BytesCache,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(
		gw,
		engine,
		cache,
		cfg.Cache.TTL,
		cfg.Trading.Timeframe,
		cfg.Trading.CandleCount,
		log,
	)
}

// ProvideExecutor creates the execution orchestrator.
func ProvideExecutor(
	gw repository.Gateway,
	led *ledger.Ledger,
	analyzer *usecase.Analyzer,
	journal *usecase.TradeJournal,
	m repository.Metrics,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.Executor {
	return usecase.NewExecutor(gw, led, analyzer, journal, m, usecase.ExecutorConfig{
		MaxBankFraction:   cfg.Trading.MaxBankPercentage,
		StopLossFraction:  cfg.Trading.DailyStopLoss,
		StopGainFraction:  cfg.Trading.DailyStopGain,
		StrengthThreshold: cfg.Trading.StrengthThreshold,
		MinTradeAmount:    cfg.Trading.MinTradeAmount,
		ExpirationMinutes: cfg.Trading.ExpirationTime,
	}, log)
}

// ProvideResultsChecker creates the settlement poller.
func ProvideResultsChecker(
	gw repository.Gateway,
	led *ledger.Ledger,
	journal *usecase.TradeJournal,
	m repository.Metrics,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.ResultsChecker {
	return usecase.NewResultsChecker(gw, led, journal, m, cfg.Trading.ResultsPollInterval, log)
}

// ProvideHTTPHandler creates the API handler.
func ProvideHTTPHandler(
	log *applogger.Logger,
	analyzer *usecase.Analyzer,
	executor *usecase.Executor,
	led *ledger.Ledger,
	gw repository.Gateway,
	journal *usecase.TradeJournal,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewTradingHandler(
		log,
		analyzer,
		executor,
		led,
		gw,
		journal,
		cfg.Trading.DefaultAssets,
		cfg.Environment,
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	gw repository.Gateway,
	checker *usecase.ResultsChecker,
	journal *usecase.TradeJournal,
	ch *pkgch.Client,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, log, gw, checker, journal, ch, handler)
}
