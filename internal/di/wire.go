//go:build wireinject
// +build wireinject

package di

import (
	"OptionPulse/pkg/config"
	"OptionPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,

		// Core
		ProvideEngine,
		ProvideLedger,
		ProvideGateway,
		ProvideCache,

		// Journal backends
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideJournalPublisher,
		ProvideJournalStorage,
		ProvideTradeJournal,

		// Use cases
		ProvideAnalyzer,
		ProvideExecutor,
		ProvideResultsChecker,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
