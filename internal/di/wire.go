//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/maifast-lab/maifast/pkg/config"
	"github.com/maifast-lab/maifast/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCache,
		ProvidePublisher,
		ProvideAssistantClient,

		// Repositories
		ProvideStores,

		// Use cases and HTTP handler
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
