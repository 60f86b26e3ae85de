//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/smolder-dev/smolder/internal/adapters"
	"github.com/smolder-dev/smolder/internal/config"
	"github.com/smolder-dev/smolder/internal/logging"
	"github.com/smolder-dev/smolder/internal/server"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(ctx context.Context, v *viper.Viper, sink usecase.ProgressSink) (*App, func(), error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewInitProject,
		usecase.NewSyncRegistry,
		usecase.NewDeployScript,
		usecase.NewDeployArtifact,
		usecase.NewListDeployments,
		usecase.NewGetDeployment,
		usecase.NewShowDeployment,
		usecase.NewResolveDeployment,
		usecase.NewListNetworks,
		usecase.NewListContracts,
		usecase.NewListArtifacts,
		usecase.NewShowArtifact,
		usecase.NewInteractContract,
		usecase.NewManageWallets,
		usecase.NewExportDeployments,

		// HTTP API
		wire.Struct(new(server.Handlers), "*"),
		server.NewServer,

		// App
		NewApp,
	)
	return nil, nil, nil
}
