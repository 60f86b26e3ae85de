package adapters

import (
	"context"
	"log/slog"

	"github.com/google/wire"
	"github.com/smolder-dev/smolder/internal/adapters/blockchain"
	"github.com/smolder-dev/smolder/internal/adapters/interactive"
	"github.com/smolder-dev/smolder/internal/adapters/repository/file"
	"github.com/smolder-dev/smolder/internal/adapters/repository/postgres"
	"github.com/smolder-dev/smolder/internal/adapters/wallet"
	internalconfig "github.com/smolder-dev/smolder/internal/config"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// ProvideRegistryStore opens the backend selected by the store setting.
// The returned cleanup closes it.
func ProvideRegistryStore(ctx context.Context, cfg *config.RuntimeConfig, log *slog.Logger) (usecase.RegistryStore, func(), error) {
	var (
		store usecase.RegistryStore
		err   error
	)
	switch cfg.Store {
	case config.StorePostgres:
		store, err = postgres.NewPostgresRepositoryFromConfig(ctx, cfg, log)
	default:
		store, err = file.NewFileRepositoryFromConfig(cfg, log)
	}
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close registry store", "error", err)
		}
	}
	return store, cleanup, nil
}

func ProvideNetworkRepository(store usecase.RegistryStore) usecase.NetworkRepository {
	return store
}

func ProvideContractRepository(store usecase.RegistryStore) usecase.ContractRepository {
	return store
}

func ProvideDeploymentRepository(store usecase.RegistryStore) usecase.DeploymentRepository {
	return store
}

func ProvideWalletRepository(store usecase.RegistryStore) usecase.WalletRepository {
	return store
}

func ProvideCallHistoryRepository(store usecase.RegistryStore) usecase.CallHistoryRepository {
	return store
}

func ProvideStoreInitializer(store usecase.RegistryStore) usecase.StoreInitializer {
	return store
}

// StoreSet provides the registry backend split into its repositories
var StoreSet = wire.NewSet(
	ProvideRegistryStore,
	ProvideNetworkRepository,
	ProvideContractRepository,
	ProvideDeploymentRepository,
	ProvideWalletRepository,
	ProvideCallHistoryRepository,
	ProvideStoreInitializer,
)

// ChainSet provides the RPC client
var ChainSet = wire.NewSet(
	blockchain.NewClientAdapter,
	wire.Bind(new(usecase.ChainClient), new(*blockchain.ClientAdapter)),
	wire.Bind(new(internalconfig.ChainIDFetcher), new(*blockchain.ClientAdapter)),
)

// WalletSet provides the keystore
var WalletSet = wire.NewSet(
	wallet.NewKeystoreVault,
	wire.Bind(new(usecase.KeyVault), new(*wallet.KeystoreVault)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	internalconfig.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolver)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.DeploymentSelector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.BroadcastFileSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	StoreSet,
	ChainSet,
	WalletSet,
	ConfigSet,
	InteractiveSet,
	ScriptAdapters,
)
