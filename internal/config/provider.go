package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
)

// DataDirName is the per-project directory holding the file registry and caches
const DataDirName = ".smolder"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:      projectRoot,
		DataDir:          filepath.Join(projectRoot, DataDirName),
		Store:            config.StoreKind(strings.ToLower(v.GetString("store"))),
		DatabaseURL:      v.GetString("database_url"),
		PoolMaxConns:     v.GetInt32("pool_max_conns"),
		WalletPassphrase: v.GetString("wallet_passphrase"),
		Debug:            v.GetBool("debug"),
		NonInteractive:   v.GetBool("non_interactive"),
		JSON:             v.GetBool("json"),
		Timeout:          v.GetDuration("timeout"),
		Server: config.ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
		},
	}

	switch cfg.Store {
	case config.StoreFile:
	case config.StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, domain.NewError(domain.KindConfig, "store 'postgres' requires SMOLDER_DATABASE_URL")
		}
	default:
		return nil, domain.NewError(domain.KindConfig, "unknown store '%s' (expected file or postgres)", cfg.Store)
	}

	foundryConfig, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}
	cfg.FoundryConfig = foundryConfig

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find foundry.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		foundryToml := filepath.Join(dir, "foundry.toml")
		if _, err := os.Stat(foundryToml); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Foundry project (foundry.toml not found)")
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	v.SetEnvPrefix("SMOLDER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("store", string(config.StoreFile))
	v.SetDefault("database_url", "")
	v.SetDefault("pool_max_conns", 4)
	v.SetDefault("wallet_passphrase", "")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 3000)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig, client ChainIDFetcher) *NetworkResolver {
	return NewNetworkResolver(cfg.DataDir, cfg.FoundryConfig, client)
}
