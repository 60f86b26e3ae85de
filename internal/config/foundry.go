package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
)

// FoundryTOML represents the raw foundry.toml structure
type FoundryTOML struct {
	RpcEndpoints map[string]any               `toml:"rpc_endpoints"`
	Etherscan    map[string]map[string]string `toml:"etherscan"`
	Profile      map[string]map[string]any    `toml:"profile"`
}

// loadFoundryConfig loads and parses foundry.toml
func loadFoundryConfig(projectRoot string) (*config.FoundryConfig, error) {
	// Load .env files first for variable expansion
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}

	cfg := &config.FoundryConfig{
		RpcEndpoints: make(map[string]string),
		Etherscan:    make(map[string]config.EtherscanConfig),
		Profiles:     make(map[string]config.ProfileConfig),
		MissingEnv:   make(map[string]string),
	}

	// A project without foundry.toml has nothing configured; init reports it
	foundryPath := filepath.Join(projectRoot, "foundry.toml")
	if _, err := os.Stat(foundryPath); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	var raw FoundryTOML
	if _, err := toml.DecodeFile(foundryPath, &raw); err != nil {
		return nil, domain.WrapError(domain.KindConfig, err, "failed to parse foundry.toml")
	}

	// Endpoints are either a plain url or a table with a url key
	for name, value := range raw.RpcEndpoints {
		var url string
		switch v := value.(type) {
		case string:
			url = v
		case map[string]any:
			s, ok := v["url"].(string)
			if !ok {
				return nil, domain.NewError(domain.KindConfig, "rpc endpoint '%s' has no url", name)
			}
			url = s
		default:
			return nil, domain.NewError(domain.KindConfig, "rpc endpoint '%s' must be a string or a table", name)
		}

		expanded, missing := expandEnv(url)
		if missing != "" {
			cfg.MissingEnv[name] = missing
		}
		cfg.RpcEndpoints[name] = expanded
	}

	for network, ethConfig := range raw.Etherscan {
		ec := config.EtherscanConfig{}
		if url, ok := ethConfig["url"]; ok {
			ec.URL, _ = expandEnv(url)
		}
		if key, ok := ethConfig["key"]; ok {
			ec.Key, _ = expandEnv(key)
		}
		cfg.Etherscan[network] = ec
	}

	for profileName, profileData := range raw.Profile {
		cfg.Profiles[profileName] = config.ProfileConfig{
			SrcPath:       stringField(profileData, "src"),
			OutPath:       stringField(profileData, "out"),
			BroadcastPath: stringField(profileData, "broadcast"),
		}
	}

	return cfg, nil
}

// expandEnv expands ${VAR} and $VAR references, returning the first referenced variable that is not set
func expandEnv(s string) (string, string) {
	var missing string
	expanded := os.Expand(s, func(key string) string {
		value, ok := os.LookupEnv(key)
		if !ok && missing == "" {
			missing = key
		}
		return value
	})
	return expanded, missing
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
