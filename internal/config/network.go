package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
)

// ChainIDFetcher asks an RPC endpoint for its chain id
type ChainIDFetcher interface {
	ChainID(ctx context.Context, rpcURL string) (uint64, error)
}

// NetworkResolver resolves network names to configurations with caching
type NetworkResolver struct {
	dataDir       string
	foundryConfig *config.FoundryConfig
	client        ChainIDFetcher
	cache         *NetworkCache
	mu            sync.RWMutex
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	RPCs      map[string]uint64 `json:"rpcs"` // rpcURL -> chainID
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(dataDir string, foundryConfig *config.FoundryConfig, client ChainIDFetcher) *NetworkResolver {
	r := &NetworkResolver{
		dataDir:       dataDir,
		foundryConfig: foundryConfig,
		client:        client,
	}
	r.loadCache()
	return r
}

// NetworkNames returns every network configured in foundry.toml
func (r *NetworkResolver) NetworkNames() []string {
	return r.foundryConfig.NetworkNames()
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(ctx context.Context, networkName string) (*config.Network, error) {
	if r.foundryConfig == nil {
		return nil, domain.NetworkNotFound(networkName)
	}
	rpcURL, exists := r.foundryConfig.RpcEndpoints[networkName]
	if !exists {
		return nil, domain.NewError(domain.KindNetworkNotFound,
			"network '%s' not found in foundry.toml [rpc_endpoints]", networkName)
	}
	if missing, ok := r.foundryConfig.MissingEnv[networkName]; ok {
		return nil, domain.NewError(domain.KindEnvVarNotSet,
			"environment variable %s used by network '%s' is not set", missing, networkName)
	}

	r.mu.RLock()
	chainID, cached := r.cache.RPCs[rpcURL]
	r.mu.RUnlock()

	if !cached {
		fetched, err := r.client.ChainID(ctx, rpcURL)
		if err != nil {
			return nil, domain.RPCError(err, "failed to fetch chain ID for network %s", networkName)
		}
		chainID = fetched
		r.updateCache(rpcURL, chainID)
	}

	return &config.Network{
		Name:        networkName,
		ChainID:     chainID,
		RPCURL:      rpcURL,
		ExplorerURL: r.getExplorerURL(networkName, chainID),
	}, nil
}

// getExplorerURL returns the explorer URL for a network
func (r *NetworkResolver) getExplorerURL(networkName string, chainID uint64) string {
	if etherscan, exists := r.foundryConfig.Etherscan[networkName]; exists && etherscan.URL != "" {
		return etherscan.URL
	}

	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 17000:
		return "https://holesky.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 84532:
		return "https://sepolia.basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 43114:
		return "https://snowtrace.io"
	case 56:
		return "https://bscscan.com"
	case 42220:
		return "https://celoscan.io"
	default:
		return ""
	}
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.dataDir, "cache", "chain-ids.json")
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = &NetworkCache{RPCs: make(map[string]uint64)}

	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		return
	}

	var loaded NetworkCache
	if err := json.Unmarshal(data, &loaded); err != nil || loaded.RPCs == nil {
		// Invalid cache, start fresh
		return
	}
	r.cache = &loaded
}

// updateCache records a chain id and writes the cache back
func (r *NetworkResolver) updateCache(rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()

	// the cache only saves round trips
	_ = r.saveCache()
}

func (r *NetworkResolver) saveCache() error {
	if err := os.MkdirAll(filepath.Dir(r.cachePath()), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.cachePath(), data, 0644)
}
