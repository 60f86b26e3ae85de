package config

import (
	"time"
)

// StoreKind selects the registry backend
type StoreKind string

const (
	StoreFile     StoreKind = "file"
	StorePostgres StoreKind = "postgres"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Registry storage
	Store        StoreKind
	DatabaseURL  string
	PoolMaxConns int32

	// Wallet keystore passphrase (SMOLDER_WALLET_PASSPHRASE)
	WalletPassphrase string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// HTTP server
	Server ServerConfig

	// Resolved configurations
	FoundryConfig *FoundryConfig
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Host string
	Port int
}

// Network represents a resolved network configuration
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
}
