package config

import (
	"maps"
	"slices"
)

// FoundryConfig is the subset of foundry.toml smolder reads, with env references expanded
type FoundryConfig struct {
	RpcEndpoints map[string]string
	Etherscan    map[string]EtherscanConfig
	Profiles     map[string]ProfileConfig
	// MissingEnv maps an rpc endpoint name to the first variable it references that is unset
	MissingEnv map[string]string
}

// EtherscanConfig represents Etherscan configuration for a network
type EtherscanConfig struct {
	Key string `toml:"key,omitempty"`
	URL string `toml:"url,omitempty"`
}

// ProfileConfig holds the profile paths smolder cares about
type ProfileConfig struct {
	SrcPath       string `toml:"src,omitempty"`
	OutPath       string `toml:"out,omitempty"`
	BroadcastPath string `toml:"broadcast,omitempty"`
}

// Paths returns the src, out and broadcast directories of the default profile
func (c *FoundryConfig) Paths() (src, out, broadcast string) {
	src, out, broadcast = "src", "out", "broadcast"
	if c == nil {
		return
	}
	if p, ok := c.Profiles["default"]; ok {
		if p.SrcPath != "" {
			src = p.SrcPath
		}
		if p.OutPath != "" {
			out = p.OutPath
		}
		if p.BroadcastPath != "" {
			broadcast = p.BroadcastPath
		}
	}
	return
}

// NetworkNames returns the configured rpc endpoint names in sorted order
func (c *FoundryConfig) NetworkNames() []string {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.RpcEndpoints))
}
