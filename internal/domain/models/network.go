package models

import "time"

// Network is a named chain the registry knows about
type Network struct {
	ID          NetworkID `json:"id"`
	Name        string    `json:"name"`
	ChainID     ChainID   `json:"chainId"`
	RPCURL      string    `json:"rpcUrl"`
	ExplorerURL string    `json:"explorerUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewNetwork is the upsert payload for a network, keyed by Name
type NewNetwork struct {
	Name        string
	ChainID     ChainID
	RPCURL      string
	ExplorerURL string
}
