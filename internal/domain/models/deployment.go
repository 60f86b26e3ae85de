package models

import "time"

// Deployment represents one deployment of a contract to a network.
// Only IsCurrent ever changes after insertion.
type Deployment struct {
	ID              DeploymentID `json:"id"`
	ContractID      ContractID   `json:"contractId"`
	NetworkID       NetworkID    `json:"networkId"`
	Address         string       `json:"address"`
	Deployer        string       `json:"deployer"`
	TxHash          string       `json:"txHash"`
	BlockNumber     *uint64      `json:"blockNumber,omitempty"`
	ConstructorArgs *string      `json:"constructorArgs,omitempty"`
	Version         int          `json:"version"`
	IsCurrent       bool         `json:"isCurrent"`
	DeployedAt      time.Time    `json:"deployedAt"`
}

// NewDeployment is the input of the registry's create operation
type NewDeployment struct {
	ContractID      ContractID
	NetworkID       NetworkID
	Address         string
	Deployer        string
	TxHash          string
	BlockNumber     *uint64
	ConstructorArgs *string
}

// DeploymentView is a deployment joined with its contract and network
type DeploymentView struct {
	ID           DeploymentID `json:"id"`
	ContractName string       `json:"contractName"`
	NetworkName  string       `json:"networkName"`
	ChainID      ChainID      `json:"chainId"`
	Address      string       `json:"address"`
	Deployer     string       `json:"deployer"`
	TxHash       string       `json:"txHash"`
	BlockNumber  *uint64      `json:"blockNumber,omitempty"`
	Version      int          `json:"version"`
	IsCurrent    bool         `json:"isCurrent"`
	DeployedAt   time.Time    `json:"deployedAt"`
	ABI          string       `json:"abi,omitempty"`
}

// ParsedDeployment is a deployment fact reconstructed from a broadcast file
type ParsedDeployment struct {
	ContractName    string
	Address         string
	Deployer        string
	TxHash          string
	BlockNumber     *uint64
	ConstructorArgs *string
	ABI             string
	BytecodeHash    string
	SourcePath      string
}
