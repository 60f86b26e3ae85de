package usecase

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// Lookups that find nothing return (nil, nil); errors are reserved for storage failures.

// NetworkRepository persists networks, upserted by name
type NetworkRepository interface {
	ListNetworks(ctx context.Context) ([]*models.Network, error)
	GetNetworkByName(ctx context.Context, name string) (*models.Network, error)
	GetNetworkByID(ctx context.Context, id models.NetworkID) (*models.Network, error)
	GetNetworkByChainID(ctx context.Context, chainID models.ChainID) (*models.Network, error)
	UpsertNetwork(ctx context.Context, network models.NewNetwork) (*models.Network, error)
}

// ContractRepository persists contracts identified by (name, bytecode hash)
type ContractRepository interface {
	ListContracts(ctx context.Context) ([]*models.Contract, error)
	GetContractByName(ctx context.Context, name string) (*models.Contract, error)
	GetContractByID(ctx context.Context, id models.ContractID) (*models.Contract, error)
	UpsertContract(ctx context.Context, contract models.NewContract) (*models.Contract, error)
}

// DeploymentRepository is the versioned deployment registry.
// CreateDeployment demotes the pair's current row and inserts the new one as a single atomic unit.
type DeploymentRepository interface {
	CreateDeployment(ctx context.Context, deployment models.NewDeployment) (*models.Deployment, error)
	GetCurrentDeployment(ctx context.Context, contractName, networkName string) (*models.Deployment, error)
	GetDeploymentByID(ctx context.Context, id models.DeploymentID) (*models.Deployment, error)
	GetDeploymentViewByID(ctx context.Context, id models.DeploymentID) (*models.DeploymentView, error)
	ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.DeploymentView, error)
	ListDeploymentsForExport(ctx context.Context, network string) ([]*models.DeploymentView, error)
	ExistsByTxHash(ctx context.Context, txHash string) (bool, error)
}

// WalletRepository persists signing wallets
type WalletRepository interface {
	ListWallets(ctx context.Context) ([]*models.Wallet, error)
	GetWalletByName(ctx context.Context, name string) (*models.Wallet, error)
	GetWalletByID(ctx context.Context, id models.WalletID) (*models.Wallet, error)
	GetWalletByAddress(ctx context.Context, address string) (*models.Wallet, error)
	CreateWallet(ctx context.Context, wallet models.NewWallet) (*models.Wallet, error)
	DeleteWallet(ctx context.Context, name string) (bool, error)
}

// CallHistoryRepository persists contract interactions
type CallHistoryRepository interface {
	ListCalls(ctx context.Context, filter domain.CallHistoryFilter) ([]*models.CallRecord, error)
	GetCall(ctx context.Context, id models.CallID) (*models.CallRecord, error)
	CreateCall(ctx context.Context, call models.NewCallRecord) (*models.CallRecord, error)
	UpdateCall(ctx context.Context, id models.CallID, update models.CallUpdate) error
}

// RegistryStore is a complete registry backend
type RegistryStore interface {
	NetworkRepository
	ContractRepository
	DeploymentRepository
	WalletRepository
	CallHistoryRepository
	Init(ctx context.Context) error
	Close() error
}

// NetworkResolver resolves configured network names
type NetworkResolver interface {
	NetworkNames() []string
	Resolve(ctx context.Context, name string) (*config.Network, error)
}

// TxResult is the mined outcome of a sent transaction
type TxResult struct {
	TxHash          string   `json:"txHash"`
	BlockNumber     uint64   `json:"blockNumber"`
	GasUsed         uint64   `json:"gasUsed"`
	GasPrice        *big.Int `json:"gasPrice,omitempty"`
	ContractAddress string   `json:"contractAddress,omitempty"`
	Success         bool     `json:"success"`
}

// ChainClient is the RPC transport
type ChainClient interface {
	ChainID(ctx context.Context, rpcURL string) (uint64, error)
	Call(ctx context.Context, rpcURL, to string, data []byte) ([]byte, error)
	// SendTransaction signs, sends and waits for the receipt. A nil to deploys a contract.
	SendTransaction(ctx context.Context, rpcURL string, key *ecdsa.PrivateKey, to *string, data []byte, value *big.Int) (*TxResult, error)
}

// KeyVault encrypts private keys for storage
type KeyVault interface {
	Encrypt(privateKeyHex string) (address string, encrypted []byte, err error)
	Decrypt(encrypted []byte) (*ecdsa.PrivateKey, error)
}

// DeploymentSelector asks the user to pick one of several matching deployments
type DeploymentSelector interface {
	SelectDeployment(ctx context.Context, candidates []*models.DeploymentView, prompt string) (*models.DeploymentView, error)
}

// Progress tracking interfaces

// ExecutionStage names a step of a long-running use case
type ExecutionStage string

const (
	StageBuilding     ExecutionStage = "Building"
	StageScanning     ExecutionStage = "Scanning"
	StageImporting    ExecutionStage = "Importing"
	StageSimulating   ExecutionStage = "Simulating"
	StageBroadcasting ExecutionStage = "Broadcasting"
	StageRecording    ExecutionStage = "Recording"
	StageSending      ExecutionStage = "Sending"
	StageCompleted    ExecutionStage = "Completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
