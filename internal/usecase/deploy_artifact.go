package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/abi"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// DeployArtifact deploys a compiled artifact directly with a stored wallet
type DeployArtifact struct {
	resolver  NetworkResolver
	artifacts ArtifactLoader
	builder   ProjectBuilder
	wallets   WalletRepository
	vault     KeyVault
	chain     ChainClient
	networks  NetworkRepository
	recorder  *deploymentRecorder
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployArtifact creates a new DeployArtifact use case
func NewDeployArtifact(
	resolver NetworkResolver,
	artifacts ArtifactLoader,
	builder ProjectBuilder,
	wallets WalletRepository,
	vault KeyVault,
	chain ChainClient,
	networks NetworkRepository,
	contracts ContractRepository,
	deployments DeploymentRepository,
	progress ProgressSink,
	log *slog.Logger,
) *DeployArtifact {
	return &DeployArtifact{
		resolver:  resolver,
		artifacts: artifacts,
		builder:   builder,
		wallets:   wallets,
		vault:     vault,
		chain:     chain,
		networks:  networks,
		recorder:  newDeploymentRecorder(contracts, deployments),
		progress:  progress,
		log:       log.With("component", "DeployArtifact"),
	}
}

// DeployArtifactParams contains parameters for a live deployment
type DeployArtifactParams struct {
	Artifact string
	Network  string
	Wallet   string
	Args     []any
	// Value is the wei sent with the creation transaction, as a decimal string
	Value string
	// Build runs forge build before the artifact is loaded
	Build bool
}

// DeployArtifactResult contains the recorded deployment and its transaction
type DeployArtifactResult struct {
	Deployment *models.DeploymentView `json:"deployment"`
	Tx         *TxResult              `json:"transaction"`
}

// Run validates the constructor arguments, sends the creation transaction and records it
func (uc *DeployArtifact) Run(ctx context.Context, params DeployArtifactParams) (*DeployArtifactResult, error) {
	if params.Build {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: string(StageBuilding), Spinner: true})
		if err := uc.builder.Build(ctx); err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: string(StageCompleted)})
			return nil, err
		}
	}

	artifact, err := uc.artifacts.Load(params.Artifact)
	if err != nil {
		return nil, err
	}
	if !domain.IsValidBytecode(artifact.Bytecode.Object) {
		return nil, domain.Validation("artifact '%s' has no bytecode (may be an interface or abstract contract)", params.Artifact)
	}

	abiJSON := "[]"
	if len(artifact.ABI) > 0 {
		abiJSON = string(artifact.ABI)
	}
	parsed, err := abi.Parse(abiJSON)
	if err != nil {
		return nil, err
	}

	value, err := parseWei(params.Value)
	if err != nil {
		return nil, err
	}
	constructor := parsed.Constructor()
	expected := 0
	if constructor != nil {
		expected = len(constructor.Inputs)
	}
	if len(params.Args) != expected {
		return nil, domain.Validation("expected %d constructor parameters, got %d", expected, len(params.Args))
	}
	if value.Sign() > 0 && (constructor == nil || !constructor.IsPayable()) {
		return nil, domain.Validation("constructor of '%s' is not payable", params.Artifact)
	}

	encodedArgs, err := parsed.EncodeConstructor(params.Args)
	if err != nil {
		return nil, err
	}
	bytecode, err := domain.DecodeBytecode(artifact.Bytecode.Object)
	if err != nil {
		return nil, err
	}
	data := append(append([]byte{}, bytecode...), encodedArgs...)

	wallet, err := uc.wallets.GetWalletByName(ctx, params.Wallet)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, domain.WalletNotFound(params.Wallet)
	}
	key, err := uc.vault.Decrypt(wallet.EncryptedKey)
	if err != nil {
		return nil, err
	}

	network, err := uc.resolver.Resolve(ctx, params.Network)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageSending),
		Message: "Deploying " + params.Artifact + " to " + network.Name,
		Spinner: true,
	})
	tx, err := uc.chain.SendTransaction(ctx, network.RPCURL, key, nil, data, value)
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: string(StageCompleted)})
		return nil, err
	}
	if !tx.Success {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: string(StageCompleted)})
		return &DeployArtifactResult{Tx: tx}, domain.TransactionReverted(tx.TxHash, "contract creation failed")
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageRecording),
		Message: "Recording deployment",
		Spinner: true,
	})
	defer uc.progress.OnProgress(ctx, ProgressEvent{Stage: string(StageCompleted)})

	registered, err := uc.networks.UpsertNetwork(ctx, models.NewNetwork{
		Name:        network.Name,
		ChainID:     models.ChainID(network.ChainID),
		RPCURL:      network.RPCURL,
		ExplorerURL: network.ExplorerURL,
	})
	if err != nil {
		return nil, err
	}

	var constructorArgs *string
	if len(params.Args) > 0 {
		encoded, err := json.Marshal(params.Args)
		if err != nil {
			return nil, domain.WrapError(domain.KindSerialization, err, "failed to encode constructor arguments")
		}
		s := string(encoded)
		constructorArgs = &s
	}
	blockNumber := tx.BlockNumber

	recorded, err := uc.recorder.record(ctx, registered.ID, models.ParsedDeployment{
		ContractName:    params.Artifact,
		Address:         tx.ContractAddress,
		Deployer:        wallet.Address,
		TxHash:          tx.TxHash,
		BlockNumber:     &blockNumber,
		ConstructorArgs: constructorArgs,
		ABI:             abiJSON,
		BytecodeHash:    domain.BytecodeHash(bytecode),
		SourcePath:      "src/" + params.Artifact + ".sol:" + params.Artifact,
	})
	if err != nil {
		return nil, err
	}
	if recorded == nil {
		return nil, domain.NewError(domain.KindStorage, "transaction %s is already registered", tx.TxHash)
	}

	view, err := uc.recorder.deployments.GetDeploymentViewByID(ctx, recorded.Deployment.ID)
	if err != nil {
		return nil, err
	}

	uc.log.Info("deployed contract", "contract", params.Artifact, "address", tx.ContractAddress,
		"network", network.Name, "version", recorded.Deployment.Version)
	return &DeployArtifactResult{Deployment: view, Tx: tx}, nil
}

// parseWei parses a non-negative decimal wei amount; empty means zero
func parseWei(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, domain.InvalidParameter("value", "must be a non-negative integer amount of wei")
	}
	return v, nil
}
