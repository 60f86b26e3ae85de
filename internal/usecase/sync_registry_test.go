package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/domain/models"
	"github.com/smolder-dev/smolder/internal/usecase"
)

var anvilNetwork = &config.Network{Name: "anvil", ChainID: 31337, RPCURL: "http://localhost:8545"}

func parsedDeployment(contract, address, txHash string) models.ParsedDeployment {
	block := uint64(12)
	return models.ParsedDeployment{
		ContractName: contract,
		Address:      address,
		Deployer:     "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		TxHash:       txHash,
		BlockNumber:  &block,
		ABI:          "[]",
		BytecodeHash: "deadbeef",
		SourcePath:   "src/" + contract + ".sol:" + contract,
	}
}

func TestSyncRegistry(t *testing.T) {
	ctx := context.Background()

	anvilFile := usecase.BroadcastFileRef{Script: "Deploy.s.sol", ChainID: 31337, Path: "broadcast/Deploy.s.sol/31337/run-latest.json"}
	mainnetFile := usecase.BroadcastFileRef{Script: "Deploy.s.sol", ChainID: 1, Path: "broadcast/Deploy.s.sol/1/run-latest.json"}
	output := &domain.BroadcastOutput{}

	setup := func(t *testing.T, parsed []models.ParsedDeployment, errs []error) (*usecase.SyncRegistry, *MockBroadcastParser) {
		store := newStore(t)
		parser := new(MockBroadcastParser)
		parser.On("FindBroadcastFiles").Return([]usecase.BroadcastFileRef{mainnetFile, anvilFile}, nil)
		parser.On("ParseFile", anvilFile.Path).Return(output, nil)
		parser.On("ExtractDeployments", output).Return(parsed, errs)

		resolver := new(MockNetworkResolver)
		resolver.On("NetworkNames").Return([]string{"anvil"})
		resolver.On("Resolve", mock.Anything, "anvil").Return(anvilNetwork, nil)

		uc := usecase.NewSyncRegistry(parser, nil, resolver, store, store, store, &MockProgressSink{}, discardLogger())
		return uc, parser
	}

	t.Run("imports new deployments and skips unknown chains", func(t *testing.T) {
		uc, parser := setup(t, []models.ParsedDeployment{
			parsedDeployment("Token", "0x1111111111111111111111111111111111111111", "0xaa"),
			parsedDeployment("Counter", "0x2222222222222222222222222222222222222222", "0xbb"),
		}, []error{domain.NewError(domain.KindArtifactNotFound, "could not find artifact for contract 'Gone'")})

		result, err := uc.Run(ctx, usecase.SyncParams{})
		require.NoError(t, err)

		assert.Equal(t, 2, result.FilesScanned)
		assert.Equal(t, 1, result.FilesSkipped)
		require.Len(t, result.Imported, 2)
		assert.Equal(t, "Token", result.Imported[0].ContractName)
		assert.Equal(t, 1, result.Imported[0].Deployment.Version)
		assert.True(t, result.Imported[0].Deployment.IsCurrent)
		assert.Equal(t, 0, result.Skipped)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "Gone")

		parser.AssertNotCalled(t, "ParseFile", mainnetFile.Path)
	})

	t.Run("is idempotent", func(t *testing.T) {
		uc, _ := setup(t, []models.ParsedDeployment{
			parsedDeployment("Token", "0x1111111111111111111111111111111111111111", "0xaa"),
		}, nil)

		first, err := uc.Run(ctx, usecase.SyncParams{})
		require.NoError(t, err)
		assert.Len(t, first.Imported, 1)

		second, err := uc.Run(ctx, usecase.SyncParams{})
		require.NoError(t, err)
		assert.Empty(t, second.Imported)
		assert.Equal(t, 1, second.Skipped)
		assert.Empty(t, second.Errors)
	})

	t.Run("redeployment becomes the next version", func(t *testing.T) {
		uc, _ := setup(t, []models.ParsedDeployment{
			parsedDeployment("Token", "0x1111111111111111111111111111111111111111", "0xaa"),
			parsedDeployment("Token", "0x3333333333333333333333333333333333333333", "0xcc"),
		}, nil)

		result, err := uc.Run(ctx, usecase.SyncParams{})
		require.NoError(t, err)
		require.Len(t, result.Imported, 2)
		assert.Equal(t, 2, result.Imported[1].Deployment.Version)
	})

	t.Run("per file failures are collected", func(t *testing.T) {
		store := newStore(t)
		parser := new(MockBroadcastParser)
		parser.On("FindBroadcastFiles").Return([]usecase.BroadcastFileRef{anvilFile}, nil)
		parser.On("ParseFile", anvilFile.Path).Return(nil, domain.NewError(domain.KindSerialization, "failed to parse broadcast file"))

		resolver := new(MockNetworkResolver)
		resolver.On("NetworkNames").Return([]string{"anvil", "broken"})
		resolver.On("Resolve", mock.Anything, "anvil").Return(anvilNetwork, nil)
		resolver.On("Resolve", mock.Anything, "broken").Return(nil, errors.New("dial tcp: connection refused"))

		uc := usecase.NewSyncRegistry(parser, nil, resolver, store, store, store, &MockProgressSink{}, discardLogger())
		result, err := uc.Run(ctx, usecase.SyncParams{})
		require.NoError(t, err)
		assert.Empty(t, result.Imported)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], anvilFile.Path)
	})

	t.Run("listing failure aborts", func(t *testing.T) {
		parser := new(MockBroadcastParser)
		parser.On("FindBroadcastFiles").Return(nil, domain.NewError(domain.KindIO, "permission denied"))
		store := newStore(t)

		uc := usecase.NewSyncRegistry(parser, nil, new(MockNetworkResolver), store, store, store, &MockProgressSink{}, discardLogger())
		_, err := uc.Run(ctx, usecase.SyncParams{})
		require.Error(t, err)
	})

	t.Run("select offers only importable files", func(t *testing.T) {
		store := newStore(t)
		parser := new(MockBroadcastParser)
		parser.On("FindBroadcastFiles").Return([]usecase.BroadcastFileRef{mainnetFile, anvilFile}, nil)
		parser.On("ParseFile", anvilFile.Path).Return(output, nil)
		parser.On("ExtractDeployments", output).Return([]models.ParsedDeployment{
			parsedDeployment("Token", "0x1111111111111111111111111111111111111111", "0xaa"),
		}, nil)

		resolver := new(MockNetworkResolver)
		resolver.On("NetworkNames").Return([]string{"anvil"})
		resolver.On("Resolve", mock.Anything, "anvil").Return(anvilNetwork, nil)

		selector := new(MockBroadcastFileSelector)
		selector.On("SelectBroadcastFiles", ctx, []usecase.BroadcastFileRef{anvilFile}).Return([]usecase.BroadcastFileRef{anvilFile}, nil)

		uc := usecase.NewSyncRegistry(parser, selector, resolver, store, store, store, &MockProgressSink{}, discardLogger())
		result, err := uc.Run(ctx, usecase.SyncParams{Select: true})
		require.NoError(t, err)
		assert.Equal(t, 1, result.FilesScanned)
		assert.Len(t, result.Imported, 1)
		selector.AssertExpectations(t)
	})

	t.Run("latest block becomes current across scripts", func(t *testing.T) {
		store := newStore(t)
		upgradeFile := usecase.BroadcastFileRef{Script: "Upgrade.s.sol", ChainID: 31337, Path: "broadcast/Upgrade.s.sol/31337/run-latest.json"}
		deployOutput := &domain.BroadcastOutput{Chain: 31337, Timestamp: 1}
		upgradeOutput := &domain.BroadcastOutput{Chain: 31337, Timestamp: 2}

		later := parsedDeployment("Token", "0x1111111111111111111111111111111111111111", "0xaa")
		block := uint64(20)
		later.BlockNumber = &block
		earlier := parsedDeployment("Token", "0x2222222222222222222222222222222222222222", "0xbb")

		parser := new(MockBroadcastParser)
		parser.On("FindBroadcastFiles").Return([]usecase.BroadcastFileRef{anvilFile, upgradeFile}, nil)
		parser.On("ParseFile", anvilFile.Path).Return(deployOutput, nil)
		parser.On("ParseFile", upgradeFile.Path).Return(upgradeOutput, nil)
		parser.On("ExtractDeployments", deployOutput).Return([]models.ParsedDeployment{later}, nil)
		parser.On("ExtractDeployments", upgradeOutput).Return([]models.ParsedDeployment{earlier}, nil)

		resolver := new(MockNetworkResolver)
		resolver.On("NetworkNames").Return([]string{"anvil"})
		resolver.On("Resolve", mock.Anything, "anvil").Return(anvilNetwork, nil)

		uc := usecase.NewSyncRegistry(parser, nil, resolver, store, store, store, &MockProgressSink{}, discardLogger())
		result, err := uc.Run(ctx, usecase.SyncParams{})
		require.NoError(t, err)
		require.Len(t, result.Imported, 2)
		assert.Equal(t, "0xbb", result.Imported[0].Deployment.TxHash)
		assert.Equal(t, "0xaa", result.Imported[1].Deployment.TxHash)

		current, err := store.GetCurrentDeployment(ctx, "Token", "anvil")
		require.NoError(t, err)
		require.NotNil(t, current)
		assert.Equal(t, "0xaa", current.TxHash)
		assert.Equal(t, 2, current.Version)
	})

	t.Run("cancelled selection aborts", func(t *testing.T) {
		store := newStore(t)
		parser := new(MockBroadcastParser)
		parser.On("FindBroadcastFiles").Return([]usecase.BroadcastFileRef{anvilFile}, nil)

		resolver := new(MockNetworkResolver)
		resolver.On("NetworkNames").Return([]string{"anvil"})
		resolver.On("Resolve", mock.Anything, "anvil").Return(anvilNetwork, nil)

		selector := new(MockBroadcastFileSelector)
		selector.On("SelectBroadcastFiles", ctx, mock.Anything).Return(nil, errors.New("selection cancelled"))

		uc := usecase.NewSyncRegistry(parser, selector, resolver, store, store, store, &MockProgressSink{}, discardLogger())
		_, err := uc.Run(ctx, usecase.SyncParams{Select: true})
		require.Error(t, err)
		parser.AssertNotCalled(t, "ParseFile", mock.Anything)
	})
}
