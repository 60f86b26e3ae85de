package usecase_test

import (
	"context"
	"crypto/ecdsa"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smolder-dev/smolder/internal/adapters/repository/file"
	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/domain/models"
	"github.com/smolder-dev/smolder/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T) *file.FileRepository {
	t.Helper()
	store, err := file.NewFileRepository(t.TempDir(), discardLogger())
	require.NoError(t, err)
	require.NoError(t, store.Init(context.Background()))
	return store
}

// MockBroadcastParser is a mock implementation of BroadcastParser
type MockBroadcastParser struct {
	mock.Mock
}

func (m *MockBroadcastParser) Parse(scriptRef string, chainID models.ChainID) (*domain.BroadcastOutput, error) {
	args := m.Called(scriptRef, chainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BroadcastOutput), args.Error(1)
}

func (m *MockBroadcastParser) ParseFile(path string) (*domain.BroadcastOutput, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BroadcastOutput), args.Error(1)
}

func (m *MockBroadcastParser) FindBroadcastFiles() ([]usecase.BroadcastFileRef, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usecase.BroadcastFileRef), args.Error(1)
}

func (m *MockBroadcastParser) ExtractDeployments(output *domain.BroadcastOutput) ([]models.ParsedDeployment, []error) {
	args := m.Called(output)
	var errs []error
	if args.Get(1) != nil {
		errs = args.Get(1).([]error)
	}
	if args.Get(0) == nil {
		return nil, errs
	}
	return args.Get(0).([]models.ParsedDeployment), errs
}

// MockNetworkResolver is a mock implementation of NetworkResolver
type MockNetworkResolver struct {
	mock.Mock
}

func (m *MockNetworkResolver) NetworkNames() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockNetworkResolver) Resolve(ctx context.Context, name string) (*config.Network, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.Network), args.Error(1)
}

// MockChainClient is a mock implementation of ChainClient
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) ChainID(ctx context.Context, rpcURL string) (uint64, error) {
	args := m.Called(ctx, rpcURL)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockChainClient) Call(ctx context.Context, rpcURL, to string, data []byte) ([]byte, error) {
	args := m.Called(ctx, rpcURL, to, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockChainClient) SendTransaction(ctx context.Context, rpcURL string, key *ecdsa.PrivateKey, to *string, data []byte, value *big.Int) (*usecase.TxResult, error) {
	args := m.Called(ctx, rpcURL, key, to, data, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.TxResult), args.Error(1)
}

// MockKeyVault is a mock implementation of KeyVault
type MockKeyVault struct {
	mock.Mock
}

func (m *MockKeyVault) Encrypt(privateKeyHex string) (string, []byte, error) {
	args := m.Called(privateKeyHex)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]byte), args.Error(2)
}

func (m *MockKeyVault) Decrypt(encrypted []byte) (*ecdsa.PrivateKey, error) {
	args := m.Called(encrypted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecdsa.PrivateKey), args.Error(1)
}

// MockScriptRunner is a mock implementation of ScriptRunner
type MockScriptRunner struct {
	mock.Mock
}

func (m *MockScriptRunner) RunScript(ctx context.Context, cfg usecase.RunScriptConfig) (*usecase.ScriptResult, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ScriptResult), args.Error(1)
}

// MockArtifactLoader is a mock implementation of ArtifactLoader
type MockArtifactLoader struct {
	mock.Mock
}

func (m *MockArtifactLoader) Load(name string) (*models.Artifact, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artifact), args.Error(1)
}

func (m *MockArtifactLoader) List() ([]models.ArtifactInfo, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ArtifactInfo), args.Error(1)
}

func (m *MockArtifactLoader) Details(name string) (*models.ArtifactDetails, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArtifactDetails), args.Error(1)
}

// MockDeploymentRepository is a mock implementation of DeploymentRepository
type MockDeploymentRepository struct {
	mock.Mock
}

func (m *MockDeploymentRepository) CreateDeployment(ctx context.Context, d models.NewDeployment) (*models.Deployment, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) GetCurrentDeployment(ctx context.Context, contractName, networkName string) (*models.Deployment, error) {
	args := m.Called(ctx, contractName, networkName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) GetDeploymentByID(ctx context.Context, id models.DeploymentID) (*models.Deployment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) GetDeploymentViewByID(ctx context.Context, id models.DeploymentID) (*models.DeploymentView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeploymentView), args.Error(1)
}

func (m *MockDeploymentRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.DeploymentView, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DeploymentView), args.Error(1)
}

func (m *MockDeploymentRepository) ListDeploymentsForExport(ctx context.Context, network string) ([]*models.DeploymentView, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DeploymentView), args.Error(1)
}

func (m *MockDeploymentRepository) ExistsByTxHash(ctx context.Context, txHash string) (bool, error) {
	args := m.Called(ctx, txHash)
	return args.Bool(0), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}

func (m *MockProgressSink) stages() []string {
	stages := make([]string, 0, len(m.events))
	for _, e := range m.events {
		stages = append(stages, e.Stage)
	}
	return stages
}

// MockDeploymentSelector is a mock implementation of DeploymentSelector
type MockDeploymentSelector struct {
	mock.Mock
}

func (m *MockDeploymentSelector) SelectDeployment(ctx context.Context, candidates []*models.DeploymentView, prompt string) (*models.DeploymentView, error) {
	args := m.Called(ctx, candidates, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeploymentView), args.Error(1)
}

// MockProjectBuilder is a mock implementation of ProjectBuilder
type MockProjectBuilder struct {
	mock.Mock
}

func (m *MockProjectBuilder) Build(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockBroadcastFileSelector is a mock implementation of BroadcastFileSelector
type MockBroadcastFileSelector struct {
	mock.Mock
}

func (m *MockBroadcastFileSelector) SelectBroadcastFiles(ctx context.Context, files []usecase.BroadcastFileRef) ([]usecase.BroadcastFileRef, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usecase.BroadcastFileRef), args.Error(1)
}
