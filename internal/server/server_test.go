package server

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smolder-dev/smolder/internal/adapters/repository/file"
	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/domain/models"
	"github.com/smolder-dev/smolder/internal/usecase"
)

const (
	tokenABI = `[
		{"type":"function","name":"balanceOf","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
		{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"}
	]`
	tokenAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	holder       = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

type fakeChain struct {
	balance *big.Int
}

func (f *fakeChain) ChainID(context.Context, string) (uint64, error) { return 31337, nil }

func (f *fakeChain) Call(context.Context, string, string, []byte) ([]byte, error) {
	return common.LeftPadBytes(f.balance.Bytes(), 32), nil
}

func (f *fakeChain) SendTransaction(context.Context, string, *ecdsa.PrivateKey, *string, []byte, *big.Int) (*usecase.TxResult, error) {
	return nil, domain.NewError(domain.KindRPC, "not connected")
}

type fakeResolver struct{}

func (fakeResolver) NetworkNames() []string { return []string{"anvil"} }

func (fakeResolver) Resolve(_ context.Context, name string) (*config.Network, error) {
	if name != "anvil" {
		return nil, domain.NetworkNotFound(name)
	}
	return &config.Network{Name: "anvil", RPCURL: "http://localhost:8545", ChainID: 31337}, nil
}

type fakeArtifacts struct{}

func (fakeArtifacts) Load(name string) (*models.Artifact, error) {
	return nil, domain.NewError(domain.KindArtifactNotFound, "artifact not found: %s", name)
}

func (fakeArtifacts) List() ([]models.ArtifactInfo, error) { return []models.ArtifactInfo{}, nil }

func (fakeArtifacts) Details(name string) (*models.ArtifactDetails, error) {
	return nil, domain.NewError(domain.KindArtifactNotFound, "artifact not found: %s", name)
}

type testServer struct {
	handler    http.Handler
	deployment models.DeploymentID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := file.NewFileRepository(t.TempDir(), log)
	require.NoError(t, err)
	require.NoError(t, store.Init(ctx))

	network, err := store.UpsertNetwork(ctx, models.NewNetwork{Name: "anvil", ChainID: 31337, RPCURL: "http://localhost:8545"})
	require.NoError(t, err)
	contract, err := store.UpsertContract(ctx, models.NewContract{Name: "Token", ABI: tokenABI, BytecodeHash: "aa"})
	require.NoError(t, err)
	deployment, err := store.CreateDeployment(ctx, models.NewDeployment{
		ContractID: contract.ID,
		NetworkID:  network.ID,
		Address:    tokenAddress,
		Deployer:   holder,
		TxHash:     "0x01",
	})
	require.NoError(t, err)

	chain := &fakeChain{balance: big.NewInt(1000)}
	progress := usecase.NopProgress{}
	handlers := &Handlers{
		ListNetworks:     usecase.NewListNetworks(store, fakeResolver{}),
		ListContracts:    usecase.NewListContracts(store),
		ListDeployments:  usecase.NewListDeployments(store),
		ShowDeployment:   usecase.NewShowDeployment(store),
		InteractContract: usecase.NewInteractContract(store, store, store, store, nil, chain, progress, log),
		ListArtifacts:    usecase.NewListArtifacts(fakeArtifacts{}),
		ShowArtifact:     usecase.NewShowArtifact(fakeArtifacts{}),
		DeployArtifact:   usecase.NewDeployArtifact(fakeResolver{}, fakeArtifacts{}, nil, store, nil, chain, store, store, store, progress, log),
		ManageWallets:    usecase.NewManageWallets(store, nil),
	}

	cfg := &config.RuntimeConfig{Server: config.ServerConfig{Host: "127.0.0.1", Port: 0}}
	return &testServer{handler: NewServer(cfg, handlers, log).Handler(), deployment: deployment.ID}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestDeploymentRoutes(t *testing.T) {
	ts := newTestServer(t)

	t.Run("list", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/deployments?network=anvil", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var result usecase.DeploymentListResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, 1, result.Summary.Total)
		require.Len(t, result.Deployments, 1)
		assert.Equal(t, "Token", result.Deployments[0].ContractName)
	})

	t.Run("show", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/deployments/"+ts.deployment.String(), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), tokenAddress)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/deployments/999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "DEPLOYMENT_NOT_FOUND", decodeError(t, rec).Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/deployments/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_PARAMETER", decodeError(t, rec).Code)
	})

	t.Run("functions", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/deployments/"+ts.deployment.String()+"/functions", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var fns models.ParsedFunctions
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fns))
		require.Len(t, fns.Read, 1)
		assert.Equal(t, "balanceOf(address)", fns.Read[0].Signature)
	})
}

func TestCallRoute(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/deployments/" + ts.deployment.String()

	t.Run("decodes the return value", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, base+"/call", `{"function":"balanceOf","args":["`+holder+`"]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"function":"balanceOf(address)","result":"1000"}`, rec.Body.String())

		rec = ts.do(t, http.MethodGet, base+"/history?limit=5", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var history []models.CallRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
		require.Len(t, history, 1)
		assert.Equal(t, models.CallStatusSuccess, history[0].Status)
	})

	t.Run("write function via call is 400", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, base+"/call", `{"function":"transfer","args":["`+holder+`", 5]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
	})

	t.Run("unknown function is 404", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, base+"/call", `{"function":"mint","args":[]}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "FUNCTION_NOT_FOUND", decodeError(t, rec).Code)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, base+"/call", `{"function":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative history limit is 400", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, base+"/history?limit=-1", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNetworkAndArtifactRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/networks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var networks []usecase.NetworkInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &networks))
	require.Len(t, networks, 1)
	assert.True(t, networks[0].Configured)

	rec = ts.do(t, http.MethodGet, "/api/networks/mainnet", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/contracts/Token", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/artifacts/Missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ARTIFACT_NOT_FOUND", decodeError(t, rec).Code)

	rec = ts.do(t, http.MethodPost, "/api/deploy", `{"artifact":"Missing","network":"anvil","wallet":"w"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/api/health", "")

	rec := ts.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "smolder_http_requests_total")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(domain.KindWalletNotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.KindAbiEncode))
	assert.Equal(t, http.StatusBadGateway, statusFor(domain.KindTransactionReverted))
	assert.Equal(t, http.StatusInternalServerError, statusFor(domain.KindStorage))
}

func TestStorageErrorsAreMasked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := &Server{log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/deployments", nil)
	s.writeError(c, domain.StorageError(io.ErrUnexpectedEOF, "reading deployments.json"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "DATABASE_ERROR", resp.Code)
	assert.Equal(t, internalDatabaseError, resp.Message)
}
