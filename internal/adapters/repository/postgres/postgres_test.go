package postgres

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// newTestRepo connects to SMOLDER_TEST_DATABASE_URL and starts from empty tables
func newTestRepo(t *testing.T) *PostgresRepository {
	t.Helper()
	url := os.Getenv("SMOLDER_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SMOLDER_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	repo, err := NewPostgresRepository(ctx, url, 8, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.NoError(t, repo.Init(ctx))
	_, err = repo.pool.Exec(ctx, `TRUNCATE call_history, wallets, deployments, contracts, networks RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return repo
}

func seed(t *testing.T, repo *PostgresRepository) (*models.Contract, *models.Network) {
	t.Helper()
	ctx := context.Background()
	n, err := repo.UpsertNetwork(ctx, models.NewNetwork{Name: "testnet", ChainID: 31337, RPCURL: "http://localhost:8545"})
	require.NoError(t, err)
	c, err := repo.UpsertContract(ctx, models.NewContract{Name: "Token", SourcePath: "src/Token.sol:Token", ABI: "[]", BytecodeHash: "aa"})
	require.NoError(t, err)
	return c, n
}

func TestPostgres_TokenScenario(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	c, n := seed(t, repo)

	current, err := repo.GetCurrentDeployment(ctx, "Token", "testnet")
	require.NoError(t, err)
	assert.Nil(t, current)

	block := uint64(420)
	first, err := repo.CreateDeployment(ctx, models.NewDeployment{
		ContractID: c.ID, NetworkID: n.ID, Address: "0xaaa", Deployer: "0xd", TxHash: "0x111", BlockNumber: &block,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.True(t, first.IsCurrent)

	second, err := repo.CreateDeployment(ctx, models.NewDeployment{
		ContractID: c.ID, NetworkID: n.ID, Address: "0xbbb", Deployer: "0xd", TxHash: "0x222",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	current, err = repo.GetCurrentDeployment(ctx, "Token", "testnet")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "0xbbb", current.Address)

	all, err := repo.ListDeployments(ctx, domain.DeploymentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 2, all[0].Version)
	assert.Equal(t, 1, all[1].Version)
	assert.Equal(t, uint64(420), *all[1].BlockNumber)

	view, err := repo.GetDeploymentViewByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "[]", view.ABI)
	assert.Equal(t, models.ChainID(31337), view.ChainID)

	exists, err := repo.ExistsByTxHash(ctx, "0x111")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.CreateDeployment(ctx, models.NewDeployment{
		ContractID: c.ID, NetworkID: n.ID, Address: "0xccc", TxHash: "0x111",
	})
	assert.True(t, domain.IsStorage(err))

	_, err = repo.CreateDeployment(ctx, models.NewDeployment{
		ContractID: 999, NetworkID: n.ID, Address: "0xddd", TxHash: "0x333",
	})
	assert.True(t, domain.IsStorage(err))
}

func TestPostgres_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	c, n := seed(t, repo)

	const count = 16
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.CreateDeployment(ctx, models.NewDeployment{
				ContractID: c.ID,
				NetworkID:  n.ID,
				Address:    fmt.Sprintf("0x%040d", i),
				TxHash:     fmt.Sprintf("0x%064d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var current, maxVersion int
	require.NoError(t, repo.pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE is_current), MAX(version) FROM deployments`).Scan(&current, &maxVersion))
	assert.Equal(t, 1, current)
	assert.Equal(t, count, maxVersion)
}

func TestPostgres_PairLockKey(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	tx, err := repo.pool.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx) //nolint:errcheck
	_, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(`+pairLockKey+`)`, int64(1), int64(1))
	require.NoError(t, err)

	tryLock := func(contractID, networkID int64) bool {
		other, err := repo.pool.Begin(ctx)
		require.NoError(t, err)
		defer other.Rollback(ctx) //nolint:errcheck
		var locked bool
		require.NoError(t, other.QueryRow(ctx, `SELECT pg_try_advisory_xact_lock(`+pairLockKey+`)`, contractID, networkID).Scan(&locked))
		return locked
	}

	assert.False(t, tryLock(1, 1))
	// ids that agree in their low 32 bits are different pairs
	assert.True(t, tryLock(1+1<<32, 1))
	assert.True(t, tryLock(1, 1+1<<32))
}

func TestPostgres_WalletsAndCalls(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	c, n := seed(t, repo)
	d, err := repo.CreateDeployment(ctx, models.NewDeployment{ContractID: c.ID, NetworkID: n.ID, Address: "0xaaa", TxHash: "0x111"})
	require.NoError(t, err)

	w, err := repo.CreateWallet(ctx, models.NewWallet{Name: "dev", Address: "0xAbC", EncryptedKey: []byte("secret")})
	require.NoError(t, err)

	listed, err := repo.ListWallets(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Empty(t, listed[0].EncryptedKey)

	byAddr, err := repo.GetWalletByAddress(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), byAddr.EncryptedKey)

	call, err := repo.CreateCall(ctx, models.NewCallRecord{
		DeploymentID:      d.ID,
		WalletID:          &w.ID,
		FunctionName:      "transfer",
		FunctionSignature: "transfer(address,uint256)",
		InputParams:       "[]",
		CallType:          models.CallTypeWrite,
		Status:            models.CallStatusPending,
	})
	require.NoError(t, err)
	assert.Nil(t, call.ConfirmedAt)

	gas := uint64(50000)
	require.NoError(t, repo.UpdateCall(ctx, call.ID, models.CallUpdate{GasUsed: &gas, Status: models.CallStatusReverted}))

	got, err := repo.GetCall(ctx, call.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CallStatusReverted, got.Status)
	assert.Equal(t, uint64(50000), *got.GasUsed)
	require.NotNil(t, got.ConfirmedAt)
	assert.WithinDuration(t, time.Now(), *got.ConfirmedAt, time.Minute)

	calls, err := repo.ListCalls(ctx, domain.CallHistoryFilter{DeploymentID: d.ID})
	require.NoError(t, err)
	assert.Len(t, calls, 1)

	removed, err := repo.DeleteWallet(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, removed)
}
