package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

const (
	NetworksFile    = "networks.json"
	ContractsFile   = "contracts.json"
	DeploymentsFile = "deployments.json"
	WalletsFile     = "wallets.json"
	CallsFile       = "calls.json"
	LockFile        = "registry.lock"

	lockRetryDelay = 25 * time.Millisecond
)

// walletRecord is the on-disk form of a wallet; the encrypted key is hidden from models.Wallet's JSON
type walletRecord struct {
	ID           models.WalletID `json:"id"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	EncryptedKey []byte          `json:"encryptedKey"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// FileRepository stores the registry in json files under the data directory.
// Every access takes registry.lock and reloads the files, so several processes
// (a long-running serve next to sync or deploy) can share one data directory.
type FileRepository struct {
	dataDir string
	lock    *flock.Flock
	log     *slog.Logger
	now     func() time.Time

	mu          sync.Mutex
	networks    map[models.NetworkID]*models.Network
	contracts   map[models.ContractID]*models.Contract
	deployments map[models.DeploymentID]*models.Deployment
	wallets     map[models.WalletID]*walletRecord
	calls       map[models.CallID]*models.CallRecord
}

// NewFileRepository creates a repository rooted at dataDir and loads any existing data
func NewFileRepository(dataDir string, log *slog.Logger) (*FileRepository, error) {
	m := &FileRepository{
		dataDir: dataDir,
		lock:    flock.New(filepath.Join(dataDir, LockFile)),
		log:     log.With("component", "FileRepository"),
		now:     func() time.Time { return time.Now().UTC() },
	}

	if err := m.reload(); err != nil {
		return nil, domain.StorageError(err, "failed to load registry")
	}

	return m, nil
}

// NewFileRepositoryFromConfig creates the repository for the configured project
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig, log *slog.Logger) (*FileRepository, error) {
	return NewFileRepository(cfg.DataDir, log)
}

// Init creates the data directory and writes the registry files, keeping any existing rows
func (m *FileRepository) Init(ctx context.Context) error {
	unlock, err := m.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	if err := m.saveAll(); err != nil {
		return domain.StorageError(err, "failed to initialize registry")
	}
	m.log.Debug("registry initialized", "dir", m.dataDir)
	return nil
}

// Close is a no-op; every mutation is persisted immediately
func (m *FileRepository) Close() error {
	return nil
}

// acquire takes the in-process mutex and the registry file lock, then reloads
// the registry from disk. Writers hold the lock exclusively until unlock, so a
// read-modify-write never interleaves with another process.
func (m *FileRepository) acquire(ctx context.Context, write bool) (func(), error) {
	m.mu.Lock()

	if !write {
		// nothing to lock before the first write creates the directory
		if _, err := os.Stat(m.dataDir); os.IsNotExist(err) {
			if err := m.reload(); err != nil {
				m.mu.Unlock()
				return nil, domain.StorageError(err, "failed to load registry")
			}
			return m.mu.Unlock, nil
		}
	} else if err := os.MkdirAll(m.dataDir, 0755); err != nil {
		m.mu.Unlock()
		return nil, domain.StorageError(err, "failed to create data directory")
	}

	tryLock := m.lock.TryRLockContext
	if write {
		tryLock = m.lock.TryLockContext
	}
	if _, err := tryLock(ctx, lockRetryDelay); err != nil {
		m.mu.Unlock()
		return nil, domain.StorageError(err, "failed to lock registry")
	}

	unlock := func() {
		if err := m.lock.Unlock(); err != nil {
			m.log.Warn("failed to release registry lock", "error", err)
		}
		m.mu.Unlock()
	}

	if err := m.reload(); err != nil {
		unlock()
		return nil, domain.StorageError(err, "failed to load registry")
	}
	return unlock, nil
}

// reload replaces the in-memory registry with the contents of the data directory
func (m *FileRepository) reload() error {
	networks, err := loadMap[models.NetworkID, *models.Network](m, NetworksFile)
	if err != nil {
		return err
	}
	contracts, err := loadMap[models.ContractID, *models.Contract](m, ContractsFile)
	if err != nil {
		return err
	}
	deployments, err := loadMap[models.DeploymentID, *models.Deployment](m, DeploymentsFile)
	if err != nil {
		return err
	}
	wallets, err := loadMap[models.WalletID, *walletRecord](m, WalletsFile)
	if err != nil {
		return err
	}
	calls, err := loadMap[models.CallID, *models.CallRecord](m, CallsFile)
	if err != nil {
		return err
	}

	m.networks = networks
	m.contracts = contracts
	m.deployments = deployments
	m.wallets = wallets
	m.calls = calls
	return nil
}

func loadMap[K comparable, V any](m *FileRepository, filename string) (map[K]V, error) {
	var items map[K]V
	if err := m.loadFile(filename, &items); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	if items == nil {
		items = make(map[K]V)
	}
	return items, nil
}

// loadFile loads a JSON file from the data directory
func (m *FileRepository) loadFile(filename string, v any) error {
	data, err := os.ReadFile(filepath.Join(m.dataDir, filename))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *FileRepository) saveAll() error {
	for name, v := range map[string]any{
		NetworksFile:    m.networks,
		ContractsFile:   m.contracts,
		DeploymentsFile: m.deployments,
		WalletsFile:     m.wallets,
		CallsFile:       m.calls,
	} {
		if err := m.saveFile(name, v); err != nil {
			return fmt.Errorf("failed to save %s: %w", name, err)
		}
	}
	return nil
}

// saveFile saves data to a JSON file in the data directory
func (m *FileRepository) saveFile(filename string, v any) error {
	if err := os.MkdirAll(m.dataDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(m.dataDir, filename)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, path)
}

func (m *FileRepository) persist(filename string, v any) error {
	if err := m.saveFile(filename, v); err != nil {
		return domain.StorageError(err, "failed to save %s", filename)
	}
	return nil
}

func nextID[K ~int64, V any](items map[K]V) K {
	var highest K
	for id := range items {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}

// Networks

func (m *FileRepository) ListNetworks(ctx context.Context) ([]*models.Network, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := make([]*models.Network, 0, len(m.networks))
	for _, n := range m.networks {
		clone := *n
		result = append(result, &clone)
	}
	sortBy(result, func(n *models.Network) string { return n.Name })
	return result, nil
}

func (m *FileRepository) GetNetworkByName(ctx context.Context, name string) (*models.Network, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if n := m.networkByName(name); n != nil {
		clone := *n
		return &clone, nil
	}
	return nil, nil
}

func (m *FileRepository) GetNetworkByID(ctx context.Context, id models.NetworkID) (*models.Network, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if n, ok := m.networks[id]; ok {
		clone := *n
		return &clone, nil
	}
	return nil, nil
}

func (m *FileRepository) GetNetworkByChainID(ctx context.Context, chainID models.ChainID) (*models.Network, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var found *models.Network
	for _, n := range m.networks {
		if n.ChainID == chainID && (found == nil || n.ID < found.ID) {
			found = n
		}
	}
	if found == nil {
		return nil, nil
	}
	clone := *found
	return &clone, nil
}

// UpsertNetwork inserts a network or overwrites the chain id and URLs of an existing one with the same name
func (m *FileRepository) UpsertNetwork(ctx context.Context, network models.NewNetwork) (*models.Network, error) {
	unlock, err := m.acquire(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	n := m.networkByName(network.Name)
	if n == nil {
		n = &models.Network{
			ID:        nextID(m.networks),
			Name:      network.Name,
			CreatedAt: m.now(),
		}
		m.networks[n.ID] = n
	}
	n.ChainID = network.ChainID
	n.RPCURL = network.RPCURL
	n.ExplorerURL = network.ExplorerURL

	if err := m.persist(NetworksFile, m.networks); err != nil {
		return nil, err
	}
	clone := *n
	return &clone, nil
}

func (m *FileRepository) networkByName(name string) *models.Network {
	for _, n := range m.networks {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Contracts

func (m *FileRepository) ListContracts(ctx context.Context) ([]*models.Contract, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := make([]*models.Contract, 0, len(m.contracts))
	for _, c := range m.contracts {
		clone := *c
		result = append(result, &clone)
	}
	sortContracts(result)
	return result, nil
}

// GetContractByName returns the most recently registered contract with the name
func (m *FileRepository) GetContractByName(ctx context.Context, name string) (*models.Contract, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if c := m.latestContract(name); c != nil {
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

func (m *FileRepository) GetContractByID(ctx context.Context, id models.ContractID) (*models.Contract, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if c, ok := m.contracts[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

// UpsertContract matches on (name, bytecode hash); a new hash for a known name creates a new contract
func (m *FileRepository) UpsertContract(ctx context.Context, contract models.NewContract) (*models.Contract, error) {
	unlock, err := m.acquire(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var c *models.Contract
	for _, existing := range m.contracts {
		if existing.Name == contract.Name && strings.EqualFold(existing.BytecodeHash, contract.BytecodeHash) {
			c = existing
			break
		}
	}
	if c == nil {
		c = &models.Contract{
			ID:           nextID(m.contracts),
			Name:         contract.Name,
			BytecodeHash: contract.BytecodeHash,
			CreatedAt:    m.now(),
		}
		m.contracts[c.ID] = c
	}
	c.SourcePath = contract.SourcePath
	c.ABI = contract.ABI

	if err := m.persist(ContractsFile, m.contracts); err != nil {
		return nil, err
	}
	clone := *c
	return &clone, nil
}

func (m *FileRepository) latestContract(name string) *models.Contract {
	var latest *models.Contract
	for _, c := range m.contracts {
		if c.Name == name && (latest == nil || c.ID > latest.ID) {
			latest = c
		}
	}
	return latest
}
