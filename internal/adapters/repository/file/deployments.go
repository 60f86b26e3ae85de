package file

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// CreateDeployment demotes the current deployment of the pair and inserts the new one as current.
// Both steps happen under the write lock and are persisted with a single file write.
func (m *FileRepository) CreateDeployment(ctx context.Context, deployment models.NewDeployment) (*models.Deployment, error) {
	unlock, err := m.acquire(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, ok := m.contracts[deployment.ContractID]; !ok {
		return nil, domain.NewError(domain.KindStorage, "contract %d does not exist", deployment.ContractID)
	}
	if _, ok := m.networks[deployment.NetworkID]; !ok {
		return nil, domain.NewError(domain.KindStorage, "network %d does not exist", deployment.NetworkID)
	}

	version := 0
	var demoted []*models.Deployment
	for _, d := range m.deployments {
		if strings.EqualFold(d.TxHash, deployment.TxHash) {
			return nil, domain.NewError(domain.KindStorage, "deployment with tx hash %s already exists", deployment.TxHash)
		}
		if d.NetworkID == deployment.NetworkID && strings.EqualFold(d.Address, deployment.Address) {
			return nil, domain.NewError(domain.KindStorage, "deployment at %s already exists on network %d", deployment.Address, deployment.NetworkID)
		}
		if d.ContractID != deployment.ContractID || d.NetworkID != deployment.NetworkID {
			continue
		}
		version = max(version, d.Version)
		if d.IsCurrent {
			demoted = append(demoted, d)
		}
	}

	created := &models.Deployment{
		ID:              nextID(m.deployments),
		ContractID:      deployment.ContractID,
		NetworkID:       deployment.NetworkID,
		Address:         deployment.Address,
		Deployer:        deployment.Deployer,
		TxHash:          deployment.TxHash,
		BlockNumber:     deployment.BlockNumber,
		ConstructorArgs: deployment.ConstructorArgs,
		Version:         version + 1,
		IsCurrent:       true,
		DeployedAt:      m.now(),
	}

	for _, d := range demoted {
		d.IsCurrent = false
	}
	m.deployments[created.ID] = created

	if err := m.persist(DeploymentsFile, m.deployments); err != nil {
		delete(m.deployments, created.ID)
		for _, d := range demoted {
			d.IsCurrent = true
		}
		return nil, err
	}

	m.log.Debug("deployment created",
		"id", created.ID, "contract", created.ContractID, "network", created.NetworkID, "version", created.Version)

	clone := *created
	return &clone, nil
}

// GetCurrentDeployment returns the current deployment of a contract on a network, or nil
func (m *FileRepository) GetCurrentDeployment(ctx context.Context, contractName, networkName string) (*models.Deployment, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	network := m.networkByName(networkName)
	if network == nil {
		return nil, nil
	}

	var current *models.Deployment
	for _, d := range m.deployments {
		if !d.IsCurrent || d.NetworkID != network.ID {
			continue
		}
		c, ok := m.contracts[d.ContractID]
		if !ok || c.Name != contractName {
			continue
		}
		// a contract name can span several bytecode hashes; the newest deployment wins
		if current == nil || d.ID > current.ID {
			current = d
		}
	}
	if current == nil {
		return nil, nil
	}
	clone := *current
	return &clone, nil
}

func (m *FileRepository) GetDeploymentByID(ctx context.Context, id models.DeploymentID) (*models.Deployment, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if d, ok := m.deployments[id]; ok {
		clone := *d
		return &clone, nil
	}
	return nil, nil
}

// GetDeploymentViewByID returns the deployment joined with its contract ABI and network
func (m *FileRepository) GetDeploymentViewByID(ctx context.Context, id models.DeploymentID) (*models.DeploymentView, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	d, ok := m.deployments[id]
	if !ok {
		return nil, nil
	}
	return m.view(d, true), nil
}

// ListDeployments lists deployments ordered by network then contract name, newest version first
func (m *FileRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.DeploymentView, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result []*models.DeploymentView
	for _, d := range m.deployments {
		if filter.CurrentOnly && !d.IsCurrent {
			continue
		}
		v := m.view(d, false)
		if v == nil {
			continue
		}
		if filter.Network != "" && v.NetworkName != filter.Network {
			continue
		}
		if filter.Contract != "" && v.ContractName != filter.Contract {
			continue
		}
		result = append(result, v)
	}

	slices.SortFunc(result, compareViews)
	return result, nil
}

// ListDeploymentsForExport lists current deployments with their ABI, optionally for one network
func (m *FileRepository) ListDeploymentsForExport(ctx context.Context, network string) ([]*models.DeploymentView, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result []*models.DeploymentView
	for _, d := range m.deployments {
		if !d.IsCurrent {
			continue
		}
		v := m.view(d, true)
		if v == nil || (network != "" && v.NetworkName != network) {
			continue
		}
		result = append(result, v)
	}

	slices.SortFunc(result, compareViews)
	return result, nil
}

func (m *FileRepository) ExistsByTxHash(ctx context.Context, txHash string) (bool, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return false, err
	}
	defer unlock()

	for _, d := range m.deployments {
		if strings.EqualFold(d.TxHash, txHash) {
			return true, nil
		}
	}
	return false, nil
}

// view joins a deployment with its contract and network; callers hold the lock
func (m *FileRepository) view(d *models.Deployment, withABI bool) *models.DeploymentView {
	c, ok := m.contracts[d.ContractID]
	if !ok {
		return nil
	}
	n, ok := m.networks[d.NetworkID]
	if !ok {
		return nil
	}
	v := &models.DeploymentView{
		ID:           d.ID,
		ContractName: c.Name,
		NetworkName:  n.Name,
		ChainID:      n.ChainID,
		Address:      d.Address,
		Deployer:     d.Deployer,
		TxHash:       d.TxHash,
		BlockNumber:  d.BlockNumber,
		Version:      d.Version,
		IsCurrent:    d.IsCurrent,
		DeployedAt:   d.DeployedAt,
	}
	if withABI {
		v.ABI = c.ABI
	}
	return v
}

func compareViews(a, b *models.DeploymentView) int {
	return cmp.Or(
		cmp.Compare(a.NetworkName, b.NetworkName),
		cmp.Compare(a.ContractName, b.ContractName),
		cmp.Compare(b.Version, a.Version),
		cmp.Compare(b.ID, a.ID),
	)
}

func sortBy[T any](items []T, key func(T) string) {
	slices.SortFunc(items, func(a, b T) int { return cmp.Compare(key(a), key(b)) })
}

func sortContracts(items []*models.Contract) {
	slices.SortFunc(items, func(a, b *models.Contract) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
}
