package usecase

import (
	"context"
	"sort"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// ListNetworks lists the networks known to the registry and to foundry.toml
type ListNetworks struct {
	repo     NetworkRepository
	resolver NetworkResolver
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(repo NetworkRepository, resolver NetworkResolver) *ListNetworks {
	return &ListNetworks{repo: repo, resolver: resolver}
}

// NetworkInfo is one network of the listing
type NetworkInfo struct {
	Name string `json:"name"`
	// Configured reports whether foundry.toml has an rpc endpoint for the name
	Configured bool `json:"configured"`
	// Network is nil until something was deployed to or imported from the network
	Network *models.Network `json:"network,omitempty"`
}

// Run merges registered and configured networks, sorted by name
func (uc *ListNetworks) Run(ctx context.Context) ([]NetworkInfo, error) {
	registered, err := uc.repo.ListNetworks(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*NetworkInfo)
	for _, n := range registered {
		byName[n.Name] = &NetworkInfo{Name: n.Name, Network: n}
	}
	if uc.resolver != nil {
		for _, name := range uc.resolver.NetworkNames() {
			if info, ok := byName[name]; ok {
				info.Configured = true
				continue
			}
			byName[name] = &NetworkInfo{Name: name, Configured: true}
		}
	}

	infos := make([]NetworkInfo, 0, len(byName))
	for _, info := range byName {
		infos = append(infos, *info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Get returns one registered network
func (uc *ListNetworks) Get(ctx context.Context, name string) (*models.Network, error) {
	network, err := uc.repo.GetNetworkByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if network == nil {
		return nil, domain.NetworkNotFound(name)
	}
	return network, nil
}

// ListContracts lists registered contracts
type ListContracts struct {
	repo ContractRepository
}

// NewListContracts creates a new ListContracts use case
func NewListContracts(repo ContractRepository) *ListContracts {
	return &ListContracts{repo: repo}
}

// Run lists every registered contract version
func (uc *ListContracts) Run(ctx context.Context) ([]*models.Contract, error) {
	contracts, err := uc.repo.ListContracts(ctx)
	if err != nil {
		return nil, err
	}
	if contracts == nil {
		contracts = []*models.Contract{}
	}
	return contracts, nil
}

// Get returns the most recently registered contract with the given name
func (uc *ListContracts) Get(ctx context.Context, name string) (*models.Contract, error) {
	contract, err := uc.repo.GetContractByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, domain.ContractNotFound(name)
	}
	return contract, nil
}
