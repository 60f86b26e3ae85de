package usecase

import (
	"context"

	"github.com/samber/lo"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// ListDeployments is the use case for listing deployments
type ListDeployments struct {
	repo DeploymentRepository
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(repo DeploymentRepository) *ListDeployments {
	return &ListDeployments{repo: repo}
}

// DeploymentListResult contains the listed deployments and a summary
type DeploymentListResult struct {
	Deployments []*models.DeploymentView `json:"deployments"`
	Summary     DeploymentSummary        `json:"summary"`
}

// DeploymentSummary counts listed deployments per network and per contract
type DeploymentSummary struct {
	Total      int            `json:"total"`
	ByNetwork  map[string]int `json:"byNetwork"`
	ByContract map[string]int `json:"byContract"`
}

// Run lists deployments matching the filter
func (uc *ListDeployments) Run(ctx context.Context, filter domain.DeploymentFilter) (*DeploymentListResult, error) {
	deployments, err := uc.repo.ListDeployments(ctx, filter)
	if err != nil {
		return nil, err
	}
	if deployments == nil {
		deployments = []*models.DeploymentView{}
	}

	return &DeploymentListResult{
		Deployments: deployments,
		Summary: DeploymentSummary{
			Total: len(deployments),
			ByNetwork: lo.CountValuesBy(deployments, func(d *models.DeploymentView) string {
				return d.NetworkName
			}),
			ByContract: lo.CountValuesBy(deployments, func(d *models.DeploymentView) string {
				return d.ContractName
			}),
		},
	}, nil
}

// GetDeployment returns the current deployment of a contract on a network
type GetDeployment struct {
	repo DeploymentRepository
}

// NewGetDeployment creates a new GetDeployment use case
func NewGetDeployment(repo DeploymentRepository) *GetDeployment {
	return &GetDeployment{repo: repo}
}

// Run fails with DeploymentNotFound when the pair was never deployed
func (uc *GetDeployment) Run(ctx context.Context, contractName, networkName string) (*models.DeploymentView, error) {
	if contractName == "" {
		return nil, domain.InvalidParameter("contract", "a contract name is required")
	}
	if networkName == "" {
		return nil, domain.InvalidParameter("network", "a network is required")
	}

	current, err := uc.repo.GetCurrentDeployment(ctx, contractName, networkName)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.DeploymentNotFound(contractName, networkName)
	}

	view, err := uc.repo.GetDeploymentViewByID(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.DeploymentNotFound(contractName, networkName)
	}
	return view, nil
}

// ShowDeployment returns a single deployment with its ABI
type ShowDeployment struct {
	repo DeploymentRepository
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(repo DeploymentRepository) *ShowDeployment {
	return &ShowDeployment{repo: repo}
}

// Run looks a deployment up by id
func (uc *ShowDeployment) Run(ctx context.Context, id models.DeploymentID) (*models.DeploymentView, error) {
	return requireDeploymentView(ctx, uc.repo, id)
}

func requireDeploymentView(ctx context.Context, repo DeploymentRepository, id models.DeploymentID) (*models.DeploymentView, error) {
	view, err := repo.GetDeploymentViewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.DeploymentNotFoundByID(int64(id))
	}
	return view, nil
}
