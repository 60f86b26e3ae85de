package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// ResolveDeployment turns a user reference into a single deployment.
// A reference is a numeric deployment id or a contract name; a name resolves
// to the contract's current deployment, narrowed by network when given.
type ResolveDeployment struct {
	repo     DeploymentRepository
	selector DeploymentSelector
}

// NewResolveDeployment creates a new ResolveDeployment use case
func NewResolveDeployment(repo DeploymentRepository, selector DeploymentSelector) *ResolveDeployment {
	return &ResolveDeployment{
		repo:     repo,
		selector: selector,
	}
}

// Run resolves ref. A name current on several networks is handed to the selector.
func (uc *ResolveDeployment) Run(ctx context.Context, ref, network string) (*models.DeploymentView, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.InvalidParameter("deployment", "must not be empty")
	}

	if id, err := models.ParseDeploymentID(ref); err == nil {
		view, err := requireDeploymentView(ctx, uc.repo, id)
		if err != nil {
			return nil, err
		}
		if network != "" && view.NetworkName != network {
			return nil, domain.Validation("deployment %s is on %s, not %s", ref, view.NetworkName, network)
		}
		return view, nil
	}

	filter := domain.DefaultDeploymentFilter()
	filter.Contract = ref
	filter.Network = network
	candidates, err := uc.repo.ListDeployments(ctx, filter)
	if err != nil {
		return nil, err
	}

	switch len(candidates) {
	case 0:
		if network == "" {
			network = "any network"
		}
		return nil, domain.DeploymentNotFound(ref, network)
	case 1:
		return candidates[0], nil
	}

	return uc.selector.SelectDeployment(ctx, candidates, fmt.Sprintf("%s is deployed on %d networks, select one", ref, len(candidates)))
}
