package domain

import "github.com/smolder-dev/smolder/internal/domain/models"

// DeploymentFilter narrows a registry listing
type DeploymentFilter struct {
	// Network restricts results to one network name
	Network string
	// Contract restricts results to one contract name
	Contract string
	// CurrentOnly drops superseded versions
	CurrentOnly bool
}

// DefaultDeploymentFilter lists current deployments on every network
func DefaultDeploymentFilter() DeploymentFilter {
	return DeploymentFilter{CurrentOnly: true}
}

// CallHistoryFilter narrows a call-history listing
type CallHistoryFilter struct {
	DeploymentID models.DeploymentID
	Limit        int
}

// DefaultHistoryLimit caps history listings when no limit is given
const DefaultHistoryLimit = 100
