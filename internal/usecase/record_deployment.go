package usecase

import (
	"context"

	"github.com/smolder-dev/smolder/internal/domain/models"
)

// RecordedDeployment is a deployment written to the registry together with its contract name
type RecordedDeployment struct {
	ContractName string             `json:"contractName"`
	Deployment   *models.Deployment `json:"deployment"`
}

// deploymentRecorder upserts a parsed deployment's contract and creates the deployment row
type deploymentRecorder struct {
	contracts   ContractRepository
	deployments DeploymentRepository
}

func newDeploymentRecorder(contracts ContractRepository, deployments DeploymentRepository) *deploymentRecorder {
	return &deploymentRecorder{contracts: contracts, deployments: deployments}
}

// record returns (nil, nil) when the transaction is already registered
func (r *deploymentRecorder) record(ctx context.Context, networkID models.NetworkID, pd models.ParsedDeployment) (*RecordedDeployment, error) {
	exists, err := r.deployments.ExistsByTxHash(ctx, pd.TxHash)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	contract, err := r.contracts.UpsertContract(ctx, models.NewContract{
		Name:         pd.ContractName,
		SourcePath:   pd.SourcePath,
		ABI:          pd.ABI,
		BytecodeHash: pd.BytecodeHash,
	})
	if err != nil {
		return nil, err
	}

	deployment, err := r.deployments.CreateDeployment(ctx, models.NewDeployment{
		ContractID:      contract.ID,
		NetworkID:       networkID,
		Address:         pd.Address,
		Deployer:        pd.Deployer,
		TxHash:          pd.TxHash,
		BlockNumber:     pd.BlockNumber,
		ConstructorArgs: pd.ConstructorArgs,
	})
	if err != nil {
		return nil, err
	}

	return &RecordedDeployment{ContractName: contract.Name, Deployment: deployment}, nil
}
