package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// DeployScript runs a forge deployment script and records what it deployed
type DeployScript struct {
	config   *config.RuntimeConfig
	resolver NetworkResolver
	runner   ScriptRunner
	parser   BroadcastParser
	networks NetworkRepository
	recorder *deploymentRecorder
	progress ProgressSink
	log      *slog.Logger
}

// NewDeployScript creates a new DeployScript use case
func NewDeployScript(
	cfg *config.RuntimeConfig,
	resolver NetworkResolver,
	runner ScriptRunner,
	parser BroadcastParser,
	networks NetworkRepository,
	contracts ContractRepository,
	deployments DeploymentRepository,
	progress ProgressSink,
	log *slog.Logger,
) *DeployScript {
	return &DeployScript{
		config:   cfg,
		resolver: resolver,
		runner:   runner,
		parser:   parser,
		networks: networks,
		recorder: newDeploymentRecorder(contracts, deployments),
		progress: progress,
		log:      log.With("component", "DeployScript"),
	}
}

// DeployScriptParams contains parameters for running a deployment script
type DeployScriptParams struct {
	Script    string
	Network   string
	Broadcast bool
}

// DeployScriptResult contains the result of running a deployment script
type DeployScriptResult struct {
	Network     *config.Network      `json:"network"`
	DryRun      bool                 `json:"dryRun"`
	Output      []byte               `json:"-"`
	Deployments []RecordedDeployment `json:"deployments"`
	// AlreadyRecorded counts broadcast deployments that were in the registry before this run
	AlreadyRecorded int `json:"alreadyRecorded"`
}

// Run executes the script. Without Broadcast the run is a simulation and nothing is recorded.
// With Broadcast any failure to parse or record the broadcast output fails the whole run.
func (uc *DeployScript) Run(ctx context.Context, params DeployScriptParams) (*DeployScriptResult, error) {
	if params.Script == "" {
		return nil, domain.InvalidParameter("script", "a script path is required")
	}
	if params.Network == "" {
		return nil, domain.InvalidParameter("network", "a network is required")
	}

	network, err := uc.resolver.Resolve(ctx, params.Network)
	if err != nil {
		return nil, err
	}

	stage := StageSimulating
	if params.Broadcast {
		stage = StageBroadcasting
	}
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   string(stage),
		Message: params.Script,
		Spinner: true,
	})

	scriptResult, err := uc.runner.RunScript(ctx, RunScriptConfig{
		Script:    params.Script,
		Network:   network,
		Broadcast: params.Broadcast,
		Debug:     uc.config.Debug,
	})
	if err != nil {
		return nil, err
	}

	result := &DeployScriptResult{
		Network:     network,
		DryRun:      !params.Broadcast,
		Output:      scriptResult.Output,
		Deployments: []RecordedDeployment{},
	}
	if !scriptResult.Success {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: string(StageCompleted)})
		return result, domain.NewError(domain.KindTransactionFailed, "forge script %s failed", params.Script)
	}
	if !params.Broadcast {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: string(StageCompleted)})
		return result, nil
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageRecording),
		Message: "Recording deployments",
		Spinner: true,
	})

	if err := uc.record(ctx, params.Script, network, result); err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: string(StageCompleted)})
		return result, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageCompleted),
		Current: len(result.Deployments),
		Total:   len(result.Deployments),
	})
	return result, nil
}

func (uc *DeployScript) record(ctx context.Context, script string, network *config.Network, result *DeployScriptResult) error {
	output, err := uc.parser.Parse(script, models.ChainID(network.ChainID))
	if err != nil {
		return err
	}

	parsed, errs := uc.parser.ExtractDeployments(output)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	registered, err := uc.networks.UpsertNetwork(ctx, models.NewNetwork{
		Name:        network.Name,
		ChainID:     models.ChainID(network.ChainID),
		RPCURL:      network.RPCURL,
		ExplorerURL: network.ExplorerURL,
	})
	if err != nil {
		return err
	}

	for _, pd := range parsed {
		recorded, err := uc.recorder.record(ctx, registered.ID, pd)
		if err != nil {
			return err
		}
		if recorded == nil {
			result.AlreadyRecorded++
			continue
		}
		uc.log.Info("recorded deployment", "contract", recorded.ContractName, "address", pd.Address,
			"version", recorded.Deployment.Version)
		result.Deployments = append(result.Deployments, *recorded)
	}
	return nil
}
