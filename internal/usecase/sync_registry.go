package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// SyncRegistry imports every broadcast file of the project into the registry.
// Importing is idempotent: transactions already registered are skipped.
type SyncRegistry struct {
	parser   BroadcastParser
	selector BroadcastFileSelector
	resolver NetworkResolver
	networks NetworkRepository
	recorder *deploymentRecorder
	progress ProgressSink
	log      *slog.Logger
}

// NewSyncRegistry creates a new sync registry use case
func NewSyncRegistry(
	parser BroadcastParser,
	selector BroadcastFileSelector,
	resolver NetworkResolver,
	networks NetworkRepository,
	contracts ContractRepository,
	deployments DeploymentRepository,
	progress ProgressSink,
	log *slog.Logger,
) *SyncRegistry {
	return &SyncRegistry{
		parser:   parser,
		selector: selector,
		resolver: resolver,
		networks: networks,
		recorder: newDeploymentRecorder(contracts, deployments),
		progress: progress,
		log:      log.With("component", "SyncRegistry"),
	}
}

// SyncParams restricts a sync to one configured network when Network is set.
// Select asks the user which importable broadcast files to sync.
type SyncParams struct {
	Network string
	Select  bool
}

// SyncResult contains the result of syncing
type SyncResult struct {
	FilesScanned int                  `json:"filesScanned"`
	FilesSkipped int                  `json:"filesSkipped"`
	Imported     []RecordedDeployment `json:"imported"`
	Skipped      int                  `json:"skipped"`
	Errors       []string             `json:"errors,omitempty"`
}

// Run scans broadcast/ and records every deployment not yet in the registry.
// Failures are collected per file and per record; only storage failures while
// listing abort the sync.
func (uc *SyncRegistry) Run(ctx context.Context, params SyncParams) (*SyncResult, error) {
	result := &SyncResult{
		Imported: []RecordedDeployment{},
		Errors:   []string{},
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageScanning),
		Message: "Scanning broadcast files",
		Spinner: true,
	})

	files, err := uc.parser.FindBroadcastFiles()
	if err != nil {
		return nil, err
	}

	byChain := uc.networksByChainID(ctx, params.Network)

	if params.Select {
		importable := make([]BroadcastFileRef, 0, len(files))
		for _, file := range files {
			if _, ok := byChain[file.ChainID]; ok {
				importable = append(importable, file)
			}
		}
		// spinner off while the selector owns the terminal
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: string(StageScanning), Message: "Waiting for selection"})
		if len(importable) == 0 {
			files = nil
		} else if files, err = uc.selector.SelectBroadcastFiles(ctx, importable); err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: string(StageCompleted)})
			return nil, err
		}
	}

	var pending []pendingDeployment
	for i, file := range files {
		result.FilesScanned++
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   string(StageImporting),
			Current: i + 1,
			Total:   len(files),
			Message: fmt.Sprintf("%s on chain %s", file.Script, file.ChainID),
			Spinner: true,
		})

		network, ok := byChain[file.ChainID]
		if !ok {
			uc.log.Warn("no configured network for chain, skipping", "chain_id", file.ChainID, "script", file.Script)
			result.FilesSkipped++
			continue
		}

		collected, err := uc.collectFile(ctx, file, network, result)
		if err != nil {
			uc.log.Warn("failed to import broadcast file", "path", file.Path, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.Path, err))
			continue
		}
		pending = append(pending, collected...)
	}

	// Oldest block first, so the latest deployment of a pair ends up current
	// whichever script produced it. Deployments without a block keep file order at the end.
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].blockOrder() < pending[j].blockOrder()
	})
	for _, p := range pending {
		uc.record(ctx, p, result)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageCompleted),
		Current: len(result.Imported),
		Total:   len(result.Imported),
		Message: "Sync complete",
	})

	return result, nil
}

// pendingDeployment is a parsed deployment waiting to be recorded
type pendingDeployment struct {
	networkID  models.NetworkID
	network    string
	deployment models.ParsedDeployment
}

func (p pendingDeployment) blockOrder() uint64 {
	if p.deployment.BlockNumber == nil {
		return math.MaxUint64
	}
	return *p.deployment.BlockNumber
}

// collectFile registers the file's network and parses its deployments without recording them
func (uc *SyncRegistry) collectFile(ctx context.Context, file BroadcastFileRef, network *config.Network, result *SyncResult) ([]pendingDeployment, error) {
	registered, err := uc.networks.UpsertNetwork(ctx, models.NewNetwork{
		Name:        network.Name,
		ChainID:     models.ChainID(network.ChainID),
		RPCURL:      network.RPCURL,
		ExplorerURL: network.ExplorerURL,
	})
	if err != nil {
		return nil, err
	}

	output, err := uc.parser.ParseFile(file.Path)
	if err != nil {
		return nil, err
	}

	parsed, errs := uc.parser.ExtractDeployments(output)
	for _, err := range errs {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.Path, err))
	}

	pending := make([]pendingDeployment, 0, len(parsed))
	for _, pd := range parsed {
		pending = append(pending, pendingDeployment{networkID: registered.ID, network: network.Name, deployment: pd})
	}
	return pending, nil
}

func (uc *SyncRegistry) record(ctx context.Context, p pendingDeployment, result *SyncResult) {
	pd := p.deployment
	recorded, err := uc.recorder.record(ctx, p.networkID, pd)
	if err != nil {
		uc.log.Warn("failed to record deployment", "contract", pd.ContractName, "tx", pd.TxHash, "error", err)
		result.Errors = append(result.Errors, fmt.Sprintf("%s (%s): %v", pd.ContractName, pd.TxHash, err))
		return
	}
	if recorded == nil {
		result.Skipped++
		return
	}
	uc.log.Debug("imported deployment", "contract", recorded.ContractName, "network", p.network,
		"version", recorded.Deployment.Version)
	result.Imported = append(result.Imported, *recorded)
}

// networksByChainID resolves configured networks, keeping the first name (sorted) per chain.
// Networks that cannot be resolved are logged and left out.
func (uc *SyncRegistry) networksByChainID(ctx context.Context, only string) map[models.ChainID]*config.Network {
	names := uc.resolver.NetworkNames()
	if only != "" {
		names = []string{only}
	}

	byChain := make(map[models.ChainID]*config.Network)
	for _, name := range names {
		network, err := uc.resolver.Resolve(ctx, name)
		if err != nil {
			uc.log.Warn("could not resolve network", "network", name, "error", err)
			continue
		}
		chainID := models.ChainID(network.ChainID)
		if _, taken := byChain[chainID]; !taken {
			byChain[chainID] = network
		}
	}
	return byChain
}
