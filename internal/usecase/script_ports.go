package usecase

import (
	"context"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// Build Output Ports

// ArtifactLoader reads compiled contracts from the build output
type ArtifactLoader interface {
	Load(name string) (*models.Artifact, error)
	List() ([]models.ArtifactInfo, error)
	Details(name string) (*models.ArtifactDetails, error)
}

// BroadcastFileRef locates one run-latest.json
type BroadcastFileRef struct {
	Script  string
	ChainID models.ChainID
	Path    string
}

// BroadcastFileSelector lets the user narrow the broadcast files a sync imports
type BroadcastFileSelector interface {
	SelectBroadcastFiles(ctx context.Context, files []BroadcastFileRef) ([]BroadcastFileRef, error)
}

// BroadcastParser turns forge broadcast output into deployment facts
type BroadcastParser interface {
	Parse(scriptRef string, chainID models.ChainID) (*domain.BroadcastOutput, error)
	ParseFile(path string) (*domain.BroadcastOutput, error)
	FindBroadcastFiles() ([]BroadcastFileRef, error)
	// ExtractDeployments skips records that cannot be resolved and reports them in the error slice
	ExtractDeployments(output *domain.BroadcastOutput) ([]models.ParsedDeployment, []error)
}

// Script Execution Ports

// RunScriptConfig configures a forge script invocation
type RunScriptConfig struct {
	Script    string
	Network   *config.Network
	Broadcast bool
	Debug     bool
}

// ScriptResult is the outcome of a forge script invocation
type ScriptResult struct {
	Success bool
	Output  []byte
}

// ScriptRunner invokes forge script
type ScriptRunner interface {
	RunScript(ctx context.Context, cfg RunScriptConfig) (*ScriptResult, error)
}

// ProjectBuilder compiles the project so out/ holds fresh artifacts
type ProjectBuilder interface {
	Build(ctx context.Context) error
}
