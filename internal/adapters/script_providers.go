package adapters

import (
	"github.com/google/wire"
	"github.com/smolder-dev/smolder/internal/adapters/forge"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// ProvideProjectPath provides the project path from RuntimeConfig
func ProvideProjectPath(cfg *config.RuntimeConfig) string {
	return cfg.ProjectRoot
}

// ScriptAdapters provides the foundry-facing adapters: artifacts, broadcasts and script execution
var ScriptAdapters = wire.NewSet(
	ProvideProjectPath,

	forge.NewArtifactLoader,
	wire.Bind(new(usecase.ArtifactLoader), new(*forge.ArtifactLoader)),

	forge.NewBroadcastParser,
	wire.Bind(new(usecase.BroadcastParser), new(*forge.BroadcastParser)),

	forge.NewForgeAdapter,
	wire.Bind(new(usecase.ScriptRunner), new(*forge.ForgeAdapter)),
	wire.Bind(new(usecase.ProjectBuilder), new(*forge.ForgeAdapter)),
)
