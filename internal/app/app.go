package app

import (
	"log/slog"

	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/server"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	InitProject       *usecase.InitProject
	SyncRegistry      *usecase.SyncRegistry
	DeployScript      *usecase.DeployScript
	DeployArtifact    *usecase.DeployArtifact
	ListDeployments   *usecase.ListDeployments
	GetDeployment     *usecase.GetDeployment
	ShowDeployment    *usecase.ShowDeployment
	ResolveDeployment *usecase.ResolveDeployment
	ListNetworks      *usecase.ListNetworks
	ListContracts     *usecase.ListContracts
	ListArtifacts     *usecase.ListArtifacts
	ShowArtifact      *usecase.ShowArtifact
	InteractContract  *usecase.InteractContract
	ManageWallets     *usecase.ManageWallets
	ExportDeployments *usecase.ExportDeployments

	// HTTP API
	Server *server.Server
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	initProject *usecase.InitProject,
	syncRegistry *usecase.SyncRegistry,
	deployScript *usecase.DeployScript,
	deployArtifact *usecase.DeployArtifact,
	listDeployments *usecase.ListDeployments,
	getDeployment *usecase.GetDeployment,
	showDeployment *usecase.ShowDeployment,
	resolveDeployment *usecase.ResolveDeployment,
	listNetworks *usecase.ListNetworks,
	listContracts *usecase.ListContracts,
	listArtifacts *usecase.ListArtifacts,
	showArtifact *usecase.ShowArtifact,
	interactContract *usecase.InteractContract,
	manageWallets *usecase.ManageWallets,
	exportDeployments *usecase.ExportDeployments,
	srv *server.Server,
) (*App, error) {
	return &App{
		Config:            cfg,
		Log:               log,
		InitProject:       initProject,
		SyncRegistry:      syncRegistry,
		DeployScript:      deployScript,
		DeployArtifact:    deployArtifact,
		ListDeployments:   listDeployments,
		GetDeployment:     getDeployment,
		ShowDeployment:    showDeployment,
		ResolveDeployment: resolveDeployment,
		ListNetworks:      listNetworks,
		ListContracts:     listContracts,
		ListArtifacts:     listArtifacts,
		ShowArtifact:      showArtifact,
		InteractContract:  interactContract,
		ManageWallets:     manageWallets,
		ExportDeployments: exportDeployments,
		Server:            srv,
	}, nil
}
