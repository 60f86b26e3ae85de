package cli

import (
	"github.com/spf13/cobra"

	"github.com/smolder-dev/smolder/internal/cli/render"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// NewSyncCmd creates the sync command
func NewSyncCmd() *cobra.Command {
	var (
		network     string
		selectFiles bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import deployments from forge broadcast files",
		Long: `Scan broadcast/<script>/<chainId>/run-latest.json for every script and record
each contract creation that is not yet in the registry.

Broadcasts are matched to networks through the chain ids of the [rpc_endpoints]
in foundry.toml; files for chains without a configured endpoint are skipped.
Running sync twice imports nothing the second time.`,
		Example: `  # Import everything
  smolder sync

  # Only broadcasts for sepolia
  smolder sync --network sepolia

  # Pick which broadcast files to import
  smolder sync --select`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.SyncRegistry.Run(cmd.Context(), usecase.SyncParams{Network: network, Select: selectFiles})
			if err != nil {
				return err
			}

			return output(cmd, app, result, func() error {
				return render.NewSyncRenderer(cmd.OutOrStdout()).RenderSyncResult(result)
			})
		},
	}

	cmd.Flags().StringVarP(&network, "network", "n", "", "Only import broadcasts for this network")
	cmd.Flags().BoolVar(&selectFiles, "select", false, "Choose the broadcast files to import interactively")

	return cmd
}
