package cli

import (
	"github.com/spf13/cobra"

	"github.com/smolder-dev/smolder/internal/cli/render"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List configured and registered networks",
		Long: `List every network named in the [rpc_endpoints] section of foundry.toml together
with the networks the registry already holds deployments for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context())
			if err != nil {
				return err
			}

			return output(cmd, app, result, func() error {
				return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderNetworksList(result)
			})
		},
	}
}

// NewContractsCmd creates the contracts command
func NewContractsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contracts",
		Short: "List contracts recorded in the registry",
		Long: `List recorded contracts. A contract whose bytecode changed between deployments
appears once per distinct bytecode.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListContracts.Run(cmd.Context())
			if err != nil {
				return err
			}

			return output(cmd, app, result, func() error {
				return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderContracts(result)
			})
		},
	}
}
