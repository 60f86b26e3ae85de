package cli

import (
	"github.com/spf13/cobra"

	"github.com/smolder-dev/smolder/internal/app"
	"github.com/smolder-dev/smolder/internal/cli/render"
	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		network  string
		contract string
		all      bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List deployments from the registry",
		Long: `List the current deployment of every contract on every network.

Use --all to include superseded versions.`,
		Example: `  # Current deployments everywhere
  smolder list

  # Every version of Counter on sepolia
  smolder list --network sepolia --contract Counter --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			filter := domain.DefaultDeploymentFilter()
			filter.Network = network
			filter.Contract = contract
			filter.CurrentOnly = !all

			result, err := app.ListDeployments.Run(cmd.Context(), filter)
			if err != nil {
				return err
			}

			return output(cmd, app, result, func() error {
				return render.NewDeploymentsRenderer(cmd.OutOrStdout()).RenderDeploymentList(result)
			})
		},
	}

	cmd.Flags().StringVarP(&network, "network", "n", "", "Filter by network name")
	cmd.Flags().StringVar(&contract, "contract", "", "Filter by contract name")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include superseded versions")

	return cmd
}

// NewGetCmd creates the get command
func NewGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <contract> <network>",
		Short: "Show the current deployment of a contract on a network",
		Example: `  smolder get Counter sepolia
  smolder get Counter sepolia --json | jq -r .address`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			view, err := app.GetDeployment.Run(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			return output(cmd, app, view, func() error {
				return render.NewDeploymentRenderer(cmd.OutOrStdout()).RenderDeployment(view)
			})
		},
	}
}

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var network string

	cmd := &cobra.Command{
		Use:   "show <deployment>",
		Short: "Show a deployment by id or contract name",
		Long: `Show detailed information about one deployment, current or superseded.

The deployment is a numeric id from 'smolder list' or a contract name, which
resolves to the contract's current deployment. When the contract is current on
more than one network, pass --network or pick one from the prompt.`,
		Example: `  smolder show 3
  smolder show Counter --network sepolia`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			view, err := app.ResolveDeployment.Run(cmd.Context(), args[0], network)
			if err != nil {
				return err
			}

			return output(cmd, app, view, func() error {
				return render.NewDeploymentRenderer(cmd.OutOrStdout()).RenderDeployment(view)
			})
		},
	}

	addNetworkFlag(cmd, &network)

	return cmd
}

func addNetworkFlag(cmd *cobra.Command, network *string) {
	cmd.Flags().StringVarP(network, "network", "n", "", "Network of the deployment when referenced by contract name")
}

// resolveDeploymentID resolves a deployment reference to its id
func resolveDeploymentID(cmd *cobra.Command, a *app.App, ref, network string) (models.DeploymentID, error) {
	view, err := a.ResolveDeployment.Run(cmd.Context(), ref, network)
	if err != nil {
		return 0, err
	}
	return view.ID, nil
}
