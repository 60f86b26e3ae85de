package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smolder-dev/smolder/internal/app"
	"github.com/smolder-dev/smolder/internal/cli/render"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		network   string
		wallet    string
		value     string
		broadcast bool
		build     bool
	)

	cmd := &cobra.Command{
		Use:   "deploy <artifact|script> [constructor args...]",
		Short: "Deploy a contract and record it in the registry",
		Long: `Deploy a contract in one of two ways.

Artifact mode sends the creation transaction for a compiled artifact from out/,
signed by a registered wallet. Constructor arguments follow the artifact name.

Script mode runs a forge script (a path ending in .s.sol, optionally with
:Contract). Without --broadcast the script is only simulated. With --broadcast
the resulting run-latest.json is parsed and every contract creation recorded.`,
		Example: `  # Deploy a compiled artifact
  smolder deploy Counter 42 --network anvil --wallet deployer

  # Rebuild first so out/ matches the sources
  smolder deploy Counter 42 --network anvil --wallet deployer --build

  # Payable constructor with an address array
  smolder deploy Vault '["0xabc...","0xdef..."]' --network sepolia --wallet ops --value 1000

  # Simulate, then broadcast a deployment script
  smolder deploy script/Deploy.s.sol --network sepolia
  smolder deploy script/Deploy.s.sol:DeployAll --network sepolia --broadcast`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			target := args[0]
			if isScriptRef(target) {
				if len(args) > 1 {
					return fmt.Errorf("scripts take no constructor arguments")
				}
				if build {
					return fmt.Errorf("--build only applies to artifacts; forge script compiles on its own")
				}
				return runDeployScript(cmd, app, usecase.DeployScriptParams{
					Script:    target,
					Network:   network,
					Broadcast: broadcast,
				})
			}

			if broadcast {
				return fmt.Errorf("--broadcast only applies to scripts; artifact deployments are always sent")
			}
			result, err := app.DeployArtifact.Run(cmd.Context(), usecase.DeployArtifactParams{
				Artifact: target,
				Network:  network,
				Wallet:   wallet,
				Args:     parseArgs(args[1:]),
				Value:    value,
				Build:    build,
			})
			if err != nil {
				return err
			}
			return output(cmd, app, result, func() error {
				return render.NewDeployRenderer(cmd.OutOrStdout()).RenderArtifactDeployment(result)
			})
		},
	}

	cmd.Flags().StringVarP(&network, "network", "n", "", "Network to deploy to (an [rpc_endpoints] name)")
	cmd.Flags().StringVarP(&wallet, "wallet", "w", "", "Wallet that signs the creation transaction")
	cmd.Flags().StringVar(&value, "value", "", "Wei to send to a payable constructor")
	cmd.Flags().BoolVar(&broadcast, "broadcast", false, "Broadcast the script instead of simulating it")
	cmd.Flags().BoolVar(&build, "build", false, "Run forge build before loading the artifact")
	_ = cmd.MarkFlagRequired("network")

	return cmd
}

func runDeployScript(cmd *cobra.Command, app *app.App, params usecase.DeployScriptParams) error {
	result, err := app.DeployScript.Run(cmd.Context(), params)
	if result != nil && app.Config.Debug && len(result.Output) > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), string(result.Output))
	}
	if err != nil {
		return err
	}
	return output(cmd, app, result, func() error {
		return render.NewDeployRenderer(cmd.OutOrStdout()).RenderScriptResult(result)
	})
}

// isScriptRef reports whether ref names a forge script rather than an artifact
func isScriptRef(ref string) bool {
	path, _, _ := strings.Cut(ref, ":")
	return strings.HasSuffix(path, ".s.sol")
}
