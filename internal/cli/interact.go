package cli

import (
	"github.com/spf13/cobra"

	"github.com/smolder-dev/smolder/internal/cli/render"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// NewFunctionsCmd creates the functions command
func NewFunctionsCmd() *cobra.Command {
	var network string

	cmd := &cobra.Command{
		Use:     "functions <deployment>",
		Aliases: []string{"fns"},
		Short:   "List the ABI functions of a deployment",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := resolveDeploymentID(cmd, app, args[0], network)
			if err != nil {
				return err
			}

			result, err := app.InteractContract.Functions(cmd.Context(), id)
			if err != nil {
				return err
			}
			return output(cmd, app, result.Functions, func() error {
				return render.NewInteractionRenderer(cmd.OutOrStdout()).RenderFunctions(result)
			})
		},
	}

	addNetworkFlag(cmd, &network)

	return cmd
}

// NewCallCmd creates the call command
func NewCallCmd() *cobra.Command {
	var network string

	cmd := &cobra.Command{
		Use:   "call <deployment> <function> [args...]",
		Short: "Call a view or pure function",
		Long: `Call a read-only function with eth_call and decode its result.

The deployment is an id or a contract name. The function is a bare name or, for overloads, a full signature such as
"balanceOf(address)". Integers are printed in decimal. Every call is kept in
the deployment's history.`,
		Example: `  smolder call 3 totalSupply
  smolder call Token balanceOf 0x70997970C51812dc3A010C7d01b50e0d17dc79C8 --network sepolia`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := resolveDeploymentID(cmd, app, args[0], network)
			if err != nil {
				return err
			}

			result, err := app.InteractContract.Call(cmd.Context(), usecase.CallParams{
				DeploymentID: id,
				Function:     args[1],
				Args:         parseArgs(args[2:]),
			})
			if err != nil {
				return err
			}
			return output(cmd, app, result, func() error {
				return render.NewInteractionRenderer(cmd.OutOrStdout()).RenderCallResult(result)
			})
		},
	}

	addNetworkFlag(cmd, &network)

	return cmd
}

// NewSendCmd creates the send command
func NewSendCmd() *cobra.Command {
	var (
		network string
		wallet  string
		value   string
	)

	cmd := &cobra.Command{
		Use:   "send <deployment> <function> [args...]",
		Short: "Send a transaction to a state-changing function",
		Long: `Sign and send a transaction calling a non-view function, then wait for it to
be mined. The call is recorded as pending first and settled with the receipt.`,
		Example: `  smolder send 3 transfer 0x70997970C51812dc3A010C7d01b50e0d17dc79C8 1000 --wallet deployer
  smolder send 5 deposit --wallet ops --value 1000000000000000`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := resolveDeploymentID(cmd, app, args[0], network)
			if err != nil {
				return err
			}

			result, err := app.InteractContract.Send(cmd.Context(), usecase.SendParams{
				DeploymentID: id,
				Function:     args[1],
				Args:         parseArgs(args[2:]),
				Wallet:       wallet,
				Value:        value,
			})
			if result == nil {
				return err
			}

			// A reverted transaction still has a receipt worth showing
			if renderErr := output(cmd, app, result, func() error {
				return render.NewInteractionRenderer(cmd.OutOrStdout()).RenderSendResult(result)
			}); renderErr != nil {
				return renderErr
			}
			return err
		},
	}

	addNetworkFlag(cmd, &network)
	cmd.Flags().StringVarP(&wallet, "wallet", "w", "", "Wallet that signs the transaction")
	cmd.Flags().StringVar(&value, "value", "", "Wei to send with a payable function")
	_ = cmd.MarkFlagRequired("wallet")

	return cmd
}

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var (
		network string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history <deployment>",
		Short: "Show the call history of a deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := resolveDeploymentID(cmd, app, args[0], network)
			if err != nil {
				return err
			}

			records, err := app.InteractContract.History(cmd.Context(), id, limit)
			if err != nil {
				return err
			}
			return output(cmd, app, records, func() error {
				return render.NewInteractionRenderer(cmd.OutOrStdout()).RenderHistory(records)
			})
		},
	}

	addNetworkFlag(cmd, &network)
	cmd.Flags().IntVarP(&limit, "limit", "l", 100, "Maximum number of calls to show")

	return cmd
}
