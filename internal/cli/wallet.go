package cli

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/smolder-dev/smolder/internal/cli/render"
	"github.com/smolder-dev/smolder/internal/domain"
)

// NewWalletCmd creates the wallet command group
func NewWalletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage signing wallets",
		Long: `Manage the wallets that sign deployments and transactions.

Private keys are stored encrypted with the passphrase from SMOLDER_WALLET_PASSPHRASE
and are never printed.`,
	}

	cmd.AddCommand(newWalletAddCmd(), newWalletListCmd(), newWalletRemoveCmd())
	return cmd
}

func newWalletAddCmd() *cobra.Command {
	var privateKey string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a wallet from a private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if privateKey == "" {
				if app.Config.NonInteractive {
					return domain.InvalidParameter("private-key", "required in non-interactive mode")
				}
				prompt := promptui.Prompt{
					Label:    "Private key",
					Mask:     '*',
					Validate: validatePrivateKey,
				}
				privateKey, err = prompt.Run()
				if err != nil {
					return fmt.Errorf("input cancelled: %w", err)
				}
			}

			wallet, err := app.ManageWallets.Add(cmd.Context(), args[0], strings.TrimSpace(privateKey))
			if err != nil {
				return err
			}
			return output(cmd, app, wallet, func() error {
				return render.NewWalletsRenderer(cmd.OutOrStdout()).RenderWalletAdded(wallet)
			})
		},
	}

	cmd.Flags().StringVar(&privateKey, "private-key", "", "Hex private key (prompted for when omitted)")

	return cmd
}

func newWalletListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List wallets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			wallets, err := app.ManageWallets.List(cmd.Context())
			if err != nil {
				return err
			}
			return output(cmd, app, wallets, func() error {
				return render.NewWalletsRenderer(cmd.OutOrStdout()).RenderWallets(wallets)
			})
		},
	}
}

func newWalletRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a wallet",
		Long: `Remove a wallet and its encrypted key. Call history keeps the wallet id but
can no longer resolve its name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			name := args[0]

			if !force {
				if app.Config.NonInteractive {
					return fmt.Errorf("refusing to remove wallet '%s' without --force in non-interactive mode", name)
				}
				if !confirmPrompt(fmt.Sprintf("Remove wallet '%s'", name)) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if err := app.ManageWallets.Remove(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Removed wallet '%s'", name)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}

// confirmPrompt asks the user a yes/no question and returns their choice.
func confirmPrompt(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	return err == nil
}

func validatePrivateKey(input string) error {
	key := strings.TrimPrefix(strings.TrimSpace(input), "0x")
	if len(key) != 64 {
		return fmt.Errorf("expected 32 bytes of hex")
	}
	for _, r := range key {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return fmt.Errorf("invalid hex character %q", r)
		}
	}
	return nil
}
