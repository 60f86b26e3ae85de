package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/smolder-dev/smolder/internal/adapters/progress"
	"github.com/smolder-dev/smolder/internal/app"
	"github.com/smolder-dev/smolder/internal/cli/render"
	"github.com/smolder-dev/smolder/internal/config"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// commands that run without an initialized app
var standalone = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cleanups []func()

	rootCmd := &cobra.Command{
		Use:   "smolder",
		Short: "Versioned deployment registry for Foundry projects",
		Long: `smolder records every contract deployment of a Foundry project in a versioned
registry: one current deployment per contract and network, every earlier one kept.

Deployments enter the registry from forge script broadcasts (deploy, sync) or are
sent directly from compiled artifacts. Recorded contracts can then be called and
transacted with through their ABI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if standalone[cmd.Name()] {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				// init reports the missing foundry.toml itself
				if cmd.Name() != "init" {
					return err
				}
				if projectRoot, err = os.Getwd(); err != nil {
					return err
				}
			}

			v := config.SetupViper(projectRoot, cmd)
			if v.GetBool("json") {
				color.NoColor = true
			}

			var sink usecase.ProgressSink = usecase.NopProgress{}
			if !v.GetBool("json") && !v.GetBool("non_interactive") {
				sink = progress.NewSpinnerProgressReporter()
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			appInstance, cleanup, err := app.InitApp(ctx, v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cleanups = append(cleanups, cleanup)

			ctx = context.WithValue(ctx, appKey, appInstance)

			// The server runs until interrupted
			if appInstance.Config.Timeout > 0 && cmd.Name() != "serve" {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cleanups = append(cleanups, cancel)
			}

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			for i := len(cleanups) - 1; i >= 0; i-- {
				cleanups[i]()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts and spinners")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "interact",
		Title: "Contract Interaction",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, c := range []*cobra.Command{
		NewInitCmd(),
		NewDeployCmd(),
		NewSyncCmd(),
		NewListCmd(),
		NewGetCmd(),
		NewShowCmd(),
		NewExportCmd(),
	} {
		c.GroupID = "main"
		rootCmd.AddCommand(c)
	}

	for _, c := range []*cobra.Command{
		NewFunctionsCmd(),
		NewCallCmd(),
		NewSendCmd(),
		NewHistoryCmd(),
	} {
		c.GroupID = "interact"
		rootCmd.AddCommand(c)
	}

	for _, c := range []*cobra.Command{
		NewNetworksCmd(),
		NewContractsCmd(),
		NewArtifactsCmd(),
		NewWalletCmd(),
		NewServeCmd(),
	} {
		c.GroupID = "management"
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}

// output renders v as JSON when --json is set, otherwise through human
func output(cmd *cobra.Command, a *app.App, v any, human func() error) error {
	if a.Config.JSON {
		return render.JSON(cmd.OutOrStdout(), v)
	}
	return human()
}
