package cli

import (
	"github.com/spf13/cobra"

	"github.com/smolder-dev/smolder/internal/cli/render"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize smolder in a Foundry project",
		Long: `Create the .smolder/ data directory, add it to .gitignore and prepare the
registry store. Running init again is safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.InitProject.Run(cmd.Context())
			if err != nil {
				return err
			}

			return output(cmd, app, result, func() error {
				return render.NewInitRenderer(cmd.OutOrStdout()).Render(result)
			})
		},
	}
}
