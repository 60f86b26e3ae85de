package cli

import (
	"github.com/spf13/cobra"

	"github.com/smolder-dev/smolder/internal/cli/render"
)

// NewArtifactsCmd creates the artifacts command
func NewArtifactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "artifacts [name]",
		Short: "List compiled artifacts or show one artifact's constructor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			renderer := render.NewArtifactsRenderer(cmd.OutOrStdout())

			if len(args) == 1 {
				details, err := app.ShowArtifact.Run(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return output(cmd, app, details, func() error {
					return renderer.RenderArtifact(details)
				})
			}

			artifacts, err := app.ListArtifacts.Run(cmd.Context())
			if err != nil {
				return err
			}
			return output(cmd, app, artifacts, func() error {
				return renderer.RenderArtifacts(artifacts)
			})
		},
	}
}
