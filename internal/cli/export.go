package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smolder-dev/smolder/internal/cli/render"
	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	var (
		network string
		format  string
		outFile string
	)

	formats := make([]string, len(usecase.ExportFormats))
	for i, f := range usecase.ExportFormats {
		formats[i] = string(f)
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export current deployment addresses",
		Long: fmt.Sprintf(`Export the current address of every contract, grouped by network.

Formats: %s. The env format writes NETWORK_CONTRACT=address lines.`, strings.Join(formats, ", ")),
		Example: `  smolder export --format ts --output deployments.ts
  smolder export --network sepolia --format env >> .env`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			data, err := app.ExportDeployments.Run(cmd.Context(), usecase.ExportParams{
				Network: network,
				Format:  usecase.ExportFormat(format),
			})
			if err != nil {
				return err
			}

			if outFile == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outFile, data, 0644); err != nil {
				return domain.WrapError(domain.KindIO, err, "failed to write %s", outFile)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), render.FormatSuccess(fmt.Sprintf("Exported to %s", outFile)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&network, "network", "n", "", "Only export this network")
	cmd.Flags().StringVarP(&format, "format", "f", string(usecase.ExportJSON), "Output format ("+strings.Join(formats, "|")+")")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}
