package cli

import (
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registry over an HTTP JSON API",
		Long: `Start the HTTP API on SMOLDER_SERVER_HOST:SMOLDER_SERVER_PORT (default
127.0.0.1:3000). Prometheus metrics are exposed at /metrics.
The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("host") {
				app.Config.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				app.Config.Server.Port = port
			}

			return app.Server.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Address to listen on")
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "Port to listen on")

	return cmd
}
