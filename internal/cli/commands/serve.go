package commands

import (
	"github.com/spf13/cobra"

	"github.com/sqlweave-labs/sqlweave/internal/cli/config"
	"github.com/sqlweave-labs/sqlweave/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lineage API over HTTP",
		Long: `Serve starts an HTTP API around the analysis engine.

Routes:
  POST /api/v1/analyze   Analyze SQL from the request body, returns lineage JSON
  POST /api/v1/lineage   Analyze SQL and walk the graph around one relation
  GET  /api/v1/health    Liveness probe

Each request runs on a fresh engine, so requests never see each other's
implied schema. A request body may override the dialect and supply
additional imported tables.`,
		Example: `  # Defaults from sqlweave.yaml (127.0.0.1:8765)
  sqlweave serve

  # Bind for containers
  sqlweave serve --host 0.0.0.0 --port 9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, version)
		},
	}

	sc := config.DefaultServeConfig()
	cmd.Flags().String("host", sc.Host, "Host interface to bind")
	cmd.Flags().Int("port", sc.Port, "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, version string) error {
	cc := NewCommandContextWithoutEngine(cmd)
	sc := cc.Cfg.GetServeConfig()

	srv := server.NewServer(server.Config{
		Host:    sc.Host,
		Port:    sc.Port,
		Project: cc.Cfg.Project(),
		Logger:  cc.Logger,
		Version: version,
	})

	return srv.Serve(cmd.Context())
}
