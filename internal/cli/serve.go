package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tactile/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	cfg := server.ConfigFromEnv()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Settings come from TACTILE_* environment variables and can be overridden by
flags:

  TACTILE_ADDR        listen address (default :8080)
  TACTILE_REDIS_URL   shared layout and artifact cache
  TACTILE_MONGO_URI   job record store
  TACTILE_MONGO_DB    database name (default tactile)
  TACTILE_DATA_DIR    file job store, used without MongoDB
  TACTILE_PRESETS     presets file

Without MongoDB or a data directory, job records live in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			srv, err := server.Open(ctx, cfg, c.Logger)
			if err != nil {
				return fmt.Errorf("start server: %w", err)
			}
			defer srv.Close()

			printInfo("Serving on %s", StyleLink.Render(cfg.Addr))
			printKeyValue("cache", backend(cfg.RedisURL != "", "redis", "none"))
			printKeyValue("jobs", backend(cfg.MongoURI != "", "mongodb", backend(cfg.DataDir != "", cfg.DataDir, "memory")))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	cmd.Flags().StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "redis URL for the shared cache")
	cmd.Flags().StringVar(&cfg.MongoURI, "mongo", cfg.MongoURI, "mongodb URI for job records")
	cmd.Flags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for job records without mongodb")
	cmd.Flags().StringVar(&cfg.PresetsPath, "presets", cfg.PresetsPath, "presets file")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "request timeout")

	return cmd
}

func backend(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
