package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plasmap/internal/server"
	"github.com/matzehuels/plasmap/pkg/cache"
	"github.com/matzehuels/plasmap/pkg/pipeline"
	"github.com/matzehuels/plasmap/pkg/store"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		maxBody  int64
		database string
		scope    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for storing feature lists and rendering maps.

Sequences are kept in MongoDB when PLASMAP_MONGO_URI is set and in memory
otherwise. Rendered maps are cached in Redis when PLASMAP_REDIS_URL is set
and in memory otherwise.`,
		Example: `  plasmap serve --addr :8080
  PLASMAP_MONGO_URI=mongodb://localhost:27017 PLASMAP_REDIS_URL=redis://localhost:6379/0 plasmap serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ch, err := c.serverCache(ctx)
			if err != nil {
				return err
			}
			st, err := c.serverStore(ctx, database)
			if err != nil {
				ch.Close()
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := st.Close(closeCtx); err != nil {
					c.Logger.Warn("close store", "error", err)
				}
			}()

			var keyer cache.Keyer
			if scope != "" {
				keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), scope)
			}
			runner := pipeline.NewRunner(ch, keyer, c.Logger)
			defer runner.Close()

			srv := server.New(runner, st, c.Logger, server.WithMaxBody(maxBody))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBody, "largest accepted request body in bytes")
	cmd.Flags().StringVar(&database, "database", store.DefaultDatabase, "MongoDB database name")
	cmd.Flags().StringVar(&scope, "cache-scope", "", "prefix for cache keys, to share one Redis between deployments")
	return cmd
}

func (c *CLI) serverCache(ctx context.Context) (cache.Cache, error) {
	if url := os.Getenv(envRedisURL); url != "" {
		c.Logger.Info("using redis cache")
		return cache.NewRedisCache(ctx, url)
	}
	return cache.NewMemoryCache(), nil
}

func (c *CLI) serverStore(ctx context.Context, database string) (store.Store, error) {
	if uri := os.Getenv(envMongoURI); uri != "" {
		c.Logger.Info("using mongo store", "database", database)
		return store.NewMongoStore(ctx, uri, database)
	}
	c.Logger.Warn("PLASMAP_MONGO_URI not set, sequences are kept in memory")
	return store.NewMemoryStore(), nil
}
