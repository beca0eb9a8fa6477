package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/avlviz/pkg/cache"
	"github.com/matzehuels/avlviz/pkg/config"
	"github.com/matzehuels/avlviz/pkg/server"
	"github.com/matzehuels/avlviz/pkg/store"
)

// serveCommand creates the serve command, which hosts trees over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		ephemeral bool
		lf        layoutFlags
		rf        renderFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host trees over HTTP",
		Long: `Serve the tree API over HTTP.

Clients create a tree from a key sequence, insert more keys and fetch the
layout or a rendering after every change. Trees are saved to the snapshot
store (see 'avlviz snapshot'), so they survive restarts unless --ephemeral
is given.

Rendered artifacts are cached in Redis when [cache] redis is set, and in
memory otherwise.

Endpoints:
  GET    /healthz
  GET    /trees
  POST   /trees                      {"keys": [...], "name": "..."}
  GET    /trees/{id}
  POST   /trees/{id}/keys            {"keys": [...]}
  GET    /trees/{id}/render/{format}
  DELETE /trees/{id}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			defaults := defaultOptions(cfg)
			lf.apply(cmd, &defaults)
			rf.apply(cmd, &defaults)
			defaults.Logger = logger
			if err := defaults.ValidateForLayout(); err != nil {
				return err
			}

			artifacts, err := serverCache(ctx, cfg.Cache)
			if err != nil {
				return err
			}
			runner := c.runnerFor(artifacts, cfg)

			opts := []server.Option{
				server.WithRunner(runner),
				server.WithLogger(logger),
				server.WithDefaults(defaults),
			}
			if !ephemeral {
				st, err := store.Open(ctx, cfg.Store)
				if err != nil {
					runner.Close()
					return fmt.Errorf("open snapshot store: %w", err)
				}
				logger.Info("snapshot store", "backend", cfg.Store.Kind())
				opts = append(opts, server.WithStore(st))
			}

			srv := server.New(opts...)
			defer srv.Close()

			printInfo("Serving on %s", StyleHighlight.Render(addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "keep trees in memory only")
	lf.register(cmd)
	rf.register(cmd)

	return cmd
}

// serverCache keeps artifacts in Redis when configured and in process
// memory otherwise. The server never writes to the local file cache.
func serverCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	if cfg.Disabled || cfg.Redis != "" {
		return newCache(ctx, cfg, false)
	}
	return cache.NewMemoryCache(10 * time.Minute), nil
}
