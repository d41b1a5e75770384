package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/bdfinst/interactive-cd/internal/server"
	"github.com/bdfinst/interactive-cd/internal/share"
)

// mongoConnectTimeout bounds the initial share-store connection.
const mongoConnectTimeout = 10 * time.Second

// serveCommand creates the "serve" command hosting the practice API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		dbPath string
		rootID string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the practice API over HTTP",
		Long: `Serve the practice graph API. Endpoints return JSON envelopes with the
card view (a practice and its direct dependencies), the full dependency
tree, and a rendered SVG of the graph. Responses are cached according to
the configured cache backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if dbPath != "" {
				cfg.Store.Path = dbPath
			}
			if rootID != "" {
				cfg.Server.RootID = rootID
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			cc, err := newCache(cmd, cfg)
			if err != nil {
				return err
			}
			defer cc.Close()

			var shares share.Store
			if cfg.Share.Enabled {
				ctx, cancel := context.WithTimeout(cmd.Context(), mongoConnectTimeout)
				shares, err = share.NewMongoStore(ctx, cfg.Share.MongoURI, cfg.Share.Database)
				cancel()
				if err != nil {
					return err
				}
				defer shares.Close(context.Background())
			}

			srv := server.New(server.Options{
				Logger: c.Logger,
				Store:  st,
				Shares: shares,
				Cache:  cc,
				TTL:    cfg.CacheTTL(),
				RootID: cfg.Server.RootID,
				Addr:   cfg.Server.Addr,
			})
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.Flags().StringVar(&rootID, "root", "", "default tree root practice id (overrides config)")

	return cmd
}
