// Package cli implements the cdgraph command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bdfinst/interactive-cd/internal/config"
	"github.com/bdfinst/interactive-cd/internal/store"
	"github.com/bdfinst/interactive-cd/pkg/buildinfo"
	"github.com/bdfinst/interactive-cd/pkg/cache"
	"github.com/bdfinst/interactive-cd/pkg/session"
)

// appName is the application name used for directories and display.
const appName = "cdgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "cdgraph explores Continuous Delivery practices as a dependency graph",
		Long:         `cdgraph serves and explores a graph of Continuous Delivery practices, where each practice depends on the practices that enable it. Drill into dependencies, track adoption, and render the graph for sharing.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config file (TOML)")

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.migrateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.adoptionCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or defaults.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// openStore opens the SQLite practice store, applying pending migrations.
func openStore(cfg config.Config) (*store.Store, error) {
	return store.Open(cfg.Store.Path)
}

// newCache builds the cache backend selected by the config.
func newCache(cmd *cobra.Command, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(cmd.Context(), cfg.Cache.Redis, cfg.Cache.Password, cfg.Cache.DB)
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// sessionStore opens the file-based session store under the config dir.
func sessionStore() (*session.FileStore, error) {
	return session.NewFileStore("")
}

// loadSession fetches the named session, creating a fresh one when absent.
func loadSession(cmd *cobra.Command, rootID string) (*session.Session, *session.FileStore, error) {
	store, err := sessionStore()
	if err != nil {
		return nil, nil, err
	}
	sess, err := store.Get(cmd.Context(), session.DefaultID)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		sess = session.New(session.DefaultID, rootID)
	}
	return sess, store, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/cdgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
