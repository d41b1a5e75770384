package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// migrateCommand creates the migrate command group.
func (c *CLI) migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the practice database schema",
	}

	cmd.AddCommand(c.migrateUpCommand())
	cmd.AddCommand(c.migrateStatusCommand())

	return cmd
}

// migrateUpCommand creates the "migrate up" subcommand. Opening the store
// applies any pending migrations.
func (c *CLI) migrateUpCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.Store.Path = dbPath
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			applied, err := st.MigrationStatus(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Database is up to date")
			printDetail("%d migrations applied", len(applied))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	return cmd
}

// migrateStatusCommand creates the "migrate status" subcommand.
func (c *CLI) migrateStatusCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show applied schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.Store.Path = dbPath
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			applied, err := st.MigrationStatus(cmd.Context())
			if err != nil {
				return err
			}

			for _, m := range applied {
				printKeyValue(fmt.Sprintf("v%d", m.Version), fmt.Sprintf("%s  %s", m.Name, StyleDim.Render(m.AppliedAt)))
			}
			printNewline()
			printInfo("%d migrations applied", len(applied))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	return cmd
}
