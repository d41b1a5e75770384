package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/bdfinst/interactive-cd/pkg/errors"
	"github.com/bdfinst/interactive-cd/pkg/layout"
	"github.com/bdfinst/interactive-cd/pkg/practice"
)

// layoutCommand creates the "layout" command: a diagnostic view of the
// level ordering the optimizer produces.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		dbPath string
		rootID string
		passes int
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show the optimized level ordering of the practice graph",
		Long: `Show how the layout optimizer arranges practices: one row per
hierarchy level, ordered to keep dependency connections short. Useful
for inspecting what the interactive views will draw.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.Store.Path = dbPath
			}
			if rootID == "" {
				rootID = cfg.Server.RootID
			}
			if err := apperrors.ValidatePracticeID(rootID); err != nil {
				return err
			}
			if passes == 0 {
				passes = cfg.Layout.Passes
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			root, err := st.Tree(cmd.Context(), rootID)
			if err != nil {
				return err
			}
			flat, err := practice.Flatten(root)
			if err != nil {
				return err
			}

			orderer := layout.Barycentric{Passes: passes}
			groups := orderer.Optimize(layout.GroupByLevel(flat), layout.EdgesOf(flat))

			for _, level := range groups.Levels() {
				ids := make([]string, len(groups[level]))
				for i, n := range groups[level] {
					ids[i] = n.ID
				}
				printKeyValue(fmt.Sprintf("level %d", level), strings.Join(ids, "  "))
			}
			printNewline()
			printStats(len(flat), len(layout.EdgesOf(flat)), false)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.Flags().StringVar(&rootID, "root", "", "root practice id (default from config)")
	cmd.Flags().IntVar(&passes, "passes", 0, "refinement passes (default from config)")

	return cmd
}
