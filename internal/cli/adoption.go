package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bdfinst/interactive-cd/pkg/adoption"
	apperrors "github.com/bdfinst/interactive-cd/pkg/errors"
	"github.com/bdfinst/interactive-cd/pkg/practice"
)

// adoptionCommand creates the adoption command group.
func (c *CLI) adoptionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adoption",
		Short: "Track which practices your team has adopted",
	}

	cmd.AddCommand(c.adoptCommand())
	cmd.AddCommand(c.unadoptCommand())
	cmd.AddCommand(c.adoptionListCommand())
	cmd.AddCommand(c.adoptionProgressCommand())
	cmd.AddCommand(c.adoptionNextCommand())
	cmd.AddCommand(c.adoptionExportCommand())
	cmd.AddCommand(c.adoptionImportCommand())

	return cmd
}

// loadIndex opens the store and builds the id→node index for the configured
// tree root.
func (c *CLI) loadIndex(cmd *cobra.Command) (practice.Index, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	root, err := st.Tree(cmd.Context(), cfg.Server.RootID)
	if err != nil {
		return nil, err
	}
	return practice.BuildIndex(root)
}

func (c *CLI) adoptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "adopt <practice-id>",
		Short: "Mark a practice as adopted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := apperrors.ValidatePracticeID(id); err != nil {
				return err
			}
			idx, err := c.loadIndex(cmd)
			if err != nil {
				return err
			}
			if _, err := idx.Get(id); err != nil {
				return err
			}

			sess, store, err := loadSession(cmd, "")
			if err != nil {
				return err
			}
			sess.Adopt(id)
			if err := store.Set(cmd.Context(), sess); err != nil {
				return err
			}
			printSuccess("Adopted %s", id)
			printNextStep("See what to adopt next", "cdgraph adoption next")
			return nil
		},
	}
}

func (c *CLI) unadoptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unadopt <practice-id>",
		Short: "Remove a practice from the adopted set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, store, err := loadSession(cmd, "")
			if err != nil {
				return err
			}
			sess.Unadopt(args[0])
			if err := store.Set(cmd.Context(), sess); err != nil {
				return err
			}
			printSuccess("Removed %s", args[0])
			return nil
		},
	}
}

func (c *CLI) adoptionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List adopted practices",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := loadSession(cmd, "")
			if err != nil {
				return err
			}
			if len(sess.Adopted) == 0 {
				printInfo("No practices adopted yet")
				return nil
			}
			for _, id := range sess.Adopted {
				fmt.Println("  " + StyleValue.Render(id))
			}
			return nil
		},
	}
}

func (c *CLI) adoptionProgressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show overall adoption progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := c.loadIndex(cmd)
			if err != nil {
				return err
			}
			sess, _, err := loadSession(cmd, "")
			if err != nil {
				return err
			}

			p := adoption.ProgressOf(idx, sess.AdoptedSet())
			printKeyValue("Adopted", fmt.Sprintf("%d of %d practices", p.Adopted, p.Total))
			printKeyValue("Progress", fmt.Sprintf("%d%%", p.Percentage))
			return nil
		},
	}
}

func (c *CLI) adoptionNextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Recommend the next practice to adopt",
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := c.loadIndex(cmd)
			if err != nil {
				return err
			}
			sess, _, err := loadSession(cmd, "")
			if err != nil {
				return err
			}

			next := adoption.NextRecommendation(idx, sess.AdoptedSet())
			if next == nil {
				printSuccess("All practices adopted")
				return nil
			}
			printInfo("Next: %s", StyleHighlight.Render(next.Name))
			printDetail("id: %s  maturity: %d", next.ID, next.MaturityLevel)
			return nil
		},
	}
}

func (c *CLI) adoptionExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export adoption state to a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apperrors.ValidateExportFilename(args[0]); err != nil {
				return err
			}
			idx, err := c.loadIndex(cmd)
			if err != nil {
				return err
			}
			sess, _, err := loadSession(cmd, "")
			if err != nil {
				return err
			}

			doc := adoption.Export(idx, sess.AdoptedSet(), time.Now().UTC())
			data, err := adoption.MarshalDocument(doc)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return err
			}
			printSuccess("Exported %d practices", len(doc.Practices))
			printFile(args[0])
			return nil
		},
	}
}

func (c *CLI) adoptionImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import adoption state from a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			set, doc, err := adoption.Import(data)
			if err != nil {
				return err
			}

			idx, err := c.loadIndex(cmd)
			if err != nil {
				return err
			}
			for _, id := range set.IDs() {
				if _, ok := idx[id]; !ok {
					printWarning("unknown practice %q in import", id)
				}
			}

			sess, store, err := loadSession(cmd, "")
			if err != nil {
				return err
			}
			sess.Adopted = set.IDs()
			if err := store.Set(cmd.Context(), sess); err != nil {
				return err
			}
			printSuccess("Imported %d practices", len(doc.Practices))
			return nil
		},
	}
}
