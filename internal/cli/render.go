package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/bdfinst/interactive-cd/pkg/errors"
	"github.com/bdfinst/interactive-cd/pkg/practice"
	"github.com/bdfinst/interactive-cd/pkg/render/dot"
)

// pngScale is the raster scale factor for PNG output.
const pngScale = 2.0

// renderCommand creates the "render" command producing graph images.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		dbPath   string
		rootID   string
		out      string
		formats  string
		detailed bool
		useSess  bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the practice graph as SVG, PDF, or PNG",
		Long: `Render the dependency graph rooted at a practice. Output formats are
selected with --formats as a comma-separated list. With --session, the
practices adopted in the current session are highlighted.`,
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

			opts := dot.Options{Detailed: detailed}
			if useSess {
				sess, _, err := loadSession(cmd, rootID)
				if err != nil {
					return err
				}
				opts.Adopted = make(map[string]bool, len(sess.Adopted))
				for _, id := range sess.Adopted {
					opts.Adopted[id] = true
				}
			}

			graph := dot.ToDOT(flat, opts)

			spinner := newSpinnerWithContext(cmd.Context(), "Rendering graph...")
			spinner.Start()
			written, err := renderFormats(graph, out, parseFormats(formats))
			spinner.Stop()
			if err != nil {
				return err
			}

			edgeCount := 0
			for _, n := range flat {
				edgeCount += len(n.Dependencies)
			}
			printSuccess("Rendered practice graph")
			printStats(len(flat), edgeCount, false)
			for _, path := range written {
				printFile(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.Flags().StringVar(&rootID, "root", "", "root practice id (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "practices", "output file base name")
	cmd.Flags().StringVarP(&formats, "formats", "f", "svg", "comma-separated output formats (svg,pdf,png,dot)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include maturity and dependency counts in labels")
	cmd.Flags().BoolVar(&useSess, "session", false, "highlight practices adopted in the current session")

	return cmd
}

// renderFormats writes the graph in each requested format and returns the
// written paths.
func renderFormats(graph, base string, formats []string) ([]string, error) {
	var written []string
	for _, format := range formats {
		path := base + "." + format

		var data []byte
		var err error
		switch format {
		case "dot":
			data = []byte(graph)
		case "svg":
			data, err = dot.RenderSVG(graph)
		case "pdf":
			data, err = dot.RenderPDF(graph)
		case "png":
			data, err = dot.RenderPNG(graph, pngScale)
		default:
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format %q", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}
