package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/bdfinst/interactive-cd/internal/config"
	"github.com/bdfinst/interactive-cd/pkg/adoption"
	"github.com/bdfinst/interactive-cd/pkg/client"
	apperrors "github.com/bdfinst/interactive-cd/pkg/errors"
	"github.com/bdfinst/interactive-cd/pkg/engine"
	"github.com/bdfinst/interactive-cd/pkg/practice"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the "browse" command: an interactive terminal view
// of the practice graph.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		dbPath string
		rootID string
		apiURL string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the practice graph interactively",
		Long: `Browse the dependency graph in the terminal. Drill into a practice to
see what it depends on, mark practices adopted, and follow the
recommended adoption order. State is saved between runs.`,
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

			root, err := fetchTree(cmd, cfg, apiURL, rootID)
			if err != nil {
				return err
			}

			eng := engine.New(
				engine.WithPasses(cfg.Layout.Passes),
				engine.WithDebounce(cfg.Debounce()),
			)
			defer eng.Close()
			if err := eng.Load(root); err != nil {
				return err
			}

			sess, sessions, err := loadSession(cmd, rootID)
			if err != nil {
				return err
			}
			adopted := sess.AdoptedSet()
			// Replay the saved drill-down path; stale ids are no-ops.
			for i, id := range sess.Path {
				if i == 0 {
					continue
				}
				eng.Expand(id)
			}

			model := newBrowseModel(eng, adopted)
			prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := prog.Run(); err != nil {
				return err
			}

			sess.Adopted = adopted.IDs()
			sess.SetPath(eng.Path())
			return sessions.Set(cmd.Context(), sess)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.Flags().StringVar(&rootID, "root", "", "root practice id (default from config)")
	cmd.Flags().StringVar(&apiURL, "api", "", "fetch the tree from a running API instead of the local database")

	return cmd
}

// fetchTree loads the practice tree from the API when --api is given, or
// from the local SQLite store otherwise.
func fetchTree(cmd *cobra.Command, cfg config.Config, apiURL, rootID string) (*practice.Node, error) {
	if apiURL != "" {
		return client.New(apiURL, nil).TreeView(cmd.Context(), rootID)
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Tree(cmd.Context(), rootID)
}

// =============================================================================
// browseModel - Interactive practice graph navigation
// =============================================================================

// browseModel is the bubbletea model for the practice browser.
type browseModel struct {
	eng     *engine.Engine
	adopted *adoption.Set

	cursor int
	height int
}

func newBrowseModel(eng *engine.Engine, adopted *adoption.Set) browseModel {
	return browseModel{
		eng:     eng,
		adopted: adopted,
		height:  20,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

// current returns the practice the view is focused on.
func (m browseModel) current() *practice.Node {
	n, _ := m.eng.Index().Get(m.eng.Path().Current())
	return n
}

// deps returns the direct dependencies of the focused practice.
func (m browseModel) deps() []*practice.Node {
	n := m.current()
	if n == nil {
		return nil
	}
	return n.Dependencies
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.deps())-1 {
				m.cursor++
			}
		case "enter", "l":
			deps := m.deps()
			if m.cursor < len(deps) && len(deps[m.cursor].Dependencies) > 0 {
				m.eng.Expand(deps[m.cursor].ID)
				m.cursor = 0
			}
		case "backspace", "esc", "h":
			m.eng.Back()
			m.cursor = 0
		case " ", "a":
			deps := m.deps()
			if m.cursor < len(deps) {
				m.adopted.Toggle(deps[m.cursor].ID)
			}
		case "A":
			if n := m.current(); n != nil {
				m.adopted.Toggle(n.ID)
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 10
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	current := m.current()
	if current == nil {
		return "no practice loaded\n"
	}

	b.WriteString(StyleTitle.Render(current.Name))
	if m.adopted.Has(current.ID) {
		b.WriteString(" " + StyleSuccess.Render(iconSuccess+" adopted"))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(m.breadcrumb()))
	b.WriteString("\n\n")

	if current.Description != "" {
		b.WriteString(StyleDim.Render(current.Description))
		b.WriteString("\n\n")
	}

	if deps := m.deps(); len(deps) > 0 {
		b.WriteString(m.depTable(deps))
		b.WriteString("\n")
	} else {
		b.WriteString(listDimStyle.Render("  no further dependencies"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.progressLine())
	b.WriteString("\n")
	b.WriteString(m.recommendationLine())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ drill in  esc back  space adopt  q quit"))

	return b.String()
}

// breadcrumb renders the navigation path.
func (m browseModel) breadcrumb() string {
	path := m.eng.Path()
	names := make([]string, len(path))
	for i, id := range path {
		names[i] = id
		if n, err := m.eng.Index().Get(id); err == nil {
			names[i] = n.Name
		}
	}
	return strings.Join(names, " › ")
}

// depTable renders the dependency list with adoption state.
func (m browseModel) depTable(deps []*practice.Node) string {
	idx := m.eng.Index()

	rows := [][]string{}
	for i, dep := range deps {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		mark := ""
		if m.adopted.Has(dep.ID) {
			mark = iconSuccess
		}

		stats := adoption.DependencyStatsFor(dep, m.adopted, idx)
		pct := fmt.Sprintf("%d%%", stats.Percentage(m.adopted.Has(dep.ID)))

		depth := "—"
		if dep.TotalDependencyCount > 0 {
			depth = fmt.Sprintf("%d", dep.TotalDependencyCount)
		}

		rows = append(rows, []string{cursor, dep.Name, dep.Category, fmt.Sprintf("%d", dep.MaturityLevel), depth, pct, mark})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Practice", "Category", "Maturity", "Deps", "Progress", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(deps) {
				return lipgloss.NewStyle()
			}

			isCurrent := row == m.cursor
			isAdopted := m.adopted.Has(deps[row].ID)

			style := lipgloss.NewStyle()
			switch {
			case isCurrent:
				style = style.Foreground(colorCyan).Bold(true)
			case isAdopted:
				style = style.Foreground(colorGreen)
			case col >= 2:
				style = style.Foreground(colorDim)
			default:
				style = style.Foreground(colorWhite)
			}
			return style
		})

	return t.Render()
}

// progressLine renders overall adoption progress with a bar.
func (m browseModel) progressLine() string {
	p := adoption.ProgressOf(m.eng.Index(), m.adopted)

	const width = 30
	filled := 0
	if p.Total > 0 {
		filled = width * p.Adopted / p.Total
	}
	bar := StyleSuccess.Render(strings.Repeat("█", filled)) +
		listDimStyle.Render(strings.Repeat("░", width-filled))

	return fmt.Sprintf("  %s %s", bar,
		StyleNumber.Render(fmt.Sprintf("%d%%", p.Percentage))+
			listDimStyle.Render(fmt.Sprintf(" (%d/%d adopted)", p.Adopted, p.Total)))
}

// recommendationLine renders the next recommended practice, if any.
func (m browseModel) recommendationLine() string {
	next := adoption.NextRecommendation(m.eng.Index(), m.adopted)
	if next == nil {
		return "  " + StyleSuccess.Render("all reachable practices adopted")
	}
	return "  " + listDimStyle.Render("next up: ") + StyleHighlight.Render(next.Name)
}
