// Package engine composes the practice graph pipeline behind a single
// stateful facade: tree building, navigation, level ordering, selection
// filtering, and connection geometry.
//
// The engine owns three pieces of state — the node arena, the navigation
// path, and the current selection — and derives everything else on demand.
// Mutations go through the narrow transition methods; readers take immutable
// [View] snapshots. All work is synchronous; the only timing concern is the
// resize path, which runs through a [Debouncer] so a continuous resize
// costs one recompute instead of hundreds.
package engine

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bdfinst/interactive-cd/pkg/adoption"
	"github.com/bdfinst/interactive-cd/pkg/layout"
	"github.com/bdfinst/interactive-cd/pkg/layout/geometry"
	"github.com/bdfinst/interactive-cd/pkg/practice"
	"github.com/bdfinst/interactive-cd/pkg/practice/navigation"
)

// View is a read-only snapshot of the engine's derived state, handed to the
// rendering layer. The slices and maps are fresh copies; holding a View
// across engine mutations is safe.
type View struct {
	// Flat is the current node list: the full flattened tree, or the
	// selection-relative subgraph when a selection is active.
	Flat []*practice.Node

	// Groups is Flat bucketed by level with optimizer ordering applied.
	Groups layout.Groups

	// Path is the navigation drill-down stack.
	Path navigation.Path

	// Selected is the selected node id, or "".
	Selected string

	// Connections is the geometry of the last measurement. Empty until
	// the rendering layer has supplied rects.
	Connections []geometry.Connection
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithPasses sets the barycenter refinement pass count.
func WithPasses(n int) Option {
	return func(e *Engine) { e.orderer.Passes = n }
}

// WithDebounce sets the resize coalescing delay.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) { e.resize = NewDebouncer(d) }
}

// Engine drives the practice graph view. Not safe for concurrent use: the
// cooperative single-owner model means all mutations arrive serialized from
// one event loop, so the engine carries no lock.
type Engine struct {
	logger  *log.Logger
	orderer layout.Barycentric
	resize  *Debouncer

	index    practice.Index
	flat     []*practice.Node
	edges    []layout.Edge
	path     navigation.Path
	selected string
	conns    []geometry.Connection
}

// New creates an engine with no data loaded. Call [Engine.Load] with a
// fetched tree before taking snapshots.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		resize: NewDebouncer(DefaultDebounce),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load ingests a fetched practice tree: validates, enriches counts, builds
// the arena, flattens, and resets navigation to the new root. Stale
// selection state is dropped; stale connections are cleared until the next
// measurement.
func (e *Engine) Load(root *practice.Node) error {
	if _, err := practice.EnrichCounts(root); err != nil {
		return err
	}
	idx, err := practice.BuildIndex(root)
	if err != nil {
		return err
	}
	flat, err := practice.Flatten(root)
	if err != nil {
		return err
	}

	e.index = idx
	e.flat = flat
	e.edges = layout.EdgesOf(flat)
	e.path = navigation.NewPath(root.ID)
	e.selected = ""
	e.conns = nil

	e.logger.Debug("tree loaded", "nodes", len(flat), "edges", len(e.edges))
	return nil
}

// Index returns the id→node arena. Read-only by convention.
func (e *Engine) Index() practice.Index { return e.index }

// Path returns the current navigation path.
func (e *Engine) Path() navigation.Path { return e.path }

// Expand drills into id. Unknown ids are rejected as no-ops; expanding the
// current node is the collapse gesture and routes to [Engine.Back].
func (e *Engine) Expand(id string) {
	if _, ok := e.index[id]; !ok {
		e.logger.Debug("expand rejected: unknown id", "id", id)
		return
	}
	if e.path.Current() == id {
		e.Back()
		return
	}
	e.path = e.path.Expand(id)
}

// Back pops the navigation path; popping the root is a no-op.
func (e *Engine) Back() {
	e.path = e.path.Back()
}

// ToAncestor truncates the path to the ancestor at index; out-of-range
// indexes are no-ops.
func (e *Engine) ToAncestor(index int) {
	e.path = e.path.ToAncestor(index)
}

// Select sets the selection used for subgraph filtering. Selecting an id
// absent from the tree still records it — the filter fails open, matching
// the stale-selection behavior after a data refresh. Selecting the current
// selection clears it (toggle semantics).
func (e *Engine) Select(id string) {
	if e.selected == id {
		e.selected = ""
		return
	}
	e.selected = id
}

// ClearSelection removes any active selection.
func (e *Engine) ClearSelection() { e.selected = "" }

// Snapshot derives the current view: filters by selection, buckets by
// level, and applies barycenter ordering. The returned View owns its
// containers.
func (e *Engine) Snapshot() View {
	flat := e.flat
	if e.selected != "" {
		flat = practice.FilterBySelection(e.flat, e.selected)
	}

	groups := e.orderer.Optimize(layout.GroupByLevel(flat), e.edges)

	v := View{
		Flat:        append([]*practice.Node(nil), flat...),
		Groups:      groups,
		Path:        append(navigation.Path(nil), e.path...),
		Selected:    e.selected,
		Connections: append([]geometry.Connection(nil), e.conns...),
	}
	return v
}

// Measure recomputes connection geometry from freshly measured rects. The
// caller must invoke this only after the rendering layer has applied the
// latest node set — measuring against a stale layout yields coordinates
// for cards that no longer exist, which BuildConnections silently skips.
// Selection-driven recomputes call this directly; resize events should go
// through [Engine.MeasureDebounced].
func (e *Engine) Measure(rects map[string]geometry.Rect) {
	e.conns = geometry.BuildConnections(e.connectionPairs(), rects)
}

// MeasureDebounced coalesces rapid measurement triggers (window resize)
// into one recompute after the quiet period. measure is called on a timer
// goroutine to obtain current rects; its result is applied via fn.
func (e *Engine) MeasureDebounced(measure func() map[string]geometry.Rect, apply func()) {
	e.resize.Trigger(func() {
		e.Measure(measure())
		if apply != nil {
			apply()
		}
	})
}

// Close stops the resize debouncer.
func (e *Engine) Close() {
	e.resize.Stop()
}

// connectionPairs derives the abstract edge list for the current view,
// classifying each edge for styling: edges along the navigation path are
// ancestor connections, edges touching the selection are selected, edges
// from the current node are dependency, everything else is tree.
func (e *Engine) connectionPairs() []geometry.Pair {
	visible := make(map[string]struct{}, len(e.flat))
	flat := e.flat
	if e.selected != "" {
		flat = practice.FilterBySelection(e.flat, e.selected)
	}
	for _, n := range flat {
		visible[n.ID] = struct{}{}
	}

	current := e.path.Current()
	pairs := make([]geometry.Pair, 0, len(e.edges))
	seen := make(map[layout.Edge]struct{}, len(e.edges))
	for _, edge := range e.edges {
		if _, ok := seen[edge]; ok {
			continue
		}
		seen[edge] = struct{}{}
		if _, ok := visible[edge.From]; !ok {
			continue
		}
		if _, ok := visible[edge.To]; !ok {
			continue
		}

		kind := geometry.KindTree
		switch {
		case e.selected != "" && (edge.From == e.selected || edge.To == e.selected):
			kind = geometry.KindSelected
		case e.onPath(edge):
			kind = geometry.KindAncestor
		case edge.From == current:
			kind = geometry.KindDependency
		}
		pairs = append(pairs, geometry.Pair{FromID: edge.From, ToID: edge.To, Kind: kind})
	}
	return pairs
}

// onPath reports whether the edge connects consecutive entries of the
// navigation path.
func (e *Engine) onPath(edge layout.Edge) bool {
	for i := 0; i+1 < len(e.path); i++ {
		if e.path[i] == edge.From && e.path[i+1] == edge.To {
			return true
		}
	}
	return false
}

// AdoptionView bundles the per-node adoption figures the rendering layer
// shows on a card.
type AdoptionView struct {
	Stats      adoption.DependencyStats
	Percentage int
}

// AdoptionFor computes the adoption aggregate for one practice against the
// engine's arena.
func (e *Engine) AdoptionFor(id string, adopted *adoption.Set) AdoptionView {
	n, ok := e.index[id]
	if !ok {
		return AdoptionView{}
	}
	stats := adoption.DependencyStatsFor(n, adopted, e.index)
	return AdoptionView{
		Stats:      stats,
		Percentage: stats.Percentage(adopted.Has(id)),
	}
}
