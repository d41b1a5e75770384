package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bdfinst/interactive-cd/pkg/adoption"
	"github.com/bdfinst/interactive-cd/pkg/layout/geometry"
	"github.com/bdfinst/interactive-cd/pkg/practice"
)

func loadedEngine(t *testing.T) *Engine {
	t.Helper()
	at := &practice.Node{ID: "at", Name: "Automated Testing"}
	tbd := &practice.Node{ID: "tbd", Name: "Trunk-Based Development"}
	ci := &practice.Node{ID: "ci", Name: "Continuous Integration", Dependencies: []*practice.Node{tbd, at}}
	root := &practice.Node{ID: "cd", Name: "Continuous Delivery", Dependencies: []*practice.Node{ci, at}}

	e := New()
	if err := e.Load(root); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return e
}

func TestLoadResetsState(t *testing.T) {
	e := loadedEngine(t)

	e.Expand("ci")
	e.Select("at")

	root := &practice.Node{ID: "other-root"}
	if err := e.Load(root); err != nil {
		t.Fatalf("reload: %v", err)
	}

	v := e.Snapshot()
	if v.Path.Current() != "other-root" {
		t.Errorf("path after reload = %v", v.Path)
	}
	if v.Selected != "" {
		t.Error("selection should be dropped on reload")
	}
	if len(v.Connections) != 0 {
		t.Error("connections should be cleared on reload")
	}
}

func TestLoadRejectsMalformedTree(t *testing.T) {
	e := New()
	if err := e.Load(&practice.Node{Name: "no id"}); err == nil {
		t.Error("malformed tree should fail fast")
	}
}

func TestExpandAndCollapse(t *testing.T) {
	e := loadedEngine(t)

	e.Expand("ci")
	if cur := e.Path().Current(); cur != "ci" {
		t.Fatalf("current = %s, want ci", cur)
	}

	// Expanding the current node collapses back.
	e.Expand("ci")
	if cur := e.Path().Current(); cur != "cd" {
		t.Errorf("current after collapse = %s, want cd", cur)
	}

	// Unknown ids are rejected.
	e.Expand("nope")
	if cur := e.Path().Current(); cur != "cd" {
		t.Errorf("current after bad expand = %s, want cd", cur)
	}
}

func TestSnapshotFiltersBySelection(t *testing.T) {
	e := loadedEngine(t)

	e.Select("ci")
	v := e.Snapshot()

	ids := map[string]bool{}
	for _, n := range v.Flat {
		ids[n.ID] = true
	}
	for _, want := range []string{"cd", "ci", "tbd", "at"} {
		if !ids[want] {
			t.Errorf("selection view missing %s", want)
		}
	}

	// Toggle the same selection off.
	e.Select("ci")
	if v := e.Snapshot(); v.Selected != "" {
		t.Error("re-selecting should clear the selection")
	}
}

func TestSnapshotGroupsCoverFlat(t *testing.T) {
	e := loadedEngine(t)
	v := e.Snapshot()

	bucketed := 0
	for _, nodes := range v.Groups {
		bucketed += len(nodes)
	}
	if bucketed != len(v.Flat) {
		t.Errorf("groups hold %d nodes, flat has %d", bucketed, len(v.Flat))
	}
}

func TestMeasureBuildsConnections(t *testing.T) {
	e := loadedEngine(t)

	rects := map[string]geometry.Rect{
		"cd":  {X: 0, Y: 0, Width: 100, Height: 40},
		"ci":  {X: 0, Y: 100, Width: 100, Height: 40},
		"at":  {X: 200, Y: 100, Width: 100, Height: 40},
		"tbd": {X: 0, Y: 200, Width: 100, Height: 40},
	}
	e.Measure(rects)

	v := e.Snapshot()
	if len(v.Connections) == 0 {
		t.Fatal("expected connections after measurement")
	}

	// cd→ci and cd→at plus ci→tbd, ci→at: 4 unique edges, all measured.
	if len(v.Connections) != 4 {
		t.Errorf("connections = %d, want 4", len(v.Connections))
	}
}

func TestMeasureSkipsUnmountedCards(t *testing.T) {
	e := loadedEngine(t)
	e.Measure(map[string]geometry.Rect{
		"cd": {Width: 100, Height: 40},
		"ci": {Y: 100, Width: 100, Height: 40},
	})

	v := e.Snapshot()
	if len(v.Connections) != 1 {
		t.Errorf("connections = %d, want 1 (only cd→ci fully measured)", len(v.Connections))
	}
}

func TestConnectionKinds(t *testing.T) {
	e := loadedEngine(t)
	e.Expand("ci")

	rects := map[string]geometry.Rect{
		"cd":  {Width: 100, Height: 40},
		"ci":  {Y: 100, Width: 100, Height: 40},
		"at":  {X: 200, Y: 100, Width: 100, Height: 40},
		"tbd": {Y: 200, Width: 100, Height: 40},
	}
	e.Measure(rects)

	kinds := map[string]geometry.Kind{}
	for _, c := range e.Snapshot().Connections {
		kinds[c.FromID+"→"+c.ToID] = c.Kind
	}

	if kinds["cd→ci"] != geometry.KindAncestor {
		t.Errorf("cd→ci kind = %s, want ancestor", kinds["cd→ci"])
	}
	if kinds["ci→tbd"] != geometry.KindDependency {
		t.Errorf("ci→tbd kind = %s, want dependency", kinds["ci→tbd"])
	}
	if kinds["cd→at"] != geometry.KindTree {
		t.Errorf("cd→at kind = %s, want tree", kinds["cd→at"])
	}
}

func TestAdoptionFor(t *testing.T) {
	e := loadedEngine(t)
	adopted := adoption.NewSetFrom([]string{"at", "tbd"})

	view := e.AdoptionFor("ci", adopted)
	if view.Stats.TotalCount != 2 || view.Stats.AdoptedCount != 2 {
		t.Errorf("stats = %+v, want 2/2", view.Stats)
	}
	// Both deps adopted, node itself not: floor(2/3*100) = 66.
	if view.Percentage != 66 {
		t.Errorf("percentage = %d, want 66", view.Percentage)
	}

	if got := e.AdoptionFor("missing", adopted); got != (AdoptionView{}) {
		t.Errorf("missing id should yield zero view, got %+v", got)
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)
	for i := 0; i < 10; i++ {
		d.Trigger(func() {
			if calls.Add(1) == 1 {
				wg.Done()
			}
		})
	}
	wg.Wait()

	// Give any stray timers a moment to fire.
	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("debounced calls = %d, want 1", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("stopped debouncer still fired %d times", got)
	}
}
