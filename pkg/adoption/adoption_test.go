package adoption

import (
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/bdfinst/interactive-cd/pkg/practice"
)

// twoNodeIndex builds the minimal recommendation fixture:
// A has no dependencies (maturity 0), B depends on A (maturity 1).
func twoNodeIndex() practice.Index {
	a := &practice.Node{ID: "A", MaturityLevel: 0}
	b := &practice.Node{ID: "B", MaturityLevel: 1, Dependencies: []*practice.Node{a}}
	return practice.Index{"A": a, "B": b}
}

func TestSetMutations(t *testing.T) {
	s := NewSet()

	s.Adopt("ci")
	if !s.Has("ci") || s.Len() != 1 {
		t.Fatal("Adopt should add the id")
	}

	s.Adopt("ci") // idempotent
	if s.Len() != 1 {
		t.Error("re-adopting should not grow the set")
	}

	if s.Toggle("ci") {
		t.Error("Toggle on an adopted id should report false")
	}
	if s.Has("ci") {
		t.Error("Toggle should have removed the id")
	}

	s.Adopt("a")
	s.Adopt("b")
	s.Clear()
	if s.Len() != 0 {
		t.Error("Clear should empty the set")
	}
}

func TestSetNotifiesObservers(t *testing.T) {
	s := NewSet()
	calls := 0
	s.Subscribe(func() { calls++ })

	s.Adopt("ci")    // +1
	s.Adopt("ci")    // no change, no call
	s.Unadopt("ci")  // +1
	s.Unadopt("ci")  // no change
	s.Clear()        // empty, no change
	s.Adopt("tbd")   // +1
	s.Clear()        // +1

	if calls != 4 {
		t.Errorf("observer calls = %d, want 4", calls)
	}
}

func TestSetJSONRoundTrip(t *testing.T) {
	s := NewSetFrom([]string{"b", "a"})

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["a","b"]` {
		t.Errorf("marshal = %s, want sorted id array", data)
	}

	restored := NewSet()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !slices.Equal(restored.IDs(), []string{"a", "b"}) {
		t.Errorf("restored ids = %v", restored.IDs())
	}
}

func TestDependencyStats(t *testing.T) {
	// root depends on ci and at; ci also depends on at (shared).
	at := &practice.Node{ID: "at"}
	ci := &practice.Node{ID: "ci", Dependencies: []*practice.Node{at}}
	root := &practice.Node{ID: "root", Dependencies: []*practice.Node{ci, at}}
	idx := practice.Index{"root": root, "ci": ci, "at": at}

	stats := DependencyStatsFor(root, NewSetFrom([]string{"at"}), idx)
	if stats.TotalCount != 2 {
		t.Errorf("total = %d, want 2 (shared dependency counted once)", stats.TotalCount)
	}
	if stats.AdoptedCount != 1 {
		t.Errorf("adopted = %d, want 1", stats.AdoptedCount)
	}
}

func TestDependencyStatsNilNode(t *testing.T) {
	stats := DependencyStatsFor(nil, NewSet(), practice.Index{})
	if stats.TotalCount != 0 || stats.AdoptedCount != 0 {
		t.Errorf("nil node stats = %+v, want zero", stats)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name        string
		stats       DependencyStats
		nodeAdopted bool
		want        int
	}{
		{"LeafUnadopted", DependencyStats{}, false, 0},
		{"LeafAdopted", DependencyStats{}, true, 100},
		{"PartialFloor", DependencyStats{AdoptedCount: 1, TotalCount: 2}, false, 33},
		{"AllDepsPlusSelf", DependencyStats{AdoptedCount: 2, TotalCount: 2}, true, 100},
		{"DepsOnlyNotSelf", DependencyStats{AdoptedCount: 2, TotalCount: 2}, false, 66},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Percentage(tt.nodeAdopted); got != tt.want {
				t.Errorf("Percentage(%v) = %d, want %d", tt.nodeAdopted, got, tt.want)
			}
		})
	}
}

func TestNextRecommendation(t *testing.T) {
	idx := twoNodeIndex()

	// Nothing adopted: only A has all (zero) dependencies adopted.
	if got := NextRecommendation(idx, NewSet()); got == nil || got.ID != "A" {
		t.Fatalf("recommendation = %v, want A", got)
	}

	// A adopted: B's only dependency is satisfied.
	if got := NextRecommendation(idx, NewSetFrom([]string{"A"})); got == nil || got.ID != "B" {
		t.Fatalf("recommendation = %v, want B", got)
	}

	// Everything adopted: terminal state.
	if got := NextRecommendation(idx, NewSetFrom([]string{"A", "B"})); got != nil {
		t.Fatalf("recommendation = %v, want nil", got)
	}
}

func TestNextRecommendationTiebreak(t *testing.T) {
	idx := practice.Index{
		"zeta":  &practice.Node{ID: "zeta", MaturityLevel: 0},
		"alpha": &practice.Node{ID: "alpha", MaturityLevel: 0},
		"deep":  &practice.Node{ID: "deep", MaturityLevel: 2},
	}
	if got := NextRecommendation(idx, NewSet()); got == nil || got.ID != "alpha" {
		t.Errorf("recommendation = %v, want alpha (lexicographic tiebreak)", got)
	}
}

func TestProgressOf(t *testing.T) {
	if got := ProgressOf(practice.Index{}, NewSet()); got != (Progress{}) {
		t.Errorf("empty catalog progress = %+v, want all zero", got)
	}

	idx := twoNodeIndex()
	got := ProgressOf(idx, NewSetFrom([]string{"A"}))
	if got.Total != 2 || got.Adopted != 1 || got.Percentage != 50 {
		t.Errorf("progress = %+v, want {2 1 50}", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	idx := twoNodeIndex()
	adopted := NewSetFrom([]string{"A"})
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	doc := Export(idx, adopted, now)
	if doc.Version != DocumentVersion {
		t.Errorf("version = %d, want %d", doc.Version, DocumentVersion)
	}
	if doc.ExportedAt != "2026-03-14T09:26:53Z" {
		t.Errorf("exportedAt = %s", doc.ExportedAt)
	}
	if doc.Summary.Adopted != 1 || doc.Summary.Total != 2 {
		t.Errorf("summary = %+v", doc.Summary)
	}

	data, err := MarshalDocument(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	restored, gotDoc, err := Import(data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !slices.Equal(restored.IDs(), []string{"A"}) {
		t.Errorf("restored ids = %v, want [A]", restored.IDs())
	}
	if gotDoc.Summary != doc.Summary {
		t.Errorf("summary changed in round trip: %+v", gotDoc.Summary)
	}
}

func TestImportRejectsNewerVersion(t *testing.T) {
	if _, _, err := Import([]byte(`{"version": 99, "practices": []}`)); err == nil {
		t.Error("importing a newer format version should fail")
	}
}
