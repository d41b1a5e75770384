package layout

import (
	"testing"

	"github.com/bdfinst/interactive-cd/pkg/practice"
)

func node(id string, level int) *practice.Node {
	return &practice.Node{ID: id, Level: level}
}

func TestGroupByLevel(t *testing.T) {
	flat := []*practice.Node{
		node("root", 0),
		node("a", 1),
		node("b", 1),
		node("c", 2),
	}
	groups := GroupByLevel(flat)

	if len(groups) != 3 {
		t.Fatalf("levels = %d, want 3", len(groups))
	}
	if len(groups[1]) != 2 {
		t.Errorf("level 1 size = %d, want 2", len(groups[1]))
	}

	total := 0
	for _, nodes := range groups {
		total += len(nodes)
	}
	if total != len(flat) {
		t.Errorf("bucketed %d nodes, want %d", total, len(flat))
	}
}

func TestOptimizeRemovesCrossing(t *testing.T) {
	// Classic X pattern: a→y, b→x crosses until level 1 is reordered.
	a, b := node("a", 0), node("b", 0)
	x, y := node("x", 1), node("y", 1)
	groups := Groups{0: {a, b}, 1: {x, y}}
	edges := []Edge{{From: "a", To: "y"}, {From: "b", To: "x"}}

	got := Barycentric{}.Optimize(groups, edges)

	if got[1][0].ID != "y" || got[1][1].ID != "x" {
		t.Errorf("level 1 order = [%s %s], want [y x]", got[1][0].ID, got[1][1].ID)
	}
}

func TestOptimizePermutationInvariant(t *testing.T) {
	a, b, c := node("a", 0), node("b", 0), node("c", 0)
	x, y, z := node("x", 1), node("y", 1), node("z", 1)
	groups := Groups{0: {a, b, c}, 1: {x, y, z}}
	edges := []Edge{
		{From: "a", To: "z"},
		{From: "b", To: "y"},
		{From: "c", To: "x"},
	}

	for _, passes := range []int{1, 3, 10} {
		got := Barycentric{Passes: passes}.Optimize(groups, edges)
		for level, want := range groups {
			if len(got[level]) != len(want) {
				t.Fatalf("passes=%d level %d size changed: %d != %d", passes, level, len(got[level]), len(want))
			}
			seen := map[string]bool{}
			for _, n := range got[level] {
				seen[n.ID] = true
			}
			for _, n := range want {
				if !seen[n.ID] {
					t.Errorf("passes=%d level %d lost node %s", passes, level, n.ID)
				}
			}
		}
	}
}

func TestOptimizeDeterministic(t *testing.T) {
	build := func() (Groups, []Edge) {
		groups := Groups{
			0: {node("r", 0)},
			1: {node("a", 1), node("b", 1), node("c", 1)},
			2: {node("p", 2), node("q", 2)},
		}
		edges := []Edge{
			{From: "r", To: "a"}, {From: "r", To: "b"}, {From: "r", To: "c"},
			{From: "a", To: "q"}, {From: "c", To: "p"},
		}
		return groups, edges
	}

	g1, e1 := build()
	g2, e2 := build()
	first := Barycentric{}.Optimize(g1, e1)
	second := Barycentric{}.Optimize(g2, e2)

	for _, level := range first.Levels() {
		for i := range first[level] {
			if first[level][i].ID != second[level][i].ID {
				t.Fatalf("level %d position %d differs between identical runs", level, i)
			}
		}
	}
}

func TestOptimizeDoesNotMutateInput(t *testing.T) {
	a, b := node("a", 0), node("b", 0)
	x, y := node("x", 1), node("y", 1)
	groups := Groups{0: {a, b}, 1: {x, y}}
	edges := []Edge{{From: "a", To: "y"}, {From: "b", To: "x"}}

	Barycentric{}.Optimize(groups, edges)

	if groups[1][0].ID != "x" || groups[1][1].ID != "y" {
		t.Error("Optimize mutated its input groups")
	}
}

func TestTotalConnectionLengthImproves(t *testing.T) {
	a, b := node("a", 0), node("b", 0)
	x, y := node("x", 1), node("y", 1)
	groups := Groups{0: {a, b}, 1: {x, y}}
	edges := []Edge{{From: "a", To: "y"}, {From: "b", To: "x"}}

	before := TotalConnectionLength(groups, edges, 100)
	after := TotalConnectionLength(Barycentric{}.Optimize(groups, edges), edges, 100)

	if after > before {
		t.Errorf("optimizer increased total connection length: %.1f > %.1f", after, before)
	}
}

func TestTotalConnectionLengthEmpty(t *testing.T) {
	if got := TotalConnectionLength(Groups{}, nil, 100); got != 0 {
		t.Errorf("empty groups length = %v, want 0", got)
	}
}
