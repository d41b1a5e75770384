// Package layout arranges practice nodes into horizontal levels and orders
// each level to keep dependency connections short and untangled.
//
// The orderer implements the classic Sugiyama barycenter heuristic: each
// node is pulled toward the average position of its neighbors in the
// adjacent level, with alternating top-down and bottom-up sweeps. The
// heuristic offers no crossing-minimum guarantee — it is a local-search
// improvement that runs in milliseconds and is deterministic for identical
// input, which is what an interactive view needs.
package layout

import (
	"maps"
	"math"
	"slices"

	"github.com/bdfinst/interactive-cd/pkg/practice"
)

// DefaultPasses is the default number of refinement passes. Each pass runs
// one downward and one upward sweep.
const DefaultPasses = 3

// Groups maps a hierarchy level to the ordered practices at that level.
// Every node of the flattened tree appears in exactly one bucket; ordering
// within a bucket is the optimizer's output.
type Groups map[int][]*practice.Node

// Edge is a directed parent→child connection between two practice ids,
// derived from the parent's dependency list.
type Edge struct {
	From string
	To   string
}

// GroupByLevel buckets a flattened, level-annotated node list into Groups.
// Order within each bucket follows the flat list.
func GroupByLevel(flat []*practice.Node) Groups {
	groups := make(Groups)
	for _, n := range flat {
		groups[n.Level] = append(groups[n.Level], n)
	}
	return groups
}

// EdgesOf derives the parent→child connection list from each node's
// dependency list. Duplicate occurrences produce duplicate edges; the
// barycenter math tolerates them (they only weight the average).
func EdgesOf(flat []*practice.Node) []Edge {
	var edges []Edge
	for _, n := range flat {
		for _, dep := range n.Dependencies {
			edges = append(edges, Edge{From: n.ID, To: dep.ID})
		}
	}
	return edges
}

// Levels returns the group's level indices in ascending order.
func (g Groups) Levels() []int {
	return slices.Sorted(maps.Keys(g))
}

// Clone returns a copy of the groups with freshly cloned buckets. Node
// pointers are shared; only the ordering containers are new.
func (g Groups) Clone() Groups {
	out := make(Groups, len(g))
	for level, nodes := range g {
		out[level] = slices.Clone(nodes)
	}
	return out
}

// Barycentric orders nodes within each level using the barycenter heuristic
// with alternating sweeps. The zero value is ready to use and runs
// [DefaultPasses] passes.
type Barycentric struct {
	// Passes is the number of down+up refinement passes. Values < 1 fall
	// back to DefaultPasses.
	Passes int
}

// Optimize returns a new Groups whose buckets hold the same nodes in
// improved order. The input is never mutated, and each output bucket is a
// permutation of its input bucket — membership never changes.
//
// Sorting is stable: nodes with equal barycenters keep their prior relative
// order, which makes the result deterministic for identical input ordering
// and connection sets.
func (b Barycentric) Optimize(groups Groups, edges []Edge) Groups {
	passes := b.Passes
	if passes < 1 {
		passes = DefaultPasses
	}

	result := groups.Clone()
	levels := result.Levels()
	if len(levels) < 2 {
		return result
	}

	parents := make(map[string][]string)
	children := make(map[string][]string)
	for _, e := range edges {
		children[e.From] = append(children[e.From], e.To)
		parents[e.To] = append(parents[e.To], e.From)
	}

	for pass := 0; pass < passes; pass++ {
		// Downward sweep: order each level by mean parent position above.
		for i := 1; i < len(levels); i++ {
			sortByBarycenter(result, levels[i], levels[i-1], parents)
		}
		// Upward sweep: order each level by mean child position below.
		for i := len(levels) - 2; i >= 0; i-- {
			sortByBarycenter(result, levels[i], levels[i+1], children)
		}
	}
	return result
}

// sortByBarycenter stable-sorts the bucket at level by the mean position of
// each node's neighbors in the adjacent level. Nodes with no positioned
// neighbor get barycenter 0.
func sortByBarycenter(groups Groups, level, adjacent int, neighbors map[string][]string) {
	adjPos := make(map[string]int, len(groups[adjacent]))
	for i, n := range groups[adjacent] {
		adjPos[n.ID] = i
	}

	bary := make(map[string]float64, len(groups[level]))
	for _, n := range groups[level] {
		sum, count := 0.0, 0
		for _, nb := range neighbors[n.ID] {
			if pos, ok := adjPos[nb]; ok {
				sum += float64(pos)
				count++
			}
		}
		if count > 0 {
			bary[n.ID] = sum / float64(count)
		}
	}

	slices.SortStableFunc(groups[level], func(a, b *practice.Node) int {
		switch {
		case bary[a.ID] < bary[b.ID]:
			return -1
		case bary[a.ID] > bary[b.ID]:
			return 1
		default:
			return 0
		}
	})
}

// TotalConnectionLength sums the Euclidean distance of every dependency
// connection, with each node positioned at (index*cardWidth, level). It is
// a diagnostic metric: the optimizer should not increase it, though a
// strict decrease is not guaranteed.
func TotalConnectionLength(groups Groups, edges []Edge, cardWidth float64) float64 {
	type point struct{ x, y float64 }
	pos := make(map[string]point)
	for level, nodes := range groups {
		for i, n := range nodes {
			pos[n.ID] = point{x: float64(i) * cardWidth, y: float64(level)}
		}
	}

	total := 0.0
	for _, e := range edges {
		from, okF := pos[e.From]
		to, okT := pos[e.To]
		if !okF || !okT {
			continue
		}
		total += math.Hypot(to.x-from.x, to.y-from.y)
	}
	return total
}
