package adoption

import (
	"math"

	"github.com/bdfinst/interactive-cd/pkg/practice"
)

// DependencyStats holds adopted/total counts over one node's transitive
// dependency closure.
type DependencyStats struct {
	AdoptedCount int `json:"adoptedCount"`
	TotalCount   int `json:"totalCount"`
}

// Progress summarizes adoption across the whole practice catalog.
type Progress struct {
	Total      int `json:"total"`
	Adopted    int `json:"adopted"`
	Percentage int `json:"percentage"`
}

// DependencyStatsFor walks node's transitive dependency closure through the
// index and counts how many unique descendants are adopted. The visited set
// is keyed by id, so a dependency shared between subtrees is counted once
// and an accidental cycle terminates instead of spinning.
func DependencyStatsFor(node *practice.Node, adopted *Set, idx practice.Index) DependencyStats {
	if node == nil {
		return DependencyStats{}
	}

	visited := map[string]struct{}{node.ID: {}}
	stats := DependencyStats{}

	var walk func(n *practice.Node)
	walk = func(n *practice.Node) {
		for _, dep := range n.Dependencies {
			if _, ok := visited[dep.ID]; ok {
				continue
			}
			visited[dep.ID] = struct{}{}
			stats.TotalCount++
			if adopted.Has(dep.ID) {
				stats.AdoptedCount++
			}
			// Prefer the indexed reference: the arena holds the
			// authoritative occurrence of each id.
			next := dep
			if indexed, ok := idx[dep.ID]; ok {
				next = indexed
			}
			walk(next)
		}
	}
	walk(node)
	return stats
}

// Percentage folds the node's own adoption state into its dependency stats:
// floor((adopted + self) / (total + 1) * 100). The +1 counts the node
// itself, so a leaf practice reads 0% or 100% on its own merits.
func (s DependencyStats) Percentage(nodeAdopted bool) int {
	self := 0
	if nodeAdopted {
		self = 1
	}
	return int(math.Floor(float64(s.AdoptedCount+self) / float64(s.TotalCount+1) * 100))
}

// NextRecommendation picks the practice to adopt next: among nodes not yet
// adopted whose direct dependencies are all adopted (an empty dependency
// list trivially qualifies), the one with the lowest maturity level, ties
// broken by ascending id. Returns nil when nothing qualifies — either
// everything is adopted or every remaining practice is blocked by an
// unadopted dependency, both valid terminal states.
func NextRecommendation(idx practice.Index, adopted *Set) *practice.Node {
	var best *practice.Node
	for _, n := range idx {
		if adopted.Has(n.ID) {
			continue
		}
		ready := true
		for _, dep := range n.Dependencies {
			if !adopted.Has(dep.ID) {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}
		if best == nil ||
			n.MaturityLevel < best.MaturityLevel ||
			(n.MaturityLevel == best.MaturityLevel && n.ID < best.ID) {
			best = n
		}
	}
	return best
}

// ProgressOf computes catalog-wide adoption progress. Percentage is rounded
// and reports 0 for an empty catalog rather than dividing by zero.
func ProgressOf(idx practice.Index, adopted *Set) Progress {
	p := Progress{Total: len(idx)}
	for id := range idx {
		if adopted.Has(id) {
			p.Adopted++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Adopted) / float64(p.Total) * 100))
	}
	return p
}
