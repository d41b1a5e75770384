package practice

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingID is returned by [Validate] when a node has an empty id.
	// All practices must have non-empty, stable identifiers.
	ErrMissingID = errors.New("practice node must have an id")

	// ErrNilNode is returned by [Validate] when a nil node appears in a
	// dependency list. The data layer must never emit nil entries.
	ErrNilNode = errors.New("practice node must not be nil")

	// ErrNotFound is returned by [Index.Get] helpers when a practice id
	// is not present in the index.
	ErrNotFound = errors.New("practice not found")
)

// Node is a single practice in the dependency tree. The external data layer
// produces nested trees: Dependencies holds full child nodes, not ids. A
// practice can appear in several subtrees (a shared dependency), so the
// structure is a DAG realized as a tree with duplicate occurrences.
//
// Level and the count fields are derived; they are zero until the node has
// passed through [Flatten] and [EnrichCounts].
type Node struct {
	ID            string  `json:"id" bson:"id"`
	Name          string  `json:"name" bson:"name"`
	Description   string  `json:"description,omitempty" bson:"description,omitempty"`
	Category      string  `json:"category,omitempty" bson:"category,omitempty"`
	MaturityLevel int     `json:"maturityLevel,omitempty" bson:"maturity_level,omitempty"`
	Dependencies  []*Node `json:"dependencies" bson:"dependencies"`

	// Derived by Flatten: depth from the traversal root (root = 0).
	Level int `json:"level,omitempty" bson:"level,omitempty"`

	// Derived by EnrichCounts.
	DirectDependencyCount int `json:"directDependencyCount,omitempty" bson:"direct_dependency_count,omitempty"`
	TotalDependencyCount  int `json:"totalDependencyCount,omitempty" bson:"total_dependency_count,omitempty"`

	// DependencyCount is a legacy alias of DirectDependencyCount kept for
	// consumers of the older API shape.
	DependencyCount int `json:"dependencyCount,omitempty" bson:"dependency_count,omitempty"`
}

// Index is an id→node arena built once per fetch. All downstream processing
// (flatten, counts, filtering, adoption aggregation) runs as graph algorithms
// over the arena with explicit visited sets, never as naive tree walks. This
// keeps shared subtrees counted once and guarantees termination even if a
// cycle sneaks in upstream.
type Index map[string]*Node

// Validate checks the structural integrity of a nested practice tree.
// It fails fast on the first nil node or empty id encountered, wrapping the
// path to the offending node for diagnosis. Validation walks duplicate
// occurrences only once.
func Validate(root *Node) error {
	return validate(root, "", map[string]struct{}{})
}

func validate(n *Node, parent string, seen map[string]struct{}) error {
	if n == nil {
		if parent == "" {
			return ErrNilNode
		}
		return fmt.Errorf("dependency of %q: %w", parent, ErrNilNode)
	}
	if n.ID == "" {
		if parent == "" {
			return ErrMissingID
		}
		return fmt.Errorf("dependency of %q: %w", parent, ErrMissingID)
	}
	if _, ok := seen[n.ID]; ok {
		return nil
	}
	seen[n.ID] = struct{}{}
	for _, dep := range n.Dependencies {
		if err := validate(dep, n.ID, seen); err != nil {
			return err
		}
	}
	return nil
}

// BuildIndex constructs the id→node arena from a nested tree via depth-first
// traversal. A node reachable through multiple paths overwrites the earlier
// entry (last-write-wins); occurrences of the same id are assumed to be
// structurally identical, which is a data-integrity assumption of the source
// model rather than something this package enforces.
//
// BuildIndex returns an error for structurally invalid input (see [Validate]).
func BuildIndex(root *Node) (Index, error) {
	if err := Validate(root); err != nil {
		return nil, err
	}
	idx := make(Index)
	var walk func(n *Node)
	walk = func(n *Node) {
		idx[n.ID] = n
		for _, dep := range n.Dependencies {
			walk(dep)
		}
	}
	walk(root)
	return idx, nil
}

// Get returns the node with the given id, or ErrNotFound.
func (idx Index) Get(id string) (*Node, error) {
	n, ok := idx[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return n, nil
}

// IDs returns all indexed practice ids in unspecified order.
func (idx Index) IDs() []string {
	ids := make([]string, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	return ids
}

// Flatten walks the tree breadth-first and returns every unique practice
// exactly once, annotated with its level (depth from root, root = 0). A node
// reachable through multiple parents is emitted at the level of its first
// encountered occurrence. The input tree is not mutated beyond the Level
// annotation; call Flatten again with the same root and the result is
// identical.
//
// Flatten returns an error for structurally invalid input.
func Flatten(root *Node) ([]*Node, error) {
	if err := Validate(root); err != nil {
		return nil, err
	}

	root.Level = 0
	flat := []*Node{root}
	visited := map[string]struct{}{root.ID: {}}
	queue := []*Node{root}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, dep := range curr.Dependencies {
			if _, ok := visited[dep.ID]; ok {
				continue
			}
			visited[dep.ID] = struct{}{}
			dep.Level = curr.Level + 1
			flat = append(flat, dep)
			queue = append(queue, dep)
		}
	}
	return flat, nil
}

// EnrichCounts computes dependency counts for every node reachable from root:
// DirectDependencyCount is the length of the node's dependency list, and
// TotalDependencyCount is the number of unique descendant ids. Shared
// descendants are counted once per node (visited set per closure) and the
// per-id totals are memoized so a shared subtree's cost is paid once across
// the whole traversal.
//
// The root node itself is returned for chaining. EnrichCounts returns an
// error for structurally invalid input.
func EnrichCounts(root *Node) (*Node, error) {
	if err := Validate(root); err != nil {
		return nil, err
	}

	memo := make(map[string]map[string]struct{})
	var closure func(n *Node) map[string]struct{}
	closure = func(n *Node) map[string]struct{} {
		if ids, ok := memo[n.ID]; ok {
			return ids
		}
		// Reserve the entry before recursing so an accidental cycle
		// terminates instead of looping.
		ids := make(map[string]struct{})
		memo[n.ID] = ids
		for _, dep := range n.Dependencies {
			ids[dep.ID] = struct{}{}
			for id := range closure(dep) {
				ids[id] = struct{}{}
			}
		}
		return ids
	}

	// Visited is keyed by pointer, not id: duplicate occurrences are
	// distinct structs and each needs its count fields populated.
	enriched := make(map[*Node]struct{})
	var walk func(n *Node)
	walk = func(n *Node) {
		if _, ok := enriched[n]; ok {
			return
		}
		enriched[n] = struct{}{}
		n.DirectDependencyCount = len(n.Dependencies)
		n.DependencyCount = n.DirectDependencyCount
		n.TotalDependencyCount = len(closure(n))
		for _, dep := range n.Dependencies {
			walk(dep)
		}
	}
	walk(root)
	return root, nil
}
