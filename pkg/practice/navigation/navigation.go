// Package navigation tracks the user's drill-down position in the practice
// tree as a pure, append-only path of node ids.
//
// Every transition is a total function over valid inputs: invalid requests
// (popping past the root, jumping to an out-of-range ancestor) return the
// input path unchanged. The path drives interactive UI, so the design
// recovers locally instead of surfacing errors for the caller to forget.
package navigation

import "slices"

// Path is the ordered sequence of visited node ids, root first. The last
// element is the current node. A Path is never empty once created with
// [NewPath]; transitions preserve that invariant.
type Path []string

// NewPath creates a path rooted at the given node id.
func NewPath(rootID string) Path {
	return Path{rootID}
}

// Current returns the id at the tail of the path — the node the user is
// drilled into. Returns "" for an empty (zero-value) path.
func (p Path) Current() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Root returns the first id on the path, or "" for an empty path.
func (p Path) Root() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Expand appends targetID to the path, drilling into that node. Expanding
// the node that is already current is a no-op: the gesture means "collapse",
// and the caller should use [Path.Back] for that.
func (p Path) Expand(targetID string) Path {
	if len(p) > 0 && p.Current() == targetID {
		return p
	}
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, targetID)
}

// Back pops the current node off the path. Popping the root is a defensive
// no-op; the path never becomes empty.
func (p Path) Back() Path {
	if len(p) <= 1 {
		return p
	}
	return slices.Clone(p[:len(p)-1])
}

// ToAncestor truncates the path so the ancestor at index becomes current.
// Valid indexes are 0 <= index < len(p)-1; anything else — including the
// current tail itself — is rejected as a no-op rather than clamped.
func (p Path) ToAncestor(index int) Path {
	if index < 0 || index >= len(p)-1 {
		return p
	}
	return slices.Clone(p[:index+1])
}

// IsExpanded reports whether id is the node currently drilled into: it must
// be the tail of the path and the path must be deeper than the root alone.
func (p Path) IsExpanded(id string) bool {
	return len(p) > 1 && p.Current() == id
}

// Contains reports whether id appears anywhere on the path.
func (p Path) Contains(id string) bool {
	return slices.Contains(p, id)
}
