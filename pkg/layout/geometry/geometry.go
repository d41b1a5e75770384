// Package geometry converts abstract parent/child connections plus measured
// card rectangles into curve descriptors for the rendering layer.
//
// The package is deliberately free of any DOM or window coupling: the
// rendering layer measures its own elements and hands the results in as
// plain [Rect] values. Everything here is a pure function, so identical
// inputs always produce identical descriptors.
package geometry

import "fmt"

// Kind classifies a connection for styling purposes.
type Kind string

const (
	KindAncestor   Kind = "ancestor"
	KindDependency Kind = "dependency"
	KindSelected   Kind = "selected"
	KindTree       Kind = "tree"
)

// Rect is a measured bounding box in viewport coordinates, as supplied by
// the rendering layer.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BottomCenter returns the anchor point on the lower edge of the rect.
func (r Rect) BottomCenter() (x, y float64) {
	return r.X + r.Width/2, r.Y + r.Height
}

// TopCenter returns the anchor point on the upper edge of the rect.
func (r Rect) TopCenter() (x, y float64) {
	return r.X + r.Width/2, r.Y
}

// Point is a viewport coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Connection describes one rendered edge between two practice cards. The
// geometry fields are derived, never authoritative: they are recomputed
// whenever the rendering layer reports new rects.
type Connection struct {
	FromID string `json:"fromId"`
	ToID   string `json:"toId"`
	From   Point  `json:"fromPosition"`
	To     Point  `json:"toPosition"`
	Kind   Kind   `json:"kind"`
	Path   string `json:"path"`
}

// Pair is an abstract edge to be measured: parent FromID connects down to
// child ToID with the given styling kind.
type Pair struct {
	FromID string
	ToID   string
	Kind   Kind
}

// CurvePath returns an SVG cubic path between two points with
// vertical-biased control points, so connections leave the bottom of one
// card and enter the top of the next in a smooth S shape. Pure function:
// identical inputs yield an identical descriptor string.
func CurvePath(x1, y1, x2, y2 float64) string {
	midY := (y1 + y2) / 2
	return fmt.Sprintf("M %.2f %.2f C %.2f %.2f, %.2f %.2f, %.2f %.2f",
		x1, y1, x1, midY, x2, midY, x2, y2)
}

// BuildConnections resolves each pair against the measured rects and emits
// connection descriptors anchored bottom-center → top-center. Pairs whose
// endpoints have no measured rect — cards not yet mounted — are skipped for
// this recompute; the next trigger self-corrects once the layer has
// measured them.
func BuildConnections(pairs []Pair, rects map[string]Rect) []Connection {
	conns := make([]Connection, 0, len(pairs))
	for _, p := range pairs {
		from, okF := rects[p.FromID]
		to, okT := rects[p.ToID]
		if !okF || !okT {
			continue
		}
		x1, y1 := from.BottomCenter()
		x2, y2 := to.TopCenter()
		conns = append(conns, Connection{
			FromID: p.FromID,
			ToID:   p.ToID,
			From:   Point{X: x1, Y: y1},
			To:     Point{X: x2, Y: y2},
			Kind:   p.Kind,
			Path:   CurvePath(x1, y1, x2, y2),
		})
	}
	return conns
}
