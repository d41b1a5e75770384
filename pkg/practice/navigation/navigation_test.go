package navigation

import (
	"slices"
	"testing"
)

func TestExpand(t *testing.T) {
	p := NewPath("root")

	p2 := p.Expand("ci")
	if !slices.Equal(p2, Path{"root", "ci"}) {
		t.Fatalf("Expand = %v, want [root ci]", p2)
	}
	// Original path untouched.
	if !slices.Equal(p, Path{"root"}) {
		t.Errorf("input path mutated: %v", p)
	}
}

func TestExpandCurrentIsNoop(t *testing.T) {
	p := NewPath("root").Expand("ci")
	if got := p.Expand("ci"); !slices.Equal(got, p) {
		t.Errorf("expanding the current node should be a no-op, got %v", got)
	}
}

func TestBack(t *testing.T) {
	p := NewPath("root").Expand("ci").Expand("tbd")

	p = p.Back()
	if !slices.Equal(p, Path{"root", "ci"}) {
		t.Fatalf("Back = %v, want [root ci]", p)
	}

	p = p.Back()
	p = p.Back() // popping the root: no-op
	if !slices.Equal(p, Path{"root"}) {
		t.Errorf("Back past root = %v, want [root]", p)
	}
}

func TestExpandBackRoundTrip(t *testing.T) {
	p := NewPath("root").Expand("ci")
	if got := p.Expand("tbd").Back(); !slices.Equal(got, p) {
		t.Errorf("Back(Expand(p, x)) = %v, want %v", got, p)
	}
}

func TestToAncestor(t *testing.T) {
	p := NewPath("root").Expand("ci").Expand("tbd").Expand("vcs")

	tests := []struct {
		name  string
		index int
		want  Path
	}{
		{"Root", 0, Path{"root"}},
		{"Middle", 1, Path{"root", "ci"}},
		{"TailRejected", 3, p},
		{"NegativeRejected", -1, p},
		{"OutOfRangeRejected", 10, p},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ToAncestor(tt.index); !slices.Equal(got, tt.want) {
				t.Errorf("ToAncestor(%d) = %v, want %v", tt.index, got, tt.want)
			}
		})
	}
}

func TestIsExpanded(t *testing.T) {
	root := NewPath("root")
	if root.IsExpanded("root") {
		t.Error("root alone is never expanded")
	}

	p := root.Expand("ci")
	if !p.IsExpanded("ci") {
		t.Error("tail of a deep path should report expanded")
	}
	if p.IsExpanded("root") {
		t.Error("non-tail id should not report expanded")
	}
}

func TestCurrentAndRoot(t *testing.T) {
	var empty Path
	if empty.Current() != "" || empty.Root() != "" {
		t.Error("zero-value path should report empty current and root")
	}

	p := NewPath("root").Expand("ci")
	if p.Root() != "root" || p.Current() != "ci" {
		t.Errorf("Root/Current = %s/%s, want root/ci", p.Root(), p.Current())
	}
}
