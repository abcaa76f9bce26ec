package core

import "testing"

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), NewRect(5, 5, 5, 5)},
		{"contained", NewRect(0, 0, 10, 10), NewRect(2, 2, 3, 3), NewRect(2, 2, 3, 3)},
		{"disjoint", NewRect(0, 0, 2, 2), NewRect(5, 5, 2, 2), Rect{}},
		{"touching", NewRect(0, 0, 2, 2), NewRect(2, 0, 2, 2), Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRectInner(t *testing.T) {
	r := NewRect(0, 0, 10, 4).Inner(1)
	if r != NewRect(1, 1, 8, 2) {
		t.Errorf("expected 8x2@(1,1), got %v", r)
	}

	tiny := NewRect(0, 0, 1, 1).Inner(1)
	if !tiny.IsEmpty() {
		t.Errorf("expected empty rect, got %v", tiny)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(2, 3, 4, 5)
	if !r.Contains(2, 3) {
		t.Error("top-left corner should be inside")
	}
	if r.Contains(6, 3) {
		t.Error("right edge is exclusive")
	}
	if r.Contains(2, 8) {
		t.Error("bottom edge is exclusive")
	}
}
