package core

import (
	"math"
	"testing"
)

func TestVec2Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec2
		want Vec2
	}{
		{"zero", V(0, 0), V(0, 0)},
		{"axis", V(5, 0), V(1, 0)},
		{"diagonal", V(1, 1), V(math.Sqrt2/2, math.Sqrt2/2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if math.Abs(got.X-tc.want.X) > 1e-9 || math.Abs(got.Y-tc.want.Y) > 1e-9 {
				t.Errorf("Normalize(%v) = %v, expected %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestVec2Arithmetic(t *testing.T) {
	a, b := V(3, 4), V(1, 2)
	if got := a.Add(b); got != V(4, 6) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != V(2, 2) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != V(6, 8) {
		t.Errorf("Scale = %v", got)
	}
	if a.Len() != 5 {
		t.Errorf("Len = %f, expected 5", a.Len())
	}
	if V(0, 0).Dist(a) != 5 {
		t.Errorf("Dist = %f, expected 5", V(0, 0).Dist(a))
	}
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf([]Vec2{V(1, 5), V(-2, 3), V(4, -1)})
	want := Bounds{MinX: -2, MinY: -1, MaxX: 4, MaxY: 5}
	if b != want {
		t.Errorf("BoundsOf = %+v, expected %+v", b, want)
	}
	if b.Width() != 6 || b.Height() != 6 {
		t.Errorf("size = %fx%f, expected 6x6", b.Width(), b.Height())
	}
	if (BoundsOf(nil) != Bounds{}) {
		t.Error("BoundsOf(nil) should be zero")
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
		{3, 10, 0, 5}, // inverted range collapses to midpoint
	}

	for _, tc := range tests {
		if got := ClampF(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestSignLerp(t *testing.T) {
	if Sign(-3) != -1 || Sign(0) != 0 || Sign(2) != 1 {
		t.Error("Sign returned wrong values")
	}
	if Lerp(10, 20, 0.25) != 12.5 {
		t.Errorf("Lerp = %f, expected 12.5", Lerp(10, 20, 0.25))
	}
}
