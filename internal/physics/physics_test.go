package physics

import (
	"math"
	"sort"
	"testing"
)

func TestPointInSquareEdgesInclusive(t *testing.T) {
	tests := []struct {
		px, py float64
		want   bool
	}{
		{10, 10, true},
		{90, 90, true},
		{50, 50, true},
		{9.99, 50, false},
		{50, 90.01, false},
	}
	for _, tt := range tests {
		if got := PointInSquare(tt.px, tt.py, 10, 10, 80); got != tt.want {
			t.Errorf("PointInSquare(%v, %v) = %v, want %v", tt.px, tt.py, got, tt.want)
		}
	}
}

func TestSquaresOverlap(t *testing.T) {
	if !SquaresOverlap(0, 0, 79, 0, 80) {
		t.Fatal("squares 79 apart should overlap")
	}
	if SquaresOverlap(0, 0, 80, 0, 80) {
		t.Fatal("touching squares should not overlap")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(25, -20, 20); got != 20 {
		t.Fatalf("Clamp(25) = %v, want 20", got)
	}
	if got := Clamp(-25, -20, 20); got != -20 {
		t.Fatalf("Clamp(-25) = %v, want -20", got)
	}
	if got := Clamp(5, 10, 0); got != 10 {
		t.Fatalf("inverted range: got %v, want lo", got)
	}
}

func TestRotation(t *testing.T) {
	if got := Rotation(1, 0); math.Abs(got-90) > 1e-9 {
		t.Fatalf("Rotation(+x) = %v, want 90", got)
	}
	if got := Rotation(0, -1); math.Abs(got) > 1e-9 {
		t.Fatalf("Rotation(up) = %v, want 0", got)
	}
	vx, vy := Velocity(90, 2)
	if math.Abs(vx) > 1e-9 || math.Abs(vy-2) > 1e-9 {
		t.Fatalf("Velocity(90, 2) = (%v, %v), want (0, 2)", vx, vy)
	}
}

func TestSpatialGridQueryAround(t *testing.T) {
	g := NewSpatialGrid(0, 80, 1000, 600, 80)
	g.Insert(10, 90, 0)
	g.Insert(100, 100, 1)
	g.Insert(900, 600, 2)

	var found []int
	g.QueryAround(50, 120, func(i int) bool {
		found = append(found, i)
		return false
	})
	sort.Ints(found)
	if len(found) != 2 || found[0] != 0 || found[1] != 1 {
		t.Fatalf("found %v, want [0 1]", found)
	}

	g.Clear()
	g.QueryAround(50, 120, func(i int) bool {
		t.Fatalf("unexpected item %d after Clear", i)
		return true
	})
}

func TestSpatialGridNoWrap(t *testing.T) {
	g := NewSpatialGrid(0, 0, 800, 800, 80)
	g.Insert(790, 10, 7)
	g.QueryAround(5, 10, func(i int) bool {
		t.Fatalf("item %d on the far edge reported as neighbor", i)
		return true
	})
	if !g.Covers(0, 0, 800, 800, 80) {
		t.Fatal("Covers() = false for the construction rectangle")
	}
}
