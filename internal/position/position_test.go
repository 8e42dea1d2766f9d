package position

import "testing"

func TestRangeContainsAndOverlaps(t *testing.T) {
	outer := Range{Start: 0, End: 10}
	inner := Range{Start: 2, End: 5}
	disjoint := Range{Start: 20, End: 25}

	if !outer.Contains(inner) {
		t.Fatalf("expected outer to contain inner")
	}
	if outer.Contains(disjoint) {
		t.Fatalf("did not expect outer to contain disjoint")
	}
	if !outer.Overlaps(inner) {
		t.Fatalf("expected overlap")
	}
	if outer.Overlaps(disjoint) {
		t.Fatalf("did not expect overlap with disjoint range")
	}
}

func TestRangeSlice(t *testing.T) {
	src := "const a = 1;"
	r := Range{Start: 6, End: 7}
	if got := r.Slice(src); got != "a" {
		t.Fatalf("Slice() = %q, want %q", got, "a")
	}
	oob := Range{Start: 6, End: 100}
	if got := oob.Slice(src); got != "" {
		t.Fatalf("Slice() out of bounds = %q, want empty", got)
	}
}

func TestUnion(t *testing.T) {
	a := Range{Start: 5, End: 10}
	b := Range{Start: 2, End: 7}
	u := Union(a, b)
	if u.Start != 2 || u.End != 10 {
		t.Fatalf("Union() = %v, want [2,10)", u)
	}
	var zero Range
	if Union(zero, a) != a {
		t.Fatalf("Union with invalid range should return the other range")
	}
}

func TestLocate(t *testing.T) {
	src := "a\nbc\nd"
	lc := Locate(src, 3) // 'c' at index 3
	if lc.Line != 2 || lc.Column != 2 {
		t.Fatalf("Locate() = %+v, want line 2 col 2", lc)
	}
}
