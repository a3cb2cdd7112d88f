package presolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func diffDomains(t *testing.T, got, want Domain) {
	t.Helper()
	if diff := cmp.Diff(want.Intervals(), got.Intervals(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("domain mismatch (-want +got):\n%s", diff)
	}
}

func TestNewDomainNormalizes(t *testing.T) {
	cases := []struct {
		name string
		in   []Interval
		want []Interval
	}{
		{"already sorted disjoint", []Interval{{0, 1}, {3, 4}}, []Interval{{0, 1}, {3, 4}}},
		{"unsorted", []Interval{{5, 6}, {0, 1}}, []Interval{{0, 1}, {5, 6}}},
		{"overlapping merges", []Interval{{0, 3}, {2, 5}}, []Interval{{0, 5}}},
		{"adjacent merges", []Interval{{0, 1}, {2, 3}}, []Interval{{0, 3}}},
		{"malformed dropped", []Interval{{5, 1}, {0, 2}}, []Interval{{0, 2}}},
		{"empty", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			diffDomains(t, NewDomain(tc.in...), NewDomain(tc.want...))
		})
	}
}

func TestDomainContainsAndFixed(t *testing.T) {
	d := NewDomain(Interval{0, 2}, Interval{10, 10})
	for _, v := range []int64{0, 1, 2, 10} {
		if !d.Contains(v) {
			t.Errorf("Contains(%d) = false, want true", v)
		}
	}
	for _, v := range []int64{-1, 3, 9, 11} {
		if d.Contains(v) {
			t.Errorf("Contains(%d) = true, want false", v)
		}
	}
	if _, ok := FromValue(5).IsFixed(); !ok {
		t.Error("FromValue(5).IsFixed() = false, want true")
	}
	if _, ok := d.IsFixed(); ok {
		t.Error("multi-interval domain reported fixed")
	}
}

func TestDomainIntersect(t *testing.T) {
	a := NewDomain(Interval{0, 10})
	b := NewDomain(Interval{5, 15})
	diffDomains(t, a.Intersect(b), NewDomain(Interval{5, 10}))

	disjoint := NewDomain(Interval{0, 1}).Intersect(NewDomain(Interval{5, 6}))
	if !disjoint.IsEmpty() {
		t.Errorf("disjoint intersection = %v, want empty", disjoint)
	}
}

func TestDomainNegationAndOffset(t *testing.T) {
	d := NewDomain(Interval{-3, -1}, Interval{2, 4})
	diffDomains(t, d.Negation(), NewDomain(Interval{-4, -2}, Interval{1, 3}))
	diffDomains(t, d.AdditiveOffset(10), NewDomain(Interval{7, 9}, Interval{12, 14}))
}

func TestDomainMulAndDivideConstant(t *testing.T) {
	d := NewDomain(Interval{1, 3})
	diffDomains(t, d.MulConstant(2), NewDomain(Interval{2, 6}))
	diffDomains(t, d.MulConstant(-2), NewDomain(Interval{-6, -2}))
	diffDomains(t, d.MulConstant(0), FromValue(0))

	scaled := NewDomain(Interval{4, 12})
	diffDomains(t, scaled.DivideByConstant(4), NewDomain(Interval{1, 3}))
	diffDomains(t, scaled.DivideByConstant(-4), NewDomain(Interval{-3, -1}))
}

func TestDomainAddHullFallback(t *testing.T) {
	var wide []Interval
	for i := int64(0); i < 100; i += 2 {
		wide = append(wide, Interval{i, i})
	}
	d := NewDomain(wide...)
	sum := d.Add(d)
	// Exact Minkowski sum would blow past maxDomainIntervals; expect the
	// hull fallback [Min+Min, Max+Max].
	diffDomains(t, sum, NewDomain(Interval{0, 196}))
}

func TestDomainSimplifyUsingImpliedDomain(t *testing.T) {
	d := NewDomain(Interval{0, 0}, Interval{10, 10})

	// implied allows values in the gap (1..9), so no merge is safe.
	wideImplied := NewDomain(Interval{0, 10})
	diffDomains(t, d.SimplifyUsingImpliedDomain(wideImplied), d)

	// implied excludes the entire gap 1..9: safe to merge into one interval.
	narrowImplied := NewDomain(Interval{0, 0}, Interval{10, 10})
	diffDomains(t, d.SimplifyUsingImpliedDomain(narrowImplied), NewDomain(Interval{0, 10}))
}

func TestDomainIsSubsetOf(t *testing.T) {
	if !NewDomain(Interval{2, 3}).IsSubsetOf(NewDomain(Interval{0, 10})) {
		t.Error("expected subset")
	}
	if NewDomain(Interval{0, 10}).IsSubsetOf(NewDomain(Interval{2, 3})) {
		t.Error("expected non-subset")
	}
}

func TestGcdI64(t *testing.T) {
	cases := []struct {
		a, b, want int64
	}{
		{12, 8, 4},
		{-12, 8, 4},
		{0, 5, 5},
		{0, 0, 0},
		{7, 13, 1},
	}
	for _, tc := range cases {
		if got := gcdI64(tc.a, tc.b); got != tc.want {
			t.Errorf("gcdI64(%d,%d) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
