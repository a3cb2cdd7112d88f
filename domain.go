package presolve

import (
	"math"
	"sort"
)

// maxDomainIntervals bounds how many disjoint intervals a Domain is allowed
// to carry before an operation gives up on exact tracking and widens the
// result to its convex hull. Exact interval-set arithmetic is worst-case
// quadratic in interval count; this cap keeps every operation here linear-ish
// in practice while staying exact for the overwhelming majority of domains
// real models produce (few intervals per variable).
const maxDomainIntervals = 64

// Interval is a closed integer interval [Lo, Hi]. Lo must be <= Hi; an
// interval is never empty on its own (an empty Domain is represented by a
// nil/zero-length interval slice, not by a malformed Interval).
type Interval struct {
	Lo, Hi int64
}

// Domain is an ordered union of disjoint closed integer intervals:
// [a1,b1] ... [ak,bk] with a1 <= b1 < a2-1 ... (adjacent and overlapping
// intervals are always merged, so consecutive intervals are separated by at
// least one excluded integer).
type Domain struct {
	intervals []Interval
}

// EmptyDomain returns the domain containing no values.
func EmptyDomain() Domain { return Domain{} }

// FromValue returns the singleton domain {v}.
func FromValue(v int64) Domain { return Domain{intervals: []Interval{{v, v}}} }

// FromInterval returns the domain [lo, hi], or the empty domain if lo > hi.
func FromInterval(lo, hi int64) Domain {
	if lo > hi {
		return EmptyDomain()
	}
	return Domain{intervals: []Interval{{lo, hi}}}
}

// NewDomain builds a Domain from a set of (possibly unsorted, possibly
// overlapping) intervals, normalizing them into the canonical sorted,
// disjoint, merged form.
func NewDomain(intervals ...Interval) Domain {
	return Domain{intervals: normalize(intervals)}
}

func normalize(in []Interval) []Interval {
	filtered := make([]Interval, 0, len(in))
	for _, iv := range in {
		if iv.Lo <= iv.Hi {
			filtered = append(filtered, iv)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Lo < filtered[j].Lo })
	out := make([]Interval, 0, len(filtered))
	cur := filtered[0]
	for _, iv := range filtered[1:] {
		if iv.Lo <= cur.Hi+1 {
			if iv.Hi > cur.Hi {
				cur.Hi = iv.Hi
			}
			continue
		}
		out = append(out, cur)
		cur = iv
	}
	out = append(out, cur)
	return out
}

// Intervals returns the domain's canonical interval list. The returned slice
// must not be mutated by the caller.
func (d Domain) Intervals() []Interval { return d.intervals }

// IsEmpty reports whether the domain contains no values.
func (d Domain) IsEmpty() bool { return len(d.intervals) == 0 }

// IsFixed reports whether the domain contains exactly one value, returning it.
func (d Domain) IsFixed() (int64, bool) {
	if len(d.intervals) == 1 && d.intervals[0].Lo == d.intervals[0].Hi {
		return d.intervals[0].Lo, true
	}
	return 0, false
}

// Min returns the smallest value in the domain. It panics on an empty domain.
func (d Domain) Min() int64 {
	if d.IsEmpty() {
		panic("presolve: Min of empty domain")
	}
	return d.intervals[0].Lo
}

// Max returns the largest value in the domain. It panics on an empty domain.
func (d Domain) Max() int64 {
	if d.IsEmpty() {
		panic("presolve: Max of empty domain")
	}
	return d.intervals[len(d.intervals)-1].Hi
}

// Contains reports whether v is a member of the domain.
func (d Domain) Contains(v int64) bool {
	intervals := d.intervals
	i := sort.Search(len(intervals), func(i int) bool { return intervals[i].Hi >= v })
	return i < len(intervals) && intervals[i].Lo <= v
}

// IsSubsetOf reports whether every value in d is also in other.
func (d Domain) IsSubsetOf(other Domain) bool {
	return d.Intersect(other).equalIntervals(d)
}

func (d Domain) equalIntervals(other Domain) bool {
	if len(d.intervals) != len(other.intervals) {
		return false
	}
	for i, iv := range d.intervals {
		if iv != other.intervals[i] {
			return false
		}
	}
	return true
}

// Equal reports whether d and other contain exactly the same values.
func (d Domain) Equal(other Domain) bool { return d.equalIntervals(other) }

// Intersect returns the intersection of d and other. Intersection never
// increases interval count beyond len(d)+len(other), so no hull fallback is
// needed here.
func (d Domain) Intersect(other Domain) Domain {
	var out []Interval
	i, j := 0, 0
	for i < len(d.intervals) && j < len(other.intervals) {
		a, b := d.intervals[i], other.intervals[j]
		lo := maxI64(a.Lo, b.Lo)
		hi := minI64(a.Hi, b.Hi)
		if lo <= hi {
			out = append(out, Interval{lo, hi})
		}
		if a.Hi < b.Hi {
			i++
		} else {
			j++
		}
	}
	return Domain{intervals: out}
}

// Negation returns the domain of -x for x in d.
func (d Domain) Negation() Domain {
	out := make([]Interval, len(d.intervals))
	n := len(d.intervals)
	for i, iv := range d.intervals {
		out[n-1-i] = Interval{-iv.Hi, -iv.Lo}
	}
	return Domain{intervals: out}
}

// AdditiveOffset returns the domain of x+o for x in d. Bounds saturate at
// the int64 limits instead of wrapping around.
func (d Domain) AdditiveOffset(o int64) Domain {
	out := make([]Interval, len(d.intervals))
	for i, iv := range d.intervals {
		out[i] = Interval{satAddI64(iv.Lo, o), satAddI64(iv.Hi, o)}
	}
	return Domain{intervals: normalize(out)}
}

// satAddI64 returns a+b clamped to [math.MinInt64, math.MaxInt64].
func satAddI64(a, b int64) int64 {
	s := a + b
	if b > 0 && s < a {
		return math.MaxInt64
	}
	if b < 0 && s > a {
		return math.MinInt64
	}
	return s
}

// MulConstant returns the domain of c*x for x in d.
func (d Domain) MulConstant(c int64) Domain {
	if c == 0 {
		if d.IsEmpty() {
			return EmptyDomain()
		}
		return FromValue(0)
	}
	out := make([]Interval, len(d.intervals))
	for i, iv := range d.intervals {
		lo, hi := iv.Lo*c, iv.Hi*c
		if c < 0 {
			lo, hi = hi, lo
		}
		out[i] = Interval{lo, hi}
	}
	if c < 0 {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return Domain{intervals: out}
}

// DivideByConstant returns the domain of x/c for x in d, assuming every
// value of d is an exact multiple of c (the caller's responsibility: this is
// used to undo a GCD factoring, never for general division).
func (d Domain) DivideByConstant(c int64) Domain {
	if c == 0 {
		panic("presolve: DivideByConstant by zero")
	}
	out := make([]Interval, len(d.intervals))
	for i, iv := range d.intervals {
		lo, hi := iv.Lo/c, iv.Hi/c
		if c < 0 {
			lo, hi = hi, lo
		}
		out[i] = Interval{lo, hi}
	}
	if c < 0 {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return Domain{intervals: out}
}

// Add returns the domain of x+y for x in d, y in other (the Minkowski sum of
// the two interval sets). When the exact union would exceed
// maxDomainIntervals, the result widens to its convex hull: [Min(d)+Min(other),
// Max(d)+Max(other)].
func (d Domain) Add(other Domain) Domain {
	if d.IsEmpty() || other.IsEmpty() {
		return EmptyDomain()
	}
	if len(d.intervals)*len(other.intervals) > maxDomainIntervals {
		return FromInterval(d.Min()+other.Min(), d.Max()+other.Max())
	}
	raw := make([]Interval, 0, len(d.intervals)*len(other.intervals))
	for _, a := range d.intervals {
		for _, b := range other.intervals {
			raw = append(raw, Interval{a.Lo + b.Lo, a.Hi + b.Hi})
		}
	}
	merged := normalize(raw)
	if len(merged) > maxDomainIntervals {
		return FromInterval(d.Min()+other.Min(), d.Max()+other.Max())
	}
	return Domain{intervals: merged}
}

// Hull returns the convex hull of d: a single interval spanning Min to Max.
func (d Domain) Hull() Domain {
	if d.IsEmpty() {
		return EmptyDomain()
	}
	return FromInterval(d.Min(), d.Max())
}

// SimplifyUsingImpliedDomain returns a domain equivalent to d for the purpose
// of intersecting with implied: any gap between two consecutive intervals of
// d that implied also entirely excludes can be merged away, since no
// constraint ever needs to rule out values implied already rules out.
func (d Domain) SimplifyUsingImpliedDomain(implied Domain) Domain {
	if len(d.intervals) < 2 {
		return d
	}
	out := make([]Interval, 0, len(d.intervals))
	cur := d.intervals[0]
	for _, next := range d.intervals[1:] {
		gapLo, gapHi := cur.Hi+1, next.Lo-1
		if gapLo > gapHi || implied.Intersect(FromInterval(gapLo, gapHi)).IsEmpty() {
			cur.Hi = next.Hi
			continue
		}
		out = append(out, cur)
		cur = next
	}
	out = append(out, cur)
	return Domain{intervals: out}
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// gcdI64 returns the non-negative greatest common divisor of a and b.
func gcdI64(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
