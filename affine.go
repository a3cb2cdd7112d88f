package presolve

// This file implements the two union-find repositories from spec §4.3:
// AffineRelations (general x = c*y + o) and VarEquivRelations (restricted to
// c in {-1,+1}, o = 0). Both use path compression, the same shape as the
// disjoint-set in the retrieved pack's prim_kruskal/kruskal.go (parent/rank
// arrays, iterative find with path compression) generalized to carry a
// composable affine transform on every edge instead of a bare "same set"
// fact. A rank is kept per root but does not steer merges: AddRelation puts
// x's root under y's root unless preferRoot picks x's root.

// AffineRelations tracks facts of the form x = c*y + o across all variables.
// Find(v) returns (root, c, o) such that v = c*root + o, with c != 0.
type AffineRelations struct {
	parent    []Var
	coeff     []int64
	offset    []int64
	rank      []int8
	classSize []int32
}

func newAffineRelations() *AffineRelations {
	return &AffineRelations{}
}

func (u *AffineRelations) growTo(n int) {
	for len(u.parent) < n {
		v := Var(len(u.parent))
		u.parent = append(u.parent, v)
		u.coeff = append(u.coeff, 1)
		u.offset = append(u.offset, 0)
		u.rank = append(u.rank, 0)
		u.classSize = append(u.classSize, 1)
	}
}

// IsRepresentativeOfNontrivialClass reports whether v is currently the root
// of its equivalence class and that class has more than one member, per
// spec §4.3's representative-removal guard.
func (u *AffineRelations) IsRepresentativeOfNontrivialClass(v Var) bool {
	root, _, _ := u.Find(v)
	return root == v && u.classSize[root] > 1
}

// Find returns (root, c, o) such that v = c*root + o.
func (u *AffineRelations) Find(v Var) (root Var, coeff, offset int64) {
	u.growTo(int(v) + 1)
	if u.parent[v] == v {
		return v, 1, 0
	}
	root, c, o := u.Find(u.parent[v])
	// v = coeff[v]*parent[v] + offset[v], and parent[v] = c*root + o, so
	// v = coeff[v]*c*root + (coeff[v]*o + offset[v]).
	newCoeff := u.coeff[v] * c
	newOffset := u.coeff[v]*o + u.offset[v]
	u.parent[v] = root
	u.coeff[v] = newCoeff
	u.offset[v] = newOffset
	return root, newCoeff, newOffset
}

// AddRelation records x = c*y + o (c != 0). It returns false if x and y were
// already in the same equivalence class (no new fact was merged). preferRoot
// is consulted to decide which side becomes the new representative whenever
// the merge is invertible both ways (which only ever happens when the
// composed coefficient is +-1); it should report whether a variable is
// preferable as a class representative (e.g. because it is already usable as
// a literal), per spec §4.3's representative-selection rule.
func (u *AffineRelations) AddRelation(x, y Var, c, o int64, preferRoot func(a, b Var) bool) bool {
	if c == 0 {
		panic("presolve: AddRelation called with zero coefficient")
	}
	rx, cx, ox := u.Find(x) // x = cx*rx + ox
	ry, cy, oy := u.Find(y) // y = cy*ry + oy
	if rx == ry {
		return false
	}
	// x = c*y+o = c*(cy*ry+oy)+o = (c*cy)*ry + (c*oy+o)
	// cx*rx+ox = (c*cy)*ry + (c*oy+o)
	// rx = ((c*cy)/cx)*ry + ((c*oy+o-ox)/cx)
	num := c * cy
	off := c*oy + o - ox
	if num%cx != 0 || off%cx != 0 {
		panic("presolve: affine relation is not exactly representable (non-divisible composition)")
	}
	a := num / cx // rx = a*ry + b
	b := off / cx

	if absI64(a) == 1 && preferRoot(rx, ry) && !preferRoot(ry, rx) {
		// Make rx the representative: ry = (1/a)*rx - b/a = a*rx - a*b,
		// since 1/a == a when a == +-1.
		u.parent[ry] = rx
		u.coeff[ry] = a
		u.offset[ry] = -a * b
		u.bumpRank(rx, ry)
		u.classSize[rx] += u.classSize[ry]
		return true
	}
	u.parent[rx] = ry
	u.coeff[rx] = a
	u.offset[rx] = b
	u.bumpRank(ry, rx)
	u.classSize[ry] += u.classSize[rx]
	return true
}

func (u *AffineRelations) bumpRank(newRoot, absorbed Var) {
	if u.rank[newRoot] <= u.rank[absorbed] {
		u.rank[newRoot] = u.rank[absorbed] + 1
	}
}

func absI64(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

// VarEquivRelations tracks facts of the form x = s*y where s is +1 or -1.
// Find(v) returns (root, sign) such that v = sign*root.
type VarEquivRelations struct {
	parent []Var
	sign   []int8
	rank   []int8
}

func newVarEquivRelations() *VarEquivRelations {
	return &VarEquivRelations{}
}

func (u *VarEquivRelations) growTo(n int) {
	for len(u.parent) < n {
		v := Var(len(u.parent))
		u.parent = append(u.parent, v)
		u.sign = append(u.sign, 1)
		u.rank = append(u.rank, 0)
	}
}

// Find returns (root, sign) such that v = sign*root.
func (u *VarEquivRelations) Find(v Var) (root Var, sign int8) {
	return u.find(v)
}

func (u *VarEquivRelations) find(v Var) (Var, int8) {
	u.growTo(int(v) + 1)
	if u.parent[v] == v {
		return v, 1
	}
	root, parentSign := u.find(u.parent[v])
	newSign := u.sign[v] * parentSign
	u.parent[v] = root
	u.sign[v] = newSign
	return root, newSign
}

// AddRelation records x = sign*y (sign in {-1,+1}). Returns false if x and y
// were already equivalent.
func (u *VarEquivRelations) AddRelation(x, y Var, sign int8, preferRoot func(a, b Var) bool) bool {
	rx, sx := u.find(x) // x = sx*rx
	ry, sy := u.find(y) // y = sy*ry
	if rx == ry {
		return false
	}
	// x = sign*y = sign*sy*ry, and x = sx*rx, so rx = (sign*sy/sx)*ry.
	relSign := sign * sy * sx // sx,sy,sign all +-1, so sx == 1/sx
	if preferRoot(rx, ry) && !preferRoot(ry, rx) {
		u.parent[ry] = rx
		u.sign[ry] = relSign
		u.bumpRank(rx, ry)
		return true
	}
	u.parent[rx] = ry
	u.sign[rx] = relSign
	u.bumpRank(ry, rx)
	return true
}

func (u *VarEquivRelations) bumpRank(newRoot, absorbed Var) {
	if u.rank[newRoot] <= u.rank[absorbed] {
		u.rank[newRoot] = u.rank[absorbed] + 1
	}
}
