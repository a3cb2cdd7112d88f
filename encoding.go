package presolve

// varValue is the key type for the encoding table: a (variable, value) pair.
type varValue struct {
	V   Var
	Val int64
}

// EncodingTable implements spec §4.4: a full encoding map from
// (variable, value) to an equivalent literal, plus the two half-encoding
// maps that record one-way implications waiting to be promoted to a full
// encoding. Entries are append-only, matching the model's lifecycle rule
// that encodings, once recorded, are never retracted.
type EncodingTable struct {
	full    map[varValue]Ref
	eqHalf  map[varValue][]Ref
	neqHalf map[varValue][]Ref
}

func newEncodingTable() *EncodingTable {
	return &EncodingTable{
		full:    make(map[varValue]Ref),
		eqHalf:  make(map[varValue][]Ref),
		neqHalf: make(map[varValue][]Ref),
	}
}

// Get returns the literal recorded for (v, val), if any.
func (e *EncodingTable) Get(v Var, val int64) (Ref, bool) {
	r, ok := e.full[varValue{v, val}]
	return r, ok
}

// Set records (v, val) -> lit. Callers are responsible for merging literals
// when a key is already present with a different value (spec §4.4's
// insert_var_value_encoding rule); Set itself just overwrites.
func (e *EncodingTable) Set(v Var, val int64, lit Ref) {
	e.full[varValue{v, val}] = lit
}

// EqHalf returns the literals recorded as implying v == val.
func (e *EncodingTable) EqHalf(v Var, val int64) []Ref {
	return e.eqHalf[varValue{v, val}]
}

// NeqHalf returns the literals recorded as implying v != val.
func (e *EncodingTable) NeqHalf(v Var, val int64) []Ref {
	return e.neqHalf[varValue{v, val}]
}

// AddEqHalf records that lit implies v == val.
func (e *EncodingTable) AddEqHalf(v Var, val int64, lit Ref) {
	key := varValue{v, val}
	e.eqHalf[key] = append(e.eqHalf[key], lit)
}

// AddNeqHalf records that lit implies v != val.
func (e *EncodingTable) AddNeqHalf(v Var, val int64, lit Ref) {
	key := varValue{v, val}
	e.neqHalf[key] = append(e.neqHalf[key], lit)
}
