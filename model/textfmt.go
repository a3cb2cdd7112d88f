package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ParseText parses the line-oriented text format described in spec §10,
// grounded in the same style as a DIMACS CNF reader: 'c'-prefixed comment
// lines may appear anywhere, fields are whitespace-separated integers (or
// floats for the objective's offset/scale), and every malformed line
// produces a specific, named error. Unlike a strict single-pass parser,
// ParseText collects every line error it finds via go-multierror instead of
// stopping at the first one, so a caller fixing up a hand-written fixture
// sees every problem at once.
func ParseText(r io.Reader) (*Model, error) {
	var m Model
	var errs *multierror.Error
	var numVars, numConstraints int
	sawProblemLine := false

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "p":
			if sawProblemLine {
				errs = multierror.Append(errs, lineErr(lineNo, "duplicate problem line"))
				continue
			}
			sawProblemLine = true
			if len(fields) != 4 || fields[1] != "model" {
				errs = multierror.Append(errs, lineErr(lineNo, "malformed problem line %q", line))
				continue
			}
			var err error
			numVars, err = strconv.Atoi(fields[2])
			if err != nil {
				errs = multierror.Append(errs, lineErr(lineNo, "bad var count: %s", err))
			}
			numConstraints, err = strconv.Atoi(fields[3])
			if err != nil {
				errs = multierror.Append(errs, lineErr(lineNo, "bad constraint count: %s", err))
			}
		case "v":
			iv, err := parseIntervals(fields[1:])
			if err != nil {
				errs = multierror.Append(errs, lineErr(lineNo, "variable domain: %s", err))
				continue
			}
			m.Variables = append(m.Variables, Variable{Domain: iv})
		case "lin":
			ct, err := parseLinear(fields[1:])
			if err != nil {
				errs = multierror.Append(errs, lineErr(lineNo, "linear constraint: %s", err))
				continue
			}
			m.Constraints = append(m.Constraints, Constraint{Linear: ct})
		case "bool":
			ct, err := parseBool(fields[1:])
			if err != nil {
				errs = multierror.Append(errs, lineErr(lineNo, "bool constraint: %s", err))
				continue
			}
			m.Constraints = append(m.Constraints, Constraint{Bool: ct})
		case "interval":
			ct, err := parseInterval(fields[1:])
			if err != nil {
				errs = multierror.Append(errs, lineErr(lineNo, "interval constraint: %s", err))
				continue
			}
			m.Constraints = append(m.Constraints, Constraint{Interval: ct})
		case "obj":
			obj, err := parseObjective(fields[1:])
			if err != nil {
				errs = multierror.Append(errs, lineErr(lineNo, "objective: %s", err))
				continue
			}
			m.Objective = obj
		default:
			errs = multierror.Append(errs, lineErr(lineNo, "unrecognized line kind %q", fields[0]))
		}
	}
	if err := s.Err(); err != nil {
		errs = multierror.Append(errs, errors.Wrap(err, "scanning model text"))
	}
	if sawProblemLine {
		if numVars != len(m.Variables) {
			errs = multierror.Append(errs, fmt.Errorf("problem line declares %d vars, found %d", numVars, len(m.Variables)))
		}
		numCt := 0
		for _, c := range m.Constraints {
			_ = c
			numCt++
		}
		if numConstraints != numCt {
			errs = multierror.Append(errs, fmt.Errorf("problem line declares %d constraints, found %d", numConstraints, numCt))
		}
	}
	if errs.ErrorOrNil() != nil {
		return nil, errs.ErrorOrNil()
	}
	return &m, nil
}

func lineErr(lineNo int, format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", lineNo, fmt.Sprintf(format, args...))
}

func parseInts(fields []string) ([]int64, error) {
	out := make([]int64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "field %d (%q)", i, f)
		}
		out[i] = n
	}
	return out, nil
}

func parseIntervals(fields []string) ([]Interval, error) {
	if len(fields)%2 != 0 {
		return nil, errors.New("odd number of interval bounds")
	}
	nums, err := parseInts(fields)
	if err != nil {
		return nil, err
	}
	out := make([]Interval, 0, len(nums)/2)
	for i := 0; i < len(nums); i += 2 {
		out = append(out, Interval{nums[i], nums[i+1]})
	}
	return out, nil
}

// splitEnforcement splits a trailing "e <lit> <lit> ..." section off fields.
func splitEnforcement(fields []string) (rest, enforcement []string) {
	for i, f := range fields {
		if f == "e" {
			return fields[:i], fields[i+1:]
		}
	}
	return fields, nil
}

func parseRefs(fields []string) ([]int32, error) {
	out := make([]int32, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "ref %d (%q)", i, f)
		}
		out[i] = int32(n)
	}
	return out, nil
}

func parseLinear(fields []string) (*LinearConstraint, error) {
	body, enf := splitEnforcement(fields)
	if len(body) < 3 {
		return nil, errors.New("need domain lo/hi and term count")
	}
	domLo, err := strconv.ParseInt(body[0], 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "domain lo")
	}
	domHi, err := strconv.ParseInt(body[1], 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "domain hi")
	}
	n, err := strconv.Atoi(body[2])
	if err != nil {
		return nil, errors.Wrap(err, "term count")
	}
	rest := body[3:]
	if len(rest) != 2*n {
		return nil, fmt.Errorf("expected %d term pairs, got %d fields", n, len(rest))
	}
	vars := make([]int32, n)
	coeffs := make([]int64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseInt(rest[2*i], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "term %d var", i)
		}
		c, err := strconv.ParseInt(rest[2*i+1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "term %d coeff", i)
		}
		vars[i] = int32(v)
		coeffs[i] = c
	}
	enfRefs, err := parseRefs(enf)
	if err != nil {
		return nil, errors.Wrap(err, "enforcement literals")
	}
	return &LinearConstraint{
		Vars:                vars,
		Coeffs:              coeffs,
		Domain:              []Interval{{domLo, domHi}},
		EnforcementLiterals: enfRefs,
	}, nil
}

func parseBool(fields []string) (*BoolConstraint, error) {
	if len(fields) == 0 {
		return nil, errors.New("missing operator")
	}
	var op BoolOp
	switch fields[0] {
	case "and":
		op = BoolAnd
	case "or":
		op = BoolOr
	case "xor":
		op = BoolXor
	default:
		return nil, fmt.Errorf("unknown bool operator %q", fields[0])
	}
	body, enf := splitEnforcement(fields[1:])
	lits, err := parseRefs(body)
	if err != nil {
		return nil, errors.Wrap(err, "literals")
	}
	enfRefs, err := parseRefs(enf)
	if err != nil {
		return nil, errors.Wrap(err, "enforcement literals")
	}
	return &BoolConstraint{Op: op, Literals: lits, EnforcementLiterals: enfRefs}, nil
}

func parseInterval(fields []string) (*IntervalConstraint, error) {
	body, enf := splitEnforcement(fields)
	if len(body) != 3 {
		return nil, errors.New("expected start, size, end")
	}
	refs, err := parseRefs(body)
	if err != nil {
		return nil, errors.Wrap(err, "start/size/end")
	}
	enfRefs, err := parseRefs(enf)
	if err != nil {
		return nil, errors.Wrap(err, "enforcement literals")
	}
	return &IntervalConstraint{Start: refs[0], Size: refs[1], End: refs[2], EnforcementLiterals: enfRefs}, nil
}

func parseObjective(fields []string) (*Objective, error) {
	if len(fields) < 5 {
		return nil, errors.New("need offset, scale, domain lo/hi, term count")
	}
	offset, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, errors.Wrap(err, "offset")
	}
	scale, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, errors.Wrap(err, "scaling factor")
	}
	domLo, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "domain lo")
	}
	domHi, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "domain hi")
	}
	var dom []Interval
	if domLo <= domHi {
		dom = []Interval{{domLo, domHi}}
	}
	n, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, errors.Wrap(err, "term count")
	}
	rest := fields[5:]
	if len(rest) != 2*n {
		return nil, fmt.Errorf("expected %d term pairs, got %d fields", n, len(rest))
	}
	vars := make([]int32, n)
	coeffs := make([]int64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseInt(rest[2*i], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "term %d var", i)
		}
		c, err := strconv.ParseInt(rest[2*i+1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "term %d coeff", i)
		}
		vars[i] = int32(v)
		coeffs[i] = c
	}
	return &Objective{Vars: vars, Coeffs: coeffs, Domain: dom, Offset: offset, ScalingFactor: scale}, nil
}

// WriteText writes m in the format ParseText reads back, in deterministic
// order (variables, then constraints, then the objective).
func WriteText(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "p model %d %d\n", len(m.Variables), len(m.Constraints))
	for _, v := range m.Variables {
		fmt.Fprint(bw, "v")
		for _, iv := range v.Domain {
			fmt.Fprintf(bw, " %d %d", iv.Lo, iv.Hi)
		}
		fmt.Fprint(bw, "\n")
	}
	for _, c := range m.Constraints {
		if err := writeConstraint(bw, c); err != nil {
			return err
		}
	}
	if m.Objective != nil {
		writeObjective(bw, m.Objective)
	}
	return bw.Flush()
}

func writeConstraint(bw *bufio.Writer, c Constraint) error {
	switch {
	case c.Linear != nil:
		lc := c.Linear
		if len(lc.Domain) != 1 {
			return errors.New("text format only supports single-interval constraint domains")
		}
		fmt.Fprintf(bw, "lin %d %d %d", lc.Domain[0].Lo, lc.Domain[0].Hi, len(lc.Vars))
		for i, v := range lc.Vars {
			fmt.Fprintf(bw, " %d %d", v, lc.Coeffs[i])
		}
		writeEnforcement(bw, lc.EnforcementLiterals)
		fmt.Fprint(bw, "\n")
	case c.Bool != nil:
		bc := c.Bool
		fmt.Fprintf(bw, "bool %s", bc.Op)
		for _, l := range bc.Literals {
			fmt.Fprintf(bw, " %d", l)
		}
		writeEnforcement(bw, bc.EnforcementLiterals)
		fmt.Fprint(bw, "\n")
	case c.Interval != nil:
		ic := c.Interval
		fmt.Fprintf(bw, "interval %d %d %d", ic.Start, ic.Size, ic.End)
		writeEnforcement(bw, ic.EnforcementLiterals)
		fmt.Fprint(bw, "\n")
	default:
		return errors.New("empty constraint (no variant set)")
	}
	return nil
}

func writeEnforcement(bw *bufio.Writer, lits []int32) {
	if len(lits) == 0 {
		return
	}
	fmt.Fprint(bw, " e")
	for _, l := range lits {
		fmt.Fprintf(bw, " %d", l)
	}
}

func writeObjective(bw *bufio.Writer, o *Objective) {
	domLo, domHi := int64(1), int64(0) // empty by default
	if len(o.Domain) > 0 {
		domLo, domHi = o.Domain[0].Lo, o.Domain[len(o.Domain)-1].Hi
	}
	fmt.Fprintf(bw, "obj %g %g %d %d %d", o.Offset, o.ScalingFactor, domLo, domHi, len(o.Vars))
	for i, v := range o.Vars {
		fmt.Fprintf(bw, " %d %d", v, o.Coeffs[i])
	}
	fmt.Fprint(bw, "\n")
}
