package smt

import "sort"

// Outcome is the result of a satisfiability check.
type Outcome int

const (
	Sat Outcome = iota
	Unsat
	Unknown
)

func (o Outcome) String() string {
	switch o {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	case Unknown:
		return "unknown"
	}
	return "?"
}

// Solver decides satisfiability of asserted boolean terms. The decision
// procedure covers conjunctions of equality and disequality literals over
// affine 8-bit terms; anything outside that fragment checks as Unknown.
type Solver struct {
	ctx     *Context
	asserts []*Term
	model   *Model
}

func NewSolver(ctx *Context) *Solver {
	return &Solver{ctx: ctx}
}

// Assert adds a boolean term to the solver.
func (s *Solver) Assert(t *Term) {
	s.ctx.wantSort(SortBool, t)
	s.asserts = append(s.asserts, t)
}

// Model returns the model found by the last Check that returned Sat, and
// nil otherwise. The model is shared and read-only.
func (s *Solver) Model() *Model {
	return s.model
}

// affine is a linear 8-bit form: k + sum(coeffs[v] * v), everything
// modulo 256.
type affine struct {
	coeffs map[*Term]byte
	k      byte
}

func newAffine() affine {
	return affine{coeffs: make(map[*Term]byte)}
}

func (a affine) clone() affine {
	out := affine{coeffs: make(map[*Term]byte, len(a.coeffs)), k: a.k}
	for v, c := range a.coeffs {
		out.coeffs[v] = c
	}
	return out
}

// addScaled adds scale*other into a, dropping cancelled variables.
func (a *affine) addScaled(other affine, scale byte) {
	a.k += scale * other.k
	for v, c := range other.coeffs {
		sum := a.coeffs[v] + scale*c
		if sum == 0 {
			delete(a.coeffs, v)
		} else {
			a.coeffs[v] = sum
		}
	}
}

// affineOf converts a bit-vector term into affine form.
func affineOf(t *Term) affine {
	a := newAffine()
	var walk func(t *Term, scale byte)
	walk = func(t *Term, scale byte) {
		switch t.kind {
		case KindBVLit:
			a.k += scale * t.value
		case KindBVConst:
			sum := a.coeffs[t] + scale
			if sum == 0 {
				delete(a.coeffs, t)
			} else {
				a.coeffs[t] = sum
			}
		case KindBVAdd:
			walk(t.left, scale)
			walk(t.right, scale)
		case KindBVSub:
			walk(t.left, scale)
			walk(t.right, 0-scale)
		}
	}
	walk(t, 1)
	return a
}

// constraint is a normalized literal: a == 0 when eq, a != 0 otherwise.
type constraint struct {
	a  affine
	eq bool
}

// flatten decomposes the asserted terms into constraints. The second
// return is false when any assert falls outside the supported fragment;
// the third is true when an assert is literally false.
func flatten(asserts []*Term) ([]constraint, bool, bool) {
	var cons []constraint
	var walk func(t *Term) (ok, unsat bool)
	walk = func(t *Term) (bool, bool) {
		switch t.kind {
		case KindBoolLit:
			return true, t.value == 0
		case KindAnd:
			ok, unsat := walk(t.left)
			if !ok || unsat {
				return ok, unsat
			}
			return walk(t.right)
		case KindEq:
			a := affineOf(t.left)
			a.addScaled(affineOf(t.right), 255)
			cons = append(cons, constraint{a: a, eq: true})
			return true, false
		case KindNot:
			inner := t.left
			switch inner.kind {
			case KindEq:
				a := affineOf(inner.left)
				a.addScaled(affineOf(inner.right), 255)
				cons = append(cons, constraint{a: a, eq: false})
				return true, false
			case KindBoolLit:
				return true, inner.value != 0
			}
			return false, false
		}
		return false, false
	}
	for _, t := range asserts {
		ok, unsat := walk(t)
		if !ok {
			return nil, false, false
		}
		if unsat {
			return nil, true, true
		}
	}
	return cons, true, false
}

// binding records an eliminated variable: v = rhs over later variables.
type binding struct {
	v   *Term
	rhs affine
}

// searchBudget bounds the residual backtracking search; exceeding it
// checks as Unknown rather than running unbounded.
const searchBudget = 1 << 20

// Check decides the conjunction of all asserted terms.
func (s *Solver) Check() Outcome {
	s.model = nil

	cons, ok, unsat := flatten(s.asserts)
	if unsat {
		return Unsat
	}
	if !ok {
		return Unknown
	}

	var eqs, diseqs []affine
	for _, c := range cons {
		if c.eq {
			eqs = append(eqs, c.a.clone())
		} else {
			diseqs = append(diseqs, c.a.clone())
		}
	}

	// Eliminate variables with odd coefficients: odd values are invertible
	// modulo 256, so each such equation solves exactly for one variable.
	var bindings []binding
	for {
		idx, v := findOddPivot(eqs)
		if v == nil {
			break
		}
		a := eqs[idx]
		c := a.coeffs[v]
		delete(a.coeffs, v)

		// v = -inv(c) * rest
		rhs := newAffine()
		rhs.addScaled(a, 0-modInverse(c))
		bindings = append(bindings, binding{v: v, rhs: rhs})

		eqs = append(eqs[:idx], eqs[idx+1:]...)
		if out := substitute(eqs, v, rhs); out == Unsat {
			return Unsat
		}
		substitute(diseqs, v, rhs)
	}

	// Remaining equations have only even coefficients; a quick divisibility
	// test catches the definitely-unsatisfiable ones before the search.
	for i := 0; i < len(eqs); i++ {
		a := eqs[i]
		if len(a.coeffs) == 0 {
			if a.k != 0 {
				return Unsat
			}
			eqs = append(eqs[:i], eqs[i+1:]...)
			i--
			continue
		}
		g := 256
		for _, c := range a.coeffs {
			g = gcd(g, int(c))
		}
		if int(a.k)%g != 0 {
			return Unsat
		}
	}

	// Ground disequalities are decided directly.
	for i := 0; i < len(diseqs); i++ {
		if len(diseqs[i].coeffs) == 0 {
			if diseqs[i].k == 0 {
				return Unsat
			}
			diseqs = append(diseqs[:i], diseqs[i+1:]...)
			i--
		}
	}

	assign, outcome := searchResidual(eqs, diseqs)
	if outcome != Sat {
		return outcome
	}

	// Back-substitute eliminated variables, most recent first: each rhs
	// refers only to variables eliminated later or still free.
	vals := make(map[*Term]byte, len(assign)+len(bindings))
	for v, b := range assign {
		vals[v] = b
	}
	for i := len(bindings) - 1; i >= 0; i-- {
		b := bindings[i]
		vals[b.v] = evalAffine(b.rhs, vals)
	}
	s.model = &Model{vals: vals}
	return Sat
}

// findOddPivot locates an equation with an odd-coefficient variable.
func findOddPivot(eqs []affine) (int, *Term) {
	for i, a := range eqs {
		var best *Term
		for v, c := range a.coeffs {
			if c%2 == 1 && (best == nil || v.id < best.id) {
				best = v
			}
		}
		if best != nil {
			return i, best
		}
	}
	return -1, nil
}

// substitute replaces v by rhs in every form. Returns Unsat when an
// equation collapses to a nonzero constant.
func substitute(forms []affine, v *Term, rhs affine) Outcome {
	for i := range forms {
		c, ok := forms[i].coeffs[v]
		if !ok {
			continue
		}
		delete(forms[i].coeffs, v)
		forms[i].addScaled(rhs, c)
	}
	for _, a := range forms {
		if len(a.coeffs) == 0 && a.k != 0 {
			return Unsat
		}
	}
	return Sat
}

// searchResidual enumerates the remaining variables with backtracking,
// checking each constraint as soon as all of its variables are assigned.
func searchResidual(eqs, diseqs []affine) (map[*Term]byte, Outcome) {
	varSet := make(map[*Term]bool)
	for _, a := range eqs {
		for v := range a.coeffs {
			varSet[v] = true
		}
	}
	for _, a := range diseqs {
		for v := range a.coeffs {
			varSet[v] = true
		}
	}
	vars := make([]*Term, 0, len(varSet))
	for v := range varSet {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].id < vars[j].id })

	index := make(map[*Term]int, len(vars))
	for i, v := range vars {
		index[v] = i
	}

	// Group constraints by the highest-indexed variable they mention.
	type residual struct {
		a  affine
		eq bool
	}
	byLevel := make([][]residual, len(vars))
	addAt := func(a affine, eq bool) {
		level := -1
		for v := range a.coeffs {
			if index[v] > level {
				level = index[v]
			}
		}
		byLevel[level] = append(byLevel[level], residual{a: a, eq: eq})
	}
	for _, a := range eqs {
		addAt(a, true)
	}
	for _, a := range diseqs {
		addAt(a, false)
	}

	assign := make(map[*Term]byte)
	nodes := 0
	exceeded := false

	var search func(level int) bool
	search = func(level int) bool {
		if level == len(vars) {
			return true
		}
		for val := 0; val < 256; val++ {
			nodes++
			if nodes > searchBudget {
				exceeded = true
				return false
			}
			assign[vars[level]] = byte(val)
			ok := true
			for _, r := range byLevel[level] {
				zero := evalAffine(r.a, assign) == 0
				if r.eq != zero {
					ok = false
					break
				}
			}
			if ok && search(level+1) {
				return true
			}
			if exceeded {
				return false
			}
		}
		delete(assign, vars[level])
		return false
	}

	if search(0) {
		return assign, Sat
	}
	if exceeded {
		return nil, Unknown
	}
	return nil, Unsat
}

func evalAffine(a affine, vals map[*Term]byte) byte {
	result := a.k
	for v, c := range a.coeffs {
		result += c * vals[v]
	}
	return result
}

// modInverse returns the multiplicative inverse of an odd byte modulo 256.
func modInverse(c byte) byte {
	// Newton iteration doubles the number of correct bits each round.
	inv := c
	for i := 0; i < 3; i++ {
		inv *= 2 - c*inv
	}
	return inv
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
