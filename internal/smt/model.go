package smt

// Model is a satisfying assignment produced by a solver. Models are shared
// handles: the cache hands the same model to every caller, and callers
// only evaluate terms against it, so sharing is safe.
type Model struct {
	vals map[*Term]byte
}

// Eval evaluates a bit-vector term under the model. Variables the solver
// never constrained evaluate to zero. The second return is false when the
// term is not of bit-vector sort.
func (m *Model) Eval(t *Term) (byte, bool) {
	switch t.kind {
	case KindBVLit:
		return t.value, true
	case KindBVConst:
		return m.vals[t], true
	case KindBVAdd:
		a, ok := m.Eval(t.left)
		if !ok {
			return 0, false
		}
		b, ok := m.Eval(t.right)
		if !ok {
			return 0, false
		}
		return a + b, true
	case KindBVSub:
		a, ok := m.Eval(t.left)
		if !ok {
			return 0, false
		}
		b, ok := m.Eval(t.right)
		if !ok {
			return 0, false
		}
		return a - b, true
	}
	return 0, false
}
