package sym

import (
	"fmt"

	"bfsym/internal/errors"
	"bfsym/internal/smt"
)

// ConcreteState is the ground counterpart of a State, produced only by
// solving: byte vectors in place of terms and no path condition.
type ConcreteState struct {
	Mem     []byte
	InsnPtr int
	DataPtr int
	Input   []byte
	Output  []byte
}

// Concretize asks the cache for a model of the state's path condition and
// materializes the state under it. On Unsat or Unknown the outcome is
// returned unchanged and the concrete state is nil.
func (s *State) Concretize(cache *smt.Cache) (*ConcreteState, smt.Outcome) {
	return s.concretize(cache, nil)
}

// ConcretizeWith is Concretize under an extra constraint. The path and the
// constraint are conjoined and submitted as a single expression so the
// cache can dedupe across calls.
func (s *State) ConcretizeWith(cache *smt.Cache, constraint *smt.Term) (*ConcreteState, smt.Outcome) {
	return s.concretize(cache, constraint)
}

func (s *State) concretize(cache *smt.Cache, constraint *smt.Term) (*ConcreteState, smt.Outcome) {
	expr := s.Path
	if constraint != nil {
		expr = s.ctx.And(s.Path, constraint)
	}
	res := cache.Solve(expr)
	if res.Outcome != smt.Sat {
		return nil, res.Outcome
	}
	return s.fromModel(res.Model), smt.Sat
}

// fromModel evaluates every symbolic byte of the state under the model. A
// term that fails to evaluate means the engine asked the model about a
// non-bit-vector, which is a bug, not a solver condition.
func (s *State) fromModel(model *smt.Model) *ConcreteState {
	return &ConcreteState{
		Mem:     evalBytes(model, s.Mem),
		InsnPtr: s.InsnPtr,
		DataPtr: s.DataPtr,
		Input:   evalBytes(model, s.Input),
		Output:  evalBytes(model, s.Output),
	}
}

func evalBytes(model *smt.Model, seq SymBytes) []byte {
	out := make([]byte, len(seq))
	for i, t := range seq {
		v, ok := model.Eval(t)
		if !ok {
			panic(errors.NewLogicError(
				fmt.Sprintf("failed concretizing term %s at index %d", t, i)))
		}
		out[i] = v
	}
	return out
}
