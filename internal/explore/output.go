package explore

import (
	"bfsym/internal/smt"
	"bfsym/internal/sym"
)

// outputVerdict maps a solve outcome for path AND output-prefix equality
// to a classifier verdict. Unknown never prunes: a path the solver cannot
// decide stays alive, it just cannot be the answer.
func outputVerdict(outcome smt.Outcome, symLen, targetLen int) Verdict {
	switch outcome {
	case smt.Sat:
		if symLen == targetLen {
			return VerdictDone
		}
		return VerdictValid
	case smt.Unknown:
		return VerdictValid
	default:
		return VerdictInvalid
	}
}

// outputPrefixEq builds the conjunction of per-position equalities between
// the symbolic output and the target prefix of the same length.
func outputPrefixEq(ctx *smt.Context, output sym.SymBytes, target []byte) *smt.Term {
	eqs := make([]*smt.Term, len(output))
	for i, t := range output {
		eqs[i] = ctx.Eq(t, ctx.BVLit(target[i]))
	}
	return ctx.Conj(eqs...)
}

// ExploreUntilOutput searches for a state whose output is exactly target
// and returns its concretization. A state whose symbolic output is already
// longer than the target can never match and is discarded outright;
// otherwise the path plus the output-prefix equality goes to the solver.
// Because the prefix predicate grows monotonically along a path, repeated
// prefixes hit the constraint cache.
func (g *PathGroup) ExploreUntilOutput(target []byte) (*sym.ConcreteState, bool) {
	return ExploreUntil(g, func(state *sym.State) (Verdict, *sym.ConcreteState) {
		symLen, targetLen := len(state.Output), len(target)
		if symLen > targetLen {
			return VerdictInvalid, nil
		}

		outputEq := outputPrefixEq(g.ctx, state.Output, target)
		concrete, outcome := state.ConcretizeWith(g.cache, outputEq)

		verdict := outputVerdict(outcome, symLen, targetLen)
		if verdict == VerdictDone {
			return VerdictDone, concrete
		}
		return verdict, nil
	})
}
