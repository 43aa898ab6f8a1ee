// Package sym implements the symbolic machine state and its single-step
// transition. States are immutable value snapshots: every "mutation"
// allocates a new state sharing unchanged sub-structure, and structural
// equality over all fields is the identity used for deduplication.
package sym

import (
	"fmt"
	"strconv"
	"strings"

	"bfsym/internal/errors"
	"bfsym/internal/program"
	"bfsym/internal/smt"
)

// SymBytes is an ordered sequence of 8-bit bit-vector terms. It backs the
// tape, the input stream and the output stream.
type SymBytes []*smt.Term

// push returns a fresh sequence with t appended; the receiver is unchanged.
func (b SymBytes) push(t *smt.Term) SymBytes {
	out := make(SymBytes, len(b)+1)
	copy(out, b)
	out[len(b)] = t
	return out
}

// State is a symbolic snapshot of one execution path.
type State struct {
	// Prog is the shared program; never mutated.
	Prog *program.Program

	// Mem is the symbolic tape. Its length is fixed at entry construction.
	Mem SymBytes

	// InsnPtr indexes Prog; len(Prog) denotes termination.
	InsnPtr int

	// DataPtr indexes Mem; both pointer moves wrap modulo len(Mem).
	DataPtr int

	// Input and Output are the symbolic I/O streams, grown one term per
	// input or output opcode executed.
	Input  SymBytes
	Output SymBytes

	// Path is the conjunction of every branch predicate chosen on the way
	// from the entry state to this state.
	Path *smt.Term

	ctx *smt.Context
	key string
}

// MakeEntry builds the initial state: zeroed tape, both pointers at zero,
// empty streams, true path condition.
func MakeEntry(ctx *smt.Context, prog *program.Program, memSize int) *State {
	if memSize <= 0 {
		panic(errors.NewLogicError(fmt.Sprintf("invalid tape size %d", memSize)))
	}
	mem := make(SymBytes, memSize)
	zero := ctx.BVLit(0)
	for i := range mem {
		mem[i] = zero
	}
	return &State{
		Prog: prog,
		Mem:  mem,
		Path: ctx.Bool(true),
		ctx:  ctx,
	}
}

// Ctx returns the term context this state was built in.
func (s *State) Ctx() *smt.Context { return s.ctx }

// Exited reports whether the state has run off the end of the program.
func (s *State) Exited() bool {
	return s.InsnPtr == s.Prog.Len()
}

// Step returns the successor states of one instruction: none for a
// terminated state, two for a jump (taken branch first), one otherwise.
// The transition never consults the solver.
func (s *State) Step() []*State {
	if s.Exited() {
		return nil
	}
	op := s.Prog.Ops[s.InsnPtr]
	switch op.Kind {
	case program.OpRight:
		return []*State{s.opRight()}
	case program.OpLeft:
		return []*State{s.opLeft()}
	case program.OpInc:
		return []*State{s.opIncDec(true)}
	case program.OpDec:
		return []*State{s.opIncDec(false)}
	case program.OpOut:
		return []*State{s.opOut()}
	case program.OpIn:
		return []*State{s.opIn()}
	case program.OpJmpIfZero:
		return s.opJmp(op.Target, true)
	case program.OpJmpIfNonZero:
		return s.opJmp(op.Target, false)
	}
	panic(errors.NewLogicError(fmt.Sprintf("unknown opcode %d at %d", op.Kind, s.InsnPtr)))
}

// clone copies the snapshot; slices stay shared until a field is replaced.
func (s *State) clone() *State {
	out := *s
	out.key = ""
	return &out
}

func (s *State) cell() *smt.Term {
	return s.Mem[s.DataPtr]
}

// setCell replaces the cell under the data pointer, simplifying the stored
// term first.
func (s *State) setCell(val *smt.Term) *State {
	val = s.ctx.Simplify(val)
	mem := make(SymBytes, len(s.Mem))
	copy(mem, s.Mem)
	mem[s.DataPtr] = val
	out := s.clone()
	out.Mem = mem
	return out
}

func (s *State) incInsnPtr() *State {
	out := s.clone()
	out.InsnPtr = s.InsnPtr + 1
	return out
}

func (s *State) opRight() *State {
	out := s.incInsnPtr()
	out.DataPtr = (s.DataPtr + 1) % len(s.Mem)
	return out
}

func (s *State) opLeft() *State {
	out := s.incInsnPtr()
	out.DataPtr = (s.DataPtr + len(s.Mem) - 1) % len(s.Mem)
	return out
}

func (s *State) opIncDec(inc bool) *State {
	one := s.ctx.BVLit(1)
	var val *smt.Term
	if inc {
		val = s.ctx.Add(s.cell(), one)
	} else {
		val = s.ctx.Sub(s.cell(), one)
	}
	return s.setCell(val).incInsnPtr()
}

func (s *State) opOut() *State {
	out := s.incInsnPtr()
	out.Output = s.Output.push(s.cell())
	return out
}

// opIn allocates a fresh uninterpreted input byte, named input[k] with k
// the prior input length, appends it to the input stream and writes it
// into the current cell.
func (s *State) opIn() *State {
	val := s.ctx.BVConst(fmt.Sprintf("input[%d]", len(s.Input)))
	out := s.setCell(val).incInsnPtr()
	out.Input = s.Input.push(val)
	return out
}

func (s *State) opJmp(target int, ifZero bool) []*State {
	cellEqZero := s.ctx.Eq(s.cell(), s.ctx.BVLit(0))
	cellNotEqZero := s.ctx.Not(cellEqZero)

	zeroPath := s.ctx.Simplify(s.ctx.And(s.Path, cellEqZero))
	nonZeroPath := s.ctx.Simplify(s.ctx.And(s.Path, cellNotEqZero))

	takenPath, notTakenPath := zeroPath, nonZeroPath
	if !ifZero {
		takenPath, notTakenPath = nonZeroPath, zeroPath
	}

	taken := s.clone()
	taken.InsnPtr = target
	taken.Path = takenPath

	notTaken := s.incInsnPtr()
	notTaken.Path = notTakenPath

	return []*State{taken, notTaken}
}

// Key returns the structural identity of the state, suitable for use as a
// map key. Two states have equal keys exactly when every field except the
// shared program, the path condition included, is structurally equal.
func (s *State) Key() string {
	if s.key != "" {
		return s.key
	}
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(s.InsnPtr))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(s.DataPtr))
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatUint(s.Path.ID(), 16))
	for _, seq := range []SymBytes{s.Mem, s.Input, s.Output} {
		sb.WriteByte('|')
		for _, t := range seq {
			sb.WriteString(strconv.FormatUint(t.ID(), 16))
			sb.WriteByte(',')
		}
	}
	s.key = sb.String()
	return s.key
}

// Equal reports structural equality of two states.
func (s *State) Equal(o *State) bool {
	return s.Prog == o.Prog && s.Key() == o.Key()
}
