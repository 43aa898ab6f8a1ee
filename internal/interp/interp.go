// Package interp is the concrete reference interpreter: the same machine
// the symbolic engine models, run on real bytes. The CLI uses it to verify
// that a discovered input actually reproduces the target output.
package interp

import (
	"fmt"

	"bfsym/internal/errors"
	"bfsym/internal/program"
)

// Result is the machine state after a concrete run.
type Result struct {
	Mem      []byte
	InsnPtr  int
	DataPtr  int
	Consumed int // input bytes read
	Output   []byte
	Steps    int
}

// Run executes prog on the given input bytes with a zeroed tape of
// memSize cells. Both pointer moves wrap modulo the tape length. The run
// stops when the program terminates; exceeding maxSteps or reading past
// the end of input is an error.
func Run(prog *program.Program, input []byte, memSize, maxSteps int) (*Result, error) {
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	if memSize <= 0 {
		return nil, errors.NewRuntimeError(fmt.Sprintf("invalid tape size %d", memSize))
	}

	mem := make([]byte, memSize)
	res := &Result{Mem: mem}

	for res.InsnPtr < prog.Len() {
		if res.Steps >= maxSteps {
			return nil, errors.NewRuntimeError(
				fmt.Sprintf("step limit %d exceeded at opcode %d", maxSteps, res.InsnPtr))
		}
		res.Steps++

		op := prog.Ops[res.InsnPtr]
		switch op.Kind {
		case program.OpRight:
			res.DataPtr = (res.DataPtr + 1) % memSize
			res.InsnPtr++
		case program.OpLeft:
			res.DataPtr = (res.DataPtr + memSize - 1) % memSize
			res.InsnPtr++
		case program.OpInc:
			mem[res.DataPtr]++
			res.InsnPtr++
		case program.OpDec:
			mem[res.DataPtr]--
			res.InsnPtr++
		case program.OpOut:
			res.Output = append(res.Output, mem[res.DataPtr])
			res.InsnPtr++
		case program.OpIn:
			if res.Consumed >= len(input) {
				return nil, errors.NewRuntimeError(
					fmt.Sprintf("input exhausted after %d bytes", res.Consumed))
			}
			mem[res.DataPtr] = input[res.Consumed]
			res.Consumed++
			res.InsnPtr++
		case program.OpJmpIfZero:
			if mem[res.DataPtr] == 0 {
				res.InsnPtr = op.Target
			} else {
				res.InsnPtr++
			}
		case program.OpJmpIfNonZero:
			if mem[res.DataPtr] != 0 {
				res.InsnPtr = op.Target
			} else {
				res.InsnPtr++
			}
		}
	}
	return res, nil
}
