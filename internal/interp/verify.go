package interp

import (
	"bytes"

	"bfsym/internal/program"
)

// Verify runs prog on input and reports whether the produced output begins
// with want. The run stops as soon as len(want) output bytes exist, when
// the program terminates, or when the input runs dry — a solved state may
// sit mid-program, so bytes the program would emit or read afterwards are
// irrelevant to the match.
func Verify(prog *program.Program, input, want []byte, memSize, maxSteps int) (bool, error) {
	if err := prog.Validate(); err != nil {
		return false, err
	}

	mem := make([]byte, memSize)
	var output []byte
	insnPtr, dataPtr, consumed := 0, 0, 0

	for steps := 0; insnPtr < prog.Len() && len(output) < len(want); steps++ {
		if steps >= maxSteps {
			return false, nil
		}
		op := prog.Ops[insnPtr]
		switch op.Kind {
		case program.OpRight:
			dataPtr = (dataPtr + 1) % memSize
			insnPtr++
		case program.OpLeft:
			dataPtr = (dataPtr + memSize - 1) % memSize
			insnPtr++
		case program.OpInc:
			mem[dataPtr]++
			insnPtr++
		case program.OpDec:
			mem[dataPtr]--
			insnPtr++
		case program.OpOut:
			output = append(output, mem[dataPtr])
			insnPtr++
		case program.OpIn:
			if consumed >= len(input) {
				return false, nil
			}
			mem[dataPtr] = input[consumed]
			consumed++
			insnPtr++
		case program.OpJmpIfZero:
			if mem[dataPtr] == 0 {
				insnPtr = op.Target
			} else {
				insnPtr++
			}
		case program.OpJmpIfNonZero:
			if mem[dataPtr] != 0 {
				insnPtr = op.Target
			} else {
				insnPtr++
			}
		}
	}
	return bytes.Equal(output, want), nil
}
