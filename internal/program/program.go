package program

import (
	"fmt"
	"strings"

	"bfsym/internal/errors"
	"bfsym/internal/lexer"
	"bfsym/internal/parser"
)

// Program is an immutable linear opcode stream with pre-resolved jump
// targets. It is shared by reference across every live state of a run.
type Program struct {
	Ops []Op
}

// Parse scans, parses and lowers source text into a program.
func Parse(source string) (*Program, error) {
	scanner := lexer.NewScanner(source)
	tokens := scanner.ScanTokens()
	block, err := parser.NewParser(tokens).Parse()
	if err != nil {
		return nil, err
	}
	return Lower(block), nil
}

// Lower flattens a block tree into the linear opcode stream. Each loop
// lowers as JmpIfZero(after) body JmpIfNonZero(bodyStart), where bodyStart
// is the index just after the opening jump and after is the index just
// after the closing jump, so targets are absolute and need no run-time
// bracket search.
func Lower(block parser.Block) *Program {
	return &Program{Ops: lowerBlock(0, block)}
}

func lowerBlock(at int, block parser.Block) []Op {
	var ops []Op
	for _, node := range block {
		ops = append(ops, lowerNode(at+len(ops), node)...)
	}
	return ops
}

func lowerNode(at int, node parser.Node) []Op {
	switch n := node.(type) {
	case *parser.Command:
		switch n.Type {
		case lexer.TokenRight:
			return []Op{{Kind: OpRight}}
		case lexer.TokenLeft:
			return []Op{{Kind: OpLeft}}
		case lexer.TokenInc:
			return []Op{{Kind: OpInc}}
		case lexer.TokenDec:
			return []Op{{Kind: OpDec}}
		case lexer.TokenOut:
			return []Op{{Kind: OpOut}}
		case lexer.TokenIn:
			return []Op{{Kind: OpIn}}
		}
	case *parser.Loop:
		bodyStart := at + 1
		body := lowerBlock(bodyStart, n.Body)
		after := bodyStart + len(body) + 1
		ops := make([]Op, 0, len(body)+2)
		ops = append(ops, Op{Kind: OpJmpIfZero, Target: after})
		ops = append(ops, body...)
		ops = append(ops, Op{Kind: OpJmpIfNonZero, Target: bodyStart})
		return ops
	}
	panic(errors.NewLogicError(fmt.Sprintf("unknown AST node %T", node)))
}

// Len returns the number of opcodes.
func (p *Program) Len() int {
	return len(p.Ops)
}

// Validate checks the jump-pairing invariant: every target is a valid
// index, and each JmpIfZero at i has a matching JmpIfNonZero at j > i with
// target(i) == j+1 and target(j) == i+1.
func (p *Program) Validate() error {
	var stack []int
	for i, op := range p.Ops {
		switch op.Kind {
		case OpJmpIfZero:
			if op.Target < 0 || op.Target > len(p.Ops) {
				return errors.NewProgramError(
					fmt.Sprintf("jump target %d out of range at opcode %d", op.Target, i))
			}
			stack = append(stack, i)
		case OpJmpIfNonZero:
			if len(stack) == 0 {
				return errors.NewProgramError(
					fmt.Sprintf("unmatched closing jump at opcode %d", i))
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if p.Ops[open].Target != i+1 {
				return errors.NewProgramError(
					fmt.Sprintf("opening jump at %d targets %d, want %d", open, p.Ops[open].Target, i+1))
			}
			if op.Target != open+1 {
				return errors.NewProgramError(
					fmt.Sprintf("closing jump at %d targets %d, want %d", i, op.Target, open+1))
			}
		}
	}
	if len(stack) > 0 {
		return errors.NewProgramError(
			fmt.Sprintf("unmatched opening jump at opcode %d", stack[len(stack)-1]))
	}
	return nil
}

// String renders the program back to surface syntax.
func (p *Program) String() string {
	var sb strings.Builder
	for _, op := range p.Ops {
		sb.WriteString(op.Kind.String())
	}
	return sb.String()
}
