package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"bfsym/internal/program"
)

// LowerCommand prints the linear opcode stream of a program, one opcode
// per line with jump targets resolved.
func LowerCommand(args []string) error {
	fs := flag.NewFlagSet("lower", flag.ExitOnError)
	file := fs.String("file", "", "read the program from a file instead of the argument")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bfsym lower [flags] <program>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	source, err := programSource(fs, *file)
	if err != nil {
		return err
	}
	prog, err := program.Parse(source)
	if err != nil {
		return errors.Wrap(err, "parsing program")
	}
	if err := prog.Validate(); err != nil {
		return err
	}

	for i, op := range prog.Ops {
		switch op.Kind {
		case program.OpJmpIfZero, program.OpJmpIfNonZero:
			fmt.Printf("%4d  %s -> %d\n", i, op.Kind, op.Target)
		default:
			fmt.Printf("%4d  %s\n", i, op.Kind)
		}
	}
	return nil
}
