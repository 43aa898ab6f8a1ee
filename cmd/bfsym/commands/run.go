package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"bfsym/internal/interp"
	"bfsym/internal/program"
)

// RunCommand executes a program concretely on the given input bytes.
func RunCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	input := fs.String("input", "", "input bytes fed to the program")
	tape := fs.Int("tape", 16, "tape size in cells")
	maxSteps := fs.Int("max-steps", 1<<20, "step limit")
	file := fs.String("file", "", "read the program from a file instead of the argument")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bfsym run [flags] <program>")
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

	res, err := interp.Run(prog, []byte(*input), *tape, *maxSteps)
	if err != nil {
		return err
	}

	os.Stdout.Write(res.Output)
	fmt.Printf("\n(%d steps, %d input bytes consumed)\n", res.Steps, res.Consumed)
	return nil
}
