package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"bfsym/internal/explore"
	"bfsym/internal/interp"
	"bfsym/internal/program"
	"bfsym/internal/smt"
)

const verifyStepLimit = 1 << 20

// SolveCommand searches for an input that makes the program emit the
// target output, then re-runs the program concretely to verify it.
func SolveCommand(args []string) error {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	output := fs.String("output", "", "target output (required)")
	tape := fs.Int("tape", 16, "tape size in cells")
	maxVisits := fs.Int("max-visits", 0, "abandon the search after this many states (0 = unbounded)")
	file := fs.String("file", "", "read the program from a file instead of the argument")
	debug := fs.Bool("debug", false, "log exploration progress")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bfsym solve [flags] <program>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	source, err := programSource(fs, *file)
	if err != nil {
		return err
	}
	if *output == "" {
		return fmt.Errorf("solve: -output is required")
	}

	prog, err := program.Parse(source)
	if err != nil {
		return errors.Wrap(err, "parsing program")
	}

	ctx := smt.NewContext()
	group := explore.MakeEntry(ctx, prog, *tape)
	group.MaxVisits = *maxVisits
	group.Debug = *debug

	concrete, found := group.ExploreUntilOutput([]byte(*output))
	stats := group.Stats()

	if !found {
		fmt.Printf("%s no input found (%s states explored)\n",
			colorize("UNSOLVED", colorRed),
			humanize.Comma(int64(stats.Pops)))
		os.Exit(1)
	}

	ok, err := interp.Verify(prog, concrete.Input, []byte(*output), *tape, verifyStepLimit)
	if err != nil {
		return errors.Wrap(err, "verifying input")
	}
	if !ok {
		return fmt.Errorf("solve: discovered input failed concrete verification")
	}

	fmt.Printf("%s input = %q\n", colorize("SOLVED", colorGreen), concrete.Input)
	fmt.Printf("  bytes:    % x\n", concrete.Input)
	fmt.Printf("  explored: %s states (%s enqueued, %s pruned)\n",
		humanize.Comma(int64(stats.Pops)),
		humanize.Comma(int64(stats.Enqueued)),
		humanize.Comma(int64(stats.Pruned)))
	fmt.Printf("  solver:   %s calls, %s cache hits\n",
		humanize.Comma(int64(group.Cache().Misses())),
		humanize.Comma(int64(group.Cache().Hits())))
	return nil
}

// programSource resolves the program text from -file or the first
// positional argument.
func programSource(fs *flag.FlagSet, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", errors.Wrap(err, "reading program file")
		}
		return string(data), nil
	}
	if fs.NArg() < 1 {
		return "", fmt.Errorf("no program given (pass it as an argument or with -file)")
	}
	return fs.Arg(0), nil
}

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

// colorize wraps s in an ANSI color when stdout is a terminal.
func colorize(s, color string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return s
	}
	return color + s + colorReset
}
