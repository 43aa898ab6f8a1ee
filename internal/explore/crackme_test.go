package explore

import (
	"testing"

	"bfsym/internal/smt"
)

// Credit:
// https://aodrulez.blogspot.com/2011/09/detailed-analysis-of-my-brainfuck.html
const aodrulezCrackme = "Aodrulez's Brainfuck Crackme V1" +
	"# -------------------------------------------------" +
	"# (Its very Easy)" +
	">++++++++++[>++++++++>++++++++++>+++++++++++>++++++" +
	"+++++>++++++++++>+++++++++++>+++>++++++>+++><<<<<<<" +
	"<<<-]>+++>+>++++>----->--->-->++>-->++><<<<<<<<<<>." +
	">.>.>.>.>.>.>.>.>,>,>,>,>,>,<[>-<-]#>[>+++>++++++>+" +
	"+++>+++>+++++++>+++++++++++>+++++++++++>++++++++++>" +
	"+++++++++++>++++++++++>++++++++++++>++++++++++++>++" +
	"+++++++++>++++++++++>++++++++++++>+++++++++++>+++++" +
	"++++++>+++++++++++>++++++++++++>+++++>+++><<<<<<<<<" +
	"<<<<<<<<<<<<<-]>++>-->+>++>--->+>>+++>++++>--->----" +
	">--->-->--->---->----->+>>----->---->++><<<<<<<<<<<" +
	"<<<<<<<<<<<>.>.>.>.>.>.>.>.>.>.>.>.>.>.>.>.>.>.>.>.>."

func TestAodrulezCrackme(t *testing.T) {
	if testing.Short() {
		t.Skip("long exploration")
	}

	ctx := smt.NewContext()
	prog := mustParse(t, aodrulezCrackme)
	group := MakeEntry(ctx, prog, 64)

	res, found := group.ExploreUntilOutput([]byte("Serial :  :) Congratulations."))
	if !found {
		t.Fatal("no serial found")
	}

	// Constraints for a keygen.
	if len(res.Input) != 6 {
		t.Fatalf("input length %d, want 6", len(res.Input))
	}
	if res.Input[4]+10 != res.Input[5] {
		t.Errorf("input[4]+10 = %d, want input[5] = %d", res.Input[4]+10, res.Input[5])
	}
}
