package parser

import (
	"testing"

	"bfsym/internal/lexer"
)

func parseString(input string) (Block, error) {
	tokens := lexer.NewScanner(input).ScanTokens()
	return NewParser(tokens).Parse()
}

func TestParseBalance(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		shouldPass bool
	}{
		{"empty", "", true},
		{"straight line", "+->.<,", true},
		{"empty loop", "[]", true},
		{"nested loops", "[[]]", true},
		{"sibling loops", "[][]", true},
		{"loop with body", "[->+<]", true},
		{"deeply nested", "[[[[[]]]]]", true},
		{"unclosed", "[", false},
		{"unopened", "]", false},
		{"unclosed nested", "[[]", false},
		{"extra close", "[]]", false},
		{"crossing close first", "]+[", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := parseString(test.input)
			if test.shouldPass && err != nil {
				t.Errorf("parse failed: %v", err)
			}
			if !test.shouldPass && err == nil {
				t.Errorf("expected parse to fail")
			}
		})
	}
}

func TestParseShape(t *testing.T) {
	block, err := parseString("+[>,]-")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(block) != 3 {
		t.Fatalf("top-level block has %d nodes, want 3", len(block))
	}

	first, ok := block[0].(*Command)
	if !ok || first.Type != lexer.TokenInc {
		t.Errorf("node 0 = %#v, want + command", block[0])
	}

	loop, ok := block[1].(*Loop)
	if !ok {
		t.Fatalf("node 1 = %#v, want loop", block[1])
	}
	if len(loop.Body) != 2 {
		t.Errorf("loop body has %d nodes, want 2", len(loop.Body))
	}

	last, ok := block[2].(*Command)
	if !ok || last.Type != lexer.TokenDec {
		t.Errorf("node 2 = %#v, want - command", block[2])
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := parseString("++[>\n>[")
	if err == nil {
		t.Fatal("expected unclosed bracket error")
	}
	// The innermost unclosed bracket is reported, at line 2 column 2.
	msg := err.Error()
	if want := "at 2:2"; !contains(msg, want) {
		t.Errorf("error %q does not mention %q", msg, want)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
