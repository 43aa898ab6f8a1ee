package lexer

import "testing"

func scanTypes(input string) []TokenType {
	tokens := NewScanner(input).ScanTokens()
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestScanCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{"all eight", "><+-.,[]", []TokenType{
			TokenRight, TokenLeft, TokenInc, TokenDec,
			TokenOut, TokenIn, TokenLBracket, TokenRBracket,
		}},
		{"empty", "", nil},
		{"only comments", "hello world 123 #!?", nil},
		{"commands in prose", "a+b-c", []TokenType{TokenInc, TokenDec}},
		{"hash is a comment", "+#+", []TokenType{TokenInc, TokenInc}},
		{"whitespace ignored", " + \n - \t [ ] ", []TokenType{
			TokenInc, TokenDec, TokenLBracket, TokenRBracket,
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := scanTypes(test.input)
			if len(got) != len(test.want) {
				t.Fatalf("scanned %d tokens, want %d", len(got), len(test.want))
			}
			for i := range got {
				if got[i] != test.want[i] {
					t.Errorf("token %d = %q, want %q", i, got[i], test.want[i])
				}
			}
		})
	}
}

func TestScanPositions(t *testing.T) {
	tokens := NewScanner("+x\n ,").ScanTokens()
	if len(tokens) != 2 {
		t.Fatalf("scanned %d tokens, want 2", len(tokens))
	}
	if tokens[0].Line != 1 || tokens[0].Column != 1 {
		t.Errorf("first token at %d:%d, want 1:1", tokens[0].Line, tokens[0].Column)
	}
	if tokens[1].Line != 2 || tokens[1].Column != 2 {
		t.Errorf("second token at %d:%d, want 2:2", tokens[1].Line, tokens[1].Column)
	}
}
