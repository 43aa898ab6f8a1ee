package parser

import (
	"fmt"

	"bfsym/internal/errors"
	"bfsym/internal/lexer"
)

// Parser builds the nested block tree from a scanned token stream.
type Parser struct {
	tokens  []lexer.Token
	current int
}

func NewParser(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the whole token stream into a single top-level block.
// The only possible failures are unbalanced brackets.
func (p *Parser) Parse() (Block, error) {
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if !p.isAtEnd() {
		tok := p.peek()
		return nil, errors.NewSyntaxError(
			fmt.Sprintf("unexpected %q without matching opening bracket", tok.Type),
			tok.Line, tok.Column,
		)
	}
	return block, nil
}

// parseBlock consumes nodes until a closing bracket or end of input. The
// closing bracket itself is left for the caller.
func (p *Parser) parseBlock() (Block, error) {
	block := Block{}
	for !p.isAtEnd() {
		tok := p.peek()
		switch tok.Type {
		case lexer.TokenRBracket:
			return block, nil
		case lexer.TokenLBracket:
			p.advance()
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			if p.isAtEnd() {
				return nil, errors.NewSyntaxError(
					"unclosed bracket", tok.Line, tok.Column,
				)
			}
			p.advance() // consume the closing bracket
			block = append(block, &Loop{Body: body, Line: tok.Line, Column: tok.Column})
		default:
			p.advance()
			block = append(block, &Command{Type: tok.Type, Line: tok.Line, Column: tok.Column})
		}
	}
	return block, nil
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) advance() {
	p.current++
}

func (p *Parser) isAtEnd() bool {
	return p.current >= len(p.tokens)
}
