// Package parser builds an internal/ast tree from a internal/token
// stream, declaring and looking up identifiers in an internal/scope
// hierarchy as it goes: scope construction is a side effect of
// parsing, not a separate pass.
//
// A fixed token slice plus an integer cursor drives recursive-descent
// statement dispatch, building internal/ast nodes directly rather than
// an intermediate parse tree.
package parser

import (
	"decaf/internal/ast"
	"decaf/internal/diag"
	"decaf/internal/scope"
	"decaf/internal/token"
)

// Parser consumes a fixed token slice for one source file.
type Parser struct {
	file   string
	tokens []token.Token
	pos    int

	Diags *diag.Bag
	Scope *scope.Builder
	frame *scope.Frame

	loopDepth int
}

// New returns a Parser ready to parse tokens (always ending in an EOF
// token, as produced by internal/lexer.Scanner.ScanTokens).
func New(file string, tokens []token.Token, diags *diag.Bag) *Parser {
	b := scope.NewBuilder()
	p := &Parser{file: file, tokens: tokens, Diags: diags, Scope: b}
	p.frame = b.OpenScope(nil)
	return p
}

// Parse consumes the whole token stream and returns the program's
// top-level block.
func (p *Parser) Parse() *ast.Block {
	var stmts []ast.Node
	for !p.atEnd() {
		s := p.statement()
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	return ast.NewBlock(position(p.tokens[0]), p.frame, stmts)
}

func position(t token.Token) ast.Position {
	return ast.Position{Line: t.Line, Col: t.Col}
}

func (p *Parser) peek() token.Token { return p.tokens[p.pos] }

func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) atEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	t := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the next token if it is of kind k, otherwise records
// a syntax error and performs single-token error recovery (it does not
// consume the offending token, so the caller's subsequent parse
// attempts can resynchronize against it).
func (p *Parser) expect(k token.Kind, what string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	p.errorAt(p.peek(), "expected "+what+", found '"+string(p.peek().Kind)+"'")
	return p.peek()
}

func (p *Parser) errorAt(t token.Token, msg string) {
	p.Diags.Add(diag.New(diag.Syntax, msg, p.file, t.Line, t.Col))
}

func (p *Parser) semanticError(t token.Token, msg string) {
	p.Diags.Add(diag.New(diag.Semantic, msg, p.file, t.Line, t.Col))
}

// synchronize discards tokens up through the next statement boundary
// after a syntax error, so one malformed statement does not cascade
// into spurious errors for the rest of the file.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.peek().Kind == token.Semi {
			p.advance()
			return
		}
		switch p.peek().Kind {
		case token.If, token.For, token.While, token.Print, token.Break,
			token.Continue, token.RBrace, token.Int, token.Double, token.Bool, token.String:
			return
		}
		p.advance()
	}
}

func isTypeToken(k token.Kind) bool {
	switch k {
	case token.Int, token.Double, token.Bool, token.String:
		return true
	default:
		return false
	}
}
