package parser

import (
	"decaf/internal/ast"
	"decaf/internal/scope"
	"decaf/internal/token"
)

func (p *Parser) statement() ast.Node {
	switch {
	case isTypeToken(p.peek().Kind):
		s := p.declaration()
		return s
	case p.check(token.LBrace):
		return p.block()
	case p.check(token.If):
		return p.ifStatement()
	case p.check(token.While):
		return p.whileStatement()
	case p.check(token.For):
		return p.forStatement()
	case p.check(token.Break):
		return p.breakStatement()
	case p.check(token.Continue):
		return p.continueStatement()
	case p.check(token.Print):
		return p.printStatement()
	case p.check(token.Semi):
		p.advance()
		return nil
	default:
		return p.expressionStatement()
	}
}

// block parses a brace-delimited statement list, opening a fresh
// lexical frame for it and closing that frame again on exit. Any
// locally declared array appends a trailing EOB marker so
// internal/lower knows precisely where that array's scope ends.
func (p *Parser) block() *ast.Block {
	open := p.expect(token.LBrace, "'{'")
	parent := p.frame
	p.frame = p.Scope.OpenScope(parent)

	var stmts []ast.Node
	hasArray := false
	for !p.check(token.RBrace) && !p.atEnd() {
		s := p.statement()
		if s == nil {
			continue
		}
		stmts = append(stmts, s)
		if _, ok := s.(*ast.ArrayVarDecl); ok {
			hasArray = true
		}
	}
	closeTok := p.expect(token.RBrace, "'}'")
	if hasArray {
		stmts = append(stmts, ast.NewEOB(position(closeTok), p.frame))
	}

	blk := ast.NewBlock(position(open), p.frame, stmts)
	p.Scope.CloseScope(p.frame)
	p.frame = parent
	return blk
}

// blockOrStatement lets if/for/while bodies be either a brace block or
// a single bare statement, matching decaf's C-family grammar.
func (p *Parser) blockOrStatement() ast.Node {
	if p.check(token.LBrace) {
		return p.block()
	}
	return p.statement()
}

func (p *Parser) ifStatement() ast.Node {
	ifTok := p.expect(token.If, "'if'")
	p.expect(token.LParen, "'('")
	cond := p.expression()
	p.expect(token.RParen, "')'")
	then := p.blockOrStatement()

	var els ast.Node
	if p.match(token.Else) {
		if p.check(token.If) {
			els = p.ifStatement()
		} else {
			elseTok := p.tokens[p.pos-1]
			body := p.blockOrStatement()
			els = ast.NewElse(position(elseTok), p.frame, body)
		}
	}
	return ast.NewIf(position(ifTok), p.frame, cond, then, els)
}

func (p *Parser) whileStatement() ast.Node {
	whileTok := p.expect(token.While, "'while'")
	p.expect(token.LParen, "'('")
	cond := p.expression()
	p.expect(token.RParen, "')'")
	p.loopDepth++
	body := p.blockOrStatement()
	p.loopDepth--
	return ast.NewWhile(position(whileTok), p.frame, cond, body)
}

func (p *Parser) forStatement() ast.Node {
	forTok := p.expect(token.For, "'for'")
	p.expect(token.LParen, "'('")

	var initStmt ast.Node
	if !p.check(token.Semi) {
		initStmt = p.expressionOrDeclNoTerminator()
	}
	p.expect(token.Semi, "';'")

	var cond ast.Node
	if !p.check(token.Semi) {
		cond = p.expression()
	}
	p.expect(token.Semi, "';'")

	var post ast.Node
	if !p.check(token.RParen) {
		post = p.assignment()
	}
	p.expect(token.RParen, "')'")

	p.loopDepth++
	body := p.blockOrStatement()
	p.loopDepth--

	return ast.NewFor(position(forTok), p.frame, initStmt, cond, post, body)
}

// expressionOrDeclNoTerminator parses a for-loop initializer, which is
// either a bare assignment/increment expression or a scalar
// declaration, neither followed by the ';' the caller consumes itself
// (a for-loop's three clauses share one pair of semicolons, unlike a
// standalone declaration statement).
func (p *Parser) expressionOrDeclNoTerminator() ast.Node {
	if isTypeToken(p.peek().Kind) {
		typeTok := p.advance()
		typ := string(typeTok.Kind)
		nameTok := p.expect(token.Ident, "an identifier")
		var init ast.Node
		if p.match(token.Assign) {
			init = p.coerce(p.expression(), typ)
		}
		decl := ast.NewVarDecl(position(typeTok), p.frame, nameTok.Lexeme, typ, init)
		if _, err := p.Scope.Declare(p.frame, nameTok.Lexeme, decl, scope.Stack); err != nil {
			p.semanticError(nameTok, "redefinition of '"+nameTok.Lexeme+"'")
		}
		return decl
	}
	return p.assignment()
}

func (p *Parser) breakStatement() ast.Node {
	t := p.expect(token.Break, "'break'")
	p.expect(token.Semi, "';'")
	if p.loopDepth == 0 {
		p.semanticError(t, "'break' outside of a loop")
	}
	return ast.NewBreak(position(t), p.frame)
}

func (p *Parser) continueStatement() ast.Node {
	t := p.expect(token.Continue, "'continue'")
	p.expect(token.Semi, "';'")
	if p.loopDepth == 0 {
		p.semanticError(t, "'continue' outside of a loop")
	}
	return ast.NewCont(position(t), p.frame)
}

func (p *Parser) printStatement() ast.Node {
	t := p.expect(token.Print, "'Print'")
	p.expect(token.LParen, "'('")
	var args []ast.Node
	if !p.check(token.RParen) {
		args = append(args, p.expression())
		for p.match(token.Comma) {
			args = append(args, p.expression())
		}
	}
	p.expect(token.RParen, "')'")
	p.expect(token.Semi, "';'")
	return ast.NewPrint(position(t), p.frame, args)
}

func (p *Parser) expressionStatement() ast.Node {
	startTok := p.peek()
	expr := p.assignment()
	p.expect(token.Semi, "';'")
	if expr == nil {
		p.synchronize()
	}
	_ = startTok
	return expr
}
