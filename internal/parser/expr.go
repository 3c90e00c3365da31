package parser

import (
	"decaf/internal/ast"
	"decaf/internal/scope"
	"decaf/internal/tables"
	"decaf/internal/token"
)

func typeRank(typ string) int { return tables.TypePriority(typ) }

// expression is the parser's single entry point into the precedence
// hierarchy; assignment sits at the bottom because "=" associates more
// loosely than every operator above it.
func (p *Parser) expression() ast.Node { return p.assignment() }

func compoundBinOp(k token.Kind) (token.Kind, bool) {
	switch k {
	case token.PlusEq:
		return token.Plus, true
	case token.MinusEq:
		return token.Minus, true
	case token.StarEq:
		return token.Star, true
	case token.SlashEq:
		return token.Slash, true
	case token.PercentEq:
		return token.Percent, true
	default:
		return "", false
	}
}

func (p *Parser) assignment() ast.Node {
	left := p.logicalOr()
	if left == nil {
		return nil
	}
	if op, ok := compoundBinOp(p.peek().Kind); ok {
		p.advance()
		value := p.assignment()
		return ast.NewModAssign(left.Pos(), left.Frame(), op, left, value)
	}
	if p.match(token.Assign) {
		value := p.assignment()
		value = p.coerce(value, staticType(left))
		return ast.NewAssign(left.Pos(), left.Frame(), left, value)
	}
	return left
}

func (p *Parser) logicalOr() ast.Node {
	left := p.logicalAnd()
	for p.match(token.OrOr) {
		right := p.logicalAnd()
		left = ast.NewOr(left.Pos(), left.Frame(), left, right)
	}
	return left
}

func (p *Parser) logicalAnd() ast.Node {
	left := p.equality()
	for p.match(token.AndAnd) {
		right := p.equality()
		left = ast.NewAnd(left.Pos(), left.Frame(), left, right)
	}
	return left
}

func (p *Parser) equality() ast.Node {
	left := p.relational()
	for p.check(token.EQ) || p.check(token.NE) {
		op := p.advance()
		right := p.relational()
		left = ast.NewRel(left.Pos(), left.Frame(), op.Kind, left, right)
	}
	return left
}

func (p *Parser) relational() ast.Node {
	left := p.additive()
	for p.check(token.LT) || p.check(token.LE) || p.check(token.GT) || p.check(token.GE) {
		op := p.advance()
		right := p.additive()
		left = ast.NewRel(left.Pos(), left.Frame(), op.Kind, left, right)
	}
	return left
}

func (p *Parser) additive() ast.Node {
	left := p.multiplicative()
	for p.check(token.Plus) || p.check(token.Minus) {
		op := p.advance()
		right := p.multiplicative()
		left = p.arith(op, left, right)
	}
	return left
}

func (p *Parser) multiplicative() ast.Node {
	left := p.unary()
	for p.check(token.Star) || p.check(token.Slash) || p.check(token.Percent) {
		op := p.advance()
		right := p.unary()
		left = p.arith(op, left, right)
	}
	return left
}

// arith builds an Arith node, coercing whichever operand has the
// lower numeric-coercion rank up to the other's type.
func (p *Parser) arith(op token.Token, l, r ast.Node) ast.Node {
	lt, rt := staticType(l), staticType(r)
	if lt != "" && rt != "" && lt != rt && isNumeric(lt) && isNumeric(rt) {
		if typeRank(lt) < typeRank(rt) {
			l = ast.NewCoerced(l.Pos(), l.Frame(), lt, rt, l)
		} else {
			r = ast.NewCoerced(r.Pos(), r.Frame(), rt, lt, r)
		}
	}
	return ast.NewArith(position(op), p.frame, op.Kind, l, r)
}

func (p *Parser) unary() ast.Node {
	switch {
	case p.match(token.Bang):
		opTok := p.tokens[p.pos-1]
		operand := p.unary()
		return ast.NewNot(position(opTok), p.frame, operand)
	case p.match(token.Minus):
		opTok := p.tokens[p.pos-1]
		operand := p.unary()
		return ast.NewUnaryArith(position(opTok), p.frame, token.Minus, operand)
	case p.match(token.PlusPlus):
		opTok := p.tokens[p.pos-1]
		target := p.unary()
		return p.wrapPreIncr(opTok, target, ast.Inc)
	case p.match(token.MinusMinus):
		opTok := p.tokens[p.pos-1]
		target := p.unary()
		return p.wrapPreIncr(opTok, target, ast.Dec)
	default:
		return p.postfix()
	}
}

func (p *Parser) postfix() ast.Node {
	expr := p.primary()
	for {
		switch {
		case p.match(token.PlusPlus):
			opTok := p.tokens[p.pos-1]
			expr = p.wrapPostIncr(opTok, expr, ast.Inc)
		case p.match(token.MinusMinus):
			opTok := p.tokens[p.pos-1]
			expr = p.wrapPostIncr(opTok, expr, ast.Dec)
		default:
			return expr
		}
	}
}

// wrapPreIncr and wrapPostIncr attach ++/-- to whichever lvalue kind
// target actually is; any other expression in that position is a
// semantic error (decaf only allows incrementing variables and array
// elements), reported and passed through unwrapped so parsing can
// continue.
func (p *Parser) wrapPreIncr(at token.Token, target ast.Node, delta ast.IncrDelta) ast.Node {
	switch t := target.(type) {
	case *ast.Id:
		return ast.NewPreIncrId(position(at), p.frame, t, delta)
	case *ast.ArrayId:
		return ast.NewPreIncrArrayId(position(at), p.frame, t, delta)
	default:
		p.semanticError(at, "operand of '++'/'--' must be a variable or array element")
		return target
	}
}

func (p *Parser) wrapPostIncr(at token.Token, target ast.Node, delta ast.IncrDelta) ast.Node {
	switch t := target.(type) {
	case *ast.Id:
		return ast.NewPostIncrId(position(at), p.frame, t, delta)
	case *ast.ArrayId:
		return ast.NewPostIncrArrayId(position(at), p.frame, t, delta)
	default:
		p.semanticError(at, "operand of '++'/'--' must be a variable or array element")
		return target
	}
}

func (p *Parser) primary() ast.Node {
	switch {
	case p.check(token.IntLit):
		t := p.advance()
		return ast.NewIntLit(position(t), p.frame, t.IntVal)
	case p.check(token.DoubleLit):
		t := p.advance()
		return ast.NewFltLit(position(t), p.frame, t.DoubleVal)
	case p.check(token.StrLit):
		t := p.advance()
		return ast.NewStrLit(position(t), p.frame, t.Lexeme)
	case p.check(token.True):
		t := p.advance()
		lit := ast.NewIntLit(position(t), p.frame, 1)
		return lit
	case p.check(token.False):
		t := p.advance()
		lit := ast.NewIntLit(position(t), p.frame, 0)
		return lit
	case p.check(token.ReadInteger):
		t := p.advance()
		p.expect(token.LParen, "'('")
		p.expect(token.RParen, "')'")
		return ast.NewReadInteger(position(t), p.frame)
	case p.check(token.ReadLine):
		t := p.advance()
		p.expect(token.LParen, "'('")
		p.expect(token.RParen, "')'")
		return ast.NewReadLine(position(t), p.frame)
	case p.check(token.LParen):
		p.advance()
		inner := p.expression()
		p.expect(token.RParen, "')'")
		return inner
	case p.check(token.Ident):
		return p.identifierExpr()
	default:
		t := p.peek()
		p.errorAt(t, "unexpected token '"+string(t.Kind)+"' in expression")
		p.advance()
		return ast.NewIntLit(position(t), p.frame, 0)
	}
}

func (p *Parser) identifierExpr() ast.Node {
	nameTok := p.advance()
	name := nameTok.Lexeme

	decl, ok := scope.Lookup(p.frame, name)
	typ := ""
	if ok {
		typ = decl.DeclType()
	} else {
		p.semanticError(nameTok, "undeclared identifier '"+name+"'")
	}

	if arr, isArr := decl.(*ast.ArrayVarDecl); isArr && p.check(token.LSquare) {
		return p.arrayAccess(nameTok, arr)
	}

	return ast.NewId(position(nameTok), p.frame, name, typ)
}

func (p *Parser) arrayAccess(nameTok token.Token, decl *ast.ArrayVarDecl) ast.Node {
	var dims []ast.Node
	allLiteral := true
	for p.match(token.LSquare) {
		d := p.expression()
		if _, ok := d.(*ast.IntLit); !ok {
			allLiteral = false
		}
		dims = append(dims, d)
		p.expect(token.RSquare, "']'")
	}
	return ast.NewArrayId(position(nameTok), p.frame, nameTok.Lexeme, decl.ElemType, dims, decl.Bounds, allLiteral)
}
