package parser

import (
	"decaf/internal/ast"
	"decaf/internal/scope"
	"decaf/internal/token"
)

// declaration parses a scalar or array variable declaration; the
// caller has already confirmed the next token is a type keyword.
func (p *Parser) declaration() ast.Node {
	typeTok := p.advance()
	typ := string(typeTok.Kind)
	nameTok := p.expect(token.Ident, "an identifier")
	name := nameTok.Lexeme

	if p.check(token.LSquare) {
		return p.arrayDeclaration(typeTok, typ, name)
	}

	var init ast.Node
	if p.match(token.Assign) {
		init = p.coerce(p.expression(), typ)
	}
	p.expect(token.Semi, "';'")

	decl := ast.NewVarDecl(position(typeTok), p.frame, name, typ, init)
	if _, err := p.Scope.Declare(p.frame, name, decl, scope.Stack); err != nil {
		p.semanticError(nameTok, "redefinition of '"+name+"'")
	}
	return decl
}

// arrayDeclaration parses the one or more "[bound]" suffixes of an
// array declaration. A bound may be any expression; only a literal
// integer bound is checked at parse time (array, bounds recorded as 0
// get a run-time check from internal/lower instead).
func (p *Parser) arrayDeclaration(typeTok token.Token, typ, name string) ast.Node {
	var dims []ast.Node
	var bounds []int
	for p.match(token.LSquare) {
		dimExpr := p.expression()
		bound := 0
		if lit, ok := dimExpr.(*ast.IntLit); ok {
			if lit.Value <= 0 {
				p.semanticError(typeTok, "array bound must be a positive integer")
			}
			bound = int(lit.Value)
		}
		dims = append(dims, dimExpr)
		bounds = append(bounds, bound)
		p.expect(token.RSquare, "']'")
	}
	p.expect(token.Semi, "';'")

	decl := ast.NewArrayVarDecl(position(typeTok), p.frame, name, typ, dims, bounds)
	if _, err := p.Scope.Declare(p.frame, name, decl, scope.Heap); err != nil {
		p.semanticError(typeTok, "redefinition of '"+name+"'")
	}
	return decl
}

// coerce wraps expr in an ast.Coerced when its static type differs
// from want and the two are both numeric; otherwise expr is returned
// unchanged. Type mismatches that cannot be coerced are left for the
// lowering stage's best-effort pass to ignore; the parser is not a
// full type checker.
func (p *Parser) coerce(expr ast.Node, want string) ast.Node {
	from := staticType(expr)
	if from == "" || from == want {
		return expr
	}
	if !isNumeric(from) || !isNumeric(want) {
		return expr
	}
	return ast.NewCoerced(expr.Pos(), expr.Frame(), from, want, expr)
}

func isNumeric(typ string) bool {
	return typ == "int" || typ == "double"
}

// staticType returns the best-effort static type of an already-built
// expression node, or "" when the node's type cannot be determined
// without a full type-checking pass.
func staticType(n ast.Node) string {
	switch v := n.(type) {
	case *ast.IntLit:
		return "int"
	case *ast.FltLit:
		return "double"
	case *ast.StrLit:
		return "string"
	case *ast.Id:
		return v.Type
	case *ast.ArrayId:
		return v.ElemType
	case *ast.Coerced:
		return v.To
	default:
		return ""
	}
}
