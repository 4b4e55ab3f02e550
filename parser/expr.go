// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/token"
)

// parseExpr parses a full comma-operator expression, spec.md §4.3's lowest
// precedence level; used only where a bare comma cannot be confused with an
// argument/declarator separator (statement expressions, for-loop clauses).
func (p *Parser) parseExpr() ast.Expr {
	begin := p.cur()
	first := p.parseAssignExpr()
	if !p.at(token.Comma) {
		return first
	}
	exprs := []ast.Expr{first}
	for {
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
		exprs = append(exprs, p.parseAssignExpr())
	}
	return &ast.Sequence{Base: ast.NewBase(begin.Area), Exprs: exprs}
}

// parseAssignExpr parses an assignment-expression: a ternary expression
// optionally followed by one assignment operator (simple or compound) and
// another assignment-expression, right-associatively. Assignment is
// represented as a BinOp (Op "=", "+=", ...) rather than a dedicated node,
// matching the analyzer's entry-point-transform construction of the same
// shape.
func (p *Parser) parseAssignExpr() ast.Expr {
	lhs := p.parseTernary()
	if p.at(token.AssignOp) {
		op := p.advance()
		rhs := p.parseAssignExpr()
		return &ast.BinOp{Base: ast.NewBase(op.Area), Op: op.Spelling, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseLogicalOr()
	if _, ok := p.accept(token.Question); !ok {
		return cond
	}
	then := p.parseAssignExpr()
	p.expectSpelling(token.Colon, ":")
	els := p.parseAssignExpr()
	return &ast.Ternary{Base: ast.NewBase(cond.Area()), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseLogicalOr() ast.Expr {
	x := p.parseLogicalAnd()
	for p.at(token.BinOp, "||") {
		op := p.advance()
		rhs := p.parseLogicalAnd()
		x = &ast.BinOp{Base: ast.NewBase(op.Area), Op: op.Spelling, LHS: x, RHS: rhs}
	}
	return x
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	x := p.parseBitOr()
	for p.at(token.BinOp, "&&") {
		op := p.advance()
		rhs := p.parseBitOr()
		x = &ast.BinOp{Base: ast.NewBase(op.Area), Op: op.Spelling, LHS: x, RHS: rhs}
	}
	return x
}

func (p *Parser) parseBitOr() ast.Expr {
	x := p.parseBitXor()
	for p.at(token.BinOp, "|") {
		op := p.advance()
		rhs := p.parseBitXor()
		x = &ast.BinOp{Base: ast.NewBase(op.Area), Op: op.Spelling, LHS: x, RHS: rhs}
	}
	return x
}

func (p *Parser) parseBitXor() ast.Expr {
	x := p.parseBitAnd()
	for p.at(token.BinOp, "^") {
		op := p.advance()
		rhs := p.parseBitAnd()
		x = &ast.BinOp{Base: ast.NewBase(op.Area), Op: op.Spelling, LHS: x, RHS: rhs}
	}
	return x
}

func (p *Parser) parseBitAnd() ast.Expr {
	x := p.parseEquality()
	for p.at(token.BinOp, "&") {
		op := p.advance()
		rhs := p.parseEquality()
		x = &ast.BinOp{Base: ast.NewBase(op.Area), Op: op.Spelling, LHS: x, RHS: rhs}
	}
	return x
}

func (p *Parser) parseEquality() ast.Expr {
	x := p.parseRelational()
	for p.at(token.BinOp, "==") || p.at(token.BinOp, "!=") {
		op := p.advance()
		rhs := p.parseRelational()
		x = &ast.BinOp{Base: ast.NewBase(op.Area), Op: op.Spelling, LHS: x, RHS: rhs}
	}
	return x
}

// parseRelational honors p.templateDepth: inside a template argument list
// '<'/'>' close the list rather than acting as comparison operators.
func (p *Parser) parseRelational() ast.Expr {
	x := p.parseShift()
	for {
		if p.templateDepth > 0 && (p.at(token.BinOp, "<") || p.at(token.BinOp, ">")) {
			break
		}
		if !(p.at(token.BinOp, "<") || p.at(token.BinOp, ">") || p.at(token.BinOp, "<=") || p.at(token.BinOp, ">=")) {
			break
		}
		op := p.advance()
		rhs := p.parseShift()
		x = &ast.BinOp{Base: ast.NewBase(op.Area), Op: op.Spelling, LHS: x, RHS: rhs}
	}
	return x
}

func (p *Parser) parseShift() ast.Expr {
	x := p.parseAdditive()
	for p.at(token.BinOp, "<<") || p.at(token.BinOp, ">>") {
		op := p.advance()
		rhs := p.parseAdditive()
		x = &ast.BinOp{Base: ast.NewBase(op.Area), Op: op.Spelling, LHS: x, RHS: rhs}
	}
	return x
}

func (p *Parser) parseAdditive() ast.Expr {
	x := p.parseMultiplicative()
	for p.at(token.BinOp, "+") || p.at(token.BinOp, "-") {
		op := p.advance()
		rhs := p.parseMultiplicative()
		x = &ast.BinOp{Base: ast.NewBase(op.Area), Op: op.Spelling, LHS: x, RHS: rhs}
	}
	return x
}

func (p *Parser) parseMultiplicative() ast.Expr {
	x := p.parseUnary()
	for p.at(token.BinOp, "*") || p.at(token.BinOp, "/") || p.at(token.BinOp, "%") {
		op := p.advance()
		rhs := p.parseUnary()
		x = &ast.BinOp{Base: ast.NewBase(op.Area), Op: op.Spelling, LHS: x, RHS: rhs}
	}
	return x
}

// parseUnary parses a prefix unary expression: '!'/'~'/'++'/'--' (scanned
// as token.UnaryOp), prefix '+'/'-' (scanned as token.BinOp per spec.md
// §4.2's scanner), or an explicit C-style cast recognized by isCastAhead.
func (p *Parser) parseUnary() ast.Expr {
	if p.at(token.UnaryOp) || p.at(token.BinOp, "+") || p.at(token.BinOp, "-") {
		op := p.advance()
		x := p.parseUnary()
		return &ast.UnaryOp{Base: ast.NewBase(op.Area), Op: op.Spelling, X: x}
	}
	if p.at(token.LParen) && p.isCastAhead() {
		begin := p.cur()
		p.advance() // '('
		spec := p.parseTypeSpecifier()
		p.expectSpelling(token.RParen, ")")
		x := p.parseUnary()
		return &ast.Cast{Base: ast.NewBase(begin.Area), TypeSpec: spec, X: x}
	}
	return p.parsePostfix()
}

// isCastAhead implements spec.md §4.3's cast-vs-parenthesized-expression
// disambiguation: '(' is a cast only when it is immediately followed by a
// type-specifier-shaped token run (modifiers, a type name, an optional
// template argument, optional array dims) whose matching ')' is in turn
// followed by a token that can begin a unary-expression. Lookahead never
// crosses a frame boundary, matching peekAt's documented scope.
func (p *Parser) isCastAhead() bool {
	n := 1
	t := p.peekAt(n)
	for t.Kind == token.KeywordModifier {
		n++
		t = p.peekAt(n)
	}
	isType := t.Kind == token.KeywordType || (t.Kind == token.Ident && p.isTypeName(t.Spelling))
	if !isType {
		return false
	}
	n++
	t = p.peekAt(n)

	if t.Kind == token.BinOp && t.Spelling == "<" {
		depth := 1
		n++
		t = p.peekAt(n)
		for depth > 0 && t.Kind != token.EOF {
			if t.Kind == token.BinOp && t.Spelling == "<" {
				depth++
			} else if t.Kind == token.BinOp && t.Spelling == ">" {
				depth--
			}
			n++
			t = p.peekAt(n)
		}
	}

	for t.Kind == token.LBracket {
		depth := 1
		n++
		t = p.peekAt(n)
		for depth > 0 && t.Kind != token.EOF {
			if t.Kind == token.LBracket {
				depth++
			} else if t.Kind == token.RBracket {
				depth--
			}
			n++
			t = p.peekAt(n)
		}
	}

	if t.Kind != token.RParen {
		return false
	}
	n++
	after := p.peekAt(n)
	switch after.Kind {
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit, token.BoolLit, token.NullLit, token.LParen, token.UnaryOp:
		return true
	case token.BinOp:
		return after.Spelling == "+" || after.Spelling == "-"
	default:
		return false
	}
}

// parsePostfix parses postfix "++"/"--", "[index]", ".name" and call
// "(args...)" suffixes, left-associatively.
func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch {
		case p.at(token.Dot):
			p.advance()
			name := p.expect(token.Ident, "member name").Spelling
			x = &ast.MemberAccess{Base: ast.NewBase(x.Area()), X: x, Name: name}
		case p.at(token.LBracket):
			p.advance()
			idx := p.parseExpr()
			p.expectSpelling(token.RBracket, "]")
			x = &ast.Subscript{Base: ast.NewBase(x.Area()), X: x, Index: idx}
		case p.at(token.LParen):
			args := p.parseArgList()
			x = &ast.Call{Base: ast.NewBase(x.Area()), Callee: x, Args: args}
		case p.at(token.UnaryOp, "++") || p.at(token.UnaryOp, "--"):
			op := p.advance()
			x = &ast.PostUnaryOp{Base: ast.NewBase(x.Area()), Op: op.Spelling, X: x}
		default:
			return x
		}
	}
}

func (p *Parser) parseArgList() []ast.Expr {
	p.expectSpelling(token.LParen, "(")
	var args []ast.Expr
	if !p.at(token.RParen) {
		args = append(args, p.parseAssignExpr())
		for {
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
			args = append(args, p.parseAssignExpr())
		}
	}
	p.expectSpelling(token.RParen, ")")
	return args
}

// parsePrimary parses a literal, identifier, parenthesized expression or
// brace initializer list, consulting the pending-node stack first so a
// sub-parser (none currently hands one down, but the mechanism stays
// available per spec.md §4.3) can splice in an already-built expression.
func (p *Parser) parsePrimary() ast.Expr {
	return p.popPendingOr(p.parsePrimaryFresh)
}

func (p *Parser) parsePrimaryFresh() ast.Expr {
	t := p.cur()
	switch {
	case p.at(token.IntLit):
		p.advance()
		return &ast.Literal{Base: ast.NewBase(t.Area), Kind: ast.LitInt, Spelling: t.Spelling}
	case p.at(token.FloatLit):
		p.advance()
		return &ast.Literal{Base: ast.NewBase(t.Area), Kind: ast.LitFloat, Spelling: t.Spelling}
	case p.at(token.StringLit):
		p.advance()
		return &ast.Literal{Base: ast.NewBase(t.Area), Kind: ast.LitString, Spelling: t.Spelling}
	case p.at(token.BoolLit):
		p.advance()
		return &ast.Literal{Base: ast.NewBase(t.Area), Kind: ast.LitBool, Spelling: t.Spelling}
	case p.at(token.NullLit):
		p.advance()
		return &ast.Literal{Base: ast.NewBase(t.Area), Kind: ast.LitNull, Spelling: t.Spelling}
	case p.at(token.Ident):
		p.advance()
		return &ast.Ident{Base: ast.NewBase(t.Area), Name: t.Spelling}
	case p.at(token.KeywordType):
		// A keyword type name in expression position names a constructor
		// call, e.g. "float4(a, b, c, d)" or "(float3)x" handled by
		// parseUnary's cast path; here it is always followed by a call.
		spec := p.parseTypeSpecifier()
		if p.at(token.LParen) {
			args := p.parseArgList()
			return &ast.Call{Base: ast.NewBase(t.Area), Callee: &ast.TypeExpr{Base: ast.NewBase(t.Area), TypeSpec: spec}, Args: args}
		}
		return &ast.TypeExpr{Base: ast.NewBase(t.Area), TypeSpec: spec}
	case p.at(token.LBrace):
		return p.parseInitializerList()
	case p.at(token.LParen):
		p.advance()
		x := p.parseExpr()
		p.expectSpelling(token.RParen, ")")
		return &ast.Bracket{Base: ast.NewBase(t.Area), X: x}
	default:
		p.errorf(t.Area, "expected expression, got %q", t.Spelling)
		if t.Kind != token.EOF {
			p.advance()
		}
		return &ast.Literal{Base: ast.NewBase(t.Area), Kind: ast.LitInt, Spelling: "0"}
	}
}

// parseInitializer parses either a brace-enclosed initializer list or a
// plain assignment-expression, the two forms a declarator's "= ..." clause
// may take.
func (p *Parser) parseInitializer() ast.Expr {
	if p.at(token.LBrace) {
		return p.parseInitializerList()
	}
	return p.parseAssignExpr()
}

func (p *Parser) parseInitializerList() ast.Expr {
	begin := p.advance() // '{'
	var elems []ast.Expr
	if !p.at(token.RBrace) {
		elems = append(elems, p.parseInitializer())
		for {
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
			if p.at(token.RBrace) {
				break
			}
			elems = append(elems, p.parseInitializer())
		}
	}
	p.expectSpelling(token.RBrace, "}")
	return &ast.InitializerList{Base: ast.NewBase(begin.Area), Elems: elems}
}
