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

// looksLikeDeclStart reports whether the current token can begin a
// declaration: a type-modifier keyword, "struct", a built-in type keyword,
// or an identifier previously declared as a struct/typedef name.
func (p *Parser) looksLikeDeclStart() bool {
	switch {
	case p.at(token.KeywordType), p.at(token.KeywordStruct), p.at(token.KeywordModifier):
		return true
	case p.at(token.Ident):
		return p.isTypeName(p.cur().Spelling)
	default:
		return false
	}
}

// parseBlockStmt parses a "{ ... }" statement sequence, opening a fresh
// type-name scope so a struct/typedef declared inside is only visible
// within it. A local declaration statement with several comma-separated
// declarators is spliced into the block as one DeclStmt per declarator,
// since BlockStmt.Stmts is a plain slice the caller controls (unlike
// parseGlobalDecl's single-Decl return).
func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	begin := p.expectSpelling(token.LBrace, "{")
	p.openTypeScope()
	blk := &ast.BlockStmt{Base: ast.NewBase(begin.Area)}
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.fatal {
		before := p.cur()
		if p.looksLikeDeclStart() {
			declBegin := p.cur()
			spec := p.parseTypeSpecifier()
			name := p.expect(token.Ident, "declarator name").Spelling
			if p.at(token.LParen) {
				fn := p.finishFuncDecl(declBegin, spec, name)
				blk.Stmts = append(blk.Stmts, &ast.DeclStmt{Base: ast.NewBase(declBegin.Area), Decl: fn})
			} else {
				for _, d := range p.finishVarDecl(declBegin, spec, name) {
					blk.Stmts = append(blk.Stmts, &ast.DeclStmt{Base: ast.NewBase(declBegin.Area), Decl: d})
				}
			}
		} else {
			blk.Stmts = append(blk.Stmts, p.parseStmt())
		}
		if p.cur() == before && !p.at(token.EOF) {
			p.advance()
		}
	}
	p.closeTypeScope()
	p.expectSpelling(token.RBrace, "}")
	return blk
}

func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.at(token.Semicolon):
		t := p.advance()
		return &ast.NullStmt{Base: ast.NewBase(t.Area)}
	case p.at(token.LBrace):
		return p.parseBlockStmt()
	case p.at(token.KeywordControl, "if"):
		return p.parseIfStmt()
	case p.at(token.KeywordControl, "while"):
		return p.parseWhileStmt()
	case p.at(token.KeywordControl, "do"):
		return p.parseDoWhileStmt()
	case p.at(token.KeywordControl, "for"):
		return p.parseForStmt()
	case p.at(token.KeywordControl, "switch"):
		return p.parseSwitchStmt()
	case p.at(token.KeywordControl, "return"):
		return p.parseReturnStmt()
	case p.at(token.KeywordControl, "break"):
		t := p.advance()
		p.expectSpelling(token.Semicolon, ";")
		return &ast.JumpStmt{Base: ast.NewBase(t.Area), Kind: ast.JumpBreak}
	case p.at(token.KeywordControl, "continue"):
		t := p.advance()
		p.expectSpelling(token.Semicolon, ";")
		return &ast.JumpStmt{Base: ast.NewBase(t.Area), Kind: ast.JumpContinue}
	case p.at(token.KeywordControl, "discard"):
		t := p.advance()
		p.expectSpelling(token.Semicolon, ";")
		return &ast.JumpStmt{Base: ast.NewBase(t.Area), Kind: ast.JumpDiscard}
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	begin := p.cur()
	x := p.parseExpr()
	p.expectSpelling(token.Semicolon, ";")
	return &ast.ExprStmt{Base: ast.NewBase(begin.Area), X: x}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	begin := p.advance() // "if"
	p.expectSpelling(token.LParen, "(")
	cond := p.parseExpr()
	p.expectSpelling(token.RParen, ")")
	then := p.parseStmt()
	var els ast.Stmt
	if p.at(token.KeywordControl, "else") {
		p.advance()
		els = p.parseStmt()
	}
	return &ast.IfStmt{Base: ast.NewBase(begin.Area), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	begin := p.advance() // "while"
	p.expectSpelling(token.LParen, "(")
	cond := p.parseExpr()
	p.expectSpelling(token.RParen, ")")
	body := p.parseStmt()
	return &ast.WhileStmt{Base: ast.NewBase(begin.Area), Cond: cond, Body: body}
}

func (p *Parser) parseDoWhileStmt() ast.Stmt {
	begin := p.advance() // "do"
	body := p.parseStmt()
	p.expectSpelling(token.KeywordControl, "while")
	p.expectSpelling(token.LParen, "(")
	cond := p.parseExpr()
	p.expectSpelling(token.RParen, ")")
	p.expectSpelling(token.Semicolon, ";")
	return &ast.DoWhileStmt{Base: ast.NewBase(begin.Area), Body: body, Cond: cond}
}

func (p *Parser) parseForStmt() ast.Stmt {
	begin := p.advance() // "for"
	p.expectSpelling(token.LParen, "(")

	var init ast.Stmt
	switch {
	case p.at(token.Semicolon):
		p.advance()
	case p.looksLikeDeclStart():
		declBegin := p.cur()
		spec := p.parseTypeSpecifier()
		name := p.expect(token.Ident, "declarator name").Spelling
		decls := p.finishVarDecl(declBegin, spec, name) // consumes trailing ';'
		if len(decls) > 0 {
			init = &ast.DeclStmt{Base: ast.NewBase(declBegin.Area), Decl: decls[0]}
		}
	default:
		exprBegin := p.cur()
		x := p.parseExpr()
		p.expectSpelling(token.Semicolon, ";")
		init = &ast.ExprStmt{Base: ast.NewBase(exprBegin.Area), X: x}
	}

	var cond ast.Expr
	if !p.at(token.Semicolon) {
		cond = p.parseExpr()
	}
	p.expectSpelling(token.Semicolon, ";")

	var post ast.Expr
	if !p.at(token.RParen) {
		post = p.parseExpr()
	}
	p.expectSpelling(token.RParen, ")")

	body := p.parseStmt()
	return &ast.ForStmt{Base: ast.NewBase(begin.Area), Init: init, Cond: cond, Post: post, Body: body}
}

func (p *Parser) parseSwitchStmt() ast.Stmt {
	begin := p.advance() // "switch"
	p.expectSpelling(token.LParen, "(")
	cond := p.parseExpr()
	p.expectSpelling(token.RParen, ")")
	p.expectSpelling(token.LBrace, "{")
	sw := &ast.SwitchStmt{Base: ast.NewBase(begin.Area), Cond: cond}
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.fatal {
		labelBegin := p.cur()
		var value ast.Expr
		switch {
		case p.at(token.KeywordControl, "case"):
			p.advance()
			value = p.parseExpr()
			p.expectSpelling(token.Colon, ":")
		case p.at(token.KeywordControl, "default"):
			p.advance()
			p.expectSpelling(token.Colon, ":")
		default:
			got := p.cur()
			p.errorf(got.Area, "expected %q or %q, got %q", "case", "default", got.Spelling)
			p.advance()
			continue
		}
		label := &ast.CaseLabel{Base: ast.NewBase(labelBegin.Area), Value: value}
		for !p.at(token.KeywordControl, "case") && !p.at(token.KeywordControl, "default") &&
			!p.at(token.RBrace) && !p.at(token.EOF) && !p.fatal {
			label.Stmts = append(label.Stmts, p.parseStmt())
		}
		sw.Cases = append(sw.Cases, label)
	}
	p.expectSpelling(token.RBrace, "}")
	return sw
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	begin := p.advance() // "return"
	var x ast.Expr
	if !p.at(token.Semicolon) {
		x = p.parseExpr()
	}
	p.expectSpelling(token.Semicolon, ";")
	return &ast.ReturnStmt{Base: ast.NewBase(begin.Area), X: x}
}
