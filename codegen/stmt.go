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

package codegen

import (
	"fmt"

	"github.com/shaderforge/hlslxc/ast"
)

// emitStmt writes one statement, indenting nested blocks through g.w.
func (g *generator) emitStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.NullStmt:
		g.w.Line(";")
	case *ast.BlockStmt:
		g.emitBlockBraced(n)
	case *ast.ExprStmt:
		g.w.Line(g.exprString(n.X) + ";")
	case *ast.DeclStmt:
		g.emitLocalDecl(n.Decl)
	case *ast.IfStmt:
		g.w.Line("if (" + g.exprString(n.Cond) + ")")
		g.emitBracedOrSingle(n.Then)
		if n.Else != nil {
			g.w.Line("else")
			g.emitBracedOrSingle(n.Else)
		}
	case *ast.WhileStmt:
		g.w.Line("while (" + g.exprString(n.Cond) + ")")
		g.emitBracedOrSingle(n.Body)
	case *ast.DoWhileStmt:
		g.w.Line("do")
		g.emitBracedOrSingle(n.Body)
		g.w.Line(fmt.Sprintf("while (%s);", g.exprString(n.Cond)))
	case *ast.ForStmt:
		init, cond, post := "", "", ""
		if n.Init != nil {
			init = g.forClauseString(n.Init)
		}
		if n.Cond != nil {
			cond = g.exprString(n.Cond)
		}
		if n.Post != nil {
			post = g.exprString(n.Post)
		}
		g.w.Line(fmt.Sprintf("for (%s; %s; %s)", init, cond, post))
		g.emitBracedOrSingle(n.Body)
	case *ast.SwitchStmt:
		g.w.Line("switch (" + g.exprString(n.Cond) + ") {")
		g.w.Indent()
		for _, c := range n.Cases {
			if c.Value == nil {
				g.w.Line("default:")
			} else {
				g.w.Line("case " + g.exprString(c.Value) + ":")
			}
			g.w.Indent()
			for _, cs := range c.Stmts {
				g.emitStmt(cs)
			}
			g.w.Unindent()
		}
		g.w.Unindent()
		g.w.Line("}")
	case *ast.ReturnStmt:
		if n.X == nil {
			g.w.Line("return;")
		} else {
			g.w.Line("return " + g.exprString(n.X) + ";")
		}
	case *ast.JumpStmt:
		switch n.Kind {
		case ast.JumpBreak:
			g.w.Line("break;")
		case ast.JumpContinue:
			g.w.Line("continue;")
		case ast.JumpDiscard:
			g.w.Line("discard;")
		}
	default:
		g.w.Line("/* unrepresentable statement */")
	}
}

// forClauseString renders a for-loop init clause, which is syntactically a
// DeclStmt or ExprStmt without its own trailing ';' (the for-header
// supplies that).
func (g *generator) forClauseString(s ast.Stmt) string {
	switch n := s.(type) {
	case *ast.DeclStmt:
		return g.localDeclString(n.Decl)
	case *ast.ExprStmt:
		return g.exprString(n.X)
	default:
		return ""
	}
}

// emitBracedOrSingle writes body, wrapping it in '{ }' when it is already a
// block, or when AlwaysBracedScopes requires bracing a single statement.
func (g *generator) emitBracedOrSingle(body ast.Stmt) {
	if b, ok := body.(*ast.BlockStmt); ok {
		g.emitBlockBraced(b)
		return
	}
	if g.fmtOpts.AlwaysBracedScopes {
		g.emitBlockBraced(&ast.BlockStmt{Stmts: []ast.Stmt{body}})
		return
	}
	g.w.Indent()
	g.emitStmt(body)
	g.w.Unindent()
}

func (g *generator) emitBlockBraced(b *ast.BlockStmt) {
	if g.fmtOpts.NewLineOpenScope {
		g.w.Line("{")
	} else {
		g.w.WriteString(" {\n")
	}
	g.w.Indent()
	for _, s := range b.Stmts {
		g.emitStmt(s)
	}
	g.w.Unindent()
	g.w.Line("}")
}
