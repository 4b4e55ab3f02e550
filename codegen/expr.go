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
	"strings"

	"github.com/shaderforge/hlslxc/ast"
)

// exprString renders e as a single-line GLSL expression, resolving
// identifier names through g.nameOf so the obfuscation and name-mangling
// options apply uniformly everywhere an identifier can appear.
func (g *generator) exprString(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Literal:
		return literalString(v)
	case *ast.Ident:
		s := g.nameOf(v.Name, v.ResolvedDecl)
		for _, idx := range v.Indices {
			s += "[" + g.exprString(idx) + "]"
		}
		return s
	case *ast.MemberAccess:
		x := g.exprString(v.X)
		if row, col, ok := MatrixSubscript(v.Name); ok {
			return fmt.Sprintf("%s[%d][%d]", x, row, col)
		}
		return x + "." + v.Name
	case *ast.Subscript:
		return g.exprString(v.X) + "[" + g.exprString(v.Index) + "]"
	case *ast.Call:
		return g.callString(v)
	case *ast.BinOp:
		return g.exprString(v.LHS) + " " + v.Op + " " + g.exprString(v.RHS)
	case *ast.UnaryOp:
		return v.Op + g.exprString(v.X)
	case *ast.PostUnaryOp:
		return g.exprString(v.X) + v.Op
	case *ast.Ternary:
		return g.exprString(v.Cond) + " ? " + g.exprString(v.Then) + " : " + g.exprString(v.Else)
	case *ast.Cast:
		name, err := TypeName(v.TypeSpec.Denoter)
		if err != nil {
			name = "/* " + err.Error() + " */float"
		}
		return name + "(" + g.exprString(v.X) + ")"
	case *ast.Bracket:
		return "(" + g.exprString(v.X) + ")"
	case *ast.InitializerList:
		parts := make([]string, len(v.Elems))
		for i, el := range v.Elems {
			parts[i] = g.exprString(el)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ast.Sequence:
		parts := make([]string, len(v.Exprs))
		for i, el := range v.Exprs {
			parts[i] = g.exprString(el)
		}
		return strings.Join(parts, ", ")
	case *ast.TypeExpr:
		name, err := TypeName(v.TypeSpec.Denoter)
		if err != nil {
			return "/* " + err.Error() + " */"
		}
		return name
	default:
		return "/* unrepresentable expression */"
	}
}

func literalString(lit *ast.Literal) string {
	switch lit.Kind {
	case ast.LitFloat:
		s := lit.Spelling
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return strings.TrimRight(strings.TrimRight(s, "fFhH"), "")
	case ast.LitInt:
		return strings.TrimRight(lit.Spelling, "uUlL")
	case ast.LitBool, ast.LitString:
		return lit.Spelling
	case ast.LitNull:
		return "0"
	default:
		return lit.Spelling
	}
}

// callString renders a Call, dispatching to the intrinsic strategy when
// IntrinsicID is set and to a plain user-function call otherwise.
func (g *generator) callString(c *ast.Call) string {
	args := make([]string, len(c.Args)+len(c.DefaultBackfills))
	for i, a := range c.Args {
		args[i] = g.exprString(a)
	}
	for i, a := range c.DefaultBackfills {
		args[len(c.Args)+i] = g.exprString(a)
	}
	if c.IntrinsicID != "" {
		return g.intrinsicCall(c, args)
	}
	name := ""
	switch callee := c.Callee.(type) {
	case *ast.Ident:
		name = g.nameOf(callee.Name, c.ResolvedFunc)
	case *ast.MemberAccess:
		name = g.exprString(callee.X) + "_" + callee.Name
	case *ast.TypeExpr:
		n, err := TypeName(callee.TypeSpec.Denoter)
		if err == nil {
			name = n
		}
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}
