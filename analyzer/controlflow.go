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

package analyzer

import (
	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/types"
)

// checkControlFlow is spec.md §4.5 phase 7: every non-void function must
// have all control paths terminating in return.
func (a *Analyzer) checkControlFlow(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *ast.FuncDecl:
			a.checkFuncReturns(n)
		case *ast.StructDecl:
			for _, m := range n.Methods {
				a.checkFuncReturns(m)
			}
		}
	}
}

func (a *Analyzer) checkFuncReturns(fn *ast.FuncDecl) {
	if fn.Body == nil {
		return
	}
	if _, isVoid := types.Resolve(fn.ReturnType.Denoter).(types.Void); isVoid {
		return
	}
	if !blockAlwaysReturns(fn.Body) {
		a.errorf(fn, "not all control paths of %q return a value", fn.Name)
	}
}

// blockAlwaysReturns reports whether every execution path through b ends
// in a return (or an unconditional discard, treated as terminal for this
// check since it never falls through to the function's implicit end).
func blockAlwaysReturns(b *ast.BlockStmt) bool {
	for _, s := range b.Stmts {
		if stmtAlwaysReturns(s) {
			return true
		}
	}
	return false
}

func stmtAlwaysReturns(s ast.Stmt) bool {
	switch n := s.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.JumpStmt:
		return n.Kind == ast.JumpDiscard
	case *ast.BlockStmt:
		return blockAlwaysReturns(n)
	case *ast.IfStmt:
		if n.Else == nil {
			return false
		}
		return stmtAlwaysReturns(n.Then) && stmtAlwaysReturns(n.Else)
	case *ast.SwitchStmt:
		hasDefault := false
		for _, c := range n.Cases {
			if c.Value == nil {
				hasDefault = true
			}
			if !caseAlwaysReturns(c) {
				return false
			}
		}
		return hasDefault
	case *ast.WhileStmt:
		return isAlwaysTrue(n.Cond) && !containsBreak(n.Body)
	case *ast.DoWhileStmt:
		return stmtAlwaysReturns(n.Body) || (isAlwaysTrue(n.Cond) && !containsBreak(n.Body))
	case *ast.ForStmt:
		return n.Cond == nil && !containsBreak(n.Body)
	default:
		return false
	}
}

func caseAlwaysReturns(c *ast.CaseLabel) bool {
	for _, s := range c.Stmts {
		if stmtAlwaysReturns(s) {
			return true
		}
		if _, ok := s.(*ast.JumpStmt); ok {
			// explicit break: this case falls out of the switch without
			// returning.
			return false
		}
	}
	// no break and no return: falls through to the next case, which the
	// caller checks independently; from this case alone we cannot promise
	// a return, so be conservative.
	return false
}

func isAlwaysTrue(cond ast.Expr) bool {
	lit, ok := cond.(*ast.Literal)
	return ok && lit.Kind == ast.LitBool && lit.Spelling == "true"
}

// containsBreak reports whether s contains a break statement that would
// exit the nearest enclosing loop (not recursing into nested loops or
// switches, which catch their own breaks).
func containsBreak(s ast.Stmt) bool {
	found := false
	var walk func(ast.Stmt)
	walk = func(s ast.Stmt) {
		switch n := s.(type) {
		case *ast.JumpStmt:
			if n.Kind == ast.JumpBreak {
				found = true
			}
		case *ast.BlockStmt:
			for _, c := range n.Stmts {
				walk(c)
			}
		case *ast.IfStmt:
			walk(n.Then)
			if n.Else != nil {
				walk(n.Else)
			}
		case *ast.WhileStmt, *ast.DoWhileStmt, *ast.ForStmt, *ast.SwitchStmt:
			// a break inside a nested loop/switch targets that construct,
			// not this one.
		}
	}
	walk(s)
	return found
}
