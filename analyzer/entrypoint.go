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
	"strconv"
	"strings"

	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/mangle"
	"github.com/shaderforge/hlslxc/stage"
	"github.com/shaderforge/hlslxc/types"
)

// transformEntryPoints is spec.md §4.5 phase 5: every semantic-tagged
// entry-point parameter and return value is lifted into a global in/out
// variable, and a synthesized wrapper function performs the input-read,
// original-body-call, output-write sequence. The original function is
// kept in the program (renamed by the code generator, never by the
// analyzer, which only records the EntryPointIO linking them).
func (a *Analyzer) transformEntryPoints(prog *ast.Program) {
	names := []string{a.opts.EntryPoint}
	if a.opts.SecondaryEntryPoint != "" {
		names = append(names, a.opts.SecondaryEntryPoint)
	}
	for _, fn := range prog.EntryPoints(names...) {
		a.transformEntryPoint(prog, fn)
	}
}

func (a *Analyzer) transformEntryPoint(prog *ast.Program, fn *ast.FuncDecl) {
	a.checkNumThreads(fn)
	io := &EntryPointIO{Original: fn}

	var callArgs []ast.Expr
	for _, p := range fn.Params {
		if p.Semantic == "" {
			if st := structOf(p.TypeSpec.Denoter); st != nil {
				exploded, members := a.explodeStructInputs(st)
				io.Inputs = append(io.Inputs, exploded...)
				callArgs = append(callArgs, a.buildInitializer(p.TypeSpec, st, members))
				continue
			}
			a.errorf(p, "entry-point parameter %q carries no semantic", p.Name)
			continue
		}
		g := &ast.VarDecl{TypeSpec: p.TypeSpec, Name: a.inputGlobalName(p.Semantic), Semantic: p.Semantic}
		io.Inputs = append(io.Inputs, g)
		callArgs = append(callArgs, &ast.Ident{Name: g.Name, ResolvedDecl: g})
	}

	resultName := mangle.Mangle(a.opts.Mangling, mangle.Entity{Kind: mangle.Temporary, Name: "result"})
	var bodyStmts []ast.Stmt
	call := &ast.Call{Callee: &ast.Ident{Name: fn.Name, ResolvedDecl: fn}, Args: callArgs, ResolvedFunc: fn}

	if _, isVoid := types.Resolve(fn.ReturnType.Denoter).(types.Void); isVoid {
		bodyStmts = append(bodyStmts, &ast.ExprStmt{X: call})
	} else if st := structOf(fn.ReturnType.Denoter); st != nil {
		result := &ast.VarDecl{TypeSpec: fn.ReturnType, Name: resultName, Init: call}
		bodyStmts = append(bodyStmts, &ast.DeclStmt{Decl: result})
		for _, f := range st.Fields {
			if f.Semantic == "" {
				a.errorf(f, "entry-point return field %q carries no semantic", f.Name)
				continue
			}
			g := &ast.VarDecl{TypeSpec: f.TypeSpec, Name: a.outputGlobalName(f.Semantic), Semantic: f.Semantic}
			io.Outputs = append(io.Outputs, g)
			assign := &ast.BinOp{Op: "=",
				LHS: &ast.Ident{Name: g.Name, ResolvedDecl: g},
				RHS: &ast.MemberAccess{X: &ast.Ident{Name: resultName, ResolvedDecl: result}, Name: f.Name, ResolvedField: f},
			}
			bodyStmts = append(bodyStmts, &ast.ExprStmt{X: assign})
		}
	} else {
		if fn.Semantic == "" {
			a.errorf(fn, "entry-point %q return value carries no semantic", fn.Name)
		}
		g := &ast.VarDecl{TypeSpec: fn.ReturnType, Name: a.outputGlobalName(fn.Semantic), Semantic: fn.Semantic}
		io.Outputs = append(io.Outputs, g)
		assign := &ast.BinOp{Op: "=", LHS: &ast.Ident{Name: g.Name, ResolvedDecl: g}, RHS: call}
		bodyStmts = append(bodyStmts, &ast.ExprStmt{X: assign})
	}

	seen := map[string]bool{}
	for _, out := range io.Outputs {
		if seen[out.Semantic] {
			a.errorf(fn, "duplicate output semantic %q on entry point %q", out.Semantic, fn.Name)
		}
		seen[out.Semantic] = true
	}

	wrapper := &ast.FuncDecl{
		ReturnType: &ast.TypeSpecifier{Denoter: types.Void{}},
		Name:       "main",
		Body:       &ast.BlockStmt{Stmts: bodyStmts},
	}
	io.Wrapper = wrapper
	a.EntryPoints[fn] = io
	prog.Decls = append(prog.Decls, wrapper)
	if prog.Reachable == nil {
		prog.Reachable = map[*ast.FuncDecl]bool{}
	}
	prog.Reachable[wrapper] = true
}

// checkNumThreads validates a compute entry's "[numthreads(x,y,z)]"
// attribute: exactly three axes, each a positive integer literal.
func (a *Analyzer) checkNumThreads(fn *ast.FuncDecl) {
	args, ok := fn.Attributes["numthreads"]
	if !ok {
		if a.opts.Stage == stage.Compute {
			a.errorf(fn, "compute entry point %q has no [numthreads] attribute", fn.Name)
		}
		return
	}
	if len(args) != 3 {
		a.errorf(fn, "[numthreads] takes exactly three arguments, got %d", len(args))
		return
	}
	for i, arg := range args {
		lit, isLit := arg.(*ast.Literal)
		if !isLit || lit.Kind != ast.LitInt {
			a.errorf(arg, "[numthreads] axis %d must be an integer literal", i+1)
			continue
		}
		if v, err := strconv.Atoi(strings.TrimRight(lit.Spelling, "uUlL")); err != nil || v < 1 {
			a.errorf(arg, "[numthreads] axis %d must be positive, got %s", i+1, lit.Spelling)
		}
	}
}

func structOf(d types.Denoter) *ast.StructDecl {
	st, ok := types.Resolve(d).(types.Structure)
	if !ok {
		return nil
	}
	decl, _ := st.Decl.(*ast.StructDecl)
	return decl
}

// explodeStructInputs lifts every semantic-tagged field of a struct-typed
// entry parameter into its own global input, returning them alongside the
// field declarations so the caller can rebuild an aggregate initializer.
func (a *Analyzer) explodeStructInputs(st *ast.StructDecl) ([]*ast.VarDecl, []*ast.VarDecl) {
	var globals []*ast.VarDecl
	for _, f := range st.Fields {
		if f.Semantic == "" {
			a.errorf(f, "entry-point input field %q carries no semantic", f.Name)
			continue
		}
		globals = append(globals, &ast.VarDecl{TypeSpec: f.TypeSpec, Name: a.inputGlobalName(f.Semantic), Semantic: f.Semantic})
	}
	return globals, st.Fields
}

// buildInitializer constructs a "{ xsv_A, xsv_B, ... }" aggregate
// initializer reassembling a struct-typed entry parameter from the
// exploded global inputs, in field declaration order.
func (a *Analyzer) buildInitializer(spec *ast.TypeSpecifier, st *ast.StructDecl, fields []*ast.VarDecl) ast.Expr {
	var elems []ast.Expr
	for _, f := range fields {
		if f.Semantic == "" {
			continue
		}
		elems = append(elems, &ast.Ident{Name: a.inputGlobalName(f.Semantic)})
	}
	return &ast.InitializerList{Elems: elems}
}

func (a *Analyzer) inputGlobalName(semantic string) string {
	return mangle.Mangle(a.opts.Mangling, mangle.Entity{Kind: mangle.Input, Name: semantic})
}

func (a *Analyzer) outputGlobalName(semantic string) string {
	return mangle.Mangle(a.opts.Mangling, mangle.Entity{Kind: mangle.Output, Name: semantic})
}
