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
	"fmt"
	"strings"

	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/intrinsic"
	"github.com/shaderforge/hlslxc/report"
	"github.com/shaderforge/hlslxc/types"
)

type typedNode interface {
	Type() types.Denoter
	SetType(types.Denoter)
}

// analyzeFunctions walks every function body, deriving each expression's
// type lazily and caching it, resolving identifier references against the
// symbol table, and running overload/intrinsic resolution at call sites —
// spec.md §4.5's phases 2–4 combined into one recursive pass, since all
// three need the same live scope stack.
func (a *Analyzer) analyzeFunctions(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *ast.VarDecl:
			n.TypeSpec.Denoter = a.resolveDenoter(n.TypeSpec.Denoter)
			if n.Init != nil {
				a.deriveExpr(n.Init)
			}
		case *ast.UniformBufferDecl:
			for _, f := range n.Fields {
				f.TypeSpec.Denoter = a.resolveDenoter(f.TypeSpec.Denoter)
			}
		case *ast.StructDecl:
			for _, f := range n.Fields {
				f.TypeSpec.Denoter = a.resolveDenoter(f.TypeSpec.Denoter)
			}
			for _, m := range n.Methods {
				a.analyzeFunc(m)
			}
		case *ast.FuncDecl:
			a.analyzeFunc(n)
		}
	}
}

func (a *Analyzer) analyzeFunc(fn *ast.FuncDecl) {
	fn.ReturnType.Denoter = a.resolveDenoter(fn.ReturnType.Denoter)
	if fn.Body == nil {
		return
	}
	a.syms.OpenScope()
	defer a.syms.CloseScope()
	for _, p := range fn.Params {
		p.TypeSpec.Denoter = a.resolveDenoter(p.TypeSpec.Denoter)
		if p.Default != nil {
			a.deriveExpr(p.Default)
		}
		a.syms.Insert(p.Name, p)
	}
	a.analyzeBlock(fn.Body)
}

func (a *Analyzer) analyzeBlock(b *ast.BlockStmt) {
	a.syms.OpenScope()
	defer a.syms.CloseScope()
	for _, s := range b.Stmts {
		a.analyzeStmt(s)
	}
}

func (a *Analyzer) analyzeStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.DeclStmt:
		switch d := n.Decl.(type) {
		case *ast.VarDecl:
			d.TypeSpec.Denoter = a.resolveDenoter(d.TypeSpec.Denoter)
			if d.Init != nil {
				a.deriveExpr(d.Init)
			}
			if a.syms.LookupShadowed(d.Name) {
				a.warnf(report.DeclarationShadowing, d, "declaration of %q shadows an outer declaration", d.Name)
			}
			a.syms.Insert(d.Name, d)
		case *ast.BufferDecl:
			a.syms.Insert(d.Name, d)
		case *ast.SamplerDecl:
			a.syms.Insert(d.Name, d)
		}
	case *ast.BlockStmt:
		a.analyzeBlock(n)
	case *ast.ExprStmt:
		a.deriveExpr(n.X)
	case *ast.IfStmt:
		a.deriveExpr(n.Cond)
		a.analyzeStmt(n.Then)
		if n.Else != nil {
			a.analyzeStmt(n.Else)
		}
	case *ast.WhileStmt:
		a.deriveExpr(n.Cond)
		a.analyzeStmt(n.Body)
	case *ast.DoWhileStmt:
		a.analyzeStmt(n.Body)
		a.deriveExpr(n.Cond)
	case *ast.ForStmt:
		a.syms.OpenScope()
		defer a.syms.CloseScope()
		if n.Init != nil {
			a.analyzeStmt(n.Init)
		}
		if n.Cond != nil {
			a.deriveExpr(n.Cond)
		}
		if n.Post != nil {
			a.deriveExpr(n.Post)
		}
		a.analyzeStmt(n.Body)
	case *ast.SwitchStmt:
		a.deriveExpr(n.Cond)
		for _, c := range n.Cases {
			if c.Value != nil {
				a.deriveExpr(c.Value)
			}
			for _, cs := range c.Stmts {
				a.analyzeStmt(cs)
			}
		}
	case *ast.ReturnStmt:
		if n.X != nil {
			a.deriveExpr(n.X)
		}
	}
}

// deriveExpr computes e's type denoter if not already cached, resolving
// identifiers, member accesses, subscripts and call sites along the way.
// Per spec.md §3's invariant, a second call returns the same cached value.
func (a *Analyzer) deriveExpr(e ast.Expr) types.Denoter {
	tn, ok := e.(typedNode)
	if ok {
		if t := tn.Type(); t != nil {
			return t
		}
	}
	var result types.Denoter
	switch n := e.(type) {
	case *ast.Literal:
		result = a.deriveLiteral(n)
	case *ast.Ident:
		result = a.deriveIdent(n)
	case *ast.MemberAccess:
		result = a.deriveMemberAccess(n)
	case *ast.Subscript:
		result = a.deriveSubscript(n)
	case *ast.Call:
		result = a.deriveCall(n)
	case *ast.BinOp:
		result = a.deriveBinOp(n)
	case *ast.UnaryOp:
		result = a.deriveExpr(n.X)
	case *ast.PostUnaryOp:
		result = a.deriveExpr(n.X)
	case *ast.Ternary:
		a.deriveExpr(n.Cond)
		thenT := a.deriveExpr(n.Then)
		elseT := a.deriveExpr(n.Else)
		if types.Equal(thenT, elseT) {
			result = thenT
		} else if types.CanImplicitlyConvert(elseT, thenT) {
			result = thenT
		} else {
			result = elseT
		}
	case *ast.Cast:
		n.TypeSpec.Denoter = a.resolveDenoter(n.TypeSpec.Denoter)
		from := a.deriveExpr(n.X)
		if !types.CanExplicitlyCast(from, n.TypeSpec.Denoter) {
			a.errorf(n, "cannot cast %s to %s", from, n.TypeSpec.Denoter)
		}
		result = n.TypeSpec.Denoter
	case *ast.Bracket:
		result = a.deriveExpr(n.X)
	case *ast.InitializerList:
		var last types.Denoter = types.Void{}
		for _, el := range n.Elems {
			last = a.deriveExpr(el)
		}
		result = last
	case *ast.Sequence:
		var last types.Denoter = types.Void{}
		for _, el := range n.Exprs {
			last = a.deriveExpr(el)
		}
		result = last
	case *ast.TypeExpr:
		n.TypeSpec.Denoter = a.resolveDenoter(n.TypeSpec.Denoter)
		result = n.TypeSpec.Denoter
	default:
		result = types.Void{}
	}
	if ok {
		tn.SetType(result)
	}
	return result
}

func (a *Analyzer) deriveLiteral(n *ast.Literal) types.Denoter {
	switch n.Kind {
	case ast.LitInt:
		return types.Base{Elem: types.Int, Rows: 1, Cols: 1}
	case ast.LitFloat:
		return types.Base{Elem: types.Float, Rows: 1, Cols: 1}
	case ast.LitString:
		return types.Base{Elem: types.StringElem, Rows: 1, Cols: 1}
	case ast.LitBool:
		return types.Base{Elem: types.Bool, Rows: 1, Cols: 1}
	case ast.LitNull:
		return types.Null{}
	default:
		return types.Void{}
	}
}

func (a *Analyzer) deriveIdent(n *ast.Ident) types.Denoter {
	decl := a.syms.Lookup(n.Name)
	if decl == nil {
		if fns := a.syms.LookupFuncs(n.Name); len(fns) > 0 {
			n.ResolvedDecl = fns[0]
			return types.Void{} // resolved fully once the enclosing Call picks an overload
		}
		a.errorf(n, "undeclared identifier %q", n.Name)
		return types.Void{}
	}
	n.ResolvedDecl = decl
	t := a.declType(decl)
	for range n.Indices {
		t = elementOf(t)
	}
	for _, ix := range n.Indices {
		a.deriveExpr(ix)
	}
	return t
}

func (a *Analyzer) declType(decl ast.Node) types.Denoter {
	switch d := decl.(type) {
	case *ast.VarDecl:
		d.TypeSpec.Denoter = a.resolveDenoter(d.TypeSpec.Denoter)
		return d.Denoter()
	case *ast.Param:
		d.TypeSpec.Denoter = a.resolveDenoter(d.TypeSpec.Denoter)
		return d.TypeSpec.Denoter
	case *ast.BufferDecl:
		return d.TypeSpec.Denoter
	case *ast.SamplerDecl:
		return d.TypeSpec.Denoter
	default:
		return types.Void{}
	}
}

func elementOf(t types.Denoter) types.Denoter {
	switch v := types.Resolve(t).(type) {
	case types.Array:
		if len(v.Dims) <= 1 {
			return v.Base
		}
		return types.Array{Base: v.Base, Dims: v.Dims[1:]}
	case types.Base:
		if v.IsMatrix() {
			return types.Base{Elem: v.Elem, Rows: v.Cols, Cols: 1}
		}
		if v.IsVector() {
			return types.Base{Elem: v.Elem, Rows: 1, Cols: 1}
		}
		return v
	default:
		return t
	}
}

func (a *Analyzer) deriveMemberAccess(n *ast.MemberAccess) types.Denoter {
	xt := a.deriveExpr(n.X)
	if isSwizzleName(n.Name) {
		n.IsSwizzle = true
		if mixesSwizzleSets(n.Name) {
			a.errorf(n, "swizzle %q mixes the xyzw and rgba component sets", n.Name)
			return types.Void{}
		}
		if base, ok := types.Resolve(xt).(types.Base); ok {
			if len(n.Name) == 1 {
				return types.Base{Elem: base.Elem, Rows: 1, Cols: 1}
			}
			return types.Base{Elem: base.Elem, Rows: len(n.Name), Cols: 1}
		}
	}
	if isMatrixSubscriptName(n.Name) {
		if base, ok := types.Resolve(xt).(types.Base); ok {
			return types.Base{Elem: base.Elem, Rows: 1, Cols: 1}
		}
	}
	if st, ok := types.Resolve(xt).(types.Structure); ok {
		if decl, ok := st.Decl.(*ast.StructDecl); ok {
			if field, shadows, found := decl.FindField(n.Name); found {
				if shadows {
					a.warnf(report.DeclarationShadowing, n, "member %q shadows a base-struct member", n.Name)
				}
				n.ResolvedField = field
				field.TypeSpec.Denoter = a.resolveDenoter(field.TypeSpec.Denoter)
				return field.Denoter()
			}
		}
	}
	a.errorf(n, "type %s has no member %q", xt, n.Name)
	return types.Void{}
}

func isSwizzleName(name string) bool {
	if len(name) == 0 || len(name) > 4 {
		return false
	}
	for _, c := range name {
		switch c {
		case 'x', 'y', 'z', 'w', 'r', 'g', 'b', 'a':
		default:
			return false
		}
	}
	return true
}

// mixesSwizzleSets reports whether name draws components from both the
// xyzw and rgba alphabets, which neither HLSL nor GLSL permits.
func mixesSwizzleSets(name string) bool {
	var xyzw, rgba bool
	for _, c := range name {
		switch c {
		case 'x', 'y', 'z', 'w':
			xyzw = true
		default:
			rgba = true
		}
	}
	return xyzw && rgba
}

// isMatrixSubscriptName reports whether name has the form "_mRC" (1-based
// row/column digits 1..4), spec.md §3's matrix-subscript member-access
// spelling.
func isMatrixSubscriptName(name string) bool {
	return len(name) == 4 && name[0] == '_' && name[1] == 'm' &&
		name[2] >= '1' && name[2] <= '4' && name[3] >= '1' && name[3] <= '4'
}

func (a *Analyzer) deriveSubscript(n *ast.Subscript) types.Denoter {
	xt := a.deriveExpr(n.X)
	a.deriveExpr(n.Index)
	return elementOf(xt)
}

func (a *Analyzer) deriveBinOp(n *ast.BinOp) types.Denoter {
	lt := a.deriveExpr(n.LHS)
	rt := a.deriveExpr(n.RHS)
	switch n.Op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return types.Base{Elem: types.Bool, Rows: 1, Cols: 1}
	}
	if types.Equal(lt, rt) {
		return lt
	}
	if types.CanImplicitlyConvert(rt, lt) {
		a.warnf(report.ImplicitTypeConversions, n, "implicit conversion of right operand from %s to %s", rt, lt)
		return lt
	}
	if types.CanImplicitlyConvert(lt, rt) {
		a.warnf(report.ImplicitTypeConversions, n, "implicit conversion of left operand from %s to %s", lt, rt)
		return rt
	}
	a.errorf(n, "no common type for %s %s %s", lt, n.Op, rt)
	return lt
}

func (a *Analyzer) deriveCall(n *ast.Call) types.Denoter {
	callee, isIdent := n.Callee.(*ast.Ident)
	argTypes := make([]types.Denoter, len(n.Args))
	for i, arg := range n.Args {
		argTypes[i] = a.deriveExpr(arg)
	}

	if isIdent && intrinsic.IsIntrinsic(callee.Name) {
		ret, cand, err := intrinsic.ReturnTypeFor(callee.Name, argTypes)
		if err != nil {
			a.errorf(n, "%v", err)
			return types.Void{}
		}
		n.IntrinsicID = callee.Name
		for _, ix := range intrinsic.OutputParameterIndices(cand) {
			if ix < len(n.Args) && !isLValue(n.Args[ix]) {
				a.errorf(n.Args[ix], "argument %d of %q is an output parameter and must be an l-value", ix+1, callee.Name)
			}
		}
		a.recordIntrinsicUse(callee.Name, argTypes)
		return ret
	}

	if isIdent {
		overloads := a.syms.LookupFuncs(callee.Name)
		if len(overloads) == 0 {
			a.errorf(n, "call to undeclared function %q", callee.Name)
			return types.Void{}
		}
		fn, err := a.resolveFuncOverload(callee.Name, overloads, argTypes, n)
		if err != nil {
			if amb, ok := err.(*ambiguityError); ok {
				a.errorWithHints(n, amb.Error(), candidateHints(amb.cands))
			} else {
				a.errorf(n, "%v", err)
			}
			return types.Void{}
		}
		n.ResolvedFunc = fn
		for i := len(n.Args); i < len(fn.Params); i++ {
			n.DefaultBackfills = append(n.DefaultBackfills, fn.Params[i].Default)
		}
		fn.ReturnType.Denoter = a.resolveDenoter(fn.ReturnType.Denoter)
		return fn.ReturnType.Denoter
	}

	// Member-function call or type constructor; fall back to the callee's
	// own derived type (a constructor call's "function" is really a
	// TypeExpr standing in for the type being constructed).
	return a.deriveExpr(n.Callee)
}

func (a *Analyzer) resolveFuncOverload(name string, overloads []*ast.FuncDecl, argTypes []types.Denoter, at ast.Node) (*ast.FuncDecl, error) {
	var candidates []*ast.FuncDecl
	for _, fn := range overloads {
		if len(argTypes) >= fn.RequiredParamCount() && len(argTypes) <= len(fn.Params) {
			candidates = append(candidates, fn)
		}
	}
	var exact []*ast.FuncDecl
	for _, fn := range candidates {
		if matchesFuncExactly(fn, argTypes, a) {
			exact = append(exact, fn)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}
	if len(exact) > 1 {
		return nil, ambiguousFuncCall(name, exact)
	}
	var implicit []*ast.FuncDecl
	for _, fn := range candidates {
		if matchesFuncWithConversion(fn, argTypes, a) {
			implicit = append(implicit, fn)
		}
	}
	switch len(implicit) {
	case 0:
		return nil, noMatchingFuncCall(name, overloads)
	case 1:
		return implicit[0], nil
	default:
		return nil, ambiguousFuncCall(name, implicit)
	}
}

func matchesFuncExactly(fn *ast.FuncDecl, argTypes []types.Denoter, a *Analyzer) bool {
	for i, at := range argTypes {
		fn.Params[i].TypeSpec.Denoter = a.resolveDenoter(fn.Params[i].TypeSpec.Denoter)
		if !types.Equal(at, fn.Params[i].TypeSpec.Denoter) {
			return false
		}
	}
	return true
}

func matchesFuncWithConversion(fn *ast.FuncDecl, argTypes []types.Denoter, a *Analyzer) bool {
	for i, at := range argTypes {
		fn.Params[i].TypeSpec.Denoter = a.resolveDenoter(fn.Params[i].TypeSpec.Denoter)
		pt := fn.Params[i].TypeSpec.Denoter
		if !types.Equal(at, pt) && !types.CanImplicitlyConvert(at, pt) {
			return false
		}
	}
	return true
}

// isLValue reports whether e designates assignable storage: a resolved
// identifier, a member access or subscript of one, or any of those inside
// brackets.
func isLValue(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.Ident:
		return true
	case *ast.MemberAccess:
		return isLValue(n.X)
	case *ast.Subscript:
		return isLValue(n.X)
	case *ast.Bracket:
		return isLValue(n.X)
	default:
		return false
	}
}

// ambiguityError carries the equally-matching candidates so the caller can
// attach each one's signature and source position as hint lines.
type ambiguityError struct {
	name  string
	cands []*ast.FuncDecl
}

func (e *ambiguityError) Error() string {
	return fmt.Sprintf("ambiguous call to %q; %d overloads match equally well", e.name, len(e.cands))
}

func ambiguousFuncCall(name string, cands []*ast.FuncDecl) error {
	return &ambiguityError{name: name, cands: cands}
}

func candidateHints(cands []*ast.FuncDecl) []string {
	hints := make([]string, len(cands))
	for i, fn := range cands {
		pos := fn.Area().Begin
		hints[i] = fmt.Sprintf("candidate: %s at %s:%d:%d", funcSignature(fn), pos.Name, pos.Line, pos.Column)
	}
	return hints
}

func funcSignature(fn *ast.FuncDecl) string {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.TypeSpec.Denoter.String()
	}
	return fmt.Sprintf("%s %s(%s)", fn.ReturnType.Denoter, fn.Name, strings.Join(params, ", "))
}

func noMatchingFuncCall(name string, overloads []*ast.FuncDecl) error {
	return fmt.Errorf("no overload of %q matches the given argument types (%d candidates considered)", name, len(overloads))
}

// recordIntrinsicUse appends argTypes' spellings to ident's signature set
// on a.prog.UsedIntrinsics, the program-wide record the extension planner
// (spec.md §4.7) and code generator's wrapper prescan (spec.md §4.8) both
// read after analysis completes. Duplicate signatures are not re-added.
func (a *Analyzer) recordIntrinsicUse(ident string, argTypes []types.Denoter) {
	sig := make([]string, len(argTypes))
	for i, t := range argTypes {
		sig[i] = t.String()
	}
	for _, existing := range a.prog.UsedIntrinsics[ident] {
		if equalSig(existing, sig) {
			return
		}
	}
	a.prog.UsedIntrinsics[ident] = append(a.prog.UsedIntrinsics[ident], sig)
}

func equalSig(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
