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

package ast

import "github.com/shaderforge/hlslxc/types"

// typed is embedded by every expression node to provide the type-denoter
// cache spec.md §3 requires: computed once by the analyzer, invalidated
// explicitly (e.g. on literal retyping) rather than recomputed eagerly.
type typed struct {
	denoter types.Denoter
}

// Type returns the cached denoter, or nil if the analyzer has not yet
// visited this node.
func (t *typed) Type() types.Denoter { return t.denoter }

// SetType installs the analyzer's derived denoter.
func (t *typed) SetType(d types.Denoter) { t.denoter = d }

// InvalidateType clears the cache, forcing the analyzer to re-derive it.
func (t *typed) InvalidateType() { t.denoter = nil }

// LiteralKind partitions Literal.Kind the way the scanner's token.Kind
// literal subset does.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitBool
	LitNull
)

// Literal is a literal constant expression.
type Literal struct {
	Base
	typed
	Kind    LiteralKind
	Spelling string
}

func (*Literal) isNode() {}
func (*Literal) isExpr() {}

// Ident is an identifier reference, with an optional accumulated
// array-index list (for "arr[i][j]" folded during parsing before the
// subscript's element type is known) and a link to the resolved
// declaration once the analyzer runs.
type Ident struct {
	Base
	typed
	Name    string
	Indices []Expr // accumulated subscripts; empty until folded

	// ResolvedDecl is the declaration this identifier names: *VarDecl,
	// *BufferDecl, *SamplerDecl, *Param or *FuncDecl (for a bare function
	// reference preceding a Call). Set by the analyzer; exactly one
	// non-nil value after a successful analysis pass, per spec.md §3's
	// invariant.
	ResolvedDecl Node
}

func (*Ident) isNode() {}
func (*Ident) isExpr() {}

// MemberAccess is a "X.Name" expression (struct field, swizzle, or method
// reference awaiting a following Call).
type MemberAccess struct {
	Base
	typed
	X    Expr
	Name string

	// ResolvedField is the struct field this access names, nil for a
	// swizzle (recognized instead via IsSwizzle) or a method reference.
	ResolvedField *VarDecl
	IsSwizzle     bool
}

func (*MemberAccess) isNode() {}
func (*MemberAccess) isExpr() {}

// Subscript is an "X[Index]" array/vector/matrix element access.
type Subscript struct {
	Base
	typed
	X     Expr
	Index Expr
}

func (*Subscript) isNode() {}
func (*Subscript) isExpr() {}

// Call is a function call, intrinsic invocation or constructor-style
// "Type(args...)" expression.
type Call struct {
	Base
	typed
	Callee Expr // an Ident (free function or intrinsic name) or MemberAccess (method call)
	Args   []Expr

	// IntrinsicID is non-empty when Callee names an intrinsic rather than
	// a user function; set by the analyzer's overload-and-intrinsic
	// resolution pass.
	IntrinsicID string
	// ResolvedFunc is the resolved user-function declaration, nil when
	// IntrinsicID is set instead.
	ResolvedFunc *FuncDecl
	// DefaultBackfills holds the synthesized default-argument expressions
	// appended after Args to reach ResolvedFunc's full parameter count,
	// per spec.md §3's "missing trailing args are filled with parameter
	// defaults" invariant.
	DefaultBackfills []Expr
}

func (*Call) isNode() {}
func (*Call) isExpr() {}

// BinOp is a binary operator expression ("a OP b").
type BinOp struct {
	Base
	typed
	Op       string
	LHS, RHS Expr
}

func (*BinOp) isNode() {}
func (*BinOp) isExpr() {}

// UnaryOp is a prefix unary operator expression ("OP a").
type UnaryOp struct {
	Base
	typed
	Op string
	X  Expr
}

func (*UnaryOp) isNode() {}
func (*UnaryOp) isExpr() {}

// PostUnaryOp is a postfix "a++"/"a--" expression.
type PostUnaryOp struct {
	Base
	typed
	Op string
	X  Expr
}

func (*PostUnaryOp) isNode() {}
func (*PostUnaryOp) isExpr() {}

// Ternary is a "Cond ? Then : Else" conditional expression.
type Ternary struct {
	Base
	typed
	Cond, Then, Else Expr
}

func (*Ternary) isNode() {}
func (*Ternary) isExpr() {}

// Cast is an explicit "(TypeSpec)X" conversion expression.
type Cast struct {
	Base
	typed
	TypeSpec *TypeSpecifier
	X        Expr
}

func (*Cast) isNode() {}
func (*Cast) isExpr() {}

// Bracket is a parenthesized expression, kept as its own node (rather than
// collapsed away) so the code generator can honor explicit grouping the
// author wrote when operator precedence would not otherwise require it.
type Bracket struct {
	Base
	typed
	X Expr
}

func (*Bracket) isNode() {}
func (*Bracket) isExpr() {}

// InitializerList is a brace-enclosed "{ a, b, c }" aggregate initializer.
type InitializerList struct {
	Base
	typed
	Elems []Expr
}

func (*InitializerList) isNode() {}
func (*InitializerList) isExpr() {}

// Sequence is a comma-operator expression "a, b, c", evaluated left to
// right with the type and value of the last operand.
type Sequence struct {
	Base
	typed
	Exprs []Expr
}

func (*Sequence) isNode() {}
func (*Sequence) isExpr() {}

// TypeExpr wraps a TypeSpecifier used in expression position, e.g. as the
// sole argument to a sizeof-like intrinsic or naming a constructor callee
// before it is recognized as a Call.
type TypeExpr struct {
	Base
	typed
	TypeSpec *TypeSpecifier
}

func (*TypeExpr) isNode() {}
func (*TypeExpr) isExpr() {}
