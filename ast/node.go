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

// Package ast holds the tagged-struct abstract syntax tree the parser
// builds and the analyzer mutates in place: declarations, statements,
// expressions and type specifiers. Every node embeds its source Area.
// There is no class hierarchy; exhaustive switches over the isNode/
// isStmt/isExpr marker methods take the place of virtual dispatch.
package ast

import (
	"github.com/shaderforge/hlslxc/source"
	"github.com/shaderforge/hlslxc/types"
)

// Node is the root interface every AST node implements.
type Node interface {
	isNode()
	Area() source.Area
}

// Stmt is any node usable as a statement.
type Stmt interface {
	Node
	isStmt()
}

// Expr is any node usable as an expression; every Expr caches its derived
// type denoter after first access per spec.md §3's invariant.
type Expr interface {
	Node
	isExpr()
	// Type returns the cached derived type denoter, nil before the analyzer
	// has visited this node.
	Type() types.Denoter
	// SetType installs (or, with nil, invalidates) the cached denoter.
	SetType(types.Denoter)
}

// Decl is any node usable as a top-level or structure-member declaration.
type Decl interface {
	Node
	isDecl()
}

// Base is embedded by every concrete node to provide Area() and a stable
// unique identity without repeating the field in every struct literal.
type Base struct {
	area source.Area
}

func (b Base) Area() source.Area { return b.area }

// NewBase returns a Base carrying area, for use by the parser when
// constructing nodes.
func NewBase(area source.Area) Base { return Base{area: area} }

// Program is the root of one translation unit's AST: the parsed
// declarations, the set of intrinsics the analyzer found in use (mapped to
// the distinct argument-type signatures they were called with), and a
// reachability flag per function recorded after the analyzer's entry-point
// walk.
type Program struct {
	Base
	Decls []Decl

	// UsedIntrinsics maps an intrinsic identifier to every distinct
	// argument-type-list signature it was invoked with, populated by the
	// analyzer and read by the extension planner and code generator.
	UsedIntrinsics map[string][][]string

	// Reachable records, for every *FuncDecl by pointer identity, whether
	// the analyzer's reachability walk from the entry point(s) found it.
	Reachable map[*FuncDecl]bool
}

func (*Program) isNode() {}

// EntryPoints returns every top-level function declaration named name
// (ordinarily exactly one, except tessellation shaders which also register
// a patch-constant function).
func (p *Program) EntryPoints(names ...string) []*FuncDecl {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	var out []*FuncDecl
	for _, d := range p.Decls {
		if fn, ok := d.(*FuncDecl); ok && set[fn.Name] {
			out = append(out, fn)
		}
	}
	return out
}
