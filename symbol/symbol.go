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

// Package symbol implements the scoped identifier table spec.md §4.4
// describes: a name maps to a stack of declarations tagged with the scope
// depth they were inserted at, entries above a mark are dropped in bulk
// when their scope closes, and function declarations accumulate into
// overload sets instead of shadowing one another.
package symbol

import (
	"github.com/shaderforge/hlslxc/ast"
)

type entry struct {
	name  string
	depth int
	decl  ast.Node
	// overload marks an *ast.FuncDecl entry added by InsertFunc: Lookup
	// skips such entries and LookupFuncs returns all of a name's together,
	// so overloads never shadow each other.
	overload bool
}

// Table is a scoped identifier table. The zero value is ready for use at
// global scope depth 0.
type Table struct {
	entries []entry
	depth   int
}

// OpenScope begins a new nested scope; matched by a corresponding
// CloseScope.
func (t *Table) OpenScope() { t.depth++ }

// CloseScope drops every entry inserted since the matching OpenScope.
func (t *Table) CloseScope() {
	i := len(t.entries)
	for i > 0 && t.entries[i-1].depth >= t.depth {
		i--
	}
	t.entries = t.entries[:i]
	t.depth--
}

// Depth returns the current scope depth (0 at global scope).
func (t *Table) Depth() int { return t.depth }

// Insert adds name -> decl at the current scope depth. Shadowing is
// permitted (an inner-scope Insert hides an outer one without removing it);
// the caller is responsible for emitting a DeclarationShadowing warning
// when Lookup reveals a pre-existing visible entry for the same name.
func (t *Table) Insert(name string, decl ast.Node) {
	t.entries = append(t.entries, entry{name: name, depth: t.depth, decl: decl})
}

// InsertFunc adds a function declaration to name's overload set at the
// current scope depth. Unlike Insert, this never shadows a previous
// function entry of the same name; both remain visible and are resolved by
// signature at the call site (spec.md §4.4).
func (t *Table) InsertFunc(name string, decl *ast.FuncDecl) {
	t.entries = append(t.entries, entry{name: name, depth: t.depth, decl: decl, overload: true})
}

// Lookup returns the innermost-scope, most-recently-inserted non-function
// declaration visible for name, or nil if none is visible.
func (t *Table) Lookup(name string) ast.Node {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].name == name && !t.entries[i].overload {
			return t.entries[i].decl
		}
	}
	return nil
}

// LookupShadowed reports whether an outer-scope declaration of name exists
// below the innermost one Lookup would return, for the analyzer's
// DeclarationShadowing warning.
func (t *Table) LookupShadowed(name string) bool {
	seen := false
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].name == name && !t.entries[i].overload {
			if seen {
				return true
			}
			seen = true
		}
	}
	return false
}

// LookupFuncs returns every visible overload of name, in declaration order,
// across all currently open scopes.
func (t *Table) LookupFuncs(name string) []*ast.FuncDecl {
	var out []*ast.FuncDecl
	for _, e := range t.entries {
		if e.name == name && e.overload {
			out = append(out, e.decl.(*ast.FuncDecl))
		}
	}
	return out
}
