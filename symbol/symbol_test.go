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

package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/symbol"
)

func TestTable_InsertAndLookup(t *testing.T) {
	var tbl symbol.Table
	decl := &ast.VarDecl{Name: "x"}
	tbl.Insert("x", decl)
	assert.Same(t, decl, tbl.Lookup("x"))
	assert.Nil(t, tbl.Lookup("y"))
}

func TestTable_CloseScopeDropsInnerEntries(t *testing.T) {
	var tbl symbol.Table
	outer := &ast.VarDecl{Name: "x"}
	tbl.Insert("x", outer)

	tbl.OpenScope()
	inner := &ast.VarDecl{Name: "x"}
	tbl.Insert("x", inner)
	assert.Same(t, inner, tbl.Lookup("x"), "inner declaration shadows the outer one")
	tbl.CloseScope()

	assert.Same(t, outer, tbl.Lookup("x"), "outer declaration reappears once the inner scope closes")
	assert.Equal(t, 0, tbl.Depth())
}

func TestTable_LookupShadowed(t *testing.T) {
	var tbl symbol.Table
	tbl.Insert("x", &ast.VarDecl{Name: "x"})
	assert.False(t, tbl.LookupShadowed("x"))

	tbl.OpenScope()
	tbl.Insert("x", &ast.VarDecl{Name: "x"})
	assert.True(t, tbl.LookupShadowed("x"))
}

func TestTable_InsertFuncAccumulatesOverloadsAcrossScopes(t *testing.T) {
	var tbl symbol.Table
	f1 := &ast.FuncDecl{Name: "f"}
	tbl.InsertFunc("f", f1)

	tbl.OpenScope()
	f2 := &ast.FuncDecl{Name: "f"}
	tbl.InsertFunc("f", f2)

	overloads := tbl.LookupFuncs("f")
	require.Len(t, overloads, 2)
	assert.Same(t, f1, overloads[0])
	assert.Same(t, f2, overloads[1])

	// Function overloads never participate in ordinary variable lookup.
	assert.Nil(t, tbl.Lookup("f"))
}

func TestTable_CloseScopeDecrementsDepthEvenWhenEmpty(t *testing.T) {
	var tbl symbol.Table
	tbl.OpenScope()
	tbl.OpenScope()
	assert.Equal(t, 2, tbl.Depth())
	tbl.CloseScope()
	assert.Equal(t, 1, tbl.Depth())
	tbl.CloseScope()
	assert.Equal(t, 0, tbl.Depth())
}
