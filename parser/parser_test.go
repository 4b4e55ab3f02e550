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

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/parser"
	"github.com/shaderforge/hlslxc/scanner"
	"github.com/shaderforge/hlslxc/source"
)

func parse(t *testing.T, text string) (*ast.Program, error) {
	t.Helper()
	m := source.NewManager()
	f := m.AddFile("t.hlsl", text)
	s := scanner.New(f)
	toks := s.Scan()
	require.Empty(t, s.Errors())
	return parser.Parse(toks)
}

func TestParser_SimpleFunctionDecl(t *testing.T) {
	prog, err := parse(t, "float square(float x){ return x*x; }")
	require.NoError(t, err)
	require.Len(t, prog.Decls, 1)
	fn, ok := prog.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "square", fn.Name)
	require.Len(t, fn.Params, 1)
	require.Len(t, fn.Body.Stmts, 1)
}

func TestParser_UniformBufferDecl(t *testing.T) {
	prog, err := parse(t, "cbuffer M : register(b0) { float4x4 w; float3 pos; };")
	require.NoError(t, err)
	require.Len(t, prog.Decls, 1)
	cb, ok := prog.Decls[0].(*ast.UniformBufferDecl)
	require.True(t, ok)
	assert.Equal(t, "M", cb.Name)
	require.Len(t, cb.Fields, 2)
	assert.Equal(t, "w", cb.Fields[0].Name)
	assert.Equal(t, "pos", cb.Fields[1].Name)
}

func TestParser_StructDecl(t *testing.T) {
	prog, err := parse(t, "struct VSOut { float4 pos : SV_Position; float2 uv : TEXCOORD0; };")
	require.NoError(t, err)
	require.Len(t, prog.Decls, 1)
	st, ok := prog.Decls[0].(*ast.StructDecl)
	require.True(t, ok)
	require.Len(t, st.Fields, 2)
	assert.Equal(t, "SV_Position", st.Fields[0].Semantic)
	assert.Equal(t, "TEXCOORD0", st.Fields[1].Semantic)
}

func TestParser_EntryPointWithSemantics(t *testing.T) {
	prog, err := parse(t, "float4 main(float3 p : POSITION) : SV_Position { return float4(p,1); }")
	require.NoError(t, err)
	fn := prog.Decls[0].(*ast.FuncDecl)
	assert.Equal(t, "SV_Position", fn.Semantic)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "POSITION", fn.Params[0].Semantic)
}

func TestParser_CastVsParenthesizedExpression(t *testing.T) {
	prog, err := parse(t, "float4 f(float4 v){ float4 a = (float4)v; float4 b = (a + v); return b; }")
	require.NoError(t, err)
	fn := prog.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Stmts, 3)
	a := fn.Body.Stmts[0].(*ast.DeclStmt).Decl.(*ast.VarDecl)
	_, isCast := a.Init.(*ast.Cast)
	assert.True(t, isCast, "(float4)v must parse as a cast")
	b := fn.Body.Stmts[1].(*ast.DeclStmt).Decl.(*ast.VarDecl)
	_, isBracket := b.Init.(*ast.Bracket)
	assert.True(t, isBracket, "(a + v) must parse as a parenthesized expression")
}

func TestParser_ResourceRegisterAnnotation(t *testing.T) {
	prog, err := parse(t, "Texture2D tex : register(t3);")
	require.NoError(t, err)
	buf, ok := prog.Decls[0].(*ast.BufferDecl)
	require.True(t, ok)
	assert.Equal(t, "t3", buf.Register)
}

func TestParser_PatchControlPointCountOutOfRange(t *testing.T) {
	_, err := parse(t, "void f(InputPatch<float4, 65> patch){ }")
	assert.Error(t, err)
}

func TestParser_SyntaxErrorIsReported(t *testing.T) {
	_, err := parse(t, "float x = ;")
	assert.Error(t, err)
}

func TestParser_IfElseStatement(t *testing.T) {
	prog, err := parse(t, "float f(float x){ if(x>0){ return x; } else { return -x; } }")
	require.NoError(t, err)
	fn := prog.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Stmts, 1)
	ifst, ok := fn.Body.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	assert.NotNil(t, ifst.Else)
}
