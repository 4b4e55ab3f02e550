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

package reflect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderforge/hlslxc/analyzer"
	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/reflect"
	"github.com/shaderforge/hlslxc/stage"
	"github.com/shaderforge/hlslxc/types"
)

func varDecl(name string, d types.Base) *ast.VarDecl {
	return &ast.VarDecl{Name: name, TypeSpec: &ast.TypeSpecifier{Denoter: d}}
}

func TestReflect_ConstantBufferPacking(t *testing.T) {
	// float4x4, then a float, then a float3: the matrix fills bytes
	// [0,64), the float sits at 64, and the float3 shares the float's
	// register at 68 because 68+12=80 does not cross the boundary at 80.
	buf := &ast.UniformBufferDecl{
		Name: "M",
		Fields: []*ast.VarDecl{
			varDecl("w", types.Base{Elem: types.Float, Rows: 4, Cols: 4}),
			varDecl("s", types.Base{Elem: types.Float, Rows: 1, Cols: 1}),
			varDecl("v", types.Base{Elem: types.Float, Rows: 3, Cols: 1}),
		},
	}
	prog := &ast.Program{Decls: []ast.Decl{buf}}
	rec := reflect.Extract(prog, nil, nil, stage.Vertex)
	require.Len(t, rec.ConstantBuffers, 1)
	cb := rec.ConstantBuffers[0]

	require.Len(t, cb.Fields, 3)
	assert.Equal(t, 0, cb.Fields[0].Offset)
	assert.Equal(t, 64, cb.Fields[0].Size, "float4x4 occupies one 16-byte register per row")
	assert.Equal(t, 64, cb.Fields[1].Offset)
	assert.Equal(t, 4, cb.Fields[1].Size)
	assert.Equal(t, 68, cb.Fields[2].Offset)
	assert.Equal(t, 12, cb.Fields[2].Size)

	assert.Equal(t, 80, cb.Size, "packed size rounds up to a multiple of 16")
	assert.Equal(t, 0, cb.Padding)
}

func TestReflect_ConstantBufferPackingCrossesRegister(t *testing.T) {
	// A float3 at offset 4 would span bytes [4,16) and fit; but a float3
	// starting at offset 8 would span [8,20), crossing the 16-byte
	// boundary at 16, so it must realign to offset 16.
	buf := &ast.UniformBufferDecl{
		Name: "N",
		Fields: []*ast.VarDecl{
			varDecl("a", types.Base{Elem: types.Float, Rows: 1, Cols: 1}),
			varDecl("b", types.Base{Elem: types.Float, Rows: 1, Cols: 1}),
			varDecl("c", types.Base{Elem: types.Float, Rows: 3, Cols: 1}),
		},
	}
	prog := &ast.Program{Decls: []ast.Decl{buf}}
	cb := reflect.Extract(prog, nil, nil, stage.Vertex).ConstantBuffers[0]
	require.Len(t, cb.Fields, 3)
	assert.Equal(t, 0, cb.Fields[0].Offset)
	assert.Equal(t, 4, cb.Fields[1].Offset)
	assert.Equal(t, 16, cb.Fields[2].Offset, "float3 at byte 8 would cross the register boundary")
	assert.Equal(t, 32, cb.Size)
	assert.Equal(t, 4, cb.Padding)
}

func TestReflect_IOAttributesAssignLocationsAndBuiltins(t *testing.T) {
	inputs := []*ast.VarDecl{
		{Name: "p", Semantic: "POSITION"},
		{Name: "uv", Semantic: "TEXCOORD0"},
	}
	io := &analyzer.EntryPointIO{Inputs: inputs}
	rec := reflect.Extract(&ast.Program{}, io, nil, stage.Vertex)
	require.Len(t, rec.Inputs, 2)
	assert.Equal(t, 0, rec.Inputs[0].Location)
	assert.Equal(t, 1, rec.Inputs[1].Location)
}

func TestReflect_FragmentOutputUsesSVTargetIndex(t *testing.T) {
	outputs := []*ast.VarDecl{
		{Name: "a", Semantic: "SV_Target0"},
		{Name: "b", Semantic: "SV_Target1"},
	}
	io := &analyzer.EntryPointIO{Outputs: outputs}
	rec := reflect.Extract(&ast.Program{}, io, nil, stage.Fragment)
	require.Len(t, rec.Outputs, 2)
	assert.Equal(t, 0, rec.Outputs[0].Location)
	assert.Equal(t, 1, rec.Outputs[1].Location)
}

func TestReflect_VertexPositionOutputIsBuiltin(t *testing.T) {
	outputs := []*ast.VarDecl{{Name: "pos", Semantic: "SV_Position"}}
	io := &analyzer.EntryPointIO{Outputs: outputs}
	rec := reflect.Extract(&ast.Program{}, io, nil, stage.Vertex)
	require.Len(t, rec.Outputs, 1)
	assert.False(t, rec.Outputs[0].HasLocation)
	assert.Equal(t, "SV_Position", rec.Outputs[0].Semantic)
}

func TestReflect_NumThreadsFromComputeAttribute(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "main",
		Attributes: map[string][]ast.Expr{
			"numthreads": {
				&ast.Literal{Kind: ast.LitInt, Spelling: "8"},
				&ast.Literal{Kind: ast.LitInt, Spelling: "8"},
				&ast.Literal{Kind: ast.LitInt, Spelling: "1"},
			},
		},
	}
	rec := reflect.Extract(&ast.Program{}, nil, fn, stage.Compute)
	assert.Equal(t, [3]int{8, 8, 1}, rec.NumThreads)
}
