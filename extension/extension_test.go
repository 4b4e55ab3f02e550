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

package extension_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/extension"
	"github.com/shaderforge/hlslxc/stage"
	"github.com/shaderforge/hlslxc/types"
)

func TestExtension_StageFloorWithNoConstructs(t *testing.T) {
	prog := &ast.Program{}
	res, unmet := extension.Plan(prog, stage.Fragment, 0, false, extension.Config{})
	assert.Empty(t, unmet)
	assert.Equal(t, extension.StageMinVersion(stage.Fragment), res.MinVersion)
	assert.Empty(t, res.Extensions)
}

func TestExtension_AutoRaisesVersionForDerivativeControl(t *testing.T) {
	prog := &ast.Program{UsedIntrinsics: map[string][][]string{"ddx_fine": {{"float"}}}}
	res, unmet := extension.Plan(prog, stage.Fragment, 0, false, extension.Config{})
	assert.Empty(t, unmet)
	assert.Equal(t, 450, res.MinVersion)
	assert.Empty(t, res.Extensions, "auto mode always raises the version rather than adding an extension")
}

func TestExtension_FixedTargetDisallowedProducesUnmet(t *testing.T) {
	prog := &ast.Program{UsedIntrinsics: map[string][][]string{"ddx_fine": {{"float"}}}}
	_, unmet := extension.Plan(prog, stage.Fragment, 400, false, extension.Config{})
	require.Len(t, unmet, 1)
	assert.Equal(t, "GL_ARB_derivative_control", unmet[0].Extension)
	assert.Equal(t, 450, unmet[0].MinVersion)
}

func TestExtension_FixedTargetAllowedAddsExtension(t *testing.T) {
	prog := &ast.Program{UsedIntrinsics: map[string][][]string{"ddx_fine": {{"float"}}}}
	res, unmet := extension.Plan(prog, stage.Fragment, 400, true, extension.Config{})
	assert.Empty(t, unmet)
	assert.Equal(t, 400, res.MinVersion)
	assert.Equal(t, []string{"GL_ARB_derivative_control"}, res.Extensions)
}

func TestExtension_FixedTargetAlreadyMeetsRequirement(t *testing.T) {
	prog := &ast.Program{UsedIntrinsics: map[string][][]string{"ddx_fine": {{"float"}}}}
	res, unmet := extension.Plan(prog, stage.Fragment, 450, false, extension.Config{})
	assert.Empty(t, unmet)
	assert.Equal(t, 450, res.MinVersion)
	assert.Empty(t, res.Extensions)
}

func TestExtension_UniformBufferDeclRaisesFloor(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{&ast.UniformBufferDecl{Name: "M"}}}
	res, unmet := extension.Plan(prog, stage.Vertex, 0, false, extension.Config{})
	assert.Empty(t, unmet)
	assert.GreaterOrEqual(t, res.MinVersion, 140)
}

func TestExtension_BitwiseOpRaisesFloor(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.UniformBufferDecl{Name: "M", Fields: []*ast.VarDecl{}},
	}}
	// Exercise the walker directly via a function body containing a bitwise
	// BinOp, since UniformBufferDecl alone has no expression to walk.
	body := &ast.BinOp{Op: "&"}
	fn := &ast.FuncDecl{Name: "f", Body: &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ExprStmt{X: body}}}}
	prog.Decls = append(prog.Decls, fn)

	res, unmet := extension.Plan(prog, stage.Fragment, 0, false, extension.Config{})
	assert.Empty(t, unmet)
	assert.GreaterOrEqual(t, res.MinVersion, 130)
}

func TestExtension_PackOffsetRaisesVersion(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.UniformBufferDecl{Name: "M", Fields: []*ast.VarDecl{
			{Name: "x", TypeSpec: &ast.TypeSpecifier{}, PackOffset: "c0"},
		}},
	}}
	res, unmet := extension.Plan(prog, stage.Vertex, 0, false, extension.Config{})
	assert.Empty(t, unmet)
	assert.Equal(t, 440, res.MinVersion)
}

func TestExtension_MultiDimensionalArrayRaisesVersion(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.VarDecl{Name: "grid", TypeSpec: &ast.TypeSpecifier{},
			ArrayDims: []ast.Expr{&ast.Literal{}, &ast.Literal{}}},
	}}
	res, unmet := extension.Plan(prog, stage.Vertex, 0, false, extension.Config{})
	assert.Empty(t, unmet)
	assert.Equal(t, 430, res.MinVersion)
}

func TestExtension_FmaIntrinsicAddsFp64Extension(t *testing.T) {
	prog := &ast.Program{UsedIntrinsics: map[string][][]string{"fma": {{"double", "double", "double"}}}}
	res, unmet := extension.Plan(prog, stage.Fragment, 330, true, extension.Config{})
	assert.Empty(t, unmet)
	assert.Equal(t, []string{"GL_ARB_gpu_shader_fp64"}, res.Extensions)
}

func TestExtension_Int64ElementRaisesVersion(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.VarDecl{Name: "n", TypeSpec: &ast.TypeSpecifier{
			Denoter: types.Base{Elem: types.Int64, Rows: 1, Cols: 1},
		}},
	}}
	res, unmet := extension.Plan(prog, stage.Fragment, 0, false, extension.Config{})
	assert.Empty(t, unmet)
	assert.Equal(t, 450, res.MinVersion)
}

func TestExtension_Int64AtFixedTargetAddsExtension(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.VarDecl{Name: "n", TypeSpec: &ast.TypeSpecifier{
			Denoter: types.Base{Elem: types.UInt64, Rows: 1, Cols: 1},
		}},
	}}
	res, unmet := extension.Plan(prog, stage.Fragment, 400, true, extension.Config{})
	assert.Empty(t, unmet)
	assert.Equal(t, []string{"GL_ARB_gpu_shader_int64"}, res.Extensions)
}

func TestExtension_ExplicitBindingRaisesVersionInAutoMode(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.UniformBufferDecl{Name: "M", Register: "b0"},
	}}
	res, unmet := extension.Plan(prog, stage.Vertex, 0, false, extension.Config{ExplicitBinding: true})
	assert.Empty(t, unmet)
	assert.GreaterOrEqual(t, res.MinVersion, 420)
}

func TestExtension_ExplicitBindingAtLowFixedTargetAddsExtension(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.BufferDecl{Name: "tex", Register: "t0"},
	}}
	res, unmet := extension.Plan(prog, stage.Fragment, 330, true, extension.Config{ExplicitBinding: true})
	assert.Empty(t, unmet)
	assert.Contains(t, res.Extensions, "GL_ARB_shading_language_420pack")
	assert.Equal(t, 330, res.MinVersion)
}

func TestExtension_ExplicitBindingDisallowedProducesUnmet(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.BufferDecl{Name: "tex", Register: "t0"},
	}}
	_, unmet := extension.Plan(prog, stage.Fragment, 330, false, extension.Config{ExplicitBinding: true})
	require.Len(t, unmet, 1)
	assert.Equal(t, "GL_ARB_shading_language_420pack", unmet[0].Extension)
}

func TestExtension_ExplicitBindingWithoutRegisterIsInert(t *testing.T) {
	// Explicit binding only emits a layout qualifier for resources that
	// carry a register() annotation; a bare cbuffer imposes nothing.
	prog := &ast.Program{Decls: []ast.Decl{&ast.UniformBufferDecl{Name: "M"}}}
	res, unmet := extension.Plan(prog, stage.Vertex, 330, false, extension.Config{ExplicitBinding: true})
	assert.Empty(t, unmet)
	assert.Equal(t, 330, res.MinVersion)
}

func TestExtension_AutoBindingBindsEveryResource(t *testing.T) {
	// Auto-binding assigns a slot even to register-less resources.
	prog := &ast.Program{Decls: []ast.Decl{&ast.UniformBufferDecl{Name: "M"}}}
	res, unmet := extension.Plan(prog, stage.Vertex, 0, false, extension.Config{AutoBinding: true})
	assert.Empty(t, unmet)
	assert.GreaterOrEqual(t, res.MinVersion, 420)
}

func TestExtension_DeduplicatesAndSortsExtensions(t *testing.T) {
	prog := &ast.Program{UsedIntrinsics: map[string][][]string{
		"ddx_fine": {{"float"}, {"float2"}},
		"ddy_fine": {{"float"}},
	}}
	res, unmet := extension.Plan(prog, stage.Fragment, 400, true, extension.Config{})
	assert.Empty(t, unmet)
	assert.Equal(t, []string{"GL_ARB_derivative_control"}, res.Extensions, "both ddx_fine and ddy_fine share one extension")
}
