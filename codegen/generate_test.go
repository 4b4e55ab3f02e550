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

package codegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderforge/hlslxc/analyzer"
	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/codegen"
	"github.com/shaderforge/hlslxc/extension"
	"github.com/shaderforge/hlslxc/types"
)

func voidFunc(name string, stmts ...ast.Stmt) *ast.FuncDecl {
	return &ast.FuncDecl{
		ReturnType: &ast.TypeSpecifier{Denoter: types.Void{}},
		Name:       name,
		Body:       &ast.BlockStmt{Stmts: stmts},
	}
}

func generate(t *testing.T, req codegen.Request) string {
	t.Helper()
	if req.Formatting == (codegen.Formatting{}) {
		req.Formatting = codegen.DefaultFormatting()
	}
	out, err := codegen.Generate(req)
	require.NoError(t, err)
	return out
}

func TestGenerate_ExtensionDirectivesMatchPlanExactly(t *testing.T) {
	out := generate(t, codegen.Request{
		Program: &ast.Program{},
		Version: codegen.Version{Dialect: "glsl", Number: 400},
		Plan: extension.Result{
			MinVersion: 400,
			Extensions: []string{"GL_ARB_derivative_control", "GL_ARB_gpu_shader_fp64"},
		},
	})
	assert.Contains(t, out, "#version 400\n")
	first := strings.Index(out, "#extension GL_ARB_derivative_control : enable")
	second := strings.Index(out, "#extension GL_ARB_gpu_shader_fp64 : enable")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first, "extension directives keep the planner's order")
	assert.Equal(t, 2, strings.Count(out, "#extension"), "no duplicate directives")
}

func TestGenerate_ESSLVersionSuffix(t *testing.T) {
	out := generate(t, codegen.Request{
		Program: &ast.Program{},
		Version: codegen.Version{Dialect: "essl", Number: 300},
	})
	assert.Contains(t, out, "#version 300 es\n")
}

func TestGenerate_MatrixSubscriptBecomesComponentAccess(t *testing.T) {
	fn := voidFunc("f", &ast.ExprStmt{X: &ast.MemberAccess{X: &ast.Ident{Name: "m"}, Name: "_m12"}})
	out := generate(t, codegen.Request{
		Program: &ast.Program{Decls: []ast.Decl{fn}},
		Version: codegen.Version{Dialect: "glsl", Number: 330},
	})
	assert.Contains(t, out, "m[0][1];", "._m12 is 1-based row 1, column 2")
}

func TestGenerate_VectorSwizzlePassesThrough(t *testing.T) {
	fn := voidFunc("f", &ast.ExprStmt{X: &ast.MemberAccess{X: &ast.Ident{Name: "v"}, Name: "xyz", IsSwizzle: true}})
	out := generate(t, codegen.Request{
		Program: &ast.Program{Decls: []ast.Decl{fn}},
		Version: codegen.Version{Dialect: "glsl", Number: 330},
	})
	assert.Contains(t, out, "v.xyz;")
}

func TestGenerate_SincosWrapperEmittedOnce(t *testing.T) {
	call := &ast.Call{
		Callee:      &ast.Ident{Name: "sincos"},
		IntrinsicID: "sincos",
		Args: []ast.Expr{
			&ast.Ident{Name: "x"}, &ast.Ident{Name: "s"}, &ast.Ident{Name: "c"},
		},
	}
	fn := voidFunc("f", &ast.ExprStmt{X: call})
	out := generate(t, codegen.Request{
		Program: &ast.Program{
			Decls:          []ast.Decl{fn},
			UsedIntrinsics: map[string][][]string{"sincos": {{"float", "float", "float"}}},
		},
		Version: codegen.Version{Dialect: "glsl", Number: 330},
	})
	assert.Equal(t, 1, strings.Count(out, "void xst_sincos(float x, out float s, out float c)"))
	assert.Contains(t, out, "xst_sincos(x, s, c);")
}

func TestGenerate_EntryNamedMainIsRenamed(t *testing.T) {
	// When the entry function itself is called main, the synthesized
	// wrapper takes that name and the original is emitted under the
	// reserved-word prefix.
	orig := voidFunc("main", &ast.ReturnStmt{})
	wrapper := voidFunc("main", &ast.ExprStmt{X: &ast.Call{
		Callee:       &ast.Ident{Name: "main", ResolvedDecl: orig},
		ResolvedFunc: orig,
	}})
	out := generate(t, codegen.Request{
		Program: &ast.Program{Decls: []ast.Decl{orig, wrapper}},
		Version: codegen.Version{Dialect: "glsl", Number: 330},
		EntryPoints: map[*ast.FuncDecl]*analyzer.EntryPointIO{
			orig: {Original: orig, Wrapper: wrapper},
		},
	})
	assert.Contains(t, out, "void xsr_main()")
	assert.Contains(t, out, "xsr_main();")
	assert.Equal(t, 1, strings.Count(out, "void main()"))
}
