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

package compiler_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderforge/hlslxc/codegen"
	"github.com/shaderforge/hlslxc/compiler"
	"github.com/shaderforge/hlslxc/report"
	"github.com/shaderforge/hlslxc/stage"
)

func compileString(t *testing.T, src string, st stage.Stage, out codegen.Version, opts codegen.Options, entry ...string) (string, *report.Collector, compiler.Result) {
	t.Helper()
	entryPoint := ""
	if len(entry) > 0 {
		entryPoint = entry[0]
	}
	var buf strings.Builder
	var log report.Collector
	res := compiler.Compile(compiler.Request{
		Input: compiler.Input{
			Source:      strings.NewReader(src),
			Filename:    "t.hlsl",
			Stage:       st,
			EntryPoint:  entryPoint,
			WarningMask: report.AllCategories,
		},
		Output: compiler.Output{
			Writer:     &buf,
			Version:    out,
			Formatting: codegen.DefaultFormatting(),
			Options:    opts,
		},
		Log:        &log,
		Reflection: true,
	})
	return buf.String(), &log, res
}

// spec.md §8 scenario 1: a simple vertex shader with a constant buffer.
func TestCompile_SimpleVertex(t *testing.T) {
	src := `cbuffer M{float4x4 w;}; float4 VS(float3 p:POSITION):SV_Position{return mul(w,float4(p,1));}`
	out, log, res := compileString(t, src, stage.Vertex, codegen.Version{Dialect: "glsl", Number: 330}, codegen.Options{}, "VS")
	require.True(t, res.Success, "diagnostics: %v", log.Reports)

	assert.Contains(t, out, "#version 330")
	assert.Contains(t, out, "layout(std140) uniform M {")
	assert.Contains(t, out, "mat4 w;")
	assert.Contains(t, out, "in vec3 xsv_POSITION;")
	assert.Contains(t, out, "void main()")
	assert.Contains(t, out, "gl_Position = ")
	assert.Contains(t, out, "w * vec4(")

	require.NotNil(t, res.Reflection)
	require.Len(t, res.Reflection.ConstantBuffers, 1)
	cb := res.Reflection.ConstantBuffers[0]
	assert.Equal(t, "M", cb.Name)
	assert.Equal(t, 64, cb.Size)
	assert.Equal(t, 0, cb.Padding)
	require.Len(t, res.Reflection.Inputs, 1)
	assert.Equal(t, "POSITION", res.Reflection.Inputs[0].Semantic)
}

// spec.md §8 scenario 2: intrinsic translation is deterministic.
func TestCompile_IntrinsicTranslation(t *testing.T) {
	src := `float4 main(float4 a:TEXCOORD0):SV_Target{
		float s = saturate(a.x);
		float m = mad(a.y, a.z, a.w);
		return float4(s, m, 0, 0);
	}`
	out, log, res := compileString(t, src, stage.Fragment, codegen.Version{Dialect: "glsl", Number: 330}, codegen.Options{})
	require.True(t, res.Success, "diagnostics: %v", log.Reports)

	assert.Contains(t, out, "clamp(", "saturate must translate to clamp")
	assert.Contains(t, out, ", 0.0, 1.0)")
	assert.Contains(t, out, " * ", "mad must translate to a multiply-add expression")
	assert.Contains(t, out, " + ")
	assert.NotContains(t, out, "saturate(")
	assert.NotContains(t, out, "mad(")
}

// spec.md §8 scenario 3: cast disambiguation — a cast and a parenthesized
// additive expression must both parse without a syntax error.
func TestCompile_CastDisambiguation(t *testing.T) {
	src := `float4 main(float4 v:TEXCOORD0):SV_Target{
		float4 a = (float4)v;
		float4 b = (float4(1,1,1,1) + v);
		return a + b;
	}`
	_, log, res := compileString(t, src, stage.Fragment, codegen.Version{Dialect: "glsl", Number: 330}, codegen.Options{})
	assert.True(t, res.Success, "diagnostics: %v", log.Reports)
	assert.False(t, log.HasErrors())
}

// spec.md §8 scenario 4: an ambiguous overload call is reported, never
// silently resolved.
func TestCompile_OverloadAmbiguity(t *testing.T) {
	src := `float f(float a, int b){return a;}
	float f(int a, float b){return b;}
	float main():SV_Target{ return f(0,0); }`
	_, log, res := compileString(t, src, stage.Fragment, codegen.Version{Dialect: "glsl", Number: 330}, codegen.Options{})
	assert.False(t, res.Success)
	require.True(t, log.HasErrors())
	found := false
	for _, r := range log.Errors() {
		if strings.Contains(r.Message, "ambiguous") {
			found = true
		}
	}
	assert.True(t, found, "expected an ambiguous-call diagnostic, got: %v", log.Errors())
}

// spec.md §8 scenario 5: extension planning, disallowed vs. allowed.
func TestCompile_ExtensionPlanning_Disallowed(t *testing.T) {
	src := `float main(float2 uv:TEXCOORD0):SV_Target{ return ddx_fine(uv.x); }`
	_, log, res := compileString(t, src, stage.Fragment, codegen.Version{Dialect: "glsl", Number: 400}, codegen.Options{AllowExtensions: false})
	assert.False(t, res.Success)
	found := false
	for _, r := range log.Errors() {
		if strings.Contains(r.Message, "GL_ARB_derivative_control") {
			found = true
		}
	}
	assert.True(t, found, "expected a GL_ARB_derivative_control diagnostic, got: %v", log.Errors())
}

func TestCompile_ExtensionPlanning_Allowed(t *testing.T) {
	src := `float main(float2 uv:TEXCOORD0):SV_Target{ return ddx_fine(uv.x); }`
	out, log, res := compileString(t, src, stage.Fragment, codegen.Version{Dialect: "glsl", Number: 400}, codegen.Options{AllowExtensions: true})
	require.True(t, res.Success, "diagnostics: %v", log.Reports)
	assert.Contains(t, out, "#extension GL_ARB_derivative_control : enable")
	assert.Contains(t, out, "#version 400")
	assert.Contains(t, out, "dFdxFine(")
}

// spec.md §8 scenario 6: a fragment entry point returning a struct with
// multiple SV_Target members gets one output global per field.
func TestCompile_EntryPointStructOutputs(t *testing.T) {
	src := `struct PSOut { float4 a:SV_Target0; float4 b:SV_Target1; };
	PSOut main():SV_Target{
		PSOut o;
		o.a = float4(1,0,0,1);
		o.b = float4(0,1,0,1);
		return o;
	}`
	out, log, res := compileString(t, src, stage.Fragment, codegen.Version{Dialect: "glsl", Number: 330}, codegen.Options{})
	require.True(t, res.Success, "diagnostics: %v", log.Reports)
	assert.Contains(t, out, "layout(location=0) out")
	assert.Contains(t, out, "layout(location=1) out")
	require.Len(t, res.Reflection.Outputs, 2)
}

// 64-bit integer types require GLSL 450 or GL_ARB_gpu_shader_int64.
func TestCompile_Int64RequiresExtensionAtLowTarget(t *testing.T) {
	src := `float main(float x:TEXCOORD0):SV_Target{
		int64_t big = 1;
		uint64_t mask = 2;
		return x + abs(big) + mask;
	}`
	out, log, res := compileString(t, src, stage.Fragment, codegen.Version{Dialect: "glsl", Number: 330},
		codegen.Options{AllowExtensions: true})
	require.True(t, res.Success, "diagnostics: %v", log.Reports)
	assert.Contains(t, out, "#extension GL_ARB_gpu_shader_int64 : enable")
	assert.Contains(t, out, "int64_t big")
	assert.Contains(t, out, "uint64_t mask")
}

// Explicit binding layout needs GLSL 420 or GL_ARB_shading_language_420pack;
// pairing --explicit-binding with a fixed low target must surface that
// through the planner, not silently emit an unsupported layout qualifier.
func TestCompile_ExplicitBindingAtLowTargetAddsExtension(t *testing.T) {
	src := `cbuffer M : register(b0) { float4x4 w; };
	float4 main(float3 p:POSITION):SV_Position{ return mul(w, float4(p, 1)); }`
	out, log, res := compileString(t, src, stage.Vertex, codegen.Version{Dialect: "glsl", Number: 330},
		codegen.Options{ExplicitBinding: true, AllowExtensions: true})
	require.True(t, res.Success, "diagnostics: %v", log.Reports)
	assert.Contains(t, out, "#version 330")
	assert.Contains(t, out, "#extension GL_ARB_shading_language_420pack : enable")
	assert.Contains(t, out, "layout(binding=0)")
	assert.Contains(t, res.Extensions, "GL_ARB_shading_language_420pack")
}

func TestCompile_ExplicitBindingAtLowTargetDisallowedFails(t *testing.T) {
	src := `cbuffer M : register(b0) { float4x4 w; };
	float4 main(float3 p:POSITION):SV_Position{ return mul(w, float4(p, 1)); }`
	_, log, res := compileString(t, src, stage.Vertex, codegen.Version{Dialect: "glsl", Number: 330},
		codegen.Options{ExplicitBinding: true, AllowExtensions: false})
	assert.False(t, res.Success)
	found := false
	for _, r := range log.Errors() {
		if strings.Contains(r.Message, "GL_ARB_shading_language_420pack") {
			found = true
		}
	}
	assert.True(t, found, "expected a GL_ARB_shading_language_420pack diagnostic, got: %v", log.Errors())
}

// spec.md §8: obfuscation preserves the binding record and the
// input/output attribute set bit-for-bit.
func TestCompile_ObfuscationPreservesReflection(t *testing.T) {
	src := `cbuffer M : register(b0) { float4x4 w; };
	Texture2D tex : register(t1);
	float4 main(float3 p:POSITION, float2 uv:TEXCOORD0):SV_Position{
		return mul(w, float4(p, 1));
	}`
	_, logPlain, plain := compileString(t, src, stage.Vertex, codegen.Version{Dialect: "glsl", Number: 330}, codegen.Options{})
	require.True(t, plain.Success, "diagnostics: %v", logPlain.Reports)
	obfOut, logObf, obf := compileString(t, src, stage.Vertex, codegen.Version{Dialect: "glsl", Number: 330}, codegen.Options{Obfuscate: true})
	require.True(t, obf.Success, "diagnostics: %v", logObf.Reports)

	assert.NotContains(t, obfOut, "mat4 w;", "field names must be replaced under obfuscation")
	if diff := cmp.Diff(plain.Reflection, obf.Reflection); diff != "" {
		t.Errorf("reflection record changed under obfuscation (-plain +obfuscated):\n%s", diff)
	}
}

func TestCompile_EntryPointNotFound(t *testing.T) {
	src := `float4 VS():SV_Position{ return float4(0,0,0,1); }`
	_, log, res := compileString(t, src, stage.Vertex, codegen.Version{Dialect: "glsl", Number: 330}, codegen.Options{})
	assert.False(t, res.Success)
	require.True(t, log.HasErrors())
	assert.Contains(t, log.Errors()[0].Message, "entry point")
}

func TestCompile_PreprocessOnly(t *testing.T) {
	src := "#define TWO 2\nfloat main():SV_Target{ return TWO; }"
	out, log, res := compileString(t, src, stage.Fragment, codegen.Version{Dialect: "glsl", Number: 330}, codegen.Options{PreprocessOnly: true})
	require.True(t, res.Success, "diagnostics: %v", log.Reports)
	assert.Contains(t, out, "2")
	assert.NotContains(t, out, "TWO")
}

// A non-nil Trace writer receives a Debug line per pipeline stage.
func TestCompile_TraceReceivesStageLines(t *testing.T) {
	src := `float main():SV_Target{ return 1; }`
	var buf strings.Builder
	var out strings.Builder
	var log report.Collector
	res := compiler.Compile(compiler.Request{
		Input: compiler.Input{
			Source:      strings.NewReader(src),
			Filename:    "t.hlsl",
			Stage:       stage.Fragment,
			WarningMask: report.AllCategories,
		},
		Output: compiler.Output{
			Writer:     &out,
			Version:    codegen.Version{Dialect: "glsl", Number: 330},
			Formatting: codegen.DefaultFormatting(),
		},
		Log:   &log,
		Trace: &buf,
	})
	require.True(t, res.Success, "diagnostics: %v", log.Reports)
	assert.Contains(t, buf.String(), "preprocessing")
	assert.Contains(t, buf.String(), "parsing")
	assert.Contains(t, buf.String(), "analyzing")
	assert.Contains(t, buf.String(), "generating")
}

// Without a Trace writer, Compile still succeeds: the default handler
// discards every record instead of panicking on a nil writer.
func TestCompile_NilTraceIsDiscarded(t *testing.T) {
	src := `float main():SV_Target{ return 1; }`
	out, log, res := compileString(t, src, stage.Fragment, codegen.Version{Dialect: "glsl", Number: 330}, codegen.Options{})
	require.True(t, res.Success, "diagnostics: %v", log.Reports)
	assert.NotEmpty(t, out)
}
