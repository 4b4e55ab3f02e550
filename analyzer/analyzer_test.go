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

package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderforge/hlslxc/analyzer"
	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/parser"
	"github.com/shaderforge/hlslxc/report"
	"github.com/shaderforge/hlslxc/scanner"
	"github.com/shaderforge/hlslxc/source"
	"github.com/shaderforge/hlslxc/stage"
)

func analyze(t *testing.T, src string, st stage.Stage) (*ast.Program, *analyzer.Analyzer, *report.Collector, bool) {
	t.Helper()
	m := source.NewManager()
	f := m.AddFile("t.hlsl", src)
	toks := scanner.New(f).Scan()
	prog, err := parser.Parse(toks)
	require.NoError(t, err)

	var log report.Collector
	az := analyzer.New(&log, analyzer.Options{Stage: st, WarningMask: report.AllCategories})
	ok := az.Run(prog)
	return prog, az, &log, ok
}

func TestAnalyzer_EntryPointTransformSynthesizesIO(t *testing.T) {
	prog, az, log, ok := analyze(t, `float4 main(float3 p:POSITION):SV_Position{ return float4(p,1); }`, stage.Vertex)
	require.True(t, ok, "diagnostics: %v", log.Reports)

	var entryFn *ast.FuncDecl
	for _, d := range prog.Decls {
		if fn, isFn := d.(*ast.FuncDecl); isFn && fn.Name == "main" {
			entryFn = fn
			break
		}
	}
	require.NotNil(t, entryFn)
	io := az.EntryPoints[entryFn]
	require.NotNil(t, io)
	require.Len(t, io.Inputs, 1)
	assert.Equal(t, "POSITION", io.Inputs[0].Semantic)
	require.Len(t, io.Outputs, 1)
	assert.Equal(t, "SV_Position", io.Outputs[0].Semantic)
	assert.NotNil(t, io.Wrapper)
}

func TestAnalyzer_RecordsUsedIntrinsics(t *testing.T) {
	prog, _, log, ok := analyze(t, `float main(float2 uv:TEXCOORD0):SV_Target{ return ddx_fine(uv.x); }`, stage.Fragment)
	require.True(t, ok, "diagnostics: %v", log.Reports)
	require.Contains(t, prog.UsedIntrinsics, "ddx_fine")
	require.Len(t, prog.UsedIntrinsics["ddx_fine"], 1)
	assert.Equal(t, []string{"float"}, prog.UsedIntrinsics["ddx_fine"][0])
}

func TestAnalyzer_DoesNotDuplicateIdenticalIntrinsicSignatures(t *testing.T) {
	prog, _, log, ok := analyze(t, `float main(float2 a:TEXCOORD0, float2 b:TEXCOORD1):SV_Target{
		float x = ddx_fine(a.x);
		float y = ddx_fine(b.x);
		return x+y;
	}`, stage.Fragment)
	require.True(t, ok, "diagnostics: %v", log.Reports)
	require.Len(t, prog.UsedIntrinsics["ddx_fine"], 1, "both calls share the same (float) argument signature")
}

func TestAnalyzer_MissingEntryPointSemanticIsAnError(t *testing.T) {
	_, _, log, ok := analyze(t, `float4 main(float3 p:POSITION){ return float4(p,1); }`, stage.Vertex)
	assert.False(t, ok)
	assert.True(t, log.HasErrors())
}

func TestAnalyzer_UndeclaredIdentifierIsAnError(t *testing.T) {
	_, _, log, ok := analyze(t, `float main():SV_Target{ return undeclaredThing; }`, stage.Fragment)
	assert.False(t, ok)
	assert.True(t, log.HasErrors())
}

func TestAnalyzer_MixedSwizzleSetsAreRejected(t *testing.T) {
	_, _, log, ok := analyze(t, `float2 main(float4 v:TEXCOORD0):SV_Target{ return v.xg; }`, stage.Fragment)
	assert.False(t, ok)
	assert.True(t, log.HasErrors())
}

func TestAnalyzer_IntrinsicOutputParameterRequiresLValue(t *testing.T) {
	_, _, log, ok := analyze(t, `float main(float x:TEXCOORD0):SV_Target{
		float s;
		sincos(x, s, 1.0);
		return s;
	}`, stage.Fragment)
	assert.False(t, ok)
	require.True(t, log.HasErrors())
	assert.Contains(t, log.Errors()[0].Message, "l-value")
}

func TestAnalyzer_AmbiguousCallListsCandidatesAsHints(t *testing.T) {
	_, _, log, ok := analyze(t, `float f(float a, int b){return a;}
	float f(int a, float b){return b;}
	float main():SV_Target{ return f(0,0); }`, stage.Fragment)
	assert.False(t, ok)
	require.True(t, log.HasErrors())
	for _, r := range log.Errors() {
		if len(r.Hints) == 2 {
			assert.Contains(t, r.Hints[0], "candidate:")
			return
		}
	}
	t.Fatal("no error carried the two candidate hints")
}

func TestAnalyzer_NumThreadsMustBePositive(t *testing.T) {
	_, _, log, ok := analyze(t, `[numthreads(8, 0, 1)] void main(){ }`, stage.Compute)
	assert.False(t, ok)
	assert.True(t, log.HasErrors())
}

func TestAnalyzer_DuplicateOutputSemanticIsAnError(t *testing.T) {
	_, _, log, ok := analyze(t, `struct PSOut { float4 a:SV_Target0; float4 b:SV_Target0; };
	PSOut main(){
		PSOut o;
		o.a = float4(1,0,0,1);
		o.b = float4(0,1,0,1);
		return o;
	}`, stage.Fragment)
	assert.False(t, ok)
	assert.True(t, log.HasErrors())
}
