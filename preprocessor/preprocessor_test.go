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

package preprocessor_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderforge/hlslxc/preprocessor"
	"github.com/shaderforge/hlslxc/source"
	"github.com/shaderforge/hlslxc/token"
)

func process(t *testing.T, text string, opts preprocessor.Options) []token.Token {
	t.Helper()
	m := source.NewManager()
	f := m.AddFile("t.hlsl", text)
	p := preprocessor.New(m, source.NewFileIncludeProvider(), opts)
	toks, err := p.Process(f)
	require.NoError(t, err, "preprocessor errors: %v", p.Errors())
	return toks
}

func spellings(toks []token.Token) []string {
	var out []string
	for _, tk := range toks {
		if tk.Kind == token.EOF {
			break
		}
		out = append(out, tk.Spelling)
	}
	return out
}

func TestPreprocessor_ObjectLikeMacroExpansion(t *testing.T) {
	toks := process(t, "#define TWO 2\nfloat x = TWO;", preprocessor.Options{})
	assert.Equal(t, []string{"float", "x", "=", "2", ";"}, spellings(toks))
}

func TestPreprocessor_FunctionLikeMacroExpansion(t *testing.T) {
	toks := process(t, "#define ADD(a,b) ((a)+(b))\nint x = ADD(1,2);", preprocessor.Options{})
	assert.Equal(t, []string{"int", "x", "=", "(", "(", "1", ")", "+", "(", "2", ")", ")", ";"}, spellings(toks))
}

func TestPreprocessor_IfdefSkipsInactiveBranch(t *testing.T) {
	toks := process(t, "#ifdef FOO\nint a;\n#else\nint b;\n#endif", preprocessor.Options{})
	assert.Equal(t, []string{"int", "b", ";"}, spellings(toks))
}

func TestPreprocessor_IfdefTakesActiveBranch(t *testing.T) {
	toks := process(t, "#define FOO\n#ifdef FOO\nint a;\n#else\nint b;\n#endif", preprocessor.Options{})
	assert.Equal(t, []string{"int", "a", ";"}, spellings(toks))
}

func TestPreprocessor_UnterminatedConditionalErrors(t *testing.T) {
	m := source.NewManager()
	f := m.AddFile("t.hlsl", "#ifdef FOO\nint a;")
	p := preprocessor.New(m, source.NewFileIncludeProvider(), preprocessor.Options{})
	_, err := p.Process(f)
	assert.Error(t, err)
}

func TestPreprocessor_PredefinedMacrosAreSeededBeforeProcessing(t *testing.T) {
	toks := process(t, "int x = FOO;", preprocessor.Options{PredefinedMacros: map[string]string{"FOO": "7"}})
	assert.Equal(t, []string{"int", "x", "=", "7", ";"}, spellings(toks))
}

func TestPreprocessor_SelfReferentialMacroDoesNotRecurse(t *testing.T) {
	toks := process(t, "#define A A\nint x = A;", preprocessor.Options{})
	assert.Equal(t, []string{"int", "x", "=", "A", ";"}, spellings(toks))
}

func TestPreprocessor_VariadicMacroCollectsTail(t *testing.T) {
	toks := process(t, "#define CALL(f, ...) f(__VA_ARGS__)\nint x = CALL(g, 1, 2);", preprocessor.Options{})
	assert.Equal(t, []string{"int", "x", "=", "g", "(", "1", ",", "2", ")", ";"}, spellings(toks))
}

type mapIncludes map[string]string

func (m mapIncludes) Open(filename string, _ bool) (io.ReadCloser, error) {
	text, ok := m[filename]
	if !ok {
		return nil, source.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(text)), nil
}

func (m mapIncludes) SearchPaths() *[]string { return new([]string) }

func TestPreprocessor_IncludeSubstitutesFileContents(t *testing.T) {
	m := source.NewManager()
	f := m.AddFile("t.hlsl", "#include \"common.hlsl\"\nfloat y = HALF;")
	p := preprocessor.New(m, mapIncludes{"common.hlsl": "#define HALF 0.5\nfloat x;"}, preprocessor.Options{})
	toks, err := p.Process(f)
	require.NoError(t, err, "preprocessor errors: %v", p.Errors())
	assert.Equal(t, []string{"float", "x", ";", "float", "y", "=", "0.5", ";"}, spellings(toks))
}

func TestPreprocessor_IncludeNotFoundIsAnError(t *testing.T) {
	m := source.NewManager()
	f := m.AddFile("t.hlsl", "#include \"missing.hlsl\"")
	p := preprocessor.New(m, mapIncludes{}, preprocessor.Options{})
	_, err := p.Process(f)
	assert.Error(t, err)
}

func TestPreprocessor_RunTwiceYieldsIdenticalStreams(t *testing.T) {
	const text = "#define SCALE(x) ((x) * 2)\n#if SCALE(1) == 2\nfloat a = SCALE(3);\n#endif"
	run := func() []string {
		m := source.NewManager()
		f := m.AddFile("t.hlsl", text)
		p := preprocessor.New(m, source.NewFileIncludeProvider(), preprocessor.Options{})
		toks, err := p.Process(f)
		require.NoError(t, err, "preprocessor errors: %v", p.Errors())
		return spellings(toks)
	}
	assert.Equal(t, run(), run())
}

func TestPreprocessor_FileAndLineMacros(t *testing.T) {
	toks := process(t, "int a;\nint line = __LINE__;\nint file = __FILE__;", preprocessor.Options{})
	got := spellings(toks)
	assert.Contains(t, got, "2", "__LINE__ expands to the line it appears on")
	assert.Contains(t, got, `"t.hlsl"`, "__FILE__ expands to the quoted filename")
}

func TestPreprocessor_StandardMacrosAreDefined(t *testing.T) {
	m := source.NewManager()
	f := m.AddFile("t.hlsl", "int x;")
	p := preprocessor.New(m, source.NewFileIncludeProvider(), preprocessor.Options{})
	_, err := p.Process(f)
	require.NoError(t, err)
	assert.Contains(t, p.DefinedIdents(), "__HLSL__")
	assert.Contains(t, p.DefinedIdents(), "__XSC__")
}
