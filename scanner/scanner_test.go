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

package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderforge/hlslxc/scanner"
	"github.com/shaderforge/hlslxc/source"
	"github.com/shaderforge/hlslxc/token"
)

func scan(t *testing.T, text string) []token.Token {
	t.Helper()
	m := source.NewManager()
	f := m.AddFile("t.hlsl", text)
	s := scanner.New(f)
	toks := s.Scan()
	require.Empty(t, s.Errors(), "unexpected scan errors: %v", s.Errors())
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanner_Numbers(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
	}{
		{"42", token.IntLit},
		{"0x1F", token.IntLit},
		{"3.14", token.FloatLit},
		{".5", token.FloatLit},
		{"1.0e-3", token.FloatLit},
		{"1e5", token.FloatLit},
		{"2u", token.IntLit},
		{"2.0f", token.FloatLit},
		{"2h", token.FloatLit},
	}
	for _, tt := range tests {
		toks := scan(t, tt.src)
		require.GreaterOrEqual(t, len(toks), 1)
		assert.Equalf(t, tt.kind, toks[0].Kind, "source %q", tt.src)
		assert.Equal(t, tt.src, toks[0].Spelling)
	}
}

func TestScanner_IdentsAndKeywords(t *testing.T) {
	toks := scan(t, "float myVar = 1;")
	assert.Equal(t, []token.Kind{
		token.KeywordType, token.Ident, token.AssignOp, token.IntLit, token.Semicolon, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "myVar", toks[1].Spelling)
}

func TestScanner_StringAndChar(t *testing.T) {
	toks := scan(t, `"hello" 'x'`)
	require.Len(t, toks, 3)
	assert.Equal(t, token.StringLit, toks[0].Kind)
	assert.Equal(t, token.CharLit, toks[1].Kind)
}

func TestScanner_OperatorsAndPunct(t *testing.T) {
	toks := scan(t, "a+=b==c&&d")
	var spellings []string
	for _, tk := range toks {
		if tk.Kind == token.EOF {
			break
		}
		spellings = append(spellings, tk.Spelling)
	}
	assert.Equal(t, []string{"a", "+=", "b", "==", "c", "&&", "d"}, spellings)
}

func TestScanner_CommentsSkippedButAttached(t *testing.T) {
	toks := scan(t, "// leading\nfloat x;")
	require.NotEmpty(t, toks)
	assert.Contains(t, toks[0].LeadingComment, "leading")
}

func TestScanner_MalformedNumberErrors(t *testing.T) {
	m := source.NewManager()
	f := m.AddFile("t.hlsl", "1.e")
	s := scanner.New(f)
	s.Scan()
	assert.NotEmpty(t, s.Errors())
}

func TestScanner_DirectiveMarker(t *testing.T) {
	toks := scan(t, "#define FOO 1")
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Directive, toks[0].Kind)
}
