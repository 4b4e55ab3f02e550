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

// Package token defines the classified lexical units produced by the
// scanner and preprocessor, and consumed by the parser.
package token

import "github.com/shaderforge/hlslxc/source"

// Kind partitions tokens the way spec.md §3 describes.
type Kind int

const (
	Invalid Kind = iota
	EOF

	Ident

	// Literals
	IntLit
	FloatLit
	StringLit
	CharLit
	BoolLit
	NullLit

	// Operators
	BinOp
	UnaryOp // used only for tokens that are exclusively unary, e.g. '!', '~'
	AssignOp
	Question // ternary '?'
	Colon

	// Punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semicolon
	Dot

	// Reserved words
	KeywordControl   // if, else, for, while, do, switch, case, default, break, continue, return, discard
	KeywordType      // float, int, float4, matrix, etc.
	KeywordModifier  // const, static, extern, uniform, in, out, inout, row_major, column_major, ...
	KeywordStruct    // struct
	KeywordRegister  // register
	KeywordPackoffset
	KeywordTechnique
	KeywordCompile
	KeywordOther // cbuffer, tbuffer, typedef, sampler keywords, etc.

	// Directive markers (preprocessor only; never reach the parser)
	Directive

	// Trivia
	Whitespace
	Comment
	Newline
)

// Token is a single classified lexical unit.
type Token struct {
	Kind     Kind
	Spelling string
	Area     source.Area
	// LeadingComment holds any comment text the scanner attached to this
	// token. The code generator does not read it, with or without its
	// preserveComments option.
	LeadingComment string
}

// Is reports whether t has the given kind and spelling.
func (t Token) Is(k Kind, spelling string) bool {
	return t.Kind == k && t.Spelling == spelling
}

// String implements fmt.Stringer.
func (t Token) String() string { return t.Spelling }
