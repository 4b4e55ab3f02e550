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

// Package codegen implements the GLSL/ESSL/VKSL text emitter of spec.md
// §4.8: deterministic formatting, name mangling, explicit binding layout
// and row/column-major matrix packing over the semantically analyzed AST.
// Its indentation handler is grounded on core/text/reflow's depth-stack
// Writer, simplified to plain Indent()/Unindent() method calls rather than
// reflow's embedded rune-markup DSL — a public text-generation API has no
// business exposing markup runes, per spec.md §9's "opaque handles"
// preference.
package codegen

import "strings"

// writer accumulates generated text with an indent-string push/pop stack,
// writing through a single strings.Builder sink (spec.md §4.8's "single
// write sink" requirement).
type writer struct {
	buf    strings.Builder
	indent string
	depth  int
	atBOL  bool
}

func newWriter(indent string) *writer {
	return &writer{indent: indent, atBOL: true}
}

// Indent increases the indent depth by one level.
func (w *writer) Indent() { w.depth++ }

// Unindent decreases the indent depth by one level.
func (w *writer) Unindent() {
	if w.depth > 0 {
		w.depth--
	}
}

// WriteString emits s, inserting the current indent prefix at the start of
// each line it begins.
func (w *writer) WriteString(s string) {
	for _, line := range splitKeepNewlines(s) {
		if w.atBOL && line != "\n" {
			w.buf.WriteString(strings.Repeat(w.indent, w.depth))
		}
		w.buf.WriteString(line)
		w.atBOL = strings.HasSuffix(line, "\n")
	}
}

// Line emits s followed by a newline, honoring the current indent.
func (w *writer) Line(s string) {
	w.WriteString(s)
	w.WriteString("\n")
}

// Blank emits a single blank line.
func (w *writer) Blank() { w.WriteString("\n") }

func (w *writer) String() string { return w.buf.String() }

// splitKeepNewlines splits s into chunks, each ending at (and including)
// a '\n' except possibly the last.
func splitKeepNewlines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
