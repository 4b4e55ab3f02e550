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

// Package report defines the diagnostic model every compiler stage submits
// through: a Report carries enough context for a caller to render a
// caret-underlined source excerpt, matching original_source's Report/Log
// split between "what happened" and "where it goes".
package report

import (
	"fmt"
	"strings"

	"github.com/shaderforge/hlslxc/source"
)

// Kind partitions reports the way original_source's Report::Types does.
type Kind int

const (
	Info Kind = iota
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "?"
	}
}

// Category is a warning-category bit, per spec.md §6's bitmask.
type Category uint32

const (
	Basic Category = 1 << iota
	Syntax
	PreProcessor
	UnusedVariables
	EmptyStatementBody
	ImplicitTypeConversions
	DeclarationShadowing
	UnlocatedObjects
	RequiredExtensions
	CodeReflection
	IndexBoundary

	AllCategories = Basic | Syntax | PreProcessor | UnusedVariables | EmptyStatementBody |
		ImplicitTypeConversions | DeclarationShadowing | UnlocatedObjects | RequiredExtensions |
		CodeReflection | IndexBoundary
)

// Enabled reports whether every bit set in want is also set in mask.
func (mask Category) Enabled(want Category) bool { return mask&want == want }

// Report is one diagnostic: kind, message, optional source context, and
// optional hint lines (e.g. overload-candidate signatures on an ambiguous
// call).
type Report struct {
	Kind     Kind
	Message  string
	Category Category // 0 for reports not gated by a warning category (errors, Info)
	Area     source.Area
	LineText string // the affected source line's text, "" if not available
	Hints    []string
}

// Marker returns the "^~~~" caret-underline for Area within LineText, or ""
// if LineText is empty.
func (r Report) Marker() string {
	if r.LineText == "" {
		return ""
	}
	col := r.Area.Begin.Column - 1
	if col < 0 {
		col = 0
	}
	if col > len(r.LineText) {
		col = len(r.LineText)
	}
	length := r.Area.Length
	if length < 1 {
		length = 1
	}
	if col+length > len(r.LineText)+1 {
		length = len(r.LineText) + 1 - col
	}
	return strings.Repeat(" ", col) + "^" + strings.Repeat("~", max(0, length-1))
}

// String renders a single-line "file:line:col: kind: message" summary
// without the source excerpt, suitable for plain log output.
func (r Report) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", r.Area.Begin.Name, r.Area.Begin.Line, r.Area.Begin.Column, r.Kind, r.Message)
}

// Sink accumulates Reports submitted by every compiler stage. A caller's
// Log implementation (see compiler.Request.Log) satisfies this interface;
// *report.Collector below is the default in-process implementation used
// when the caller supplies none.
type Sink interface {
	Submit(r Report)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Report)

func (f SinkFunc) Submit(r Report) { f(r) }

// Collector is a Sink that records every report for later inspection,
// grounded on gapil/parse.ErrorList's accumulate-then-inspect pattern.
type Collector struct {
	Reports []Report
}

func (c *Collector) Submit(r Report) { c.Reports = append(c.Reports, r) }

// HasErrors reports whether any accumulated report is of Kind Error.
func (c *Collector) HasErrors() bool {
	for _, r := range c.Reports {
		if r.Kind == Error {
			return true
		}
	}
	return false
}

// Errors returns only the Error-kind reports.
func (c *Collector) Errors() []Report {
	var out []Report
	for _, r := range c.Reports {
		if r.Kind == Error {
			out = append(out, r)
		}
	}
	return out
}
