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

// Package analyzer implements the semantic analyzer of spec.md §4.5: a
// fixed sequence of phases run once over the parser's AST — registration,
// type derivation, overload/intrinsic resolution, implicit conversions,
// entry-point transformation, reachability and control-flow checking —
// grounded on gapil/resolver's phase split (resolve.go orchestrates,
// function.go/expression.go/flow.go each own one concern).
package analyzer

import (
	"fmt"

	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/mangle"
	"github.com/shaderforge/hlslxc/report"
	"github.com/shaderforge/hlslxc/source"
	"github.com/shaderforge/hlslxc/stage"
	"github.com/shaderforge/hlslxc/symbol"
)

// Options configures one analysis run.
type Options struct {
	EntryPoint          string // default "main"
	SecondaryEntryPoint string // "" if none; tessellation patch-constant function
	Stage               stage.Stage
	WarningMask         report.Category
	Mangling            mangle.Options
}

// EntryPointIO records the global input/output variables the entry-point
// transform synthesized for one entry function, and the wrapper that reads
// them, calls the original body, and writes them back (spec.md §4.5 phase 5).
type EntryPointIO struct {
	Original *ast.FuncDecl
	Wrapper  *ast.FuncDecl
	Inputs   []*ast.VarDecl
	Outputs  []*ast.VarDecl
}

// Analyzer runs the fixed phase sequence over one ast.Program.
type Analyzer struct {
	opts    Options
	sink    report.Sink
	syms    *symbol.Table
	aliases map[string]*ast.AliasDecl
	structs map[string]*ast.StructDecl

	// EntryPoints holds the synthesized I/O for every transformed entry
	// function, keyed by its original *ast.FuncDecl identity, for the code
	// generator and reflection extractor to consume after Run returns.
	EntryPoints map[*ast.FuncDecl]*EntryPointIO

	// prog is the program Run is currently analyzing, recorded so
	// deriveCall can record intrinsic usage onto prog.UsedIntrinsics
	// without threading the program through every call in the recursive
	// expression walk.
	prog *ast.Program

	errored bool
}

// New returns an Analyzer that reports through sink.
func New(sink report.Sink, opts Options) *Analyzer {
	if opts.EntryPoint == "" {
		opts.EntryPoint = "main"
	}
	if opts.Mangling == (mangle.Options{}) {
		opts.Mangling = mangle.Default()
	}
	return &Analyzer{
		opts:        opts,
		sink:        sink,
		syms:        &symbol.Table{},
		aliases:     map[string]*ast.AliasDecl{},
		structs:     map[string]*ast.StructDecl{},
		EntryPoints: map[*ast.FuncDecl]*EntryPointIO{},
	}
}

func (a *Analyzer) errorf(n ast.Node, format string, args ...interface{}) {
	a.errored = true
	a.submit(report.Error, report.Basic, n, format, args...)
}

// errorWithHints is errorf plus hint lines, used for ambiguous-call reports
// where each hint is one candidate's signature and source position.
func (a *Analyzer) errorWithHints(n ast.Node, msg string, hints []string) {
	a.errored = true
	var area source.Area
	if n != nil {
		area = n.Area()
	}
	a.sink.Submit(report.Report{Kind: report.Error, Message: msg, Area: area, Hints: hints})
}

func (a *Analyzer) warnf(cat report.Category, n ast.Node, format string, args ...interface{}) {
	if !a.opts.WarningMask.Enabled(cat) {
		return
	}
	a.submit(report.Warning, cat, n, format, args...)
}

func (a *Analyzer) submit(kind report.Kind, cat report.Category, n ast.Node, format string, args ...interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	var area source.Area
	if n != nil {
		area = n.Area()
	}
	a.sink.Submit(report.Report{Kind: kind, Message: msg, Category: cat, Area: area})
}

// Run executes every phase over prog in order, returning true if analysis
// completed with no errors (spec.md §4.5's numbered phase list).
func (a *Analyzer) Run(prog *ast.Program) bool {
	a.prog = prog
	if prog.UsedIntrinsics == nil {
		prog.UsedIntrinsics = map[string][][]string{}
	}
	a.registerDecls(prog)
	// Phases 2 ("type derivation") and 3 ("overload and intrinsic
	// resolution") run as a single recursive walk per function body: both
	// need the same live local-scope stack, which a local variable's
	// declaration statement only belongs to for the remainder of its
	// enclosing block.
	a.analyzeFunctions(prog)
	a.transformEntryPoints(prog)
	a.markReachability(prog)
	a.checkControlFlow(prog)
	a.checkMangling(prog)
	return !a.errored
}
