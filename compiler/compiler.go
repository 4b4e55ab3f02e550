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

// Package compiler is the public surface of the translator: a single
// Compile entry point taking an Input/Output pair and a log sink, grounded
// field-for-field on original_source/inc/Xsc/Xsc.h's ShaderInput/
// ShaderOutput/Options/Formatting/NameMangling split, and on
// gapil/resolver.Resolve's pipe-the-stages-in-sequence orchestration shape.
// It is the only package callers outside this module need to import:
// every other package is an internal component (spec.md §9's "PImpl-like
// opaque handles" preference for the public surface).
package compiler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shaderforge/hlslxc/analyzer"
	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/codegen"
	"github.com/shaderforge/hlslxc/core/fault/cause"
	"github.com/shaderforge/hlslxc/core/log"
	"github.com/shaderforge/hlslxc/extension"
	"github.com/shaderforge/hlslxc/mangle"
	"github.com/shaderforge/hlslxc/parser"
	"github.com/shaderforge/hlslxc/preprocessor"
	"github.com/shaderforge/hlslxc/reflect"
	"github.com/shaderforge/hlslxc/report"
	"github.com/shaderforge/hlslxc/source"
	"github.com/shaderforge/hlslxc/stage"
	"github.com/shaderforge/hlslxc/token"
)

// InputDialect is the HLSL source dialect version a request is written
// against, spec.md §6.
type InputDialect int

const (
	HLSL3 InputDialect = iota
	HLSL4
	HLSL5
)

// Input bundles everything spec.md §6 lists as "values a caller supplies"
// on the input side.
type Input struct {
	// Source is read to EOF and becomes one source.File; the caller owns
	// closing it if it implements io.Closer.
	Source io.Reader
	// Filename is a hint used for reported source positions and as the
	// basis for relative #include resolution; "" becomes "<source>".
	Filename string
	Dialect  InputDialect
	Stage    stage.Stage
	// EntryPoint defaults to "main" when empty.
	EntryPoint string
	// SecondaryEntryPoint names the tessellation patch-constant function,
	// "" if the shader has none.
	SecondaryEntryPoint string
	WarningMask         report.Category
	// Includes resolves #include directives; a zero value falls back to
	// source.NewFileIncludeProvider.
	Includes source.IncludeProvider
	// PredefinedMacros seeds "-D NAME=VALUE"-style command-line defines.
	PredefinedMacros map[string]string
}

// Output bundles spec.md §6's output-side values: where generated text
// goes, which target dialect/version, and every formatting/codegen/
// mangling option group.
type Output struct {
	Writer io.Writer
	// Version selects the target dialect ("glsl"/"essl"/"vksl") and number;
	// codegen.Auto requests the extension planner's computed minimum.
	Version codegen.Version
	// VertexLocations optionally overrides sequential location assignment
	// for named vertex input semantics.
	VertexLocations map[string]int
	Formatting      codegen.Formatting
	Mangling        mangle.Options
	Options         codegen.Options
}

// Request is one compilation: input, output, the log sink every stage
// reports through, and whether a reflection record should be produced.
type Request struct {
	Input  Input
	Output Output
	Log    report.Sink
	// Reflection, if true, populates Result.Reflection on success.
	Reflection bool
	// Trace, if non-nil, receives a Debug-level line at the start of every
	// pipeline stage. Nil discards them.
	Trace io.Writer
}

// Result is everything Compile produces beyond the text already written to
// Output.Writer.
type Result struct {
	Success    bool
	Version    codegen.Version
	Extensions []string
	Reflection *reflect.Record
}

// Compile runs the full staged pipeline of spec.md §2 over req, writing
// generated source to req.Output.Writer and reporting every diagnostic to
// req.Log. It returns false as soon as any stage collects an error,
// matching spec.md §7's "a stage that produced any error prevents
// subsequent stages from running". Distinct calls share no state and may
// run concurrently on different goroutines (spec.md §5).
func Compile(req Request) (result Result) {
	c := &compilation{req: req, sink: req.Log}
	if c.sink == nil {
		c.sink = &report.Collector{}
	}
	handler := log.Discard
	level := log.Info
	if req.Trace != nil {
		handler = log.NewWriterHandler(req.Trace)
		level = log.Debug
	}
	c.trace = log.From(context.Background()).WithHandler(handler).WithLevel(level).WithTag("compiler")

	defer func() {
		if r := recover(); r != nil {
			var cerr error
			if e, isErr := r.(error); isErr {
				cerr = e
			} else {
				cerr = fmt.Errorf("%v", r)
			}
			explained := cause.Explainf("compiler.Compile", cerr, "internal compiler error: %v", cerr)
			c.sink.Submit(report.Report{Kind: report.Error, Message: explained.Error()})
			result = Result{Success: false}
		}
	}()
	return c.run()
}

type compilation struct {
	req   Request
	sink  report.Sink
	trace log.Context
}

func (c *compilation) errorf(format string, args ...interface{}) Result {
	c.sink.Submit(report.Report{Kind: report.Error, Message: fmt.Sprintf(format, args...)})
	return Result{Success: false}
}

func (c *compilation) run() Result {
	in := c.req.Input
	if in.EntryPoint == "" {
		in.EntryPoint = "main"
	}
	includes := in.Includes
	if includes == nil {
		includes = source.NewFileIncludeProvider()
	}

	data, err := io.ReadAll(in.Source)
	if err != nil {
		return c.errorf("reading input: %v", err)
	}
	filename := in.Filename
	if filename == "" {
		filename = "<source>"
	}

	manager := source.NewManager()
	file := manager.AddFile(filename, string(data))

	// --- preprocessor ---
	c.trace.Debug().Logf("preprocessing %s", filename)
	pp := preprocessor.New(manager, includes, preprocessor.Options{
		EnableWarnings:   in.WarningMask.Enabled(report.PreProcessor),
		PredefinedMacros: in.PredefinedMacros,
	})
	toks, ppErr := pp.Process(file)
	for _, e := range pp.Errors() {
		kind := report.Error
		if e.Warn {
			kind = report.Warning
		}
		c.sink.Submit(report.Report{Kind: kind, Message: e.Message, Category: report.PreProcessor, Area: e.Area})
	}
	if ppErr != nil {
		return Result{Success: false}
	}
	if c.req.Output.Options.PreprocessOnly {
		if c.req.Output.Writer != nil {
			io.WriteString(c.req.Output.Writer, renderTokens(toks))
		}
		return Result{Success: true}
	}

	// --- parser ---
	c.trace.Debug().Logf("parsing %d tokens", len(toks))
	parseStart := time.Now()
	prog, parseErr := parser.Parse(toks)
	c.stageTime("parse", parseStart)
	// Parse keeps going past recoverable errors so later stages still see
	// whatever AST it managed to build, but a syntax error still aborts the
	// pipeline per spec.md §7.
	if parseErr != nil {
		c.sink.Submit(report.Report{Kind: report.Error, Category: report.Syntax, Message: parseErr.Error()})
		return Result{Success: false}
	}

	if c.req.Output.Options.ShowAST {
		c.dumpAST(prog)
	}

	entryFns := prog.EntryPoints(in.EntryPoint)
	if len(entryFns) == 0 {
		return c.errorf("entry point %q not found", in.EntryPoint)
	}
	entryFn := entryFns[0]

	// --- semantic analyzer ---
	mangling := c.req.Output.Mangling
	if mangling == (mangle.Options{}) {
		mangling = mangle.Default()
	}
	if err := mangle.Validate(mangling); err != nil {
		return c.errorf("%v", err)
	}
	c.trace.Debug().Logf("analyzing entry point %q", in.EntryPoint)
	analyzeStart := time.Now()
	az := analyzer.New(c.sink, analyzer.Options{
		EntryPoint:          in.EntryPoint,
		SecondaryEntryPoint: in.SecondaryEntryPoint,
		Stage:               in.Stage,
		WarningMask:         in.WarningMask,
		Mangling:            mangling,
	})
	ok := az.Run(prog)
	c.stageTime("analyze", analyzeStart)
	if !ok {
		return Result{Success: false}
	}
	if c.req.Output.Options.ValidateOnly {
		return Result{Success: true}
	}

	// --- extension planner ---
	c.trace.Debug().Log("planning extensions and minimum version")
	allowExt := c.req.Output.Options.AllowExtensions
	configured := c.req.Output.Version.Number
	plan, unmet := extension.Plan(prog, in.Stage, configured, allowExt, extension.Config{
		ExplicitBinding: c.req.Output.Options.ExplicitBinding,
		AutoBinding:     c.req.Output.Options.AutoBinding,
	})
	for _, req := range unmet {
		c.sink.Submit(report.Report{
			Kind:     report.Error,
			Category: report.RequiredExtensions,
			Message:  fmt.Sprintf("construct %q requires GLSL %d or extension %q, which is unavailable at the configured target", req.Construct, req.MinVersion, req.Extension),
		})
	}
	if len(unmet) > 0 {
		return Result{Success: false}
	}

	version := c.req.Output.Version
	if version.Dialect == "" {
		version = codegen.Auto
	}
	version.Number = plan.MinVersion

	// --- code generator ---
	c.trace.Debug().Logf("generating %s %d", version.Dialect, version.Number)
	genReq := codegen.Request{
		Program:         prog,
		Stage:           in.Stage,
		Version:         version,
		Plan:            plan,
		Options:         c.req.Output.Options,
		Formatting:      c.req.Output.Formatting,
		Mangling:        mangling,
		EntryPoints:     az.EntryPoints,
		VertexLocations: c.req.Output.VertexLocations,
	}
	genStart := time.Now()
	text, genErr := codegen.Generate(genReq)
	c.stageTime("generate", genStart)
	if genErr != nil {
		return c.errorf("%v", genErr)
	}
	if c.req.Output.Writer != nil {
		if _, err := io.WriteString(c.req.Output.Writer, text); err != nil {
			return c.errorf("writing output: %v", err)
		}
	}

	res := Result{Success: true, Version: version, Extensions: plan.Extensions}

	// --- reflection ---
	if c.req.Reflection {
		c.trace.Debug().Log("extracting reflection record")
		epio := az.EntryPoints[entryFn]
		res.Reflection = reflect.Extract(prog, epio, entryFn, in.Stage)
	}
	return res
}

// stageTime logs one stage's wall-clock duration through the trace
// context when the ShowTimes option is set.
func (c *compilation) stageTime(stage string, start time.Time) {
	if !c.req.Output.Options.ShowTimes {
		return
	}
	c.trace.Info().Logf("%s took %s", stage, time.Since(start))
}

// dumpAST writes a one-line-per-declaration outline of the parsed program
// to the trace context, for the ShowAST option.
func (c *compilation) dumpAST(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *ast.FuncDecl:
			c.trace.Info().Logf("func %s (%d params)", n.Name, len(n.Params))
		case *ast.StructDecl:
			c.trace.Info().Logf("struct %s (%d fields)", n.Name, len(n.Fields))
		case *ast.UniformBufferDecl:
			c.trace.Info().Logf("cbuffer %s (%d fields)", n.Name, len(n.Fields))
		case *ast.VarDecl:
			c.trace.Info().Logf("var %s", n.Name)
		case *ast.BufferDecl:
			c.trace.Info().Logf("buffer %s", n.Name)
		case *ast.SamplerDecl:
			c.trace.Info().Logf("sampler %s", n.Name)
		case *ast.AliasDecl:
			c.trace.Info().Logf("typedef %s", n.Name)
		}
	}
}

// renderTokens re-spells a flattened token stream for "-E"-style
// preprocess-only output, separating tokens by a single space; it is a
// debugging aid, not a faithful re-lexable rendering.
func renderTokens(toks []token.Token) string {
	var b strings.Builder
	for i, t := range toks {
		if t.Kind == token.EOF {
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Spelling)
	}
	return b.String()
}
