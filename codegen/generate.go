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

package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shaderforge/hlslxc/analyzer"
	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/extension"
	"github.com/shaderforge/hlslxc/mangle"
	"github.com/shaderforge/hlslxc/stage"
)

// Request bundles everything Generate needs: the analyzed program, the
// target stage and version, the extension planner's result, and the
// formatting/codegen/mangling option sets spec.md §6 enumerates.
type Request struct {
	Program    *ast.Program
	Stage      stage.Stage
	Version    Version
	Plan       extension.Result
	Options    Options
	Formatting Formatting
	Mangling   mangle.Options

	// EntryPoints is the analyzer's per-entry-function I/O record,
	// keyed by the original (pre-transform) *ast.FuncDecl.
	EntryPoints map[*ast.FuncDecl]*analyzer.EntryPointIO

	// VertexLocations optionally overrides the sequential location
	// assignment for named semantics (spec.md §6's "optional
	// vertex-semantic-to-location table").
	VertexLocations map[string]int
}

// generator holds the mutable state threaded through one Generate call.
type generator struct {
	req      Request
	w        *writer
	opts     Options
	fmtOpts  Formatting
	mangling mangle.Options
	binder   *binder

	wrappersWritten map[string]bool

	obfNames   map[ast.Node]string
	obfCounter int

	specialNames map[ast.Node]string

	nextLocation map[string]int // "in"/"out" -> next auto location
}

// Generate renders req.Program to GLSL/ESSL/VKSL source text per spec.md
// §4.8's per-construct strategies.
func Generate(req Request) (string, error) {
	if req.Mangling == (mangle.Options{}) {
		req.Mangling = mangle.Default()
	}
	g := &generator{
		req:             req,
		w:               newWriter(req.Formatting.Indent),
		opts:            req.Options,
		fmtOpts:         req.Formatting,
		mangling:        req.Mangling,
		binder:          newBinder(req.Options),
		wrappersWritten: map[string]bool{},
		obfNames:        map[ast.Node]string{},
		specialNames:    map[ast.Node]string{},
		nextLocation:    map[string]int{"in": 0, "out": 0},
	}
	g.run()
	return g.w.String(), nil
}

func (g *generator) run() {
	if g.opts.WriteGeneratorHeader {
		g.w.Line("// Generated by hlslxc. Do not edit by hand.")
	}
	g.w.Line(fmt.Sprintf("#version %d%s", g.req.Version.Number, versionSuffix(g.req.Version.Dialect)))
	for _, ext := range g.req.Plan.Extensions {
		g.w.Line(fmt.Sprintf("#extension %s : enable", ext))
	}
	if g.opts.RowMajorAlignment {
		g.w.Line("layout(row_major) uniform;")
	}
	if g.fmtOpts.Blanks {
		g.w.Blank()
	}

	g.prescanWrappers()

	wrapperSet := map[*ast.FuncDecl]bool{}
	for orig, io := range g.req.EntryPoints {
		wrapperSet[io.Wrapper] = true
		if orig.Name == "main" {
			// The synthesized wrapper owns the name "main" in the output;
			// an entry function that was itself called main is renamed with
			// the reserved-word prefix everywhere it appears.
			g.specialNames[orig] = mangle.Mangle(g.mangling, mangle.Entity{Kind: mangle.Reserved, Name: orig.Name})
		}
	}

	for _, d := range g.req.Program.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok {
			if wrapperSet[fn] {
				continue // emitted after the main pass, sorted by original entry name
			}
			if io, isEntry := g.req.EntryPoints[fn]; isEntry {
				g.emitEntryIO(io)
				g.emitGlobalDecl(fn)
				if g.fmtOpts.LineSeparation {
					g.w.Blank()
				}
				continue
			}
			if !g.isReachable(fn) {
				continue
			}
		}
		g.emitGlobalDecl(d)
		if g.fmtOpts.LineSeparation {
			g.w.Blank()
		}
	}

	for _, fn := range g.sortedWrappers() {
		g.emitGlobalDecl(fn)
	}
}

func (g *generator) isReachable(fn *ast.FuncDecl) bool {
	if len(g.req.Program.Reachable) == 0 {
		return true
	}
	return g.req.Program.Reachable[fn]
}

func (g *generator) sortedWrappers() []*ast.FuncDecl {
	type named struct {
		fn   *ast.FuncDecl
		name string
	}
	var ns []named
	for orig, io := range g.req.EntryPoints {
		ns = append(ns, named{io.Wrapper, orig.Name})
	}
	sort.Slice(ns, func(i, j int) bool { return ns[i].name < ns[j].name })
	out := make([]*ast.FuncDecl, len(ns))
	for i, n := range ns {
		out[i] = n.fn
	}
	return out
}

func versionSuffix(dialect string) string {
	switch dialect {
	case "essl":
		return " es"
	default:
		return ""
	}
}

// prescanWrappers reads Program.UsedIntrinsics for intrinsics whose
// strategy is a generated wrapper function, emitting each one exactly once
// ahead of any call site (GLSL requires a function be declared before use
// within a translation unit).
func (g *generator) prescanWrappers() {
	// sincos has no GLSL equivalent at all, so its wrapper is emitted
	// whenever the intrinsic appears, independent of PreferWrappers.
	if _, used := g.req.Program.UsedIntrinsics["sincos"]; used {
		g.wrappersWritten["sincos"] = true
		g.emitSincosWrapper()
		if g.fmtOpts.Blanks {
			g.w.Blank()
		}
	}
	if !g.opts.PreferWrappers {
		return
	}
	if _, used := g.req.Program.UsedIntrinsics["mad"]; used {
		g.wrappersWritten["mad"] = true
		g.emitMadWrapper()
		if g.fmtOpts.Blanks {
			g.w.Blank()
		}
	}
}

// nameOf resolves the spelling to emit for an identifier referencing
// resolved: a builtin substitution (gl_Position, gl_FragDepth) when
// resolved names one, an obfuscated short name when Obfuscate is set, or
// the source spelling otherwise.
func (g *generator) nameOf(name string, resolved ast.Node) string {
	if resolved != nil {
		if special, ok := g.specialNames[resolved]; ok {
			return special
		}
	}
	if g.opts.Obfuscate && resolved != nil {
		if n, ok := g.obfNames[resolved]; ok {
			return n
		}
		n := g.nextObfName()
		g.obfNames[resolved] = n
		return n
	}
	return name
}

func (g *generator) nextObfName() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	n := g.obfCounter
	g.obfCounter++
	var sb strings.Builder
	for {
		sb.WriteByte(alphabet[n%26])
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	runes := []byte(sb.String())
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
