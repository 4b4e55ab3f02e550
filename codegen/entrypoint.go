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
	"strconv"
	"strings"

	"github.com/shaderforge/hlslxc/analyzer"
	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/stage"
)

// builtinSemantic maps a semantic name used in the given direction/stage to
// a GLSL built-in variable; the caller skips declaring a global for these
// and nameOf resolves references to them instead.
func builtinSemantic(semantic string, st stage.Stage, isOutput bool) (string, bool) {
	switch {
	case semantic == "SV_Position" && isOutput && (st == stage.Vertex || st == stage.Geometry || st == stage.TessEval):
		return "gl_Position", true
	case semantic == "SV_Position" && !isOutput && st == stage.Fragment:
		return "gl_FragCoord", true
	case semantic == "SV_Depth" && isOutput && st == stage.Fragment:
		return "gl_FragDepth", true
	case semantic == "SV_VertexID" && !isOutput && st == stage.Vertex:
		return "gl_VertexID", true
	case semantic == "SV_InstanceID" && !isOutput && st == stage.Vertex:
		return "gl_InstanceID", true
	default:
		return "", false
	}
}

// targetLocation extracts a trailing "SV_TargetN" index, 0 for bare
// "SV_Target".
func targetLocation(semantic string) (int, bool) {
	if semantic == "SV_Target" {
		return 0, true
	}
	if strings.HasPrefix(semantic, "SV_Target") {
		if n, err := strconv.Atoi(strings.TrimPrefix(semantic, "SV_Target")); err == nil {
			return n, true
		}
	}
	return 0, false
}

func (g *generator) locationFor(semantic, direction string) int {
	if g.req.VertexLocations != nil {
		if loc, ok := g.req.VertexLocations[semantic]; ok {
			return loc
		}
	}
	loc := g.nextLocation[direction]
	g.nextLocation[direction] = loc + 1
	return loc
}

// emitEntryIO writes the stage-specific global in/out declarations for one
// entry point, per spec.md §4.8's entry-point emission sequence: globals
// first, then (by the caller) the renamed original function.
func (g *generator) emitEntryIO(io *analyzer.EntryPointIO) {
	for _, v := range io.Inputs {
		g.emitIOGlobal(v, false)
	}
	for _, v := range io.Outputs {
		g.emitIOGlobal(v, true)
	}
	if g.fmtOpts.Blanks && (len(io.Inputs) > 0 || len(io.Outputs) > 0) {
		g.w.Blank()
	}
}

func (g *generator) emitIOGlobal(v *ast.VarDecl, isOutput bool) {
	if builtin, ok := builtinSemantic(v.Semantic, g.req.Stage, isOutput); ok {
		g.specialNames[v] = builtin
		return
	}
	direction := "in"
	if isOutput {
		direction = "out"
	}
	qualifier := direction
	if isOutput && g.req.Stage == stage.Fragment {
		if loc, ok := targetLocation(v.Semantic); ok {
			qualifier = fmt.Sprintf("layout(location=%d) out", loc)
			g.w.Line(g.varDeclString(v, qualifier) + ";")
			return
		}
	}
	loc := g.locationFor(v.Semantic, direction)
	qualifier = fmt.Sprintf("layout(location=%d) %s", loc, direction)
	g.w.Line(g.varDeclString(v, qualifier) + ";")
}
