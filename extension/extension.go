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

// Package extension implements the target-version/extension planner of
// spec.md §4.7: a visitor walks the semantically resolved AST collecting
// the set of GLSL extensions (or a raised minimum version) that the
// constructs actually used demand, grounded on
// original_source/src/Compiler/Backend/GLSL/GLSLExtensionAgent.h's
// visitor-collects-into-a-set design.
package extension

import (
	"sort"

	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/stage"
	"github.com/shaderforge/hlslxc/types"
)

// Requirement is one row of spec.md §4.7's construct table.
type Requirement struct {
	Construct  string
	MinVersion int
	Extension  string // "" if the construct simply raises the floor, no extension exists below it
}

// stageMinVersion is table 4.7a: the per-stage minimum GLSL version before
// any construct-driven requirement is applied.
var stageMinVersion = map[stage.Stage]int{
	stage.Vertex:      130,
	stage.Fragment:    130,
	stage.Geometry:    150,
	stage.TessControl: 400,
	stage.TessEval:    400,
	stage.Compute:     430,
}

// StageMinVersion returns the floor version for st before any
// construct-driven requirement is applied.
func StageMinVersion(st stage.Stage) int { return stageMinVersion[st] }

// byConstruct is spec.md §4.7's construct table, keyed by the identifier
// Plan's caller tags a used construct with (an intrinsic name, or one of
// the synthetic tags below for non-intrinsic constructs).
var byConstruct = map[string]Requirement{
	"ddx_fine":              {"dFdxFine/dFdyFine family", 450, "GL_ARB_derivative_control"},
	"ddy_fine":              {"dFdxFine/dFdyFine family", 450, "GL_ARB_derivative_control"},
	"int64":                 {"64-bit integer intrinsics", 450, "GL_ARB_gpu_shader_int64"},
	"fma":                   {"fma/double intrinsics", 400, "GL_ARB_gpu_shader_fp64"},
	"double":                {"fma/double intrinsics", 400, "GL_ARB_gpu_shader_fp64"},
	"arrays_of_arrays":      {"Arrays of arrays", 430, "GL_ARB_arrays_of_arrays"},
	"explicit_binding":      {"Explicit binding layout", 420, "GL_ARB_shading_language_420pack"},
	"uniform_buffer_object": {"Uniform buffer object", 140, "GL_ARB_uniform_buffer_object"},
	"bitwise_ops":           {"Bitwise ops", 130, "GL_EXT_gpu_shader4"},
	"packoffset":            {"packoffset", 440, "GL_ARB_enhanced_layouts"},
	"multisample_textures":  {"Multisample textures", 150, "GL_ARB_texture_multisample"},
	"image_load_store":      {"Image load/store", 420, "GL_ARB_shader_image_load_store"},
}

// Result is the planner's output: the chosen minimum version and the
// deterministically ordered, duplicate-free set of required extensions.
type Result struct {
	MinVersion int
	Extensions []string
}

// Config carries the code-generation options that impose version
// requirements of their own, independent of any AST construct: spec.md
// §4.7's explicit-binding-layout row fires when the generator will emit
// layout(binding=N) qualifiers, which only the caller's option values can
// tell the planner.
type Config struct {
	ExplicitBinding bool
	AutoBinding     bool
}

// Plan computes the minimum version and required-extension set for prog at
// targetStage, given a configured target version (0 means "auto") and
// whether extensions are allowed at all. When the configured target is
// fixed and a construct needs more than it supplies, allowExtensions
// decides whether the requirement is satisfied by an #extension directive
// or reported as an error by the caller (Plan itself never errors; it
// returns the unmet requirements via the errs return so the caller can
// decide policy, matching spec.md §4.7's "add the extension... else
// error").
func Plan(prog *ast.Program, targetStage stage.Stage, configuredVersion int, allowExtensions bool, cfg Config) (Result, []Requirement) {
	floor := stageMinVersion[targetStage]
	auto := configuredVersion == 0
	minVersion := floor
	target := configuredVersion
	if !auto && target < floor {
		target = floor
	}

	extSet := map[string]bool{}
	var unmet []Requirement
	seenUnmet := map[string]bool{}

	raise := func(req Requirement) {
		if auto {
			if req.MinVersion > minVersion {
				minVersion = req.MinVersion
			}
			return
		}
		if req.MinVersion <= target {
			return
		}
		if req.Extension != "" && allowExtensions {
			extSet[req.Extension] = true
			return
		}
		if !seenUnmet[req.Construct] {
			unmet = append(unmet, req)
			seenUnmet[req.Construct] = true
		}
	}

	for tag := range collectUsedConstructs(prog, cfg) {
		if req, ok := byConstruct[tag]; ok {
			raise(req)
		}
	}

	chosen := target
	if auto {
		chosen = minVersion
	}

	exts := make([]string, 0, len(extSet))
	for e := range extSet {
		exts = append(exts, e)
	}
	sort.Strings(exts)

	return Result{MinVersion: chosen, Extensions: exts}, unmet
}

var bitwiseOps = map[string]bool{"&": true, "|": true, "^": true, "<<": true, ">>": true}

// collectUsedConstructs walks prog's declarations, tagging every
// requirement-bearing intrinsic recorded in Program.UsedIntrinsics plus
// the AST-visible constructs from spec.md §4.7's table: cbuffer/tbuffer
// declarations, bitwise-operator expressions, double- and 64-bit-integer
// element types, multisample textures, image (RWTexture) declarations,
// packoffset annotations and multi-dimensional arrays. Explicit binding
// layout is driven by cfg: the generator emits layout(binding=N) for every
// bound resource under AutoBinding, and for register()-annotated resources
// under ExplicitBinding.
func collectUsedConstructs(prog *ast.Program, cfg Config) map[string]bool {
	tags := map[string]bool{}
	for id := range prog.UsedIntrinsics {
		switch id {
		case "ddx_fine", "ddy_fine", "fma":
			tags[id] = true
		}
	}
	if bindingLayoutUsed(prog, cfg) {
		tags["explicit_binding"] = true
	}
	for _, d := range prog.Decls {
		if _, ok := d.(*ast.UniformBufferDecl); ok {
			tags["uniform_buffer_object"] = true
		}
		walkConstructs(d, tags)
	}
	return tags
}

// bindingLayoutUsed reports whether the code generator will emit at least
// one layout(binding=N) qualifier for prog under cfg.
func bindingLayoutUsed(prog *ast.Program, cfg Config) bool {
	if !cfg.ExplicitBinding && !cfg.AutoBinding {
		return false
	}
	for _, d := range prog.Decls {
		var register string
		switch v := d.(type) {
		case *ast.BufferDecl:
			register = v.Register
		case *ast.SamplerDecl:
			register = v.Register
		case *ast.UniformBufferDecl:
			register = v.Register
		default:
			continue
		}
		if cfg.AutoBinding || register != "" {
			return true
		}
	}
	return false
}

func walkConstructs(n ast.Node, tags map[string]bool) {
	switch c := n.(type) {
	case *ast.BinOp:
		if bitwiseOps[c.Op] {
			tags["bitwise_ops"] = true
		}
	case *ast.VarDecl:
		if c.PackOffset != "" {
			tags["packoffset"] = true
		}
		if len(c.ArrayDims) >= 2 {
			tags["arrays_of_arrays"] = true
		}
	case *ast.TypeSpecifier:
		if c != nil {
			tagDenoter(c.Denoter, tags)
		}
	}
	ast.Visit(n, func(child ast.Node) { walkConstructs(child, tags) })
}

func tagDenoter(d types.Denoter, tags map[string]bool) {
	switch v := types.Resolve(d).(type) {
	case types.Base:
		if v.Elem == types.Double {
			tags["double"] = true
		}
		if v.Elem == types.Int64 || v.Elem == types.UInt64 {
			tags["int64"] = true
		}
	case types.Buffer:
		if v.Multisample {
			tags["multisample_textures"] = true
		}
		if v.IsRW {
			tags["image_load_store"] = true
		}
		if v.Elem != nil {
			tagDenoter(v.Elem, tags)
		}
	case types.Array:
		if len(v.Dims) >= 2 {
			tags["arrays_of_arrays"] = true
		}
		tagDenoter(v.Base, tags)
	}
}
