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

// Package reflect implements the reflection extractor of spec.md §4.9: it
// walks the analyzed AST (never the generated output text) and emits a
// Record describing the entry point's inputs/outputs, uniforms, bound
// resources, constant buffers and sampler states. Struct tags follow the
// teacher's protobuf-message field-naming convention (snake_case) so a
// Record can be marshaled to JSON for an out-of-process caller without a
// bespoke serializer.
package reflect

import (
	"strconv"

	"github.com/shaderforge/hlslxc/analyzer"
	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/stage"
)

// IOAttribute is one entry-point input or output, per spec.md §4.9.
type IOAttribute struct {
	Semantic    string `json:"semantic"`
	Location    int    `json:"location"`
	HasLocation bool   `json:"has_location"`
}

// UniformVar is a single scalar/vector uniform declared outside any
// constant buffer.
type UniformVar struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Resource is a texture, byte/structured buffer, or sampler binding.
type Resource struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Binding    int    `json:"binding"`
	HasBinding bool   `json:"has_binding"`
}

// ConstantBufferField is one member of a ConstantBuffer, laid out per the
// Direct3D packing rule.
type ConstantBufferField struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
}

// ConstantBuffer describes one cbuffer/tbuffer's binding slot, packed
// size and per-field layout.
type ConstantBuffer struct {
	Name       string                 `json:"name"`
	Binding    int                    `json:"binding"`
	HasBinding bool                   `json:"has_binding"`
	Size       int                    `json:"size"`    // rounded up to a multiple of 16
	Padding    int                    `json:"padding"` // trailing bytes after the last field
	Fields     []ConstantBufferField  `json:"fields"`
}

// SamplerStateDesc is the full D3D11-bit-identical sampler descriptor,
// populated only for a static sampler state (spec.md §4.9).
type SamplerStateDesc struct {
	Filter         int       `json:"filter"`
	AddressU       int       `json:"address_u"`
	AddressV       int       `json:"address_v"`
	AddressW       int       `json:"address_w"`
	MipLODBias     float64   `json:"mip_lod_bias"`
	MaxAnisotropy  int       `json:"max_anisotropy"`
	ComparisonFunc int       `json:"comparison_func"`
	BorderColor    [4]float64 `json:"border_color"`
	MinLOD         float64   `json:"min_lod"`
	MaxLOD         float64   `json:"max_lod"`
}

// SamplerState is one sampler object's reflection entry. Static is true
// when every state assignment resolved to a literal constant, in which
// case Desc is populated; a dynamic sampler only carries Name/Binding.
type SamplerState struct {
	Name       string           `json:"name"`
	Binding    int              `json:"binding"`
	HasBinding bool             `json:"has_binding"`
	Static     bool             `json:"static"`
	Desc       SamplerStateDesc `json:"desc"`
}

// Record is the complete reflection output for one entry point, per
// spec.md §4.9.
type Record struct {
	Inputs          []IOAttribute    `json:"inputs"`
	Outputs         []IOAttribute    `json:"outputs"`
	Uniforms        []UniformVar     `json:"uniforms"`
	Resources       []Resource       `json:"resources"`
	ConstantBuffers []ConstantBuffer `json:"constant_buffers"`
	SamplerStates   []SamplerState   `json:"sampler_states"`
	NumThreads      [3]int           `json:"num_threads"`
}

// Extract walks prog and io (the analyzer's synthesized entry-point I/O
// for entryFn) and builds the reflection Record for st. io may be nil if
// entryFn carries no semantic-tagged parameters or return value.
func Extract(prog *ast.Program, io *analyzer.EntryPointIO, entryFn *ast.FuncDecl, st stage.Stage) *Record {
	rec := &Record{}
	if io != nil {
		rec.Inputs = ioAttributes(io.Inputs, st, false)
		rec.Outputs = ioAttributes(io.Outputs, st, true)
	}
	for _, d := range prog.Decls {
		switch v := d.(type) {
		case *ast.VarDecl:
			if v.TypeSpec.Storage != ast.StorageStatic {
				rec.Uniforms = append(rec.Uniforms, UniformVar{Name: v.Name, Type: v.TypeSpec.Denoter.String()})
			}
		case *ast.BufferDecl:
			slot, hasSlot := parseRegisterSlot(v.Register)
			rec.Resources = append(rec.Resources, Resource{
				Kind: v.TypeSpec.Denoter.String(), Name: v.Name, Binding: slot, HasBinding: hasSlot,
			})
		case *ast.SamplerDecl:
			slot, hasSlot := parseRegisterSlot(v.Register)
			rec.Resources = append(rec.Resources, Resource{
				Kind: "sampler", Name: v.Name, Binding: slot, HasBinding: hasSlot,
			})
			rec.SamplerStates = append(rec.SamplerStates, samplerState(v, slot, hasSlot))
		case *ast.UniformBufferDecl:
			rec.ConstantBuffers = append(rec.ConstantBuffers, constantBuffer(v))
		}
	}
	if entryFn != nil {
		rec.NumThreads = numThreads(entryFn)
	}
	return rec
}

// ioAttributes assigns sequential locations the way codegen/entrypoint.go's
// emitIOGlobal does: a built-in semantic (gl_Position, gl_FragCoord, ...)
// carries no location, SV_TargetN gets its explicit index, everything else
// is assigned in declaration order starting from 0.
func ioAttributes(vars []*ast.VarDecl, st stage.Stage, isOutput bool) []IOAttribute {
	var attrs []IOAttribute
	next := 0
	for _, v := range vars {
		if _, ok := builtinSemantic(v.Semantic, st, isOutput); ok {
			attrs = append(attrs, IOAttribute{Semantic: v.Semantic})
			continue
		}
		if isOutput && st == stage.Fragment {
			if loc, ok := targetLocation(v.Semantic); ok {
				attrs = append(attrs, IOAttribute{Semantic: v.Semantic, Location: loc, HasLocation: true})
				continue
			}
		}
		attrs = append(attrs, IOAttribute{Semantic: v.Semantic, Location: next, HasLocation: true})
		next++
	}
	return attrs
}

// builtinSemantic mirrors codegen/entrypoint.go's mapping of a semantic to
// a GLSL built-in variable; such a semantic is never assigned a numbered
// location.
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
	const prefix = "SV_Target"
	if len(semantic) > len(prefix) && semantic[:len(prefix)] == prefix {
		if n, err := strconv.Atoi(semantic[len(prefix):]); err == nil {
			return n, true
		}
	}
	return 0, false
}

// numThreads reads the "[numthreads(x,y,z)]" compute attribute; absent on
// a non-compute entry point, in which case the zero value is returned.
func numThreads(fn *ast.FuncDecl) [3]int {
	var n [3]int
	args, ok := fn.Attributes["numthreads"]
	if !ok || len(args) != 3 {
		return n
	}
	for i, a := range args {
		if lit, ok := a.(*ast.Literal); ok && lit.Kind == ast.LitInt {
			v, _ := strconv.Atoi(trimIntSuffix(lit.Spelling))
			n[i] = v
		}
	}
	return n
}

func trimIntSuffix(s string) string {
	end := len(s)
	for end > 0 {
		c := s[end-1]
		if c == 'u' || c == 'U' || c == 'l' || c == 'L' {
			end--
			continue
		}
		break
	}
	return s[:end]
}

// parseRegisterSlot extracts the digits following a "register(...)"
// annotation's leading letter, e.g. "t0" -> 0; a local copy of
// codegen/binding.go's parseRegister narrowed to what reflection needs
// (the register class itself is immaterial here, only the slot number).
func parseRegisterSlot(reg string) (slot int, ok bool) {
	if reg == "" {
		return 0, false
	}
	i := 1
	n := 0
	had := false
	for i < len(reg) && reg[i] >= '0' && reg[i] <= '9' {
		n = n*10 + int(reg[i]-'0')
		i++
		had = true
	}
	if !had {
		return 0, false
	}
	return n, true
}
