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
	"strings"

	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/mangle"
	"github.com/shaderforge/hlslxc/types"
)

// directRename holds intrinsics with a GLSL equivalent under a different
// name but identical argument order (spec.md §4.8's "inlined... direct
// equivalent" strategy).
var directRename = map[string]string{
	"rsqrt":      "inversesqrt",
	"frac":       "fract",
	"lerp":       "mix",
	"ddx":        "dFdx",
	"ddy":        "dFdy",
	"ddx_fine":   "dFdxFine",
	"ddy_fine":   "dFdyFine",
	"ddx_coarse": "dFdxCoarse",
	"ddy_coarse": "dFdyCoarse",
}

// sameName holds intrinsics GLSL spells identically to HLSL.
var sameName = map[string]bool{
	"abs": true, "sign": true, "min": true, "max": true, "clamp": true,
	"step": true, "smoothstep": true, "floor": true, "ceil": true,
	"round": true, "trunc": true, "sqrt": true, "sin": true, "cos": true,
	"tan": true, "asin": true, "acos": true, "atan": true, "exp": true,
	"exp2": true, "log": true, "log2": true, "pow": true, "reflect": true,
	"refract": true, "dot": true, "distance": true, "cross": true,
	"length": true, "normalize": true, "transpose": true, "determinant": true,
	"fma": true, "modf": true,
}

// intrinsicCall renders c (whose Callee names an intrinsic) either as a
// direct/renamed GLSL builtin call or as a call to a wrapper function, per
// spec.md §4.8. prescanWrappers emits one wrapper per intrinsic name, with
// float scalar parameters only; calls with other argument types (vectors,
// double) share that one wrapper and get none of their own. args is
// already-rendered per-argument text.
func (g *generator) intrinsicCall(c *ast.Call, args []string) string {
	id := c.IntrinsicID
	if to, ok := directRename[id]; ok {
		return to + "(" + strings.Join(args, ", ") + ")"
	}
	if sameName[id] {
		return id + "(" + strings.Join(args, ", ") + ")"
	}
	switch id {
	case "saturate":
		return fmt.Sprintf("clamp(%s, 0.0, 1.0)", args[0])
	case "mad":
		if g.opts.PreferWrappers {
			return g.wrapperName("mad") + "(" + strings.Join(args, ", ") + ")"
		}
		return fmt.Sprintf("(%s * %s + %s)", args[0], args[1], args[2])
	case "mul":
		return fmt.Sprintf("(%s * %s)", args[0], args[1])
	case "asint", "asuint":
		return fmt.Sprintf("floatBitsTo%s(%s)", strings.Title(strings.TrimPrefix(id, "as")), args[0])
	case "asfloat":
		elem := argElement(c, 0)
		switch elem {
		case types.UInt:
			return fmt.Sprintf("uintBitsToFloat(%s)", args[0])
		default:
			return fmt.Sprintf("intBitsToFloat(%s)", args[0])
		}
	case "countbits":
		return fmt.Sprintf("bitCount(%s)", args[0])
	case "firstbithigh":
		return fmt.Sprintf("findMSB(%s)", args[0])
	case "firstbitlow":
		return fmt.Sprintf("findLSB(%s)", args[0])
	case "reversebits":
		return fmt.Sprintf("bitfieldReverse(%s)", args[0])
	case "f16tof32":
		return fmt.Sprintf("unpackHalf2x16(%s).x", args[0])
	case "f32tof16":
		return fmt.Sprintf("packHalf2x16(vec2(%s, 0.0))", args[0])
	case "sincos":
		// No GLSL equivalent exists; always realized through a wrapper.
		return g.wrapperName("sincos") + "(" + strings.Join(args, ", ") + ")"
	case "GroupMemoryBarrier", "GroupMemoryBarrierWithGroupSync":
		return "groupMemoryBarrier()"
	case "AllMemoryBarrier", "AllMemoryBarrierWithGroupSync":
		return "memoryBarrier()"
	default:
		return id + "(" + strings.Join(args, ", ") + ")"
	}
}

func argElement(c *ast.Call, i int) types.Element {
	if i >= len(c.Args) {
		return types.Float
	}
	d := types.Resolve(c.Args[i].Type())
	if b, ok := d.(types.Base); ok {
		return b.Elem
	}
	return types.Float
}

func (g *generator) wrapperName(name string) string {
	return mangle.Mangle(g.mangling, mangle.Entity{Kind: mangle.Temporary, Name: name})
}

func (g *generator) emitSincosWrapper() {
	name := g.wrapperName("sincos")
	if g.fmtOpts.CompactWrappers {
		g.w.Line(fmt.Sprintf("void %s(float x, out float s, out float c) { s = sin(x); c = cos(x); }", name))
		return
	}
	g.w.Line(fmt.Sprintf("void %s(float x, out float s, out float c) {", name))
	g.w.Indent()
	g.w.Line("s = sin(x);")
	g.w.Line("c = cos(x);")
	g.w.Unindent()
	g.w.Line("}")
}

func (g *generator) emitMadWrapper() {
	name := g.wrapperName("mad")
	if g.fmtOpts.CompactWrappers {
		g.w.Line(fmt.Sprintf("float %s(float a, float b, float c) { return a * b + c; }", name))
		return
	}
	g.w.Line(fmt.Sprintf("float %s(float a, float b, float c) {", name))
	g.w.Indent()
	g.w.Line("return a * b + c;")
	g.w.Unindent()
	g.w.Line("}")
}
