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

package intrinsic

import "github.com/shaderforge/hlslxc/types"

// Entry is one row of the static intrinsic table: a canonical identifier
// and every overload it supports. A version/extension floor is recorded
// per overload in Candidate.MinVersion/Extension; the extension planner
// does not read those fields and keeps its own construct table keyed by
// intrinsic name.
type Entry struct {
	ID         string
	Overloads  []Candidate
}

// numericElems are the element types most arithmetic intrinsics are
// generic over; the 64-bit integer overloads are what requires
// GL_ARB_gpu_shader_int64 on the target side.
var numericElems = []types.Element{types.Int, types.UInt, types.Int64, types.UInt64, types.Half, types.Float, types.Double}
var floatElems = []types.Element{types.Half, types.Float, types.Double}

func scalar(e types.Element) types.Denoter { return types.Base{Elem: e, Rows: 1, Cols: 1} }
func vec(e types.Element, n int) types.Denoter { return types.Base{Elem: e, Rows: n, Cols: 1} }

// genericUnary builds one Candidate per (element, dimension) pair for a
// same-in-same-out function, e.g. "abs(floatN) -> floatN".
func genericUnary(elems []types.Element) []Candidate {
	var out []Candidate
	for _, e := range elems {
		for n := 1; n <= 4; n++ {
			t := dimType(e, n)
			out = append(out, Candidate{Params: []types.Denoter{t}, Return: t})
		}
	}
	return out
}

// genericBinary builds one Candidate per (element, dimension) pair for a
// same-in-same-out two-argument function, e.g. "min(floatN,floatN)->floatN".
func genericBinary(elems []types.Element) []Candidate {
	var out []Candidate
	for _, e := range elems {
		for n := 1; n <= 4; n++ {
			t := dimType(e, n)
			out = append(out, Candidate{Params: []types.Denoter{t, t}, Return: t})
		}
	}
	return out
}

func genericTernary(elems []types.Element) []Candidate {
	var out []Candidate
	for _, e := range elems {
		for n := 1; n <= 4; n++ {
			t := dimType(e, n)
			out = append(out, Candidate{Params: []types.Denoter{t, t, t}, Return: t})
		}
	}
	return out
}

func dimType(e types.Element, n int) types.Denoter {
	if n == 1 {
		return scalar(e)
	}
	return vec(e, n)
}

// Table is the static, immutable intrinsic catalogue, built once at
// package init and shared by every compilation.
var Table = buildTable()

func buildTable() map[string]Entry {
	t := map[string]Entry{}
	add := func(id string, overloads []Candidate) { t[id] = Entry{ID: id, Overloads: overloads} }

	add("abs", genericUnary(numericElems))
	add("sign", genericUnary(numericElems))
	add("min", genericBinary(numericElems))
	add("max", genericBinary(numericElems))
	add("clamp", genericTernary(floatElems))
	add("lerp", genericTernary(floatElems))
	add("saturate", genericUnary(floatElems))
	add("step", genericBinary(floatElems))
	add("smoothstep", genericTernary(floatElems))
	add("mad", genericTernary(floatElems))
	add("fma", withVersion(genericTernary([]types.Element{types.Double}), 400, "GL_ARB_gpu_shader_fp64"))
	add("frac", genericUnary(floatElems))
	add("floor", genericUnary(floatElems))
	add("ceil", genericUnary(floatElems))
	add("round", genericUnary(floatElems))
	add("trunc", genericUnary(floatElems))
	add("sqrt", genericUnary(floatElems))
	add("rsqrt", genericUnary(floatElems))
	add("sin", genericUnary(floatElems))
	add("cos", genericUnary(floatElems))
	add("tan", genericUnary(floatElems))
	add("asin", genericUnary(floatElems))
	add("acos", genericUnary(floatElems))
	add("atan", genericUnary(floatElems))
	add("exp", genericUnary(floatElems))
	add("exp2", genericUnary(floatElems))
	add("log", genericUnary(floatElems))
	add("log2", genericUnary(floatElems))
	add("pow", genericBinary(floatElems))
	add("reflect", genericBinary(floatElems))

	{
		var over []Candidate
		for _, e := range floatElems {
			for n := 1; n <= 4; n++ {
				t := dimType(e, n)
				ix := dimType(e, 1)
				over = append(over, Candidate{Params: []types.Denoter{t, t, ix}, Return: t})
			}
		}
		add("refract", over)
	}

	{
		var over []Candidate
		for _, e := range floatElems {
			for n := 1; n <= 4; n++ {
				over = append(over, Candidate{Params: []types.Denoter{dimType(e, n), dimType(e, n)}, Return: scalar(e)})
			}
		}
		add("dot", over)
		add("distance", over)
	}

	{
		var over []Candidate
		for _, e := range floatElems {
			over = append(over, Candidate{Params: []types.Denoter{vec(e, 3), vec(e, 3)}, Return: vec(e, 3)})
		}
		add("cross", over)
	}

	{
		var over []Candidate
		for _, e := range floatElems {
			for n := 1; n <= 4; n++ {
				over = append(over, Candidate{Params: []types.Denoter{dimType(e, n)}, Return: scalar(e)})
			}
		}
		add("length", over)
	}
	add("normalize", genericUnary(floatElems))

	{
		var over []Candidate
		for _, rows := range []int{2, 3, 4} {
			for _, cols := range []int{2, 3, 4} {
				m := types.Base{Elem: types.Float, Rows: rows, Cols: cols}
				mt := types.Base{Elem: types.Float, Rows: cols, Cols: rows}
				over = append(over, Candidate{Params: []types.Denoter{m}, Return: mt})
			}
		}
		add("transpose", over)
	}
	{
		var over []Candidate
		for _, n := range []int{2, 3, 4} {
			over = append(over, Candidate{Params: []types.Denoter{types.Base{Elem: types.Float, Rows: n, Cols: n}}, Return: scalar(types.Float)})
		}
		add("determinant", over)
	}

	{
		// mul: vector*matrix, matrix*vector, matrix*matrix, scalar*anything.
		var over []Candidate
		for _, n := range []int{2, 3, 4} {
			v := vec(types.Float, n)
			m := types.Base{Elem: types.Float, Rows: n, Cols: n}
			over = append(over, Candidate{Params: []types.Denoter{v, m}, Return: v})
			over = append(over, Candidate{Params: []types.Denoter{m, v}, Return: v})
			over = append(over, Candidate{Params: []types.Denoter{m, m}, Return: m})
		}
		add("mul", over)
	}

	add("ddx", genericUnary(floatElems))
	add("ddy", genericUnary(floatElems))
	{
		over := genericUnary(floatElems)
		add("ddx_fine", withVersion(over, 450, "GL_ARB_derivative_control"))
		add("ddy_fine", withVersion(genericUnary(floatElems), 450, "GL_ARB_derivative_control"))
		add("ddx_coarse", genericUnary(floatElems))
		add("ddy_coarse", genericUnary(floatElems))
	}

	{
		var over []Candidate
		for n := 1; n <= 4; n++ {
			over = append(over, Candidate{Params: []types.Denoter{dimType(types.Float, n)}, Return: dimType(types.Int, n)})
		}
		add("asint", over)
	}
	{
		var over []Candidate
		for n := 1; n <= 4; n++ {
			over = append(over, Candidate{Params: []types.Denoter{dimType(types.Float, n)}, Return: dimType(types.UInt, n)})
		}
		add("asuint", over)
	}
	{
		var over []Candidate
		for n := 1; n <= 4; n++ {
			over = append(over, Candidate{Params: []types.Denoter{dimType(types.Int, n)}, Return: dimType(types.Float, n)})
			over = append(over, Candidate{Params: []types.Denoter{dimType(types.UInt, n)}, Return: dimType(types.Float, n)})
		}
		add("asfloat", over)
	}

	add("countbits", genericUnary([]types.Element{types.UInt}))
	add("firstbithigh", genericUnary([]types.Element{types.UInt, types.Int}))
	add("firstbitlow", genericUnary([]types.Element{types.UInt, types.Int}))
	add("reversebits", genericUnary([]types.Element{types.UInt}))

	{
		over := []Candidate{{Params: []types.Denoter{scalar(types.UInt)}, Return: scalar(types.Float)}}
		add("f16tof32", withVersion(over, 0, ""))
		add("f32tof16", []Candidate{{Params: []types.Denoter{scalar(types.Float)}, Return: scalar(types.UInt)}})
	}

	{
		// sincos and modf write through their trailing arguments, so their
		// candidates carry OutputIndices for the analyzer's l-value check.
		var sincos, modf []Candidate
		for _, e := range floatElems {
			for n := 1; n <= 4; n++ {
				t := dimType(e, n)
				sincos = append(sincos, Candidate{Params: []types.Denoter{t, t, t}, Return: types.Void{}, OutputIndices: []int{1, 2}})
				modf = append(modf, Candidate{Params: []types.Denoter{t, t}, Return: t, OutputIndices: []int{1}})
			}
		}
		add("sincos", sincos)
		add("modf", modf)
	}

	add("GroupMemoryBarrier", []Candidate{{Params: nil, Return: types.Void{}}})
	add("GroupMemoryBarrierWithGroupSync", []Candidate{{Params: nil, Return: types.Void{}}})
	add("AllMemoryBarrier", []Candidate{{Params: nil, Return: types.Void{}}})
	add("AllMemoryBarrierWithGroupSync", []Candidate{{Params: nil, Return: types.Void{}}})

	return t
}

func withVersion(cands []Candidate, minVersion int, ext string) []Candidate {
	out := make([]Candidate, len(cands))
	for i, c := range cands {
		c.MinVersion = minVersion
		c.Extension = ext
		out[i] = c
	}
	return out
}

// IsIntrinsic reports whether ident names a known intrinsic.
func IsIntrinsic(ident string) bool {
	_, ok := Table[ident]
	return ok
}

// ReturnTypeFor runs Resolve over ident's overload set and returns the
// resolved return type, per spec.md §4.6's return-type-for query.
func ReturnTypeFor(ident string, argTypes []types.Denoter) (types.Denoter, Candidate, error) {
	entry, ok := Table[ident]
	if !ok {
		return nil, Candidate{}, errNotIntrinsic(ident)
	}
	c, err := Resolve(ident, entry.Overloads, argTypes)
	if err != nil {
		return nil, Candidate{}, err
	}
	return ReturnType(c, argTypes), c, nil
}

// OutputParameterIndices returns the write-back parameter indices for
// ident's resolved candidate.
func OutputParameterIndices(c Candidate) []int { return c.OutputIndices }

type notIntrinsicError string

func (e notIntrinsicError) Error() string { return "not an intrinsic: " + string(e) }

func errNotIntrinsic(ident string) error { return notIntrinsicError(ident) }
