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

package reflect

import (
	"strconv"
	"strings"

	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/types"
)

// constantBuffer computes one cbuffer/tbuffer's packed layout following
// spec.md §4.9's Direct3D packing rule: each field is placed at the lowest
// 4-byte aligned offset that does not cross a 16-byte boundary ("register"),
// and the total size is rounded up to a multiple of 16.
func constantBuffer(decl *ast.UniformBufferDecl) ConstantBuffer {
	slot, hasSlot := parseRegisterSlot(decl.Register)
	cb := ConstantBuffer{Name: decl.Name, Binding: slot, HasBinding: hasSlot}
	p := &packer{}
	for _, f := range decl.Fields {
		off, size := p.place(f.Denoter())
		cb.Fields = append(cb.Fields, ConstantBufferField{Name: f.Name, Offset: off, Size: size})
	}
	cb.Size = roundUp16(p.offset)
	cb.Padding = cb.Size - p.offset
	return cb
}

// packer tracks the running byte offset of a constant-buffer packing walk.
type packer struct {
	offset int
}

// place lays out one field's denoter and returns its (offset, size) pair,
// advancing the packer's offset past it.
func (p *packer) place(d types.Denoter) (offset, size int) {
	size = fieldSize(d)
	start := alignForSize(p.offset, d)
	p.offset = start + size
	return start, size
}

// alignForSize returns the byte offset at or after cur where d may start
// without crossing a 16-byte register boundary. A matrix or array, which
// HLSL always packs one row/element per register, instead always starts a
// fresh register.
func alignForSize(cur int, d types.Denoter) int {
	switch v := types.Resolve(d).(type) {
	case types.Base:
		if v.IsMatrix() {
			return roundUp16(cur)
		}
	case types.Array, types.Structure:
		return roundUp16(cur)
	}
	size := fieldSize(d)
	if size <= 0 {
		return cur
	}
	regStart := cur / 16
	regEnd := (cur + size - 1) / 16
	if regStart != regEnd {
		return roundUp16(cur)
	}
	return cur
}

// fieldSize returns the packed byte size of one constant-buffer field's
// denoter: a matrix occupies one 16-byte register per row, an array
// occupies one 16-byte-rounded stride per element, everything else is its
// natural component width.
func fieldSize(d types.Denoter) int {
	switch v := types.Resolve(d).(type) {
	case types.Base:
		if v.IsMatrix() {
			return v.Rows * 16
		}
		return v.Rows * componentSize(v.Elem)
	case types.Array:
		count := 1
		for _, n := range v.Dims {
			if n > 0 {
				count *= n
			}
		}
		return count * roundUp16(fieldSize(v.Base))
	case types.Structure:
		st, ok := v.Decl.(*ast.StructDecl)
		if !ok {
			return 0
		}
		inner := &packer{}
		for _, f := range st.Fields {
			inner.place(f.Denoter())
		}
		return roundUp16(inner.offset)
	default:
		return 0
	}
}

// componentSize is the Direct3D cbuffer component width: every scalar
// occupies a full 4-byte slot except the 8-byte double and 64-bit
// integer types.
func componentSize(e types.Element) int {
	switch e {
	case types.Double, types.Int64, types.UInt64:
		return 8
	default:
		return 4
	}
}

func roundUp16(n int) int {
	if n%16 == 0 {
		return n
	}
	return n + (16 - n%16)
}

// samplerState builds one SamplerDecl's reflection entry. A sampler is
// static only if every recognized state key resolved to a literal
// constant; otherwise it is reported dynamic with no descriptor, per
// spec.md §4.9.
func samplerState(decl *ast.SamplerDecl, slot int, hasSlot bool) SamplerState {
	s := SamplerState{Name: decl.Name, Binding: slot, HasBinding: hasSlot}
	if len(decl.States) == 0 {
		return s
	}
	desc := SamplerStateDesc{MaxAnisotropy: 1, MaxLOD: 3.402823466e+38}
	ok := true
	for key, expr := range decl.States {
		switch key {
		case "Filter":
			name, isName := identName(expr)
			v, known := filterValue(name)
			if !isName || !known {
				ok = false
				continue
			}
			desc.Filter = v
		case "AddressU":
			v, known := addressModeValue(expr)
			ok = ok && known
			desc.AddressU = v
		case "AddressV":
			v, known := addressModeValue(expr)
			ok = ok && known
			desc.AddressV = v
		case "AddressW":
			v, known := addressModeValue(expr)
			ok = ok && known
			desc.AddressW = v
		case "MipLODBias":
			v, known := numberValue(expr)
			ok = ok && known
			desc.MipLODBias = v
		case "MaxAnisotropy":
			v, known := numberValue(expr)
			ok = ok && known
			desc.MaxAnisotropy = int(v)
		case "ComparisonFunc":
			name, isName := identName(expr)
			v, known := comparisonFuncValue(name)
			if !isName || !known {
				ok = false
				continue
			}
			desc.ComparisonFunc = v
		case "MinLOD":
			v, known := numberValue(expr)
			ok = ok && known
			desc.MinLOD = v
		case "MaxLOD":
			v, known := numberValue(expr)
			ok = ok && known
			desc.MaxLOD = v
		case "BorderColor":
			list, isList := expr.(*ast.InitializerList)
			if !isList || len(list.Elems) != 4 {
				ok = false
				continue
			}
			for i, e := range list.Elems {
				v, known := numberValue(e)
				ok = ok && known
				desc.BorderColor[i] = v
			}
		}
	}
	s.Static = ok
	if ok {
		s.Desc = desc
	}
	return s
}

func identName(e ast.Expr) (string, bool) {
	id, ok := e.(*ast.Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
}

func numberValue(e ast.Expr) (float64, bool) {
	lit, ok := e.(*ast.Literal)
	if !ok {
		return 0, false
	}
	switch lit.Kind {
	case ast.LitInt:
		n, err := strconv.Atoi(trimIntSuffix(lit.Spelling))
		return float64(n), err == nil
	case ast.LitFloat:
		f, err := strconv.ParseFloat(strings.TrimRight(lit.Spelling, "fF"), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// d3d11FilterBase maps the unprefixed D3D11_FILTER names to their base
// value; COMPARISON_/MINIMUM_/MAXIMUM_ prefixes add a fixed bit offset on
// top, mirroring the real enum's bit layout.
var d3d11FilterBase = map[string]int{
	"MIN_MAG_MIP_POINT":               0x00,
	"MIN_MAG_POINT_MIP_LINEAR":        0x01,
	"MIN_POINT_MAG_LINEAR_MIP_POINT":  0x04,
	"MIN_POINT_MAG_MIP_LINEAR":        0x05,
	"MIN_LINEAR_MAG_MIP_POINT":        0x10,
	"MIN_LINEAR_MAG_POINT_MIP_LINEAR": 0x11,
	"MIN_MAG_LINEAR_MIP_POINT":        0x14,
	"MIN_MAG_MIP_LINEAR":              0x15,
	"ANISOTROPIC":                     0x55,
}

func filterValue(name string) (int, bool) {
	offset := 0
	switch {
	case strings.HasPrefix(name, "COMPARISON_"):
		offset = 0x80
		name = strings.TrimPrefix(name, "COMPARISON_")
	case strings.HasPrefix(name, "MINIMUM_"):
		offset = 0x100
		name = strings.TrimPrefix(name, "MINIMUM_")
	case strings.HasPrefix(name, "MAXIMUM_"):
		offset = 0x180
		name = strings.TrimPrefix(name, "MAXIMUM_")
	}
	base, ok := d3d11FilterBase[name]
	if !ok {
		return 0, false
	}
	return base + offset, true
}

// d3d11AddressMode is the D3D11_TEXTURE_ADDRESS_MODE enumeration.
var d3d11AddressMode = map[string]int{
	"WRAP":        1,
	"MIRROR":      2,
	"CLAMP":       3,
	"BORDER":      4,
	"MIRROR_ONCE": 5,
}

func addressModeValue(e ast.Expr) (int, bool) {
	name, ok := identName(e)
	if !ok {
		return 0, false
	}
	v, ok := d3d11AddressMode[name]
	return v, ok
}

// d3d11ComparisonFunc is the D3D11_COMPARISON_FUNC enumeration.
var d3d11ComparisonFunc = map[string]int{
	"NEVER":         1,
	"LESS":          2,
	"EQUAL":         3,
	"LESS_EQUAL":    4,
	"GREATER":       5,
	"NOT_EQUAL":     6,
	"GREATER_EQUAL": 7,
	"ALWAYS":        8,
}

func comparisonFuncValue(name string) (int, bool) {
	v, ok := d3d11ComparisonFunc[name]
	return v, ok
}
