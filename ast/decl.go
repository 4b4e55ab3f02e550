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

package ast

import "github.com/shaderforge/hlslxc/types"

// VarDecl is a variable declaration: "TypeSpecifier name [array-dims]
// [: semantic] [register] [= initializer]". Used both at global scope and
// as a statement inside a function body.
type VarDecl struct {
	Base
	TypeSpec  *TypeSpecifier
	Name      string
	ArrayDims []Expr // constant-expression array dimensions, outermost first
	Semantic  string // HLSL semantic, e.g. "SV_Position"; "" if none
	Register  string // explicit "register(...)" binding slot; "" if none
	PackOffset string // explicit "packoffset(...)" slot; "" if none
	Init      Expr   // nil if uninitialized

	// resolvedType caches the variable's fully resolved type denoter; see
	// Denoter().
	resolvedType types.Denoter
}

func (*VarDecl) isNode() {}
func (*VarDecl) isDecl() {}

// Denoter returns v's cached type, composing the array dimensions from
// ArrayDims onto the TypeSpecifier's base denoter the first time it is
// asked for.
func (v *VarDecl) Denoter() types.Denoter {
	if v.resolvedType == nil {
		base := v.TypeSpec.Denoter
		if len(v.ArrayDims) == 0 {
			v.resolvedType = base
		} else {
			v.resolvedType = types.Array{Base: base, Dims: make([]int, len(v.ArrayDims))}
		}
	}
	return v.resolvedType
}

// SetArrayDim fills in the constant-folded size of dimension i, invalidating
// nothing else in the cache (spec.md §3's array-flattening invariant: a
// VarDecl's Array denoter never nests another Array).
func (v *VarDecl) SetArrayDim(i, size int) {
	if arr, ok := v.resolvedType.(types.Array); ok {
		arr.Dims[i] = size
		v.resolvedType = arr
	}
}

// InvalidateType clears the cached denoter, forcing recomputation on next
// Denoter() call; used by the analyzer after retyping a literal initializer.
func (v *VarDecl) InvalidateType() { v.resolvedType = nil }

// BufferDecl declares a texture/RWTexture/structured-buffer/byte-address
// buffer object at global scope.
type BufferDecl struct {
	Base
	TypeSpec *TypeSpecifier // Denoter is a types.Buffer
	Name     string
	Register string
}

func (*BufferDecl) isNode() {}
func (*BufferDecl) isDecl() {}

// SamplerDecl declares a SamplerState/SamplerComparisonState object,
// optionally with inline state assignments (filter, address modes, ...).
type SamplerDecl struct {
	Base
	TypeSpec *TypeSpecifier // Denoter is a types.Sampler
	Name     string
	Register string
	States   map[string]Expr // inline "{ Filter = ...; AddressU = ...; }" body
}

func (*SamplerDecl) isNode() {}
func (*SamplerDecl) isDecl() {}

// StructMember is either a VarDecl or a FuncDecl member of a StructDecl.
type StructMember interface {
	Node
}

// StructDecl declares a struct type, with optional single-base inheritance
// per spec.md §3.
type StructDecl struct {
	Base
	Name       string
	BaseName   string       // name of the base struct, "" if none
	BaseDecl   *StructDecl  // resolved by the analyzer from BaseName
	Fields     []*VarDecl   // ordered member-variable declarations
	Methods    []*FuncDecl  // member functions
	IsAnonymous bool
}

func (*StructDecl) isNode() {}
func (*StructDecl) isDecl() {}

// StructName implements types.StructRef.
func (s *StructDecl) StructName() string { return s.Name }

// FindField looks up a member by name, walking the base struct first (so a
// derived member of the same name shadows it) per spec.md §3's member
// lookup invariant. ok is false if no member with that name exists in
// either struct.
func (s *StructDecl) FindField(name string) (field *VarDecl, shadowsBase bool, ok bool) {
	var baseField *VarDecl
	if s.BaseDecl != nil {
		if f, _, found := s.BaseDecl.FindField(name); found {
			baseField = f
		}
	}
	for _, f := range s.Fields {
		if f.Name == name {
			return f, baseField != nil, true
		}
	}
	if baseField != nil {
		return baseField, false, true
	}
	return nil, false, false
}

// AliasDecl declares a "typedef" name for another type denoter.
type AliasDecl struct {
	Base
	Name        string
	Underlying_ types.Denoter
}

func (*AliasDecl) isNode() {}
func (*AliasDecl) isDecl() {}

// AliasName implements types.AliasRef.
func (a *AliasDecl) AliasName() string { return a.Name }

// Underlying implements types.AliasRef.
func (a *AliasDecl) Underlying() types.Denoter { return a.Underlying_ }

// Param is one function parameter. Per spec.md §3's invariant, a function's
// Params has a contiguous prefix of required parameters (Default == nil)
// followed by optional parameters (Default != nil).
type Param struct {
	Base
	TypeSpec *TypeSpecifier
	Name     string
	Semantic string
	Default  Expr // nil if required
}

func (*Param) isNode() {}

// FuncDecl declares a free function or structure member function. Body is
// nil for a forward declaration or an intrinsic-only prototype; ImplOf
// links a later out-of-line definition back to its forward declaration.
type FuncDecl struct {
	Base
	ReturnType *TypeSpecifier
	Name       string
	Params     []*Param
	Semantic   string // return-value semantic, e.g. "SV_Target"
	Attributes map[string][]Expr // "[numthreads(8,8,1)]"-style attributes
	Body       *BlockStmt

	ImplOf *FuncDecl // set on the out-of-line definition of a forward decl
}

func (*FuncDecl) isNode() {}
func (*FuncDecl) isDecl() {}

// RequiredParamCount returns the number of leading parameters with no
// default initializer.
func (f *FuncDecl) RequiredParamCount() int {
	n := 0
	for _, p := range f.Params {
		if p.Default != nil {
			break
		}
		n++
	}
	return n
}

// UniformBufferDecl declares a "cbuffer"/"tbuffer" block: a named group of
// member variables sharing one constant-buffer register slot.
type UniformBufferDecl struct {
	Base
	IsTextureBuffer bool // true for "tbuffer", false for "cbuffer"
	Name            string
	Register        string
	Fields          []*VarDecl
}

func (*UniformBufferDecl) isNode() {}
func (*UniformBufferDecl) isDecl() {}
