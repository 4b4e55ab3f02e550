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

// Package types implements the type-denoter sum type of spec.md §3: Void,
// Base (scalar/vector/matrix), Buffer, Sampler, Structure, Array, Alias and
// Null, plus the free functions that decide equality and castability
// between them. Denoters are immutable values, not AST nodes; the ast
// package embeds them, it does not subclass them.
package types

import "fmt"

// Denoter is the sum-type interface every type denoter implements. The
// marker method mirrors gapil/semantic.Type's closed-interface pattern:
// exhaustive switches over isDenoter() implementations replace a virtual
// dispatch hierarchy.
type Denoter interface {
	isDenoter()
	String() string
}

// Element is the scalar element data type of a Base denoter.
type Element int

const (
	Bool Element = iota
	Int
	UInt
	Int64
	UInt64
	Half
	Float
	Double
	StringElem
)

func (e Element) String() string {
	switch e {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case UInt:
		return "uint"
	case Int64:
		return "int64_t"
	case UInt64:
		return "uint64_t"
	case Half:
		return "half"
	case Float:
		return "float"
	case Double:
		return "double"
	case StringElem:
		return "string"
	default:
		return "?"
	}
}

// IsNumeric reports whether e supports arithmetic operators.
func (e Element) IsNumeric() bool { return e != StringElem }

// IsIntegral reports whether e is one of the integer element types.
func (e Element) IsIntegral() bool {
	return e == Bool || e == Int || e == UInt || e == Int64 || e == UInt64
}

// Void is the type of statements and void-returning functions.
type Void struct{}

func (Void) isDenoter()     {}
func (Void) String() string { return "void" }

// Base is a scalar (Rows=Cols=1), vector (Cols=1, Rows 1..4) or matrix
// (Rows,Cols both 1..4) of a single Element type.
type Base struct {
	Elem Element
	Rows int // 1..4
	Cols int // 1..4
}

func (Base) isDenoter() {}

func (b Base) IsScalar() bool { return b.Rows == 1 && b.Cols == 1 }
func (b Base) IsVector() bool { return b.Cols == 1 && b.Rows > 1 }
func (b Base) IsMatrix() bool { return b.Rows > 1 && b.Cols > 1 }

func (b Base) String() string {
	switch {
	case b.IsScalar():
		return b.Elem.String()
	case b.IsVector():
		return fmt.Sprintf("%s%d", b.Elem, b.Rows)
	default:
		return fmt.Sprintf("%s%dx%d", b.Elem, b.Rows, b.Cols)
	}
}

// BufferKind distinguishes the texture/buffer family member a Buffer
// denoter names.
type BufferKind int

const (
	BufferTexture1D BufferKind = iota
	BufferTexture2D
	BufferTexture3D
	BufferTextureCube
	BufferGenericBuffer     // Buffer<T> / RWBuffer<T>
	BufferByteAddress       // ByteAddressBuffer / RWByteAddressBuffer
	BufferStructured        // StructuredBuffer<T> / RWStructuredBuffer<T>
	BufferAppendOrConsume   // Append/ConsumeStructuredBuffer<T>
	BufferConstant          // cbuffer
	BufferTexture           // tbuffer
)

// Buffer denotes a texture, structured buffer or constant/texture buffer
// type, per spec.md §3's Buffer denoter.
type Buffer struct {
	Kind         BufferKind
	Elem         Denoter // element/template type, nil for ByteAddress buffers
	Multisample  bool
	IsArray      bool
	IsRW         bool // RWTexture*/RWBuffer/RWByteAddressBuffer/RWStructuredBuffer
	IsRect       bool // Texture2D used as a rectangle sampler target (GL-only distinction)
}

func (Buffer) isDenoter() {}

func (b Buffer) String() string {
	prefix := ""
	if b.IsRW {
		prefix = "RW"
	}
	switch b.Kind {
	case BufferTexture1D:
		return prefix + texName("Texture1D", b.Multisample, b.IsArray)
	case BufferTexture2D:
		return prefix + texName("Texture2D", b.Multisample, b.IsArray)
	case BufferTexture3D:
		return prefix + texName("Texture3D", b.Multisample, b.IsArray)
	case BufferTextureCube:
		return prefix + texName("TextureCube", b.Multisample, b.IsArray)
	case BufferGenericBuffer:
		return prefix + "Buffer"
	case BufferByteAddress:
		return prefix + "ByteAddressBuffer"
	case BufferStructured:
		return prefix + "StructuredBuffer"
	case BufferAppendOrConsume:
		return "AppendOrConsumeStructuredBuffer"
	case BufferConstant:
		return "cbuffer"
	case BufferTexture:
		return "tbuffer"
	default:
		return "?buffer"
	}
}

func texName(base string, ms, arr bool) string {
	if ms {
		base += "MS"
	}
	if arr {
		base += "Array"
	}
	return base
}

// SamplerKind distinguishes SamplerState from SamplerComparisonState.
type SamplerKind int

const (
	SamplerState SamplerKind = iota
	SamplerComparisonState
)

// Sampler denotes a sampler-state type.
type Sampler struct {
	Kind SamplerKind
}

func (Sampler) isDenoter() {}

func (s Sampler) String() string {
	if s.Kind == SamplerComparisonState {
		return "SamplerComparisonState"
	}
	return "SamplerState"
}

// StructRef is the minimal view of a structure declaration the types
// package needs; ast.StructDecl satisfies it.
type StructRef interface {
	StructName() string
}

// Structure denotes a named struct type by reference to its declaration.
type Structure struct {
	Decl StructRef
}

func (Structure) isDenoter() {}

func (s Structure) String() string {
	if s.Decl == nil {
		return "struct"
	}
	return s.Decl.StructName()
}

// Array denotes a (possibly multi-dimensional) array of Base. Per spec.md
// §3's flattening invariant, Dims always holds every dimension of a nested
// source array type; an Array denoter's Base is never itself an Array.
type Array struct {
	Base Denoter
	Dims []int // element count per dimension; 0 means "dynamic/unspecified"
}

func (Array) isDenoter() {}

func (a Array) String() string {
	s := a.Base.String()
	for _, d := range a.Dims {
		if d == 0 {
			s += "[]"
		} else {
			s += fmt.Sprintf("[%d]", d)
		}
	}
	return s
}

// AliasRef is the minimal view of a type-alias declaration the types
// package needs; ast.AliasDecl satisfies it.
type AliasRef interface {
	AliasName() string
	Underlying() Denoter
}

// Alias denotes a typedef'd name.
type Alias struct {
	Decl AliasRef
}

func (Alias) isDenoter() {}

func (a Alias) String() string {
	if a.Decl == nil {
		return "alias"
	}
	return a.Decl.AliasName()
}

// Resolve follows an Alias chain down to its first non-Alias denoter.
func Resolve(d Denoter) Denoter {
	for {
		a, ok := d.(Alias)
		if !ok || a.Decl == nil {
			return d
		}
		d = a.Decl.Underlying()
	}
}

// Null is the type of the "NULL" literal; it casts to any Buffer or
// Sampler type and to no other.
type Null struct{}

func (Null) isDenoter()     {}
func (Null) String() string { return "null_t" }

// Equal reports whether a and b denote the same type, resolving aliases on
// both sides first.
func Equal(a, b Denoter) bool {
	a, b = Resolve(a), Resolve(b)
	switch av := a.(type) {
	case Void:
		_, ok := b.(Void)
		return ok
	case Base:
		bv, ok := b.(Base)
		return ok && av == bv
	case Buffer:
		bv, ok := b.(Buffer)
		if !ok || av.Kind != bv.Kind || av.Multisample != bv.Multisample || av.IsArray != bv.IsArray || av.IsRW != bv.IsRW {
			return false
		}
		if av.Elem == nil || bv.Elem == nil {
			return av.Elem == nil && bv.Elem == nil
		}
		return Equal(av.Elem, bv.Elem)
	case Sampler:
		bv, ok := b.(Sampler)
		return ok && av.Kind == bv.Kind
	case Structure:
		bv, ok := b.(Structure)
		return ok && av.Decl == bv.Decl
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av.Dims) != len(bv.Dims) {
			return false
		}
		for i := range av.Dims {
			if av.Dims[i] != bv.Dims[i] {
				return false
			}
		}
		return Equal(av.Base, bv.Base)
	case Null:
		_, ok := b.(Null)
		return ok
	default:
		return false
	}
}

// CanImplicitlyConvert reports whether a value of type from may be used
// where a value of type to is expected without an explicit cast: numeric
// scalar/vector/matrix widening or narrowing (HLSL permits both implicitly,
// unlike C), a Null literal assigned to any Buffer/Sampler, or identical
// types after alias resolution.
func CanImplicitlyConvert(from, to Denoter) bool {
	if Equal(from, to) {
		return true
	}
	from, to = Resolve(from), Resolve(to)
	if _, isNull := from.(Null); isNull {
		switch to.(type) {
		case Buffer, Sampler:
			return true
		}
		return false
	}
	fb, fok := from.(Base)
	tb, tok := to.(Base)
	if fok && tok {
		if fb.Rows != tb.Rows || fb.Cols != tb.Cols {
			if fb.IsScalar() && (tb.IsVector() || tb.IsMatrix()) {
				// scalar -> vectorN/matrixNxM broadcast.
				return tb.Elem.IsNumeric()
			}
			// HLSL allows truncation (vector->smaller vector) but not
			// widening without explicit construction syntax.
			return fb.IsVector() && tb.IsVector() && fb.Rows > tb.Rows
		}
		return fb.Elem.IsNumeric() && tb.Elem.IsNumeric()
	}
	return false
}

// CanExplicitlyCast reports whether a C-style cast "(to)value" of type from
// is permitted; a superset of CanImplicitlyConvert covering narrowing
// conversions the implicit rule rejects (struct-to-struct is never allowed).
func CanExplicitlyCast(from, to Denoter) bool {
	if CanImplicitlyConvert(from, to) {
		return true
	}
	from, to = Resolve(from), Resolve(to)
	fb, fok := from.(Base)
	tb, tok := to.(Base)
	if fok && tok {
		return fb.Elem.IsNumeric() && tb.Elem.IsNumeric()
	}
	return false
}
