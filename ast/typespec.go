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

// InterpModifier is an input/output interpolation qualifier.
type InterpModifier int

const (
	InterpNone InterpModifier = iota
	InterpLinear
	InterpCentroid
	InterpNoInterpolation
	InterpNoPerspective
	InterpSample
)

// Direction is a function parameter's data-flow qualifier.
type Direction int

const (
	DirIn Direction = iota
	DirOut
	DirInOut
)

// StorageClass is a declaration storage-duration/linkage qualifier.
type StorageClass int

const (
	StorageNone StorageClass = iota
	StorageStatic
	StorageExtern
	StorageShared
	StorageGroupShared
)

// MatrixMajor records an explicit row_major/column_major annotation; the
// two are mutually exclusive per spec.md §3.
type MatrixMajor int

const (
	MajorUnspecified MatrixMajor = iota
	MajorRow
	MajorColumn
)

// TypeSpecifier is a type denoter plus the modifier set spec.md §3
// describes: const, row_major/column_major (mutually exclusive), storage
// class, interpolation modifiers, the uniform flag and input/output
// direction flags.
type TypeSpecifier struct {
	Base

	Denoter     types.Denoter
	Const       bool
	Major       MatrixMajor
	Storage     StorageClass
	Interp      InterpModifier
	Uniform     bool
	Direction   Direction
	Precise     bool

	// StructDecl is set when this specifier names an inline
	// "struct { ... }" definition; the parser also sets Denoter to a
	// types.Structure wrapping the same declaration.
	StructDecl *StructDecl
}

func (*TypeSpecifier) isNode() {}
