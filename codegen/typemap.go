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

	"github.com/shaderforge/hlslxc/types"
)

// FailedToMap is returned by TypeName for a denoter the fixed HLSL->GLSL
// table has no representation for (spec.md §4.8).
type FailedToMap struct {
	Denoter types.Denoter
}

func (e FailedToMap) Error() string {
	return fmt.Sprintf("FailedToMap: no GLSL equivalent for %s", e.Denoter)
}

var elemName = map[types.Element]string{
	types.Bool:   "bool",
	types.Int:    "int",
	types.UInt:   "uint",
	types.Int64:  "int64_t",  // GL_ARB_gpu_shader_int64
	types.UInt64: "uint64_t", // GL_ARB_gpu_shader_int64
	types.Half:   "float",    // GLSL has no half; widened to float
	types.Float:  "float",
	types.Double: "double",
}

var vecPrefix = map[types.Element]string{
	types.Bool:   "bvec",
	types.Int:    "ivec",
	types.UInt:   "uvec",
	types.Int64:  "i64vec",
	types.UInt64: "u64vec",
	types.Half:   "vec",
	types.Float:  "vec",
	types.Double: "dvec",
}

// TypeName maps d through the fixed HLSL->GLSL table spec.md §4.8
// describes, erroring with FailedToMap for unrepresentable combinations
// (e.g. a string type, which has no GLSL runtime representation).
func TypeName(d types.Denoter) (string, error) {
	d = types.Resolve(d)
	switch v := d.(type) {
	case types.Void:
		return "void", nil
	case types.Null:
		return "", FailedToMap{Denoter: d}
	case types.Base:
		if v.Elem == types.StringElem {
			return "", FailedToMap{Denoter: d}
		}
		if v.IsScalar() {
			return elemName[v.Elem], nil
		}
		if v.IsVector() {
			return fmt.Sprintf("%s%d", vecPrefix[v.Elem], v.Rows), nil
		}
		if v.Elem != types.Float && v.Elem != types.Double && v.Elem != types.Half {
			return "", FailedToMap{Denoter: d}
		}
		prefix := "mat"
		if v.Elem == types.Double {
			prefix = "dmat"
		}
		if v.Rows == v.Cols {
			return fmt.Sprintf("%s%d", prefix, v.Rows), nil
		}
		return fmt.Sprintf("%s%dx%d", prefix, v.Cols, v.Rows), nil
	case types.Sampler:
		return "", FailedToMap{Denoter: d} // samplers never surface as a GLSL value type directly
	case types.Buffer:
		return bufferTypeName(v)
	case types.Structure:
		return v.String(), nil
	case types.Array:
		return TypeName(v.Base)
	default:
		return "", FailedToMap{Denoter: d}
	}
}

func bufferTypeName(b types.Buffer) (string, error) {
	elemSuffix := ""
	if b.Elem != nil {
		if name, err := TypeName(b.Elem); err == nil && name != "float" {
			switch name[0] {
			case 'i':
				elemSuffix = "i"
			case 'u':
				elemSuffix = "u"
			}
		}
	}
	switch b.Kind {
	case types.BufferTexture1D:
		return elemSuffix + "sampler1D" + arraySuffix(b), nil
	case types.BufferTexture2D:
		if b.Multisample {
			return elemSuffix + "sampler2DMS" + arraySuffix(b), nil
		}
		return elemSuffix + "sampler2D" + arraySuffix(b), nil
	case types.BufferTexture3D:
		return elemSuffix + "sampler3D", nil
	case types.BufferTextureCube:
		return elemSuffix + "samplerCube" + arraySuffix(b), nil
	case types.BufferGenericBuffer:
		return elemSuffix + "samplerBuffer", nil
	case types.BufferByteAddress, types.BufferStructured, types.BufferAppendOrConsume:
		return "buffer", nil // emitted as a named SSBO block, not an inline type
	default:
		return "", FailedToMap{Denoter: b}
	}
}

func arraySuffix(b types.Buffer) string {
	if b.IsArray {
		return "Array"
	}
	return ""
}

// MatrixSubscript parses a "_mRC" matrix-subscript member name (1-based
// row/column digits 1..4) into its 0-based row and column, for conversion
// to "matrix[R-1][C-1]" component access.
func MatrixSubscript(name string) (row, col int, ok bool) {
	if len(name) != 4 || name[0] != '_' || name[1] != 'm' {
		return 0, 0, false
	}
	if name[2] < '1' || name[2] > '4' || name[3] < '1' || name[3] > '4' {
		return 0, 0, false
	}
	return int(name[2] - '1'), int(name[3] - '1'), true
}
