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

package token

// Keywords is the fixed HLSL reserved-word table. Anything not present here
// is scanned as Ident.
var Keywords = map[string]Kind{
	// control flow
	"if": KeywordControl, "else": KeywordControl, "for": KeywordControl,
	"while": KeywordControl, "do": KeywordControl, "switch": KeywordControl,
	"case": KeywordControl, "default": KeywordControl, "break": KeywordControl,
	"continue": KeywordControl, "return": KeywordControl, "discard": KeywordControl,

	// scalar/vector/matrix/buffer/sampler type keywords
	"void": KeywordType, "bool": KeywordType, "int": KeywordType, "uint": KeywordType,
	"int64_t": KeywordType, "uint64_t": KeywordType,
	"dword": KeywordType, "half": KeywordType, "float": KeywordType, "double": KeywordType,
	"string": KeywordType,
	"vector": KeywordType, "matrix": KeywordType,
	"Texture1D": KeywordType, "Texture1DArray": KeywordType,
	"Texture2D": KeywordType, "Texture2DArray": KeywordType,
	"Texture2DMS": KeywordType, "Texture2DMSArray": KeywordType,
	"Texture3D": KeywordType, "TextureCube": KeywordType, "TextureCubeArray": KeywordType,
	"RWTexture1D": KeywordType, "RWTexture1DArray": KeywordType,
	"RWTexture2D": KeywordType, "RWTexture2DArray": KeywordType,
	"RWTexture3D": KeywordType, "RWTextureCube": KeywordType, "RWTextureCubeArray": KeywordType,
	"Buffer": KeywordType, "RWBuffer": KeywordType,
	"ByteAddressBuffer": KeywordType, "RWByteAddressBuffer": KeywordType,
	"StructuredBuffer": KeywordType, "RWStructuredBuffer": KeywordType,
	"AppendStructuredBuffer": KeywordType, "ConsumeStructuredBuffer": KeywordType,
	"SamplerState": KeywordType, "SamplerComparisonState": KeywordType,
	"InputPatch": KeywordType, "OutputPatch": KeywordType,
	"cbuffer": KeywordOther, "tbuffer": KeywordOther, "typedef": KeywordOther,

	// vector/matrix aliases are synthesized in the scanner (float4, int3x3, ...)

	// modifiers
	"const": KeywordModifier, "static": KeywordModifier, "extern": KeywordModifier,
	"uniform": KeywordModifier, "volatile": KeywordModifier, "inline": KeywordModifier,
	"in": KeywordModifier, "out": KeywordModifier, "inout": KeywordModifier,
	"row_major": KeywordModifier, "column_major": KeywordModifier,
	"linear": KeywordModifier, "centroid": KeywordModifier, "nointerpolation": KeywordModifier,
	"noperspective": KeywordModifier, "sample": KeywordModifier,
	"precise": KeywordModifier, "shared": KeywordModifier, "groupshared": KeywordModifier,

	"struct": KeywordStruct,
	"register": KeywordRegister,
	"packoffset": KeywordPackoffset,
	"technique": KeywordTechnique, "technique10": KeywordTechnique, "technique11": KeywordTechnique,
	"compile": KeywordCompile,

	"true": BoolLit, "false": BoolLit,
	"NULL": NullLit,

	"class": KeywordOther, "interface": KeywordOther, "namespace": KeywordOther,
	"this": KeywordOther, "sizeof": KeywordOther,
}

// Lookup classifies an identifier-shaped lexeme, returning Ident if it
// is not reserved.
func Lookup(spelling string) Kind {
	if k, ok := Keywords[spelling]; ok {
		return k
	}
	if IsVectorOrMatrixTypeName(spelling) {
		return KeywordType
	}
	return Ident
}

// vectorMatrixBases are the element type names that combine with a
// dimension suffix (float4, int3x3, bool2, ...) to name a vector or matrix
// type. Plain scalar keywords are already in Keywords above.
var vectorMatrixBases = []string{"bool", "int", "uint", "dword", "half", "float", "double"}

// IsVectorOrMatrixTypeName reports whether spelling has the form
// «base» «N» or «base» «R» 'x' «C» with 1<=N,R,C<=4, e.g. "float4",
// "int3x3", "half2x4".
func IsVectorOrMatrixTypeName(spelling string) bool {
	for _, base := range vectorMatrixBases {
		if len(spelling) <= len(base) || spelling[:len(base)] != base {
			continue
		}
		suffix := spelling[len(base):]
		if len(suffix) == 1 && isDim(suffix[0]) {
			return true
		}
		if len(suffix) == 3 && isDim(suffix[0]) && suffix[1] == 'x' && isDim(suffix[2]) {
			return true
		}
	}
	return false
}

func isDim(b byte) bool { return b >= '1' && b <= '4' }
