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

package parser

import (
	"strconv"
	"strings"

	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/token"
	"github.com/shaderforge/hlslxc/types"
)

// parseTypeSpecifier parses a modifier list followed by a base type
// denoter: either an inline struct body, a keyword-named scalar/vector/
// matrix/texture/sampler type, or a previously declared struct/alias name.
func (p *Parser) parseTypeSpecifier() *ast.TypeSpecifier {
	begin := p.cur()
	spec := &ast.TypeSpecifier{Base: ast.NewBase(begin.Area)}
	for p.at(token.KeywordModifier) {
		switch p.cur().Spelling {
		case "const":
			spec.Const = true
		case "row_major":
			spec.Major = ast.MajorRow
		case "column_major":
			spec.Major = ast.MajorColumn
		case "static":
			spec.Storage = ast.StorageStatic
		case "extern":
			spec.Storage = ast.StorageExtern
		case "shared":
			spec.Storage = ast.StorageShared
		case "groupshared":
			spec.Storage = ast.StorageGroupShared
		case "uniform":
			spec.Uniform = true
		case "in":
			spec.Direction = ast.DirIn
		case "out":
			spec.Direction = ast.DirOut
		case "inout":
			spec.Direction = ast.DirInOut
		case "linear":
			spec.Interp = ast.InterpLinear
		case "centroid":
			spec.Interp = ast.InterpCentroid
		case "nointerpolation":
			spec.Interp = ast.InterpNoInterpolation
		case "noperspective":
			spec.Interp = ast.InterpNoPerspective
		case "sample":
			spec.Interp = ast.InterpSample
		case "precise":
			spec.Precise = true
		}
		p.advance()
	}

	if p.at(token.KeywordStruct) {
		begin := p.advance() // "struct"
		var name string
		if t, ok := p.accept(token.Ident); ok {
			name = t.Spelling
		}
		var baseName string
		if _, ok := p.accept(token.Colon); ok {
			baseName = p.expect(token.Ident, "base struct name").Spelling
		}
		decl := p.parseStructBody(begin, name, baseName)
		spec.StructDecl = decl
		spec.Denoter = types.Structure{Decl: decl}
		return spec
	}

	spec.Denoter = p.parseBaseTypeDenoter()
	return spec
}

func (p *Parser) parseBaseTypeDenoter() types.Denoter {
	if p.at(token.KeywordType) {
		return p.parseKeywordTypeDenoter()
	}
	if p.at(token.Ident) {
		name := p.cur().Spelling
		if kind, ok := p.lookupTypeName(name); ok {
			p.advance()
			if kind == typeAlias {
				return types.Alias{Decl: &ast.AliasDecl{Name: name}}
			}
			return types.Structure{Decl: &ast.StructDecl{Name: name}}
		}
	}
	got := p.cur()
	p.errorf(got.Area, "expected type name, got %q", got.Spelling)
	if got.Kind != token.EOF {
		p.advance()
	}
	return types.Void{}
}

// scalarElems maps an HLSL scalar keyword to its element tag.
var scalarElems = map[string]types.Element{
	"bool": types.Bool, "int": types.Int, "uint": types.UInt, "dword": types.UInt,
	"int64_t": types.Int64, "uint64_t": types.UInt64,
	"half": types.Half, "float": types.Float, "double": types.Double, "string": types.StringElem,
}

// baseElementAndDims recognizes a scalar keyword or a scalar-plus-dimension
// name of the form "float4" or "int3x3" (the scanner folds these into a
// single KeywordType token via token.IsVectorOrMatrixTypeName).
func baseElementAndDims(name string) (elem types.Element, rows, cols int, ok bool) {
	for base, e := range scalarElems {
		if name == base {
			return e, 1, 1, true
		}
		if len(name) <= len(base) || name[:len(base)] != base {
			continue
		}
		suffix := name[len(base):]
		if len(suffix) == 1 && suffix[0] >= '1' && suffix[0] <= '4' {
			return e, int(suffix[0] - '0'), 1, true
		}
		if len(suffix) == 3 && suffix[0] >= '1' && suffix[0] <= '4' && suffix[1] == 'x' && suffix[2] >= '1' && suffix[2] <= '4' {
			return e, int(suffix[0] - '0'), int(suffix[2] - '0'), true
		}
	}
	return 0, 0, 0, false
}

// textureKind recognizes a Texture*/RWTexture*/Buffer/StructuredBuffer
// family keyword.
func textureKind(name string) (kind types.BufferKind, isRW, multisample, isArray, ok bool) {
	isRW = strings.HasPrefix(name, "RW")
	base := name
	if isRW {
		base = name[2:]
	}
	switch {
	case strings.HasPrefix(base, "Texture1D"):
		kind = types.BufferTexture1D
		isArray = strings.HasSuffix(base, "Array")
	case strings.HasPrefix(base, "Texture2DMS"):
		kind = types.BufferTexture2D
		multisample = true
		isArray = strings.HasSuffix(base, "Array")
	case strings.HasPrefix(base, "Texture2D"):
		kind = types.BufferTexture2D
		isArray = strings.HasSuffix(base, "Array")
	case strings.HasPrefix(base, "Texture3D"):
		kind = types.BufferTexture3D
	case strings.HasPrefix(base, "TextureCube"):
		kind = types.BufferTextureCube
		isArray = strings.HasSuffix(base, "Array")
	case base == "Buffer":
		kind = types.BufferGenericBuffer
	case base == "ByteAddressBuffer":
		kind = types.BufferByteAddress
	case base == "StructuredBuffer":
		kind = types.BufferStructured
	case base == "AppendStructuredBuffer", base == "ConsumeStructuredBuffer":
		kind = types.BufferAppendOrConsume
	default:
		return 0, false, false, false, false
	}
	return kind, isRW, multisample, isArray, true
}

func (p *Parser) parseKeywordTypeDenoter() types.Denoter {
	name := p.advance().Spelling
	switch name {
	case "void":
		return types.Void{}
	case "SamplerState":
		return types.Sampler{Kind: types.SamplerState}
	case "SamplerComparisonState":
		return types.Sampler{Kind: types.SamplerComparisonState}
	case "vector":
		return p.parseGenericVectorOrMatrix(false)
	case "matrix":
		return p.parseGenericVectorOrMatrix(true)
	case "InputPatch", "OutputPatch":
		return p.parsePatchDenoter()
	}
	if elem, rows, cols, ok := baseElementAndDims(name); ok {
		return types.Base{Elem: elem, Rows: rows, Cols: cols}
	}
	if kind, isRW, ms, arr, ok := textureKind(name); ok {
		b := types.Buffer{Kind: kind, IsRW: isRW, Multisample: ms, IsArray: arr}
		if p.at(token.BinOp, "<") {
			b.Elem = p.parseTemplateArgWithCount(ms)
		} else {
			b.Elem = types.Base{Elem: types.Float, Rows: 4, Cols: 1}
		}
		return b
	}
	p.errorf(p.cur().Area, "unknown type %q", name)
	return types.Void{}
}

// parseGenericVectorOrMatrix handles the generic "vector<T,N>"/
// "matrix<T,R,C>" forms and the bare "vector"/"matrix" spellings, which
// HLSL treats as float4/float4x4 respectively.
func (p *Parser) parseGenericVectorOrMatrix(isMatrix bool) types.Denoter {
	if !p.at(token.BinOp, "<") {
		if isMatrix {
			return types.Base{Elem: types.Float, Rows: 4, Cols: 4}
		}
		return types.Base{Elem: types.Float, Rows: 4, Cols: 1}
	}
	p.templateDepth++
	p.advance() // '<'
	elemName := p.expect(token.KeywordType, "element type").Spelling
	elem, _, _, _ := baseElementAndDims(elemName)
	p.expectSpelling(token.Comma, ",")
	rows := p.parseIntLiteralValue()
	cols := 1
	if isMatrix {
		p.expectSpelling(token.Comma, ",")
		cols = p.parseIntLiteralValue()
	}
	p.templateDepth--
	p.expectSpelling(token.BinOp, ">")
	if rows < 1 || rows > 4 || cols < 1 || cols > 4 {
		p.errorf(p.cur().Area, "vector/matrix dimension %dx%d outside [1,4]", rows, cols)
	}
	return types.Base{Elem: elem, Rows: rows, Cols: cols}
}

// parsePatchDenoter parses "InputPatch<T, N>"/"OutputPatch<T, N>", modeled
// as an N-element array of the control-point type.
func (p *Parser) parsePatchDenoter() types.Denoter {
	if !p.at(token.BinOp, "<") {
		p.errorf(p.cur().Area, "patch type requires <ControlPointType, count>")
		return types.Void{}
	}
	p.templateDepth++
	p.advance() // '<'
	spec := p.parseTypeSpecifier()
	p.expectSpelling(token.Comma, ",")
	count := p.parseIntLiteralValue()
	p.templateDepth--
	p.expectSpelling(token.BinOp, ">")
	if count < 1 || count > 64 {
		p.errorf(p.cur().Area, "patch control-point count %d outside [1,64]", count)
	}
	return types.Array{Base: spec.Denoter, Dims: []int{count}}
}

// parseTemplateArgWithCount parses the "<ElemType>" suffix of a texture/
// buffer declaration, e.g. "Texture2D<float4>", additionally accepting the
// optional trailing sample count a multisample texture carries,
// "Texture2DMS<float4, 4>".
func (p *Parser) parseTemplateArgWithCount(multisample bool) types.Denoter {
	p.templateDepth++
	p.advance() // '<'
	spec := p.parseTypeSpecifier()
	if multisample {
		if _, ok := p.accept(token.Comma); ok {
			count := p.parseIntLiteralValue()
			if count < 1 || count >= 128 {
				p.errorf(p.cur().Area, "texture sample count %d outside [1, 128)", count)
			}
		}
	}
	p.templateDepth--
	p.expectSpelling(token.BinOp, ">")
	return spec.Denoter
}

func (p *Parser) parseIntLiteralValue() int {
	t := p.expect(token.IntLit, "integer literal")
	n, _ := strconv.Atoi(strings.TrimRight(t.Spelling, "uUlL"))
	return n
}

// parseArrayDims parses zero or more "[expr]"/"[]" array dimension
// suffixes, outermost first.
func (p *Parser) parseArrayDims() []ast.Expr {
	var dims []ast.Expr
	for p.at(token.LBracket) {
		p.advance()
		if p.at(token.RBracket) {
			dims = append(dims, nil)
		} else {
			dims = append(dims, p.parseAssignExpr())
		}
		p.expectSpelling(token.RBracket, "]")
	}
	return dims
}

// arrayDenoter wraps base in a types.Array when dims is non-empty; sizes
// are left as the "dynamic/unspecified" zero value since the parser does
// not constant-fold dimension expressions (the analyzer's resolveDenoter
// pass operates on the denoter produced here unchanged).
func arrayDenoter(base types.Denoter, dims []ast.Expr) types.Denoter {
	if len(dims) == 0 {
		return base
	}
	return types.Array{Base: base, Dims: make([]int, len(dims))}
}
