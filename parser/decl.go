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
	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/token"
	"github.com/shaderforge/hlslxc/types"
)

// parseStructDecl parses a top-level "struct Name [: Base] { ... };"
// declaration.
func (p *Parser) parseStructDecl() ast.Decl {
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
	p.expectSpelling(token.Semicolon, ";")
	return decl
}

// parseStructBody parses the brace-enclosed member list shared by a
// top-level struct declaration and an inline "struct { ... }" type
// specifier; the caller handles the trailing ';' (required at top level,
// absent for an inline specifier immediately followed by a variable name).
func (p *Parser) parseStructBody(begin token.Token, name, baseName string) *ast.StructDecl {
	decl := &ast.StructDecl{
		Base:        ast.NewBase(begin.Area),
		Name:        name,
		BaseName:    baseName,
		IsAnonymous: name == "",
	}
	if name != "" {
		p.declareTypeName(name, typeStruct)
	}
	p.expectSpelling(token.LBrace, "{")
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.fatal {
		spec := p.parseTypeSpecifier()
		fieldName := p.expect(token.Ident, "member name").Spelling
		if p.at(token.LParen) {
			decl.Methods = append(decl.Methods, p.finishFuncDecl(begin, spec, fieldName))
			continue
		}
		for {
			dims := p.parseArrayDims()
			var semantic string
			if _, ok := p.accept(token.Colon); ok {
				semantic = p.expect(token.Ident, "semantic").Spelling
			}
			decl.Fields = append(decl.Fields, &ast.VarDecl{
				Base:      ast.NewBase(spec.Area()),
				TypeSpec:  spec,
				Name:      fieldName,
				ArrayDims: dims,
				Semantic:  semantic,
			})
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
			fieldName = p.expect(token.Ident, "member name").Spelling
		}
		p.expectSpelling(token.Semicolon, ";")
	}
	p.expectSpelling(token.RBrace, "}")
	return decl
}

// parseUniformBufferDecl parses a "cbuffer"/"tbuffer" block.
func (p *Parser) parseUniformBufferDecl() ast.Decl {
	begin := p.advance() // "cbuffer" / "tbuffer"
	isTexture := begin.Spelling == "tbuffer"
	name := p.expect(token.Ident, "buffer name").Spelling
	var register string
	if _, ok := p.accept(token.Colon); ok {
		register = p.parseRegisterAnnotation()
	}
	decl := &ast.UniformBufferDecl{
		Base:            ast.NewBase(begin.Area),
		IsTextureBuffer: isTexture,
		Name:            name,
		Register:        register,
	}
	p.expectSpelling(token.LBrace, "{")
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.fatal {
		spec := p.parseTypeSpecifier()
		fieldName := p.expect(token.Ident, "member name").Spelling
		for {
			dims := p.parseArrayDims()
			var packoffset string
			if _, ok := p.accept(token.Colon); ok {
				if p.at(token.KeywordPackoffset) {
					packoffset = p.parsePackoffsetAnnotation()
				} else {
					p.errorf(p.cur().Area, "only packoffset annotations are allowed on constant-buffer fields")
					p.advance()
				}
			}
			decl.Fields = append(decl.Fields, &ast.VarDecl{
				Base:       ast.NewBase(spec.Area()),
				TypeSpec:   spec,
				Name:       fieldName,
				ArrayDims:  dims,
				PackOffset: packoffset,
			})
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
			fieldName = p.expect(token.Ident, "member name").Spelling
		}
		p.expectSpelling(token.Semicolon, ";")
	}
	p.expectSpelling(token.RBrace, "}")
	p.accept(token.Semicolon) // optional trailing ';'
	return decl
}

// parseVarOrFuncDecl parses a global declaration that begins with neither
// "struct", "typedef", "cbuffer"/"tbuffer" nor an attribute block: a
// function definition/prototype or one or more variable/buffer/sampler
// declarators. Only the first declarator is returned; any further
// comma-separated declarators are queued onto p.extraDecls for
// parseProgram to append.
func (p *Parser) parseVarOrFuncDecl() ast.Decl {
	begin := p.cur()
	spec := p.parseTypeSpecifier()
	name := p.expect(token.Ident, "declaration name").Spelling
	if p.at(token.LParen) {
		return p.finishFuncDecl(begin, spec, name)
	}
	decls := p.finishVarDecl(begin, spec, name)
	if len(decls) == 0 {
		return nil
	}
	p.extraDecls = append(p.extraDecls, decls[1:]...)
	return decls[0]
}

// parseFuncDecl parses a function declaration whose return type and name
// have not yet been consumed, optionally substituting nameOverride for the
// parsed name (nil means "use the parsed name as-is").
func (p *Parser) parseFuncDecl(nameOverride *string) *ast.FuncDecl {
	begin := p.cur()
	spec := p.parseTypeSpecifier()
	name := p.expect(token.Ident, "function name").Spelling
	if nameOverride != nil {
		name = *nameOverride
	}
	return p.finishFuncDecl(begin, spec, name)
}

// finishFuncDecl parses a parameter list, optional return semantic, and
// either a body block or a terminating ';' for a forward declaration.
func (p *Parser) finishFuncDecl(begin token.Token, retSpec *ast.TypeSpecifier, name string) *ast.FuncDecl {
	params := p.parseParamList()
	var semantic string
	if _, ok := p.accept(token.Colon); ok {
		semantic = p.expect(token.Ident, "semantic").Spelling
	}
	fn := &ast.FuncDecl{
		Base:       ast.NewBase(begin.Area),
		ReturnType: retSpec,
		Name:       name,
		Params:     params,
		Semantic:   semantic,
	}
	if _, ok := p.accept(token.Semicolon); ok {
		return fn
	}
	fn.Body = p.parseBlockStmt()
	return fn
}

func (p *Parser) parseParamList() []*ast.Param {
	p.expectSpelling(token.LParen, "(")
	var params []*ast.Param
	if p.at(token.RParen) {
		p.advance()
		return params
	}
	if p.at(token.KeywordType, "void") && p.peekAt(1).Kind == token.RParen {
		p.advance()
		p.advance()
		return params
	}
	for {
		params = append(params, p.parseParam())
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expectSpelling(token.RParen, ")")
	return params
}

func (p *Parser) parseParam() *ast.Param {
	begin := p.cur()
	spec := p.parseTypeSpecifier()
	name := p.expect(token.Ident, "parameter name").Spelling
	dims := p.parseArrayDims()
	if len(dims) > 0 {
		spec.Denoter = arrayDenoter(spec.Denoter, dims)
	}
	var semantic string
	if _, ok := p.accept(token.Colon); ok {
		semantic = p.expect(token.Ident, "semantic").Spelling
	}
	var def ast.Expr
	if _, ok := p.accept(token.AssignOp, "="); ok {
		def = p.parseAssignExpr()
	}
	return &ast.Param{Base: ast.NewBase(begin.Area), TypeSpec: spec, Name: name, Semantic: semantic, Default: def}
}

// finishVarDecl parses the remainder of a declaration statement after its
// TypeSpecifier and first declarator name have already been consumed: each
// comma-separated declarator's array dims, semantic/register/packoffset
// annotations and initializer, up to and including the terminating ';'.
// The Decl kind produced (VarDecl, BufferDecl or SamplerDecl) is decided
// once from spec's resolved denoter and shared by every declarator.
func (p *Parser) finishVarDecl(begin token.Token, spec *ast.TypeSpecifier, firstName string) []ast.Decl {
	var decls []ast.Decl
	name := firstName
	for {
		decls = append(decls, p.finishOneDeclarator(begin, spec, name))
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
		name = p.expect(token.Ident, "declarator name").Spelling
	}
	p.expectSpelling(token.Semicolon, ";")
	return decls
}

func (p *Parser) finishOneDeclarator(begin token.Token, spec *ast.TypeSpecifier, name string) ast.Decl {
	dims := p.parseArrayDims()
	var semantic, register, packoffset string
	for {
		if _, ok := p.accept(token.Colon); !ok {
			break
		}
		switch {
		case p.at(token.KeywordRegister):
			register = p.parseRegisterAnnotation()
		case p.at(token.KeywordPackoffset):
			packoffset = p.parsePackoffsetAnnotation()
		default:
			semantic = p.expect(token.Ident, "semantic").Spelling
		}
	}

	switch types.Resolve(spec.Denoter).(type) {
	case types.Buffer:
		return &ast.BufferDecl{Base: ast.NewBase(begin.Area), TypeSpec: spec, Name: name, Register: register}
	case types.Sampler:
		var states map[string]ast.Expr
		if p.at(token.LBrace) {
			states = p.parseSamplerStateBody()
		}
		return &ast.SamplerDecl{Base: ast.NewBase(begin.Area), TypeSpec: spec, Name: name, Register: register, States: states}
	default:
		v := &ast.VarDecl{
			Base:       ast.NewBase(begin.Area),
			TypeSpec:   spec,
			Name:       name,
			ArrayDims:  dims,
			Semantic:   semantic,
			Register:   register,
			PackOffset: packoffset,
		}
		if _, ok := p.accept(token.AssignOp, "="); ok {
			v.Init = p.parseInitializer()
		}
		return v
	}
}

func (p *Parser) parseSamplerStateBody() map[string]ast.Expr {
	states := map[string]ast.Expr{}
	p.advance() // '{'
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.fatal {
		key := p.expect(token.Ident, "sampler state name").Spelling
		p.expectSpelling(token.AssignOp, "=")
		val := p.parseAssignExpr()
		p.expectSpelling(token.Semicolon, ";")
		states[key] = val
	}
	p.expectSpelling(token.RBrace, "}")
	return states
}

// parseRegisterAnnotation parses "register(slot[, space])", returning its
// content verbatim (e.g. "t0" or "b2, space1"); codegen/binding.go only
// reads the leading letter and digits of the slot.
func (p *Parser) parseRegisterAnnotation() string {
	p.advance() // "register"
	p.expectSpelling(token.LParen, "(")
	reg := p.expect(token.Ident, "register slot").Spelling
	if _, ok := p.accept(token.Comma); ok {
		space := p.expect(token.Ident, "register space").Spelling
		reg = reg + ", " + space
	}
	p.expectSpelling(token.RParen, ")")
	return reg
}

// parsePackoffsetAnnotation parses "packoffset(cN[.component])".
func (p *Parser) parsePackoffsetAnnotation() string {
	p.advance() // "packoffset"
	p.expectSpelling(token.LParen, "(")
	reg := p.expect(token.Ident, "packoffset register").Spelling
	if _, ok := p.accept(token.Dot); ok {
		comp := p.expect(token.Ident, "packoffset component").Spelling
		reg = reg + "." + comp
	}
	p.expectSpelling(token.RParen, ")")
	return reg
}
