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
)

// emitGlobalDecl writes one top-level declaration.
func (g *generator) emitGlobalDecl(d ast.Decl) {
	switch n := d.(type) {
	case *ast.VarDecl:
		g.w.Line(g.varDeclString(n, "") + ";")
	case *ast.BufferDecl:
		g.emitBufferDecl(n)
	case *ast.SamplerDecl:
		g.emitSamplerDecl(n)
	case *ast.StructDecl:
		g.emitStructDecl(n)
	case *ast.AliasDecl:
		// GLSL has no typedef; aliases are resolved to their underlying
		// denoter at every use site instead of re-declared here.
	case *ast.UniformBufferDecl:
		g.emitUniformBufferDecl(n)
	case *ast.FuncDecl:
		g.emitFuncDecl(n)
	}
}

func (g *generator) emitLocalDecl(d ast.Decl) {
	switch n := d.(type) {
	case *ast.VarDecl:
		g.w.Line(g.localDeclString(n) + ";")
	default:
		g.emitGlobalDecl(d)
	}
}

func (g *generator) localDeclString(d ast.Decl) string {
	if v, ok := d.(*ast.VarDecl); ok {
		return g.varDeclString(v, "")
	}
	return ""
}

// varDeclString renders "[qualifiers] Type name[dims] [= init]"; qualifier
// is an extra leading storage qualifier ("in"/"out"/"uniform") the caller
// supplies for entry-point I/O and uniform globals.
func (g *generator) varDeclString(v *ast.VarDecl, qualifier string) string {
	typeName, err := TypeName(v.TypeSpec.Denoter)
	if err != nil {
		typeName = "/* " + err.Error() + " */float"
	}
	var b strings.Builder
	if layout := g.matrixLayoutQualifier(v.TypeSpec); layout != "" {
		b.WriteString(layout + " ")
	}
	if qualifier != "" {
		b.WriteString(qualifier + " ")
	} else if v.TypeSpec.Uniform {
		b.WriteString("uniform ")
	}
	if v.TypeSpec.Const {
		b.WriteString("const ")
	}
	b.WriteString(typeName)
	b.WriteString(" ")
	b.WriteString(g.nameOf(v.Name, v))
	for _, dim := range v.ArrayDims {
		if dim == nil {
			b.WriteString("[]")
		} else {
			b.WriteString("[" + g.exprString(dim) + "]")
		}
	}
	if v.Init != nil {
		b.WriteString(" = " + g.exprString(v.Init))
	}
	return b.String()
}

func (g *generator) matrixLayoutQualifier(spec *ast.TypeSpecifier) string {
	switch spec.Major {
	case ast.MajorRow:
		return "layout(row_major)"
	case ast.MajorColumn:
		return "layout(column_major)"
	default:
		return ""
	}
}

func (g *generator) emitBufferDecl(n *ast.BufferDecl) {
	typeName, err := TypeName(n.TypeSpec.Denoter)
	if err != nil {
		typeName = "/* " + err.Error() + " */sampler2D"
	}
	layout := g.bindingLayout(n.Register)
	g.w.Line(fmt.Sprintf("%suniform %s %s;", layout, typeName, g.nameOf(n.Name, n)))
}

func (g *generator) emitSamplerDecl(n *ast.SamplerDecl) {
	// GLSL has no standalone sampler-state object: filter/address-mode
	// state lives on the combined sampler declared by BufferDecl, or (for
	// VKSL's separate-sampler model) is emitted as its own uniform when
	// SeparateSamplers is set.
	if !g.opts.SeparateSamplers {
		return
	}
	layout := g.bindingLayout(n.Register)
	g.w.Line(fmt.Sprintf("%suniform sampler %s;", layout, g.nameOf(n.Name, n)))
}

func (g *generator) bindingLayout(reg string) string {
	slot, ok := g.binder.bindingFor(reg)
	if !ok {
		return ""
	}
	return fmt.Sprintf("layout(binding=%d) ", slot)
}

func (g *generator) emitStructDecl(n *ast.StructDecl) {
	g.w.Line("struct " + g.nameOf(n.Name, n) + " {")
	g.w.Indent()
	for _, f := range n.Fields {
		g.w.Line(g.varDeclString(f, "") + ";")
	}
	g.w.Unindent()
	g.w.Line("};")
}

func (g *generator) emitUniformBufferDecl(n *ast.UniformBufferDecl) {
	layout := g.bindingLayout(n.Register)
	g.w.Line(fmt.Sprintf("%slayout(std140) uniform %s {", layout, g.nameOf(n.Name, n)))
	g.w.Indent()
	for _, f := range n.Fields {
		g.w.Line(g.varDeclString(f, "") + ";")
	}
	g.w.Unindent()
	g.w.Line("};")
}

func (g *generator) emitFuncDecl(fn *ast.FuncDecl) {
	if fn.Body == nil {
		return // prototype-only forward declaration; GLSL needs no forward decls for this compiler's single-TU model
	}
	retName, err := TypeName(fn.ReturnType.Denoter)
	if err != nil {
		retName = "/* " + err.Error() + " */void"
	}
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = g.paramString(p)
	}
	g.w.Line(fmt.Sprintf("%s %s(%s)", retName, g.nameOf(fn.Name, fn), strings.Join(params, ", ")))
	g.emitBlockBraced(fn.Body)
}

func (g *generator) paramString(p *ast.Param) string {
	dir := ""
	switch p.TypeSpec.Direction {
	case ast.DirOut:
		dir = "out "
	case ast.DirInOut:
		dir = "inout "
	}
	typeName, err := TypeName(p.TypeSpec.Denoter)
	if err != nil {
		typeName = "/* " + err.Error() + " */float"
	}
	return dir + typeName + " " + g.nameOf(p.Name, p)
}
