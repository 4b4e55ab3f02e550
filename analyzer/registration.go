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

package analyzer

import (
	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/report"
	"github.com/shaderforge/hlslxc/types"
)

// registerDecls is phase 1: walk global declarations top-down, registering
// structures, type aliases, global variables, functions (accumulating
// overload sets), uniform buffers, buffers and samplers. It opens no block
// scopes. Struct base-class references are resolved in a second pass once
// every name is known; alias placeholders are left to resolveDenoter.
func (a *Analyzer) registerDecls(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *ast.StructDecl:
			a.structs[n.Name] = n
		case *ast.AliasDecl:
			a.aliases[n.Name] = n
		}
	}
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *ast.StructDecl:
			a.resolveStructBase(n)
		case *ast.FuncDecl:
			a.syms.InsertFunc(n.Name, n)
		case *ast.VarDecl:
			if a.syms.LookupShadowed(n.Name) {
				a.warnf(report.DeclarationShadowing, n, "declaration of %q shadows an outer declaration", n.Name)
			}
			a.syms.Insert(n.Name, n)
		case *ast.BufferDecl:
			a.syms.Insert(n.Name, n)
		case *ast.SamplerDecl:
			a.syms.Insert(n.Name, n)
		case *ast.UniformBufferDecl:
			a.syms.Insert(n.Name, n)
			for _, f := range n.Fields {
				a.syms.Insert(f.Name, f)
			}
		}
	}
}

func (a *Analyzer) resolveStructBase(s *ast.StructDecl) {
	if s.BaseName == "" || s.BaseDecl != nil {
		return
	}
	base, ok := a.structs[s.BaseName]
	if !ok {
		a.errorf(s, "undeclared base struct %q", s.BaseName)
		return
	}
	a.resolveStructBase(base)
	s.BaseDecl = base
}

// resolveDenoter resolves an Alias/Structure placeholder denoter produced
// by the parser (which cannot see forward struct/typedef declarations)
// against the now-complete registration tables.
func (a *Analyzer) resolveDenoter(d types.Denoter) types.Denoter {
	switch v := d.(type) {
	case types.Structure:
		if ref, ok := v.Decl.(*ast.StructDecl); ok && ref != nil && len(ref.Fields) == 0 && ref.BaseDecl == nil {
			if real, ok := a.structs[ref.Name]; ok {
				return types.Structure{Decl: real}
			}
		}
		return v
	case types.Alias:
		if ref, ok := v.Decl.(*ast.AliasDecl); ok && ref != nil {
			if real, ok := a.aliases[ref.Name]; ok {
				return types.Alias{Decl: real}
			}
		}
		return v
	case types.Array:
		return types.Array{Base: a.resolveDenoter(v.Base), Dims: v.Dims}
	default:
		return d
	}
}

