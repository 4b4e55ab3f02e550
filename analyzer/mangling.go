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
	"github.com/shaderforge/hlslxc/mangle"
)

// checkMangling rejects a user identifier that collides with one of the
// configured name-mangling prefixes (spec.md §4.5's "clashes... are
// forbidden" constraint), walking every declaration name in the program.
func (a *Analyzer) checkMangling(prog *ast.Program) {
	for _, d := range prog.Decls {
		a.checkMangledName(declName(d))
		if fn, ok := d.(*ast.FuncDecl); ok {
			for _, p := range fn.Params {
				a.checkMangledName(p.Name)
			}
		}
		if st, ok := d.(*ast.StructDecl); ok {
			for _, f := range st.Fields {
				a.checkMangledName(f.Name)
			}
		}
	}
}

func declName(d ast.Decl) string {
	switch n := d.(type) {
	case *ast.VarDecl:
		return n.Name
	case *ast.BufferDecl:
		return n.Name
	case *ast.SamplerDecl:
		return n.Name
	case *ast.StructDecl:
		return n.Name
	case *ast.AliasDecl:
		return n.Name
	case *ast.FuncDecl:
		return n.Name
	case *ast.UniformBufferDecl:
		return n.Name
	default:
		return ""
	}
}

func (a *Analyzer) checkMangledName(name string) {
	if name == "" {
		return
	}
	if _, collides := mangle.HasPrefix(a.opts.Mangling, name); collides {
		a.errorf(nil, "identifier %q collides with a reserved name-mangling prefix", name)
	}
}
