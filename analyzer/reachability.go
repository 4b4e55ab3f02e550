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

import "github.com/shaderforge/hlslxc/ast"

// markReachability is spec.md §4.5 phase 6: the transitive closure of call
// edges from the entry point (and, for tessellation pipelines, the
// secondary entry point pulling in patch-constant functions) is computed
// over the already-resolved Call.ResolvedFunc links and recorded on
// prog.Reachable. Unreachable functions remain in the AST — they were
// already type-checked — but the code generator skips them; no option
// makes it emit them.
func (a *Analyzer) markReachability(prog *ast.Program) {
	if prog.Reachable == nil {
		prog.Reachable = map[*ast.FuncDecl]bool{}
	}
	names := []string{a.opts.EntryPoint}
	if a.opts.SecondaryEntryPoint != "" {
		names = append(names, a.opts.SecondaryEntryPoint)
	}
	var roots []*ast.FuncDecl
	for _, io := range a.EntryPoints {
		roots = append(roots, io.Wrapper)
	}
	// Entry points that failed transformation (e.g. missing semantic) are
	// still roots for reachability purposes.
	roots = append(roots, prog.EntryPoints(names...)...)

	visited := map[*ast.FuncDecl]bool{}
	for _, r := range roots {
		a.walkReachable(r, visited)
	}
	for fn := range visited {
		prog.Reachable[fn] = true
	}
}

func (a *Analyzer) walkReachable(fn *ast.FuncDecl, visited map[*ast.FuncDecl]bool) {
	if fn == nil || visited[fn] {
		return
	}
	visited[fn] = true
	if fn.Body == nil {
		return
	}
	ast.Visit(fn.Body, func(n ast.Node) { a.walkReachableNode(n, visited) })
}

// walkReachableNode recurses into every descendant of n, following each
// Call's ResolvedFunc link the analyzer's type-derivation phase left
// behind.
func (a *Analyzer) walkReachableNode(n ast.Node, visited map[*ast.FuncDecl]bool) {
	if call, ok := n.(*ast.Call); ok && call.ResolvedFunc != nil {
		a.walkReachable(call.ResolvedFunc, visited)
	}
	ast.Visit(n, func(child ast.Node) { a.walkReachableNode(child, visited) })
}
