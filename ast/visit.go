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

// Visit invokes visitor for every direct child of node. It does not
// recurse; callers that want a full tree walk call Visit again inside
// visitor.
func Visit(node Node, visitor func(Node)) {
	switch n := node.(type) {
	case *Program:
		for _, d := range n.Decls {
			visitor(d)
		}

	case *VarDecl:
		if n.TypeSpec != nil {
			visitor(n.TypeSpec)
		}
		for _, d := range n.ArrayDims {
			if d != nil { // "[]" dynamic dimension has no size expression
				visitor(d)
			}
		}
		if n.Init != nil {
			visitor(n.Init)
		}

	case *BufferDecl:
		visitor(n.TypeSpec)

	case *SamplerDecl:
		visitor(n.TypeSpec)
		for _, v := range n.States {
			visitor(v)
		}

	case *StructDecl:
		for _, f := range n.Fields {
			visitor(f)
		}
		for _, m := range n.Methods {
			visitor(m)
		}

	case *AliasDecl:
		// Underlying_ is a types.Denoter, not an ast.Node; nothing to visit.

	case *Param:
		visitor(n.TypeSpec)
		if n.Default != nil {
			visitor(n.Default)
		}

	case *FuncDecl:
		if n.ReturnType != nil {
			visitor(n.ReturnType)
		}
		for _, p := range n.Params {
			visitor(p)
		}
		for _, args := range n.Attributes {
			for _, a := range args {
				visitor(a)
			}
		}
		if n.Body != nil {
			visitor(n.Body)
		}

	case *UniformBufferDecl:
		for _, f := range n.Fields {
			visitor(f)
		}

	case *TypeSpecifier:
		if n != nil && n.StructDecl != nil {
			visitor(n.StructDecl)
		}

	case *NullStmt:

	case *BlockStmt:
		for _, s := range n.Stmts {
			visitor(s)
		}

	case *ExprStmt:
		visitor(n.X)

	case *DeclStmt:
		visitor(n.Decl)

	case *IfStmt:
		visitor(n.Cond)
		visitor(n.Then)
		if n.Else != nil {
			visitor(n.Else)
		}

	case *WhileStmt:
		visitor(n.Cond)
		visitor(n.Body)

	case *DoWhileStmt:
		visitor(n.Body)
		visitor(n.Cond)

	case *ForStmt:
		if n.Init != nil {
			visitor(n.Init)
		}
		if n.Cond != nil {
			visitor(n.Cond)
		}
		if n.Post != nil {
			visitor(n.Post)
		}
		visitor(n.Body)

	case *SwitchStmt:
		visitor(n.Cond)
		for _, c := range n.Cases {
			if c.Value != nil {
				visitor(c.Value)
			}
			for _, s := range c.Stmts {
				visitor(s)
			}
		}

	case *ReturnStmt:
		if n.X != nil {
			visitor(n.X)
		}

	case *JumpStmt:

	case *Literal:

	case *Ident:
		for _, ix := range n.Indices {
			visitor(ix)
		}

	case *MemberAccess:
		visitor(n.X)

	case *Subscript:
		visitor(n.X)
		visitor(n.Index)

	case *Call:
		visitor(n.Callee)
		for _, a := range n.Args {
			visitor(a)
		}
		for _, a := range n.DefaultBackfills {
			visitor(a)
		}

	case *BinOp:
		visitor(n.LHS)
		visitor(n.RHS)

	case *UnaryOp:
		visitor(n.X)

	case *PostUnaryOp:
		visitor(n.X)

	case *Ternary:
		visitor(n.Cond)
		visitor(n.Then)
		visitor(n.Else)

	case *Cast:
		visitor(n.TypeSpec)
		visitor(n.X)

	case *Bracket:
		visitor(n.X)

	case *InitializerList:
		for _, e := range n.Elems {
			visitor(e)
		}

	case *Sequence:
		for _, e := range n.Exprs {
			visitor(e)
		}

	case *TypeExpr:
		visitor(n.TypeSpec)
	}
}
