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

// Package parser implements the recursive-descent HLSL parser of spec.md
// §4.3: one-token lookahead production functions, a scoped type-name set
// for cast-vs-parenthesized-expression disambiguation, a template-depth
// guard so '<'/'>' inside "Texture2D<float4>" are never mistaken for
// relational operators, a small pending-node stack letting a sub-parser
// hand a partially-built expression down to the next parse function, and a
// frame stack over the token stream so a re-tokenized string (e.g. a
// macro-expanded argument) can be spliced in as a first-class input
// without the caller needing its own lookahead logic. Grounded on
// gapil/parser's one-token-lookahead production-function style
// (parser.go, expression.go, statement.go, type.go) and
// original_source/src/Compiler/Frontend/Parser.cpp for the HLSL-specific
// cast-disambiguation and precedence table.
package parser

import (
	"fmt"

	"github.com/shaderforge/hlslxc/ast"
	"github.com/shaderforge/hlslxc/source"
	"github.com/shaderforge/hlslxc/token"
)

// Error is a syntactic diagnostic with its source area, mirroring
// scanner.Error/preprocessor.Error so the compiler package can fold all
// three into report.Report uniformly.
type Error struct {
	Area    source.Area
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Area.Begin.Name, e.Area.Begin.Line, e.Area.Begin.Column, e.Message)
}

// maxUnexpectedRun is spec.md §4.3's "exceeding a small threshold (e.g. 3
// consecutive unexpected tokens without progress) aborts parsing".
const maxUnexpectedRun = 3

type typeKind int

const (
	typeStruct typeKind = iota
	typeAlias
)

// frame is one entry of the parser's token-string stack: a slice of tokens
// plus a read cursor. Pushing a frame splices a new token source ahead of
// the current one without disturbing it; popping resumes exactly where the
// outer frame left off. The root frame is the full preprocessed token
// stream; nested frames are pushed only by pushTokens, which no parse
// function calls.
type frame struct {
	toks []token.Token
	pos  int
}

// Parser turns a flattened token.Token stream (the preprocessor's output)
// into an *ast.Program.
type Parser struct {
	frames []frame

	typeScopes    []map[string]typeKind
	templateDepth int
	pending       []ast.Expr

	// extraDecls holds the second and later declarators of a global
	// "T a, b, c;" declaration statement; parseGlobalDecl returns only
	// the first and queues the rest here for parseProgram to drain,
	// since a single production function returns a single ast.Decl.
	extraDecls []ast.Decl

	errors        []Error
	unexpectedRun int
	fatal         bool
}

// New returns a Parser over toks, which must end in a single token.EOF
// (the shape preprocessor.Process always produces).
func New(toks []token.Token) *Parser {
	p := &Parser{frames: []frame{{toks: toks}}}
	p.openTypeScope()
	return p
}

// Errors returns every diagnostic accumulated during Parse.
func (p *Parser) Errors() []Error { return p.errors }

func (p *Parser) errorf(area source.Area, format string, args ...interface{}) {
	p.errors = append(p.errors, Error{Area: area, Message: fmt.Sprintf(format, args...)})
}

// --- token source -----------------------------------------------------

func (p *Parser) top() *frame { return &p.frames[len(p.frames)-1] }

// cur returns the current lookahead token, popping exhausted inner frames
// transparently.
func (p *Parser) cur() token.Token {
	for len(p.frames) > 1 {
		fr := p.top()
		if fr.pos < len(fr.toks) && fr.toks[fr.pos].Kind != token.EOF {
			break
		}
		p.frames = p.frames[:len(p.frames)-1]
	}
	fr := p.top()
	if fr.pos >= len(fr.toks) {
		return token.Token{Kind: token.EOF}
	}
	return fr.toks[fr.pos]
}

// peekAt looks n tokens ahead of cur() within the current frame only (used
// for bounded cast/template lookahead; it never crosses a frame boundary,
// which only matters for the rare re-tokenized-string frames).
func (p *Parser) peekAt(n int) token.Token {
	fr := p.top()
	i := fr.pos + n
	if i < 0 || i >= len(fr.toks) {
		return token.Token{Kind: token.EOF}
	}
	return fr.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	fr := p.top()
	if fr.pos < len(fr.toks) {
		fr.pos++
	}
	return t
}

// pushTokens splices toks in as the new innermost token source; consumed
// via the normal cur()/advance() path until exhausted. No parse function
// calls it: register/packoffset annotations are parsed directly from the
// main token stream.
func (p *Parser) pushTokens(toks []token.Token) {
	p.frames = append(p.frames, frame{toks: append(toks, token.Token{Kind: token.EOF})})
}

// --- pending-node stack -------------------------------------------------

func (p *Parser) pushPending(e ast.Expr) { p.pending = append(p.pending, e) }

// popPendingOr returns the most recently pushed pending node, or calls
// primary to parse one from scratch if the stack is empty. This is
// spec.md §4.3's "pre-parsed AST stack". No parse function pushes onto it
// (parseUnary returns a cast directly), so primary is always called.
func (p *Parser) popPendingOr(primary func() ast.Expr) ast.Expr {
	if n := len(p.pending); n > 0 {
		e := p.pending[n-1]
		p.pending = p.pending[:n-1]
		return e
	}
	return primary()
}

// --- type-name scope stack ----------------------------------------------

func (p *Parser) openTypeScope() { p.typeScopes = append(p.typeScopes, map[string]typeKind{}) }

func (p *Parser) closeTypeScope() {
	if len(p.typeScopes) > 0 {
		p.typeScopes = p.typeScopes[:len(p.typeScopes)-1]
	}
}

func (p *Parser) declareTypeName(name string, k typeKind) {
	p.typeScopes[len(p.typeScopes)-1][name] = k
}

func (p *Parser) lookupTypeName(name string) (typeKind, bool) {
	for i := len(p.typeScopes) - 1; i >= 0; i-- {
		if k, ok := p.typeScopes[i][name]; ok {
			return k, true
		}
	}
	return 0, false
}

func (p *Parser) isTypeName(name string) bool {
	_, ok := p.lookupTypeName(name)
	return ok
}

// --- matching helpers ----------------------------------------------------

func (p *Parser) at(k token.Kind, spellings ...string) bool {
	t := p.cur()
	if t.Kind != k {
		return false
	}
	if len(spellings) == 0 {
		return true
	}
	for _, s := range spellings {
		if t.Spelling == s {
			return true
		}
	}
	return false
}

func (p *Parser) accept(k token.Kind, spellings ...string) (token.Token, bool) {
	if p.at(k, spellings...) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// expect consumes the current token if it matches, otherwise records a
// syntax error and performs spec.md §4.3's error-recovery step: advance one
// token to make progress, and abort entirely once maxUnexpectedRun
// consecutive recoveries have made no syntactic progress.
func (p *Parser) expect(k token.Kind, what string) token.Token {
	if t, ok := p.accept(k); ok {
		p.unexpectedRun = 0
		return t
	}
	got := p.cur()
	p.errorf(got.Area, "expected %s, got %q", what, got.Spelling)
	p.unexpectedRun++
	if p.unexpectedRun >= maxUnexpectedRun {
		p.fatal = true
	}
	if got.Kind != token.EOF {
		p.advance()
	}
	return got
}

func (p *Parser) expectSpelling(k token.Kind, spelling string) token.Token {
	if t, ok := p.accept(k, spelling); ok {
		p.unexpectedRun = 0
		return t
	}
	got := p.cur()
	p.errorf(got.Area, "expected %q, got %q", spelling, got.Spelling)
	p.unexpectedRun++
	if p.unexpectedRun >= maxUnexpectedRun {
		p.fatal = true
	}
	if got.Kind != token.EOF {
		p.advance()
	}
	return got
}

// --- program ---------------------------------------------------------

// Parse consumes the whole token stream and returns the resulting AST.
// Parsing continues past recoverable errors (resynchronizing at the next
// top-level declaration) so the analyzer phase can still run over whatever
// was successfully built; err is non-nil only once Errors() is non-empty.
func Parse(toks []token.Token) (*ast.Program, error) {
	p := New(toks)
	prog := p.parseProgram()
	if len(p.errors) > 0 {
		return prog, fmt.Errorf("parser: %d syntax error(s), first: %s", len(p.errors), p.errors[0])
	}
	return prog, nil
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{UsedIntrinsics: map[string][][]string{}}
	for !p.at(token.EOF) && !p.fatal {
		before := p.cur()
		d := p.parseGlobalDecl()
		if d != nil {
			prog.Decls = append(prog.Decls, d)
		}
		if len(p.extraDecls) > 0 {
			prog.Decls = append(prog.Decls, p.extraDecls...)
			p.extraDecls = nil
		}
		if p.cur() == before && !p.at(token.EOF) {
			// No production consumed anything (a construct this parser
			// doesn't recognize, e.g. a "technique" block): skip one token
			// to guarantee forward progress.
			p.advance()
		}
	}
	return prog
}

// skipBalanced consumes tokens from the current position up to and
// including the matching close token, given the open token was already
// consumed. Used to gracefully skip constructs outside this compiler's
// scope (spec.md §9's "technique"/"compile" constructs are legacy FX-file
// syntax with no GLSL translation and are not part of this spec).
func (p *Parser) skipBalanced(open, close token.Kind) {
	depth := 1
	for depth > 0 && !p.at(token.EOF) {
		switch p.cur().Kind {
		case open:
			depth++
		case close:
			depth--
		}
		p.advance()
	}
}

func (p *Parser) parseGlobalDecl() ast.Decl {
	switch {
	case p.at(token.KeywordTechnique):
		p.advance()
		for !p.at(token.LBrace) && !p.at(token.EOF) {
			p.advance()
		}
		if _, ok := p.accept(token.LBrace); ok {
			p.skipBalanced(token.LBrace, token.RBrace)
		}
		return nil

	case p.at(token.KeywordStruct):
		return p.parseStructDecl()

	case p.at(token.KeywordOther, "typedef"):
		return p.parseTypedefDecl()

	case p.at(token.KeywordOther, "cbuffer") || p.at(token.KeywordOther, "tbuffer"):
		return p.parseUniformBufferDecl()

	case p.at(token.LBracket):
		attrs := p.parseAttributes()
		fn := p.parseFuncDecl(nil)
		if fn != nil {
			fn.Attributes = attrs
		}
		return fn

	default:
		return p.parseVarOrFuncDecl()
	}
}

// parseAttributes parses zero or more "[Ident(args...)]" attribute blocks,
// the syntax HLSL uses for "[numthreads(x,y,z)]", "[maxvertexcount(n)]",
// "[domain(\"tri\")]" and similar pipeline-stage annotations.
func (p *Parser) parseAttributes() map[string][]ast.Expr {
	attrs := map[string][]ast.Expr{}
	for p.at(token.LBracket) {
		p.advance()
		name := p.expect(token.Ident, "attribute name").Spelling
		var args []ast.Expr
		if _, ok := p.accept(token.LParen); ok {
			if !p.at(token.RParen) {
				args = append(args, p.parseAssignExpr())
				for {
					if _, ok := p.accept(token.Comma); !ok {
						break
					}
					args = append(args, p.parseAssignExpr())
				}
			}
			p.expectSpelling(token.RParen, ")")
		}
		p.expectSpelling(token.RBracket, "]")
		attrs[name] = args
	}
	return attrs
}

func (p *Parser) parseTypedefDecl() ast.Decl {
	begin := p.advance() // "typedef"
	spec := p.parseTypeSpecifier()
	name := p.expect(token.Ident, "type alias name").Spelling
	p.expectSpelling(token.Semicolon, ";")
	p.declareTypeName(name, typeAlias)
	return &ast.AliasDecl{
		Name:        name,
		Underlying_: spec.Denoter,
		Base:        ast.NewBase(begin.Area),
	}
}
