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

// Package preprocessor substitutes macros, resolves #include directives and
// evaluates conditional-compilation blocks, turning a raw scanner.Scan token
// stream for the root source file into the flattened stream the parser
// consumes. Unlike the later stages, it still thinks in terms of a nearly
// concrete token sequence rather than an AST: all it does is rewrite tokens,
// it never builds a tree.
package preprocessor

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/shaderforge/hlslxc/scanner"
	"github.com/shaderforge/hlslxc/source"
	"github.com/shaderforge/hlslxc/token"
)

// Error is a preprocessor diagnostic (malformed directive, unterminated
// conditional, #error, ...). Severity is always "error" except for the
// warning cases spec.md §6 calls out explicitly (Warn is then true).
type Error struct {
	Area    source.Area
	Message string
	Warn    bool
}

func (e Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Area.Begin.Name, e.Area.Begin.Line, e.Area.Begin.Column, e.Message)
}

// DefaultMaxIncludeDepth bounds nested #include recursion, matching the
// original implementation's hard-coded recursion guard.
const DefaultMaxIncludeDepth = 256

// Options configures a Preprocessor.
type Options struct {
	// EnableWarnings turns on non-fatal diagnostics (unknown #pragma,
	// #undef of an undefined macro, and similar).
	EnableWarnings bool
	// WriteLineMarks is accepted but not read: the preprocessor emits no
	// synthetic "#line" tokens into its output stream, whatever its value.
	WriteLineMarks bool
	// MaxIncludeDepth overrides DefaultMaxIncludeDepth when non-zero.
	MaxIncludeDepth int
	// PredefinedMacros seeds the macro table before processing begins,
	// e.g. compiler-supplied "-D" definitions.
	PredefinedMacros map[string]string
}

type ifBlock struct {
	directive     token.Token
	parentActive  bool
	active        bool
	wasActive     bool
	elseAllowed   bool
}

type frame struct {
	tokens []token.Token
	pos    int
	fileID int
	// isInclude marks a frame pushed by #include, whose pop must release one
	// unit of include depth (the guard bounds nesting, not total count).
	isInclude bool
}

// Preprocessor expands one root source.File into a flat token.Token stream.
type Preprocessor struct {
	manager  *source.Manager
	includes source.IncludeProvider
	opts     Options

	macros       map[string]*Macro
	onceIncluded map[string]bool
	includeDepth int

	frames  []frame
	ifStack []ifBlock

	out    []token.Token
	errors []Error
}

// New returns a Preprocessor that resolves #include directives through
// includes and registers every file it opens with manager.
func New(manager *source.Manager, includes source.IncludeProvider, opts Options) *Preprocessor {
	if opts.MaxIncludeDepth == 0 {
		opts.MaxIncludeDepth = DefaultMaxIncludeDepth
	}
	p := &Preprocessor{
		manager:      manager,
		includes:     includes,
		opts:         opts,
		macros:       map[string]*Macro{},
		onceIncluded: map[string]bool{},
	}
	p.defineStandardMacros()
	for ident, value := range opts.PredefinedMacros {
		p.macros[ident] = &Macro{Ident: ident, Tokens: []token.Token{{Kind: literalKind(value), Spelling: value}}}
	}
	return p
}

// literalKind classifies a "-D NAME=VALUE"-style command-line definition
// value as an integer or identifier/string token for reinjection.
func literalKind(value string) token.Kind {
	if value == "" {
		return token.Ident
	}
	if _, err := strconv.Atoi(value); err == nil {
		return token.IntLit
	}
	return token.Ident
}

// defineStandardMacros mirrors PreProcessor::DefineStandardMacro's small
// fixed set of predefined identifiers. __FILE__ and __LINE__ are registered
// so redefinition and #undef are rejected, but their replacement is
// position-dependent and computed at each use site by expandIdent.
func (p *Preprocessor) defineStandardMacros() {
	for _, ident := range []string{"__HLSL__", "__XSC__"} {
		p.macros[ident] = &Macro{Ident: ident, StdMacro: true, Tokens: []token.Token{{Kind: token.IntLit, Spelling: "1"}}}
	}
	for _, ident := range []string{"__FILE__", "__LINE__"} {
		p.macros[ident] = &Macro{Ident: ident, StdMacro: true}
	}
}

// DefinedIdents returns every macro identifier defined after processing,
// matching ListDefinedMacroIdents.
func (p *Preprocessor) DefinedIdents() []string {
	idents := make([]string, 0, len(p.macros))
	for ident := range p.macros {
		idents = append(idents, ident)
	}
	return idents
}

// Errors returns every diagnostic accumulated during Process.
func (p *Preprocessor) Errors() []Error { return p.errors }

func (p *Preprocessor) errorf(area source.Area, format string, args ...interface{}) {
	p.errors = append(p.errors, Error{Area: area, Message: fmt.Sprintf(format, args...)})
}

func (p *Preprocessor) warnf(area source.Area, format string, args ...interface{}) {
	if !p.opts.EnableWarnings {
		return
	}
	p.errors = append(p.errors, Error{Area: area, Message: fmt.Sprintf(format, args...), Warn: true})
}

// Process scans and expands f, returning the flattened token stream (always
// ending in a single token.EOF) ready for the parser.
func (p *Preprocessor) Process(f *source.File) ([]token.Token, error) {
	p.pushFile(f)
	for len(p.frames) > 0 {
		if !p.step() {
			break
		}
	}
	if len(p.ifStack) > 0 {
		p.errorf(p.ifStack[len(p.ifStack)-1].directive.Area, "unterminated conditional directive (missing #endif)")
	}
	p.out = append(p.out, token.Token{Kind: token.EOF})
	if len(p.errors) > 0 {
		return p.out, errors.Errorf("preprocessor: %d diagnostic(s), first: %s", len(p.errors), p.errors[0])
	}
	return p.out, nil
}

func (p *Preprocessor) pushFile(f *source.File) {
	toks := scanner.New(f).Scan()
	p.frames = append(p.frames, frame{tokens: toks, fileID: f.ID})
}

func (p *Preprocessor) top() *frame { return &p.frames[len(p.frames)-1] }

func (p *Preprocessor) active() bool {
	if len(p.ifStack) == 0 {
		return true
	}
	return p.ifStack[len(p.ifStack)-1].active
}

// step consumes exactly one token's worth of work from the current frame,
// returning false once every frame has been exhausted.
func (p *Preprocessor) step() bool {
	fr := p.top()
	if fr.pos >= len(fr.tokens) || fr.tokens[fr.pos].Kind == token.EOF {
		if fr.isInclude && p.includeDepth > 0 {
			p.includeDepth--
		}
		p.frames = p.frames[:len(p.frames)-1]
		return len(p.frames) > 0
	}
	tok := fr.tokens[fr.pos]
	switch {
	case tok.Kind == token.Directive:
		p.parseDirective()
	case !p.active():
		fr.pos++ // inside an inactive #if block: skip everything but directives
	case tok.Kind == token.Ident && p.macroDefinedFor(tok.Spelling):
		p.expandIdent()
	default:
		p.out = append(p.out, tok)
		fr.pos++
	}
	return true
}

func (p *Preprocessor) macroDefinedFor(ident string) bool {
	_, ok := p.macros[ident]
	return ok
}

func (p *Preprocessor) peek() token.Token {
	fr := p.top()
	if fr.pos >= len(fr.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return fr.tokens[fr.pos]
}

func (p *Preprocessor) peekAt(n int) token.Token {
	fr := p.top()
	if fr.pos+n >= len(fr.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return fr.tokens[fr.pos+n]
}

func (p *Preprocessor) advance() token.Token {
	fr := p.top()
	t := p.peek()
	if fr.pos < len(fr.tokens) {
		fr.pos++
	}
	return t
}

// expandIdent substitutes one macro invocation (object-like, or
// function-like with its call-site argument list) into the token stream.
func (p *Preprocessor) expandIdent() {
	nameTok := p.advance()
	m := p.macros[nameTok.Spelling]
	if m.hidden {
		p.out = append(p.out, nameTok)
		return
	}
	switch nameTok.Spelling {
	case "__FILE__":
		p.out = append(p.out, token.Token{Kind: token.StringLit, Spelling: strconv.Quote(nameTok.Area.Begin.Name), Area: nameTok.Area})
		return
	case "__LINE__":
		p.out = append(p.out, token.Token{Kind: token.IntLit, Spelling: strconv.Itoa(nameTok.Area.Begin.Line), Area: nameTok.Area})
		return
	}
	if !m.HasParameterList() {
		// Mask the macro for the duration of its own reinjection so a
		// self-referential body passes the identifier through unexpanded
		// instead of recursing.
		m.hidden = true
		for _, t := range m.Tokens {
			p.reinject(t, nameTok)
		}
		m.hidden = false
		return
	}
	if p.peek().Kind != token.LParen {
		// Function-like macro used without a call: not an invocation, pass
		// the identifier through unexpanded, as the standard requires.
		p.out = append(p.out, nameTok)
		return
	}
	args := p.parseMacroArguments()
	if !m.VarArgs && len(args) != len(m.Params) && !(len(m.Params) == 0 && len(args) == 1 && len(args[0]) == 0) {
		p.errorf(nameTok.Area, "macro %q expects %d argument(s), got %d", m.Ident, len(m.Params), len(args))
		return
	}
	expanded := p.expandReplacementList(m, args)
	m.hidden = true
	for _, t := range expanded {
		p.reinject(t, nameTok)
	}
	m.hidden = false
}

// reinject re-scans a single replacement token for further macro expansion
// by pushing a one-token frame; this keeps expansion iterative (a macro
// whose body references another macro is expanded transitively) while still
// respecting the non-recursive substitution rule: expandIdent sets the
// expanding macro's hidden flag around its reinjection, and an identifier
// naming a hidden macro is passed through unexpanded.
func (p *Preprocessor) reinject(t token.Token, originatingAt token.Token) {
	if t.Area.Begin.Name == "" {
		t.Area = originatingAt.Area
	}
	if t.Kind == token.Ident {
		if m, ok := p.macros[t.Spelling]; ok && !m.hidden {
			p.frames = append(p.frames, frame{tokens: []token.Token{t, {Kind: token.EOF}}})
			p.step()
			return
		}
	}
	p.out = append(p.out, t)
}

// parseMacroArguments reads the parenthesized, comma-separated argument list
// of a function-like macro invocation, honoring nested parens so a comma
// inside a nested call is not mistaken for an argument separator.
func (p *Preprocessor) parseMacroArguments() [][]token.Token {
	p.advance() // '('
	var args [][]token.Token
	var cur []token.Token
	depth := 0
	for {
		t := p.peek()
		if t.Kind == token.EOF {
			break
		}
		if t.Kind == token.LParen {
			depth++
			cur = append(cur, p.advance())
			continue
		}
		if t.Kind == token.RParen {
			if depth == 0 {
				p.advance()
				args = append(args, cur)
				break
			}
			depth--
			cur = append(cur, p.advance())
			continue
		}
		if t.Kind == token.Comma && depth == 0 {
			p.advance()
			args = append(args, cur)
			cur = nil
			continue
		}
		cur = append(cur, p.advance())
	}
	if len(args) == 1 && len(args[0]) == 0 {
		return nil
	}
	return args
}

// expandReplacementList substitutes m's parameters with arguments, folding
// any variadic tail into a single __VA_ARGS__ binding.
func (p *Preprocessor) expandReplacementList(m *Macro, args [][]token.Token) []token.Token {
	bindings := map[string][]token.Token{}
	for i, name := range m.Params {
		if i < len(args) {
			bindings[name] = args[i]
		}
	}
	if m.VarArgs {
		var rest []token.Token
		for i := len(m.Params); i < len(args); i++ {
			if i > len(m.Params) {
				rest = append(rest, token.Token{Kind: token.Comma, Spelling: ","})
			}
			rest = append(rest, args[i]...)
		}
		bindings["__VA_ARGS__"] = rest
	}

	var out []token.Token
	for _, t := range m.Tokens {
		if t.Kind == token.Ident {
			if repl, ok := bindings[t.Spelling]; ok {
				out = append(out, repl...)
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

