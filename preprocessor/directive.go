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

package preprocessor

import (
	"github.com/shaderforge/hlslxc/source"
	"github.com/shaderforge/hlslxc/token"
)

// parseDirective consumes one "#name ..." directive line starting at the
// current frame position, whose first token is always token.Directive.
func (p *Preprocessor) parseDirective() {
	dir := p.advance()
	switch dir.Spelling {
	case "define":
		p.parseDefine(dir)
	case "undef":
		p.parseUndef(dir)
	case "include":
		p.parseInclude(dir)
	case "if":
		p.parseIf(dir, !p.active())
	case "ifdef":
		p.parseIfdef(dir, !p.active())
	case "ifndef":
		p.parseIfndef(dir, !p.active())
	case "elif":
		p.parseElif(dir, !p.active())
	case "else":
		p.parseElse(dir)
	case "endif":
		p.parseEndif(dir)
	case "pragma":
		p.parsePragma(dir)
	case "line":
		p.parseLine(dir)
	case "error":
		p.parseError(dir)
	case "":
		// a lone '#' on its own line is a no-op, matching most preprocessors.
	default:
		if p.active() {
			p.warnf(dir.Area, "unknown preprocessor directive %q", dir.Spelling)
		}
		p.skipToLineEnd()
	}
}

// restOfLine collects every token up to (but not including) the next
// Newline-equivalent boundary. The scanner does not emit Newline tokens
// explicitly (they are trivia); HLSL preprocessor directives are always
// exactly one physical line, so we collect the tokens that share the line
// of the directive token just consumed.
func (p *Preprocessor) restOfLine() []token.Token {
	fr := p.top()
	if p.peek().Kind == token.EOF || fr.pos == 0 {
		return nil
	}
	line := fr.tokens[fr.pos-1].Area.Begin.Line
	var toks []token.Token
	for p.peek().Kind != token.EOF && p.peek().Area.Begin.Line == line {
		toks = append(toks, p.advance())
	}
	return toks
}

func (p *Preprocessor) skipToLineEnd() { p.restOfLine() }

func (p *Preprocessor) parseDefine(dir token.Token) {
	if !p.active() {
		p.skipToLineEnd()
		return
	}
	rest := p.restOfLine()
	if len(rest) == 0 || rest[0].Kind != token.Ident {
		p.errorf(dir.Area, "expected macro identifier after #define")
		return
	}
	ident := rest[0]
	rest = rest[1:]

	m := &Macro{Ident: ident.Spelling}
	if len(rest) > 0 && rest[0].Kind == token.LParen && adjacentTo(ident, rest[0]) {
		rest = rest[1:]
		m.EmptyParamList = true
		for len(rest) > 0 && rest[0].Kind != token.RParen {
			switch rest[0].Kind {
			case token.Ident:
				m.Params = append(m.Params, rest[0].Spelling)
				m.EmptyParamList = false
			case token.Dot:
				// "..." arrives as three Dot tokens.
				m.VarArgs = true
				m.EmptyParamList = false
			case token.Comma:
				// separator
			}
			rest = rest[1:]
		}
		if len(rest) > 0 {
			rest = rest[1:] // ')'
		}
	}
	m.Tokens = rest

	if prev, exists := p.macros[ident.Spelling]; exists {
		if !identical(prev, m) {
			if prev.StdMacro {
				p.errorf(ident.Area, "redefinition of standard macro %q", ident.Spelling)
				return
			}
			p.warnf(ident.Area, "redefinition of macro %q", ident.Spelling)
		}
	}
	p.macros[ident.Spelling] = m
}

func adjacentTo(a, b token.Token) bool {
	return a.Area.Begin.Line == b.Area.Begin.Line &&
		a.Area.Begin.Column+len(a.Spelling) == b.Area.Begin.Column
}

func (p *Preprocessor) parseUndef(dir token.Token) {
	if !p.active() {
		p.skipToLineEnd()
		return
	}
	rest := p.restOfLine()
	if len(rest) == 0 || rest[0].Kind != token.Ident {
		p.errorf(dir.Area, "expected macro identifier after #undef")
		return
	}
	ident := rest[0].Spelling
	m, ok := p.macros[ident]
	if !ok {
		p.warnf(dir.Area, "#undef of undefined macro %q", ident)
		return
	}
	if m.StdMacro {
		p.errorf(dir.Area, "cannot #undef standard macro %q", ident)
		return
	}
	delete(p.macros, ident)
}

func (p *Preprocessor) parseInclude(dir token.Token) {
	if !p.active() {
		p.skipToLineEnd()
		return
	}
	rest := p.restOfLine()
	if len(rest) == 0 || rest[0].Kind != token.StringLit {
		p.errorf(dir.Area, "expected a quoted filename after #include")
		return
	}
	filename := unquote(rest[0].Spelling)
	preferSearchPaths := false // "..." form; a "<...>" form is not modeled, HLSL has none
	p.includeFile(dir, filename, preferSearchPaths)
}

func (p *Preprocessor) includeFile(dir token.Token, filename string, preferSearchPaths bool) {
	if p.onceIncluded[filename] {
		return
	}
	if p.includeDepth >= p.opts.MaxIncludeDepth {
		p.errorf(dir.Area, "#include recursion exceeds maximum depth of %d", p.opts.MaxIncludeDepth)
		return
	}
	stream, err := p.includes.Open(filename, preferSearchPaths)
	if err != nil {
		p.errorf(dir.Area, "cannot open include file %q: %v", filename, err)
		return
	}
	text, err := source.ReadAll(stream)
	if err != nil {
		p.errorf(dir.Area, "cannot read include file %q: %v", filename, err)
		return
	}
	f := p.manager.AddFile(filename, text)
	p.includeDepth++
	p.pushFile(f)
	p.top().isInclude = true
}

func (p *Preprocessor) parseIf(dir token.Token, skipEvaluation bool) {
	rest := p.restOfLine()
	active := !skipEvaluation && p.evalConstExpr(dir, rest) != 0
	p.pushIfBlock(dir, active)
}

func (p *Preprocessor) parseIfdef(dir token.Token, skipEvaluation bool) {
	rest := p.restOfLine()
	active := false
	if !skipEvaluation && len(rest) > 0 && rest[0].Kind == token.Ident {
		_, active = p.macros[rest[0].Spelling]
	}
	p.pushIfBlock(dir, active)
}

func (p *Preprocessor) parseIfndef(dir token.Token, skipEvaluation bool) {
	rest := p.restOfLine()
	active := false
	if !skipEvaluation && len(rest) > 0 && rest[0].Kind == token.Ident {
		_, defined := p.macros[rest[0].Spelling]
		active = !defined
	}
	p.pushIfBlock(dir, active)
}

func (p *Preprocessor) pushIfBlock(dir token.Token, active bool) {
	parentActive := p.active()
	p.ifStack = append(p.ifStack, ifBlock{
		directive:    dir,
		parentActive: parentActive,
		active:       parentActive && active,
		wasActive:    parentActive && active,
		elseAllowed:  true,
	})
}

func (p *Preprocessor) parseElif(dir token.Token, _ bool) {
	rest := p.restOfLine()
	if len(p.ifStack) == 0 {
		p.errorf(dir.Area, "#elif without matching #if")
		return
	}
	top := &p.ifStack[len(p.ifStack)-1]
	if !top.elseAllowed {
		p.errorf(dir.Area, "#elif after #else")
		return
	}
	if top.wasActive || !top.parentActive {
		top.active = false
		return
	}
	active := p.evalConstExpr(dir, rest) != 0
	top.active = active
	if active {
		top.wasActive = true
	}
}

func (p *Preprocessor) parseElse(dir token.Token) {
	if len(p.ifStack) == 0 {
		p.errorf(dir.Area, "#else without matching #if")
		return
	}
	top := &p.ifStack[len(p.ifStack)-1]
	if !top.elseAllowed {
		p.errorf(dir.Area, "multiple #else for one #if")
		return
	}
	top.elseAllowed = false
	top.active = top.parentActive && !top.wasActive
	if top.active {
		top.wasActive = true
	}
	p.skipToLineEnd()
}

func (p *Preprocessor) parseEndif(dir token.Token) {
	if len(p.ifStack) == 0 {
		p.errorf(dir.Area, "#endif without matching #if")
		return
	}
	p.ifStack = p.ifStack[:len(p.ifStack)-1]
	p.skipToLineEnd()
}

func (p *Preprocessor) parsePragma(dir token.Token) {
	rest := p.restOfLine()
	if !p.active() {
		return
	}
	if len(rest) > 0 && rest[0].Kind == token.Ident && rest[0].Spelling == "once" {
		if fr := p.top(); fr.fileID >= 0 {
			if f := p.manager.File(fr.fileID); f != nil {
				p.onceIncluded[f.Name] = true
			}
		}
		return
	}
	p.warnf(dir.Area, "unknown #pragma directive")
}

func (p *Preprocessor) parseLine(dir token.Token) {
	rest := p.restOfLine()
	if !p.active() || len(rest) == 0 || rest[0].Kind != token.IntLit {
		return
	}
	line, err := parseInt(rest[0].Spelling)
	if err != nil {
		p.errorf(dir.Area, "malformed #line directive: %v", err)
		return
	}
	name := ""
	if len(rest) > 1 && rest[1].Kind == token.StringLit {
		name = unquote(rest[1].Spelling)
	}
	fr := p.top()
	if f := p.manager.File(fr.fileID); f != nil {
		f.LineOffset = int(line) - dir.Area.Begin.Line
		if name != "" {
			f.NameOverride = name
		}
	}
}

func (p *Preprocessor) parseError(dir token.Token) {
	rest := p.restOfLine()
	if !p.active() {
		return
	}
	msg := ""
	for i, t := range rest {
		if i > 0 {
			msg += " "
		}
		msg += t.Spelling
	}
	p.errorf(dir.Area, "#error %s", msg)
}

func unquote(spelling string) string {
	if len(spelling) >= 2 && spelling[0] == '"' && spelling[len(spelling)-1] == '"' {
		return spelling[1 : len(spelling)-1]
	}
	return spelling
}
