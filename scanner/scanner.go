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

// Package scanner implements the single-character-lookahead HLSL lexer
// described by spec.md §4.2: it turns a source.File's text into a flat
// token.Token stream, with whitespace and comments skipped but accumulated
// as a leading-comment string attachable to the following token.
package scanner

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/shaderforge/hlslxc/source"
	"github.com/shaderforge/hlslxc/token"
)

// Error is a lexical error with its source area.
type Error struct {
	Area    source.Area
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Area.Begin.Name, e.Area.Begin.Line, e.Area.Begin.Column, e.Message)
}

// Scanner turns one source.File into a slice of tokens.
type Scanner struct {
	file   *source.File
	text   string // NFC-normalized copy of file.Text
	pos    int    // byte offset into text
	errors []Error
}

// New returns a Scanner over f. Source text is normalized to Unicode NFC
// first, the one place the otherwise byte-oriented lexer needs to be
// Unicode-aware (multi-byte content inside string/comment bodies).
func New(f *source.File) *Scanner {
	return &Scanner{file: f, text: norm.NFC.String(f.Text)}
}

// Errors returns every lexical error accumulated during Scan.
func (s *Scanner) Errors() []Error { return s.errors }

func (s *Scanner) errorf(begin int, format string, args ...interface{}) {
	s.errors = append(s.errors, Error{
		Area:    s.area(begin, s.pos-begin),
		Message: fmt.Sprintf(format, args...),
	})
}

func (s *Scanner) area(begin, length int) source.Area {
	return source.Area{Begin: s.file.Position(begin), Length: length}
}

func (s *Scanner) peek() byte {
	if s.pos >= len(s.text) {
		return 0
	}
	return s.text[s.pos]
}

func (s *Scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.text) {
		return 0
	}
	return s.text[s.pos+n]
}

func (s *Scanner) advance() byte {
	b := s.peek()
	s.pos++
	return b
}

// Scan tokenizes the whole file and returns the resulting stream, always
// terminated with a single token.EOF. Lexical errors are recovered from by
// skipping to the next plausible token boundary, matching spec.md §7.
func (s *Scanner) Scan() []token.Token {
	var out []token.Token
	var pendingComment strings.Builder
	for {
		begin := s.pos
		c := s.peek()
		switch {
		case c == 0:
			out = append(out, token.Token{Kind: token.EOF, Area: s.area(begin, 0), LeadingComment: pendingComment.String()})
			return out
		case c == ' ' || c == '\t' || c == '\r':
			s.advance()
		case c == '\n':
			s.advance()
		case c == '/' && s.peekAt(1) == '/':
			text := s.scanLineComment()
			pendingComment.WriteString(text)
			pendingComment.WriteByte('\n')
		case c == '/' && s.peekAt(1) == '*':
			text := s.scanBlockComment(begin)
			pendingComment.WriteString(text)
			pendingComment.WriteByte('\n')
		case c == '#':
			tok := s.scanDirectiveMarker(begin)
			tok.LeadingComment = pendingComment.String()
			pendingComment.Reset()
			out = append(out, tok)
		case isIdentStart(c):
			tok := s.scanIdentOrKeyword(begin)
			tok.LeadingComment = pendingComment.String()
			pendingComment.Reset()
			out = append(out, tok)
		case isDigit(c) || (c == '.' && isDigit(s.peekAt(1))):
			tok := s.scanNumber(begin)
			tok.LeadingComment = pendingComment.String()
			pendingComment.Reset()
			out = append(out, tok)
		case c == '"':
			tok := s.scanString(begin)
			tok.LeadingComment = pendingComment.String()
			pendingComment.Reset()
			out = append(out, tok)
		case c == '\'':
			tok := s.scanChar(begin)
			tok.LeadingComment = pendingComment.String()
			pendingComment.Reset()
			out = append(out, tok)
		default:
			tok := s.scanOperatorOrPunct(begin)
			tok.LeadingComment = pendingComment.String()
			pendingComment.Reset()
			out = append(out, tok)
		}
	}
}

func (s *Scanner) scanLineComment() string {
	begin := s.pos
	for s.peek() != 0 && s.peek() != '\n' {
		s.advance()
	}
	return s.text[begin:s.pos]
}

func (s *Scanner) scanBlockComment(begin int) string {
	start := s.pos
	s.advance()
	s.advance() // "/*"
	for {
		if s.peek() == 0 {
			s.errorf(begin, "unterminated block comment")
			break
		}
		if s.peek() == '*' && s.peekAt(1) == '/' {
			s.advance()
			s.advance()
			break
		}
		s.advance()
	}
	return s.text[start:s.pos]
}

func isIdentStart(c byte) bool { return c == '_' || unicode.IsLetter(rune(c)) }
func isIdentCont(c byte) bool  { return c == '_' || isDigit(c) || unicode.IsLetter(rune(c)) || c >= utf8.RuneSelf }
func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (s *Scanner) scanIdentOrKeyword(begin int) token.Token {
	for isIdentCont(s.peek()) {
		s.advance()
	}
	spelling := s.text[begin:s.pos]
	kind := token.Lookup(spelling)
	return token.Token{Kind: kind, Spelling: spelling, Area: s.area(begin, s.pos-begin)}
}

// scanNumber implements spec.md §4.2's numeric-literal rule: decimal
// integer, decimal float (with a leading-'.' variant), hex integer (0x...),
// suffix tags (u, l, f, h, L); a float requires a digit on at least one side
// of the decimal point and, if an exponent is present, at least one exponent
// digit.
func (s *Scanner) scanNumber(begin int) token.Token {
	isFloat := false
	if s.peek() == '0' && (s.peekAt(1) == 'x' || s.peekAt(1) == 'X') {
		s.advance()
		s.advance()
		for isHexDigit(s.peek()) {
			s.advance()
		}
		spelling := s.text[begin:s.pos]
		return token.Token{Kind: token.IntLit, Spelling: spelling, Area: s.area(begin, s.pos-begin)}
	}
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && s.peekAt(1) != '.' {
		isFloat = true
		s.advance()
		if !isDigit(s.peek()) && s.pos-begin == 1 {
			s.errorf(begin, "malformed number: expected digit after '.'")
		}
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	if s.peek() == 'e' || s.peek() == 'E' {
		save := s.pos
		s.advance()
		if s.peek() == '+' || s.peek() == '-' {
			s.advance()
		}
		if !isDigit(s.peek()) {
			if isFloat {
				s.errorf(begin, "malformed number: expected digit in exponent")
			}
			s.pos = save // not actually an exponent; e.g. identifier-like suffix
		} else {
			isFloat = true
			for isDigit(s.peek()) {
				s.advance()
			}
		}
	}
	// suffix tags
	for {
		switch s.peek() {
		case 'u', 'U', 'l', 'L':
			s.advance()
		case 'f', 'F', 'h', 'H':
			isFloat = true
			s.advance()
		default:
			goto done
		}
	}
done:
	spelling := s.text[begin:s.pos]
	kind := token.IntLit
	if isFloat {
		kind = token.FloatLit
	}
	return token.Token{Kind: kind, Spelling: spelling, Area: s.area(begin, s.pos-begin)}
}

func (s *Scanner) scanString(begin int) token.Token {
	s.advance() // opening quote
	for s.peek() != 0 && s.peek() != '"' {
		s.advance()
	}
	if s.peek() == 0 {
		s.errorf(begin, "unterminated string literal")
	} else {
		s.advance()
	}
	return token.Token{Kind: token.StringLit, Spelling: s.text[begin:s.pos], Area: s.area(begin, s.pos-begin)}
}

func (s *Scanner) scanChar(begin int) token.Token {
	s.advance()
	for s.peek() != 0 && s.peek() != '\'' {
		s.advance()
	}
	if s.peek() == 0 {
		s.errorf(begin, "unterminated char literal")
	} else {
		s.advance()
	}
	return token.Token{Kind: token.CharLit, Spelling: s.text[begin:s.pos], Area: s.area(begin, s.pos-begin)}
}

func (s *Scanner) scanDirectiveMarker(begin int) token.Token {
	s.advance() // '#'
	for s.peek() == ' ' || s.peek() == '\t' {
		s.advance()
	}
	start := s.pos
	for isIdentCont(s.peek()) {
		s.advance()
	}
	name := s.text[start:s.pos]
	return token.Token{Kind: token.Directive, Spelling: name, Area: s.area(begin, s.pos-begin)}
}

// twoByteOps/threeByteOps are checked longest-match-first.
var threeByteOps = []string{"<<=", ">>="}
var twoByteOps = []string{
	"==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "::",
}

func (s *Scanner) scanOperatorOrPunct(begin int) token.Token {
	rest := s.text[s.pos:]
	for _, op := range threeByteOps {
		if strings.HasPrefix(rest, op) {
			s.pos += 3
			return token.Token{Kind: token.AssignOp, Spelling: op, Area: s.area(begin, 3)}
		}
	}
	for _, op := range twoByteOps {
		if strings.HasPrefix(rest, op) {
			s.pos += 2
			return token.Token{Kind: classifyOp(op), Spelling: op, Area: s.area(begin, 2)}
		}
	}
	c := s.advance()
	spelling := string(c)
	kind := classifyOp(spelling)
	if kind == token.Invalid {
		s.errorf(begin, "unexpected character %q", c)
	}
	return token.Token{Kind: kind, Spelling: spelling, Area: s.area(begin, 1)}
}

func classifyOp(op string) token.Kind {
	switch op {
	case "(":
		return token.LParen
	case ")":
		return token.RParen
	case "{":
		return token.LBrace
	case "}":
		return token.RBrace
	case "[":
		return token.LBracket
	case "]":
		return token.RBracket
	case ",":
		return token.Comma
	case ";":
		return token.Semicolon
	case ".":
		return token.Dot
	case "?":
		return token.Question
	case ":", "::":
		return token.Colon
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=":
		return token.AssignOp
	case "!", "~":
		return token.UnaryOp
	case "+", "-", "*", "/", "%",
		"<", ">", "<=", ">=", "==", "!=",
		"&&", "||", "&", "|", "^", "<<", ">>":
		return token.BinOp
	case "++", "--":
		return token.UnaryOp
	default:
		return token.Invalid
	}
}
