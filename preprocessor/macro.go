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

import "github.com/shaderforge/hlslxc/token"

// Macro is a single #define'd object-like or function-like macro.
type Macro struct {
	Ident          string
	Tokens         []token.Token // replacement list
	Params         []string      // parameter names; nil for object-like macros
	VarArgs        bool          // last parameter is "..." (__VA_ARGS__)
	StdMacro       bool          // predefined; #undef of it, or a differing #define, is an error
	EmptyParamList bool          // "FOO()" with zero parameters, distinct from object-like "FOO"

	// hidden marks a macro as currently being expanded, blocking the direct
	// self-recursion the standard disallows (FOO expanding to "... FOO ..."
	// leaves the inner FOO untouched).
	hidden bool
}

// HasParameterList reports whether m is function-like, i.e. was defined with
// a parenthesized parameter list (possibly empty).
func (m *Macro) HasParameterList() bool { return m.Params != nil || m.EmptyParamList }

// identical reports whether two macro definitions are identical per the
// standard's redefinition rule: same parameter names, same spelling of every
// replacement-list token (whitespace-insignificant).
func identical(a, b *Macro) bool {
	if a.HasParameterList() != b.HasParameterList() || a.VarArgs != b.VarArgs {
		return false
	}
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	if len(a.Tokens) != len(b.Tokens) {
		return false
	}
	for i := range a.Tokens {
		if a.Tokens[i].Kind != b.Tokens[i].Kind || a.Tokens[i].Spelling != b.Tokens[i].Spelling {
			return false
		}
	}
	return true
}
