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

// Package mangle implements the five-prefix identifier mangling policy of
// spec.md §4.5, grounded on gapil/compiler/mangling's Entity/Scope/Named
// shape (Mangler func(Entity) string) narrowed from C++ Itanium-ABI
// entities to the handful of HLSL identifier kinds the code generator
// needs to rename: entry-point input/output globals, reserved-word
// collisions, compiler-synthesized temporaries, and namespace-qualified
// buffer fields.
package mangle

import "fmt"

// Kind is the identifier role being mangled.
type Kind int

const (
	Input Kind = iota
	Output
	Reserved
	Temporary
	Namespace
)

// Options is the five-prefix configuration surface spec.md §6 describes.
// All five prefixes must be non-empty and pairwise distinct for Reserved
// and Temporary (Validate checks this; compiler.Compile calls it before
// analysis).
type Options struct {
	InputPrefix     string
	OutputPrefix    string
	ReservedPrefix  string
	TemporaryPrefix string
	NamespacePrefix string

	// UseAlwaysSemantics mangles every entry-point parameter by its
	// semantic name rather than its source identifier, even when the
	// identifier itself would already be unambiguous.
	UseAlwaysSemantics bool
	// RenameBufferFields prefixes uniform-buffer member names with the
	// buffer's own mangled name, avoiding GLSL's flat uniform-block
	// namespace colliding with an unrelated global of the same name.
	RenameBufferFields bool
}

// Default matches the original tool's built-in prefixes.
func Default() Options {
	return Options{
		InputPrefix:     "xsv_",
		OutputPrefix:    "xsv_",
		ReservedPrefix:  "xsr_",
		TemporaryPrefix: "xst_",
		NamespacePrefix: "xsn_",
	}
}

// Entity is anything Mangle can produce a name for: an entry-point I/O
// variable, a reserved-word-colliding user identifier, a generated
// temporary, or a namespace-qualified buffer field.
type Entity struct {
	Kind Kind
	Name string
}

// Mangle returns the mangled spelling for e under opts.
func Mangle(opts Options, e Entity) string {
	switch e.Kind {
	case Input:
		return opts.InputPrefix + e.Name
	case Output:
		return opts.OutputPrefix + e.Name
	case Reserved:
		return opts.ReservedPrefix + e.Name
	case Temporary:
		return opts.TemporaryPrefix + e.Name
	case Namespace:
		return opts.NamespacePrefix + e.Name
	default:
		return e.Name
	}
}

// Collision reports a name clash between a user identifier and a mangled
// prefix, per spec.md §4.5's "clashes... are forbidden" constraint.
type Collision struct {
	Identifier string
	Prefix     string
	Kind       Kind
}

func (c Collision) Error() string {
	return fmt.Sprintf("identifier %q collides with the %s mangling prefix %q", c.Identifier, kindName(c.Kind), c.Prefix)
}

func kindName(k Kind) string {
	switch k {
	case Input:
		return "input"
	case Output:
		return "output"
	case Reserved:
		return "reserved-word"
	case Temporary:
		return "temporary"
	case Namespace:
		return "namespace"
	default:
		return "?"
	}
}

// Validate checks opts against spec.md §4.5's constraints: every prefix is
// non-empty, and the reserved-word and temporary prefixes differ from all
// others (they must not collide with identifiers the input program or the
// other three mangling categories could plausibly produce).
func Validate(opts Options) error {
	prefixes := map[string]Kind{
		opts.InputPrefix:     Input,
		opts.OutputPrefix:    Output,
		opts.NamespacePrefix: Namespace,
	}
	for _, p := range []struct {
		prefix string
		kind   Kind
	}{{opts.InputPrefix, Input}, {opts.OutputPrefix, Output}, {opts.ReservedPrefix, Reserved}, {opts.TemporaryPrefix, Temporary}, {opts.NamespacePrefix, Namespace}} {
		if p.prefix == "" {
			return fmt.Errorf("mangle: %s prefix must not be empty", kindName(p.kind))
		}
	}
	if opts.ReservedPrefix == opts.TemporaryPrefix {
		return fmt.Errorf("mangle: reserved-word and temporary prefixes must differ")
	}
	for _, other := range []string{opts.ReservedPrefix, opts.TemporaryPrefix} {
		if k, ok := prefixes[other]; ok {
			return Collision{Identifier: other, Prefix: other, Kind: k}
		}
	}
	return nil
}

// HasPrefix reports whether ident already begins with any of opts' five
// prefixes, used by the analyzer to reject a user identifier that would
// collide with a mangled name.
func HasPrefix(opts Options, ident string) (Kind, bool) {
	for _, p := range []struct {
		prefix string
		kind   Kind
	}{{opts.InputPrefix, Input}, {opts.OutputPrefix, Output}, {opts.ReservedPrefix, Reserved}, {opts.TemporaryPrefix, Temporary}, {opts.NamespacePrefix, Namespace}} {
		if p.prefix != "" && len(ident) > len(p.prefix) && ident[:len(p.prefix)] == p.prefix {
			return p.kind, true
		}
	}
	return 0, false
}
