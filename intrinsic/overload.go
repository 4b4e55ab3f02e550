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

// Package intrinsic holds the static HLSL intrinsic catalogue and the
// two-pass (exact-match, then implicit-conversion) overload resolution
// algorithm of spec.md §4.5/§4.6 for intrinsic calls. User function calls
// are resolved by the analyzer's own resolveFuncOverload, which runs the
// same two passes over *ast.FuncDecl candidates.
package intrinsic

import (
	"fmt"

	"github.com/shaderforge/hlslxc/types"
)

// Candidate is one overload: its parameter types, return type, and the
// argument indices (if any) that are write-back ("out"/"inout") parameters.
type Candidate struct {
	Params      []types.Denoter
	Variadic    bool // last Params entry repeats for any number of trailing args (e.g. min/max style)
	Return      types.Denoter
	OutputIndices []int
	// ReturnFromArg, when HasReturnFromArg is set, makes ReturnType use
	// the full type of the matched argument at this index instead of
	// Return.
	ReturnFromArg int
	HasReturnFromArg bool
	MinVersion    int    // 0 if unconstrained
	Extension     string // "" if unconstrained
}

func (c Candidate) accepts(argc int) bool {
	if c.Variadic {
		return argc >= len(c.Params)
	}
	return argc == len(c.Params)
}

func (c Candidate) String() string {
	s := "("
	for i, p := range c.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + c.Return.String()
}

// Resolve runs the exact-match-then-implicit-conversion algorithm spec.md
// §4.5 describes over candidates for an argument-type list argTypes. It
// returns the single matching Candidate, or an error naming every
// candidate considered (ambiguity, or no match at all).
func Resolve(name string, candidates []Candidate, argTypes []types.Denoter) (Candidate, error) {
	var exact []Candidate
	for _, c := range candidates {
		if c.accepts(len(argTypes)) && matchesExactly(c, argTypes) {
			exact = append(exact, c)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}
	if len(exact) > 1 {
		return Candidate{}, ambiguous(name, exact, argTypes)
	}

	var implicit []Candidate
	for _, c := range candidates {
		if c.accepts(len(argTypes)) && matchesWithConversion(c, argTypes) {
			implicit = append(implicit, c)
		}
	}
	switch len(implicit) {
	case 0:
		return Candidate{}, fmt.Errorf("no matching overload for %q with argument types %v; candidates: %v", name, argTypes, candidateList(candidates))
	case 1:
		return implicit[0], nil
	default:
		return Candidate{}, ambiguous(name, implicit, argTypes)
	}
}

func ambiguous(name string, cands []Candidate, argTypes []types.Denoter) error {
	return fmt.Errorf("ambiguous call to %q with argument types %v; candidates: %v", name, argTypes, candidateList(cands))
}

func candidateList(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.String()
	}
	return out
}

func matchesExactly(c Candidate, argTypes []types.Denoter) bool {
	for i, at := range argTypes {
		pt := paramAt(c, i)
		if !types.Equal(at, pt) {
			return false
		}
	}
	return true
}

func matchesWithConversion(c Candidate, argTypes []types.Denoter) bool {
	for i, at := range argTypes {
		pt := paramAt(c, i)
		if !types.Equal(at, pt) && !types.CanImplicitlyConvert(at, pt) {
			return false
		}
	}
	return true
}

func paramAt(c Candidate, i int) types.Denoter {
	if c.Variadic && i >= len(c.Params) {
		return c.Params[len(c.Params)-1]
	}
	return c.Params[i]
}

// ReturnType resolves the return type for the matched candidate against the
// actual argument types, honoring the element-type-generic case.
func ReturnType(c Candidate, argTypes []types.Denoter) types.Denoter {
	if c.HasReturnFromArg && c.ReturnFromArg < len(argTypes) {
		return argTypes[c.ReturnFromArg]
	}
	return c.Return
}
