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

package codegen

// Version is the output shader dialect/version selector, spec.md §6.
type Version struct {
	// Dialect is one of "glsl", "essl", "vksl". "" is invalid outside of
	// the Auto sentinel.
	Dialect string
	// Number is the target version number (e.g. 330, 450); 0 means
	// "auto-detect" (spec.md §4.7's planner computes the minimum).
	Number int
}

// Auto is the "auto-detect" target sentinel.
var Auto = Version{Dialect: "glsl", Number: 0}

// Formatting holds spec.md §6's formatting options.
type Formatting struct {
	Indent              string // default four spaces
	Blanks              bool   // default on
	LineMarks           bool   // default off
	CompactWrappers     bool   // default off
	AlwaysBracedScopes  bool   // default off
	NewLineOpenScope    bool   // default on
	LineSeparation      bool   // default on
}

// DefaultFormatting matches spec.md §6's stated defaults.
func DefaultFormatting() Formatting {
	return Formatting{
		Indent:           "    ",
		Blanks:           true,
		NewLineOpenScope: true,
		LineSeparation:   true,
	}
}

// Options holds spec.md §6's code-generation options.
type Options struct {
	Optimize              bool
	PreprocessOnly        bool
	ValidateOnly          bool
	AllowExtensions       bool
	ExplicitBinding       bool
	AutoBinding           bool
	AutoBindingStartSlot  int
	PreserveComments      bool
	PreferWrappers        bool
	UnrollArrayInitializers bool
	RowMajorAlignment     bool
	Obfuscate             bool
	ShowAST               bool
	ShowTimes             bool
	SeparateSamplers      bool
	SeparateShaders       bool
	WriteGeneratorHeader  bool
}
