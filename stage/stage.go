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

// Package stage holds the shader-stage selector spec.md §1 names as one of
// the compile request's inputs. It is a leaf package with no dependencies so
// analyzer, extension, reflect and compiler can all import it without
// creating a cycle.
package stage

// Stage is the pipeline stage a shader is being compiled for.
type Stage int

const (
	Vertex Stage = iota
	Fragment
	TessControl
	TessEval
	Geometry
	Compute
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	case TessControl:
		return "tesscontrol"
	case TessEval:
		return "tesseval"
	case Geometry:
		return "geometry"
	case Compute:
		return "compute"
	default:
		return "?stage"
	}
}
