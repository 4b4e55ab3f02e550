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

// Package source owns the immutable byte buffers the rest of the pipeline
// reads from, and maps flat byte offsets to (file, line, column) positions.
package source

import "strings"

// File is a named, immutable source buffer with a line-offset index built
// lazily the first time a position is requested.
type File struct {
	// ID is this file's slot in the owning Manager, stable for the whole
	// compilation.
	ID int
	// Name is the filename hint this file was opened with (may be synthetic,
	// e.g. "<macro expansion>").
	Name string
	// Text is the full decoded source text of this file, after any #line
	// remapping has been recorded (remapping only affects reported numbers,
	// never this text).
	Text string
	// LineOffset overrides the first reported line number (1-based), set by
	// a #line directive. Defaults to 1.
	LineOffset int
	// NameOverride overrides the file name reported in areas, set by #line
	// with a filename argument.
	NameOverride string

	lineStarts []int // byte offsets of the start of each line
}

func (f *File) index() []int {
	if f.lineStarts != nil {
		return f.lineStarts
	}
	starts := []int{0}
	for i, r := range f.Text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	f.lineStarts = starts
	return starts
}

// Position returns the 1-based (line, column) for a byte offset into Text.
func (f *File) Position(offset int) Position {
	starts := f.index()
	// binary search for the last line start <= offset
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := lo
	col := offset - starts[lo] + 1
	name := f.NameOverride
	if name == "" {
		name = f.Name
	}
	return Position{
		File:   f.ID,
		Name:   name,
		Line:   line + 1 + (f.LineOffset - 1),
		Column: col,
	}
}

// LineText returns the full text of the given 0-based physical line (the
// line actually stored in Text, unaffected by #line offsets), without its
// trailing newline.
func (f *File) LineText(physicalLine int) string {
	starts := f.index()
	if physicalLine < 0 || physicalLine >= len(starts) {
		return ""
	}
	start := starts[physicalLine]
	end := len(f.Text)
	if physicalLine+1 < len(starts) {
		end = starts[physicalLine+1]
	}
	return strings.TrimRight(f.Text[start:end], "\r\n")
}

// Position is a human-facing source location.
type Position struct {
	File   int
	Name   string
	Line   int
	Column int
}

// Area is a span of source text, (start position, length in bytes).
type Area struct {
	Begin  Position
	Length int
}

// Manager owns every File opened during one compilation and assigns stable
// file IDs as they are first seen. It is not safe for concurrent use from
// multiple goroutines; one Manager belongs to one single-threaded compile.
type Manager struct {
	files []*File
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{}
}

// AddFile registers a new source buffer and returns it.
func (m *Manager) AddFile(name, text string) *File {
	f := &File{ID: len(m.files), Name: name, Text: text, LineOffset: 1}
	m.files = append(m.files, f)
	return f
}

// File returns the file previously registered with the given ID.
func (m *Manager) File(id int) *File {
	if id < 0 || id >= len(m.files) {
		return nil
	}
	return m.files[id]
}
