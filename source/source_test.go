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

package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderforge/hlslxc/source"
)

func TestManager_AddFileAssignsStableIDs(t *testing.T) {
	m := source.NewManager()
	a := m.AddFile("a.hlsl", "x")
	b := m.AddFile("b.hlsl", "y")
	assert.Equal(t, 0, a.ID)
	assert.Equal(t, 1, b.ID)
	assert.Same(t, a, m.File(0))
	assert.Same(t, b, m.File(1))
	assert.Nil(t, m.File(2))
}

func TestFile_PositionLineAndColumn(t *testing.T) {
	m := source.NewManager()
	f := m.AddFile("t.hlsl", "abc\ndef\nghi")

	pos := f.Position(0)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 1, pos.Column)

	pos = f.Position(5) // 'e' on line 2
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 2, pos.Column)

	pos = f.Position(9) // 'h' on line 3
	assert.Equal(t, 3, pos.Line)
	assert.Equal(t, 2, pos.Column)
}

func TestFile_PositionRespectsLineOffset(t *testing.T) {
	m := source.NewManager()
	f := m.AddFile("t.hlsl", "a\nb")
	f.LineOffset = 100
	f.NameOverride = "virtual.hlsl"

	pos := f.Position(2) // 'b' on physical line 2
	assert.Equal(t, 101, pos.Line)
	assert.Equal(t, "virtual.hlsl", pos.Name)
}

func TestFile_LineText(t *testing.T) {
	m := source.NewManager()
	f := m.AddFile("t.hlsl", "first\r\nsecond\nthird")
	require.Equal(t, "first", f.LineText(0))
	assert.Equal(t, "second", f.LineText(1))
	assert.Equal(t, "third", f.LineText(2))
	assert.Equal(t, "", f.LineText(3))
	assert.Equal(t, "", f.LineText(-1))
}
