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

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderforge/hlslxc/codegen"
	"github.com/shaderforge/hlslxc/stage"
)

func TestParseStage(t *testing.T) {
	st, err := parseStage("VERTEX")
	require.NoError(t, err)
	assert.Equal(t, stage.Vertex, st)

	_, err = parseStage("nonsense")
	assert.Error(t, err)
}

func TestParseTarget(t *testing.T) {
	v, err := parseTarget("auto")
	require.NoError(t, err)
	assert.Equal(t, codegen.Auto, v)

	v, err = parseTarget("glsl330")
	require.NoError(t, err)
	assert.Equal(t, codegen.Version{Dialect: "glsl", Number: 330}, v)

	v, err = parseTarget("essl300")
	require.NoError(t, err)
	assert.Equal(t, codegen.Version{Dialect: "essl", Number: 300}, v)

	_, err = parseTarget("hlsl50")
	assert.Error(t, err)
}

func TestParseDefines(t *testing.T) {
	macros, err := parseDefines([]string{"FOO=1", "BAR"})
	require.NoError(t, err)
	assert.Equal(t, "1", macros["FOO"])
	assert.Equal(t, "1", macros["BAR"])

	_, err = parseDefines([]string{"=1"})
	assert.Error(t, err)
}
