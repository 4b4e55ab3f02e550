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

package intrinsic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderforge/hlslxc/intrinsic"
	"github.com/shaderforge/hlslxc/types"
)

func scalar(e types.Element) types.Base { return types.Base{Elem: e, Rows: 1, Cols: 1} }

func TestResolve_ExactMatchWins(t *testing.T) {
	candidates := []intrinsic.Candidate{
		{Params: []types.Denoter{scalar(types.Float)}, Return: scalar(types.Float)},
		{Params: []types.Denoter{scalar(types.Int)}, Return: scalar(types.Int)},
	}
	c, err := intrinsic.Resolve("f", candidates, []types.Denoter{scalar(types.Int)})
	require.NoError(t, err)
	assert.Equal(t, scalar(types.Int), c.Return)
}

func TestResolve_ImplicitConversionUsedWhenNoExactMatch(t *testing.T) {
	candidates := []intrinsic.Candidate{
		{Params: []types.Denoter{scalar(types.Float)}, Return: scalar(types.Float)},
	}
	c, err := intrinsic.Resolve("f", candidates, []types.Denoter{scalar(types.Int)})
	require.NoError(t, err)
	assert.Equal(t, scalar(types.Float), c.Return)
}

func TestResolve_NoMatchReturnsError(t *testing.T) {
	candidates := []intrinsic.Candidate{
		{Params: []types.Denoter{scalar(types.Bool)}, Return: scalar(types.Bool)},
	}
	_, err := intrinsic.Resolve("f", candidates, []types.Denoter{scalar(types.Float), scalar(types.Float)})
	assert.Error(t, err)
}

func TestResolve_AmbiguousImplicitMatchesReturnsError(t *testing.T) {
	candidates := []intrinsic.Candidate{
		{Params: []types.Denoter{scalar(types.Float), scalar(types.Int)}, Return: scalar(types.Float)},
		{Params: []types.Denoter{scalar(types.Int), scalar(types.Float)}, Return: scalar(types.Float)},
	}
	_, err := intrinsic.Resolve("f", candidates, []types.Denoter{scalar(types.Int), scalar(types.Int)})
	assert.Error(t, err)
}

func TestResolve_VariadicAcceptsExtraArgs(t *testing.T) {
	candidates := []intrinsic.Candidate{
		{Params: []types.Denoter{scalar(types.Float)}, Variadic: true, Return: scalar(types.Float)},
	}
	c, err := intrinsic.Resolve("max", candidates, []types.Denoter{scalar(types.Float), scalar(types.Float), scalar(types.Float)})
	require.NoError(t, err)
	assert.Equal(t, scalar(types.Float), c.Return)
}

func TestTable_SincosCarriesOutputParameterIndices(t *testing.T) {
	f := scalar(types.Float)
	_, c, err := intrinsic.ReturnTypeFor("sincos", []types.Denoter{f, f, f})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, intrinsic.OutputParameterIndices(c))
}

func TestTable_ModfReturnsArgumentType(t *testing.T) {
	f := scalar(types.Float)
	ret, c, err := intrinsic.ReturnTypeFor("modf", []types.Denoter{f, f})
	require.NoError(t, err)
	assert.True(t, types.Equal(f, ret))
	assert.Equal(t, []int{1}, intrinsic.OutputParameterIndices(c))
}

func TestReturnType_ReturnFromArgDerivesFromMatchedArgument(t *testing.T) {
	c := intrinsic.Candidate{
		Params:           []types.Denoter{scalar(types.Float)},
		HasReturnFromArg: true,
		ReturnFromArg:    0,
	}
	argTypes := []types.Denoter{types.Base{Elem: types.Float, Rows: 3, Cols: 1}}
	assert.Equal(t, argTypes[0], intrinsic.ReturnType(c, argTypes))
}

func TestReturnType_FallsBackToDeclaredReturn(t *testing.T) {
	c := intrinsic.Candidate{Params: []types.Denoter{scalar(types.Float)}, Return: scalar(types.Bool)}
	argTypes := []types.Denoter{scalar(types.Float)}
	assert.Equal(t, scalar(types.Bool), intrinsic.ReturnType(c, argTypes))
}
