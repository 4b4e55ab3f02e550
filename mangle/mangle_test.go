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

package mangle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shaderforge/hlslxc/mangle"
)

func TestMangle_DefaultPrefixes(t *testing.T) {
	opts := mangle.Default()
	assert.Equal(t, "xsv_POSITION", mangle.Mangle(opts, mangle.Entity{Kind: mangle.Input, Name: "POSITION"}))
	assert.Equal(t, "xsv_SV_Target", mangle.Mangle(opts, mangle.Entity{Kind: mangle.Output, Name: "SV_Target"}))
	assert.Equal(t, "xsr_if", mangle.Mangle(opts, mangle.Entity{Kind: mangle.Reserved, Name: "if"}))
	assert.Equal(t, "xst_result", mangle.Mangle(opts, mangle.Entity{Kind: mangle.Temporary, Name: "result"}))
	assert.NoError(t, mangle.Validate(opts))
}

func TestMangle_ValidateRejectsEmptyPrefix(t *testing.T) {
	opts := mangle.Default()
	opts.InputPrefix = ""
	assert.Error(t, mangle.Validate(opts))
}

func TestMangle_ValidateRejectsSharedReservedTemporary(t *testing.T) {
	opts := mangle.Default()
	opts.TemporaryPrefix = opts.ReservedPrefix
	assert.Error(t, mangle.Validate(opts))
}

func TestMangle_HasPrefix(t *testing.T) {
	opts := mangle.Default()
	kind, ok := mangle.HasPrefix(opts, "xsv_POSITION")
	assert.True(t, ok)
	assert.Equal(t, mangle.Input, kind)

	_, ok = mangle.HasPrefix(opts, "myVar")
	assert.False(t, ok)
}
