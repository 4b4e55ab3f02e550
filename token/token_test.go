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

package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shaderforge/hlslxc/token"
)

func TestToken_Is(t *testing.T) {
	tok := token.Token{Kind: token.Ident, Spelling: "foo"}
	assert.True(t, tok.Is(token.Ident, "foo"))
	assert.False(t, tok.Is(token.Ident, "bar"))
	assert.False(t, tok.Is(token.KeywordType, "foo"))
}

func TestToken_String(t *testing.T) {
	tok := token.Token{Kind: token.IntLit, Spelling: "42"}
	assert.Equal(t, "42", tok.String())
}
