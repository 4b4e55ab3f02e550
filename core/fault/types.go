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

// Package fault holds the sentinel error types used for the compiler's own
// internal (precondition-violation) failures, as distinct from the
// user-visible diagnostics the report package carries.
package fault

// Const is the type used for constant sentinel error values.
type Const string

// Error implements error for Const, returning the string value of the const.
func (e Const) Error() string { return string(e) }

// Internal marks a precondition violation: a bug in the compiler itself
// rather than a malformed input program. Internal errors are always fatal.
const Internal = Const("internal compiler error")
