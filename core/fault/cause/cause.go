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

// Package cause provides lightweight cause-chaining for internal errors,
// so a panic recovered deep in the analyzer or code generator can still
// report the function that raised it alongside the underlying error.
package cause

import (
	"fmt"

	"github.com/shaderforge/hlslxc/core/fault"
)

// Error is a structured error carrying an explanation and an optional cause.
type Error struct {
	Function string
	Message  string
	cause    error
}

// Error implements error.
func (e Error) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("%s: %s", e.Function, e.Message)
	}
	return e.Message
}

// Cause reports the underlying cause of the error, or nil.
func (e Error) Cause() error { return e.cause }

// Unwrap allows errors.Is/As to see through the wrapper.
func (e Error) Unwrap() error { return e.cause }

// Explain wraps err with an explanatory message, tagged with the calling
// function name. If err is nil a new fault.Internal-derived error is created.
func Explain(function string, err error, msg string) Error {
	if err == nil {
		err = fault.Internal
	}
	return Error{Function: function, Message: msg, cause: err}
}

// Explainf is Explain with Printf-style formatting of msg.
func Explainf(function string, err error, msg string, args ...interface{}) Error {
	return Explain(function, err, fmt.Sprintf(msg, args...))
}
