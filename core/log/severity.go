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

// Package log provides a small context-carried, severity-filtered logger
// used for the compiler's own internal tracing (show-AST dumps, per-stage
// timings). It is deliberately not the channel a caller's user-visible
// diagnostics travel through; see package report for that.
package log

// Severity is the level of a log message.
type Severity int32

const (
	Verbose Severity = iota
	Debug
	Info
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Verbose:
		return "Verbose"
	case Debug:
		return "Debug"
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	case Fatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}
