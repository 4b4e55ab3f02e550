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

package log

import (
	"fmt"
	"io"
	"sync"
)

// Handler receives formatted log entries.
type Handler interface {
	Handle(sev Severity, tag, msg string)
}

// HandlerFunc implements Handler for a plain function.
type HandlerFunc func(sev Severity, tag, msg string)

// Handle implements Handler.
func (f HandlerFunc) Handle(sev Severity, tag, msg string) { f(sev, tag, msg) }

// WriterHandler writes each record as a single line to w.
type WriterHandler struct {
	mu sync.Mutex
	W  io.Writer
}

// NewWriterHandler returns a Handler that writes to w.
func NewWriterHandler(w io.Writer) *WriterHandler {
	return &WriterHandler{W: w}
}

// Handle implements Handler.
func (h *WriterHandler) Handle(sev Severity, tag, msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if tag != "" {
		fmt.Fprintf(h.W, "%s [%s] %s\n", sev, tag, msg)
	} else {
		fmt.Fprintf(h.W, "%s %s\n", sev, msg)
	}
}

// Discard is a Handler that drops every record.
var Discard Handler = HandlerFunc(func(Severity, string, string) {})
