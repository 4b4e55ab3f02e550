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

import "context"

type ctxKey struct{}

type state struct {
	handler Handler
	level   Severity
	tag     string
}

// From returns a fluent Context, installing the default handler and level
// (Info, stdout-discarding by default) if none has been attached yet.
func From(ctx context.Context) Context {
	if s, ok := ctx.Value(ctxKey{}).(*state); ok {
		return Context{ctx: ctx, state: s}
	}
	return Context{ctx: ctx, state: &state{handler: Discard, level: Info}}
}

// Context is a small fluent wrapper around context.Context for logging.
type Context struct {
	ctx   context.Context
	state *state
}

// Unwrap returns the underlying context.Context.
func (c Context) Unwrap() context.Context { return c.ctx }

// WithHandler returns a derived context using h as the log sink.
func (c Context) WithHandler(h Handler) Context {
	s := *c.state
	s.handler = h
	ctx := context.WithValue(c.ctx, ctxKey{}, &s)
	return Context{ctx: ctx, state: &s}
}

// WithLevel returns a derived context that filters out records below level.
func (c Context) WithLevel(level Severity) Context {
	s := *c.state
	s.level = level
	ctx := context.WithValue(c.ctx, ctxKey{}, &s)
	return Context{ctx: ctx, state: &s}
}

// WithTag returns a derived context tagging subsequent records with tag.
func (c Context) WithTag(tag string) Context {
	s := *c.state
	s.tag = tag
	ctx := context.WithValue(c.ctx, ctxKey{}, &s)
	return Context{ctx: ctx, state: &s}
}

// Logger is a severity-bound handle returned by Context.At and friends.
type Logger struct {
	ctx Context
	sev Severity
}

func (c Context) at(sev Severity) Logger { return Logger{ctx: c, sev: sev} }

// Verbose returns a Logger at Verbose severity.
func (c Context) Verbose() Logger { return c.at(Verbose) }

// Debug returns a Logger at Debug severity.
func (c Context) Debug() Logger { return c.at(Debug) }

// Info returns a Logger at Info severity.
func (c Context) Info() Logger { return c.at(Info) }

// Warning returns a Logger at Warning severity.
func (c Context) Warning() Logger { return c.at(Warning) }

// Error returns a Logger at Error severity.
func (c Context) Error() Logger { return c.at(Error) }

// Active reports whether this logger's severity passes the context's filter.
func (l Logger) Active() bool { return l.sev >= l.ctx.state.level }

// Log emits msg if the logger is active.
func (l Logger) Log(msg string) {
	if !l.Active() {
		return
	}
	l.ctx.state.handler.Handle(l.sev, l.ctx.state.tag, msg)
}

// Logf formats and emits if the logger is active.
func (l Logger) Logf(format string, args ...interface{}) {
	if !l.Active() {
		return
	}
	l.Log(sprintf(format, args...))
}
