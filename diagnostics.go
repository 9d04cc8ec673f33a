// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package routing

import (
	"io"
	"log/slog"
)

// DiagnosticEvent is an informational event raised while building the
// router. The router behaves the same whether events are collected or not.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// DiagDuplicateName is raised when a route name is reused.
	DiagDuplicateName DiagnosticKind = "route_name_duplicate"

	// DiagDuplicateRoute is raised when a method and template pair is
	// registered again and can never match.
	DiagDuplicateRoute DiagnosticKind = "route_duplicate"
)

// DiagnosticHandler receives diagnostic events.
type DiagnosticHandler interface {
	OnDiagnostic(event DiagnosticEvent)
}

// DiagnosticHandlerFunc adapts a function to DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

// OnDiagnostic calls f(e).
func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}

func (r *Router) emit(e DiagnosticEvent) {
	if r.diagnostics != nil {
		r.diagnostics.OnDiagnostic(e)
	}
}

// NoopLogger returns a logger that discards everything.
func NoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
