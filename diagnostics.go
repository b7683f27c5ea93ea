// Copyright 2025 The Pydance Authors
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

package router

import "log/slog"

// DiagnosticEvent represents a router diagnostic or anomaly.
// These are informational events that may indicate configuration issues.
//
// Diagnostic events are optional - the router functions correctly whether
// they are collected or not.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// DiagLiteralConstraint fires when a constraint specification did not
	// name any registered constraint and was accepted as a literal regex
	// fragment. Usually intentional (raw regex in Where), occasionally a
	// typo'd constraint name silently becoming a pattern - which is why the
	// fallback is surfaced here.
	DiagLiteralConstraint DiagnosticKind = "constraint_literal_fallback"

	// DiagConstraintReplaced fires when Where targets a parameter that
	// already carries a constraint. The prior constraint is replaced
	// (last write wins).
	DiagConstraintReplaced DiagnosticKind = "constraint_replaced"

	// DiagRouteRegistered fires for every route added to the table.
	DiagRouteRegistered DiagnosticKind = "route_registered"
)

// DiagnosticHandler receives diagnostic events from the router.
// Implementations may log, emit metrics, or ignore them.
//
// This interface is optional - if not provided, diagnostics are silently
// dropped.
//
// Example with logging:
//
//	handler := router.DiagnosticHandlerFunc(func(e router.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := router.MustNew(router.WithDiagnostics(handler))
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}

// SlogDiagnostics returns a DiagnosticHandler that logs events to the given
// slog.Logger at warn level (info for route registrations). A nil logger
// yields a handler that drops everything.
func SlogDiagnostics(logger *slog.Logger) DiagnosticHandler {
	if logger == nil {
		return DiagnosticHandlerFunc(func(DiagnosticEvent) {})
	}
	return DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		args := make([]any, 0, 2+2*len(e.Fields))
		args = append(args, "kind", string(e.Kind))
		for k, v := range e.Fields {
			args = append(args, k, v)
		}
		if e.Kind == DiagRouteRegistered {
			logger.Info(e.Message, args...)
			return
		}
		logger.Warn(e.Message, args...)
	})
}

// emit sends a diagnostic event if a handler is configured.
func (r *Router) emit(kind DiagnosticKind, message string, fields map[string]any) {
	if r.diagnostics == nil {
		return
	}
	r.diagnostics.OnDiagnostic(DiagnosticEvent{Kind: kind, Message: message, Fields: fields})
}
