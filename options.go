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

import "github.com/Ancillary-AGI/pydance-sub002/constraint"

// Option configures a Router at construction time.
type Option func(*Router)

// WithConstraintRegistry makes the router resolve constraints against its
// own registry instead of the process-wide default. Useful for tests and for
// applications hosting several independently configured routers.
//
// Example:
//
//	reg := constraint.NewRegistry()
//	reg.Register("sku", `[A-Z]{2}[0-9]{6}`, "must be a SKU")
//	r := router.MustNew(router.WithConstraintRegistry(reg))
func WithConstraintRegistry(reg *constraint.Registry) Option {
	return func(r *Router) {
		r.registry = reg
	}
}

// WithDiagnostics sets a diagnostic handler for the router.
//
// Diagnostic events are optional informational events that may indicate
// configuration issues (a typo'd constraint name falling back to a literal
// regex, a constraint silently replaced). The router functions correctly
// whether diagnostics are collected or not.
//
// Example:
//
//	r := router.MustNew(router.WithDiagnostics(router.SlogDiagnostics(slog.Default())))
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = handler
	}
}

// WithObserver sets a match observer, called once per Match with the
// outcome. See Recorder for the OpenTelemetry-backed implementation.
//
// Example:
//
//	rec, _ := router.NewRecorder(router.WithPrometheus())
//	r := router.MustNew(router.WithObserver(rec))
func WithObserver(observer MatchObserver) Option {
	return func(r *Router) {
		r.observer = observer
	}
}
