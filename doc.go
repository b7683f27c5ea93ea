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

// Package router matches HTTP method+path pairs against registered route
// patterns, extracting typed path parameters along the way.
//
// Patterns mix literal segments with placeholders:
//
//	/users/{id:numeric}/posts/{slug}
//	/archive/{year:numeric}/{month?}
//
// A placeholder may declare a constraint inline ({id:numeric}), receive one
// later through the fluent Where API, or stay unconstrained and match any
// non-empty non-slash segment. Constraints are named entries in a registry
// (numeric, alpha, uuid, email, ...), parameterized families (min:3,
// between:2,5, in:red,green,blue), or raw regex fragments. Captured values
// are converted to int64, float64, bool, or string based on the constraint.
//
// # Matching semantics
//
// Routes are tried in registration order and the first match wins. The
// router never reorders by specificity: register the more constrained route
// first when two routes share a path shape. A route registered without
// methods answers GET only. No match is a normal (nil, false) outcome; the
// HTTP layer decides what it becomes.
//
// The router operates on already-normalized paths. Percent-decoding,
// trailing-slash policy, and case folding belong to the HTTP layer in front
// of it.
//
// # Lifecycle and concurrency
//
// Configuration - Handle, the verb helpers, Where, SetName, constraint
// registration - happens single-threaded during application startup.
// Configuration errors panic (fluent APIs) or return errors (Handle):
// always at registration time, never at request time. The first Match call
// freezes the table; matching is then a pure, lock-free computation safe
// from any goroutine, and further mutation panics.
//
// # Quick start
//
//	r := router.MustNew()
//	r.GET("/users/{id:numeric}", getUser).SetName("users.show")
//	r.GET("/users/{name}", getUserByName).Where("name", "between:2,5")
//
//	if m, ok := r.Match("GET", "/users/123"); ok {
//	    id := m.Params["id"].(int64) // 123
//	    dispatch(m.Handler, m.Params)
//	}
//
// # Observability
//
// An optional OpenTelemetry-backed Recorder counts and times matches per
// route pattern and can emit spans; see NewRecorder, WithObserver, and
// WithDiagnostics for the configuration-time diagnostics channel.
package router
