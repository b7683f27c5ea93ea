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

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Ancillary-AGI/pydance-sub002/compiler"
)

// Handler is the opaque value attached to a route. The router never invokes
// or inspects it; a successful match returns it verbatim for the HTTP layer
// (or any other caller) to dispatch.
type Handler any

// Match is the result of a successful route match: the extracted, typed
// parameter values, the route's handler, and the route itself.
//
// Params values are int64, float64, bool, or string according to each
// parameter's conversion type; an absent optional parameter is present in
// the map with a nil value.
type Match struct {
	Params  map[string]any
	Handler Handler
	Route   *Route
}

// Route is one registered endpoint: a compiled pattern, the HTTP methods it
// answers to, an opaque handler, and an optional name for reverse routing.
//
// Routes are configured during single-threaded application setup and are
// immutable once the router starts matching. Where and SetName panic after
// that point.
type Route struct {
	router   *Router
	template *compiler.Template
	methods  map[string]struct{}
	handler  Handler
	name     string
}

// Match tests the route against a method and an already-normalized path.
//
// The method check is case-insensitive; the path is compared verbatim by the
// compiled matcher. A failed match returns (nil, false) - declining is a
// normal outcome, not an error.
func (r *Route) Match(method, path string) (*Match, bool) {
	if _, ok := r.methods[normalizeMethod(method)]; !ok {
		return nil, false
	}

	raw, ok := r.template.MatchPath(path)
	if !ok {
		return nil, false
	}

	params, err := r.template.Convert(raw)
	if err != nil {
		// A digit run wider than int64 matched the fragment but cannot be
		// represented; decline rather than fault on crafted input.
		if errors.Is(err, compiler.ErrValueOutOfRange) {
			return nil, false
		}
		// Anything else means the compiled matcher is corrupt. That is a
		// bug, not an input.
		panic(err)
	}
	return &Match{Params: params, Handler: r.handler, Route: r}, true
}

// Where attaches a constraint to a named parameter of the route's pattern.
// The spec is a registered constraint name ("numeric"), a parameterized
// constraint ("between:2,5"), or a raw regex fragment. Returns the route for
// chaining.
//
// Applying a second constraint to the same parameter replaces the first.
//
// Where panics on configuration errors - a parameter name absent from the
// pattern, bad factory arguments, a fragment that does not compile - so
// typos fail loudly at startup instead of silently matching everything. The
// panic value wraps compiler.ErrUnknownParameter or the constraint package's
// sentinel errors.
//
// Example:
//
//	r.GET("/users/{name}", handler).Where("name", "between:2,5")
//	r.GET("/files/{file}", handler).Where("file", `[a-zA-Z0-9._-]+`)
func (r *Route) Where(param, spec string) *Route {
	r.router.checkMutable()
	r.emitWhereDiagnostics(param, spec)

	if err := r.template.ApplyConstraint(param, spec); err != nil {
		panic(err)
	}
	return r
}

// WhereMap applies several constraints at once, one per parameter. Each
// entry behaves exactly like an individual Where call; since every entry
// targets a distinct parameter, map iteration order cannot affect the result.
func (r *Route) WhereMap(specs map[string]string) *Route {
	for param, spec := range specs {
		r.Where(param, spec)
	}
	return r
}

// emitWhereDiagnostics surfaces the literal-regex fallback and constraint
// replacement, both easy to hit by accident. Resolution here is redundant
// with ApplyConstraint but only runs when a diagnostics handler is set.
func (r *Route) emitWhereDiagnostics(param, spec string) {
	if r.router.diagnostics == nil {
		return
	}

	if res, err := r.router.registry.Resolve(spec); err == nil && res.Literal {
		r.router.emit(DiagLiteralConstraint, "constraint spec accepted as literal regex", map[string]any{
			"pattern": r.template.Raw(),
			"param":   param,
			"spec":    spec,
		})
	}
	for _, p := range r.template.Params() {
		if p.Name == param && p.Spec != "" {
			r.router.emit(DiagConstraintReplaced, "parameter constraint replaced", map[string]any{
				"pattern":  r.template.Raw(),
				"param":    param,
				"previous": p.Spec,
				"spec":     spec,
			})
		}
	}
}

// SetName assigns a unique name to the route for reverse routing and
// introspection. Panics if the name is already taken or the router is
// frozen. Returns the route for chaining.
//
// Example:
//
//	r.GET("/users/{id:numeric}", handler).SetName("users.show")
func (r *Route) SetName(name string) *Route {
	r.router.checkMutable()
	if err := r.router.registerName(name, r); err != nil {
		panic(err)
	}
	r.name = name
	return r
}

// Name returns the route name, or "" if the route is unnamed.
func (r *Route) Name() string {
	return r.name
}

// Pattern returns the route's original pattern string.
func (r *Route) Pattern() string {
	return r.template.Raw()
}

// Methods returns the route's HTTP methods in sorted order.
func (r *Route) Methods() []string {
	out := make([]string, 0, len(r.methods))
	for m := range r.methods {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Handler returns the opaque handler attached at registration.
func (r *Route) Handler() Handler {
	return r.handler
}

// Template returns the compiled pattern backing this route.
func (r *Route) Template() *compiler.Template {
	return r.template
}

// normalizeMethod uppercases an HTTP method string. The common case (already
// uppercase) does not allocate.
func normalizeMethod(method string) string {
	for i := 0; i < len(method); i++ {
		if method[i] >= 'a' && method[i] <= 'z' {
			return strings.ToUpper(method)
		}
	}
	return method
}

// methodSet builds the uppercase method set for a route, defaulting to GET.
func methodSet(methods []string) (map[string]struct{}, error) {
	set := make(map[string]struct{}, max(len(methods), 1))
	if len(methods) == 0 {
		set["GET"] = struct{}{}
		return set, nil
	}
	for _, m := range methods {
		m = normalizeMethod(strings.TrimSpace(m))
		if m == "" {
			return nil, fmt.Errorf("router: empty HTTP method")
		}
		set[m] = struct{}{}
	}
	return set, nil
}
