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
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/Ancillary-AGI/pydance-sub002/compiler"
	"github.com/Ancillary-AGI/pydance-sub002/constraint"
)

// Router owns an ordered collection of routes and dispatches method+path
// lookups against them in registration order. The first route that matches
// wins; the router performs no specificity reordering, so routes sharing a
// path shape with different constraints must be registered
// most-specific-first by the caller.
//
// Lifecycle: routes, constraints, and names are registered single-threaded
// during application setup. The first Match call (or an explicit Freeze)
// freezes the table; from then on matching is a pure computation over
// immutable state and is safe for unsynchronized concurrent use from any
// number of goroutines. Mutation after the freeze panics.
type Router struct {
	routes      []*Route
	named       map[string]*Route
	registry    *constraint.Registry
	diagnostics DiagnosticHandler
	observer    MatchObserver

	frozen atomic.Bool
}

// New creates a router. Options are applied in order; an invalid
// configuration returns an error.
//
// By default the router resolves constraints against the process-wide
// registry (constraint.Default()), so constraints registered with
// constraint.Register are visible to every router.
func New(opts ...Option) (*Router, error) {
	r := &Router{
		named:    make(map[string]*Route),
		registry: constraint.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		return nil, ErrNilRegistry
	}
	return r, nil
}

// MustNew creates a router and panics on configuration errors. Intended for
// application startup where an invalid configuration should halt the program.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Handle compiles a pattern and appends a route answering the given methods.
// A nil or empty method list defaults to GET. The returned route supports
// chained Where and SetName calls.
//
// All configuration errors - malformed pattern syntax, duplicate parameter
// names, unresolvable constraint arguments - surface here, at registration
// time. They are never deferred to matching.
func (r *Router) Handle(methods []string, pattern string, handler Handler) (*Route, error) {
	if r.frozen.Load() {
		return nil, fmt.Errorf("%w: cannot add %q", ErrRouterFrozen, pattern)
	}
	if handler == nil {
		return nil, fmt.Errorf("%w: route %q", ErrNilHandler, pattern)
	}

	set, err := methodSet(methods)
	if err != nil {
		return nil, err
	}

	tpl, err := compiler.Compile(pattern, r.registry)
	if err != nil {
		return nil, err
	}

	rt := &Route{
		router:   r,
		template: tpl,
		methods:  set,
		handler:  handler,
	}
	r.routes = append(r.routes, rt)

	r.emit(DiagRouteRegistered, "route registered", map[string]any{
		"pattern": pattern,
		"methods": rt.Methods(),
	})
	r.emitInlineLiteralFallbacks(tpl)

	return rt, nil
}

// emitInlineLiteralFallbacks reports inline constraint specs that resolved
// as literal regex fragments, same as the Where-time diagnostic.
func (r *Router) emitInlineLiteralFallbacks(tpl *compiler.Template) {
	if r.diagnostics == nil {
		return
	}
	for _, p := range tpl.Params() {
		if p.Spec == "" {
			continue
		}
		if res, err := r.registry.Resolve(p.Spec); err == nil && res.Literal {
			r.emit(DiagLiteralConstraint, "constraint spec accepted as literal regex", map[string]any{
				"pattern": tpl.Raw(),
				"param":   p.Name,
				"spec":    p.Spec,
			})
		}
	}
}

// Match dispatches a method and an already-normalized path against the route
// table in registration order and returns the first successful match.
// (nil, false) means no route matched - a normal outcome the HTTP layer
// turns into a 404 or a fallthrough.
//
// Path normalization (percent-decoding, trailing-slash policy, case folding,
// query stripping) is the caller's responsibility; Match compares the
// supplied string verbatim.
//
// The first Match call freezes the route table.
func (r *Router) Match(method, path string) (*Match, bool) {
	return r.MatchContext(context.Background(), method, path)
}

// MatchContext is Match with a caller-supplied context, used only to
// correlate observability output (trace spans, exemplars) with the
// surrounding request. Matching itself performs no I/O and never blocks;
// the context is not consulted for cancellation.
func (r *Router) MatchContext(ctx context.Context, method, path string) (*Match, bool) {
	if !r.frozen.Load() {
		r.frozen.Store(true)
	}

	method = normalizeMethod(method)

	if r.observer == nil {
		return r.matchOrdered(method, path)
	}

	start := time.Now()
	m, ok := r.matchOrdered(method, path)
	pattern := ""
	if ok {
		pattern = m.Route.Pattern()
	}
	r.observer.ObserveMatch(ctx, method, pattern, ok, time.Since(start))
	return m, ok
}

func (r *Router) matchOrdered(method, path string) (*Match, bool) {
	for _, rt := range r.routes {
		if m, ok := rt.Match(method, path); ok {
			return m, true
		}
	}
	return nil, false
}

// Freeze marks the route table immutable without performing a match. Useful
// to end the configuration phase explicitly before handing the router to
// concurrent request handlers.
func (r *Router) Freeze() {
	r.frozen.Store(true)
}

// Frozen reports whether the route table has been frozen.
func (r *Router) Frozen() bool {
	return r.frozen.Load()
}

// checkMutable panics when configuration APIs run after the freeze.
func (r *Router) checkMutable() {
	if r.frozen.Load() {
		panic(ErrRouterFrozen)
	}
}

// registerName records a route under a unique name.
func (r *Router) registerName(name string, rt *Route) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrRouteNameUnknown)
	}
	if prior, taken := r.named[name]; taken && prior != rt {
		return fmt.Errorf("%w: %q already names %q", ErrDuplicateRouteName, name, prior.Pattern())
	}
	r.named[name] = rt
	return nil
}

// URL builds a path for the named route from the given parameter values
// (reverse routing). Values are path-escaped; optional parameters may be
// omitted and disappear together with their separator. Query values, when
// supplied, are appended as an encoded query string.
//
// Example:
//
//	r.GET("/users/{id:numeric}", handler).SetName("users.show")
//	u, _ := r.URL("users.show", map[string]string{"id": "42"}, nil) // "/users/42"
func (r *Router) URL(name string, params map[string]string, query url.Values) (string, error) {
	rt, ok := r.named[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrRouteNameUnknown, name)
	}
	path, err := rt.template.BuildPath(params)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return path, nil
}

// RouteInfo describes a registered route for introspection, debugging, and
// documentation tooling.
type RouteInfo struct {
	Methods     []string          // sorted HTTP methods
	Pattern     string            // original pattern string
	Name        string            // route name ("" if unnamed)
	Constraints map[string]string // parameter name -> constraint spec (inline or Where)
}

// Routes returns a snapshot of the route table in registration order.
func (r *Router) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(r.routes))
	for _, rt := range r.routes {
		info := RouteInfo{
			Methods: rt.Methods(),
			Pattern: rt.Pattern(),
			Name:    rt.Name(),
		}
		for _, p := range rt.template.Params() {
			if p.Spec == "" {
				continue
			}
			if info.Constraints == nil {
				info.Constraints = make(map[string]string)
			}
			info.Constraints[p.Name] = p.Spec
		}
		out = append(out, info)
	}
	return out
}

// RouteExists reports whether a route is registered with exactly the given
// method and pattern string.
func (r *Router) RouteExists(method, pattern string) bool {
	method = normalizeMethod(method)
	for _, rt := range r.routes {
		if rt.Pattern() != pattern {
			continue
		}
		if _, ok := rt.methods[method]; ok {
			return true
		}
	}
	return false
}

// Registry returns the constraint registry this router resolves against.
func (r *Router) Registry() *constraint.Registry {
	return r.registry
}
