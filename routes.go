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

import "net/http"

// The verb helpers panic on configuration errors (bad pattern syntax,
// unresolvable constraints). Registration happens at application startup,
// where failing loudly beats returning an error nobody checks. Use Handle
// for the error-returning form.

// GET registers a route answering GET requests.
//
// Example:
//
//	r.GET("/users/{id:numeric}", getUserHandler)
//	r.GET("/users/{name}", getUserHandler).Where("name", "between:2,5")
func (r *Router) GET(pattern string, handler Handler) *Route {
	return r.mustHandle(http.MethodGet, pattern, handler)
}

// POST registers a route answering POST requests.
func (r *Router) POST(pattern string, handler Handler) *Route {
	return r.mustHandle(http.MethodPost, pattern, handler)
}

// PUT registers a route answering PUT requests.
func (r *Router) PUT(pattern string, handler Handler) *Route {
	return r.mustHandle(http.MethodPut, pattern, handler)
}

// DELETE registers a route answering DELETE requests.
func (r *Router) DELETE(pattern string, handler Handler) *Route {
	return r.mustHandle(http.MethodDelete, pattern, handler)
}

// PATCH registers a route answering PATCH requests.
func (r *Router) PATCH(pattern string, handler Handler) *Route {
	return r.mustHandle(http.MethodPatch, pattern, handler)
}

// HEAD registers a route answering HEAD requests.
func (r *Router) HEAD(pattern string, handler Handler) *Route {
	return r.mustHandle(http.MethodHead, pattern, handler)
}

// OPTIONS registers a route answering OPTIONS requests.
func (r *Router) OPTIONS(pattern string, handler Handler) *Route {
	return r.mustHandle(http.MethodOptions, pattern, handler)
}

// Any registers a route answering all the given methods at once.
//
// Example:
//
//	r.Any([]string{"GET", "POST"}, "/form", formHandler)
func (r *Router) Any(methods []string, pattern string, handler Handler) *Route {
	rt, err := r.Handle(methods, pattern, handler)
	if err != nil {
		panic(err)
	}
	return rt
}

func (r *Router) mustHandle(method, pattern string, handler Handler) *Route {
	rt, err := r.Handle([]string{method}, pattern, handler)
	if err != nil {
		panic(err)
	}
	return rt
}
