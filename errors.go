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

import "errors"

var (
	// ErrDuplicateRouteName indicates two routes registered under the same name.
	ErrDuplicateRouteName = errors.New("router: duplicate route name")

	// ErrRouteNameUnknown indicates a reverse-routing lookup for a name no
	// route was registered under.
	ErrRouteNameUnknown = errors.New("router: no route with that name")

	// ErrRouterFrozen indicates route registration or mutation after the
	// router started matching. The route table is immutable once serving
	// begins.
	ErrRouterFrozen = errors.New("router: route table is frozen")

	// ErrNilHandler indicates a route registered without a handler.
	ErrNilHandler = errors.New("router: nil handler")

	// ErrNilRegistry indicates a router configured with a nil constraint registry.
	ErrNilRegistry = errors.New("router: nil constraint registry")
)
