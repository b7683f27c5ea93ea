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

package constraint

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry. Routers resolve against it
// unless constructed with their own registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds or overwrites a fixed-pattern constraint in the process-wide
// registry. It panics on a pattern that does not compile: constraint
// registration happens at application startup, and a malformed pattern is a
// programming error worth failing loudly for.
//
// Example:
//
//	constraint.Register("hex_color_short", `#[0-9a-fA-F]{3}`, "Invalid hex color")
func Register(name, pattern, message string) {
	if err := defaultRegistry.Register(name, pattern, message); err != nil {
		panic(err)
	}
}

// RegisterFactory adds or overwrites a parameterized constraint family in
// the process-wide registry. Panics on invalid input, like Register.
func RegisterFactory(name string, factory Factory, message string) {
	if err := defaultRegistry.RegisterFactory(name, factory, message); err != nil {
		panic(err)
	}
}
