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

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var (
	// ErrBadPattern indicates a constraint pattern that does not compile as a
	// regular expression. Raised at registration or resolution time, never
	// during matching.
	ErrBadPattern = errors.New("constraint: pattern does not compile")

	// ErrBadArguments indicates a parameterized constraint invoked with the
	// wrong argument count or malformed argument values (e.g. "between:5"
	// missing its second bound).
	ErrBadArguments = errors.New("constraint: invalid factory arguments")

	// ErrEmptySpec indicates an empty constraint specification string.
	ErrEmptySpec = errors.New("constraint: empty specification")
)

// Kind is the conversion type applied to a captured path segment after a
// successful match. It is inferred from the constraint name when the name is
// recognizable (numeric implies Int, boolean implies Bool, ...) and defaults
// to String otherwise.
type Kind uint8

const (
	// KindString passes the captured segment through unchanged.
	KindString Kind = iota
	// KindInt parses the segment as a base-10 integer.
	KindInt
	// KindFloat parses the segment as a floating point number.
	KindFloat
	// KindBool maps "true"/"1" (case-insensitive) to true, everything else to false.
	KindBool
)

// String returns the lowercase name of the conversion kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

// Factory builds a regex fragment from literal arguments parsed out of a
// "name:arg1,arg2" specification. Implementations must validate their
// argument count and values and return an error wrapping ErrBadArguments
// when invoked incorrectly.
type Factory func(args ...string) (string, error)

// Definition is one named constraint held by a Registry. Exactly one of
// Pattern and Factory is set: fixed constraints carry a literal regex
// fragment, parameterized families carry a factory.
type Definition struct {
	Name    string
	Pattern string  // fixed regex fragment ("" when Factory is set)
	Factory Factory // fragment builder for parameterized constraints
	Message string  // human-readable failure message, retrievable for diagnostics
	Convert Kind    // conversion type implied by this constraint
}

// Resolution is the outcome of resolving a constraint specification string.
type Resolution struct {
	Fragment string // regex fragment to embed in the route matcher
	Convert  Kind   // conversion type for the captured value
	Message  string // failure message from the definition ("" for literals)

	// Literal reports that the specification did not name a registered
	// constraint and was accepted verbatim as a regex fragment. Callers that
	// care about typo'd constraint names (they should) can surface this.
	Literal bool
}

// Registry holds named constraint definitions.
//
// Registering a name that already exists overwrites the prior definition.
// This last-write-wins behavior is deliberate: applications override
// built-ins by re-registering them.
//
// Registration is expected during single-threaded application setup, but the
// registry is mutex-protected so late registration (e.g. a plugin installing
// a custom constraint after startup) is safe against concurrent Resolve calls.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry returns a registry pre-populated with the built-in constraints
// (numeric, alpha, slug, uuid, email, boolean, ... and the min/max/between/in
// factories).
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]Definition, 16)}
	registerBuiltins(r)
	return r
}

// Register adds or overwrites a fixed-pattern constraint. The pattern must
// compile as a regular expression; nothing beyond that is validated.
// The conversion kind is inferred from the name.
func (r *Registry) Register(name, pattern, message string) error {
	if name == "" {
		return fmt.Errorf("%w: constraint name", ErrEmptySpec)
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrBadPattern, pattern, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[name] = Definition{
		Name:    name,
		Pattern: pattern,
		Message: message,
		Convert: kindForName(name),
	}
	return nil
}

// RegisterFactory adds or overwrites a parameterized constraint family.
// Factory output is validated when the factory is invoked, not here.
func (r *Registry) RegisterFactory(name string, factory Factory, message string) error {
	if name == "" {
		return fmt.Errorf("%w: constraint name", ErrEmptySpec)
	}
	if factory == nil {
		return fmt.Errorf("%w: nil factory for %q", ErrBadArguments, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[name] = Definition{
		Name:    name,
		Factory: factory,
		Message: message,
		Convert: kindForName(name),
	}
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Names returns the registered constraint names in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	return names
}

// Resolve turns a constraint specification string into a regex fragment.
//
// Resolution order:
//  1. A spec without ':' that names a registered constraint resolves to
//     that constraint (factories are invoked with zero arguments).
//  2. A spec with ':' whose prefix names a registered factory invokes the
//     factory with the comma-separated remainder as positional arguments.
//  3. Anything else is accepted verbatim as a literal regex fragment,
//     provided it compiles.
//
// Step 3 is deliberate permissiveness inherited from the where() API: raw
// regex is a first-class constraint spec. The cost is that a typo'd
// constraint name silently becomes a literal pattern, so the Resolution
// carries a Literal flag for callers that want to surface the fallback.
func (r *Registry) Resolve(spec string) (Resolution, error) {
	if spec == "" {
		return Resolution{}, ErrEmptySpec
	}

	name, rest, hasArgs := strings.Cut(spec, ":")
	if !hasArgs {
		if def, ok := r.Lookup(spec); ok {
			return r.resolveDefinition(def, nil)
		}
		return literalResolution(spec)
	}

	if def, ok := r.Lookup(name); ok && def.Factory != nil {
		return r.resolveDefinition(def, strings.Split(rest, ","))
	}

	// The prefix is not a known factory: the whole spec is a literal regex
	// fragment (':' is a legal regex character, e.g. in "(?i:...)").
	return literalResolution(spec)
}

func (r *Registry) resolveDefinition(def Definition, args []string) (Resolution, error) {
	if def.Factory == nil {
		return Resolution{Fragment: def.Pattern, Convert: def.Convert, Message: def.Message}, nil
	}

	fragment, err := def.Factory(args...)
	if err != nil {
		return Resolution{}, fmt.Errorf("constraint %q: %w", def.Name, err)
	}
	if _, err := regexp.Compile(fragment); err != nil {
		return Resolution{}, fmt.Errorf("%w: constraint %q produced %q: %v", ErrBadPattern, def.Name, fragment, err)
	}
	return Resolution{Fragment: fragment, Convert: def.Convert, Message: def.Message}, nil
}

func literalResolution(spec string) (Resolution, error) {
	if _, err := regexp.Compile(spec); err != nil {
		return Resolution{}, fmt.Errorf("%w: %q: %v", ErrBadPattern, spec, err)
	}
	return Resolution{Fragment: spec, Convert: KindString, Literal: true}, nil
}

// kindForName infers the conversion type from a constraint name.
func kindForName(name string) Kind {
	switch name {
	case "numeric", "int":
		return KindInt
	case "float", "decimal":
		return KindFloat
	case "boolean":
		return KindBool
	default:
		return KindString
	}
}
