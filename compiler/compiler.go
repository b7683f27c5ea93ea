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

package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Ancillary-AGI/pydance-sub002/constraint"
)

var (
	// ErrPatternSyntax indicates a malformed route pattern: unbalanced
	// braces, an empty or invalid parameter name, or similar.
	ErrPatternSyntax = errors.New("compiler: malformed route pattern")

	// ErrDuplicateParameter indicates the same parameter name used twice
	// within one pattern.
	ErrDuplicateParameter = errors.New("compiler: duplicate parameter name")

	// ErrUnknownParameter indicates a constraint applied to a parameter name
	// that does not appear in the pattern.
	ErrUnknownParameter = errors.New("compiler: unknown parameter")

	// ErrMissingParameter indicates a required parameter absent when
	// building a URL from a template.
	ErrMissingParameter = errors.New("compiler: missing required parameter")

	// ErrConversion indicates a captured segment that matched its constraint
	// fragment but failed type conversion. This is an invariant violation
	// (a bug in the constraint fragment), not a user-facing condition.
	ErrConversion = errors.New("compiler: capture failed type conversion")

	// ErrValueOutOfRange indicates a syntactically valid numeric capture
	// that overflows the target type (e.g. a digit run wider than int64).
	// Unlike ErrConversion this is reachable from request input; callers
	// treat it as a non-match.
	ErrValueOutOfRange = errors.New("compiler: captured value out of range")
)

// defaultFragment matches one or more non-slash characters. Used for
// placeholders with no declared constraint.
const defaultFragment = `[^/]+`

// Param describes one {name}-style placeholder of a compiled pattern, in
// first-appearance order.
type Param struct {
	Name     string          // placeholder identifier
	Spec     string          // constraint specification currently applied ("" = unconstrained)
	Optional bool            // pattern used {name?} or {...}? syntax
	Convert  constraint.Kind // output type of the captured value

	fragment string // resolved regex fragment for this placeholder
}

// token is one piece of the parsed pattern: either literal text or a
// reference into the parameter list. Keeping the parsed form around lets
// ApplyConstraint re-render the matcher without re-parsing or splicing
// regex strings.
type token struct {
	text  string // literal text (param < 0)
	param int    // index into Template.params, -1 for literals
}

// Template is the compiled representation of one route pattern: a single
// anchored regular expression plus ordered parameter metadata.
//
// A Template returned by Compile is always valid to match against.
// ApplyConstraint rebuilds the matcher in place; template lifetime matches
// the owning route's lifetime.
//
// Templates are safe for unsynchronized concurrent MatchPath calls provided
// no ApplyConstraint call happens concurrently. Constraint application
// belongs to the single-threaded configuration phase.
type Template struct {
	raw      string
	tokens   []token
	params   []Param
	registry *constraint.Registry

	re     *regexp.Regexp
	groups []int // submatch index per parameter (named groups keep user regex groups out of the way)
}

// Compile parses and compiles a route pattern against the given constraint
// registry.
//
// Placeholder syntax: {name}, {name?}, {name:constraint}, {name:constraint}?
// (the trailing '?' may sit inside or outside the closing brace). Names must
// be identifiers and unique within the pattern. Literal text is regex-quoted,
// so characters like '.' match themselves. The assembled expression is
// anchored at both ends: a path matches in full or not at all.
func Compile(pattern string, registry *constraint.Registry) (*Template, error) {
	if registry == nil {
		registry = constraint.Default()
	}

	t := &Template{raw: pattern, registry: registry}
	if err := t.parse(); err != nil {
		return nil, err
	}
	if err := t.render(); err != nil {
		return nil, err
	}
	return t, nil
}

// parse splits the raw pattern into literal and placeholder tokens.
func (t *Template) parse() error {
	pattern := t.raw
	seen := make(map[string]struct{})

	i := 0
	literalStart := 0
	for i < len(pattern) {
		switch pattern[i] {
		case '{':
			if literalStart < i {
				t.tokens = append(t.tokens, token{text: pattern[literalStart:i], param: -1})
			}

			end, err := closingBrace(pattern, i)
			if err != nil {
				return err
			}
			inner := pattern[i+1 : end]

			optional := false
			next := end + 1
			if next < len(pattern) && pattern[next] == '?' {
				optional = true
				next++
			}
			if strings.HasSuffix(inner, "?") {
				optional = true
				inner = inner[:len(inner)-1]
			}

			name, spec, _ := strings.Cut(inner, ":")
			if !isIdentifier(name) {
				return fmt.Errorf("%w: bad parameter name %q in %q", ErrPatternSyntax, name, pattern)
			}
			if _, dup := seen[name]; dup {
				return fmt.Errorf("%w: %q in %q", ErrDuplicateParameter, name, pattern)
			}
			seen[name] = struct{}{}

			p := Param{Name: name, Spec: spec, Optional: optional, fragment: defaultFragment}
			if spec != "" {
				res, err := t.registry.Resolve(spec)
				if err != nil {
					return fmt.Errorf("pattern %q parameter %q: %w", pattern, name, err)
				}
				p.fragment = res.Fragment
				p.Convert = res.Convert
			}

			t.tokens = append(t.tokens, token{param: len(t.params)})
			t.params = append(t.params, p)

			i = next
			literalStart = next
		case '}':
			return fmt.Errorf("%w: unbalanced '}' at offset %d in %q", ErrPatternSyntax, i, pattern)
		default:
			i++
		}
	}
	if literalStart < len(pattern) {
		t.tokens = append(t.tokens, token{text: pattern[literalStart:], param: -1})
	}
	return nil
}

// closingBrace returns the index of the brace closing the one at open.
// Braces nest so constraint arguments may themselves contain regex
// repetition counts like {3}.
func closingBrace(pattern string, open int) (int, error) {
	depth := 0
	for i := open; i < len(pattern); i++ {
		switch pattern[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unclosed '{' at offset %d in %q", ErrPatternSyntax, open, pattern)
}

// render assembles and compiles the anchored matcher from the token list.
//
// Each placeholder becomes a named capture group (?P<pN>...), so capture
// extraction survives user-supplied fragments that contain their own groups.
// An optional placeholder absorbs its leading slash: the separator and the
// segment disappear together when the parameter is absent.
func (t *Template) render() error {
	var b strings.Builder
	b.WriteByte('^')

	trimmedSlash := false
	for k, tok := range t.tokens {
		if tok.param < 0 {
			text := tok.text
			if next, ok := t.nextParam(k); ok && next.Optional && strings.HasSuffix(text, "/") {
				text = text[:len(text)-1]
				trimmedSlash = true
			} else {
				trimmedSlash = false
			}
			b.WriteString(regexp.QuoteMeta(text))
			continue
		}

		p := t.params[tok.param]
		group := fmt.Sprintf(`(?P<p%d>%s)`, tok.param, p.fragment)
		switch {
		case p.Optional && trimmedSlash:
			b.WriteString(`(?:/` + group + `)?`)
		case p.Optional:
			b.WriteString(`(?:` + group + `)?`)
		default:
			b.WriteString(group)
		}
		trimmedSlash = false
	}
	b.WriteByte('$')

	re, err := regexp.Compile(b.String())
	if err != nil {
		return fmt.Errorf("%w: %q compiled to invalid regexp: %v", ErrPatternSyntax, t.raw, err)
	}

	groups := make([]int, len(t.params))
	for i := range t.params {
		idx := re.SubexpIndex(fmt.Sprintf("p%d", i))
		if idx < 0 {
			return fmt.Errorf("%w: %q lost capture group %d", ErrPatternSyntax, t.raw, i)
		}
		groups[i] = idx
	}

	t.re = re
	t.groups = groups
	return nil
}

// nextParam returns the parameter of the token following index k, if any.
func (t *Template) nextParam(k int) (Param, bool) {
	if k+1 >= len(t.tokens) || t.tokens[k+1].param < 0 {
		return Param{}, false
	}
	return t.params[t.tokens[k+1].param], true
}

// Raw returns the original pattern string.
func (t *Template) Raw() string {
	return t.raw
}

// Params returns a copy of the parameter metadata in appearance order.
func (t *Template) Params() []Param {
	out := make([]Param, len(t.params))
	copy(out, t.params)
	return out
}

// HasParam reports whether the pattern declares the named parameter.
func (t *Template) HasParam(name string) bool {
	for i := range t.params {
		if t.params[i].Name == name {
			return true
		}
	}
	return false
}

// Regexp returns the source of the compiled matcher, for introspection.
func (t *Template) Regexp() string {
	return t.re.String()
}

// ApplyConstraint re-resolves the named parameter's fragment through the
// registry and rebuilds the matcher. Applying a constraint to a parameter
// that already has one replaces it (last write wins, mirroring registry
// semantics). Returns an error wrapping ErrUnknownParameter when name does
// not appear in the pattern.
func (t *Template) ApplyConstraint(name, spec string) error {
	idx := -1
	for i := range t.params {
		if t.params[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q is not a parameter of %q", ErrUnknownParameter, name, t.raw)
	}

	res, err := t.registry.Resolve(spec)
	if err != nil {
		return fmt.Errorf("pattern %q parameter %q: %w", t.raw, name, err)
	}

	prev := t.params[idx]
	t.params[idx].Spec = spec
	t.params[idx].fragment = res.Fragment
	t.params[idx].Convert = res.Convert

	if err := t.render(); err != nil {
		// Restore the previous matcher state; the template stays usable.
		t.params[idx] = prev
		if rerr := t.render(); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return nil
}

// MatchPath runs the compiled matcher against a full path string. On success
// it returns the raw captured strings aligned with Params(); an optional
// parameter that was absent yields an empty capture. The caller supplies an
// already-normalized path (decoded, no query string); the matcher compares
// the string verbatim.
func (t *Template) MatchPath(path string) ([]string, bool) {
	m := t.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	raw := make([]string, len(t.params))
	for i, g := range t.groups {
		raw[i] = m[g]
	}
	return raw, true
}

// isIdentifier reports whether s is a non-empty [A-Za-z_][A-Za-z0-9_]* name.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
