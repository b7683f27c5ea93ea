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
	"fmt"
	"net/url"
	"strings"
)

// BuildPath renders the template back into a concrete path using the given
// parameter values (reverse routing). Values are path-escaped. A missing
// required parameter is an error; a missing optional parameter is omitted
// together with its separator slash.
func (t *Template) BuildPath(params map[string]string) (string, error) {
	var b strings.Builder

	for k, tok := range t.tokens {
		if tok.param < 0 {
			text := tok.text
			if next, ok := t.nextParam(k); ok && next.Optional && strings.HasSuffix(text, "/") {
				if _, present := params[next.Name]; !present {
					text = text[:len(text)-1]
				}
			}
			b.WriteString(text)
			continue
		}

		p := t.params[tok.param]
		val, ok := params[p.Name]
		if !ok {
			if p.Optional {
				continue
			}
			return "", fmt.Errorf("%w: %q for %q", ErrMissingParameter, p.Name, t.raw)
		}
		b.WriteString(url.PathEscape(val))
	}
	return b.String(), nil
}
