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
	"strconv"
	"strings"

	"github.com/Ancillary-AGI/pydance-sub002/constraint"
)

// Convert turns the raw captures from MatchPath into typed parameter values
// keyed by parameter name.
//
// Conversion follows each parameter's Kind: int captures become int64, float
// captures float64, boolean captures bool ("true"/"1" case-insensitive map
// to true, everything else the fragment admits to false), and everything
// else passes through as string. An absent optional parameter maps to a nil
// value, never to the type's zero value: callers can tell "not provided"
// apart from "provided as zero".
//
// A capture that matched an int or float fragment but fails to parse means
// the fragment admits non-numeric text. That is a broken constraint
// definition, reported as an error wrapping ErrConversion.
func (t *Template) Convert(raw []string) (map[string]any, error) {
	if len(raw) != len(t.params) {
		return nil, fmt.Errorf("%w: %d captures for %d parameters", ErrConversion, len(raw), len(t.params))
	}

	values := make(map[string]any, len(t.params))
	for i := range t.params {
		p := &t.params[i]
		s := raw[i]

		if s == "" && p.Optional {
			values[p.Name] = nil
			continue
		}

		switch p.Convert {
		case constraint.KindInt:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, conversionError(p.Name, s, "int", err)
			}
			values[p.Name] = n
		case constraint.KindFloat:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, conversionError(p.Name, s, "float", err)
			}
			values[p.Name] = f
		case constraint.KindBool:
			values[p.Name] = strings.EqualFold(s, "true") || s == "1"
		default:
			values[p.Name] = s
		}
	}
	return values, nil
}

// conversionError distinguishes overflow (request input, non-match) from a
// fragment that admits non-numeric text (a broken constraint, a bug).
func conversionError(name, capture, kind string, err error) error {
	sentinel := ErrConversion
	if errors.Is(err, strconv.ErrRange) {
		sentinel = ErrValueOutOfRange
	}
	return fmt.Errorf("%w: parameter %q captured %q as %s: %v", sentinel, name, capture, kind, err)
}
