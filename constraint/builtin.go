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
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Built-in fixed constraints. Each entry is registered under every name in
// its alias list with the same pattern and message.
var builtinPatterns = []struct {
	names   []string
	pattern string
	message string
}{
	{[]string{"numeric", "int"}, `[0-9]+`, "must be a number"},
	{[]string{"alpha"}, `[a-zA-Z]+`, "must contain only letters"},
	{[]string{"alpha_num", "alphanumeric"}, `[a-zA-Z0-9]+`, "must contain only letters and numbers"},
	{[]string{"slug"}, `[a-zA-Z0-9-]+`, "must be a valid slug"},
	{[]string{"uuid"}, `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`, "must be a valid UUID"},
	{[]string{"email"}, `[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`, "must be a valid email address"},
	{[]string{"float", "decimal"}, `[0-9]+(?:\.[0-9]+)?`, "must be a decimal number"},
	{[]string{"boolean"}, `(?i:true|false|0|1)`, "must be a boolean"},
}

func registerBuiltins(r *Registry) {
	for _, b := range builtinPatterns {
		for _, name := range b.names {
			// Built-in patterns are constants and always compile.
			_ = r.Register(name, b.pattern, b.message)
		}
	}

	_ = r.RegisterFactory("min", minFactory, "is too short")
	_ = r.RegisterFactory("max", maxFactory, "is too long")
	_ = r.RegisterFactory("between", betweenFactory, "has an invalid length")
	_ = r.RegisterFactory("in", inFactory, "must be one of the allowed values")
}

// The length factories constrain the LENGTH of the captured segment, not its
// numeric value. Go's RE2 engine has no lookahead, so the fragments are
// bounded repetitions of the non-slash segment body rather than a lookahead
// combined with a permissive body. The accepted language is the same.

// minFactory renders min:N as a non-slash segment of at least N characters.
func minFactory(args ...string) (string, error) {
	n, err := lengthArg("min", args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`[^/]{%d,}`, n), nil
}

// maxFactory renders max:N as a non-slash segment of 1..N characters.
// A matched segment is never empty, so the lower bound stays at one.
func maxFactory(args ...string) (string, error) {
	n, err := lengthArg("max", args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`[^/]{1,%d}`, n), nil
}

// betweenFactory renders between:A,B as a non-slash segment of A..B
// characters, bounds inclusive.
func betweenFactory(args ...string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: between wants 2 arguments, got %d", ErrBadArguments, len(args))
	}
	lo, err := parseBound("between", args[0])
	if err != nil {
		return "", err
	}
	hi, err := parseBound("between", args[1])
	if err != nil {
		return "", err
	}
	if lo > hi {
		return "", fmt.Errorf("%w: between bounds inverted (%d > %d)", ErrBadArguments, lo, hi)
	}
	return fmt.Sprintf(`[^/]{%d,%d}`, lo, hi), nil
}

// inFactory renders in:v1,v2,... as an alternation of the literal values.
// Values are regex-quoted so metacharacters in them stay literal.
func inFactory(args ...string) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "") {
		return "", fmt.Errorf("%w: in wants at least one value", ErrBadArguments)
	}
	quoted := make([]string, 0, len(args))
	for _, v := range args {
		quoted = append(quoted, regexp.QuoteMeta(v))
	}
	return "(?:" + strings.Join(quoted, "|") + ")", nil
}

func lengthArg(name string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s wants 1 argument, got %d", ErrBadArguments, name, len(args))
	}
	return parseBound(name, args[0])
}

func parseBound(name, arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("%w: %s bound %q is not an integer", ErrBadArguments, name, arg)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %s bound must be positive, got %d", ErrBadArguments, name, n)
	}
	return n, nil
}
