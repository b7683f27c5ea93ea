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

// Package compiler turns route pattern strings into matchers.
//
// A pattern like
//
//	/users/{id:numeric}/posts/{slug}
//
// compiles to a single anchored regular expression with one capture group
// per placeholder, plus ordered parameter metadata used for typed value
// extraction. The pattern is parsed once into a token list; constraint
// changes re-render the expression from the tokens rather than splicing
// regex strings, which keeps literal escaping and group numbering correct.
//
// Compilation errors (bad placeholder syntax, duplicate parameter names,
// unresolvable constraints) surface immediately; matching a compiled
// template never fails, it only declines.
package compiler
