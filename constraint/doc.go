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

// Package constraint provides the named constraint registry used by route
// patterns and the Where API.
//
// A constraint is a named regular-expression fragment applied to one path
// parameter. Constraints come in three shapes:
//
//   - Fixed: a bare name maps to a fragment ("numeric" -> [0-9]+).
//   - Parameterized: a name with arguments invokes a factory
//     ("between:2,5" -> [^/]{2,5}).
//   - Literal: anything that is not a registered name is taken verbatim as a
//     regex fragment.
//
// The built-in set covers numeric, alpha, alpha_num, slug, uuid, email,
// float, boolean and the min/max/between/in factories. min, max, and between
// constrain segment length, not numeric value.
//
// Registering over an existing name overwrites it; the last write wins.
package constraint
