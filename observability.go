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

import (
	"context"
	"time"
)

// MatchObserver receives the outcome of every Match call on a router
// configured with WithObserver. Implementations typically record metrics
// and trace events keyed by the matched route pattern rather than the raw
// path, which keeps label cardinality bounded.
//
// ObserveMatch runs on the matching hot path and must be safe for
// concurrent use. pattern is the matched route's pattern string, or "" when
// no route matched.
type MatchObserver interface {
	ObserveMatch(ctx context.Context, method, pattern string, matched bool, elapsed time.Duration)
}

// MatchObserverFunc is a function adapter for MatchObserver.
type MatchObserverFunc func(ctx context.Context, method, pattern string, matched bool, elapsed time.Duration)

func (f MatchObserverFunc) ObserveMatch(ctx context.Context, method, pattern string, matched bool, elapsed time.Duration) {
	f(ctx, method, pattern, matched, elapsed)
}
