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

package benchmarks

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/labstack/echo/v4"

	router "github.com/Ancillary-AGI/pydance-sub002"
)

// Router Comparison Benchmarks
//
// Comparative benchmarks between the regex-template router and other popular
// Go routers. The frameworks dispatch a full HTTP request through their
// ServeHTTP path with a no-op handler; this router is a pure matching core,
// so it is measured on Match directly. The numbers compare route resolution
// cost, not response writing.
//
// These benchmarks are isolated in a separate module to avoid polluting the
// main module's dependencies.
//
// To run:
//   cd benchmarks
//   go test -bench=.

func newBenchRouter(b *testing.B) *router.Router {
	b.Helper()
	r := router.MustNew()
	r.GET("/", "root")
	r.GET("/users/{id:numeric}", "user")
	r.GET("/users/{id:numeric}/posts/{slug}", "post")
	r.Freeze()
	return r
}

// BenchmarkMatchStatic measures a static route at the head of the table.
func BenchmarkMatchStatic(b *testing.B) {
	r := newBenchRouter(b)

	b.ResetTimer()
	for b.Loop() {
		if _, ok := r.Match(http.MethodGet, "/"); !ok {
			b.Fatal("expected match")
		}
	}
}

// BenchmarkMatchOneParam measures a single constrained parameter.
func BenchmarkMatchOneParam(b *testing.B) {
	r := newBenchRouter(b)

	b.ResetTimer()
	for b.Loop() {
		if _, ok := r.Match(http.MethodGet, "/users/123"); !ok {
			b.Fatal("expected match")
		}
	}
}

// BenchmarkMatchTwoParams measures two parameters at the tail of the table.
func BenchmarkMatchTwoParams(b *testing.B) {
	r := newBenchRouter(b)

	b.ResetTimer()
	for b.Loop() {
		if _, ok := r.Match(http.MethodGet, "/users/123/posts/my-post"); !ok {
			b.Fatal("expected match")
		}
	}
}

// BenchmarkMatchMiss measures the full-table scan on a path no route accepts.
func BenchmarkMatchMiss(b *testing.B) {
	r := newBenchRouter(b)

	b.ResetTimer()
	for b.Loop() {
		if _, ok := r.Match(http.MethodGet, "/users/abc/extra/deep"); ok {
			b.Fatal("unexpected match")
		}
	}
}

// BenchmarkMatchWideTable measures scan cost with many non-matching routes
// ahead of the hit. Linear first-match-wins dispatch pays per preceding
// route, which this makes visible.
func BenchmarkMatchWideTable(b *testing.B) {
	r := router.MustNew()
	for _, p := range []string{
		"/a/{x:numeric}", "/b/{x:numeric}", "/c/{x:numeric}", "/d/{x:numeric}",
		"/e/{x:numeric}", "/f/{x:numeric}", "/g/{x:numeric}", "/h/{x:numeric}",
		"/i/{x:numeric}", "/j/{x:numeric}", "/k/{x:numeric}", "/l/{x:numeric}",
	} {
		r.GET(p, "h")
	}
	r.GET("/target/{x:numeric}", "hit")
	r.Freeze()

	b.ResetTimer()
	for b.Loop() {
		if _, ok := r.Match(http.MethodGet, "/target/42"); !ok {
			b.Fatal("expected match")
		}
	}
}

func BenchmarkGinRouter(b *testing.B) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {})
	r.GET("/users/:id", func(c *gin.Context) { _ = c.Param("id") })
	r.GET("/users/:id/posts/:slug", func(c *gin.Context) {
		_ = c.Param("id")
		_ = c.Param("slug")
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		r.ServeHTTP(w, req)
	}
}

func BenchmarkEchoRouter(b *testing.B) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return nil })
	e.GET("/users/:id", func(c echo.Context) error {
		_ = c.Param("id")
		return nil
	})
	e.GET("/users/:id/posts/:slug", func(c echo.Context) error {
		_ = c.Param("id")
		_ = c.Param("slug")
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		e.ServeHTTP(w, req)
	}
}

func BenchmarkChiRouter(b *testing.B) {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {})
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		_ = chi.URLParam(req, "id")
	})
	r.Get("/users/{id}/posts/{slug}", func(w http.ResponseWriter, req *http.Request) {
		_ = chi.URLParam(req, "id")
		_ = chi.URLParam(req, "slug")
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		r.ServeHTTP(w, req)
	}
}
