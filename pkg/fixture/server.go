/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package fixture implements an in-process replica of the public posts
// fixture service.  Like the real thing it is stateless: writes are
// validated and echoed back, but never persisted.
package fixture

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"

	"github.com/unikorn-cloud/posts-contract/pkg/posts"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// CreatedID is the id the public service assigns to every created post, it
// holds 100 records.
const CreatedID = 101

var (
	//go:embed openapi.yaml
	openAPISpec []byte

	//go:embed posts.json
	seedData []byte
)

// Schema loads and validates the embedded OpenAPI document.
func Schema(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("loading openapi document: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validating openapi document: %w", err)
	}

	return doc, nil
}

// Seed returns the records the fixture serves, ordered by id.
func Seed() ([]posts.Post, error) {
	var seed []posts.Post
	if err := json.Unmarshal(seedData, &seed); err != nil {
		return nil, fmt.Errorf("unmarshaling seed data: %w", err)
	}

	slices.SortFunc(seed, func(a, b posts.Post) int {
		return a.ID - b.ID
	})

	return seed, nil
}

// Server serves the posts resource.  It is safe for concurrent use, nothing
// mutates after construction.
type Server struct {
	handler http.Handler
	router  routers.Router
	posts   []posts.Post
	byID    map[int]posts.Post
	logger  logr.Logger
}

// NewServer builds a fixture server.
func NewServer(ctx context.Context) (*Server, error) {
	doc, err := Schema(ctx)
	if err != nil {
		return nil, err
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("creating openapi router: %w", err)
	}

	seed, err := Seed()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: router,
		posts:  seed,
		byID:   make(map[int]posts.Post, len(seed)),
		logger: log.FromContext(ctx).WithName("fixture"),
	}

	for _, post := range seed {
		s.byID[post.ID] = post
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.validateRequests)

	r.Route("/"+posts.CollectionSegment, func(r chi.Router) {
		r.Get("/", s.listPosts)
		r.Post("/", s.createPost)
		r.Get("/{id}", s.getPost)
		r.Put("/{id}", s.replacePost)
		r.Patch("/{id}", s.updatePost)
		r.Delete("/{id}", s.deletePost)
	})

	s.handler = r

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start serves the fixture on addr until ctx is done and returns its base
// URL.  Use "127.0.0.1:0" for an ephemeral port.  The returned channel is
// closed once the server has shut down and in-flight requests have drained.
func (s *Server) Start(ctx context.Context, addr string) (string, <-chan struct{}, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	done := make(chan struct{})

	server := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		defer close(done)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(err, "shutting down fixture server")
		}
	}()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(err, "fixture server exited")
		}
	}()

	return "http://" + listener.Addr().String(), done, nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.V(1).Info("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "traceparent", r.Header.Get("Traceparent"))
	})
}

// validateRequests rejects anything the OpenAPI document doesn't describe.
func (s *Server) validateRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, params, err := s.router.FindRoute(r)
		if err != nil {
			writeJSON(w, http.StatusNotFound, struct{}{})
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: params,
			Route:      route,
		}

		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Log.WithName("fixture").Error(err, "writing response")
	}
}

// lookup resolves the {id} path parameter, writing a 404 when no record
// exists.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (posts.Post, int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return posts.Post{}, 0, false
	}

	post, ok := s.byID[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return posts.Post{}, id, false
	}

	return post, id, true
}

func (s *Server) listPosts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.posts)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	post, _, ok := s.lookup(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var post posts.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	post.ID = CreatedID

	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) replacePost(w http.ResponseWriter, r *http.Request) {
	_, id, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var post posts.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	post.ID = id

	writeJSON(w, http.StatusOK, post)
}

// postPatch holds the fields present in a PATCH body.
type postPatch struct {
	UserID *int    `json:"userId"`
	Title  *string `json:"title"`
	Body   *string `json:"body"`
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	post, _, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var patch postPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if patch.UserID != nil {
		post.UserID = *patch.UserID
	}

	if patch.Title != nil {
		post.Title = *patch.Title
	}

	if patch.Body != nil {
		post.Body = *patch.Body
	}

	writeJSON(w, http.StatusOK, post)
}

// deletePost always succeeds, as the public service does.
func (s *Server) deletePost(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct{}{})
}
