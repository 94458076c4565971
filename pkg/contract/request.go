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

package contract

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/unikorn-cloud/posts-contract/pkg/posts"
)

// Method is an HTTP verb understood by the verifier.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

// ParseMethod converts a case insensitive verb into a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: unsupported method %q", ErrInvalidRequestSpec, s)
	}

	return m, nil
}

// Valid reports whether the method is one of the supported verbs.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	}

	return false
}

// AllowsBody reports whether a request body may be sent with the method.
func (m Method) AllowsBody() bool {
	return m == MethodPost || m == MethodPut || m == MethodPatch
}

// targetsMember reports whether the method operates on an existing resource.
func (m Method) targetsMember() bool {
	return m == MethodPut || m == MethodPatch || m == MethodDelete
}

// RequestSpec is an immutable description of one HTTP call.  The base URL is
// owned by the Client that executes it.
type RequestSpec struct {
	method   Method
	segments []string
	body     *posts.Post
}

// NewRequestSpec validates and builds a request description.
//
// Bodies are only allowed on POST, PUT and PATCH.  PUT, PATCH and DELETE must
// address a member resource, and when a body is sent to one the final path
// segment must be the body's id.
func NewRequestSpec(method Method, segments []string, body *posts.Post) (RequestSpec, error) {
	if !method.Valid() {
		return RequestSpec{}, fmt.Errorf("%w: unsupported method %q", ErrInvalidRequestSpec, method)
	}

	if len(segments) == 0 {
		return RequestSpec{}, fmt.Errorf("%w: %s has no path segments", ErrInvalidRequestSpec, method)
	}

	for i, segment := range segments {
		if segment == "" {
			return RequestSpec{}, fmt.Errorf("%w: %s path segment %d is empty", ErrInvalidRequestSpec, method, i)
		}
	}

	if body != nil && !method.AllowsBody() {
		return RequestSpec{}, fmt.Errorf("%w: %s must not carry a body", ErrInvalidRequestSpec, method)
	}

	if method.targetsMember() {
		if len(segments) < 2 {
			return RequestSpec{}, fmt.Errorf("%w: %s must address a resource id", ErrInvalidRequestSpec, method)
		}

		if body != nil && segments[len(segments)-1] != strconv.Itoa(body.ID) {
			return RequestSpec{}, fmt.Errorf("%w: %s path ends with %q but body id is %d", ErrInvalidRequestSpec, method, segments[len(segments)-1], body.ID)
		}
	}

	spec := RequestSpec{
		method:   method,
		segments: slices.Clone(segments),
	}

	if body != nil {
		b := *body
		spec.body = &b
	}

	return spec, nil
}

// MustRequestSpec is NewRequestSpec for static fixtures, it panics on error.
func MustRequestSpec(method Method, segments []string, body *posts.Post) RequestSpec {
	spec, err := NewRequestSpec(method, segments, body)
	if err != nil {
		panic(err)
	}

	return spec
}

func (r RequestSpec) Method() Method {
	return r.method
}

// PathSegments returns a copy of the unescaped path segments.
func (r RequestSpec) PathSegments() []string {
	return slices.Clone(r.segments)
}

// Body returns a copy of the request body, if any.
func (r RequestSpec) Body() (posts.Post, bool) {
	if r.body == nil {
		return posts.Post{}, false
	}

	return *r.body, true
}

// Path returns the escaped request path, relative to the base URL.
func (r RequestSpec) Path() string {
	var b strings.Builder

	for _, segment := range r.segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(segment))
	}

	return b.String()
}

func (r RequestSpec) String() string {
	return string(r.method) + " " + r.Path()
}
