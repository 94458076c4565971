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

// Package contract provides a declarative HTTP contract verifier: requests
// are described as data, executed by a Client against a fixed base URL, and
// the normalized responses are checked against expected status codes and
// bodies.
package contract

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRequestSpec is returned when a request description violates
	// the method, path or body rules.
	ErrInvalidRequestSpec = errors.New("invalid request spec")

	// ErrInvalidBaseURL is returned when a client is constructed without an
	// absolute base URL.
	ErrInvalidBaseURL = errors.New("invalid base URL")
)

// TransportError is raised when the HTTP call could not complete at all, e.g.
// DNS failure, connection refused or timeout.  It is never retried.
type TransportError struct {
	Method Method
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport failure: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DeserializationError is raised when a response body is not valid JSON or
// does not have the shape of a post.
type DeserializationError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decoding response body (status %d): %v, body: %s", e.StatusCode, e.Err, snippet(e.Body))
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// FieldMismatch records a single post field whose actual value differs from
// the expected one.
type FieldMismatch struct {
	Field    string
	Expected any
	Actual   any
}

func (m FieldMismatch) String() string {
	return fmt.Sprintf("%s: expected %#v, got %#v", m.Field, m.Expected, m.Actual)
}

// AssertionError is raised when a response does not match expectations.  It
// names every failing field and carries a full diff for humans.
type AssertionError struct {
	ExpectedStatus int
	ActualStatus   int
	// MissingBody is set when a body was expected but none was returned.
	MissingBody bool
	// UnexpectedBody is set when no body was expected but one was returned.
	UnexpectedBody bool
	Mismatches     []FieldMismatch
	// Diff is a go-cmp rendering (-expected +actual) of the bodies.
	Diff    string
	TraceID string
}

// StatusMismatch reports whether the status code differed.
func (e *AssertionError) StatusMismatch() bool {
	return e.ExpectedStatus != e.ActualStatus
}

// Fields returns the names of the mismatching fields.
func (e *AssertionError) Fields() []string {
	fields := make([]string, len(e.Mismatches))

	for i := range e.Mismatches {
		fields[i] = e.Mismatches[i].Field
	}

	return fields
}

func (e *AssertionError) Error() string {
	var parts []string

	if e.StatusMismatch() {
		parts = append(parts, fmt.Sprintf("status: expected %d, got %d", e.ExpectedStatus, e.ActualStatus))
	}

	if e.MissingBody {
		parts = append(parts, "body: expected a post, got none")
	}

	if e.UnexpectedBody {
		parts = append(parts, "body: expected none, got a post")
	}

	for _, m := range e.Mismatches {
		parts = append(parts, "field "+m.String())
	}

	msg := "assertion failed: " + strings.Join(parts, "; ")

	if e.TraceID != "" {
		msg += fmt.Sprintf(" (trace ID: %s)", e.TraceID)
	}

	if e.Diff != "" {
		msg += "\nbody mismatch (-expected +actual):\n" + e.Diff
	}

	return msg
}

func snippet(body []byte) string {
	const limit = 512

	if len(body) > limit {
		body = body[:limit]
	}

	return strings.TrimSpace(string(body))
}
