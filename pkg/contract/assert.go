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
	"github.com/google/go-cmp/cmp"

	"github.com/unikorn-cloud/posts-contract/pkg/posts"
)

// Verify checks a response against the expected status and body.
//
// A nil expected body means the body is not asserted.  Otherwise the actual
// body must be present and every post field must match.  All problems are
// reported together in a single *AssertionError.
func Verify(actual *Response, expectedStatus int, expectedBody *posts.Post) error {
	if actual == nil {
		return &AssertionError{
			ExpectedStatus: expectedStatus,
			MissingBody:    expectedBody != nil,
		}
	}

	failure := &AssertionError{
		ExpectedStatus: expectedStatus,
		ActualStatus:   actual.StatusCode,
		TraceID:        actual.TraceID,
	}

	if expectedBody != nil {
		if actual.Body == nil {
			failure.MissingBody = true
		} else if !expectedBody.Equal(*actual.Body) {
			failure.Mismatches = Mismatches(*expectedBody, *actual.Body)
			failure.Diff = cmp.Diff(*expectedBody, *actual.Body)
		}
	}

	if failure.StatusMismatch() || failure.MissingBody || len(failure.Mismatches) > 0 {
		return failure
	}

	return nil
}

// Mismatches compares two posts field by field, in declaration order.
func Mismatches(expected, actual posts.Post) []FieldMismatch {
	want := expected.Fields()
	got := actual.Fields()

	var mismatches []FieldMismatch

	for _, name := range posts.FieldNames() {
		if want[name] != got[name] {
			mismatches = append(mismatches, FieldMismatch{
				Field:    name,
				Expected: want[name],
				Actual:   got[name],
			})
		}
	}

	return mismatches
}
