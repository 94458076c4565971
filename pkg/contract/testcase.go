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
	"context"
	"fmt"
	"time"

	"github.com/unikorn-cloud/posts-contract/pkg/posts"
)

// TestCase is one named, independently runnable contract check.
type TestCase struct {
	Name        string
	Description string
	Request     RequestSpec
	// ExpectedStatus is the status code every response must carry.
	ExpectedStatus int
	// ExpectedBody, when set, must be structurally equal to every response
	// body.
	ExpectedBody *posts.Post
	// Repeat issues the request this many times (at least once) and requires
	// all response bodies to be structurally equal.
	Repeat int
}

// Result is the outcome of running a TestCase.  A nil Err means it passed.
type Result struct {
	Name     string
	Request  string
	Duration time.Duration
	TraceIDs []string
	Err      error
}

// Passed reports whether the case succeeded.
func (r Result) Passed() bool {
	return r.Err == nil
}

// Run executes the case.  It never panics on failure, the outcome is in the
// returned Result.
func (tc TestCase) Run(ctx context.Context, executor Executor) Result {
	result := Result{
		Name:    tc.Name,
		Request: tc.Request.String(),
	}

	start := time.Now()
	result.Err = tc.run(ctx, executor, &result)
	result.Duration = time.Since(start)

	return result
}

func (tc TestCase) run(ctx context.Context, executor Executor, result *Result) error {
	runs := max(tc.Repeat, 1)

	var first *Response

	for i := range runs {
		resp, err := executor.Execute(ctx, tc.Request)
		if err != nil {
			return fmt.Errorf("%s: %w", tc.Request, err)
		}

		result.TraceIDs = append(result.TraceIDs, resp.TraceID)

		if err := Verify(resp, tc.ExpectedStatus, tc.ExpectedBody); err != nil {
			return fmt.Errorf("%s: %w", tc.Request, err)
		}

		if i == 0 {
			first = resp
			continue
		}

		if err := verifyRepeat(first, resp); err != nil {
			return fmt.Errorf("%s: attempt %d differs from attempt 1: %w", tc.Request, i+1, err)
		}
	}

	return nil
}

// verifyRepeat checks a repeated response against the first one.
func verifyRepeat(first, actual *Response) error {
	if first.Body == nil {
		if actual.Body != nil {
			return &AssertionError{
				ExpectedStatus: first.StatusCode,
				ActualStatus:   actual.StatusCode,
				UnexpectedBody: true,
				TraceID:        actual.TraceID,
			}
		}

		return Verify(actual, first.StatusCode, nil)
	}

	return Verify(actual, first.StatusCode, first.Body)
}
