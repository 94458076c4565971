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
	"io"

	"github.com/sourcegraph/conc/iter"
)

// DefaultConcurrency is the number of cases a Runner runs at once.
const DefaultConcurrency = 4

// Runner runs test cases against a single shared executor.
type Runner struct {
	executor    Executor
	concurrency int
	filter      Filter
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithConcurrency bounds how many cases run in parallel.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithFilter selects which cases run by name.
func WithFilter(filter Filter) RunnerOption {
	return func(r *Runner) {
		r.filter = filter
	}
}

// NewRunner creates a runner around executor.
func NewRunner(executor Executor, opts ...RunnerOption) *Runner {
	r := &Runner{
		executor:    executor,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Results is the outcome of a run, in the order the cases were given.
type Results struct {
	Results []Result
	Skipped []string
}

// OK reports whether every selected case passed.
func (r Results) OK() bool {
	return len(r.Failed()) == 0
}

// Failed returns the failing results.
func (r Results) Failed() []Result {
	var failed []Result

	for _, result := range r.Results {
		if !result.Passed() {
			failed = append(failed, result)
		}
	}

	return failed
}

// Print writes a human readable summary.
func (r Results) Print(w io.Writer) {
	for _, result := range r.Results {
		status := "PASS"
		if !result.Passed() {
			status = "FAIL"
		}

		fmt.Fprintf(w, "[%s] %s (%s, %s)\n", status, result.Name, result.Request, result.Duration)

		if !result.Passed() {
			fmt.Fprintf(w, "    %v\n", result.Err)
		}
	}

	for _, name := range r.Skipped {
		fmt.Fprintf(w, "[SKIP] %s\n", name)
	}

	fmt.Fprintf(w, "%d passed, %d failed, %d skipped\n", len(r.Results)-len(r.Failed()), len(r.Failed()), len(r.Skipped))
}

// Run executes the selected cases concurrently.  A failing case never
// affects the others.
func (r *Runner) Run(ctx context.Context, cases []TestCase) Results {
	var (
		selected []TestCase
		skipped  []string
	)

	for _, tc := range cases {
		if r.filter != nil && !r.filter(tc.Name) {
			skipped = append(skipped, tc.Name)
			continue
		}

		selected = append(selected, tc)
	}

	mapper := iter.Mapper[TestCase, Result]{
		MaxGoroutines: r.concurrency,
	}

	results := mapper.Map(selected, func(tc *TestCase) Result {
		return tc.Run(ctx, r.executor)
	})

	return Results{
		Results: results,
		Skipped: skipped,
	}
}
