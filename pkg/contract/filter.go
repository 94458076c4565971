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
	"regexp"
	"strings"
)

// Filter decides whether a case, by name, should run.
type Filter func(name string) bool

// Patterns is a list of regular expressions usable as a repeatable flag.
type Patterns []*regexp.Regexp

func (p *Patterns) String() string {
	ss := make([]string, len(*p))

	for i, r := range *p {
		ss[i] = `"` + r.String() + `"`
	}

	return strings.Join(ss, " or ")
}

// Set adds a pattern.
func (p *Patterns) Set(value string) error {
	r, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}

	*p = append(*p, r)

	return nil
}

// Type names the flag value type.
func (p *Patterns) Type() string {
	return "regex"
}

func (p Patterns) anyMatch(s string) bool {
	for _, r := range p {
		if r.MatchString(s) {
			return true
		}
	}

	return false
}

// RegexFilters selects cases whose names match any of MustMatch (when given)
// and none of MustNotMatch.
type RegexFilters struct {
	MustMatch    Patterns
	MustNotMatch Patterns
}

// AsFilter converts the patterns into a Filter.
func (f *RegexFilters) AsFilter() Filter {
	return func(name string) bool {
		if len(f.MustMatch) > 0 && !f.MustMatch.anyMatch(name) {
			return false
		}

		return !f.MustNotMatch.anyMatch(name)
	}
}
