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

// Package scenarios holds the posts contract checks as data.
package scenarios

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/unikorn-cloud/posts-contract/pkg/contract"
	"github.com/unikorn-cloud/posts-contract/pkg/posts"
)

//go:embed scenarios.yaml
var defaultScenarios []byte

var ErrInvalidScenario = errors.New("invalid scenario")

type document struct {
	Scenarios []scenario `yaml:"scenarios"`
}

type scenario struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Method      string      `yaml:"method"`
	Path        []string    `yaml:"path"`
	Repeat      int         `yaml:"repeat"`
	Request     request     `yaml:"request"`
	Expect      expectation `yaml:"expect"`
}

type request struct {
	Body *posts.Post `yaml:"body"`
}

type expectation struct {
	Status int         `yaml:"status"`
	Body   *posts.Post `yaml:"body"`
	// Echo expects the request body to be returned unchanged.
	Echo bool `yaml:"echo"`
}

// Default returns the built in posts scenarios.
func Default() ([]contract.TestCase, error) {
	return Parse(defaultScenarios)
}

// Parse decodes a scenario document.  Unknown keys are rejected so typos
// don't silently drop expectations.
func Parse(data []byte) ([]contract.TestCase, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var doc document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding scenarios: %w", err)
	}

	seen := map[string]bool{}
	cases := make([]contract.TestCase, 0, len(doc.Scenarios))

	for i := range doc.Scenarios {
		tc, err := doc.Scenarios[i].testCase()
		if err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i, err)
		}

		if seen[tc.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidScenario, tc.Name)
		}

		seen[tc.Name] = true

		cases = append(cases, tc)
	}

	return cases, nil
}

func (s *scenario) testCase() (contract.TestCase, error) {
	if s.Name == "" {
		return contract.TestCase{}, fmt.Errorf("%w: missing name", ErrInvalidScenario)
	}

	if s.Expect.Status == 0 {
		return contract.TestCase{}, fmt.Errorf("%w: %s: missing expected status", ErrInvalidScenario, s.Name)
	}

	if s.Expect.Echo && s.Expect.Body != nil {
		return contract.TestCase{}, fmt.Errorf("%w: %s: echo and body are mutually exclusive", ErrInvalidScenario, s.Name)
	}

	if s.Expect.Echo && s.Request.Body == nil {
		return contract.TestCase{}, fmt.Errorf("%w: %s: echo requires a request body", ErrInvalidScenario, s.Name)
	}

	method, err := contract.ParseMethod(s.Method)
	if err != nil {
		return contract.TestCase{}, fmt.Errorf("%s: %w", s.Name, err)
	}

	spec, err := contract.NewRequestSpec(method, s.Path, s.Request.Body)
	if err != nil {
		return contract.TestCase{}, fmt.Errorf("%s: %w", s.Name, err)
	}

	expected := s.Expect.Body
	if s.Expect.Echo {
		expected = s.Request.Body
	}

	return contract.TestCase{
		Name:           s.Name,
		Description:    s.Description,
		Request:        spec,
		ExpectedStatus: s.Expect.Status,
		ExpectedBody:   expected,
		Repeat:         s.Repeat,
	}, nil
}
