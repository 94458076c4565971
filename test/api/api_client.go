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

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onsi/ginkgo/v2"

	"github.com/unikorn-cloud/posts-contract/pkg/config"
	"github.com/unikorn-cloud/posts-contract/pkg/contract"
	"github.com/unikorn-cloud/posts-contract/pkg/posts"
)

type APIClient struct {
	client    *contract.Client
	config    *config.TestConfig
	endpoints *posts.Endpoints
}

// NewAPIClientWithConfig creates a client for baseURL using the timeouts and
// logging switches from config.
func NewAPIClientWithConfig(config *config.TestConfig, baseURL string) (*APIClient, error) {
	client, err := contract.New(baseURL,
		contract.WithTimeout(config.RequestTimeout),
		contract.WithRequestLogging(config.LogRequests),
		contract.WithResponseLogging(config.LogResponses))
	if err != nil {
		return nil, fmt.Errorf("creating contract client: %w", err)
	}

	return &APIClient{
		client:    client,
		config:    config,
		endpoints: posts.NewEndpoints(),
	}, nil
}

// Contract returns the underlying client, for use with test cases and runners.
func (c *APIClient) Contract() *contract.Client {
	return c.client
}

// logError logs a failed request with trace context.
func (c *APIClient) logError(spec contract.RequestSpec, duration time.Duration, err error) {
	ginkgo.GinkgoWriter.Printf("[%s] ERROR duration=%s error=%v\n", spec, duration, err)

	var transportErr *contract.TransportError
	if errors.As(err, &transportErr) {
		ginkgo.GinkgoWriter.Printf("TRANSPORT: %s %s could not complete\n", transportErr.Method, transportErr.URL)
	}
}

// logUnexpectedStatus logs an unexpected HTTP status code.
func (c *APIClient) logUnexpectedStatus(spec contract.RequestSpec, expectedStatus int, response *contract.Response) {
	ginkgo.GinkgoWriter.Printf("[%s] UNEXPECTED STATUS expected=%d got=%d body=%s\n", spec, expectedStatus, response.StatusCode, response.Raw)
	c.logTraceContext(response.TraceID)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceID string) {
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", traceID)
}

// Do executes a request, logging it when debug logging is enabled.
func (c *APIClient) Do(ctx context.Context, spec contract.RequestSpec) (*contract.Response, error) {
	start := time.Now()

	response, err := c.client.Execute(ctx, spec)
	if err != nil {
		c.logError(spec, time.Since(start), err)

		return nil, err
	}

	if c.config.DebugLogging {
		ginkgo.GinkgoWriter.Printf("[%s] status=%d duration=%s trace=%s\n", spec, response.StatusCode, time.Since(start), response.TraceID)
	}

	return response, nil
}

// Verify asserts a response, logging the trace ID when the status is wrong.
func (c *APIClient) Verify(spec contract.RequestSpec, response *contract.Response, expectedStatus int, expectedBody *posts.Post) error {
	err := contract.Verify(response, expectedStatus, expectedBody)

	var assertionErr *contract.AssertionError
	if errors.As(err, &assertionErr) && assertionErr.StatusMismatch() && response != nil {
		c.logUnexpectedStatus(spec, expectedStatus, response)
	}

	return err
}

func (c *APIClient) do(ctx context.Context, method contract.Method, segments []string, body *posts.Post) (contract.RequestSpec, *contract.Response, error) {
	spec, err := contract.NewRequestSpec(method, segments, body)
	if err != nil {
		return contract.RequestSpec{}, nil, err
	}

	response, err := c.Do(ctx, spec)

	return spec, response, err
}

// GetPost fetches a single post.
func (c *APIClient) GetPost(ctx context.Context, id int) (contract.RequestSpec, *contract.Response, error) {
	return c.do(ctx, contract.MethodGet, c.endpoints.Member(id), nil)
}

// CreatePost creates a post in the collection.
func (c *APIClient) CreatePost(ctx context.Context, post posts.Post) (contract.RequestSpec, *contract.Response, error) {
	return c.do(ctx, contract.MethodPost, c.endpoints.Collection(), &post)
}

// ReplacePost replaces the post identified by post.ID.
func (c *APIClient) ReplacePost(ctx context.Context, post posts.Post) (contract.RequestSpec, *contract.Response, error) {
	return c.do(ctx, contract.MethodPut, c.endpoints.Member(post.ID), &post)
}

// PatchPost partially updates the post identified by post.ID.
func (c *APIClient) PatchPost(ctx context.Context, post posts.Post) (contract.RequestSpec, *contract.Response, error) {
	return c.do(ctx, contract.MethodPatch, c.endpoints.Member(post.ID), &post)
}

// DeletePost deletes a post.
func (c *APIClient) DeletePost(ctx context.Context, id int) (contract.RequestSpec, *contract.Response, error) {
	return c.do(ctx, contract.MethodDelete, c.endpoints.Member(id), nil)
}

// RawRequest executes a request against arbitrary path segments, for negative
// testing of paths the helpers do not cover.
func (c *APIClient) RawRequest(ctx context.Context, method contract.Method, segments ...string) (contract.RequestSpec, *contract.Response, error) {
	return c.do(ctx, method, segments, nil)
}
