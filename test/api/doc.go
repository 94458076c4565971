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

// Package api provides integration test utilities for the posts API.
//
// # Test Environment
//
// Suites run against an in-process fixture server by default so they are
// hermetic. Setting FIXTURE_MODE=remote points them at API_BASE_URL instead,
// which is how the public service is verified.
//
// # Client
//
// APIClient wraps the contract client with one helper per operation on the
// posts resource. Every helper builds a validated request, logs failures with
// the request trace ID to GinkgoWriter and returns the normalized response, so
// specs only state expectations.
package api
