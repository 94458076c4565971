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

package contract_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/unikorn-cloud/posts-contract/pkg/contract"
	"github.com/unikorn-cloud/posts-contract/pkg/contract/mock"
	"github.com/unikorn-cloud/posts-contract/pkg/posts"

	"k8s.io/utils/ptr"
)

func getCase() contract.TestCase {
	return contract.TestCase{
		Name:           "get",
		Request:        contract.MustRequestSpec(contract.MethodGet, []string{"posts", "3"}, nil),
		ExpectedStatus: http.StatusOK,
		ExpectedBody:   ptr.To(posts.Post{UserID: 1, ID: 3, Title: "t", Body: "b"}),
	}
}

func TestTestCaseRunPasses(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	executor := mock.NewMockExecutor(c)

	tc := getCase()

	executor.EXPECT().Execute(gomock.Any(), tc.Request).Return(&contract.Response{
		StatusCode: http.StatusOK,
		Body:       ptr.To(*tc.ExpectedBody),
		TraceID:    "trace-1",
	}, nil)

	result := tc.Run(context.Background(), executor)
	require.True(t, result.Passed(), "%v", result.Err)
	require.Equal(t, "get", result.Name)
	require.Equal(t, "GET /posts/3", result.Request)
	require.Equal(t, []string{"trace-1"}, result.TraceIDs)
}

func TestTestCaseRunTransportFailure(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	executor := mock.NewMockExecutor(c)

	cause := &contract.TransportError{Method: contract.MethodGet, URL: "http://localhost/posts/3", Err: errors.New("connection refused")}

	executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil, cause)

	result := getCase().Run(context.Background(), executor)
	require.False(t, result.Passed())

	var transportErr *contract.TransportError
	require.ErrorAs(t, result.Err, &transportErr)
}

func TestTestCaseRunAssertionFailure(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	executor := mock.NewMockExecutor(c)

	tc := getCase()

	actual := *tc.ExpectedBody
	actual.Title = "wrong"

	executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&contract.Response{StatusCode: http.StatusOK, Body: &actual}, nil)

	result := tc.Run(context.Background(), executor)

	var failure *contract.AssertionError
	require.ErrorAs(t, result.Err, &failure)
	require.Equal(t, []string{posts.FieldTitle}, failure.Fields())
	require.Contains(t, result.Err.Error(), "GET /posts/3")
}

func TestTestCaseRepeat(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	executor := mock.NewMockExecutor(c)

	tc := getCase()
	tc.Repeat = 3

	executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&contract.Response{StatusCode: http.StatusOK, Body: ptr.To(*tc.ExpectedBody)}, nil).Times(3)

	result := tc.Run(context.Background(), executor)
	require.True(t, result.Passed(), "%v", result.Err)
	require.Len(t, result.TraceIDs, 3)
}

func TestTestCaseRepeatDetectsDrift(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	executor := mock.NewMockExecutor(c)

	// Only the status is asserted, so drift is caught by the repeat check.
	tc := getCase()
	tc.ExpectedBody = nil
	tc.Repeat = 2

	first := posts.Post{UserID: 1, ID: 3, Title: "t", Body: "b"}
	second := first
	second.Body = "changed"

	gomock.InOrder(
		executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&contract.Response{StatusCode: http.StatusOK, Body: &first}, nil),
		executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&contract.Response{StatusCode: http.StatusOK, Body: &second}, nil),
	)

	result := tc.Run(context.Background(), executor)

	var failure *contract.AssertionError
	require.ErrorAs(t, result.Err, &failure)
	require.Equal(t, []string{posts.FieldBody}, failure.Fields())
	require.Contains(t, result.Err.Error(), "attempt 2")
}

func TestTestCaseRepeatDetectsAppearingBody(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	executor := mock.NewMockExecutor(c)

	tc := getCase()
	tc.ExpectedBody = nil
	tc.Repeat = 2

	gomock.InOrder(
		executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&contract.Response{StatusCode: http.StatusOK}, nil),
		executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&contract.Response{StatusCode: http.StatusOK, Body: &posts.Post{ID: 3}}, nil),
	)

	result := tc.Run(context.Background(), executor)

	var failure *contract.AssertionError
	require.ErrorAs(t, result.Err, &failure)
	require.True(t, failure.UnexpectedBody)
}
