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

//nolint:testpackage,revive // dot imports are standard for Ginkgo/Gomega test code
package suites

import (
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/posts-contract/pkg/contract"
	"github.com/unikorn-cloud/posts-contract/pkg/posts"
	"github.com/unikorn-cloud/posts-contract/pkg/scenarios"
	"github.com/unikorn-cloud/posts-contract/test/api"
)

var _ = Describe("Posts", func() {
	Context("When reading a post", func() {
		Describe("Given a post that exists", func() {
			It("should return the post", func() {
				expected := api.ExistingPost()

				spec, response, err := env.Client.GetPost(ctx, expected.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(env.Client.Verify(spec, response, http.StatusOK, &expected)).To(Succeed())

				GinkgoWriter.Printf("Retrieved %s\n", response.Body)
			})

			It("should return the same post on every read", func() {
				id := api.ExistingPost().ID

				_, first, err := env.Client.GetPost(ctx, id)
				Expect(err).NotTo(HaveOccurred())
				Expect(first.Body).NotTo(BeNil())

				_, second, err := env.Client.GetPost(ctx, id)
				Expect(err).NotTo(HaveOccurred())
				Expect(second.StatusCode).To(Equal(first.StatusCode))
				Expect(second.Body).To(Equal(first.Body))
			})
		})

		Describe("Given a post that does not exist", func() {
			It("should return 404 without a body", func() {
				spec, response, err := env.Client.GetPost(ctx, api.MissingID)
				Expect(err).NotTo(HaveOccurred())
				Expect(env.Client.Verify(spec, response, http.StatusNotFound, nil)).To(Succeed())
				Expect(response.Body).To(BeNil())
			})
		})
	})

	Context("When creating a post", func() {
		It("should return 201 and echo the post", func() {
			payload := api.NewPostPayload().WithUserID(11).WithID(api.CreatedID)

			spec, response, err := env.Client.CreatePost(ctx, payload.Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(env.Client.Verify(spec, response, http.StatusCreated, payload.BuildPtr())).To(Succeed())
		})
	})

	Context("When updating a post", func() {
		var post posts.Post

		BeforeEach(func() {
			post = api.NewPostPayload().WithID(api.ExistingPost().ID).WithTitle("test title").WithBody("test body").Build()
		})

		It("should replace it with PUT", func() {
			spec, response, err := env.Client.ReplacePost(ctx, post)
			Expect(err).NotTo(HaveOccurred())
			Expect(env.Client.Verify(spec, response, http.StatusOK, &post)).To(Succeed())
		})

		It("should update it with PATCH", func() {
			spec, response, err := env.Client.PatchPost(ctx, post)
			Expect(err).NotTo(HaveOccurred())
			Expect(env.Client.Verify(spec, response, http.StatusOK, &post)).To(Succeed())
		})

		It("should not persist the update", func() {
			_, _, err := env.Client.ReplacePost(ctx, post)
			Expect(err).NotTo(HaveOccurred())

			expected := api.ExistingPost()

			spec, response, err := env.Client.GetPost(ctx, expected.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(env.Client.Verify(spec, response, http.StatusOK, &expected)).To(Succeed())
		})
	})

	Context("When deleting a post", func() {
		It("should return 200", func() {
			spec, response, err := env.Client.DeletePost(ctx, api.ExistingPost().ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(env.Client.Verify(spec, response, http.StatusOK, nil)).To(Succeed())
		})
	})

	Context("When an expectation is wrong", func() {
		It("should name every mismatching field", func() {
			expected := api.ExistingPost()
			expected.Title = "not the title"
			expected.UserID = 2

			spec, response, err := env.Client.GetPost(ctx, expected.ID)
			Expect(err).NotTo(HaveOccurred())

			err = env.Client.Verify(spec, response, http.StatusOK, &expected)

			var assertionErr *contract.AssertionError
			Expect(errors.As(err, &assertionErr)).To(BeTrue())
			Expect(assertionErr.StatusMismatch()).To(BeFalse())
			Expect(assertionErr.Fields()).To(ConsistOf(posts.FieldUserID, posts.FieldTitle))
			Expect(err.Error()).To(ContainSubstring("not the title"))
		})

		It("should report the status mismatch", func() {
			spec, response, err := env.Client.GetPost(ctx, api.MissingID)
			Expect(err).NotTo(HaveOccurred())

			err = env.Client.Verify(spec, response, http.StatusOK, nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("expected 200, got 404"))
		})
	})

	Context("When listing posts", func() {
		It("should return every post", func() {
			spec, response, err := env.Client.RawRequest(ctx, contract.MethodGet, posts.CollectionSegment)
			Expect(err).NotTo(HaveOccurred())
			Expect(env.Client.Verify(spec, response, http.StatusOK, nil)).To(Succeed())
			Expect(response.Body).To(BeNil())
			Expect(response.Posts).NotTo(BeEmpty())
			Expect(response.Posts).To(ContainElement(api.ExistingPost()))
		})
	})

	Context("When requests are invalid", func() {
		It("should report the status for a malformed id", func() {
			if !env.Local {
				Skip("only the local fixture validates path parameters")
			}

			spec, response, err := env.Client.RawRequest(ctx, contract.MethodGet, posts.CollectionSegment, "abc")
			Expect(err).NotTo(HaveOccurred())
			Expect(response.Body).To(BeNil())

			err = env.Client.Verify(spec, response, http.StatusOK, nil)
			Expect(err).To(MatchError(ContainSubstring("expected 200, got 400")))
		})


		It("should reject a body on DELETE before sending it", func() {
			post := api.NewPostPayload().WithID(1).Build()

			_, err := contract.NewRequestSpec(contract.MethodDelete, posts.NewEndpoints().Member(1), &post)
			Expect(err).To(MatchError(contract.ErrInvalidRequestSpec))
		})

		It("should reject an update whose path and body disagree", func() {
			post := api.NewPostPayload().WithID(4).Build()

			_, err := contract.NewRequestSpec(contract.MethodPut, posts.NewEndpoints().Member(3), &post)
			Expect(err).To(MatchError(contract.ErrInvalidRequestSpec))
		})
	})
})

var _ = Describe("Scenarios", func() {
	It("should all pass", func() {
		cases, err := scenarios.Default()
		Expect(err).NotTo(HaveOccurred())

		runner := contract.NewRunner(env.Client.Contract(), contract.WithConcurrency(env.Config.Concurrency))

		results := runner.Run(ctx, cases)
		results.Print(GinkgoWriter)

		Expect(results.Failed()).To(BeEmpty())
		Expect(results.Results).To(HaveLen(len(cases)))
	})

	DescribeTable("each scenario independently",
		func(name string) {
			cases, err := scenarios.Default()
			Expect(err).NotTo(HaveOccurred())

			for _, tc := range cases {
				if tc.Name != name {
					continue
				}

				result := tc.Run(ctx, env.Client.Contract())
				Expect(result.Err).NotTo(HaveOccurred())
				Expect(result.TraceIDs).NotTo(BeEmpty())

				return
			}

			Fail("no scenario named " + name)
		},
		Entry("GET", "get"),
		Entry("GET twice", "get-idempotent"),
		Entry("POST", "create"),
		Entry("PUT", "update-put"),
		Entry("PATCH", "update-patch"),
		Entry("DELETE", "delete"),
	)
})
