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

package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"k8s.io/utils/ptr"

	"github.com/unikorn-cloud/posts-contract/pkg/posts"
)

// DefaultUserID owns every post built without an explicit user.
const DefaultUserID = 1

func generateRandomName(prefix string) string {
	bytes := make([]byte, 4) // 8 hex characters
	_, _ = rand.Read(bytes)

	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(bytes))
}

func GenerateTestID() string {
	return generateRandomName("test")
}

// PostPayloadBuilder builds post payloads for testing.
type PostPayloadBuilder struct {
	post posts.Post
}

// NewPostPayload creates a new post payload builder with a unique title.
func NewPostPayload() *PostPayloadBuilder {
	return &PostPayloadBuilder{
		post: posts.Post{
			UserID: DefaultUserID,
			Title:  GenerateTestID(),
			Body:   "created by test automation",
		},
	}
}

// WithUserID sets the owning user.
func (b *PostPayloadBuilder) WithUserID(userID int) *PostPayloadBuilder {
	b.post.UserID = userID
	return b
}

// WithID sets the post ID, required when replacing an existing post.
func (b *PostPayloadBuilder) WithID(id int) *PostPayloadBuilder {
	b.post.ID = id
	return b
}

// WithTitle sets the title.
func (b *PostPayloadBuilder) WithTitle(title string) *PostPayloadBuilder {
	b.post.Title = title
	return b
}

// WithBody sets the body text.
func (b *PostPayloadBuilder) WithBody(body string) *PostPayloadBuilder {
	b.post.Body = body
	return b
}

// Build returns the post.
func (b *PostPayloadBuilder) Build() posts.Post {
	return b.post
}

// BuildPtr returns a pointer to a copy of the post, for use as an expected body.
func (b *PostPayloadBuilder) BuildPtr() *posts.Post {
	return ptr.To(b.post)
}
