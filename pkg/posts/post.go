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

// Package posts models the "posts" resource served by the fixture service.
package posts

import (
	"fmt"
)

// Post is a single blog post as served by the fixture service.
type Post struct {
	UserID int    `json:"userId" yaml:"userId"`
	ID     int    `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Body   string `json:"body" yaml:"body"`
}

// Field names, as they appear on the wire.
const (
	FieldUserID = "userId"
	FieldID     = "id"
	FieldTitle  = "title"
	FieldBody   = "body"
)

// Equal reports whether all fields of both posts match.
func (p Post) Equal(o Post) bool {
	return p == o
}

// Fields returns the post's fields keyed by wire name.
func (p Post) Fields() map[string]any {
	return map[string]any{
		FieldUserID: p.UserID,
		FieldID:     p.ID,
		FieldTitle:  p.Title,
		FieldBody:   p.Body,
	}
}

// FieldNames lists the wire names of all Post fields in declaration order.
func FieldNames() []string {
	return []string{FieldUserID, FieldID, FieldTitle, FieldBody}
}

func (p Post) String() string {
	return fmt.Sprintf("post %d (user %d): %q", p.ID, p.UserID, p.Title)
}
