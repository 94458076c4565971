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

package posts

import (
	"strconv"
)

// CollectionSegment is the path segment of the posts collection.
const CollectionSegment = "posts"

// Endpoints contains all posts endpoint patterns as path segments.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Collection is the /posts resource.
func (e *Endpoints) Collection() []string {
	return []string{CollectionSegment}
}

// Member is the /posts/{id} resource.
func (e *Endpoints) Member(id int) []string {
	return []string{CollectionSegment, strconv.Itoa(id)}
}
