// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import "errors"

var (
	// ErrInvalidQuery indicates a query that fails validation (blank text
	// or non-positive TopK). Detected before any embedding or index work.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmbeddingFailed indicates the query text could not be embedded.
	ErrEmbeddingFailed = errors.New("query embedding failed")

	// ErrIndexUnavailable indicates the vector index could not serve the query.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrPaperRepositoryRequired is returned when a paper repository is not provided.
	ErrPaperRepositoryRequired = errors.New("paper repository required")

	// ErrVectorIndexRequired is returned when a vector index is not provided.
	ErrVectorIndexRequired = errors.New("vector index required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
