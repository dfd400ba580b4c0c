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


package ai

import "errors"

var (
	// ErrRateLimited indicates the embedding backend rejected the request
	// due to rate limiting. The request may succeed if retried later.
	ErrRateLimited = errors.New("embedding backend rate limited")

	// ErrBackendUnavailable indicates the embedding backend could not be
	// reached or returned a server-side failure.
	ErrBackendUnavailable = errors.New("embedding backend unavailable")

	// ErrInvalidInput indicates the input text cannot be embedded
	// (for example, an empty string).
	ErrInvalidInput = errors.New("invalid embedding input")

	// ErrDimensionMismatch indicates the backend returned a vector whose
	// length differs from the embedder's configured dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Retryable reports whether err is a transient embedding failure worth
// retrying. Invalid input is never retryable.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrBackendUnavailable)
}
