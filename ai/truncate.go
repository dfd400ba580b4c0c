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

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// truncationEncoding is the tokenizer used to measure input length.
// cl100k_base matches the OpenAI embedding model family; for other backends
// it is an approximation, which is acceptable because truncation only needs
// to be deterministic, not exact.
const truncationEncoding = "cl100k_base"

// Truncator deterministically head-truncates text to a token budget.
// The zero budget means no truncation. Truncator is safe for concurrent use.
type Truncator struct {
	encoding  *tiktoken.Tiktoken
	maxTokens int
}

// NewTruncator creates a Truncator with the given token budget.
func NewTruncator(maxTokens int) (*Truncator, error) {
	enc, err := tiktoken.GetEncoding(truncationEncoding)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", truncationEncoding, err)
	}
	return &Truncator{encoding: enc, maxTokens: maxTokens}, nil
}

// Truncate returns text cut to at most the configured number of tokens,
// keeping the head. Two equal inputs always truncate to the same output.
func (t *Truncator) Truncate(text string) string {
	if t.maxTokens <= 0 {
		return text
	}
	tokens := t.encoding.Encode(text, nil, nil)
	if len(tokens) <= t.maxTokens {
		return text
	}
	return t.encoding.Decode(tokens[:t.maxTokens])
}

// TokenCount returns the number of tokens in text under the truncation
// encoding.
func (t *Truncator) TokenCount(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}
