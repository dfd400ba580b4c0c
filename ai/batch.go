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
	"context"
	"time"
)

// BatchResult is the per-item outcome of a batch embedding request.
// Exactly one of Vector and Err is set.
type BatchResult struct {
	Vector []float32
	Err    error
}

// BatchOptions tunes EmbedEach retry behavior.
type BatchOptions struct {
	// MaxAttempts is the total number of tries per batch, including the
	// first. Default: 3
	MaxAttempts int

	// InitialBackoff is the delay before the first retry. It doubles on
	// every subsequent retry. Default: 500ms
	InitialBackoff time.Duration
}

func (o *BatchOptions) normalize() {
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 3
	}
	if o.InitialBackoff <= 0 {
		o.InitialBackoff = 500 * time.Millisecond
	}
}

// EmbedEach embeds texts as a batch and reports a per-item result.
// A failure embedding one text never discards the vectors of the others:
// when the batch call fails with a retryable error it is retried with
// exponential backoff, and if retries are exhausted each text is attempted
// individually so only the genuinely failing items carry an error.
//
// The returned slice always has len(texts) entries, index-aligned with the
// input.
func EmbedEach(ctx context.Context, embedder Embedder, texts []string, opts BatchOptions) []BatchResult {
	opts.normalize()

	results := make([]BatchResult, len(texts))
	if len(texts) == 0 {
		return results
	}

	vectors, err := embedBatchWithRetry(ctx, embedder, texts, opts)
	if err == nil && len(vectors) == len(texts) {
		for i := range texts {
			results[i] = BatchResult{Vector: vectors[i]}
		}
		return results
	}

	// Batch failed as a whole. Fall back to per-item calls so one bad
	// input cannot poison its neighbors.
	for i, text := range texts {
		if ctx.Err() != nil {
			results[i] = BatchResult{Err: ctx.Err()}
			continue
		}
		vec, itemErr := embedOneWithRetry(ctx, embedder, text, opts)
		if itemErr != nil {
			results[i] = BatchResult{Err: itemErr}
			continue
		}
		results[i] = BatchResult{Vector: vec}
	}
	return results
}

func embedBatchWithRetry(ctx context.Context, embedder Embedder, texts []string, opts BatchOptions) ([][]float32, error) {
	var lastErr error
	backoff := opts.InitialBackoff
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= 2
		}
		vectors, err := embedder.EmbedTexts(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		if !Retryable(err) {
			break
		}
	}
	return nil, lastErr
}

func embedOneWithRetry(ctx context.Context, embedder Embedder, text string, opts BatchOptions) ([]float32, error) {
	var lastErr error
	backoff := opts.InitialBackoff
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= 2
		}
		vec, err := embedder.EmbedText(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err
		if !Retryable(err) {
			break
		}
	}
	return nil, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
