package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedEmbedder lets tests control batch and single-call outcomes.
type scriptedEmbedder struct {
	batchFunc  func(texts []string) ([][]float32, error)
	singleFunc func(text string) ([]float32, error)

	batchCalls  int
	singleCalls int
}

func (s *scriptedEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	s.singleCalls++
	return s.singleFunc(text)
}

func (s *scriptedEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	s.batchCalls++
	return s.batchFunc(texts)
}

func (s *scriptedEmbedder) ModelID() string { return "scripted" }
func (s *scriptedEmbedder) Dimension() int  { return 3 }

func fastOpts() BatchOptions {
	return BatchOptions{MaxAttempts: 2, InitialBackoff: time.Millisecond}
}

func TestEmbedEach_AllSucceed(t *testing.T) {
	emb := &scriptedEmbedder{
		batchFunc: func(texts []string) ([][]float32, error) {
			out := make([][]float32, len(texts))
			for i := range texts {
				out[i] = []float32{float32(i), 0, 0}
			}
			return out, nil
		},
	}

	results := EmbedEach(context.Background(), emb, []string{"a", "b", "c"}, fastOpts())
	require.Len(t, results, 3)
	for i, r := range results {
		assert.NoError(t, r.Err)
		assert.Equal(t, []float32{float32(i), 0, 0}, r.Vector)
	}
	assert.Equal(t, 1, emb.batchCalls)
	assert.Equal(t, 0, emb.singleCalls, "no per-item fallback when the batch succeeds")
}

func TestEmbedEach_PartialFailureIsolated(t *testing.T) {
	emb := &scriptedEmbedder{
		batchFunc: func(texts []string) ([][]float32, error) {
			return nil, fmt.Errorf("batch rejected: %w", ErrInvalidInput)
		},
		singleFunc: func(text string) ([]float32, error) {
			if text == "bad" {
				return nil, ErrInvalidInput
			}
			return []float32{1, 2, 3}, nil
		},
	}

	results := EmbedEach(context.Background(), emb, []string{"good", "bad", "also good"}, fastOpts())
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, []float32{1, 2, 3}, results[0].Vector)

	assert.ErrorIs(t, results[1].Err, ErrInvalidInput)
	assert.Nil(t, results[1].Vector)

	assert.NoError(t, results[2].Err, "a failing item must not poison its neighbors")
}

func TestEmbedEach_RetriesRetryable(t *testing.T) {
	attempts := 0
	emb := &scriptedEmbedder{
		batchFunc: func(texts []string) ([][]float32, error) {
			attempts++
			if attempts == 1 {
				return nil, ErrRateLimited
			}
			return [][]float32{{1, 0, 0}}, nil
		},
	}

	results := EmbedEach(context.Background(), emb, []string{"x"}, fastOpts())
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 2, attempts)
}

func TestEmbedEach_NonRetryableNotRetried(t *testing.T) {
	emb := &scriptedEmbedder{
		batchFunc: func(texts []string) ([][]float32, error) {
			return nil, ErrInvalidInput
		},
		singleFunc: func(text string) ([]float32, error) {
			return nil, ErrInvalidInput
		},
	}

	EmbedEach(context.Background(), emb, []string{"x"}, fastOpts())
	assert.Equal(t, 1, emb.batchCalls, "invalid input must not be retried at batch level")
	assert.Equal(t, 1, emb.singleCalls, "invalid input must not be retried per item")
}

func TestEmbedEach_EmptyInput(t *testing.T) {
	emb := &scriptedEmbedder{}
	results := EmbedEach(context.Background(), emb, nil, fastOpts())
	assert.Empty(t, results)
	assert.Equal(t, 0, emb.batchCalls)
}

func TestEmbedEach_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	emb := &scriptedEmbedder{
		batchFunc: func(texts []string) ([][]float32, error) {
			return nil, ErrBackendUnavailable
		},
	}

	results := EmbedEach(ctx, emb, []string{"a", "b"}, fastOpts())
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, errors.Is(r.Err, context.Canceled) || Retryable(r.Err))
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(ErrRateLimited))
	assert.True(t, Retryable(fmt.Errorf("wrapped: %w", ErrBackendUnavailable)))
	assert.False(t, Retryable(ErrInvalidInput))
	assert.False(t, Retryable(errors.New("other")))
}
