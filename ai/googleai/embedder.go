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


package googleai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/paperlens/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
	"golang.org/x/time/rate"
)

// Embedder implements ai.Embedder using the Gemini embedding API.
type Embedder struct {
	embedder  embeddings.Embedder
	truncator *ai.Truncator
	limiter   *rate.Limiter
	config    *ai.Config
	logger    *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates a Gemini-backed embedder using the provided
// configuration. The Host field is ignored; Gemini has a fixed endpoint.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(ctx context.Context, config *ai.Config) (ai.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.APIKey == "" || config.APIKey == "none" {
		return nil, errors.New("googleai: APIKey is required")
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultEmbeddingModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	truncator, err := ai.NewTruncator(config.MaxInputTokens)
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst)
	}

	return &Embedder{
		embedder:  embedder,
		truncator: truncator,
		limiter:   limiter,
		config:    config,
		logger:    slog.Default().With("component", "googleai-embedder"),
	}, nil
}

// ModelID identifies the configured embedding model.
func (e *Embedder) ModelID() string {
	return e.config.Model
}

// Dimension is the configured vector length.
func (e *Embedder) Dimension() int {
	return e.config.Dimension
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ai.ErrInvalidInput
	}
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, ai.ErrInvalidInput
		}
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	truncated := make([]string, len(texts))
	for i, text := range texts {
		truncated[i] = e.truncator.Truncate(text)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.config.RequestTimeout)
	defer cancel()

	e.logger.Debug("generating embeddings", "count", len(truncated))
	vectors, err := e.embedder.EmbedDocuments(callCtx, truncated)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(truncated), "err", err)
		return nil, classifyError(err)
	}
	if len(vectors) != len(truncated) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ai.ErrBackendUnavailable, len(vectors), len(truncated))
	}
	for _, vec := range vectors {
		if len(vec) != e.config.Dimension {
			return nil, fmt.Errorf("%w: model %s returned %d, want %d",
				ai.ErrDimensionMismatch, e.config.Model, len(vec), e.config.Dimension)
		}
	}
	return vectors, nil
}

func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "quota") || strings.Contains(msg, "429"):
		return fmt.Errorf("%w: %v", ai.ErrRateLimited, err)
	case strings.Contains(msg, "unavailable") || strings.Contains(msg, "deadline") || strings.Contains(msg, "503"):
		return fmt.Errorf("%w: %v", ai.ErrBackendUnavailable, err)
	default:
		return err
	}
}
