// Package mock provides a deterministic in-process ai.Embedder for tests
// and offline demos. No network access is required.
package mock
