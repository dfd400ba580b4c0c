// Package googleai implements ai.Embedder against the Gemini embedding API.
package googleai
