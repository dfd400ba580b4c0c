// Package openai implements ai.Embedder against OpenAI-compatible embedding
// APIs (OpenAI itself, Ollama, LocalAI, vLLM).
package openai
