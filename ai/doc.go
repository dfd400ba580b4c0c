// Package ai defines the embedding abstraction used to map paper text and
// queries into vector space.
//
// An Embedder turns text into fixed-dimension float32 vectors. The package
// is backend-agnostic: ai/openai talks to OpenAI-compatible HTTP APIs,
// ai/googleai talks to the Gemini embedding API, and ai/mock provides a
// deterministic in-process embedder for tests and demos.
//
// All vectors produced by one Embedder share a single (ModelID, Dimension)
// pair. Vectors from different models are never comparable and the storage
// layer keeps them in separate namespaces.
package ai
