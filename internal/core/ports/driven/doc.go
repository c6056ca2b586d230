// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Fetcher: Retrieves raw bytes for a URL or local file
//   - Normaliser: Transforms raw documents into plain text
//   - NormaliserRegistry: Selects the normaliser for a MIME type
//   - PostProcessorPipeline: Splits documents into chunks
//   - EmbeddingService: Turns text into vectors
//   - CorpusStore: Persists and loads the corpus snapshot
//
// # Derived Interfaces
//
//   - VectorIndex: Similarity search over a loaded Corpus. Built by the
//     retrieval cache from whatever CorpusStore returns.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
