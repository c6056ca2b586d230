// Package domain defines the core entities of the knowledge retrieval engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Source: A URL or local file to ingest
//   - RawDocument: Opaque bytes fetched from a source
//   - Document: Normalised plain text of one source
//   - Chunk: A bounded text window with its embedding and provenance
//   - Corpus: The loaded, unit-normalised snapshot used for search
//   - SearchResult: One ranked passage returned to callers
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
