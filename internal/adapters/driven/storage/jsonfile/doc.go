// Package jsonfile persists the corpus snapshot as a single JSON file.
//
// Format:
//
//	{"version": 1, "docs": [{"source": "...", "text": "...", "embedding": [...]}]}
//
// The file is UTF-8 with non-ASCII text written literally. Saves replace
// the file atomically via a temp file in the same directory and a rename.
// Loads validate the schema and unit-normalise every embedding.
package jsonfile
