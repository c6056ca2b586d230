// Package connectors fetches raw source content for ingestion. Each
// sub-package knows one kind of source (web pages, local files); the
// Dispatcher routes a domain.Source to the right one.
package connectors
