package domain

// RawDocument represents opaque bytes fetched from a source.
// It is the connector's output before normalisation.
type RawDocument struct {
	// Source is the location that was requested.
	Source string

	// URI is the final location (after redirects for URLs).
	URI string

	// MIMEType is the content type without parameters (e.g. "text/html").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}
