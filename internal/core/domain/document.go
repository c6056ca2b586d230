package domain

// Document is the normalised plain text of one source,
// before it is split into chunks.
type Document struct {
	// Source is the URL or file path.
	Source string

	// URI is the final location after redirects.
	URI string

	// Title is the human-readable title, if the format carries one.
	Title string

	// Content is the full normalised text.
	Content string
}
