package domain

// DefaultTopK is the number of passages returned when the caller gives none.
const DefaultTopK = 5

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// Query is the free-text question.
	Query string

	// K is the maximum number of results.
	K int
}

// SearchResult is one ranked passage.
type SearchResult struct {
	// Score is the cosine similarity to the query, in [-1, 1].
	Score float64 `json:"score"`

	// Source is the URL or file path of the passage.
	Source string `json:"source"`

	// Text is the passage itself.
	Text string `json:"text"`
}
