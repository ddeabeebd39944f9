// Package retrieval provides tenant-scoped vector similarity search over
// knowledge-base chunks. Retrieval is best-effort enrichment: every failure
// degrades to an empty result instead of failing the request.
package retrieval

// Chunk is a unit of indexed document text with its position within the
// source document. Meta may carry presentation fields such as title and url.
type Chunk struct {
	DocID string            `json:"doc_id"`
	N     int               `json:"n"`
	Text  string            `json:"text"`
	Meta  map[string]string `json:"meta,omitempty"`
}

// Title returns the chunk's display title, defaulting to "Doc".
func (c Chunk) Title() string {
	if t := c.Meta["title"]; t != "" {
		return t
	}
	return "Doc"
}

// URL returns the chunk's source URL, or "" when unknown.
func (c Chunk) URL() string {
	return c.Meta["url"]
}
