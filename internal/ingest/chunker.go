package ingest

import "strings"

// DefaultChunkTokens is the chunk size used when the config does not say.
const DefaultChunkTokens = 400

// SplitDocument splits document text into chunks that fit within a token
// limit, breaking at line boundaries. A single line longer than the limit
// becomes its own chunk rather than being cut mid-line.
func SplitDocument(content string, maxTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = DefaultChunkTokens
	}

	// Rough estimate: 1 token ~= 4 characters.
	maxChars := maxTokens * 4
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if len(content) <= maxChars {
		return []string{content}
	}

	lines := strings.Split(content, "\n")
	var chunks []string
	var current []string
	currentLen := 0

	for _, line := range lines {
		lineLen := len(line) + 1 // +1 for newline
		if currentLen+lineLen > maxChars && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = nil
			currentLen = 0
		}
		current = append(current, line)
		currentLen += lineLen
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}
