package reason

import (
	"fmt"
	"strings"

	"github.com/cisohq/reasond/internal/llm"
	"github.com/cisohq/reasond/internal/retrieval"
)

// systemDirective is the fixed system prompt for every reasoning turn.
const systemDirective = "You are CISO Copilot. Keep answers concise and grounded. " +
	"When channel=voice, return actions like say/play/transfer/end_call."

// BuildMessages assembles the completion input: the system directive
// followed by the user turn with its retrieved context. The template shape
// is constant; with no chunks the context section is simply empty.
func BuildMessages(utterance string, chunks []retrieval.Chunk) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemDirective},
		{Role: llm.RoleUser, Content: fmt.Sprintf("Question:\n%s\n\nContext:\n%s", utterance, formatContext(chunks))},
	}
}

// formatContext renders chunks as a numbered list in retrieval order, so the
// model can reference sources by rank.
func formatContext(chunks []retrieval.Chunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("[%d] %s", i+1, c.Text)
	}
	return strings.Join(parts, "\n\n")
}
