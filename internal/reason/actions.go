package reason

import (
	"strings"

	"github.com/cisohq/reasond/internal/retrieval"
)

// ChannelVoice is the channel that receives spoken-output actions.
const ChannelVoice = "voice"

// CraftActions maps the generated answer onto channel directives. Only the
// voice channel gets actions, and only for a non-empty answer. The system
// directive also advertises play/transfer/end_call; those remain an
// extension point for the voice gateway and are not synthesized here.
func CraftActions(channel, answer string) []Action {
	if channel == ChannelVoice && strings.TrimSpace(answer) != "" {
		return []Action{{Type: "say", Text: answer}}
	}
	return []Action{}
}

// Citations projects retrieved chunks onto response citations, one per
// chunk, preserving retrieval order.
func Citations(chunks []retrieval.Chunk) []Citation {
	citations := make([]Citation, 0, len(chunks))
	for _, c := range chunks {
		citations = append(citations, Citation{Title: c.Title(), URL: c.URL()})
	}
	return citations
}
