package reason

import (
	"strings"
	"testing"

	"github.com/cisohq/reasond/internal/llm"
	"github.com/cisohq/reasond/internal/retrieval"
)

func TestBuildMessagesShape(t *testing.T) {
	chunks := []retrieval.Chunk{
		{DocID: "a", N: 0, Text: "MFA required for all admins"},
		{DocID: "b", N: 3, Text: "Passwords rotate quarterly"},
	}

	messages := BuildMessages("What is our MFA policy?", chunks)
	if len(messages) != 2 {
		t.Fatalf("expected exactly 2 messages, got %d", len(messages))
	}
	if messages[0].Role != llm.RoleSystem {
		t.Errorf("first message must be the system directive, got role %q", messages[0].Role)
	}
	if messages[1].Role != llm.RoleUser {
		t.Errorf("second message must be the user turn, got role %q", messages[1].Role)
	}

	want := "Question:\nWhat is our MFA policy?\n\nContext:\n[1] MFA required for all admins\n\n[2] Passwords rotate quarterly"
	if messages[1].Content != want {
		t.Errorf("user message = %q, want %q", messages[1].Content, want)
	}
}

func TestBuildMessagesNoChunks(t *testing.T) {
	messages := BuildMessages("hello", nil)
	want := "Question:\nhello\n\nContext:\n"
	if messages[1].Content != want {
		t.Errorf("user message = %q, want %q", messages[1].Content, want)
	}
}

func TestSystemDirectiveIsConstant(t *testing.T) {
	a := BuildMessages("one", nil)[0].Content
	b := BuildMessages("two", []retrieval.Chunk{{Text: "ctx"}})[0].Content
	if a != b {
		t.Error("system directive must not vary across requests")
	}
	if !strings.Contains(a, "say/play/transfer/end_call") {
		t.Errorf("system directive missing voice action convention: %q", a)
	}
}
