// Package reason implements the retrieval-augmented reasoning pipeline:
// normalize the inbound turn, retrieve grounding context, complete, and
// shape the channel-specific response.
package reason

// Event is one channel event within an inbound turn. Types "user_text" and
// "stt_final" carry text; "dtmf" carries digits. Unknown types are ignored
// so older gateways can keep sending newer event kinds.
type Event struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Digits string `json:"digits,omitempty"`
}

// Request is the inbound payload of a reasoning turn. session_id is opaque
// and echoed back untouched.
type Request struct {
	Channel   string  `json:"channel"`
	Org       string  `json:"org"`
	SessionID string  `json:"session_id"`
	Events    []Event `json:"events"`
	Text      string  `json:"text"`
}

// Action is a structured instruction for a voice-channel front end.
type Action struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// AssistantMessage is one generated message in the response.
type AssistantMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Citation points at the source document behind one retrieved chunk.
type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Response is the assembled result of one reasoning turn.
type Response struct {
	SessionID string             `json:"session_id"`
	Messages  []AssistantMessage `json:"messages"`
	Actions   []Action           `json:"actions"`
	Citations []Citation         `json:"citations"`
}
