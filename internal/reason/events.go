package reason

import (
	"fmt"
	"strings"
)

// NormalizeEvents reduces a heterogeneous event list to a single plain-text
// utterance. Text-bearing events contribute their trimmed text, DTMF events
// a bracketed marker, in input order, one line each. The result is "" when
// no event contributes anything; callers fall back to the request's text
// field in that case.
func NormalizeEvents(events []Event) string {
	var lines []string
	for _, ev := range events {
		switch ev.Type {
		case "user_text", "stt_final":
			if txt := strings.TrimSpace(ev.Text); txt != "" {
				lines = append(lines, txt)
			}
		case "dtmf":
			if ev.Digits != "" {
				lines = append(lines, fmt.Sprintf("[DTMF:%s]", ev.Digits))
			}
		}
	}
	return strings.Join(lines, "\n")
}
