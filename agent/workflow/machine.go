package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSection signals a session whose section cursor no longer matches
// any defined section. Callers treat it as a recoverable anomaly: log it and
// skip the transition for this turn.
var ErrUnknownSection = errors.New("unknown questionnaire section")

// Advance inspects the assistant's latest reply and moves the questionnaire
// forward by at most one section. If any keyword of the current section
// appears in the text (first declared keyword wins), the current section is
// marked completed and the cursor moves to its successor, which becomes
// in_progress. The terminal section has no keywords and never transitions.
func Advance(progress ProgressRecord, current string, text string) (string, bool, error) {
	sec, ok := LookupSection(current)
	if !ok {
		return current, false, fmt.Errorf("%w: %q", ErrUnknownSection, current)
	}

	lowered := strings.ToLower(text)
	for _, kw := range sec.Keywords {
		if !strings.Contains(lowered, kw) {
			continue
		}
		progress.MarkCompleted(sec.Name)
		if sec.Next == "" {
			return current, false, nil
		}
		progress.MarkInProgress(sec.Next)
		return sec.Next, true, nil
	}
	return current, false, nil
}
