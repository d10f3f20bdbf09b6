package intakenode

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/estateplan/intake-agent/agent/contract"
	workflowx "github.com/estateplan/intake-agent/agent/workflow"
)

// AdvanceSection moves the questionnaire cursor when the assistant's reply
// signals the next topic. A cursor pointing at a section the questionnaire no
// longer has is logged and left alone; the turn still succeeds.
func AdvanceSection(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	next, advanced, err := workflowx.Advance(in.Session.Progress, in.Session.CurrentSection, in.Reply)
	if err != nil {
		if errors.Is(err, workflowx.ErrUnknownSection) {
			log.Warn().
				Str("session_id", in.SessionID).
				Str("current_section", in.Session.CurrentSection).
				Msg("section cursor not in questionnaire, skipping transition")
			return in, nil
		}
		return nil, err
	}

	if advanced {
		in.Session.CurrentSection = next
		in.Advanced = true
	}
	in.Session.Touch(in.Now)
	return in, nil
}
