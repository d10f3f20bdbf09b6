package intakenode

import (
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/estateplan/intake-agent/agent/contract"
)

// MergeAnswers folds the caller-supplied answers into the session record.
// Keys the schema does not know are dropped, not rejected: the turn proceeds
// with whatever did match.
func MergeAnswers(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	if len(in.Answers) == 0 {
		return in, nil
	}

	ignored := in.Session.Answers.Merge(in.Answers)
	if len(ignored) > 0 {
		log.Debug().
			Str("session_id", in.SessionID).
			Strs("ignored_keys", ignored).
			Msg("answers contained keys outside the intake schema")
	}
	return in, nil
}
