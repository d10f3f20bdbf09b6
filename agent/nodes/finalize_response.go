package intakenode

import (
	"fmt"

	contractx "github.com/estateplan/intake-agent/agent/contract"
)

func FinalizeResponse(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Session == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	return GraphOutput{
		Status:  contractx.StatusSuccess,
		Message: in.Reply,
		Answers: in.Session.Answers.Externalize(),
		Progress: contractx.ProgressInfo{
			CurrentSection:    in.Session.CurrentSection,
			PercentComplete:   in.Session.Progress.PercentComplete(),
			CompletedSections: in.Session.Progress.CompletedSections(),
		},
		Metadata: map[string]any{
			"session_id":       in.SessionID,
			"section_advanced": in.Advanced,
			"updated_at":       in.Session.UpdatedAt,
		},
	}, nil
}
