package state

import (
	"fmt"
	"time"

	schemax "github.com/estateplan/intake-agent/agent/schema"
	workflowx "github.com/estateplan/intake-agent/agent/workflow"
)

// SessionState is the source of truth for one intake conversation: the
// structured answers collected so far, per-section progress, and the cursor
// into the questionnaire.
type SessionState struct {
	SessionID      string                   `json:"session_id"`
	Answers        *schemax.AnswerRecord    `json:"answers"`
	Progress       workflowx.ProgressRecord `json:"progress"`
	CurrentSection string                   `json:"current_section"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// NewSessionState builds a fresh session: answers at schema defaults, every
// section not_started except the first which is already in_progress, cursor
// on the first section.
func NewSessionState(sessionID string, now time.Time) *SessionState {
	progress := workflowx.NewProgressRecord()
	progress.MarkInProgress(workflowx.FirstSection())
	return &SessionState{
		SessionID:      sessionID,
		Answers:        schemax.NewAnswerRecord(sessionID),
		Progress:       progress,
		CurrentSection: workflowx.FirstSection(),
		UpdatedAt:      now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// EnsureInitialized backfills pieces a stored payload may lack, e.g. after a
// schema or section change between deployments.
func (s *SessionState) EnsureInitialized() {
	if s.Answers == nil {
		s.Answers = schemax.NewAnswerRecord(s.SessionID)
	}
	if s.Progress == nil {
		s.Progress = workflowx.NewProgressRecord()
	}
	for _, name := range workflowx.SectionNames() {
		if _, ok := s.Progress[name]; !ok {
			s.Progress[name] = workflowx.StatusNotStarted
		}
	}
	if s.CurrentSection == "" {
		s.CurrentSection = workflowx.FirstSection()
	}
}

// Validate flags a section cursor that no longer matches the questionnaire.
// The condition is recoverable; callers decide whether to skip transitions
// or reject the payload.
func (s *SessionState) Validate() error {
	if _, ok := workflowx.LookupSection(s.CurrentSection); !ok {
		return fmt.Errorf("%w: current_section=%q", workflowx.ErrUnknownSection, s.CurrentSection)
	}
	return nil
}

// Clone deep-copies the state so store callers never share an instance.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	return &SessionState{
		SessionID:      s.SessionID,
		Answers:        s.Answers.Clone(),
		Progress:       s.Progress.Clone(),
		CurrentSection: s.CurrentSection,
		UpdatedAt:      s.UpdatedAt,
	}
}
