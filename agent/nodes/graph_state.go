package intakenode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/estateplan/intake-agent/agent/contract"
	statex "github.com/estateplan/intake-agent/agent/state"
)

var (
	ErrInvalidPrompt  = errors.New("prompt is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Prompt    string
	Answers   map[string]any
}

type GraphOutput = contractx.AgentResponse

type GraphState struct {
	SessionID string
	Prompt    string
	Answers   map[string]any
	Now       time.Time

	Session *statex.SessionState

	Reply    string
	Advanced bool
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, ErrInvalidPrompt
	}

	return &GraphState{
		SessionID: sessionID,
		Prompt:    prompt,
		Answers:   in.Answers,
		Now:       nowFn().UTC(),
	}, nil
}
