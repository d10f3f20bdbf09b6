package intakenode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/estateplan/intake-agent/agent/contract"
	promptx "github.com/estateplan/intake-agent/agent/prompt"
)

func InvokeModel(
	ctx context.Context,
	in *GraphState,
	completer contractx.Completer,
	tools []contractx.Tool,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	reply, err := completer.Complete(ctx, contractx.CompletionRequest{
		SystemPrompt: promptx.ForSection(in.Session.CurrentSection),
		UserMessage:  in.Prompt,
		SessionState: in.Session.Answers.Externalize(),
		Tools:        tools,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, fmt.Errorf("%w: model returned empty message", contractx.ErrModelInvoke)
	}
	in.Reply = reply
	return in, nil
}
