package intake

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/estateplan/intake-agent/agent/contract"
	nodex "github.com/estateplan/intake-agent/agent/nodes"
	statex "github.com/estateplan/intake-agent/agent/state"
)

var (
	ErrInvalidPrompt  = nodex.ErrInvalidPrompt
	ErrInvalidSession = nodex.ErrInvalidSession
)

// Agent runs one intake turn at a time per session: merge incoming answers,
// ask the model, advance the questionnaire, persist.
type Agent struct {
	store     statex.Store
	completer contractx.Completer
	tools     []contractx.Tool

	locks       *statex.SessionLocks
	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(store statex.Store, completer contractx.Completer, tools []contractx.Tool) (*Agent, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if completer == nil {
		return nil, errors.New("completer is required")
	}

	a := &Agent{
		store:     store,
		completer: completer,
		tools:     tools,
		locks:     statex.NewSessionLocks(),
		now:       time.Now,
	}

	graphRunner, err := a.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	a.graphRunner = graphRunner

	return a, nil
}

// HandleMessage processes one conversational turn. Turns for the same session
// serialize on a per-session lock; different sessions run concurrently.
func (a *Agent) HandleMessage(ctx context.Context, req contractx.InvokeRequest) (contractx.AgentResponse, error) {
	unlock := a.locks.Acquire(req.SessionID)
	defer unlock()

	out, err := a.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: req.SessionID,
		Prompt:    req.Prompt,
		Answers:   req.Answers,
	})
	if err != nil {
		return contractx.AgentResponse{}, err
	}
	return out, nil
}
