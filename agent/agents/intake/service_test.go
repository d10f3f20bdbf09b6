package intake

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/estateplan/intake-agent/agent/contract"
	statex "github.com/estateplan/intake-agent/agent/state"
	workflowx "github.com/estateplan/intake-agent/agent/workflow"
)

type fakeStore struct {
	loadState *statex.SessionState
	loadErr   error
	saveErr   error
	saved     []*statex.SessionState
}

func (f *fakeStore) Load(ctx context.Context, sessionID string) (*statex.SessionState, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.loadState == nil {
		return nil, statex.ErrStateNotFound
	}
	return f.loadState.Clone(), nil
}

func (f *fakeStore) Save(ctx context.Context, st *statex.SessionState) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, st.Clone())
	f.loadState = st.Clone()
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, sessionID string) error {
	f.loadState = nil
	return nil
}

type fakeCompleter struct {
	replies  []string
	err      error
	calls    int
	lastReqs []contractx.CompletionRequest
}

func (f *fakeCompleter) Complete(ctx context.Context, req contractx.CompletionRequest) (string, error) {
	f.calls++
	f.lastReqs = append(f.lastReqs, req)
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls - 1
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	return f.replies[idx], nil
}

func newTestAgent(t *testing.T, store statex.Store, completer contractx.Completer, tools []contractx.Tool) *Agent {
	t.Helper()
	a, err := New(store, completer, tools)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestHandleMessageInvalidInput(t *testing.T) {
	t.Parallel()

	a := newTestAgent(t, &fakeStore{}, &fakeCompleter{replies: []string{"hi"}}, nil)

	_, err := a.HandleMessage(context.Background(), contractx.InvokeRequest{SessionID: "   ", Prompt: "hello"})
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}

	_, err = a.HandleMessage(context.Background(), contractx.InvokeRequest{SessionID: "s1", Prompt: "   "})
	if !errors.Is(err, ErrInvalidPrompt) {
		t.Fatalf("expected ErrInvalidPrompt, got %v", err)
	}
}

func TestHandleMessageFullTurn(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	completer := &fakeCompleter{
		replies: []string{"Thanks! Now, what is your marital status?"},
	}
	tools := []contractx.Tool{{Name: "lookup_statute"}}

	a := newTestAgent(t, store, completer, tools)

	resp, err := a.HandleMessage(context.Background(), contractx.InvokeRequest{
		SessionID: "session-1",
		Prompt:    "My name is Jane Doe",
		Answers:   map[string]any{"client.fullName": "Jane Doe", "mystery": 1},
	})
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if resp.Status != contractx.StatusSuccess {
		t.Fatalf("unexpected status: %q", resp.Status)
	}
	if resp.Message != "Thanks! Now, what is your marital status?" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if got := resp.Answers["client.fullName"]; got != "Jane Doe" {
		t.Fatalf("merged answer not in payload, got %v", got)
	}
	if _, ok := resp.Answers["mystery"]; ok {
		t.Fatal("unknown key must not leak into the response payload")
	}

	// "marital" in the reply completes the first section.
	if resp.Progress.CurrentSection != workflowx.SectionMaritalStatus {
		t.Fatalf("expected cursor on %s, got %s", workflowx.SectionMaritalStatus, resp.Progress.CurrentSection)
	}
	if len(resp.Progress.CompletedSections) != 1 || resp.Progress.CompletedSections[0] != workflowx.SectionClientInformation {
		t.Fatalf("unexpected completed sections: %v", resp.Progress.CompletedSections)
	}
	if resp.Progress.PercentComplete <= 0 {
		t.Fatalf("expected progress above zero, got %v", resp.Progress.PercentComplete)
	}

	if completer.calls != 1 {
		t.Fatalf("expected one completion, got %d", completer.calls)
	}
	req := completer.lastReqs[0]
	if len(req.Tools) != 1 || req.Tools[0].Name != "lookup_statute" {
		t.Fatalf("tools were not forwarded to the completer: %+v", req.Tools)
	}
	if req.SystemPrompt == "" {
		t.Fatal("system prompt is empty")
	}
	if req.SessionState["client.fullName"] != "Jane Doe" {
		t.Fatal("merged answers must be visible to the model")
	}

	if len(store.saved) != 2 { // create + end-of-turn write-back
		t.Fatalf("expected two saves, got %d", len(store.saved))
	}
	final := store.saved[len(store.saved)-1]
	if final.CurrentSection != workflowx.SectionMaritalStatus {
		t.Fatalf("persisted cursor = %s", final.CurrentSection)
	}
}

func TestHandleMessageNoKeywordKeepsSection(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	completer := &fakeCompleter{replies: []string{"Could you spell that for me?"}}

	a := newTestAgent(t, store, completer, nil)

	resp, err := a.HandleMessage(context.Background(), contractx.InvokeRequest{
		SessionID: "session-2",
		Prompt:    "It's Jane",
	})
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if resp.Progress.CurrentSection != workflowx.SectionClientInformation {
		t.Fatalf("cursor moved without a keyword: %s", resp.Progress.CurrentSection)
	}
	if len(resp.Progress.CompletedSections) != 0 {
		t.Fatalf("no section should be completed, got %v", resp.Progress.CompletedSections)
	}
}

func TestHandleMessageStatePersistsAcrossTurns(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	completer := &fakeCompleter{
		replies: []string{
			"Got it. Are you married or single?",
			"Do you have any children or other dependents?",
		},
	}

	a := newTestAgent(t, store, completer, nil)

	first, err := a.HandleMessage(context.Background(), contractx.InvokeRequest{
		SessionID: "session-3",
		Prompt:    "I'm Jane Doe",
		Answers:   map[string]any{"full_name": "Jane Doe"},
	})
	if err != nil {
		t.Fatalf("first turn error = %v", err)
	}
	if first.Progress.CurrentSection != workflowx.SectionMaritalStatus {
		t.Fatalf("first turn cursor = %s", first.Progress.CurrentSection)
	}

	second, err := a.HandleMessage(context.Background(), contractx.InvokeRequest{
		SessionID: "session-3",
		Prompt:    "Married, to John",
		Answers:   map[string]any{"marital_status": "married"},
	})
	if err != nil {
		t.Fatalf("second turn error = %v", err)
	}
	if second.Answers["client.fullName"] != "Jane Doe" {
		t.Fatal("first-turn answer lost between turns")
	}
	if second.Answers["client.maritalStatus"] != "married" {
		t.Fatalf("second-turn answer missing: %v", second.Answers["client.maritalStatus"])
	}
	if second.Progress.CurrentSection != workflowx.SectionFamilyInformation {
		t.Fatalf("second turn cursor = %s", second.Progress.CurrentSection)
	}
	if len(second.Progress.CompletedSections) != 2 {
		t.Fatalf("unexpected completed sections: %v", second.Progress.CompletedSections)
	}
}

func TestHandleMessageCompleterErrorPropagates(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	completer := &fakeCompleter{err: errors.New("model down")}

	a := newTestAgent(t, store, completer, nil)

	_, err := a.HandleMessage(context.Background(), contractx.InvokeRequest{
		SessionID: "session-4",
		Prompt:    "hello",
		Answers:   map[string]any{"full_name": "Jane Doe"},
	})
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}

	// The failed turn's merge must not be written back.
	if len(store.saved) != 1 {
		t.Fatalf("expected only the initial create save, got %d", len(store.saved))
	}
	if got := store.saved[0].Answers.Externalize()["client.fullName"]; got != "" {
		t.Fatalf("merge leaked into persisted state: %v", got)
	}
}

func TestHandleMessageSaveErrorPropagates(t *testing.T) {
	t.Parallel()

	store := &fakeStore{saveErr: errors.New("save failed")}
	completer := &fakeCompleter{replies: []string{"ok"}}

	a := newTestAgent(t, store, completer, nil)

	_, err := a.HandleMessage(context.Background(), contractx.InvokeRequest{
		SessionID: "session-5",
		Prompt:    "hello",
	})
	if !errors.Is(err, store.saveErr) {
		t.Fatalf("expected save error, got %v", err)
	}
}
