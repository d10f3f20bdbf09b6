package llm

import (
	"testing"

	contractx "github.com/estateplan/intake-agent/agent/contract"
)

func TestNewChatCompleterRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewChatCompleter(Config{Model: "gpt-4o-mini"})
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestNewChatCompleterRequiresModel(t *testing.T) {
	t.Parallel()

	_, err := NewChatCompleter(Config{APIKey: "sk-test"})
	if err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestToolParamsConversion(t *testing.T) {
	t.Parallel()

	tools := []contractx.Tool{
		{
			Name:        "lookup_statute",
			Description: "Look up a statute by citation",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"citation": map[string]any{"type": "string"},
				},
			},
		},
		{Name: "bare_tool"},
	}

	params := toolParams(tools)
	if len(params) != 2 {
		t.Fatalf("got %d tool params, want 2", len(params))
	}
	first := params[0].OfFunction
	if first == nil {
		t.Fatal("expected a function tool")
	}
	if first.Function.Name != "lookup_statute" {
		t.Fatalf("got tool name %q", first.Function.Name)
	}
	if len(first.Function.Parameters) == 0 {
		t.Fatal("expected parameters to carry the input schema")
	}
}

func TestToolParamsEmpty(t *testing.T) {
	t.Parallel()

	if got := toolParams(nil); got != nil {
		t.Fatalf("expected nil for empty tool list, got %v", got)
	}
}
