package contract

import "context"

// Completer is the opaque language-model capability: prompt plus tool set in,
// assistant text out.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ToolLister fetches the full tool set available behind the gateway.
type ToolLister interface {
	ListTools(ctx context.Context) ([]Tool, error)
}
