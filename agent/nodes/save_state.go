package intakenode

import (
	"context"
	"fmt"

	contractx "github.com/estateplan/intake-agent/agent/contract"
	statex "github.com/estateplan/intake-agent/agent/state"
)

// SaveState writes the session back. It runs only after merge, model, and
// transition all succeeded, so a failed turn never leaves a half-updated row.
func SaveState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	if err := store.Save(ctx, in.Session); err != nil {
		return nil, fmt.Errorf("save session state: %w", err)
	}
	return in, nil
}
