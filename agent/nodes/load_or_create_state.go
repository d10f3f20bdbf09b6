package intakenode

import (
	"context"
	"fmt"

	contractx "github.com/estateplan/intake-agent/agent/contract"
	statex "github.com/estateplan/intake-agent/agent/state"
)

func LoadOrCreateState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	st, err := statex.GetOrCreate(ctx, store, in.SessionID, in.Now)
	if err != nil {
		return nil, err
	}
	in.Session = st
	return in, nil
}
