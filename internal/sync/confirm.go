package sync

import "context"

// Confirmer resolves the explicit confirmation step of an irreversible
// action. It must return before the action is issued.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Answer is a confirmation that was already resolved by the caller.
type Answer bool

func (a Answer) Confirm(context.Context, string) (bool, error) {
	return bool(a), nil
}
