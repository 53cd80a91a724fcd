package usecases

import (
	"context"
	"sync"

	domainerrors "trustlend.backend/internal/domain/errors"
)

type dispatchCtxKey string

const opInFlightKey dispatchCtxKey = "ledger_op_in_flight"

// Dispatch serializes mutating ledger operations. Every operation runs to
// completion before the next one starts, and an operation's context is
// marked so that any nested mutating call made from within it (a custody
// callback, for instance) is rejected instead of deadlocking.
type Dispatch struct {
	mu sync.Mutex
}

// NewDispatch creates a dispatcher shared by all mutating usecases.
func NewDispatch() *Dispatch {
	return &Dispatch{}
}

// Run executes fn as one atomic ledger operation.
func (d *Dispatch) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(opInFlightKey) != nil {
		return domainerrors.ErrReentrantCall
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(context.WithValue(ctx, opInFlightKey, struct{}{}))
}
