package custody

import (
	"context"
	"sync"
)

// LedgerCustody is an in-process custody used in development and tests. It
// records releases and never fails.
type LedgerCustody struct {
	mu       sync.Mutex
	released map[string]int64
}

// NewLedgerCustody creates a new in-process custody
func NewLedgerCustody() *LedgerCustody {
	return &LedgerCustody{released: make(map[string]int64)}
}

// TransferOut records the release
func (c *LedgerCustody) TransferOut(_ context.Context, user string, amount int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released[user] += amount
	return nil
}

// Released returns the total amount released to the user
func (c *LedgerCustody) Released(user string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released[user]
}
