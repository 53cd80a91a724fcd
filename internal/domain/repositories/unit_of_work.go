package repositories

import (
	"context"
)

// UnitOfWork executes a function within a transaction scope. Either every
// repository write made through the scoped context commits, or none do.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
