package repositories

import (
	"context"

	"trustlend.backend/internal/domain/entities"
)

// EventRepository is the append-only audit log. Entries are totally ordered
// by their sequence number and are never updated or deleted.
type EventRepository interface {
	Append(ctx context.Context, event *entities.LedgerEvent) error
	List(ctx context.Context, limit, offset int) ([]*entities.LedgerEvent, int, error)
	ListByLoan(ctx context.Context, loanID int64) ([]*entities.LedgerEvent, error)
	ListByUser(ctx context.Context, address string, limit, offset int) ([]*entities.LedgerEvent, int, error)
}
