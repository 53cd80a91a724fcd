package repositories

import (
	"context"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"trustlend.backend/internal/domain/entities"
	"trustlend.backend/internal/infrastructure/models"
)

// EventRepository implements the append-only audit log on GORM
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func toEventModel(e *entities.LedgerEvent) *models.LedgerEvent {
	m := &models.LedgerEvent{
		ID:        e.ID,
		Type:      string(e.Type),
		User:      e.User,
		CreatedAt: e.CreatedAt,
	}
	if e.LoanID.Valid {
		m.LoanID = &e.LoanID.Int64
	}
	if e.Amount.Valid {
		m.Amount = &e.Amount.Int64
	}
	if e.OldScore.Valid {
		m.OldScore = &e.OldScore.Int64
	}
	if e.NewScore.Valid {
		m.NewScore = &e.NewScore.Int64
	}
	if e.Reason.Valid {
		m.Reason = &e.Reason.String
	}
	return m
}

func toEventEntity(m *models.LedgerEvent) *entities.LedgerEvent {
	e := &entities.LedgerEvent{
		Seq:       m.Seq,
		ID:        m.ID,
		Type:      entities.EventType(m.Type),
		User:      m.User,
		CreatedAt: m.CreatedAt,
	}
	if m.LoanID != nil {
		e.LoanID = null.Int64From(*m.LoanID)
	}
	if m.Amount != nil {
		e.Amount = null.Int64From(*m.Amount)
	}
	if m.OldScore != nil {
		e.OldScore = null.Int64From(*m.OldScore)
	}
	if m.NewScore != nil {
		e.NewScore = null.Int64From(*m.NewScore)
	}
	if m.Reason != nil {
		e.Reason = null.StringFrom(*m.Reason)
	}
	return e
}

// Append writes one audit log entry and assigns its sequence number
func (r *EventRepository) Append(ctx context.Context, event *entities.LedgerEvent) error {
	m := toEventModel(event)
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	event.Seq = m.Seq
	return nil
}

// List returns a page of the audit log in occurrence order
func (r *EventRepository) List(ctx context.Context, limit, offset int) ([]*entities.LedgerEvent, int, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.LedgerEvent{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.LedgerEvent
	if err := db.Order("seq ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toEventEntities(rows), int(total), nil
}

// ListByLoan returns all events of one loan in occurrence order
func (r *EventRepository) ListByLoan(ctx context.Context, loanID int64) ([]*entities.LedgerEvent, error) {
	var rows []models.LedgerEvent
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEventEntities(rows), nil
}

// ListByUser returns a page of one user's events in occurrence order
func (r *EventRepository) ListByUser(ctx context.Context, address string, limit, offset int) ([]*entities.LedgerEvent, int, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.LedgerEvent{}).Where("user_address = ?", address).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.LedgerEvent
	err := db.Where("user_address = ?", address).
		Order("seq ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return toEventEntities(rows), int(total), nil
}

func toEventEntities(rows []models.LedgerEvent) []*entities.LedgerEvent {
	events := make([]*entities.LedgerEvent, 0, len(rows))
	for i := range rows {
		events = append(events, toEventEntity(&rows[i]))
	}
	return events
}
