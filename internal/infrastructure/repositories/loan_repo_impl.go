package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
	"trustlend.backend/internal/infrastructure/models"
)

// LoanRepository implements loan registry data operations on GORM
type LoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func toLoanEntity(m *models.Loan) *entities.Loan {
	loan := &entities.Loan{
		ID:           m.ID,
		Borrower:     m.Borrower,
		Principal:    m.Principal,
		InterestRate: m.InterestRate,
		Collateral:   m.Collateral,
		DueDate:      m.DueDate,
		Status:       entities.LoanStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.RepaymentDate != nil {
		loan.RepaymentDate = null.TimeFrom(*m.RepaymentDate)
	}
	if m.LateFee != nil {
		loan.LateFee = null.Int64From(*m.LateFee)
	}
	return loan
}

// Create persists a new loan and assigns the next sequential id
func (r *LoanRepository) Create(ctx context.Context, loan *entities.Loan) error {
	m := &models.Loan{
		Borrower:     loan.Borrower,
		Principal:    loan.Principal,
		InterestRate: loan.InterestRate,
		Collateral:   loan.Collateral,
		DueDate:      loan.DueDate,
		Status:       string(loan.Status),
		CreatedAt:    loan.CreatedAt,
		UpdatedAt:    loan.UpdatedAt,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	loan.ID = m.ID
	return nil
}

// GetByID returns a loan by id
func (r *LoanRepository) GetByID(ctx context.Context, id int64) (*entities.Loan, error) {
	var m models.Loan
	err := GetDB(ctx, r.db).WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrLoanNotFound
		}
		return nil, err
	}
	return toLoanEntity(&m), nil
}

// GetByBorrower returns a page of the borrower's loans, newest first
func (r *LoanRepository) GetByBorrower(ctx context.Context, borrower string, limit, offset int) ([]*entities.Loan, int, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.Loan{}).Where("borrower = ?", borrower).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Loan
	err := db.Where("borrower = ?", borrower).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	loans := make([]*entities.Loan, 0, len(rows))
	for i := range rows {
		loans = append(loans, toLoanEntity(&rows[i]))
	}
	return loans, int(total), nil
}

// ListByBorrower returns the borrower's full loan index, oldest first
func (r *LoanRepository) ListByBorrower(ctx context.Context, borrower string) ([]*entities.Loan, error) {
	var rows []models.Loan
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("borrower = ?", borrower).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	loans := make([]*entities.Loan, 0, len(rows))
	for i := range rows {
		loans = append(loans, toLoanEntity(&rows[i]))
	}
	return loans, nil
}

// ListOverdueActive returns ACTIVE loans due before the cutoff, oldest first
func (r *LoanRepository) ListOverdueActive(ctx context.Context, before time.Time, limit int) ([]*entities.Loan, error) {
	var rows []models.Loan
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("status = ? AND due_date < ?", string(entities.LoanStatusActive), before).
		Order("due_date ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	loans := make([]*entities.Loan, 0, len(rows))
	for i := range rows {
		loans = append(loans, toLoanEntity(&rows[i]))
	}
	return loans, nil
}

// Transition performs a compare-and-swap on the loan status
func (r *LoanRepository) Transition(ctx context.Context, id int64, from, to entities.LoanStatus, at time.Time) error {
	res := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.transitionFailure(ctx, id)
	}
	return nil
}

// RecordRepayment is the ACTIVE -> REPAID transition with repayment
// bookkeeping stamped in the same write.
func (r *LoanRepository) RecordRepayment(ctx context.Context, id int64, at time.Time, lateFee int64) error {
	res := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ? AND status = ?", id, string(entities.LoanStatusActive)).
		Updates(map[string]interface{}{
			"status":         string(entities.LoanStatusRepaid),
			"repayment_date": at,
			"late_fee":       lateFee,
			"updated_at":     at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.transitionFailure(ctx, id)
	}
	return nil
}

// transitionFailure distinguishes a missing loan from a status mismatch
func (r *LoanRepository) transitionFailure(ctx context.Context, id int64) error {
	var count int64
	if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Loan{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrLoanNotFound
	}
	return domainerrors.ErrInvalidState
}
