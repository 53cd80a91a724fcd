package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
	"trustlend.backend/internal/interfaces/http/middleware"
	"trustlend.backend/internal/interfaces/http/response"
	"trustlend.backend/pkg/jwt"
)

type LoanService interface {
	Issue(ctx context.Context, input *entities.IssueLoanInput) (*entities.Loan, error)
	Repay(ctx context.Context, caller string, loanID int64) (*entities.Loan, error)
	RecordDefault(ctx context.Context, loanID int64) (*entities.Loan, error)
	Liquidate(ctx context.Context, loanID int64) (*entities.Loan, error)
	GetLoan(ctx context.Context, loanID int64) (*entities.Loan, error)
	CalculateLateFee(ctx context.Context, loanID int64) (int64, error)
}

// LoanHandler handles loan lifecycle endpoints
type LoanHandler struct {
	loanUsecase LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanUsecase LoanService) *LoanHandler {
	return &LoanHandler{loanUsecase: loanUsecase}
}

func loanIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, domainerrors.BadRequest("invalid loan id"))
		return 0, false
	}
	return id, true
}

// IssueLoan issues a new loan
// POST /api/v1/loans
func (h *LoanHandler) IssueLoan(c *gin.Context) {
	var input entities.IssueLoanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	caller, ok := middleware.GetCallerAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("caller not authenticated"))
		return
	}
	// Borrowers may only borrow for themselves; operators and admins may
	// issue on behalf of any borrower.
	if role, _ := middleware.GetCallerRole(c); role == jwt.RoleBorrower {
		input.Borrower = caller
	}

	loan, err := h.loanUsecase.Issue(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"loan": loan})
}

// GetLoan gets a loan by id
// GET /api/v1/loans/:id
func (h *LoanHandler) GetLoan(c *gin.Context) {
	id, ok := loanIDParam(c)
	if !ok {
		return
	}

	loan, err := h.loanUsecase.GetLoan(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"loan": loan})
}

// RepayLoan settles an active loan held by the caller
// POST /api/v1/loans/:id/repay
func (h *LoanHandler) RepayLoan(c *gin.Context) {
	id, ok := loanIDParam(c)
	if !ok {
		return
	}

	caller, ok := middleware.GetCallerAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("caller not authenticated"))
		return
	}

	loan, err := h.loanUsecase.Repay(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"loan": loan})
}

// RecordDefault marks an overdue loan as defaulted
// POST /api/v1/loans/:id/default
func (h *LoanHandler) RecordDefault(c *gin.Context) {
	id, ok := loanIDParam(c)
	if !ok {
		return
	}

	loan, err := h.loanUsecase.RecordDefault(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"loan": loan})
}

// LiquidateLoan disposes of a defaulted loan's collateral
// POST /api/v1/loans/:id/liquidate
func (h *LoanHandler) LiquidateLoan(c *gin.Context) {
	id, ok := loanIDParam(c)
	if !ok {
		return
	}

	loan, err := h.loanUsecase.Liquidate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"loan": loan})
}

// GetLateFee reports the late fee a loan would accrue if repaid now
// GET /api/v1/loans/:id/late-fee
func (h *LoanHandler) GetLateFee(c *gin.Context) {
	id, ok := loanIDParam(c)
	if !ok {
		return
	}

	fee, err := h.loanUsecase.CalculateLateFee(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"loanId": id, "lateFee": fee})
}
