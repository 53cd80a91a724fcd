package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "trustlend.backend/internal/domain/errors"
	"trustlend.backend/internal/interfaces/http/middleware"
	"trustlend.backend/internal/interfaces/http/response"
	"trustlend.backend/pkg/jwt"
)

type CollateralService interface {
	Deposit(ctx context.Context, user string, amount int64) (int64, error)
	Withdraw(ctx context.Context, user string, amount int64) (int64, error)
	Balance(ctx context.Context, user string) (int64, error)
}

// CollateralHandler handles collateral account endpoints
type CollateralHandler struct {
	collateralUsecase CollateralService
}

// NewCollateralHandler creates a new collateral handler
func NewCollateralHandler(collateralUsecase CollateralService) *CollateralHandler {
	return &CollateralHandler{collateralUsecase: collateralUsecase}
}

type collateralMoveInput struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// Deposit credits the caller's available collateral
// POST /api/v1/collateral/deposit
func (h *CollateralHandler) Deposit(c *gin.Context) {
	var input collateralMoveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	caller, ok := middleware.GetCallerAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("caller not authenticated"))
		return
	}

	balance, err := h.collateralUsecase.Deposit(c.Request.Context(), caller, input.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"address": caller, "available": balance})
}

// Withdraw releases available collateral back to the caller
// POST /api/v1/collateral/withdraw
func (h *CollateralHandler) Withdraw(c *gin.Context) {
	var input collateralMoveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	caller, ok := middleware.GetCallerAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("caller not authenticated"))
		return
	}

	balance, err := h.collateralUsecase.Withdraw(c.Request.Context(), caller, input.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"address": caller, "available": balance})
}

// GetBalance returns the caller's available collateral balance
// GET /api/v1/collateral/balance
func (h *CollateralHandler) GetBalance(c *gin.Context) {
	caller, ok := middleware.GetCallerAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("caller not authenticated"))
		return
	}
	// Admins and operators may inspect any account.
	address := caller
	if q := c.Query("address"); q != "" && q != caller {
		role, _ := middleware.GetCallerRole(c)
		if role != jwt.RoleAdmin && role != jwt.RoleOperator {
			response.Error(c, domainerrors.Forbidden("cannot inspect another account"))
			return
		}
		address = q
	}

	balance, err := h.collateralUsecase.Balance(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"address": address, "available": balance})
}
