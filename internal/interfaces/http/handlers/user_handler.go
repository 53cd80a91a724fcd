package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"trustlend.backend/internal/domain/entities"
	"trustlend.backend/internal/interfaces/http/response"
	"trustlend.backend/pkg/utils"
)

type ProfileService interface {
	GetUserProfile(ctx context.Context, user string) (*entities.UserProfile, error)
	GetUserLoans(ctx context.Context, user string, limit, offset int) ([]*entities.Loan, int, error)
	GetUserLoanStats(ctx context.Context, user string) (*entities.LoanStats, error)
	CalculateUserRiskLevel(ctx context.Context, user string) (entities.RiskLevel, error)
}

// UserHandler handles borrower profile endpoints
type UserHandler struct {
	profileUsecase ProfileService
}

// NewUserHandler creates a new user handler
func NewUserHandler(profileUsecase ProfileService) *UserHandler {
	return &UserHandler{profileUsecase: profileUsecase}
}

// GetProfile returns the borrower's cumulative history
// GET /api/v1/users/:address/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileUsecase.GetUserProfile(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// GetLoans returns a page of the borrower's loans
// GET /api/v1/users/:address/loans
func (h *UserHandler) GetLoans(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	params := utils.GetPaginationParams(page, limit)

	loans, total, err := h.profileUsecase.GetUserLoans(c.Request.Context(), c.Param("address"), params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"loans":      loans,
		"pagination": utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}

// GetStats aggregates the borrower's loan history by status
// GET /api/v1/users/:address/stats
func (h *UserHandler) GetStats(c *gin.Context) {
	stats, err := h.profileUsecase.GetUserLoanStats(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

// GetRiskLevel returns the borrower's current risk tier
// GET /api/v1/users/:address/risk
func (h *UserHandler) GetRiskLevel(c *gin.Context) {
	level, err := h.profileUsecase.CalculateUserRiskLevel(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"address": c.Param("address"), "riskLevel": level})
}
