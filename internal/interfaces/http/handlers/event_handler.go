package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
	"trustlend.backend/internal/interfaces/http/response"
	"trustlend.backend/pkg/utils"
)

type EventService interface {
	List(ctx context.Context, limit, offset int) ([]*entities.LedgerEvent, int, error)
	ListByLoan(ctx context.Context, loanID int64) ([]*entities.LedgerEvent, error)
	ListByUser(ctx context.Context, address string, limit, offset int) ([]*entities.LedgerEvent, int, error)
}

// EventHandler serves the append-only audit log
type EventHandler struct {
	events EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(events EventService) *EventHandler {
	return &EventHandler{events: events}
}

// ListEvents lists audit log entries in sequence order, optionally
// filtered by loan or user.
// GET /api/v1/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	if loanStr := c.Query("loanId"); loanStr != "" {
		loanID, err := strconv.ParseInt(loanStr, 10, 64)
		if err != nil || loanID <= 0 {
			response.Error(c, domainerrors.BadRequest("invalid loan id"))
			return
		}
		events, err := h.events.ListByLoan(c.Request.Context(), loanID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"events": events})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}
	params := utils.GetPaginationParams(page, limit)

	var (
		events []*entities.LedgerEvent
		total  int
		err    error
	)
	if user := c.Query("user"); user != "" {
		// Events are keyed by the lowercase address, so checksum-cased
		// query values must be normalized before filtering.
		if !common.IsHexAddress(user) {
			response.Error(c, domainerrors.ErrInvalidUser)
			return
		}
		user = strings.ToLower(common.HexToAddress(user).Hex())
		events, total, err = h.events.ListByUser(c.Request.Context(), user, params.Limit, params.CalculateOffset())
	} else {
		events, total, err = h.events.List(c.Request.Context(), params.Limit, params.CalculateOffset())
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"events":     events,
		"pagination": utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}
