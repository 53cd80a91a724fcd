package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/volatiletech/null/v8"
	"trustlend.backend/internal/domain/entities"
)

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) List(ctx context.Context, limit, offset int) ([]*entities.LedgerEvent, int, error) {
	args := m.Called(ctx, limit, offset)
	if events := args.Get(0); events != nil {
		return events.([]*entities.LedgerEvent), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *mockEventService) ListByLoan(ctx context.Context, loanID int64) ([]*entities.LedgerEvent, error) {
	args := m.Called(ctx, loanID)
	if events := args.Get(0); events != nil {
		return events.([]*entities.LedgerEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEventService) ListByUser(ctx context.Context, address string, limit, offset int) ([]*entities.LedgerEvent, int, error) {
	args := m.Called(ctx, address, limit, offset)
	if events := args.Get(0); events != nil {
		return events.([]*entities.LedgerEvent), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func eventRouter(svc EventService) *gin.Engine {
	r := newTestRouter()
	h := NewEventHandler(svc)
	r.GET("/api/v1/events", h.ListEvents)
	return r
}

func TestListEvents(t *testing.T) {
	svc := new(mockEventService)
	svc.On("List", mock.Anything, 50, 0).Return([]*entities.LedgerEvent{
		{Seq: 1, Type: entities.EventLoanIssued, User: testBorrower, LoanID: null.Int64From(1)},
		{Seq: 2, Type: entities.EventLoanRepaid, User: testBorrower, LoanID: null.Int64From(1)},
	}, 2, nil)
	r := eventRouter(svc)

	w := serve(r, jsonRequest(t, http.MethodGet, "/api/v1/events", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(entities.EventLoanIssued))
	assert.Contains(t, w.Body.String(), `"totalCount":2`)
}

func TestListEvents_ByLoan(t *testing.T) {
	svc := new(mockEventService)
	svc.On("ListByLoan", mock.Anything, int64(7)).Return([]*entities.LedgerEvent{
		{Seq: 3, Type: entities.EventDefaultRecorded, User: testBorrower, LoanID: null.Int64From(7)},
	}, nil)
	r := eventRouter(svc)

	w := serve(r, jsonRequest(t, http.MethodGet, "/api/v1/events?loanId=7", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(entities.EventDefaultRecorded))
}

func TestListEvents_ByUser(t *testing.T) {
	svc := new(mockEventService)
	svc.On("ListByUser", mock.Anything, testBorrower, 50, 0).
		Return([]*entities.LedgerEvent{}, 0, nil)
	r := eventRouter(svc)

	w := serve(r, jsonRequest(t, http.MethodGet, "/api/v1/events?user="+testBorrower, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestListEvents_ByUser_NormalizesAddress(t *testing.T) {
	svc := new(mockEventService)
	svc.On("ListByUser", mock.Anything, "0xab5801a7d398351b8be11c439e05c5b3259aec9b", 50, 0).
		Return([]*entities.LedgerEvent{
			{Seq: 4, Type: entities.EventCollateralDeposited, User: "0xab5801a7d398351b8be11c439e05c5b3259aec9b"},
		}, 1, nil)
	r := eventRouter(svc)

	w := serve(r, jsonRequest(t, http.MethodGet,
		"/api/v1/events?user=0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(entities.EventCollateralDeposited))
	svc.AssertExpectations(t)
}

func TestListEvents_BadUser(t *testing.T) {
	svc := new(mockEventService)
	r := eventRouter(svc)

	w := serve(r, jsonRequest(t, http.MethodGet, "/api/v1/events?user=not-an-address", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ListByUser")
}

func TestListEvents_BadLoanID(t *testing.T) {
	svc := new(mockEventService)
	r := eventRouter(svc)

	w := serve(r, jsonRequest(t, http.MethodGet, "/api/v1/events?loanId=zero", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ListByLoan")
}
