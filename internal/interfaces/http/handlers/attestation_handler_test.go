package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
	"trustlend.backend/internal/usecases"
)

type mockAttestationService struct {
	mock.Mock
}

func (m *mockAttestationService) Submit(ctx context.Context, input *entities.SubmitAttestationInput) (*usecases.ScoreOverride, error) {
	args := m.Called(ctx, input)
	if o := args.Get(0); o != nil {
		return o.(*usecases.ScoreOverride), args.Error(1)
	}
	return nil, args.Error(1)
}

func attestationRouter(svc AttestationService) *gin.Engine {
	r := newTestRouter()
	h := NewAttestationHandler(svc)
	r.POST("/api/v1/attestations", h.SubmitAttestation)
	return r
}

func TestSubmitAttestation(t *testing.T) {
	svc := new(mockAttestationService)
	svc.On("Submit", mock.Anything, mock.MatchedBy(func(in *entities.SubmitAttestationInput) bool {
		return in.User == testBorrower && in.VerificationKeyID == "key-1"
	})).Return(&usecases.ScoreOverride{User: testBorrower, OldScore: 500, NewScore: 610}, nil)
	r := attestationRouter(svc)

	w := serve(r, jsonRequest(t, http.MethodPost, "/api/v1/attestations", entities.SubmitAttestationInput{
		VerificationKeyID: "key-1",
		User:              testBorrower,
		Summary:           entities.HistoricalSummary{TxCount: 250},
	}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"newScore":610`)
	svc.AssertExpectations(t)
}

func TestSubmitAttestation_WrongKey(t *testing.T) {
	svc := new(mockAttestationService)
	svc.On("Submit", mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrInvalidVerificationKey)
	r := attestationRouter(svc)

	w := serve(r, jsonRequest(t, http.MethodPost, "/api/v1/attestations", entities.SubmitAttestationInput{
		VerificationKeyID: "wrong",
		User:              testBorrower,
	}))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubmitAttestation_BadPayload(t *testing.T) {
	svc := new(mockAttestationService)
	r := attestationRouter(svc)

	w := serve(r, jsonRequest(t, http.MethodPost, "/api/v1/attestations", gin.H{"user": testBorrower}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Submit")
}
