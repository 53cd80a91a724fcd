package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
	"trustlend.backend/internal/interfaces/http/response"
	"trustlend.backend/internal/usecases"
)

type AttestationService interface {
	Submit(ctx context.Context, input *entities.SubmitAttestationInput) (*usecases.ScoreOverride, error)
}

// AttestationHandler accepts verified historical-data callbacks from the
// attestation feed
type AttestationHandler struct {
	attestationUsecase AttestationService
}

// NewAttestationHandler creates a new attestation handler
func NewAttestationHandler(attestationUsecase AttestationService) *AttestationHandler {
	return &AttestationHandler{attestationUsecase: attestationUsecase}
}

// SubmitAttestation applies a verified activity summary as a trust score
// override
// POST /api/v1/attestations
func (h *AttestationHandler) SubmitAttestation(c *gin.Context) {
	var input entities.SubmitAttestationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	override, err := h.attestationUsecase.Submit(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"override": override})
}
