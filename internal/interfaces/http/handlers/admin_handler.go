package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
	"trustlend.backend/internal/interfaces/http/response"
	"trustlend.backend/pkg/logger"
)

type PolicyService interface {
	Current() entities.LendingPolicy
	Update(p entities.LendingPolicy) error
}

type KeyRotator interface {
	NewVerificationKey() (string, error)
	InstallVerificationKey(key string)
}

// KeyPersister stores a rotated verification key so it survives restarts.
type KeyPersister interface {
	SaveVerificationKey(ctx context.Context, verificationKey string) error
}

type PlatformService interface {
	GetPlatformState(ctx context.Context) (*entities.PlatformState, error)
}

// AdminHandler handles platform administration endpoints
type AdminHandler struct {
	policy   PolicyService
	rotator  KeyRotator
	keyStore KeyPersister
	platform PlatformService
}

// NewAdminHandler creates a new admin handler. keyStore may be nil when no
// persistence backend is configured.
func NewAdminHandler(policy PolicyService, rotator KeyRotator, keyStore KeyPersister, platform PlatformService) *AdminHandler {
	return &AdminHandler{policy: policy, rotator: rotator, keyStore: keyStore, platform: platform}
}

// GetPolicy returns the lending policy in force
// GET /api/v1/admin/policy
func (h *AdminHandler) GetPolicy(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"policy": h.policy.Current()})
}

// UpdatePolicy replaces the lending policy
// PUT /api/v1/admin/policy
func (h *AdminHandler) UpdatePolicy(c *gin.Context) {
	var input entities.LendingPolicy
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.policy.Update(input); err != nil {
		response.Error(c, err)
		return
	}

	logger.Info(c.Request.Context(), "lending policy updated")
	response.Success(c, http.StatusOK, gin.H{"policy": h.policy.Current()})
}

// RotateAttestationKey installs a fresh attestation verification key and
// returns it once, for hand-off to the attestation feed.
// POST /api/v1/admin/attestation-key
func (h *AdminHandler) RotateAttestationKey(c *gin.Context) {
	key, err := h.rotator.NewVerificationKey()
	if err != nil {
		response.Error(c, err)
		return
	}

	// Persist before installing: a key that only lives in memory would
	// silently revert to the stale one on the next restart.
	if h.keyStore != nil {
		if err := h.keyStore.SaveVerificationKey(c.Request.Context(), key); err != nil {
			logger.Error(c.Request.Context(), "failed to persist rotated verification key")
			response.ErrorWithStatus(c, http.StatusInternalServerError,
				"failed to persist rotated verification key")
			return
		}
	}
	h.rotator.InstallVerificationKey(key)

	response.Success(c, http.StatusOK, gin.H{"verificationKeyId": key})
}

// GetPlatformState returns the aggregate exposure and treasury balance
// GET /api/v1/admin/platform
func (h *AdminHandler) GetPlatformState(c *gin.Context) {
	state, err := h.platform.GetPlatformState(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"platform": state})
}
