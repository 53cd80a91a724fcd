package usecases

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/volatiletech/null/v8"
	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
	"trustlend.backend/internal/domain/repositories"
	"trustlend.backend/pkg/crypto"
	"trustlend.backend/pkg/metrics"
	"trustlend.backend/pkg/utils"
)

// AttestationUsecase accepts verified historical-data summaries from the
// external attestation feed and replaces trust scores with the computed
// attestation score. Overrides are tagged distinctly in the audit log.
type AttestationUsecase struct {
	profileRepo repositories.ProfileRepository
	eventRepo   repositories.EventRepository
	uow         repositories.UnitOfWork
	dispatch    *Dispatch
	metrics     *metrics.Collector
	now         func() time.Time

	keyMu sync.RWMutex
	keyID string
}

// NewAttestationUsecase creates a new attestation usecase
func NewAttestationUsecase(
	profileRepo repositories.ProfileRepository,
	eventRepo repositories.EventRepository,
	uow repositories.UnitOfWork,
	dispatch *Dispatch,
	collector *metrics.Collector,
	verificationKeyID string,
) *AttestationUsecase {
	return &AttestationUsecase{
		profileRepo: profileRepo,
		eventRepo:   eventRepo,
		uow:         uow,
		dispatch:    dispatch,
		metrics:     collector,
		now:         time.Now,
		keyID:       verificationKeyID,
	}
}

// SetClock overrides the time source
func (u *AttestationUsecase) SetClock(clock func() time.Time) {
	u.now = clock
}

// ScoreOverride reports an applied attestation override
type ScoreOverride struct {
	User     string `json:"user"`
	OldScore int    `json:"oldScore"`
	NewScore int    `json:"newScore"`
}

// Submit validates the callback's verification key and replaces the user's
// trust score with the attestation score. The whole callback is rejected on
// a key mismatch; nothing is mutated.
func (u *AttestationUsecase) Submit(ctx context.Context, input *entities.SubmitAttestationInput) (*ScoreOverride, error) {
	u.keyMu.RLock()
	configured := u.keyID
	u.keyMu.RUnlock()
	if subtle.ConstantTimeCompare([]byte(input.VerificationKeyID), []byte(configured)) != 1 {
		return nil, domainerrors.ErrInvalidVerificationKey
	}

	addr, err := normalizeAddress(input.User)
	if err != nil {
		return nil, err
	}

	var override *ScoreOverride
	err = u.dispatch.Run(ctx, func(ctx context.Context) error {
		return u.uow.Do(ctx, func(ctx context.Context) error {
			profile, err := u.profileRepo.GetOrCreate(ctx, addr)
			if err != nil {
				return err
			}
			oldScore := profile.TrustScore
			newScore := AttestationScore(input.Summary)
			profile.TrustScore = newScore
			if err := u.profileRepo.Update(ctx, profile); err != nil {
				return err
			}
			override = &ScoreOverride{User: addr, OldScore: oldScore, NewScore: newScore}

			return u.eventRepo.Append(ctx, &entities.LedgerEvent{
				ID:        utils.GenerateUUIDv7(),
				Type:      entities.EventTrustScoreUpdated,
				User:      addr,
				OldScore:  null.Int64From(int64(oldScore)),
				NewScore:  null.Int64From(int64(newScore)),
				Reason:    null.StringFrom(string(ScoreReasonAttestation)),
				CreatedAt: u.now(),
			})
		})
	})
	if err != nil {
		return nil, err
	}

	u.metrics.ObserveTrustScore(override.NewScore)
	return override, nil
}

// NewVerificationKey generates a candidate verification key id without
// installing it, so the caller can persist it before it takes effect.
func (u *AttestationUsecase) NewVerificationKey() (string, error) {
	return crypto.GenerateRandomToken(32)
}

// InstallVerificationKey swaps the active verification key id.
func (u *AttestationUsecase) InstallVerificationKey(key string) {
	u.keyMu.Lock()
	u.keyID = key
	u.keyMu.Unlock()
}

// RotateKey generates and installs a fresh verification key id, returning
// it so the administrator can hand it to the attestation feed.
func (u *AttestationUsecase) RotateKey() (string, error) {
	key, err := u.NewVerificationKey()
	if err != nil {
		return "", err
	}
	u.InstallVerificationKey(key)
	return key, nil
}
