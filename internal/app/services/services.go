package services

// Services defined in this package:
// - Normalizer: maps raw client payloads onto domain inputs
// - MemberService: registration, member CRUD
// - AuthService: login with login-time membership normalization
// - BusinessProfileService: profiles of existing members, updates, moderation
// - FamilyService: family records
// - CategoryService: business categories
// - MembershipService: paid-membership expiry

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/filestorage"
	"github.com/yigit/memberdir/internal/pkg/metrics"
)

// Rules holds the tunable membership rules.
type Rules struct {
	PendingAfterDays     int
	ReferralRewardPoints int
}

// DefaultRules returns the rules used when configuration leaves them unset.
func DefaultRules() Rules {
	return Rules{
		PendingAfterDays:     domain.PendingAfterDays,
		ReferralRewardPoints: domain.ReferralRewardPoints,
	}
}

func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.PendingAfterDays <= 0 {
		r.PendingAfterDays = d.PendingAfterDays
	}
	if r.ReferralRewardPoints <= 0 {
		r.ReferralRewardPoints = d.ReferralRewardPoints
	}
	return r
}

// Clock returns the current time.
type Clock func() time.Time

func (c Clock) orNow() Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// releaseUploads deletes the files a failed request wrote.
func releaseUploads(ledger *filestorage.Ledger, log zerolog.Logger) {
	if n := ledger.Release(); n > 0 {
		metrics.UploadedFilesCleaned.Add(float64(n))
		log.Warn().Int("files", n).Msg("Removed uploaded files after failed request")
	}
}

// deleteObsolete removes files that a committed change no longer references.
func deleteObsolete(storage filestorage.FileStorage, paths []string, log zerolog.Logger) {
	if n := filestorage.DeleteAll(storage, paths); n > 0 {
		metrics.UploadedFilesCleaned.Add(float64(n))
		log.Debug().Int("files", n).Msg("Removed files no longer referenced")
	}
}

// isClientError reports errors caused by the request rather than the server.
func isClientError(err error) bool {
	return apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrEmailAlreadyExists,
		apperrors.ErrInvalidReferralCode,
		apperrors.ErrResourceNotFound,
		apperrors.ErrConflict,
		apperrors.ErrBadRequest,
	)
}
