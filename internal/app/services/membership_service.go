package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/app/repositories"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/metrics"
)

// MembershipService keeps paid status and validity date consistent once a
// membership runs out.
type MembershipService interface {
	// SweepExpired resets every lapsed paid membership and returns how many
	// members changed.
	SweepExpired(ctx context.Context) (int64, error)
	// NormalizeOnLogin applies the same reset to one member in place.
	NormalizeOnLogin(ctx context.Context, member *models.Member) error
}

type membershipServiceImpl struct {
	store  repositories.Store
	now    Clock
	logger zerolog.Logger
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(store repositories.Store, now Clock, logger zerolog.Logger) MembershipService {
	return &membershipServiceImpl{
		store:  store,
		now:    now.orNow(),
		logger: logger,
	}
}

func (s *membershipServiceImpl) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.store.Members().ExpireMemberships(ctx, s.now())
	if err != nil {
		s.logger.Error().Err(err).Msg("Membership expiry sweep failed")
		return 0, fmt.Errorf("expiring memberships: %w", err)
	}
	if n > 0 {
		metrics.MembershipsExpired.Add(float64(n))
	}
	s.logger.Info().Int64("expired", n).Msg("Membership expiry sweep finished")
	return n, nil
}

func (s *membershipServiceImpl) NormalizeOnLogin(ctx context.Context, member *models.Member) error {
	now := s.now()
	if !domain.MembershipExpired(member.PaidStatus, member.MembershipValidUntil, now) {
		return nil
	}

	changed, err := s.store.Members().ExpireMembership(ctx, member.ID, now)
	if err != nil {
		return fmt.Errorf("expiring membership of member %d: %w", member.ID, err)
	}
	if changed {
		metrics.MembershipsExpired.Inc()
		s.logger.Info().Int64("memberID", member.ID).Msg("Membership expired at login")
	}
	member.PaidStatus, member.MembershipValidUntil = domain.PaidStatusUnpaid, nil
	return nil
}
