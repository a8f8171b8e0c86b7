package auth

import (
	"context"
	"fmt"

	"github.com/yigit/memberdir/internal/app/repositories"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/logger"
)

// ErrNotOwner is returned when a member touches another member's records.
var ErrNotOwner = apperrors.NewForbiddenError("you can only access your own records")

// Principal is the authenticated caller taken from the access token.
type Principal struct {
	MemberID    int64
	Email       string
	AccessLevel domain.AccessLevel
}

// IsAdmin reports whether the caller may act on any member.
func (p Principal) IsAdmin() bool {
	return p.AccessLevel == domain.AccessLevelAdmin
}

// AuthorizationService decides whether a principal may touch a member's data.
// Admins may act on everything; other members only on what they own.
type AuthorizationService struct {
	store repositories.Store
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(store repositories.Store) *AuthorizationService {
	return &AuthorizationService{store: store}
}

// ValidateMemberAccess allows admins and the member itself.
func (s *AuthorizationService) ValidateMemberAccess(p Principal, memberID int64) error {
	if p.IsAdmin() || p.MemberID == memberID {
		return nil
	}
	logger.Debug().Int64("memberID", p.MemberID).Int64("targetID", memberID).Msg("Member access denied")
	return ErrNotOwner
}

// ValidateProfileAccess resolves the profile owner before checking access.
// A missing profile is reported as not found, even to non-owners.
func (s *AuthorizationService) ValidateProfileAccess(ctx context.Context, p Principal, profileID int64) error {
	if p.IsAdmin() {
		return nil
	}
	profile, err := s.store.BusinessProfiles().GetByID(ctx, profileID)
	if err != nil {
		return fmt.Errorf("checking profile ownership: %w", err)
	}
	return s.ValidateMemberAccess(p, profile.MemberID)
}

// ValidateFamilyAccess resolves the family record owner before checking access.
func (s *AuthorizationService) ValidateFamilyAccess(ctx context.Context, p Principal, familyID int64) error {
	if p.IsAdmin() {
		return nil
	}
	family, err := s.store.Families().GetByID(ctx, familyID)
	if err != nil {
		return fmt.Errorf("checking family ownership: %w", err)
	}
	return s.ValidateMemberAccess(p, family.MemberID)
}
