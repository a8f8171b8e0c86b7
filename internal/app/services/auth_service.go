package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/app/repositories"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	members    repositories.IMemberRepository
	membership MembershipService
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	store repositories.Store,
	membership MembershipService,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		members:    store.Members(),
		membership: membership,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login authenticates a member, resets a lapsed membership and issues an
// access token.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := NormalizeEmail(req.Email)

	member, err := s.members.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			s.logger.Debug().Str("email", email).Msg("Login with unknown email")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading member: %w", err)
	}

	if !auth.CheckPassword(member.Password, req.Password) {
		s.logger.Debug().Int64("memberID", member.ID).Msg("Login with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.membership.NormalizeOnLogin(ctx, member); err != nil {
		return nil, err
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(auth.Subject{
		MemberID:    member.ID,
		Email:       member.Email,
		AccessLevel: string(member.AccessLevel),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("memberID", member.ID).Msg("Member logged in")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Member:      member,
	}, nil
}
