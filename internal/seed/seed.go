package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/memberdir/internal/app/models"
	appRepos "github.com/yigit/memberdir/internal/app/repositories"
	"github.com/yigit/memberdir/internal/app/services"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/auth"
)

// DefaultCategories are created on first start so the registration form has
// something to pick from.
var DefaultCategories = []string{
	"Agriculture",
	"Automobile",
	"Construction",
	"Education",
	"Food & Beverage",
	"Healthcare",
	"Information Technology",
	"Manufacturing",
	"Real Estate",
	"Retail",
}

// Admin describes the operator account created by CreateAdmin.
type Admin struct {
	Email     string
	Password  string
	FirstName string
}

// CreateDefaultData makes sure every default category exists. Failures are
// collected so one bad row does not stop the rest.
func CreateDefaultData(ctx context.Context, store appRepos.Store, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default categories...")
	var finalErr error

	for _, name := range DefaultCategories {
		if _, err := store.Categories().Ensure(ctx, name); err != nil {
			lgr.Error().Err(err).Str("category", name).Msg("Error ensuring default category")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

// CreateAdmin registers an approved admin member unless the email is taken.
// It reports whether a member was created.
func CreateAdmin(ctx context.Context, store appRepos.Store, admin Admin, lgr zerolog.Logger) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		return false, apperrors.NewValidationError("admin email and password are required")
	}

	exists, err := store.Members().EmailExists(ctx, email)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin member exists")
		return false, err
	}
	if exists {
		lgr.Info().Str("email", email).Msg("Admin member already exists, skipping creation")
		return false, nil
	}

	hashedPassword, err := auth.HashPassword(admin.Password)
	if err != nil {
		return false, err
	}

	firstName := admin.FirstName
	if firstName == "" {
		firstName = "Administrator"
	}
	member := &appModels.Member{
		ApplicationID: services.NewApplicationID(),
		FirstName:     firstName,
		Email:         email,
		Password:      hashedPassword,
		Status:        domain.MemberStatusApproved,
		AccessLevel:   domain.AccessLevelAdmin,
		PaidStatus:    domain.PaidStatusUnpaid,
	}
	if err := store.Members().Create(ctx, member); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin member")
		return false, err
	}

	lgr.Info().Int64("memberID", member.ID).Str("email", email).Msg("Admin member created successfully")
	return true, nil
}
