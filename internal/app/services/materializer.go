package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/app/repositories"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/filestorage"
)

// profileMaterializer turns a validated business profile into a row inside
// an open transaction. Registration and the create-profile endpoint share it.
type profileMaterializer struct {
	rules  Rules
	now    Clock
	logger zerolog.Logger
}

func (m *profileMaterializer) create(
	ctx context.Context,
	tx repositories.Store,
	ledger *filestorage.Ledger,
	member *models.Member,
	in domain.BusinessProfileInput,
	files ProfileFiles,
) (*models.BusinessProfile, error) {
	image, err := ledger.Save(files.Image, filestorage.BusinessProfileImageDir)
	if err != nil {
		return nil, fmt.Errorf("saving business profile image: %w", err)
	}
	gallery, err := ledger.SaveAll(files.Gallery, filestorage.MediaGalleryDir)
	if err != nil {
		return nil, fmt.Errorf("saving media gallery: %w", err)
	}

	categoryID, err := resolveCategory(ctx, tx.Categories(), in.CategoryID, in.NewCategoryName)
	if err != nil {
		return nil, err
	}

	profile := &models.BusinessProfile{
		MemberID:            member.ID,
		BusinessType:        in.Details.BusinessType(),
		CategoryID:          categoryID,
		CommonProfileFields: in.Common,
		ProfileFields:       domain.Flatten(in.Details),
		Status:              domain.InitialProfileStatus(member.CreatedAt, m.now(), m.rules.PendingAfterDays),
	}
	if image != "" {
		image = domain.NormalizePath(image)
		profile.BusinessProfileImage = &image
	}
	profile.SetGallery(normalizePaths(gallery))

	if err := tx.BusinessProfiles().Create(ctx, profile); err != nil {
		return nil, err
	}

	m.logger.Debug().
		Int64("memberID", member.ID).
		Int64("profileID", profile.ID).
		Str("businessType", string(profile.BusinessType)).
		Str("status", string(profile.Status)).
		Msg("Business profile created")
	return profile, nil
}

// resolveCategory returns the id of an existing category, or of the category
// named newName, creating it if needed. An unknown id counts as absent.
func resolveCategory(ctx context.Context, categories repositories.ICategoryRepository, id *int64, newName string) (*int64, error) {
	if id != nil {
		c, err := categories.GetByID(ctx, *id)
		if err == nil {
			return &c.ID, nil
		}
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, err
		}
	}

	name := strings.TrimSpace(newName)
	if name == "" {
		return nil, nil
	}
	c, err := categories.Ensure(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolving category %q: %w", name, err)
	}
	return &c.ID, nil
}

func normalizePaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = domain.NormalizePath(p)
	}
	return out
}
