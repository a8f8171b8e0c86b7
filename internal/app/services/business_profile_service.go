package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/app/repositories"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/filestorage"
	"github.com/yigit/memberdir/internal/pkg/helpers"
)

// BusinessProfileService defines business profile operations
type BusinessProfileService interface {
	CreateForMember(ctx context.Context, memberID int64, body dto.RawObject, files ProfileFiles) (*models.BusinessProfile, error)
	GetByID(ctx context.Context, id int64) (*models.BusinessProfile, error)
	ListByMember(ctx context.Context, memberID int64) ([]models.BusinessProfile, error)
	// Update applies a partial update. Columns of the previous business type
	// are cleared when the type changes; other omitted fields keep their
	// stored values.
	Update(ctx context.Context, id int64, body dto.RawObject, files ProfileFiles) (*models.BusinessProfile, error)
	// UpdateStatus moderates a profile and notifies its owner.
	UpdateStatus(ctx context.Context, id int64, req *dto.UpdateProfileStatusRequest) (*models.BusinessProfile, error)
	Delete(ctx context.Context, id int64) error
}

type businessProfileServiceImpl struct {
	store       repositories.Store
	storage     filestorage.FileStorage
	normalizer  *Normalizer
	materialize *profileMaterializer
	logger      zerolog.Logger
}

// NewBusinessProfileService creates a new BusinessProfileService
func NewBusinessProfileService(
	store repositories.Store,
	storage filestorage.FileStorage,
	normalizer *Normalizer,
	rules Rules,
	now Clock,
	logger zerolog.Logger,
) BusinessProfileService {
	return &businessProfileServiceImpl{
		store:       store,
		storage:     storage,
		normalizer:  normalizer,
		materialize: &profileMaterializer{rules: rules.withDefaults(), now: now.orNow(), logger: logger},
		logger:      logger,
	}
}

func (s *businessProfileServiceImpl) CreateForMember(ctx context.Context, memberID int64, body dto.RawObject, files ProfileFiles) (*models.BusinessProfile, error) {
	in, err := s.normalizer.NewProfile(body)
	if err != nil {
		return nil, err
	}

	ledger := filestorage.NewLedger(s.storage)
	var profile *models.BusinessProfile
	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		member, err := tx.Members().GetByID(ctx, memberID)
		if err != nil {
			return err
		}
		profile, err = s.materialize.create(ctx, tx, ledger, member, in, files)
		return err
	})
	if err != nil {
		releaseUploads(ledger, s.logger)
		return nil, err
	}
	ledger.Clear()

	s.logger.Info().Int64("memberID", memberID).Int64("profileID", profile.ID).Msg("Business profile added")
	return s.GetByID(ctx, profile.ID)
}

func (s *businessProfileServiceImpl) withCategory(ctx context.Context, p *models.BusinessProfile) error {
	if p.CategoryID == nil {
		return nil
	}
	c, err := s.store.Categories().GetByID(ctx, *p.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil
		}
		return err
	}
	p.Category = c
	return nil
}

func (s *businessProfileServiceImpl) GetByID(ctx context.Context, id int64) (*models.BusinessProfile, error) {
	p, err := s.store.BusinessProfiles().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.withCategory(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *businessProfileServiceImpl) ListByMember(ctx context.Context, memberID int64) ([]models.BusinessProfile, error) {
	if _, err := s.store.Members().GetByID(ctx, memberID); err != nil {
		return nil, err
	}
	profiles, err := s.store.BusinessProfiles().ListByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if err := s.withCategory(ctx, &profiles[i]); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// profileChange accumulates the columns an update writes.
type profileChange struct {
	next    models.BusinessProfile
	columns []string
}

func (c *profileChange) set(column string) {
	if !slices.Contains(c.columns, column) {
		c.columns = append(c.columns, column)
	}
}

// shapeUpdate re-derives the type-dependent columns against the new business
// type. Values come from the update, falling back to the stored row.
func shapeUpdate(existing *models.BusinessProfile, in *ProfileUpdateInput) (*profileChange, error) {
	change := &profileChange{next: *existing}

	newType := existing.BusinessType
	if in.BusinessType != nil {
		newType = *in.BusinessType
	}
	typeChanged := newType != existing.BusinessType

	reg := domain.RegistrationType{Value: helpers.Deref(existing.BusinessRegistrationType)}
	if in.RegistrationType != nil {
		reg = *in.RegistrationType
	}
	details, err := domain.DetailsFromFields(newType, in.Fields.Merge(existing.ProfileFields), reg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidBusinessType, err)
	}
	shaped := domain.Flatten(details)

	change.next.BusinessType = newType
	change.next.ProfileFields = shaped
	if typeChanged {
		change.set("business_type")
	}

	before := existing.ProfileFields.Columns()
	for column, v := range shaped.Columns() {
		// nil values are skipped unless the type change is what cleared them
		if v != nil || (typeChanged && before[column] != nil) {
			change.set(column)
		}
	}

	change.next.CommonProfileFields = in.Common.Merge(existing.CommonProfileFields)
	for column, v := range in.Common.Columns() {
		if v != nil {
			change.set(column)
		}
	}
	return change, nil
}

func (s *businessProfileServiceImpl) Update(ctx context.Context, id int64, body dto.RawObject, files ProfileFiles) (*models.BusinessProfile, error) {
	in, err := s.normalizer.ProfileUpdate(body)
	if err != nil {
		return nil, err
	}

	ledger := filestorage.NewLedger(s.storage)
	var obsolete []string

	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		existing, err := tx.BusinessProfiles().GetByID(ctx, id)
		if err != nil {
			return err
		}

		change, err := shapeUpdate(existing, in)
		if err != nil {
			return err
		}

		if in.CategoryID != nil || strings.TrimSpace(in.NewCategoryName) != "" {
			categoryID, err := resolveCategory(ctx, tx.Categories(), in.CategoryID, in.NewCategoryName)
			if err != nil {
				return err
			}
			if categoryID != nil {
				change.next.CategoryID = categoryID
				change.set("category_id")
			}
		}

		removed, err := s.applyMedia(change, existing, in.RemovedMedia, files, ledger)
		if err != nil {
			return err
		}
		obsolete = removed

		if len(change.columns) == 0 {
			return nil
		}
		slices.Sort(change.columns)
		return tx.BusinessProfiles().Update(ctx, &change.next, change.columns)
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("profileID", id).Msg("Business profile update rolled back")
		releaseUploads(ledger, s.logger)
		return nil, err
	}
	ledger.Clear()
	deleteObsolete(s.storage, obsolete, s.logger)

	s.logger.Info().Int64("profileID", id).Msg("Business profile updated")
	return s.GetByID(ctx, id)
}

// applyMedia removes the paths listed in removed, appends new gallery files
// and replaces the profile image. It returns the files to delete once the
// change is committed.
func (s *businessProfileServiceImpl) applyMedia(
	change *profileChange,
	existing *models.BusinessProfile,
	removed []string,
	files ProfileFiles,
	ledger *filestorage.Ledger,
) ([]string, error) {
	var obsolete []string

	gallery := existing.GalleryPaths()
	galleryChanged := false
	if len(removed) > 0 {
		kept, dropped := domain.RemoveMediaPaths(gallery, removed)
		if len(dropped) > 0 {
			gallery, galleryChanged = kept, true
			obsolete = append(obsolete, dropped...)
		}

		if img := existing.BusinessProfileImage; img != nil {
			if _, dropped := domain.RemoveMediaPaths([]string{*img}, removed); len(dropped) > 0 {
				change.next.BusinessProfileImage = nil
				change.set("business_profile_image")
				obsolete = append(obsolete, *img)
			}
		}
	}

	added, err := ledger.SaveAll(files.Gallery, filestorage.MediaGalleryDir)
	if err != nil {
		return nil, fmt.Errorf("saving media gallery: %w", err)
	}
	if len(added) > 0 {
		gallery, galleryChanged = append(gallery, normalizePaths(added)...), true
	}
	if galleryChanged {
		change.next.SetGallery(gallery)
		change.set("media_gallery")
		change.set("media_gallery_type")
	}

	image, err := ledger.Save(files.Image, filestorage.BusinessProfileImageDir)
	if err != nil {
		return nil, fmt.Errorf("saving business profile image: %w", err)
	}
	if image != "" {
		if old := change.next.BusinessProfileImage; old != nil {
			obsolete = append(obsolete, *old)
		}
		image = domain.NormalizePath(image)
		change.next.BusinessProfileImage = &image
		change.set("business_profile_image")
	}
	return obsolete, nil
}

func (s *businessProfileServiceImpl) UpdateStatus(ctx context.Context, id int64, req *dto.UpdateProfileStatusRequest) (*models.BusinessProfile, error) {
	status, ok := domain.ParseProfileStatus(req.Status)
	if !ok {
		return nil, apperrors.NewValidationError("invalid status %q", req.Status)
	}
	reason := helpers.TrimmedPtr(req.RejectionReason)
	if status == domain.ProfileStatusRejected && reason == nil {
		return nil, apperrors.ErrRejectionReasonRequired
	}
	if status != domain.ProfileStatusRejected {
		reason = nil
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		profile, err := tx.BusinessProfiles().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.BusinessProfiles().UpdateStatus(ctx, id, status, reason); err != nil {
			return err
		}
		return tx.Notifications().Create(ctx, statusNotification(profile, status, reason))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("profileID", id).Str("status", string(status)).Msg("Business profile moderated")
	return s.GetByID(ctx, id)
}

func statusNotification(p *models.BusinessProfile, status domain.ProfileStatus, reason *string) *models.Notification {
	name := "Your business profile"
	if p.CompanyName != nil {
		name = fmt.Sprintf("Your business profile %q", *p.CompanyName)
	}
	body := fmt.Sprintf("%s is now %s.", name, strings.ToLower(string(status)))
	if reason != nil {
		body += " Reason: " + *reason
	}
	return &models.Notification{
		MemberID: p.MemberID,
		Title:    "Business profile " + strings.ToLower(string(status)),
		Body:     body,
	}
}

func (s *businessProfileServiceImpl) Delete(ctx context.Context, id int64) error {
	var files []string
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		profile, err := tx.BusinessProfiles().GetByID(ctx, id)
		if err != nil {
			return err
		}
		files = profile.MediaPaths()
		return tx.BusinessProfiles().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	deleteObsolete(s.storage, files, s.logger)
	s.logger.Info().Int64("profileID", id).Msg("Business profile deleted")
	return nil
}
