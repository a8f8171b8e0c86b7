package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/app/repositories"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
)

// FamilyService defines member family operations
type FamilyService interface {
	GetFamily(ctx context.Context, memberID int64) (*models.MemberFamily, error)
	// AddFamily fails with ErrFamilyAlreadyExists when the member has one.
	AddFamily(ctx context.Context, memberID int64, body dto.RawObject) (*models.MemberFamily, error)
	// UpsertFamily creates or replaces the member's family record.
	UpsertFamily(ctx context.Context, memberID int64, body dto.RawObject) (*models.MemberFamily, error)
	DeleteFamily(ctx context.Context, id int64) error
}

type familyServiceImpl struct {
	store      repositories.Store
	normalizer *Normalizer
	logger     zerolog.Logger
}

// NewFamilyService creates a new FamilyService
func NewFamilyService(store repositories.Store, normalizer *Normalizer, logger zerolog.Logger) FamilyService {
	return &familyServiceImpl{
		store:      store,
		normalizer: normalizer,
		logger:     logger,
	}
}

// shapeFamily applies the marital-status gate and warns when a children
// list is dropped for not matching the declared count.
func shapeFamily(in domain.FamilyInput, log zerolog.Logger) (domain.FamilyColumns, error) {
	cols, err := in.Shape()
	if err != nil {
		return domain.FamilyColumns{}, fmt.Errorf("encoding children names: %w", err)
	}
	if in.Married() && len(in.ChildrenNames) > 0 && cols.ChildrenNames == nil {
		declared := 0
		if in.NumberOfChildren != nil {
			declared = *in.NumberOfChildren
		}
		log.Warn().
			Int("declared", declared).
			Int("names", len(in.ChildrenNames)).
			Msg("Children names do not match number_of_children, not storing them")
	}
	return cols, nil
}

// writeFamily inserts a family record inside tx.
func writeFamily(ctx context.Context, tx repositories.Store, memberID int64, in domain.FamilyInput, log zerolog.Logger) (*models.MemberFamily, error) {
	cols, err := shapeFamily(in, log)
	if err != nil {
		return nil, err
	}
	family := &models.MemberFamily{MemberID: memberID, FamilyColumns: cols}
	if err := tx.Families().Create(ctx, family); err != nil {
		return nil, err
	}
	return family, nil
}

func (s *familyServiceImpl) parse(body dto.RawObject) (*domain.FamilyInput, error) {
	in, err := s.normalizer.Family(body)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, apperrors.NewValidationError("family details are required")
	}
	return in, nil
}

func (s *familyServiceImpl) GetFamily(ctx context.Context, memberID int64) (*models.MemberFamily, error) {
	if _, err := s.store.Members().GetByID(ctx, memberID); err != nil {
		return nil, err
	}
	return s.store.Families().GetByMemberID(ctx, memberID)
}

func (s *familyServiceImpl) AddFamily(ctx context.Context, memberID int64, body dto.RawObject) (*models.MemberFamily, error) {
	in, err := s.parse(body)
	if err != nil {
		return nil, err
	}

	var family *models.MemberFamily
	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Members().GetByID(ctx, memberID); err != nil {
			return err
		}
		_, err := tx.Families().GetByMemberID(ctx, memberID)
		switch {
		case err == nil:
			return apperrors.ErrFamilyAlreadyExists
		case !errors.Is(err, apperrors.ErrResourceNotFound):
			return err
		}

		family, err = writeFamily(ctx, tx, memberID, *in, s.logger)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("memberID", memberID).Int64("familyID", family.ID).Msg("Family details added")
	return family, nil
}

func (s *familyServiceImpl) UpsertFamily(ctx context.Context, memberID int64, body dto.RawObject) (*models.MemberFamily, error) {
	in, err := s.parse(body)
	if err != nil {
		return nil, err
	}

	var family *models.MemberFamily
	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Members().GetByID(ctx, memberID); err != nil {
			return err
		}
		existing, err := tx.Families().GetByMemberID(ctx, memberID)
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			family, err = writeFamily(ctx, tx, memberID, *in, s.logger)
			return err
		}
		if err != nil {
			return err
		}

		cols, err := shapeFamily(*in, s.logger)
		if err != nil {
			return err
		}
		existing.FamilyColumns = cols
		if err := tx.Families().Update(ctx, existing); err != nil {
			return err
		}
		family = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("memberID", memberID).Int64("familyID", family.ID).Msg("Family details saved")
	return family, nil
}

func (s *familyServiceImpl) DeleteFamily(ctx context.Context, id int64) error {
	if err := s.store.Families().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("familyID", id).Msg("Family details deleted")
	return nil
}
