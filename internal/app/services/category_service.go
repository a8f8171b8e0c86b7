package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/app/repositories"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
)

// CategoryService defines category operations
type CategoryService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	// CreateCategory returns the existing category when the name is taken.
	// created reports whether a new row was inserted.
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (category *models.Category, created bool, err error)
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryServiceImpl struct {
	categories repositories.ICategoryRepository
	logger     zerolog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(store repositories.Store, logger zerolog.Logger) CategoryService {
	return &categoryServiceImpl{
		categories: store.Categories(),
		logger:     logger,
	}
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*models.Category, bool, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, false, apperrors.NewValidationError("category name is required")
	}

	category := &models.Category{Name: name}
	err := s.categories.Create(ctx, category)
	if errors.Is(err, repositories.ErrCategoryNameTaken) {
		existing, err := s.categories.GetByName(ctx, name)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.logger.Info().Int64("categoryID", category.ID).Str("name", name).Msg("Category created")
	return category, true, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("categoryID", id).Msg("Category deleted")
	return nil
}
