package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/dberrors"
	"github.com/yigit/memberdir/internal/pkg/logger"
)

// ICategoryRepository defines category persistence
type ICategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	// Create inserts a new category and fails with ErrCategoryNameTaken on
	// a duplicate name.
	Create(ctx context.Context, category *models.Category) error
	// Ensure returns the category with name, inserting it if necessary.
	Ensure(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository handles category database operations
type CategoryRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db DBTX) *CategoryRepository {
	return &CategoryRepository{db: db, sb: statementBuilder}
}

func (r *CategoryRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Category, error) {
	sql, args, err := r.sb.Select("id", "name", "created_at").
		From("categories").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get category query: %w", err)
	}

	c := &models.Category{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		logger.Error().Err(err).Msg("Error scanning category row")
		return nil, fmt.Errorf("error getting category: %w", err)
	}
	return c, nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByName retrieves a category by exact name
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

// Create inserts a category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	sql, args, err := r.sb.Insert("categories").
		Columns("name").
		Values(category.Name).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create category query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&category.ID, &category.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.CategoryNameConstraint) {
			return ErrCategoryNameTaken
		}
		logger.Error().Err(err).Str("name", category.Name).Msg("Error executing create category query")
		return fmt.Errorf("error creating category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) ensureQuery(name string) (string, []interface{}, error) {
	return r.sb.Insert("categories").
		Columns("name").
		Values(name).
		Suffix("ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id, name, created_at").
		ToSql()
}

// Ensure inserts the category unless it exists, returning the stored row
// either way. The no-op update makes RETURNING yield the existing row.
func (r *CategoryRepository) Ensure(ctx context.Context, name string) (*models.Category, error) {
	sql, args, err := r.ensureQuery(name)
	if err != nil {
		return nil, fmt.Errorf("failed to build ensure category query: %w", err)
	}

	c := &models.Category{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		logger.Error().Err(err).Str("name", name).Msg("Error executing ensure category query")
		return nil, fmt.Errorf("error ensuring category: %w", err)
	}
	return c, nil
}

// List returns all categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	sql, args, err := r.sb.Select("id", "name", "created_at").
		From("categories").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list categories query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list categories query")
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

// Delete removes a category; profiles referencing it keep a NULL category_id
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("categories").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete category query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("categoryID", id).Msg("Error deleting category")
		return fmt.Errorf("error deleting category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
