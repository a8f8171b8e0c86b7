package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/logger"
)

// IFamilyRepository defines member family persistence
type IFamilyRepository interface {
	Create(ctx context.Context, family *models.MemberFamily) error
	GetByID(ctx context.Context, id int64) (*models.MemberFamily, error)
	// GetByMemberID returns the member's family record or ErrFamilyNotFound.
	GetByMemberID(ctx context.Context, memberID int64) (*models.MemberFamily, error)
	Update(ctx context.Context, family *models.MemberFamily) error
	Delete(ctx context.Context, id int64) error
}

// FamilyRepository handles member_families database operations
type FamilyRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewFamilyRepository creates a new FamilyRepository
func NewFamilyRepository(db DBTX) *FamilyRepository {
	return &FamilyRepository{db: db, sb: statementBuilder}
}

var familyColumns = []string{
	"father_name", "father_contact", "mother_name", "mother_contact", "address",
	"marital_status", "spouse_name", "spouse_contact", "number_of_children", "children_names",
}

var familySelectColumns = append([]string{"id", "member_id"}, append(append([]string{}, familyColumns...), "created_at", "updated_at")...)

func familyValues(f *models.MemberFamily) []interface{} {
	return []interface{}{
		f.FatherName, f.FatherContact, f.MotherName, f.MotherContact, f.Address,
		f.MaritalStatus, f.SpouseName, f.SpouseContact, f.NumberOfChildren, f.ChildrenNames,
	}
}

func familyScanTargets(f *models.MemberFamily) []interface{} {
	return []interface{}{
		&f.ID, &f.MemberID,
		&f.FatherName, &f.FatherContact, &f.MotherName, &f.MotherContact, &f.Address,
		&f.MaritalStatus, &f.SpouseName, &f.SpouseContact, &f.NumberOfChildren, &f.ChildrenNames,
		&f.CreatedAt, &f.UpdatedAt,
	}
}

// Create inserts a family record
func (r *FamilyRepository) Create(ctx context.Context, family *models.MemberFamily) error {
	sql, args, err := r.sb.Insert("member_families").
		Columns(append([]string{"member_id"}, familyColumns...)...).
		Values(append([]interface{}{family.MemberID}, familyValues(family)...)...).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create family query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&family.ID, &family.CreatedAt, &family.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("memberID", family.MemberID).Msg("Error executing create family query")
		return fmt.Errorf("error creating family details: %w", err)
	}
	return nil
}

func (r *FamilyRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.MemberFamily, error) {
	sql, args, err := r.sb.Select(familySelectColumns...).
		From("member_families").
		Where(where).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get family query: %w", err)
	}

	f := &models.MemberFamily{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(familyScanTargets(f)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFamilyNotFound
		}
		logger.Error().Err(err).Msg("Error scanning family row")
		return nil, fmt.Errorf("error getting family details: %w", err)
	}
	return f, nil
}

// GetByID retrieves a family record by ID
func (r *FamilyRepository) GetByID(ctx context.Context, id int64) (*models.MemberFamily, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByMemberID retrieves the family record of a member
func (r *FamilyRepository) GetByMemberID(ctx context.Context, memberID int64) (*models.MemberFamily, error) {
	return r.getOne(ctx, squirrel.Eq{"member_id": memberID})
}

// Update replaces every column of a family record
func (r *FamilyRepository) Update(ctx context.Context, family *models.MemberFamily) error {
	values := familyValues(family)
	set := make(map[string]interface{}, len(familyColumns)+1)
	for i, col := range familyColumns {
		set[col] = values[i]
	}
	set["updated_at"] = squirrel.Expr("NOW()")

	sql, args, err := r.sb.Update("member_families").
		SetMap(set).
		Where(squirrel.Eq{"id": family.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update family query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&family.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrFamilyNotFound
		}
		logger.Error().Err(err).Int64("familyID", family.ID).Msg("Error executing update family query")
		return fmt.Errorf("error updating family details: %w", err)
	}
	return nil
}

// Delete removes a family record
func (r *FamilyRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("member_families").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete family query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting family details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrFamilyNotFound
	}
	return nil
}
