package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/logger"
)

// IBusinessProfileRepository defines business profile persistence
type IBusinessProfileRepository interface {
	Create(ctx context.Context, profile *models.BusinessProfile) error
	GetByID(ctx context.Context, id int64) (*models.BusinessProfile, error)
	ListByMemberID(ctx context.Context, memberID int64) ([]models.BusinessProfile, error)
	// Update writes only the named columns of profile.
	Update(ctx context.Context, profile *models.BusinessProfile, columns []string) error
	UpdateStatus(ctx context.Context, id int64, status domain.ProfileStatus, rejectionReason *string) error
	Delete(ctx context.Context, id int64) error
}

// BusinessProfileRepository handles business profile database operations
type BusinessProfileRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewBusinessProfileRepository creates a new BusinessProfileRepository
func NewBusinessProfileRepository(db DBTX) *BusinessProfileRepository {
	return &BusinessProfileRepository{db: db, sb: statementBuilder}
}

// columnValue pairs a writable column with its value.
type columnValue struct {
	column string
	value  interface{}
}

// ProfileColumns lists every writable business profile column.
var ProfileColumns = func() []string {
	cols := make([]string, 0, 40)
	for _, cv := range profileColumnValues(&models.BusinessProfile{}) {
		cols = append(cols, cv.column)
	}
	return cols
}()

func profileColumnValues(p *models.BusinessProfile) []columnValue {
	return []columnValue{
		{"member_id", p.MemberID},
		{"business_type", p.BusinessType},
		{"category_id", p.CategoryID},
		{"company_name", p.CompanyName},
		{"email", p.Email},
		{"source", p.Source},
		{"tags", p.Tags},
		{"website", p.Website},
		{"facebook_link", p.FacebookLink},
		{"instagram_link", p.InstagramLink},
		{"linkedin_link", p.LinkedinLink},
		{"youtube_link", p.YoutubeLink},
		{"exclusive_member_benefit", p.ExclusiveMemberBenefit},
		{"business_registration_type", p.BusinessRegistrationType},
		{"about", p.About},
		{"company_address", p.CompanyAddress},
		{"city", p.City},
		{"state", p.State},
		{"zip_code", p.ZipCode},
		{"business_starting_year", p.BusinessStartingYear},
		{"work_contract", p.WorkContract},
		{"contact_number", p.ContactNumber},
		{"staff_size", p.StaffSize},
		{"experience", p.Experience},
		{"designation", p.Designation},
		{"salary", p.Salary},
		{"location", p.Location},
		{"business_profile_image", p.BusinessProfileImage},
		{"media_gallery", p.MediaGallery},
		{"media_gallery_type", p.MediaGalleryType},
		{"status", p.Status},
		{"rejection_reason", p.RejectionReason},
	}
}

var profileSelectColumns = append([]string{"id"}, append(append([]string{}, ProfileColumns...), "created_at", "updated_at")...)

func profileScanTargets(p *models.BusinessProfile) []interface{} {
	return []interface{}{
		&p.ID,
		&p.MemberID, &p.BusinessType, &p.CategoryID, &p.CompanyName,
		&p.Email, &p.Source, &p.Tags, &p.Website,
		&p.FacebookLink, &p.InstagramLink, &p.LinkedinLink, &p.YoutubeLink,
		&p.ExclusiveMemberBenefit, &p.BusinessRegistrationType, &p.About,
		&p.CompanyAddress, &p.City, &p.State, &p.ZipCode,
		&p.BusinessStartingYear, &p.WorkContract, &p.ContactNumber,
		&p.StaffSize, &p.Experience, &p.Designation, &p.Salary, &p.Location,
		&p.BusinessProfileImage, &p.MediaGallery, &p.MediaGalleryType,
		&p.Status, &p.RejectionReason,
		&p.CreatedAt, &p.UpdatedAt,
	}
}

// Create inserts a business profile with every column written
func (r *BusinessProfileRepository) Create(ctx context.Context, profile *models.BusinessProfile) error {
	cvs := profileColumnValues(profile)
	cols := make([]string, len(cvs))
	vals := make([]interface{}, len(cvs))
	for i, cv := range cvs {
		cols[i], vals[i] = cv.column, cv.value
	}

	sql, args, err := r.sb.Insert("business_profiles").
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create business profile SQL")
		return fmt.Errorf("failed to build create business profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("memberID", profile.MemberID).Msg("Error executing create business profile query")
		return fmt.Errorf("error creating business profile: %w", err)
	}
	return nil
}

// GetByID retrieves a business profile by ID
func (r *BusinessProfileRepository) GetByID(ctx context.Context, id int64) (*models.BusinessProfile, error) {
	sql, args, err := r.sb.Select(profileSelectColumns...).
		From("business_profiles").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get business profile query: %w", err)
	}

	profile := &models.BusinessProfile{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(profileScanTargets(profile)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBusinessProfileNotFound
		}
		logger.Error().Err(err).Int64("profileID", id).Msg("Error scanning business profile row")
		return nil, fmt.Errorf("error getting business profile: %w", err)
	}
	return profile, nil
}

// ListByMemberID returns a member's profiles in creation order
func (r *BusinessProfileRepository) ListByMemberID(ctx context.Context, memberID int64) ([]models.BusinessProfile, error) {
	sql, args, err := r.sb.Select(profileSelectColumns...).
		From("business_profiles").
		Where(squirrel.Eq{"member_id": memberID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list business profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("memberID", memberID).Msg("Error executing list business profiles query")
		return nil, fmt.Errorf("error listing business profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.BusinessProfile{}
	for rows.Next() {
		var p models.BusinessProfile
		if err := rows.Scan(profileScanTargets(&p)...); err != nil {
			return nil, fmt.Errorf("error scanning business profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating business profile rows: %w", err)
	}
	return profiles, nil
}

func (r *BusinessProfileRepository) updateQuery(profile *models.BusinessProfile, columns []string) (string, []interface{}, error) {
	wanted := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		wanted[c] = struct{}{}
	}

	set := make(map[string]interface{}, len(columns)+1)
	for _, cv := range profileColumnValues(profile) {
		if _, ok := wanted[cv.column]; ok {
			set[cv.column] = cv.value
		}
	}
	if len(set) != len(wanted) {
		return "", nil, fmt.Errorf("unknown business profile column in %v", columns)
	}
	set["updated_at"] = squirrel.Expr("NOW()")

	return r.sb.Update("business_profiles").
		SetMap(set).
		Where(squirrel.Eq{"id": profile.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
}

// Update writes the named columns of profile
func (r *BusinessProfileRepository) Update(ctx context.Context, profile *models.BusinessProfile, columns []string) error {
	sql, args, err := r.updateQuery(profile, columns)
	if err != nil {
		logger.Error().Err(err).Msg("Error building update business profile SQL")
		return fmt.Errorf("failed to build update business profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&profile.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrBusinessProfileNotFound
		}
		logger.Error().Err(err).Int64("profileID", profile.ID).Msg("Error executing update business profile query")
		return fmt.Errorf("error updating business profile: %w", err)
	}
	return nil
}

// UpdateStatus sets the moderation status
func (r *BusinessProfileRepository) UpdateStatus(ctx context.Context, id int64, status domain.ProfileStatus, rejectionReason *string) error {
	sql, args, err := r.sb.Update("business_profiles").
		Set("status", status).
		Set("rejection_reason", rejectionReason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update business profile status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("profileID", id).Msg("Error updating business profile status")
		return fmt.Errorf("error updating business profile status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrBusinessProfileNotFound
	}
	return nil
}

// Delete removes a business profile
func (r *BusinessProfileRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("business_profiles").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete business profile query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("profileID", id).Msg("Error deleting business profile")
		return fmt.Errorf("error deleting business profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrBusinessProfileNotFound
	}
	return nil
}
