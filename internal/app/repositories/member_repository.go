package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/helpers"
	"github.com/yigit/memberdir/internal/pkg/dberrors"
	"github.com/yigit/memberdir/internal/pkg/logger"
)

// IMemberRepository defines the member persistence operations
type IMemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id int64) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	GetByApplicationID(ctx context.Context, applicationID string) (*models.Member, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, page helpers.Page) ([]models.Member, int64, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id int64) error

	// IncrementRewardPoints adds points with a single UPDATE so concurrent
	// credits to the same member are never lost.
	IncrementRewardPoints(ctx context.Context, id int64, points int) error
	// ExpireMembership resets one member if its paid window ended before now.
	ExpireMembership(ctx context.Context, id int64, now time.Time) (bool, error)
	// ExpireMemberships resets every member whose paid window ended before now.
	ExpireMemberships(ctx context.Context, now time.Time) (int64, error)
}

// MemberRepository handles member database operations
type MemberRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db DBTX) *MemberRepository {
	return &MemberRepository{db: db, sb: statementBuilder}
}

var memberColumns = []string{
	"application_id", "first_name", "last_name", "email", "password",
	"mobile_no", "gender", "date_of_birth", "address", "city", "state", "zip_code",
	"profile_image", "referral_name", "status", "access_level", "paid_status",
	"membership_valid_until", "online_forum_member", "offline_forum_member", "reward_points",
}

var memberSelectColumns = append([]string{"id"}, append(memberColumns, "created_at", "updated_at")...)

func memberValues(m *models.Member) []interface{} {
	return []interface{}{
		m.ApplicationID, m.FirstName, m.LastName, m.Email, m.Password,
		m.MobileNo, m.Gender, m.DateOfBirth, m.Address, m.City, m.State, m.ZipCode,
		m.ProfileImage, m.ReferralName, m.Status, m.AccessLevel, m.PaidStatus,
		m.MembershipValidUntil, m.OnlineForumMember, m.OfflineForumMember, m.RewardPoints,
	}
}

func memberScanTargets(m *models.Member) []interface{} {
	return []interface{}{
		&m.ID,
		&m.ApplicationID, &m.FirstName, &m.LastName, &m.Email, &m.Password,
		&m.MobileNo, &m.Gender, &m.DateOfBirth, &m.Address, &m.City, &m.State, &m.ZipCode,
		&m.ProfileImage, &m.ReferralName, &m.Status, &m.AccessLevel, &m.PaidStatus,
		&m.MembershipValidUntil, &m.OnlineForumMember, &m.OfflineForumMember, &m.RewardPoints,
		&m.CreatedAt, &m.UpdatedAt,
	}
}

// Create inserts a member and fills in ID and timestamps
func (r *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	sql, args, err := r.sb.Insert("members").
		Columns(memberColumns...).
		Values(memberValues(member)...).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create member SQL")
		return fmt.Errorf("failed to build create member query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.MemberEmailConstraint) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", member.Email).Msg("Error executing create member query")
		return fmt.Errorf("error creating member: %w", err)
	}
	return nil
}

func (r *MemberRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Member, error) {
	sql, args, err := r.sb.Select(memberSelectColumns...).
		From("members").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get member query: %w", err)
	}

	member := &models.Member{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(memberScanTargets(member)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMemberNotFound
		}
		logger.Error().Err(err).Msg("Error scanning member row")
		return nil, fmt.Errorf("error getting member: %w", err)
	}
	return member, nil
}

// GetByID retrieves a member by ID
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a member by email
func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

// GetByApplicationID resolves a referral code
func (r *MemberRepository) GetByApplicationID(ctx context.Context, applicationID string) (*models.Member, error) {
	return r.getOne(ctx, squirrel.Eq{"application_id": applicationID})
}

// EmailExists checks whether a member already uses email
func (r *MemberRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("members").
		Where(squirrel.Eq{"email": email}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error checking member email")
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// List returns one page of members and the total count
func (r *MemberRepository) List(ctx context.Context, page helpers.Page) ([]models.Member, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("members").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count members query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting members: %w", err)
	}

	sql, args, err := r.listQuery(page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list members query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list members query")
		return nil, 0, fmt.Errorf("error listing members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(memberScanTargets(&m)...); err != nil {
			return nil, 0, fmt.Errorf("error scanning member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating member rows: %w", err)
	}
	return members, total, nil
}

func (r *MemberRepository) listQuery(page helpers.Page) (string, []interface{}, error) {
	return page.Apply(r.sb.Select(memberSelectColumns...).From("members").OrderBy("id ASC")).ToSql()
}

// Update writes the editable scalar columns of member and reloads its reward points
func (r *MemberRepository) Update(ctx context.Context, member *models.Member) error {
	sql, args, err := r.updateQuery(member)
	if err != nil {
		return fmt.Errorf("failed to build update member query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&member.RewardPoints, &member.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrMemberNotFound
		}
		if dberrors.IsDuplicateConstraintError(err, dberrors.MemberEmailConstraint) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Int64("memberID", member.ID).Msg("Error executing update member query")
		return fmt.Errorf("error updating member: %w", err)
	}
	return nil
}

// immutableMemberColumns are never written by Update. reward_points only
// moves through IncrementRewardPoints so a stale read cannot undo a credit.
var immutableMemberColumns = map[string]bool{"application_id": true, "reward_points": true}

func (r *MemberRepository) updateQuery(member *models.Member) (string, []interface{}, error) {
	values := memberValues(member)
	set := make(map[string]interface{}, len(memberColumns))
	for i, col := range memberColumns {
		if !immutableMemberColumns[col] {
			set[col] = values[i]
		}
	}
	set["updated_at"] = squirrel.Expr("NOW()")

	return r.sb.Update("members").
		SetMap(set).
		Where(squirrel.Eq{"id": member.ID}).
		Suffix("RETURNING reward_points, updated_at").
		ToSql()
}

// Delete removes a member. Business profiles and family rows cascade.
func (r *MemberRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("members").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete member query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewConflictError("member still has dependent records")
		}
		logger.Error().Err(err).Int64("memberID", id).Msg("Error executing delete member query")
		return fmt.Errorf("error deleting member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) incrementRewardPointsQuery(id int64, points int) (string, []interface{}, error) {
	return r.sb.Update("members").
		Set("reward_points", squirrel.Expr("reward_points + ?", points)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
}

// IncrementRewardPoints adds points to the member's accumulator
func (r *MemberRepository) IncrementRewardPoints(ctx context.Context, id int64, points int) error {
	sql, args, err := r.incrementRewardPointsQuery(id, points)
	if err != nil {
		return fmt.Errorf("failed to build increment reward points query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("memberID", id).Msg("Error incrementing reward points")
		return fmt.Errorf("error incrementing reward points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) expireQuery(now time.Time, where squirrel.Sqlizer) (string, []interface{}, error) {
	q := r.sb.Update("members").
		Set("paid_status", domain.PaidStatusUnpaid).
		Set("membership_valid_until", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"paid_status": domain.PaidStatusPaid}).
		Where(squirrel.Lt{"membership_valid_until": now})
	if where != nil {
		q = q.Where(where)
	}
	return q.ToSql()
}

// ExpireMembership resets a single lapsed membership
func (r *MemberRepository) ExpireMembership(ctx context.Context, id int64, now time.Time) (bool, error) {
	sql, args, err := r.expireQuery(now, squirrel.Eq{"id": id})
	if err != nil {
		return false, fmt.Errorf("failed to build expire membership query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error expiring membership: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ExpireMemberships resets all lapsed memberships in one statement
func (r *MemberRepository) ExpireMemberships(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.expireQuery(now, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build expire memberships query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing expire memberships query")
		return 0, fmt.Errorf("error expiring memberships: %w", err)
	}
	return tag.RowsAffected(), nil
}
