package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/pkg/logger"
)

// IReferralRepository defines referral persistence
type IReferralRepository interface {
	Create(ctx context.Context, referral *models.Referral) error
	ListByReferrerID(ctx context.Context, referrerID int64) ([]models.Referral, error)
}

// ReferralRepository handles referral database operations
type ReferralRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewReferralRepository creates a new ReferralRepository
func NewReferralRepository(db DBTX) *ReferralRepository {
	return &ReferralRepository{db: db, sb: statementBuilder}
}

// Create inserts a referral
func (r *ReferralRepository) Create(ctx context.Context, referral *models.Referral) error {
	sql, args, err := r.sb.Insert("referrals").
		Columns("referrer_id", "referred_id", "referral_code", "reward_points").
		Values(referral.ReferrerID, referral.ReferredID, referral.ReferralCode, referral.RewardPoints).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create referral query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&referral.ID, &referral.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("referrerID", referral.ReferrerID).Msg("Error executing create referral query")
		return fmt.Errorf("error creating referral: %w", err)
	}
	return nil
}

// ListByReferrerID lists the referrals credited to a member
func (r *ReferralRepository) ListByReferrerID(ctx context.Context, referrerID int64) ([]models.Referral, error) {
	sql, args, err := r.sb.Select("id", "referrer_id", "referred_id", "referral_code", "reward_points", "created_at").
		From("referrals").
		Where(squirrel.Eq{"referrer_id": referrerID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list referrals query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing referrals: %w", err)
	}
	defer rows.Close()

	referrals := []models.Referral{}
	for rows.Next() {
		var ref models.Referral
		if err := rows.Scan(&ref.ID, &ref.ReferrerID, &ref.ReferredID, &ref.ReferralCode, &ref.RewardPoints, &ref.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning referral row: %w", err)
		}
		referrals = append(referrals, ref)
	}
	return referrals, rows.Err()
}
