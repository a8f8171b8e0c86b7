package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/pkg/logger"
)

// INotificationRepository defines notification persistence
type INotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByMemberID(ctx context.Context, memberID int64) ([]models.Notification, error)
	DeleteByMemberID(ctx context.Context, memberID int64) (int64, error)
}

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db, sb: statementBuilder}
}

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	sql, args, err := r.sb.Insert("notifications").
		Columns("member_id", "title", "body", "is_read").
		Values(n.MemberID, n.Title, n.Body, n.IsRead).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create notification query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("memberID", n.MemberID).Msg("Error executing create notification query")
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// ListByMemberID returns a member's notifications, newest first
func (r *NotificationRepository) ListByMemberID(ctx context.Context, memberID int64) ([]models.Notification, error) {
	sql, args, err := r.sb.Select("id", "member_id", "title", "body", "is_read", "created_at").
		From("notifications").
		Where(squirrel.Eq{"member_id": memberID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.MemberID, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// DeleteByMemberID removes all notifications of a member
func (r *NotificationRepository) DeleteByMemberID(ctx context.Context, memberID int64) (int64, error) {
	sql, args, err := r.sb.Delete("notifications").Where(squirrel.Eq{"member_id": memberID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete notifications query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("memberID", memberID).Msg("Error deleting notifications")
		return 0, fmt.Errorf("error deleting notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}
