package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"doc-authorizer/internal/domain"
)

type NotificationLogRepository interface {
	Create(ctx context.Context, log *domain.NotificationLog) error
	ListByNotification(ctx context.Context, notificationID int64) ([]domain.NotificationLog, error)
}

type notificationLogRepository struct {
	db *sqlx.DB
}

func NewNotificationLogRepository(db *sqlx.DB) NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

func (r *notificationLogRepository) Create(ctx context.Context, log *domain.NotificationLog) error {
	query := `
		INSERT INTO notification_logs (notification_id, action, detail)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.db.QueryRowxContext(ctx, query, log.NotificationID, log.Action, log.Detail).
		Scan(&log.ID, &log.CreatedAt)
}

func (r *notificationLogRepository) ListByNotification(ctx context.Context, notificationID int64) ([]domain.NotificationLog, error) {
	var logs []domain.NotificationLog
	query := `
		SELECT * FROM notification_logs
		WHERE notification_id = $1
		ORDER BY created_at, id`
	err := r.db.SelectContext(ctx, &logs, query, notificationID)
	return logs, err
}

// AppendLog records one audit row. An empty detail is stored as NULL.
func AppendLog(ctx context.Context, repo NotificationLogRepository, notificationID int64, action domain.LogAction, detail string) error {
	log := &domain.NotificationLog{
		NotificationID: notificationID,
		Action:         action,
	}
	if detail != "" {
		log.Detail = &detail
	}
	return repo.Create(ctx, log)
}
