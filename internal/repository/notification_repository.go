package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"doc-authorizer/internal/domain"
)

// StatusChange is a compare-and-set on a notification's status: it applies
// only while the stored status is one of From and the row is active.
type StatusChange struct {
	ID          int64
	From        []domain.NotificationStatus
	To          domain.NotificationStatus
	Reason      *string
	RespondedAt *time.Time
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id int64) (*domain.Notification, error)
	GetRecordByID(ctx context.Context, id int64) (*domain.NotificationRecord, error)
	GetByAccessToken(ctx context.Context, token string) (*domain.Notification, error)
	GetAwaitingReasonByChat(ctx context.Context, chatID int64) (*domain.Notification, error)
	ListPendingByAuthorizer(ctx context.Context, authorizerID int64) ([]domain.NotificationRecord, error)
	ListHistory(ctx context.Context, filter domain.HistoryFilter) ([]domain.NotificationRecord, error)
	MarkSent(ctx context.Context, id int64, chatID int64, messageID int, sentAt time.Time) error
	UpdateStatus(ctx context.Context, change StatusChange) (bool, error)
	SetCallbackSent(ctx context.Context, id int64, sent bool) error
	SetSolicitNotified(ctx context.Context, id int64) error
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

const recordColumns = `n.*, dt.code AS type_code, dt.description AS type_description`

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (document_type_id, document_id, folio, description, solicitor_id, authorizer_id, status, access_token, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	return r.db.QueryRowxContext(ctx, query,
		n.DocumentTypeID, n.DocumentID, n.Folio, n.Description, n.SolicitorID, n.AuthorizerID,
		n.Status, n.AccessToken, n.Active,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *notificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	var n domain.Notification
	query := `SELECT * FROM notifications WHERE id = $1`

	err := r.db.GetContext(ctx, &n, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) GetRecordByID(ctx context.Context, id int64) (*domain.NotificationRecord, error) {
	var rec domain.NotificationRecord
	query := `
		SELECT ` + recordColumns + `
		FROM notifications n
		JOIN document_types dt ON dt.id = n.document_type_id
		WHERE n.id = $1`

	err := r.db.GetContext(ctx, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *notificationRepository) GetByAccessToken(ctx context.Context, token string) (*domain.Notification, error) {
	var n domain.Notification
	query := `SELECT * FROM notifications WHERE access_token = $1 AND active = true`

	err := r.db.GetContext(ctx, &n, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) GetAwaitingReasonByChat(ctx context.Context, chatID int64) (*domain.Notification, error) {
	var n domain.Notification
	query := `
		SELECT * FROM notifications
		WHERE chat_id = $1 AND status = $2 AND active = true
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.GetContext(ctx, &n, query, chatID, domain.StatusAwaitingReason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) ListPendingByAuthorizer(ctx context.Context, authorizerID int64) ([]domain.NotificationRecord, error) {
	var records []domain.NotificationRecord
	query := `
		SELECT ` + recordColumns + `
		FROM notifications n
		JOIN document_types dt ON dt.id = n.document_type_id
		WHERE n.authorizer_id = $1 AND n.status = $2 AND n.active = true
		ORDER BY n.created_at DESC`

	err := r.db.SelectContext(ctx, &records, query, authorizerID, domain.StatusPending)
	return records, err
}

func (r *notificationRepository) ListHistory(ctx context.Context, filter domain.HistoryFilter) ([]domain.NotificationRecord, error) {
	filter.Normalize()

	conditions := []string{"n.active = true"}
	var args []interface{}

	if filter.SolicitorID != nil {
		args = append(args, *filter.SolicitorID)
		conditions = append(conditions, fmt.Sprintf("n.solicitor_id = $%d", len(args)))
	}
	if filter.AuthorizerID != nil {
		args = append(args, *filter.AuthorizerID)
		conditions = append(conditions, fmt.Sprintf("n.authorizer_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("n.status = $%d", len(args)))
	}
	args = append(args, filter.Limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM notifications n
		JOIN document_types dt ON dt.id = n.document_type_id
		WHERE %s
		ORDER BY n.created_at DESC
		LIMIT $%d`, recordColumns, strings.Join(conditions, " AND "), len(args))

	var records []domain.NotificationRecord
	err := r.db.SelectContext(ctx, &records, query, args...)
	return records, err
}

func (r *notificationRepository) MarkSent(ctx context.Context, id int64, chatID int64, messageID int, sentAt time.Time) error {
	query := `UPDATE notifications SET chat_id = $1, message_id = $2, sent_at = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, chatID, messageID, sentAt, id)
	return err
}

func (r *notificationRepository) UpdateStatus(ctx context.Context, change StatusChange) (bool, error) {
	if len(change.From) == 0 {
		return false, errors.New("status change needs at least one expected status")
	}

	from := make([]string, len(change.From))
	for i, s := range change.From {
		from[i] = string(s)
	}

	query := `
		UPDATE notifications
		SET status = $1,
			rejection_reason = COALESCE($2, rejection_reason),
			responded_at = COALESCE($3, responded_at)
		WHERE id = $4 AND active = true AND status = ANY($5)`

	result, err := r.db.ExecContext(ctx, query, change.To, change.Reason, change.RespondedAt, change.ID, pq.Array(from))
	// notifications_one_awaiting_per_chat rejects a second open prompt.
	if isUniqueViolation(err) {
		return false, domain.ErrReasonPending
	}
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *notificationRepository) SetCallbackSent(ctx context.Context, id int64, sent bool) error {
	query := `UPDATE notifications SET callback_sent = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, sent, id)
	return err
}

func (r *notificationRepository) SetSolicitNotified(ctx context.Context, id int64) error {
	query := `UPDATE notifications SET solicit_notified = true WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
