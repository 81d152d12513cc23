package domain

import "time"

type LogAction string

const (
	ActionCreated         LogAction = "CREATED"
	ActionSent            LogAction = "SENT"
	ActionDelivered       LogAction = "DELIVERED"
	ActionApproved        LogAction = "APPROVED"
	ActionRejected        LogAction = "REJECTED"
	ActionCallbackSent    LogAction = "CALLBACK_SENT"
	ActionCallbackFailed  LogAction = "CALLBACK_FAILED"
	ActionSolicitNotified LogAction = "SOLICIT_NOTIFIED"
	ActionError           LogAction = "ERROR"
)

// NotificationLog is an append-only audit row.
type NotificationLog struct {
	ID             int64     `json:"id" db:"id"`
	NotificationID int64     `json:"notificationId" db:"notification_id"`
	Action         LogAction `json:"action" db:"action"`
	Detail         *string   `json:"detail,omitempty" db:"detail"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
