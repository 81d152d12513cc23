package domain

import (
	"strings"
	"time"
)

type NotificationStatus string

const (
	StatusPending        NotificationStatus = "PENDING"
	StatusAwaitingReason NotificationStatus = "AWAITING_REASON"
	StatusApproved       NotificationStatus = "APPROVED"
	StatusRejected       NotificationStatus = "REJECTED"
	StatusError          NotificationStatus = "ERROR"
)

func (s NotificationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusError
}

func (s NotificationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAwaitingReason, StatusApproved, StatusRejected, StatusError:
		return true
	}
	return false
}

type Notification struct {
	ID              int64              `json:"id" db:"id"`
	DocumentTypeID  int64              `json:"documentTypeId" db:"document_type_id"`
	DocumentID      int64              `json:"documentId" db:"document_id"`
	Folio           string             `json:"folio" db:"folio"`
	Description     *string            `json:"description,omitempty" db:"description"`
	SolicitorID     int64              `json:"solicitorId" db:"solicitor_id"`
	AuthorizerID    int64              `json:"authorizerId" db:"authorizer_id"`
	ChatID          *int64             `json:"chatId,omitempty" db:"chat_id"`
	MessageID       *int               `json:"messageId,omitempty" db:"message_id"`
	Status          NotificationStatus `json:"status" db:"status"`
	RejectionReason *string            `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CallbackSent    bool               `json:"callbackSent" db:"callback_sent"`
	SolicitNotified bool               `json:"solicitNotified" db:"solicit_notified"`
	AccessToken     string             `json:"-" db:"access_token"`
	Active          bool               `json:"active" db:"active"`
	CreatedAt       time.Time          `json:"createdAt" db:"created_at"`
	SentAt          *time.Time         `json:"sentAt,omitempty" db:"sent_at"`
	RespondedAt     *time.Time         `json:"respondedAt,omitempty" db:"responded_at"`
}

// HasMessage reports whether the authorization request reached the chat.
func (n *Notification) HasMessage() bool {
	return n.ChatID != nil && n.MessageID != nil
}

// Expired reports whether the public access token is past its window.
func (n *Notification) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(n.CreatedAt) > ttl
}

type SendNotificationInput struct {
	DocumentTypeCode string  `json:"documentTypeCode"`
	DocumentID       int64   `json:"documentId"`
	Folio            string  `json:"folio"`
	Description      *string `json:"description,omitempty"`
	SolicitorID      int64   `json:"solicitorId"`
	AuthorizerID     int64   `json:"authorizerId"`
}

func (in *SendNotificationInput) Validate() error {
	in.DocumentTypeCode = strings.TrimSpace(in.DocumentTypeCode)
	in.Folio = strings.TrimSpace(in.Folio)

	switch {
	case in.DocumentTypeCode == "":
		return NewValidationError("documentTypeCode", "documentTypeCode is required")
	case in.DocumentID <= 0:
		return NewValidationError("documentId", "documentId is required")
	case in.Folio == "":
		return NewValidationError("folio", "folio is required")
	case in.SolicitorID <= 0:
		return NewValidationError("solicitorId", "solicitorId is required")
	case in.AuthorizerID <= 0:
		return NewValidationError("authorizerId", "authorizerId is required")
	}
	return nil
}

type SendNotificationResult struct {
	Success        bool   `json:"success"`
	NotificationID int64  `json:"notificationId"`
	Message        string `json:"message"`
}

// NotificationRecord is a notification joined with its document type.
type NotificationRecord struct {
	Notification
	TypeCode        string `db:"type_code"`
	TypeDescription string `db:"type_description"`
}

type NotificationStatusView struct {
	ID               int64              `json:"id"`
	DocumentTypeCode string             `json:"documentType"`
	Folio            string             `json:"folio"`
	Status           NotificationStatus `json:"status"`
	RejectionReason  *string            `json:"rejectionReason"`
	CreatedAt        time.Time          `json:"createdAt"`
	RespondedAt      *time.Time         `json:"respondedAt"`
	SolicitorName    *string            `json:"solicitName"`
	AuthorizerName   *string            `json:"authorizeName"`
}

type PendingNotificationView struct {
	ID              int64     `json:"id"`
	DocumentType    string    `json:"documentType"`
	TypeDescription string    `json:"documentTypeDescription"`
	Folio           string    `json:"folio"`
	Description     *string   `json:"description"`
	SolicitorName   *string   `json:"solicitName"`
	CreatedAt       time.Time `json:"createdAt"`
	ViewURL         string    `json:"viewUrl"`
}

type HistoryFilter struct {
	SolicitorID  *int64
	AuthorizerID *int64
	Status       *NotificationStatus
	Limit        int
}

const MaxHistory = 100

func (f *HistoryFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > MaxHistory {
		f.Limit = MaxHistory
	}
}
