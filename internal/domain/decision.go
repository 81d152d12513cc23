package domain

import "time"

// CallbackPayload is sent to the origin service once a decision is final.
type CallbackPayload struct {
	DocumentID      int64              `json:"documentId"`
	Folio           string             `json:"folio"`
	Status          NotificationStatus `json:"status"`
	AuthorizerID    int64              `json:"idAuthorize"`
	AuthorizerName  string             `json:"authorizeName"`
	RejectionReason *string            `json:"rejectionReason"`
	RespondedAt     time.Time          `json:"respondedAt"`
}

// AuthorizationRequest is the content of the message that asks an approver
// to decide on a document.
type AuthorizationRequest struct {
	NotificationID  int64
	TypeDescription string
	Folio           string
	SolicitorName   string
	Description     string
	CreatedAt       time.Time
	ViewURL         string
}

// DecisionNotice tells the requester how their document was resolved.
type DecisionNotice struct {
	Approved        bool
	TypeDescription string
	Folio           string
	AuthorizerName  string
	Reason          string
	ViewURL         string
}
