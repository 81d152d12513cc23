package domain

import (
	"encoding/json"
	"time"
)

// DocumentView is the composite assembled for a human reviewer. Only Document
// is guaranteed; every other part is nil when its fetch failed or was skipped.
type DocumentView struct {
	Document        json.RawMessage `json:"document"`
	Details         json.RawMessage `json:"details"`
	CompanyData     json.RawMessage `json:"companyData"`
	ProviderData    json.RawMessage `json:"providerData"`
	Materials       json.RawMessage `json:"materials"`
	LogoBase64      *string         `json:"logoBase64"`
	Logo2Base64     *string         `json:"logo2Base64"`
	WatermarkBase64 *string         `json:"watermarkBase64"`
}

type PublicNotification struct {
	ID              int64              `json:"id"`
	Folio           string             `json:"folio"`
	Description     *string            `json:"description"`
	Status          NotificationStatus `json:"status"`
	RejectionReason *string            `json:"rejectionReason"`
	CreatedAt       time.Time          `json:"createdAt"`
	RespondedAt     *time.Time         `json:"respondedAt"`
	SolicitorName   *string            `json:"solicitName"`
	AuthorizerName  *string            `json:"authorizeName"`
}

type PublicDocumentType struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type PublicView struct {
	Notification PublicNotification `json:"notification"`
	DocumentType PublicDocumentType `json:"documentType"`
	DocumentData *DocumentView      `json:"documentData"`
}
