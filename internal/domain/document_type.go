package domain

import (
	"strconv"
	"strings"
	"time"
)

// DocumentType describes how to reach and label one class of documents.
type DocumentType struct {
	ID               int64     `json:"id" db:"id"`
	Code             string    `json:"code" db:"code"`
	Description      string    `json:"description" db:"description"`
	Microservice     string    `json:"microservice" db:"microservice"`
	BaseURL          string    `json:"baseUrl" db:"base_url"`
	CallbackEndpoint string    `json:"callbackEndpoint" db:"callback_endpoint"`
	ViewURL          *string   `json:"viewUrl,omitempty" db:"view_url"`
	Active           bool      `json:"active" db:"active"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

type DocumentTypeInput struct {
	ID               int64   `json:"id"`
	Code             string  `json:"code"`
	Description      string  `json:"description"`
	Microservice     string  `json:"microservice"`
	BaseURL          string  `json:"baseUrl"`
	CallbackEndpoint string  `json:"callbackEndpoint"`
	ViewURL          *string `json:"viewUrl,omitempty"`
	Active           *bool   `json:"active,omitempty"`
}

func (in *DocumentTypeInput) Normalize() {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Description = strings.TrimSpace(in.Description)
	in.BaseURL = strings.TrimRight(strings.TrimSpace(in.BaseURL), "/")
	in.CallbackEndpoint = strings.TrimSpace(in.CallbackEndpoint)
}

func (in DocumentTypeInput) Validate() error {
	switch {
	case in.Code == "":
		return NewValidationError("code", "code is required")
	case in.Description == "":
		return NewValidationError("description", "description is required")
	case in.Microservice == "":
		return NewValidationError("microservice", "microservice is required")
	case in.BaseURL == "":
		return NewValidationError("baseUrl", "baseUrl is required")
	case !strings.Contains(in.CallbackEndpoint, "{id}"):
		return NewValidationError("callbackEndpoint", "callbackEndpoint must contain the {id} placeholder")
	}
	return nil
}

// ViewURL is the link shown next to an authorization request. A configured
// public base wins, then the type's template, then {baseUrl}/view/{id}.
func ViewURL(publicBase string, dt *DocumentType, n *Notification) string {
	if publicBase != "" && n.AccessToken != "" {
		return strings.TrimRight(publicBase, "/") + "/" + n.AccessToken
	}

	documentID := strconv.FormatInt(n.DocumentID, 10)
	if dt.ViewURL != nil && strings.TrimSpace(*dt.ViewURL) != "" {
		return strings.NewReplacer(
			"{folio}", n.Folio,
			"{id}", documentID,
			"{token}", n.AccessToken,
		).Replace(*dt.ViewURL)
	}
	return strings.TrimRight(dt.BaseURL, "/") + "/view/" + documentID
}
