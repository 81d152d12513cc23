package handler_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/handler"
	"doc-authorizer/internal/middleware"
	"doc-authorizer/internal/mocks"
)

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(nil)})
}

func decode(t *testing.T, r io.Reader, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(v))
}

func TestNotificationHandler_Send(t *testing.T) {
	approvals := new(mocks.ApprovalService)
	h := handler.NewNotificationHandler(approvals, new(mocks.NotificationService))
	app := newApp()
	app.Post("/send", h.Send)

	approvals.On("Create", mock.Anything, mock.MatchedBy(func(in domain.SendNotificationInput) bool {
		return in.DocumentTypeCode == "OC" && in.DocumentID == 10 && in.AuthorizerID == 7
	})).Return(&domain.SendNotificationResult{Success: true, NotificationID: 1, Message: "sent"}, nil)

	req := httptest.NewRequest("POST", "/send", strings.NewReader(
		`{"documentTypeCode":"OC","documentId":10,"folio":"OC-10","solicitorId":3,"authorizerId":7}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result domain.SendNotificationResult
	decode(t, resp.Body, &result)
	assert.True(t, result.Success)
	assert.Equal(t, int64(1), result.NotificationID)
	approvals.AssertExpectations(t)
}

func TestNotificationHandler_SendFailureIsBadGateway(t *testing.T) {
	approvals := new(mocks.ApprovalService)
	h := handler.NewNotificationHandler(approvals, new(mocks.NotificationService))
	app := newApp()
	app.Post("/send", h.Send)

	approvals.On("Create", mock.Anything, mock.Anything).
		Return(&domain.SendNotificationResult{Success: false, NotificationID: 4, Message: "failed"}, nil)

	req := httptest.NewRequest("POST", "/send", strings.NewReader(`{"documentTypeCode":"OC"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 502, resp.StatusCode)

	var result domain.SendNotificationResult
	decode(t, resp.Body, &result)
	assert.False(t, result.Success)
	assert.Equal(t, int64(4), result.NotificationID)
}

func TestNotificationHandler_SendRejectsMalformedBody(t *testing.T) {
	approvals := new(mocks.ApprovalService)
	h := handler.NewNotificationHandler(approvals, new(mocks.NotificationService))
	app := newApp()
	app.Post("/send", h.Send)

	req := httptest.NewRequest("POST", "/send", strings.NewReader(`{"documentId":`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	approvals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNotificationHandler_SendValidationError(t *testing.T) {
	approvals := new(mocks.ApprovalService)
	h := handler.NewNotificationHandler(approvals, new(mocks.NotificationService))
	app := newApp()
	app.Post("/send", h.Send)

	approvals.On("Create", mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError("folio", "folio is required"))

	req := httptest.NewRequest("POST", "/send", strings.NewReader(`{"documentTypeCode":"OC"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var body middleware.ErrorResponse
	decode(t, resp.Body, &body)
	assert.Equal(t, "folio", body.Field)
}

func TestNotificationHandler_GetStatus(t *testing.T) {
	notifications := new(mocks.NotificationService)
	h := handler.NewNotificationHandler(new(mocks.ApprovalService), notifications)
	app := newApp()
	app.Get("/:id", h.GetStatus)

	notifications.On("GetStatus", mock.Anything, int64(5)).
		Return(&domain.NotificationStatusView{ID: 5, Status: domain.StatusApproved}, nil)
	notifications.On("GetStatus", mock.Anything, int64(6)).
		Return(nil, domain.NewNotFoundError("notification", "Notification not found"))

	resp, err := app.Test(httptest.NewRequest("GET", "/5", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var view domain.NotificationStatusView
	decode(t, resp.Body, &view)
	assert.Equal(t, domain.StatusApproved, view.Status)

	resp, err = app.Test(httptest.NewRequest("GET", "/6", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestNotificationHandler_ListPending(t *testing.T) {
	notifications := new(mocks.NotificationService)
	h := handler.NewNotificationHandler(new(mocks.ApprovalService), notifications)
	app := newApp()
	app.Get("/pending/:userId", h.ListPending)

	notifications.On("ListPending", mock.Anything, int64(7)).Return([]domain.PendingNotificationView{
		{ID: 1, Folio: "OC-1", ViewURL: "https://view/abc"},
	}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/pending/7", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var pending []domain.PendingNotificationView
	decode(t, resp.Body, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, "https://view/abc", pending[0].ViewURL)
}

func TestNotificationHandler_HistoryParsesFilters(t *testing.T) {
	notifications := new(mocks.NotificationService)
	h := handler.NewNotificationHandler(new(mocks.ApprovalService), notifications)
	app := newApp()
	app.Get("/history", h.History)

	notifications.On("History", mock.Anything, mock.MatchedBy(func(f domain.HistoryFilter) bool {
		return f.SolicitorID != nil && *f.SolicitorID == 3 &&
			f.AuthorizerID == nil &&
			f.Status != nil && *f.Status == domain.StatusRejected
	})).Return([]domain.NotificationStatusView{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/history?idSolicit=3&status=rejected", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	notifications.AssertExpectations(t)

	resp, err = app.Test(httptest.NewRequest("GET", "/history?idAuthorize=x", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestNotificationHandler_Logs(t *testing.T) {
	notifications := new(mocks.NotificationService)
	h := handler.NewNotificationHandler(new(mocks.ApprovalService), notifications)
	app := newApp()
	app.Get("/:id/logs", h.Logs)

	notifications.On("Logs", mock.Anything, int64(2)).Return([]domain.NotificationLog{
		{ID: 1, NotificationID: 2, Action: domain.ActionCreated},
		{ID: 2, NotificationID: 2, Action: domain.ActionSent},
	}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/2/logs", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var logs []domain.NotificationLog
	decode(t, resp.Body, &logs)
	assert.Len(t, logs, 2)
}

func TestDocumentTypeHandler_CRUD(t *testing.T) {
	types := new(mocks.DocumentTypeService)
	h := handler.NewDocumentTypeHandler(types)
	app := newApp()
	app.Get("/", h.List)
	app.Get("/code/:code", h.GetByCode)
	app.Get("/:id", h.Get)
	app.Post("/", h.Create)
	app.Put("/:id", h.Update)
	app.Delete("/:id", h.Delete)

	dt := &domain.DocumentType{ID: 1, Code: "OC", Active: true}
	types.On("List", mock.Anything).Return([]domain.DocumentType{*dt}, nil)
	types.On("GetByCode", mock.Anything, "OC").Return(dt, nil)
	types.On("GetByID", mock.Anything, int64(1)).Return(dt, nil)
	types.On("Create", mock.Anything, mock.MatchedBy(func(in domain.DocumentTypeInput) bool {
		return in.Code == "OC"
	})).Return(dt, nil)
	types.On("Update", mock.Anything, int64(1), mock.Anything).
		Return(nil, &domain.ConflictError{Message: "Document type is referenced"})
	types.On("Deactivate", mock.Anything, int64(1)).Return(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/code/OC", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"code":"OC","description":"Orden","microservice":"warehouse","baseUrl":"http://wh"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	req = httptest.NewRequest("PUT", "/1", strings.NewReader(`{"code":"OC"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/1", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)

	types.AssertExpectations(t)
}

func TestTelegramHandler_WebhookAlwaysOK(t *testing.T) {
	router := new(mocks.WebhookRouter)
	h := handler.NewTelegramHandler(router)
	app := newApp()
	app.Post("/webhook", h.Webhook)

	body := `{"update_id":1}`
	router.On("Process", mock.Anything, "s3cret", []byte(body)).Return()

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "s3cret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	router.AssertExpectations(t)
}

func TestTelegramHandler_Health(t *testing.T) {
	h := handler.NewTelegramHandler(new(mocks.WebhookRouter))
	app := newApp()
	app.Get("/health", h.Health)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]interface{}
	decode(t, resp.Body, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestPublicHandler_View(t *testing.T) {
	views := new(mocks.PublicViewService)
	h := handler.NewPublicHandler(views)
	app := newApp()
	app.Get("/view/:token", h.View)

	views.On("View", mock.Anything, "good").Return(&domain.PublicView{}, nil)
	views.On("View", mock.Anything, "old").Return(nil, &domain.ExpiredError{Message: "Link expired"})

	resp, err := app.Test(httptest.NewRequest("GET", "/view/good", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/view/old", nil))
	require.NoError(t, err)
	assert.Equal(t, 410, resp.StatusCode)
}
