package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"doc-authorizer/internal/domain"
)

type DirectoryService struct {
	mock.Mock
}

func (m *DirectoryService) GetUser(ctx context.Context, id int64) (*domain.DirectoryUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DirectoryUser), args.Error(1)
}

func (m *DirectoryService) DisplayName(ctx context.Context, id int64) string {
	args := m.Called(ctx, id)
	return args.String(0)
}

func (m *DirectoryService) LookupName(ctx context.Context, id int64) *string {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*string)
}

type MessagingGateway struct {
	mock.Mock
}

func (m *MessagingGateway) SendAuthorizationRequest(ctx context.Context, chatID int64, req domain.AuthorizationRequest) (int, bool) {
	args := m.Called(ctx, chatID, req)
	return args.Int(0), args.Bool(1)
}

func (m *MessagingGateway) SendDecision(ctx context.Context, chatID int64, notice domain.DecisionNotice) bool {
	args := m.Called(ctx, chatID, notice)
	return args.Bool(0)
}

func (m *MessagingGateway) AskRejectionReason(ctx context.Context, chatID int64) bool {
	args := m.Called(ctx, chatID)
	return args.Bool(0)
}

func (m *MessagingGateway) MarkProcessed(ctx context.Context, chatID int64, messageID int, approved bool, reason string) bool {
	args := m.Called(ctx, chatID, messageID, approved, reason)
	return args.Bool(0)
}

func (m *MessagingGateway) AnswerInteraction(ctx context.Context, interactionID, text string) bool {
	args := m.Called(ctx, interactionID, text)
	return args.Bool(0)
}

func (m *MessagingGateway) SendText(ctx context.Context, chatID int64, text string) bool {
	args := m.Called(ctx, chatID, text)
	return args.Bool(0)
}

type CallbackDispatcher struct {
	mock.Mock
}

func (m *CallbackDispatcher) Notify(ctx context.Context, dt *domain.DocumentType, payload domain.CallbackPayload) bool {
	args := m.Called(ctx, dt, payload)
	return args.Bool(0)
}

type EmailService struct {
	mock.Mock
}

func (m *EmailService) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *EmailService) SendDecision(ctx context.Context, toEmail, recipientName string, notice domain.DecisionNotice) error {
	args := m.Called(ctx, toEmail, recipientName, notice)
	return args.Error(0)
}

type Aggregator struct {
	mock.Mock
}

func (m *Aggregator) Aggregate(ctx context.Context, dt *domain.DocumentType, documentID int64) (*domain.DocumentView, error) {
	args := m.Called(ctx, dt, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentView), args.Error(1)
}

type ApprovalService struct {
	mock.Mock
}

func (m *ApprovalService) Create(ctx context.Context, input domain.SendNotificationInput) (*domain.SendNotificationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SendNotificationResult), args.Error(1)
}

func (m *ApprovalService) Approve(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ApprovalService) RequestRejectionReason(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ApprovalService) RejectWithReason(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *ApprovalService) FindAwaitingReasonByChat(ctx context.Context, chatID int64) (*domain.Notification, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) GetStatus(ctx context.Context, id int64) (*domain.NotificationStatusView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationStatusView), args.Error(1)
}

func (m *NotificationService) ListPending(ctx context.Context, authorizerID int64) ([]domain.PendingNotificationView, error) {
	args := m.Called(ctx, authorizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingNotificationView), args.Error(1)
}

func (m *NotificationService) History(ctx context.Context, filter domain.HistoryFilter) ([]domain.NotificationStatusView, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationStatusView), args.Error(1)
}

func (m *NotificationService) Logs(ctx context.Context, id int64) ([]domain.NotificationLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationLog), args.Error(1)
}

type DocumentTypeService struct {
	mock.Mock
}

func (m *DocumentTypeService) List(ctx context.Context) ([]domain.DocumentType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentType), args.Error(1)
}

func (m *DocumentTypeService) GetByID(ctx context.Context, id int64) (*domain.DocumentType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentType), args.Error(1)
}

func (m *DocumentTypeService) GetByCode(ctx context.Context, code string) (*domain.DocumentType, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentType), args.Error(1)
}

func (m *DocumentTypeService) Create(ctx context.Context, input domain.DocumentTypeInput) (*domain.DocumentType, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentType), args.Error(1)
}

func (m *DocumentTypeService) Update(ctx context.Context, id int64, input domain.DocumentTypeInput) (*domain.DocumentType, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentType), args.Error(1)
}

func (m *DocumentTypeService) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type PublicViewService struct {
	mock.Mock
}

func (m *PublicViewService) View(ctx context.Context, token string) (*domain.PublicView, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicView), args.Error(1)
}

type WebhookRouter struct {
	mock.Mock
}

func (m *WebhookRouter) Process(ctx context.Context, secret string, body []byte) {
	m.Called(ctx, secret, body)
}
