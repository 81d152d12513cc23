package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/repository"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) GetByID(ctx context.Context, id int64) (*domain.DirectoryUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DirectoryUser), args.Error(1)
}

type DocumentTypeRepository struct {
	mock.Mock
}

func (m *DocumentTypeRepository) Create(ctx context.Context, dt *domain.DocumentType) error {
	args := m.Called(ctx, dt)
	return args.Error(0)
}

func (m *DocumentTypeRepository) GetByID(ctx context.Context, id int64) (*domain.DocumentType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentType), args.Error(1)
}

func (m *DocumentTypeRepository) GetActiveByCode(ctx context.Context, code string) (*domain.DocumentType, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentType), args.Error(1)
}

func (m *DocumentTypeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *DocumentTypeRepository) ListActive(ctx context.Context) ([]domain.DocumentType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentType), args.Error(1)
}

func (m *DocumentTypeRepository) Update(ctx context.Context, dt *domain.DocumentType) error {
	args := m.Called(ctx, dt)
	return args.Error(0)
}

func (m *DocumentTypeRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *DocumentTypeRepository) IsReferenced(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationRepository) GetRecordByID(ctx context.Context, id int64) (*domain.NotificationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationRecord), args.Error(1)
}

func (m *NotificationRepository) GetByAccessToken(ctx context.Context, token string) (*domain.Notification, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationRepository) GetAwaitingReasonByChat(ctx context.Context, chatID int64) (*domain.Notification, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationRepository) ListPendingByAuthorizer(ctx context.Context, authorizerID int64) ([]domain.NotificationRecord, error) {
	args := m.Called(ctx, authorizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationRecord), args.Error(1)
}

func (m *NotificationRepository) ListHistory(ctx context.Context, filter domain.HistoryFilter) ([]domain.NotificationRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationRecord), args.Error(1)
}

func (m *NotificationRepository) MarkSent(ctx context.Context, id int64, chatID int64, messageID int, sentAt time.Time) error {
	args := m.Called(ctx, id, chatID, messageID, sentAt)
	return args.Error(0)
}

func (m *NotificationRepository) UpdateStatus(ctx context.Context, change repository.StatusChange) (bool, error) {
	args := m.Called(ctx, change)
	return args.Bool(0), args.Error(1)
}

func (m *NotificationRepository) SetCallbackSent(ctx context.Context, id int64, sent bool) error {
	args := m.Called(ctx, id, sent)
	return args.Error(0)
}

func (m *NotificationRepository) SetSolicitNotified(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type NotificationLogRepository struct {
	mock.Mock
}

func (m *NotificationLogRepository) Create(ctx context.Context, log *domain.NotificationLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *NotificationLogRepository) ListByNotification(ctx context.Context, notificationID int64) ([]domain.NotificationLog, error) {
	args := m.Called(ctx, notificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationLog), args.Error(1)
}
