package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/pkg/logger"
	"doc-authorizer/internal/repository"
	"doc-authorizer/internal/service/directory"
)

// Service serves read-only projections of notifications.
type Service interface {
	GetStatus(ctx context.Context, id int64) (*domain.NotificationStatusView, error)
	ListPending(ctx context.Context, authorizerID int64) ([]domain.PendingNotificationView, error)
	History(ctx context.Context, filter domain.HistoryFilter) ([]domain.NotificationStatusView, error)
	Logs(ctx context.Context, id int64) ([]domain.NotificationLog, error)
}

type service struct {
	notifRepo     repository.NotificationRepository
	typeRepo      repository.DocumentTypeRepository
	logRepo       repository.NotificationLogRepository
	directory     directory.Service
	publicViewURL string
	log           *zap.Logger
}

func NewService(
	notifRepo repository.NotificationRepository,
	typeRepo repository.DocumentTypeRepository,
	logRepo repository.NotificationLogRepository,
	directory directory.Service,
	publicViewURL string,
	log *zap.Logger,
) Service {
	return &service{
		notifRepo:     notifRepo,
		typeRepo:      typeRepo,
		logRepo:       logRepo,
		directory:     directory,
		publicViewURL: publicViewURL,
		log:           logger.OrNop(log).Named("notification"),
	}
}

func (s *service) GetStatus(ctx context.Context, id int64) (*domain.NotificationStatusView, error) {
	rec, err := s.notifRepo.GetRecordByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, notFound(id)
	}

	view := s.statusView(ctx, rec, newNameCache(s.directory))
	return &view, nil
}

func (s *service) ListPending(ctx context.Context, authorizerID int64) ([]domain.PendingNotificationView, error) {
	records, err := s.notifRepo.ListPendingByAuthorizer(ctx, authorizerID)
	if err != nil {
		return nil, err
	}

	names := newNameCache(s.directory)
	types := map[int64]*domain.DocumentType{}
	result := make([]domain.PendingNotificationView, 0, len(records))

	for i := range records {
		rec := &records[i]

		dt, ok := types[rec.DocumentTypeID]
		if !ok {
			dt, err = s.typeRepo.GetByID(ctx, rec.DocumentTypeID)
			if err != nil {
				return nil, err
			}
			types[rec.DocumentTypeID] = dt
		}

		var viewURL string
		if dt != nil {
			viewURL = domain.ViewURL(s.publicViewURL, dt, &rec.Notification)
		} else {
			s.log.Warn("pending notification without document type",
				zap.Int64("notification_id", rec.ID), zap.Int64("document_type_id", rec.DocumentTypeID))
		}

		result = append(result, domain.PendingNotificationView{
			ID:              rec.ID,
			DocumentType:    rec.TypeCode,
			TypeDescription: rec.TypeDescription,
			Folio:           rec.Folio,
			Description:     rec.Description,
			SolicitorName:   names.lookup(ctx, rec.SolicitorID),
			CreatedAt:       rec.CreatedAt,
			ViewURL:         viewURL,
		})
	}
	return result, nil
}

func (s *service) History(ctx context.Context, filter domain.HistoryFilter) ([]domain.NotificationStatusView, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", *filter.Status))
	}
	filter.Normalize()

	records, err := s.notifRepo.ListHistory(ctx, filter)
	if err != nil {
		return nil, err
	}

	names := newNameCache(s.directory)
	result := make([]domain.NotificationStatusView, 0, len(records))
	for i := range records {
		result = append(result, s.statusView(ctx, &records[i], names))
	}
	return result, nil
}

func (s *service) Logs(ctx context.Context, id int64) ([]domain.NotificationLog, error) {
	n, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, notFound(id)
	}

	logs, err := s.logRepo.ListByNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.NotificationLog{}
	}
	return logs, nil
}

func (s *service) statusView(ctx context.Context, rec *domain.NotificationRecord, names *nameCache) domain.NotificationStatusView {
	return domain.NotificationStatusView{
		ID:               rec.ID,
		DocumentTypeCode: rec.TypeCode,
		Folio:            rec.Folio,
		Status:           rec.Status,
		RejectionReason:  rec.RejectionReason,
		CreatedAt:        rec.CreatedAt,
		RespondedAt:      rec.RespondedAt,
		SolicitorName:    names.lookup(ctx, rec.SolicitorID),
		AuthorizerName:   names.lookup(ctx, rec.AuthorizerID),
	}
}

func notFound(id int64) error {
	return domain.NewNotFoundError("notification", fmt.Sprintf("Notification %d not found", id))
}

// nameCache memoizes directory lookups for the duration of one request.
type nameCache struct {
	directory directory.Service
	names     map[int64]*string
}

func newNameCache(dir directory.Service) *nameCache {
	return &nameCache{directory: dir, names: map[int64]*string{}}
}

func (c *nameCache) lookup(ctx context.Context, id int64) *string {
	if name, ok := c.names[id]; ok {
		return name
	}
	name := c.directory.LookupName(ctx, id)
	c.names[id] = name
	return name
}
