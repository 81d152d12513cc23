package publicview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/pkg/i18n"
	"doc-authorizer/internal/pkg/logger"
	"doc-authorizer/internal/repository"
	"doc-authorizer/internal/service/aggregator"
	"doc-authorizer/internal/service/directory"
)

// Service renders the read-only page behind a notification's access token.
// It never changes notification state.
type Service interface {
	View(ctx context.Context, token string) (*domain.PublicView, error)
}

type Options struct {
	TokenTTL time.Duration
	CacheTTL time.Duration
	Locale   string
}

type service struct {
	notifRepo  repository.NotificationRepository
	typeRepo   repository.DocumentTypeRepository
	directory  directory.Service
	aggregator aggregator.Service
	redis      *redis.Client
	opts       Options
	now        func() time.Time
	log        *zap.Logger
}

func NewService(
	notifRepo repository.NotificationRepository,
	typeRepo repository.DocumentTypeRepository,
	directory directory.Service,
	aggregator aggregator.Service,
	redis *redis.Client,
	opts Options,
	log *zap.Logger,
) Service {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 72 * time.Hour
	}
	return &service{
		notifRepo:  notifRepo,
		typeRepo:   typeRepo,
		directory:  directory,
		aggregator: aggregator,
		redis:      redis,
		opts:       opts,
		now:        time.Now,
		log:        logger.OrNop(log).Named("publicview"),
	}
}

func cacheKey(notificationID int64) string {
	return fmt.Sprintf("publicview:document:%d", notificationID)
}

func (s *service) View(ctx context.Context, token string) (*domain.PublicView, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.NewValidationError("token", "token is required")
	}

	n, err := s.notifRepo.GetByAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.NewNotFoundError("link", i18n.Translate(s.opts.Locale, "ERR_LINK_NOT_FOUND"))
	}
	if n.Expired(s.now(), s.opts.TokenTTL) {
		return nil, &domain.ExpiredError{Message: i18n.Translate(s.opts.Locale, "ERR_LINK_EXPIRED")}
	}

	dt, err := s.typeRepo.GetByID(ctx, n.DocumentTypeID)
	if err != nil {
		return nil, err
	}
	if dt == nil {
		return nil, domain.NewNotFoundError("document type", "Document type not found")
	}

	return &domain.PublicView{
		Notification: domain.PublicNotification{
			ID:              n.ID,
			Folio:           n.Folio,
			Description:     n.Description,
			Status:          n.Status,
			RejectionReason: n.RejectionReason,
			CreatedAt:       n.CreatedAt,
			RespondedAt:     n.RespondedAt,
			SolicitorName:   s.directory.LookupName(ctx, n.SolicitorID),
			AuthorizerName:  s.directory.LookupName(ctx, n.AuthorizerID),
		},
		DocumentType: domain.PublicDocumentType{
			Code:        dt.Code,
			Description: dt.Description,
		},
		DocumentData: s.documentData(ctx, n, dt),
	}, nil
}

// documentData returns nil when the document could not be assembled; the
// page still renders the notification summary.
func (s *service) documentData(ctx context.Context, n *domain.Notification, dt *domain.DocumentType) *domain.DocumentView {
	useCache := s.redis != nil && s.opts.CacheTTL > 0

	if useCache {
		if cached, err := s.redis.Get(ctx, cacheKey(n.ID)).Bytes(); err == nil {
			var view domain.DocumentView
			if json.Unmarshal(cached, &view) == nil {
				return &view
			}
		}
	}

	view, err := s.aggregator.Aggregate(ctx, dt, n.DocumentID)
	if err != nil {
		s.log.Warn("document could not be assembled",
			zap.Int64("notification_id", n.ID), zap.String("code", dt.Code), zap.Error(err))
		return nil
	}
	if view == nil {
		return nil
	}

	if useCache {
		if data, err := json.Marshal(view); err == nil {
			if err := s.redis.Set(ctx, cacheKey(n.ID), data, s.opts.CacheTTL).Err(); err != nil {
				s.log.Debug("view cache write failed", zap.Int64("notification_id", n.ID), zap.Error(err))
			}
		}
	}
	return view
}
