package approval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/pkg/i18n"
	"doc-authorizer/internal/pkg/logger"
	"doc-authorizer/internal/pkg/metrics"
	"doc-authorizer/internal/repository"
	"doc-authorizer/internal/service/callback"
	"doc-authorizer/internal/service/directory"
	"doc-authorizer/internal/service/email"
	"doc-authorizer/internal/service/messaging"
)

// Service owns the notification lifecycle.
//
//	PENDING -> AWAITING_REASON -> REJECTED
//	PENDING -> APPROVED
//	PENDING -> ERROR (request message could not be delivered)
//
// Every transition is a compare-and-set on the stored status, so concurrent
// attempts on one notification run the side effects at most once.
type Service interface {
	Create(ctx context.Context, input domain.SendNotificationInput) (*domain.SendNotificationResult, error)
	Approve(ctx context.Context, id int64) error
	RequestRejectionReason(ctx context.Context, id int64) error
	RejectWithReason(ctx context.Context, id int64, reason string) error
	// FindAwaitingReasonByChat returns nil, nil when the chat has no open
	// rejection prompt.
	FindAwaitingReasonByChat(ctx context.Context, chatID int64) (*domain.Notification, error)
}

type Dependencies struct {
	Notifications repository.NotificationRepository
	DocumentTypes repository.DocumentTypeRepository
	Logs          repository.NotificationLogRepository
	Directory     directory.Service
	Gateway       messaging.Gateway
	Callbacks     callback.Dispatcher
	Email         email.Service
}

type Options struct {
	PublicViewURL string
	Locale        string
}

type service struct {
	notifications repository.NotificationRepository
	documentTypes repository.DocumentTypeRepository
	logs          repository.NotificationLogRepository
	directory     directory.Service
	gateway       messaging.Gateway
	callbacks     callback.Dispatcher
	email         email.Service
	opts          Options
	now           func() time.Time
	log           *zap.Logger
}

func NewService(deps Dependencies, opts Options, log *zap.Logger) Service {
	return &service{
		notifications: deps.Notifications,
		documentTypes: deps.DocumentTypes,
		logs:          deps.Logs,
		directory:     deps.Directory,
		gateway:       deps.Gateway,
		callbacks:     deps.Callbacks,
		email:         deps.Email,
		opts:          opts,
		now:           time.Now,
		log:           logger.OrNop(log).Named("approval"),
	}
}

func (s *service) t(key string, args ...interface{}) string {
	if len(args) == 0 {
		return i18n.Translate(s.opts.Locale, key)
	}
	return i18n.Translatef(s.opts.Locale, key, args...)
}

func (s *service) Create(ctx context.Context, input domain.SendNotificationInput) (*domain.SendNotificationResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	dt, err := s.documentTypes.GetActiveByCode(ctx, input.DocumentTypeCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load document type: %w", err)
	}
	if dt == nil {
		return nil, domain.NewValidationError("documentTypeCode", s.t("ERR_DOCUMENT_TYPE_NOT_FOUND", input.DocumentTypeCode))
	}

	authorizer, err := s.directory.GetUser(ctx, input.AuthorizerID)
	if err != nil {
		return nil, err
	}
	chatID, reachable := authorizer.ChatID()
	if !reachable {
		return nil, domain.NewValidationError("authorizerId", s.t("ERR_AUTHORIZER_UNREACHABLE", input.AuthorizerID))
	}

	solicitorName := s.directory.DisplayName(ctx, input.SolicitorID)

	n := &domain.Notification{
		DocumentTypeID: dt.ID,
		DocumentID:     input.DocumentID,
		Folio:          input.Folio,
		Description:    input.Description,
		SolicitorID:    input.SolicitorID,
		AuthorizerID:   input.AuthorizerID,
		Status:         domain.StatusPending,
		AccessToken:    newAccessToken(),
		Active:         true,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	s.audit(ctx, n.ID, domain.ActionCreated, fmt.Sprintf("Notification created for %s %s", dt.Code, n.Folio))

	log := s.log.With(zap.Int64("notification_id", n.ID), zap.String("code", dt.Code), zap.String("folio", n.Folio))

	description := ""
	if n.Description != nil {
		description = *n.Description
	}
	messageID, sent := s.gateway.SendAuthorizationRequest(ctx, chatID, domain.AuthorizationRequest{
		NotificationID:  n.ID,
		TypeDescription: dt.Description,
		Folio:           n.Folio,
		SolicitorName:   solicitorName,
		Description:     description,
		CreatedAt:       n.CreatedAt,
		ViewURL:         domain.ViewURL(s.opts.PublicViewURL, dt, n),
	})

	if !sent {
		metrics.Transitions.WithLabelValues("create", "failure").Inc()
		if _, err := s.notifications.UpdateStatus(ctx, repository.StatusChange{
			ID:   n.ID,
			From: []domain.NotificationStatus{domain.StatusPending},
			To:   domain.StatusError,
		}); err != nil {
			log.Error("failed to mark notification as failed", zap.Error(err))
		}
		s.audit(ctx, n.ID, domain.ActionError, "Failed to send Telegram message")
		log.Warn("authorization request could not be delivered")

		return &domain.SendNotificationResult{
			Success:        false,
			NotificationID: n.ID,
			Message:        s.t("ERR_SEND_FAILED"),
		}, nil
	}

	if err := s.notifications.MarkSent(ctx, n.ID, chatID, messageID, s.now()); err != nil {
		// The chat already shows the request; without the correlation a typed
		// rejection reason cannot be matched back to it.
		s.audit(ctx, n.ID, domain.ActionError, "Message sent but correlation was not stored")
		return nil, fmt.Errorf("failed to record sent message: %w", err)
	}
	s.audit(ctx, n.ID, domain.ActionSent, fmt.Sprintf("Message sent to Telegram. MessageId: %d", messageID))
	metrics.Transitions.WithLabelValues("create", "success").Inc()
	log.Info("authorization request sent", zap.Int("message_id", messageID))

	return &domain.SendNotificationResult{
		Success:        true,
		NotificationID: n.ID,
		Message:        s.t("SEND_OK"),
	}, nil
}

func (s *service) Approve(ctx context.Context, id int64) error {
	n, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if n.Status.IsTerminal() {
		return s.alreadyDecided("approve", n)
	}

	now := s.now()
	if err := s.transition(ctx, "approve", repository.StatusChange{
		ID:          id,
		From:        []domain.NotificationStatus{domain.StatusPending},
		To:          domain.StatusApproved,
		RespondedAt: &now,
	}); err != nil {
		return err
	}

	decided := *n
	decided.Status = domain.StatusApproved
	decided.RespondedAt = &now
	s.audit(ctx, id, domain.ActionApproved, "Document approved")
	s.log.Info("document approved", zap.Int64("notification_id", id))

	s.completeDecision(ctx, &decided)
	return nil
}

func (s *service) RequestRejectionReason(ctx context.Context, id int64) error {
	n, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if n.Status.IsTerminal() {
		return s.alreadyDecided("request_reason", n)
	}

	return s.transition(ctx, "request_reason", repository.StatusChange{
		ID:   id,
		From: []domain.NotificationStatus{domain.StatusPending},
		To:   domain.StatusAwaitingReason,
	})
}

func (s *service) RejectWithReason(ctx context.Context, id int64, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domain.NewValidationError("reason", "reason is required")
	}

	n, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if n.Status.IsTerminal() {
		return s.alreadyDecided("reject", n)
	}

	now := s.now()
	if err := s.transition(ctx, "reject", repository.StatusChange{
		ID:          id,
		From:        []domain.NotificationStatus{domain.StatusAwaitingReason, domain.StatusPending},
		To:          domain.StatusRejected,
		Reason:      &reason,
		RespondedAt: &now,
	}); err != nil {
		return err
	}

	decided := *n
	decided.Status = domain.StatusRejected
	decided.RejectionReason = &reason
	decided.RespondedAt = &now
	s.audit(ctx, id, domain.ActionRejected, "Document rejected. Reason: "+reason)
	s.log.Info("document rejected", zap.Int64("notification_id", id))

	s.completeDecision(ctx, &decided)
	return nil
}

func (s *service) FindAwaitingReasonByChat(ctx context.Context, chatID int64) (*domain.Notification, error) {
	n, err := s.notifications.GetAwaitingReasonByChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pending reason: %w", err)
	}
	return n, nil
}

func (s *service) load(ctx context.Context, id int64) (*domain.Notification, error) {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}
	if n == nil || !n.Active {
		return nil, domain.NewNotFoundError("notification", fmt.Sprintf("Notification %d not found", id))
	}
	return n, nil
}

// alreadyDecided short-circuits requests on a notification whose loaded
// status is final. The compare-and-set in transition still covers races.
func (s *service) alreadyDecided(action string, n *domain.Notification) error {
	metrics.Transitions.WithLabelValues(action, "already_processed").Inc()
	s.log.Info("notification already decided",
		zap.Int64("notification_id", n.ID), zap.String("action", action), zap.String("status", string(n.Status)))
	return domain.ErrAlreadyProcessed
}

func (s *service) transition(ctx context.Context, action string, change repository.StatusChange) error {
	applied, err := s.notifications.UpdateStatus(ctx, change)
	if err != nil {
		metrics.Transitions.WithLabelValues(action, "failure").Inc()
		return err
	}
	if !applied {
		metrics.Transitions.WithLabelValues(action, "already_processed").Inc()
		return domain.ErrAlreadyProcessed
	}
	metrics.Transitions.WithLabelValues(action, "success").Inc()
	return nil
}

// completeDecision runs the side effects of a terminal decision. None of them
// can undo the status change; failures end up in the audit trail.
func (s *service) completeDecision(ctx context.Context, n *domain.Notification) {
	approved := n.Status == domain.StatusApproved
	reason := ""
	if n.RejectionReason != nil {
		reason = *n.RejectionReason
	}
	log := s.log.With(zap.Int64("notification_id", n.ID))

	if n.HasMessage() {
		if !s.gateway.MarkProcessed(ctx, *n.ChatID, *n.MessageID, approved, reason) {
			s.audit(ctx, n.ID, domain.ActionError, "Failed to update the original chat message")
		}
	}

	dt, err := s.documentTypes.GetByID(ctx, n.DocumentTypeID)
	if err != nil {
		log.Error("failed to load document type", zap.Error(err))
	}

	authorizerName := s.directory.DisplayName(ctx, n.AuthorizerID)

	if dt == nil {
		s.audit(ctx, n.ID, domain.ActionCallbackFailed, "Document type not available for callback")
	} else {
		sent := s.callbacks.Notify(ctx, dt, domain.CallbackPayload{
			DocumentID:      n.DocumentID,
			Folio:           n.Folio,
			Status:          n.Status,
			AuthorizerID:    n.AuthorizerID,
			AuthorizerName:  authorizerName,
			RejectionReason: n.RejectionReason,
			RespondedAt:     *n.RespondedAt,
		})
		if err := s.notifications.SetCallbackSent(ctx, n.ID, sent); err != nil {
			log.Error("failed to record callback outcome", zap.Error(err))
		}
		if sent {
			s.audit(ctx, n.ID, domain.ActionCallbackSent, "Callback sent to origin microservice")
		} else {
			s.audit(ctx, n.ID, domain.ActionCallbackFailed, "Failed to send callback")
		}
	}

	typeDescription := s.t("DEFAULT_DOCUMENT")
	viewURL := ""
	if dt != nil {
		typeDescription = dt.Description
		viewURL = domain.ViewURL(s.opts.PublicViewURL, dt, n)
	}
	s.notifySolicitor(ctx, n, domain.DecisionNotice{
		Approved:        approved,
		TypeDescription: typeDescription,
		Folio:           n.Folio,
		AuthorizerName:  authorizerName,
		Reason:          reason,
		ViewURL:         viewURL,
	})
}

// notifySolicitor makes a single delivery attempt: the chat when the requester
// has a chat identity, e-mail otherwise.
func (s *service) notifySolicitor(ctx context.Context, n *domain.Notification, notice domain.DecisionNotice) {
	log := s.log.With(zap.Int64("notification_id", n.ID), zap.Int64("solicitor_id", n.SolicitorID))

	solicitor, err := s.directory.GetUser(ctx, n.SolicitorID)
	if err != nil {
		log.Warn("cannot resolve solicitor", zap.Error(err))
		return
	}
	if solicitor == nil {
		log.Warn("solicitor not found in directory")
		return
	}

	var channel string
	if chatID, ok := solicitor.ChatID(); ok {
		if !s.gateway.SendDecision(ctx, chatID, notice) {
			s.audit(ctx, n.ID, domain.ActionError, "Failed to notify solicit user via Telegram")
			return
		}
		channel = "Telegram"
	} else if solicitor.HasEmail() && s.email != nil && s.email.Enabled() {
		if err := s.email.SendDecision(ctx, *solicitor.Email, solicitor.Name(), notice); err != nil {
			s.audit(ctx, n.ID, domain.ActionError, "Failed to notify solicit user via email")
			return
		}
		channel = "email"
	} else {
		log.Warn("cannot notify solicitor: no chat identity or email")
		return
	}

	if err := s.notifications.SetSolicitNotified(ctx, n.ID); err != nil {
		log.Error("failed to record solicitor notification", zap.Error(err))
	}
	s.audit(ctx, n.ID, domain.ActionSolicitNotified, "Solicit user notified via "+channel)
}

// audit never fails the caller; a lost audit row is only logged.
func (s *service) audit(ctx context.Context, id int64, action domain.LogAction, detail string) {
	if err := repository.AppendLog(ctx, s.logs, id, action, detail); err != nil {
		s.log.Error("failed to write audit log",
			zap.Int64("notification_id", id), zap.String("action", string(action)), zap.Error(err))
	}
}

func newAccessToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
