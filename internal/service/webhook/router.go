package webhook

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/pkg/i18n"
	"doc-authorizer/internal/pkg/logger"
	"doc-authorizer/internal/pkg/metrics"
	"doc-authorizer/internal/service/approval"
	"doc-authorizer/internal/service/messaging"
)

// Router turns inbound chat updates into state machine calls. It has no error
// return: the transport must always be acknowledged, so failures stop here
// and are only logged.
type Router interface {
	Process(ctx context.Context, secret string, body []byte)
}

type Options struct {
	// Secret, when set, must match the secret header of every update.
	Secret    string
	DedupeTTL time.Duration
	Locale    string
}

type router struct {
	approval approval.Service
	gateway  messaging.Gateway
	redis    *redis.Client
	opts     Options
	log      *zap.Logger
}

func NewRouter(approval approval.Service, gateway messaging.Gateway, redis *redis.Client, opts Options, log *zap.Logger) Router {
	return &router{
		approval: approval,
		gateway:  gateway,
		redis:    redis,
		opts:     opts,
		log:      logger.OrNop(log).Named("webhook"),
	}
}

func dedupeKey(updateID int) string {
	return fmt.Sprintf("webhook:update:%d", updateID)
}

func (r *router) t(key string) string {
	return i18n.Translate(r.opts.Locale, key)
}

func (r *router) Process(ctx context.Context, secret string, body []byte) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("panic while processing update", zap.Any("panic", p))
		}
	}()

	if r.opts.Secret != "" && subtle.ConstantTimeCompare([]byte(secret), []byte(r.opts.Secret)) != 1 {
		metrics.WebhookUpdates.WithLabelValues("unauthorized").Inc()
		r.log.Warn("update rejected: secret token mismatch")
		return
	}

	in, err := messaging.DecodeUpdate(body)
	if err != nil {
		metrics.WebhookUpdates.WithLabelValues("malformed").Inc()
		r.log.Warn("update could not be decoded", zap.Error(err))
		return
	}

	if !r.firstDelivery(ctx, in.UpdateID) {
		metrics.WebhookUpdates.WithLabelValues("duplicate").Inc()
		r.log.Info("duplicate update dropped", zap.Int("update_id", in.UpdateID))
		return
	}

	metrics.WebhookUpdates.WithLabelValues(string(in.Kind)).Inc()
	r.dispatch(ctx, in)
}

// dispatch routes an already decoded update.
func (r *router) dispatch(ctx context.Context, in *messaging.Inbound) {
	switch in.Kind {
	case messaging.KindInteraction:
		r.handleInteraction(ctx, in)
	case messaging.KindText:
		r.handleText(ctx, in)
	}
}

// firstDelivery claims the update id. Without redis, or when redis fails,
// every delivery is processed and the status compare-and-set is what keeps
// side effects single.
func (r *router) firstDelivery(ctx context.Context, updateID int) bool {
	if r.redis == nil || r.opts.DedupeTTL <= 0 || updateID == 0 {
		return true
	}
	claimed, err := r.redis.SetNX(ctx, dedupeKey(updateID), 1, r.opts.DedupeTTL).Result()
	if err != nil {
		r.log.Warn("update dedupe unavailable", zap.Int("update_id", updateID), zap.Error(err))
		return true
	}
	return claimed
}

func (r *router) handleInteraction(ctx context.Context, in *messaging.Inbound) {
	log := r.log.With(zap.Int64("chat_id", in.ChatID), zap.Int64("notification_id", in.NotificationID))

	if in.ParseErr != nil {
		log.Warn("ignoring malformed interaction", zap.Error(in.ParseErr))
		r.gateway.AnswerInteraction(ctx, in.InteractionID, "")
		return
	}

	log.Info("processing interaction", zap.String("action", in.Action))

	var answer string
	switch in.Action {
	case messaging.ActionApprove:
		if err := r.approval.Approve(ctx, in.NotificationID); err != nil {
			answer = r.answerFor(log, err)
		} else {
			answer = r.t("ANSWER_APPROVED")
		}

	case messaging.ActionReject:
		if err := r.approval.RequestRejectionReason(ctx, in.NotificationID); err != nil {
			answer = r.answerFor(log, err)
		} else {
			r.gateway.AskRejectionReason(ctx, in.ChatID)
			answer = r.t("ANSWER_ASK_REASON")
		}
	}

	r.gateway.AnswerInteraction(ctx, in.InteractionID, answer)
}

func (r *router) handleText(ctx context.Context, in *messaging.Inbound) {
	n, err := r.approval.FindAwaitingReasonByChat(ctx, in.ChatID)
	if err != nil {
		r.log.Error("failed to look up pending rejection", zap.Int64("chat_id", in.ChatID), zap.Error(err))
		return
	}
	if n == nil {
		return
	}

	log := r.log.With(zap.Int64("chat_id", in.ChatID), zap.Int64("notification_id", n.ID))

	err = r.approval.RejectWithReason(ctx, n.ID, in.Text)
	switch {
	case err == nil:
		r.gateway.SendText(ctx, in.ChatID, r.t("REJECT_CONFIRMED"))
	case domain.IsValidation(err):
		r.gateway.AskRejectionReason(ctx, in.ChatID)
	case errors.Is(err, domain.ErrAlreadyProcessed):
		log.Info("rejection reason arrived for a processed notification")
	default:
		log.Error("failed to reject with reason", zap.Error(err))
	}
}

func (r *router) answerFor(log *zap.Logger, err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyProcessed), domain.IsNotFound(err):
		log.Info("interaction on a processed notification", zap.Error(err))
		return r.t("ANSWER_ALREADY_PROCESSED")
	case errors.Is(err, domain.ErrReasonPending):
		return r.t("ANSWER_REASON_PENDING")
	default:
		log.Error("interaction failed", zap.Error(err))
		return r.t("ANSWER_FAILED")
	}
}
