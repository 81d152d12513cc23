package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/pkg/i18n"
	"doc-authorizer/internal/pkg/logger"
	"doc-authorizer/internal/pkg/metrics"
)

const dateLayout = "02/01/2006 15:04"

// BotAPI is the subset of *tgbotapi.BotAPI the gateway uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Gateway talks to approvers and requesters over the chat transport. Every
// operation is best effort: failures are logged and reported as false.
type Gateway interface {
	SendAuthorizationRequest(ctx context.Context, chatID int64, req domain.AuthorizationRequest) (int, bool)
	SendDecision(ctx context.Context, chatID int64, notice domain.DecisionNotice) bool
	AskRejectionReason(ctx context.Context, chatID int64) bool
	MarkProcessed(ctx context.Context, chatID int64, messageID int, approved bool, reason string) bool
	AnswerInteraction(ctx context.Context, interactionID, text string) bool
	SendText(ctx context.Context, chatID int64, text string) bool
}

type gateway struct {
	bot    BotAPI
	locale string
	loc    *time.Location
	log    *zap.Logger
}

func NewGateway(bot BotAPI, locale string, log *zap.Logger) Gateway {
	return &gateway{
		bot:    bot,
		locale: locale,
		loc:    time.Local,
		log:    logger.OrNop(log).Named("messaging"),
	}
}

func (g *gateway) t(key string, args ...interface{}) string {
	if len(args) == 0 {
		return i18n.Translate(g.locale, key)
	}
	return i18n.Translatef(g.locale, key, args...)
}

func (g *gateway) SendAuthorizationRequest(ctx context.Context, chatID int64, req domain.AuthorizationRequest) (int, bool) {
	msg := tgbotapi.NewMessage(chatID, g.requestText(req))
	msg.ParseMode = tgbotapi.ModeMarkdown

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(g.t("BUTTON_APPROVE"), InteractionData(ActionApprove, req.NotificationID)),
			tgbotapi.NewInlineKeyboardButtonData(g.t("BUTTON_REJECT"), InteractionData(ActionReject, req.NotificationID)),
		),
	}
	if req.ViewURL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(g.t("BUTTON_VIEW_DETAIL"), req.ViewURL),
		))
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)

	sent, err := g.bot.Send(msg)
	metrics.ChatMessages.WithLabelValues("authorization_request", metrics.Outcome(err == nil)).Inc()
	if err != nil {
		g.log.Error("failed to send authorization request",
			zap.Int64("chat_id", chatID), zap.Int64("notification_id", req.NotificationID), zap.Error(err))
		return 0, false
	}

	g.log.Info("authorization request sent",
		zap.Int64("chat_id", chatID), zap.Int64("notification_id", req.NotificationID), zap.Int("message_id", sent.MessageID))
	return sent.MessageID, true
}

func (g *gateway) requestText(req domain.AuthorizationRequest) string {
	typeName := req.TypeDescription
	if typeName == "" {
		typeName = g.t("DEFAULT_DOCUMENT")
	}

	var b strings.Builder
	b.WriteString(g.t("REQUEST_TITLE"))
	b.WriteString("\n\n")
	b.WriteString(g.t("REQUEST_TYPE", escape(typeName)) + "\n")
	b.WriteString(g.t("REQUEST_FOLIO", codeSafe(req.Folio)) + "\n")
	b.WriteString(g.t("REQUEST_SOLICITOR", escape(req.SolicitorName)) + "\n")
	if req.Description != "" {
		b.WriteString(g.t("REQUEST_DESCRIPTION", escape(req.Description)) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(g.t("DATE_LINE", req.CreatedAt.In(g.loc).Format(dateLayout)))
	return b.String()
}

func (g *gateway) SendDecision(ctx context.Context, chatID int64, notice domain.DecisionNotice) bool {
	msg := tgbotapi.NewMessage(chatID, g.decisionText(notice, time.Now()))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if notice.ViewURL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(g.t("BUTTON_VIEW_DOCUMENT"), notice.ViewURL),
		))
	}

	_, err := g.bot.Send(msg)
	metrics.ChatMessages.WithLabelValues("decision", metrics.Outcome(err == nil)).Inc()
	if err != nil {
		g.log.Error("failed to send decision to requester", zap.Int64("chat_id", chatID), zap.Error(err))
		return false
	}
	return true
}

func (g *gateway) decisionText(notice domain.DecisionNotice, at time.Time) string {
	typeName := notice.TypeDescription
	if typeName == "" {
		typeName = g.t("DEFAULT_DOCUMENT")
	}

	title, body := "RESULT_REJECTED_TITLE", "RESULT_REJECTED_BODY"
	if notice.Approved {
		title, body = "RESULT_APPROVED_TITLE", "RESULT_APPROVED_BODY"
	}

	var b strings.Builder
	b.WriteString(g.t(title))
	b.WriteString("\n\n")
	b.WriteString(g.t(body, escape(typeName), codeSafe(notice.Folio), escape(notice.AuthorizerName)))
	b.WriteString("\n")
	if !notice.Approved && notice.Reason != "" {
		b.WriteString("\n" + g.t("REASON_LINE", escape(notice.Reason)) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(g.t("DATE_LINE", at.In(g.loc).Format(dateLayout)))
	return b.String()
}

func (g *gateway) AskRejectionReason(ctx context.Context, chatID int64) bool {
	msg := tgbotapi.NewMessage(chatID, g.t("ASK_REASON"))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true, Selective: true}

	_, err := g.bot.Send(msg)
	metrics.ChatMessages.WithLabelValues("ask_reason", metrics.Outcome(err == nil)).Inc()
	if err != nil {
		g.log.Error("failed to ask for rejection reason", zap.Int64("chat_id", chatID), zap.Error(err))
		return false
	}
	return true
}

// MarkProcessed replaces the request message with a button-free summary of
// the decision so the approver cannot act on it again.
func (g *gateway) MarkProcessed(ctx context.Context, chatID int64, messageID int, approved bool, reason string) bool {
	text := g.t("PROCESSED_REJECTED")
	if approved {
		text = g.t("PROCESSED_APPROVED")
	}
	if reason != "" {
		text += "\n\n" + g.t("REASON_LINE", escape(reason))
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown

	_, err := g.bot.Request(edit)
	metrics.ChatMessages.WithLabelValues("edit", metrics.Outcome(err == nil)).Inc()
	if err != nil {
		g.log.Error("failed to edit message",
			zap.Int64("chat_id", chatID), zap.Int("message_id", messageID), zap.Error(err))
		return false
	}
	return true
}

func (g *gateway) AnswerInteraction(ctx context.Context, interactionID, text string) bool {
	_, err := g.bot.Request(tgbotapi.NewCallback(interactionID, text))
	metrics.ChatMessages.WithLabelValues("answer", metrics.Outcome(err == nil)).Inc()
	if err != nil {
		g.log.Warn("failed to answer interaction", zap.String("interaction_id", interactionID), zap.Error(err))
		return false
	}
	return true
}

func (g *gateway) SendText(ctx context.Context, chatID int64, text string) bool {
	_, err := g.bot.Send(tgbotapi.NewMessage(chatID, text))
	metrics.ChatMessages.WithLabelValues("text", metrics.Outcome(err == nil)).Inc()
	if err != nil {
		g.log.Error("failed to send text", zap.Int64("chat_id", chatID), zap.Error(err))
		return false
	}
	return true
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// codeSafe keeps a value from closing the inline code span it is placed in.
func codeSafe(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}

func InteractionData(action string, notificationID int64) string {
	return fmt.Sprintf("%s_%d", action, notificationID)
}
