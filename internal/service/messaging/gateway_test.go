package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-authorizer/internal/domain"
)

type fakeBot struct {
	sent      []tgbotapi.Chattable
	requested []tgbotapi.Chattable
	err       error
	nextID    int
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requested = append(f.requested, c)
	if f.err != nil {
		return nil, f.err
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func newTestGateway(bot *fakeBot) *gateway {
	g := NewGateway(bot, "es", nil).(*gateway)
	g.loc = time.UTC
	return g
}

func TestGateway_SendAuthorizationRequest(t *testing.T) {
	bot := &fakeBot{nextID: 40}
	g := newTestGateway(bot)

	messageID, ok := g.SendAuthorizationRequest(context.Background(), 1001, domain.AuthorizationRequest{
		NotificationID:  12,
		TypeDescription: "Orden de compra",
		Folio:           "OC-12",
		SolicitorName:   "Ana_Ruiz",
		Description:     "Compra de papelería",
		CreatedAt:       time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
		ViewURL:         "https://docs.example.com/view/abc",
	})

	require.True(t, ok)
	assert.Equal(t, 41, messageID)
	require.Len(t, bot.sent, 1)

	msg := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, int64(1001), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.Contains(t, msg.Text, "📋 *Solicitud de Autorización*")
	assert.Contains(t, msg.Text, "*Folio:* `OC-12`")
	assert.Contains(t, msg.Text, "Ana\\_Ruiz")
	assert.Contains(t, msg.Text, "*Descripción:* Compra de papelería")
	assert.Contains(t, msg.Text, "_Fecha: 05/03/2024 14:30_")

	markup := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "approve_12", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "reject_12", *markup.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "https://docs.example.com/view/abc", *markup.InlineKeyboard[1][0].URL)
}

func TestGateway_SendAuthorizationRequest_Failure(t *testing.T) {
	bot := &fakeBot{err: errors.New("Bad Request: chat not found")}
	g := newTestGateway(bot)

	messageID, ok := g.SendAuthorizationRequest(context.Background(), 1001, domain.AuthorizationRequest{NotificationID: 1})
	assert.False(t, ok)
	assert.Zero(t, messageID)
}

func TestGateway_SendDecision(t *testing.T) {
	bot := &fakeBot{}
	g := newTestGateway(bot)

	ok := g.SendDecision(context.Background(), 2002, domain.DecisionNotice{
		Approved:        false,
		TypeDescription: "Requisición",
		Folio:           "REQ-9",
		AuthorizerName:  "Laura",
		Reason:          "Falta cotización",
	})
	require.True(t, ok)

	msg := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, "❌ *Documento Rechazado*")
	assert.Contains(t, msg.Text, "Tu *Requisición* con folio `REQ-9` fue rechazado por *Laura*.")
	assert.Contains(t, msg.Text, "*Motivo:* Falta cotización")
	assert.Nil(t, msg.ReplyMarkup)
}

func TestGateway_SendDecision_ApprovedHasNoReason(t *testing.T) {
	bot := &fakeBot{}
	g := newTestGateway(bot)

	g.SendDecision(context.Background(), 2002, domain.DecisionNotice{
		Approved:       true,
		Folio:          "OC-1",
		AuthorizerName: "Laura",
		Reason:         "ignored",
		ViewURL:        "https://docs.example.com/view/x",
	})

	msg := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, "✅ *Documento Autorizado*")
	assert.Contains(t, msg.Text, "Tu *Documento* con folio")
	assert.NotContains(t, msg.Text, "Motivo")
	markup := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	assert.Equal(t, "👁️ Ver documento", markup.InlineKeyboard[0][0].Text)
}

func TestGateway_AskRejectionReason(t *testing.T) {
	bot := &fakeBot{}
	g := newTestGateway(bot)

	require.True(t, g.AskRejectionReason(context.Background(), 1001))

	msg := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, "📝 Por favor escribe el *motivo del rechazo*:", msg.Text)
	assert.Equal(t, tgbotapi.ForceReply{ForceReply: true, Selective: true}, msg.ReplyMarkup)
}

func TestGateway_MarkProcessed(t *testing.T) {
	bot := &fakeBot{}
	g := newTestGateway(bot)

	require.True(t, g.MarkProcessed(context.Background(), 1001, 41, false, "Sin presupuesto"))
	require.True(t, g.MarkProcessed(context.Background(), 1001, 42, true, ""))

	rejected := bot.requested[0].(tgbotapi.EditMessageTextConfig)
	assert.Equal(t, 41, rejected.MessageID)
	assert.Equal(t, "❌ *RECHAZADO*\n\n*Motivo:* Sin presupuesto", rejected.Text)
	assert.Nil(t, rejected.ReplyMarkup)

	approved := bot.requested[1].(tgbotapi.EditMessageTextConfig)
	assert.Equal(t, "✅ *AUTORIZADO*", approved.Text)
}

func TestGateway_AnswerInteraction(t *testing.T) {
	bot := &fakeBot{}
	g := newTestGateway(bot)

	require.True(t, g.AnswerInteraction(context.Background(), "cb-1", "✅ Documento autorizado"))
	answer := bot.requested[0].(tgbotapi.CallbackConfig)
	assert.Equal(t, "cb-1", answer.CallbackQueryID)
	assert.Equal(t, "✅ Documento autorizado", answer.Text)

	bot.err = errors.New("query is too old")
	assert.False(t, g.AnswerInteraction(context.Background(), "cb-2", "x"))
}
