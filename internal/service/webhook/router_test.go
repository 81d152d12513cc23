package webhook_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/mocks"
	"doc-authorizer/internal/service/webhook"
)

func interactionBody(updateID int, data string) []byte {
	return []byte(fmt.Sprintf(`{
		"update_id": %d,
		"callback_query": {
			"id": "cq-%d",
			"from": {"id": 555, "is_bot": false, "first_name": "Laura"},
			"message": {"message_id": 77, "date": 1709632800, "chat": {"id": 555, "type": "private"}},
			"data": %q
		}
	}`, updateID, updateID, data))
}

func textBody(updateID int, text string) []byte {
	return []byte(fmt.Sprintf(`{
		"update_id": %d,
		"message": {
			"message_id": 80,
			"date": 1709632800,
			"from": {"id": 555, "is_bot": false, "first_name": "Laura"},
			"chat": {"id": 555, "type": "private"},
			"text": %q
		}
	}`, updateID, text))
}

type fixture struct {
	approval *mocks.ApprovalService
	gateway  *mocks.MessagingGateway
	router   webhook.Router
}

func newFixture(rdb *redis.Client, secret string) *fixture {
	f := &fixture{
		approval: new(mocks.ApprovalService),
		gateway:  new(mocks.MessagingGateway),
	}
	f.router = webhook.NewRouter(f.approval, f.gateway, rdb,
		webhook.Options{Secret: secret, DedupeTTL: time.Hour, Locale: "es"}, nil)
	return f
}

func TestProcess_Approve(t *testing.T) {
	f := newFixture(nil, "")
	ctx := context.Background()

	f.approval.On("Approve", ctx, int64(10)).Return(nil)
	f.gateway.On("AnswerInteraction", ctx, "cq-1", "✅ Documento autorizado").Return(true)

	f.router.Process(ctx, "", interactionBody(1, "approve_10"))

	f.approval.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
}

func TestProcess_ApproveAlreadyProcessed(t *testing.T) {
	f := newFixture(nil, "")
	ctx := context.Background()

	f.approval.On("Approve", ctx, int64(10)).Return(domain.ErrAlreadyProcessed)
	f.gateway.On("AnswerInteraction", ctx, "cq-1", "ℹ️ Esta solicitud ya fue procesada").Return(true)

	f.router.Process(ctx, "", interactionBody(1, "approve_10"))

	f.gateway.AssertExpectations(t)
}

func TestProcess_RejectAsksForReason(t *testing.T) {
	f := newFixture(nil, "")
	ctx := context.Background()

	f.approval.On("RequestRejectionReason", ctx, int64(10)).Return(nil)
	f.gateway.On("AskRejectionReason", ctx, int64(555)).Return(true)
	f.gateway.On("AnswerInteraction", ctx, "cq-1", "📝 Escribe el motivo del rechazo").Return(true)

	f.router.Process(ctx, "", interactionBody(1, "reject_10"))

	f.gateway.AssertExpectations(t)
}

func TestProcess_RejectWhileAnotherReasonIsPending(t *testing.T) {
	f := newFixture(nil, "")
	ctx := context.Background()

	f.approval.On("RequestRejectionReason", ctx, int64(11)).Return(domain.ErrReasonPending)
	f.gateway.On("AnswerInteraction", ctx, "cq-1", "⚠️ Primero escribe el motivo de la solicitud pendiente").Return(true)

	f.router.Process(ctx, "", interactionBody(1, "reject_11"))

	f.gateway.AssertNotCalled(t, "AskRejectionReason", mock.Anything, mock.Anything)
	f.gateway.AssertExpectations(t)
}

func TestProcess_MalformedInteractionIsAnswered(t *testing.T) {
	for _, data := range []string{"approve", "delete_10", "approve_x", "approve_10_1", ""} {
		t.Run(data, func(t *testing.T) {
			f := newFixture(nil, "")
			f.gateway.On("AnswerInteraction", mock.Anything, "cq-1", "").Return(true)

			f.router.Process(context.Background(), "", interactionBody(1, data))

			f.gateway.AssertExpectations(t)
			assert.Empty(t, f.approval.Calls)
		})
	}
}

func TestProcess_UnexpectedFailureIsSwallowed(t *testing.T) {
	f := newFixture(nil, "")
	ctx := context.Background()

	f.approval.On("Approve", ctx, int64(10)).Return(errors.New("connection refused"))
	f.gateway.On("AnswerInteraction", ctx, "cq-1", "⚠️ No se pudo procesar la solicitud").Return(true)

	assert.NotPanics(t, func() {
		f.router.Process(ctx, "", interactionBody(1, "approve_10"))
	})
	f.gateway.AssertExpectations(t)
}

func TestProcess_TextCompletesRejection(t *testing.T) {
	f := newFixture(nil, "")
	ctx := context.Background()
	reason := "El monto excede el presupuesto"

	f.approval.On("FindAwaitingReasonByChat", ctx, int64(555)).
		Return(&domain.Notification{ID: 10, Status: domain.StatusAwaitingReason}, nil)
	f.approval.On("RejectWithReason", ctx, int64(10), reason).Return(nil)
	f.gateway.On("SendText", ctx, int64(555), "✅ Documento rechazado. Se ha notificado al solicitante.").Return(true)

	f.router.Process(ctx, "", textBody(2, reason))

	f.approval.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
}

func TestProcess_UnrelatedTextIsIgnored(t *testing.T) {
	f := newFixture(nil, "")
	ctx := context.Background()

	f.approval.On("FindAwaitingReasonByChat", ctx, int64(555)).Return(nil, nil)

	f.router.Process(ctx, "", textBody(2, "hola"))

	f.approval.AssertNotCalled(t, "RejectWithReason", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.gateway.Calls)
}

func TestProcess_SecretMismatchDropsUpdate(t *testing.T) {
	f := newFixture(nil, "s3cret")

	f.router.Process(context.Background(), "wrong", interactionBody(1, "approve_10"))

	assert.Empty(t, f.approval.Calls)
	assert.Empty(t, f.gateway.Calls)
}

func TestProcess_InvalidJSON(t *testing.T) {
	f := newFixture(nil, "")

	assert.NotPanics(t, func() {
		f.router.Process(context.Background(), "", []byte(`{"update_id":`))
	})
	assert.Empty(t, f.approval.Calls)
}

func TestProcess_DuplicateDeliveryIsDropped(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	f := newFixture(rdb, "s3cret")
	ctx := context.Background()
	f.approval.On("Approve", ctx, int64(10)).Return(nil)
	f.gateway.On("AnswerInteraction", ctx, "cq-7", mock.Anything).Return(true)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.router.Process(ctx, "s3cret", interactionBody(7, "approve_10"))
		}()
	}
	wg.Wait()

	f.approval.AssertNumberOfCalls(t, "Approve", 1)
	assert.True(t, mr.Exists("webhook:update:7"))
}
