package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"doc-authorizer/internal/middleware"
	"doc-authorizer/internal/service"
)

type Handlers struct {
	Notification *NotificationHandler
	DocumentType *DocumentTypeHandler
	Telegram     *TelegramHandler
	Public       *PublicHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Notification: NewNotificationHandler(services.Approval, services.Notification),
		DocumentType: NewDocumentTypeHandler(services.DocumentType),
		Telegram:     NewTelegramHandler(services.Webhook),
		Public:       NewPublicHandler(services.PublicView),
	}
}

func parseID(c *fiber.Ctx, param, label string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.BadRequest("Invalid " + label)
	}
	return id, nil
}

// optionalInt parses a query parameter that may be absent.
func optionalInt(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, middleware.BadRequest("Invalid " + key)
	}
	return &v, nil
}
