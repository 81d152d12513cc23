package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"doc-authorizer/internal/service/webhook"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type TelegramHandler struct {
	router webhook.Router
}

func NewTelegramHandler(router webhook.Router) *TelegramHandler {
	return &TelegramHandler{router: router}
}

// Webhook always answers 200 so the transport never retries a delivery.
func (h *TelegramHandler) Webhook(c *fiber.Ctx) error {
	body := append([]byte(nil), c.Body()...)
	h.router.Process(c.Context(), c.Get(secretTokenHeader), body)
	return c.SendStatus(fiber.StatusOK)
}

func (h *TelegramHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}
