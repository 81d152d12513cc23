package handler

import (
	"github.com/gofiber/fiber/v2"

	"doc-authorizer/internal/service/publicview"
)

type PublicHandler struct {
	service publicview.Service
}

func NewPublicHandler(service publicview.Service) *PublicHandler {
	return &PublicHandler{service: service}
}

func (h *PublicHandler) View(c *fiber.Ctx) error {
	view, err := h.service.View(c.Context(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(view)
}
