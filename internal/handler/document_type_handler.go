package handler

import (
	"github.com/gofiber/fiber/v2"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/middleware"
	"doc-authorizer/internal/service/documenttype"
)

type DocumentTypeHandler struct {
	service documenttype.Service
}

func NewDocumentTypeHandler(service documenttype.Service) *DocumentTypeHandler {
	return &DocumentTypeHandler{service: service}
}

func (h *DocumentTypeHandler) List(c *fiber.Ctx) error {
	types, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(types)
}

func (h *DocumentTypeHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "document type ID")
	if err != nil {
		return err
	}

	dt, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(dt)
}

func (h *DocumentTypeHandler) GetByCode(c *fiber.Ctx) error {
	dt, err := h.service.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(dt)
}

func (h *DocumentTypeHandler) Create(c *fiber.Ctx) error {
	var input domain.DocumentTypeInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	dt, err := h.service.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dt)
}

func (h *DocumentTypeHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "document type ID")
	if err != nil {
		return err
	}

	var input domain.DocumentTypeInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	dt, err := h.service.Update(c.Context(), id, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(dt)
}

func (h *DocumentTypeHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "document type ID")
	if err != nil {
		return err
	}

	if err := h.service.Deactivate(c.Context(), id); err != nil {
		return err
	}
	return c.Status(fiber.StatusNoContent).SendString("")
}
