package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/middleware"
	"doc-authorizer/internal/service/approval"
	"doc-authorizer/internal/service/notification"
)

type NotificationHandler struct {
	approval     approval.Service
	notification notification.Service
}

func NewNotificationHandler(approvalService approval.Service, notificationService notification.Service) *NotificationHandler {
	return &NotificationHandler{
		approval:     approvalService,
		notification: notificationService,
	}
}

func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	var input domain.SendNotificationInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	result, err := h.approval.Create(c.Context(), input)
	if err != nil {
		return err
	}
	if !result.Success {
		return c.Status(fiber.StatusBadGateway).JSON(result)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) GetStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "notification ID")
	if err != nil {
		return err
	}

	view, err := h.notification.GetStatus(c.Context(), id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(view)
}

func (h *NotificationHandler) ListPending(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId", "user ID")
	if err != nil {
		return err
	}

	pending, err := h.notification.ListPending(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(pending)
}

func (h *NotificationHandler) History(c *fiber.Ctx) error {
	var filter domain.HistoryFilter
	var err error

	if filter.SolicitorID, err = optionalInt(c, "idSolicit"); err != nil {
		return err
	}
	if filter.AuthorizerID, err = optionalInt(c, "idAuthorize"); err != nil {
		return err
	}
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		s := domain.NotificationStatus(status)
		filter.Status = &s
	}

	history, err := h.notification.History(c.Context(), filter)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(history)
}

func (h *NotificationHandler) Logs(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "notification ID")
	if err != nil {
		return err
	}

	logs, err := h.notification.Logs(c.Context(), id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(logs)
}
