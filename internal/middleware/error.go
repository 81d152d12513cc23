package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/pkg/logger"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorHandler maps domain errors to stable responses. Unexpected errors
// are logged with the trace id and answered with a fixed message.
func NewErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	log = logger.OrNop(log).Named("http")

	return func(c *fiber.Ctx, err error) error {
		traceID := uuid.New().String()[:8]
		resp := ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
			TraceID: traceID,
		}
		code := fiber.StatusInternalServerError

		var (
			fiberErr      *fiber.Error
			validationErr *domain.ValidationError
			notFoundErr   *domain.NotFoundError
			expiredErr    *domain.ExpiredError
			conflictErr   *domain.ConflictError
			upstreamErr   *domain.UpstreamError
		)

		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			resp.Message = fiberErr.Message
			resp.Code = codeForStatus(code)
		case errors.As(err, &validationErr):
			code = fiber.StatusBadRequest
			resp.Code = "VALIDATION_ERROR"
			resp.Message = validationErr.Message
			resp.Field = validationErr.Field
		case errors.As(err, &notFoundErr):
			code = fiber.StatusNotFound
			resp.Code = "NOT_FOUND"
			resp.Message = notFoundErr.Error()
		case errors.As(err, &expiredErr):
			code = fiber.StatusGone
			resp.Code = "LINK_EXPIRED"
			resp.Message = expiredErr.Error()
		case errors.As(err, &conflictErr):
			code = fiber.StatusConflict
			resp.Code = "CONFLICT"
			resp.Message = conflictErr.Error()
		case errors.Is(err, domain.ErrAlreadyProcessed), errors.Is(err, domain.ErrReasonPending):
			code = fiber.StatusConflict
			resp.Code = "CONFLICT"
			resp.Message = err.Error()
		case errors.As(err, &upstreamErr):
			code = fiber.StatusBadGateway
			resp.Code = "UPSTREAM_ERROR"
			resp.Message = "Upstream service unavailable: " + upstreamErr.Service
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("trace_id", traceID),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err))
		}

		return c.Status(code).JSON(resp)
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusGone:
		return "LINK_EXPIRED"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	}
	return "INTERNAL_ERROR"
}

func NewError(code int, message string) *fiber.Error {
	return fiber.NewError(code, message)
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}
