package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"evidenceapi/internal/auth"
	"evidenceapi/internal/http/middleware"
	"evidenceapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "CASE_NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps service sentinels to HTTP responses. Unknown errors become 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCaseNotFound):
		return writeError(c, fiber.StatusNotFound, "CASE_NOT_FOUND", "case not found")
	case errors.Is(err, service.ErrEvidenceNotFound):
		return writeError(c, fiber.StatusNotFound, "EVIDENCE_NOT_FOUND", "evidence not found")
	case errors.Is(err, service.ErrNameRequired):
		return writeError(c, fiber.StatusBadRequest, "NAME_REQUIRED", "case name is required")
	case errors.Is(err, service.ErrNoFiles), errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "at least one file is required")
	case errors.Is(err, auth.ErrEmailRequired):
		return writeError(c, fiber.StatusBadRequest, "EMAIL_REQUIRED", "email is required")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
