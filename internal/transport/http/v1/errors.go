package v1

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
)

// ErrorStatus maps a service error to its HTTP status and error code.
func ErrorStatus(err error) (int, domain.ErrorCode) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrCharacterNotFound):
		return http.StatusNotFound, domain.ErrorCodeNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.ErrorCodeForbidden
	case errors.Is(err, domain.ErrNoCharacters), errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, domain.ErrorCodeBadRequest
	default:
		return http.StatusInternalServerError, domain.ErrorCodeInternal
	}
}

// NewAPIError builds the error body for err. Internal errors are not echoed.
func NewAPIError(err error) (int, *domain.APIError) {
	status, code := ErrorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("ERROR: %v", err)
		message = "internal error"
	}
	return status, &domain.APIError{Code: code, Message: message}
}

func writeError(c echo.Context, err error) error {
	status, body := NewAPIError(err)
	return c.JSON(status, body)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, &domain.APIError{Code: domain.ErrorCodeBadRequest, Message: message})
}
