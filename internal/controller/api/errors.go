package api

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/hall_booking/internal/service"
	"github.com/labstack/echo/v4"
)

// statusFor переводит ошибку ядра в HTTP статус
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError отвечает JSON с ошибкой. Детали сбоев хранилища наружу не отдаются.
func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		msg = "storage is temporarily unavailable, please retry"
	case http.StatusInternalServerError:
		msg = "internal error"
	case http.StatusConflict:
		msg = "request has already been decided"
	}
	return c.JSON(status, echo.Map{"error": msg})
}
