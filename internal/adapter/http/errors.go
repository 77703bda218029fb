package http

import (
	"errors"
	"net/http"

	"fleet-schedule-backend/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// statusFor maps domain sentinels to HTTP status codes. It reports false for
// errors the client did not cause.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrInvalidTerms),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrOverpaymentExceedsBalance),
		errors.Is(err, domain.ErrPaymentOutOfOrder),
		errors.Is(err, domain.ErrUnknownVehicleType):
		return http.StatusUnprocessableEntity, true
	case errors.Is(err, domain.ErrLoanAlreadyPaidOff),
		errors.Is(err, domain.ErrVehicleHasActiveLoan),
		errors.Is(err, domain.ErrLoanBusy):
		return http.StatusConflict, true
	}
	return http.StatusInternalServerError, false
}

// writeError renders err as an ErrorResponse. Client errors carry the
// sentinel text; anything else is logged and hidden behind a generic 500.
func writeError(c echo.Context, log logrus.FieldLogger, err error) error {
	code, known := statusFor(err)
	if !known {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).Error("request failed")
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: rootMessage(err)})
}

// rootMessage is the innermost error text, so ids and wrapping context stay
// out of responses.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
