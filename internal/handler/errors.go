package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/theater-statement/internal/pricing"
	"github.com/iliyamo/theater-statement/internal/repository"
	"github.com/iliyamo/theater-statement/internal/statement"
)

// writeError maps domain and store errors onto HTTP responses.
// Statement failures are client errors; anything unrecognised is
// logged and reported as a 500 without leaking details.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrInvoiceNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "invoice not found"})
	case errors.Is(err, repository.ErrInvalidPlay):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, statement.ErrUnknownPlayID),
		errors.Is(err, pricing.ErrUnknownPlayType),
		errors.Is(err, pricing.ErrNegativeAudience),
		errors.Is(err, pricing.ErrAmountOverflow):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	log.WithError(err).WithFields(log.Fields{
		"method": c.Request().Method,
		"path":   c.Path(),
	}).Error("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
