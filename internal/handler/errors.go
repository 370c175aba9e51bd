package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kinohall/booking-engine/internal/engine"
	"github.com/kinohall/booking-engine/internal/model"
	"github.com/kinohall/booking-engine/internal/repository"
)

// engineError maps engine and repository failures onto HTTP responses.
// Seat-availability failures name the offending seats so clients can
// update their selection; everything unrecognized becomes a 500.
func engineError(c echo.Context, err error) error {
	var nf *engine.NotFoundError
	if errors.As(err, &nf) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": nf.Error()})
	}
	var su *engine.SeatUnavailableError
	if errors.As(err, &su) {
		ids := make([]string, 0, len(su.SeatIDs))
		for _, id := range su.SeatIDs {
			ids = append(ids, id.String())
		}
		return c.JSON(http.StatusConflict, echo.Map{
			"error":       "some seats are unavailable",
			"unavailable": ids,
		})
	}
	var conflict *engine.ConflictError
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, echo.Map{"error": conflict.Error()})
	}
	switch {
	case errors.Is(err, engine.ErrSessionNotBookable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "session is not open for booking"})
	case errors.Is(err, engine.ErrHoldNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hold not found"})
	case errors.Is(err, engine.ErrTokenMismatch):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "hold belongs to another holder"})
	case errors.Is(err, engine.ErrHoldExpired):
		return c.JSON(http.StatusGone, echo.Map{"error": "hold expired"})
	case errors.Is(err, engine.ErrInvalidInterval):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end time must be after start time"})
	case errors.Is(err, model.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflicting resource"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// parseID parses a UUID path parameter.
func parseID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
