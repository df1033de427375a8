package bupe

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rumehealth/bupe-relay/internal/domain/intake"
	"github.com/rumehealth/bupe-relay/internal/domain/patient"
)

// Processor runs the intake pipeline for one event.
type Processor interface {
	Process(ctx context.Context, eventID string) (*Outcome, error)
}

type Handler struct {
	svc Processor
	log zerolog.Logger
}

func NewHandler(svc Processor, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: logger.With().Str("handler", "bupe").Logger()}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/bupe", h.Welcome)
	e.GET("/bupe/:eventId", h.HandleEvent)
}

func (h *Handler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "bupe intake relay",
	})
}

func (h *Handler) HandleEvent(c echo.Context) error {
	eventID := c.Param("eventId")

	out, err := h.svc.Process(c.Request().Context(), eventID)
	if err != nil {
		var vErr *patient.ValidationError
		switch {
		case errors.Is(err, intake.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{
				"message": "Event not found",
			})
		case errors.As(err, &vErr):
			h.log.Warn().Str("event_id", eventID).Err(err).Msg("rejected intake")
			return c.JSON(http.StatusBadRequest, map[string]string{
				"message": err.Error(),
			})
		default:
			h.log.Error().Str("event_id", eventID).Err(err).Msg("intake pipeline failed")
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"message": err.Error(),
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":       "Email sent successfully with PDF attachment and patient managed in Elation",
		"emailId":       out.EmailID,
		"patientAction": string(out.PatientAction),
		"patientId":     out.PatientID,
	})
}
