package get_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/service/appointments"
)

const (
	msgInvalidAppointmentID = "identifiant de rendez-vous invalide"
	msgNotFound             = "rendez-vous introuvable"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("GET /admin/appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	appointment, err := h.service.GetDetails(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		default:
			h.logger.Error("GET /admin/appointments/{id} - Failed to get appointment: id=%s, error=%v", id, err)
			handlers.RespondFailure(w, r)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, appointment)
}
