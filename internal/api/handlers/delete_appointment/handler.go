package delete_appointment

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/api/middleware"
	"github.com/m04kA/BarberBookingService/internal/service/appointments"
)

// HeaderConfirmDelete удаление необратимо и требует явного подтверждения
const HeaderConfirmDelete = "X-Confirm-Delete"

const (
	msgInvalidAppointmentID = "identifiant de rendez-vous invalide"
	msgConfirmationRequired = "la suppression doit être confirmée (en-tête X-Confirm-Delete: true)"
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

// Handle DELETE /api/v1/admin/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("DELETE /admin/appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	if !strings.EqualFold(strings.TrimSpace(r.Header.Get(HeaderConfirmDelete)), "true") {
		h.logger.Warn("DELETE /admin/appointments/{id} - Missing confirmation: id=%s", id)
		handlers.RespondError(w, http.StatusPreconditionRequired, msgConfirmationRequired)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		default:
			h.logger.Error("DELETE /admin/appointments/{id} - Failed to delete appointment: id=%s, error=%v", id, err)
			handlers.RespondFailure(w, r)
		}
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	h.logger.Info("DELETE /admin/appointments/{id} - Appointment deleted: id=%s, by user_id=%s", id, userID)
	w.WriteHeader(http.StatusNoContent)
}
