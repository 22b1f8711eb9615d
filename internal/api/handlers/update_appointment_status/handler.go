package update_appointment_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/service/appointments"
	"github.com/m04kA/BarberBookingService/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody   = "corps de requête invalide"
	msgInvalidAppointmentID = "identifiant de rendez-vous invalide"
	msgInvalidStatus        = "statut invalide, valeurs possibles : pending, confirmed, cancelled"
	msgConfirmedMismatch    = "le champ confirmed ne correspond pas au statut"
	msgInvalidTransition    = "un rendez-vous annulé ne peut plus changer de statut"
	msgSlotNotAvailable     = "ce créneau est déjà occupé par un autre rendez-vous"
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

// Handle PATCH /api/v1/admin/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidStatus):
			handlers.RespondBadRequest(w, msgInvalidStatus)
		case errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgConfirmedMismatch)
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, appointments.ErrInvalidTransition):
			handlers.RespondConflict(w, msgInvalidTransition)
		case errors.Is(err, appointments.ErrSlotNotAvailable):
			handlers.RespondConflict(w, msgSlotNotAvailable)
		default:
			h.logger.Error("PATCH /admin/appointments/{id}/status - Failed to update status: id=%s, error=%v", id, err)
			handlers.RespondFailure(w, r)
		}
		return
	}

	h.logger.Info("PATCH /admin/appointments/{id}/status - Status updated: id=%s, status=%s", id, updated.Status)
	handlers.RespondJSON(w, http.StatusOK, updated)
}
