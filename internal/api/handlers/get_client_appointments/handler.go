package get_client_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/api/middleware"
	"github.com/m04kA/BarberBookingService/internal/service/appointments"
)

const (
	msgMissingUserID = "identifiant utilisateur manquant"
	msgInvalidEmail  = "adresse email invalide"
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

// Handle GET /api/v1/me/appointments?email=jean@example.com
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	email := r.URL.Query().Get("email")
	list, err := h.service.GetClientAppointments(r.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /me/appointments - Invalid email: user_id=%s", userID)
			handlers.RespondBadRequest(w, msgInvalidEmail)
		default:
			h.logger.Error("GET /me/appointments - Failed to get appointments: user_id=%s, error=%v", userID, err)
			handlers.RespondFailure(w, r)
		}
		return
	}

	h.logger.Info("GET /me/appointments - %d appointments for user_id=%s", list.Total, userID)
	handlers.RespondJSON(w, http.StatusOK, list)
}
