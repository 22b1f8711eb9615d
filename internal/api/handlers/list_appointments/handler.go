package list_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/service/appointments"
)

const msgInvalidFilter = "filtre invalide, valeurs possibles : all, today, upcoming, confirmed, pending"

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

// Handle GET /api/v1/admin/appointments?filter=today
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidFilter):
			h.logger.Warn("GET /admin/appointments - Invalid filter=%q", filter)
			handlers.RespondBadRequest(w, msgInvalidFilter)
		default:
			h.logger.Error("GET /admin/appointments - Failed to list appointments: filter=%q, error=%v", filter, err)
			handlers.RespondFailure(w, r)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}
