package get_shifts

import (
	"errors"
	"net/http"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/service/shifts"
)

const (
	msgInvalidStylistID = "identifiant de coiffeur invalide"
	msgStylistNotFound  = "coiffeur introuvable"
)

type Handler struct {
	service ShiftService
	logger  Logger
}

func NewHandler(service ShiftService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/stylists/{stylistId}/shifts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stylistID, err := handlers.PathUUID(r, "stylistId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidStylistID)
		return
	}

	resp, err := h.service.Get(r.Context(), stylistID)
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrStylistNotFound):
			handlers.RespondNotFound(w, msgStylistNotFound)
		default:
			h.logger.Error("GET /admin/stylists/{id}/shifts - Failed to get shifts: stylist_id=%s, error=%v", stylistID, err)
			handlers.RespondFailure(w, r)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
