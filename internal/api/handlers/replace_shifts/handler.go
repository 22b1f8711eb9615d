package replace_shifts

import (
	"errors"
	"net/http"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/service/shifts"
	"github.com/m04kA/BarberBookingService/internal/service/shifts/models"
)

const (
	msgInvalidRequestBody = "corps de requête invalide"
	msgInvalidStylistID   = "identifiant de coiffeur invalide"
	msgStylistNotFound    = "coiffeur introuvable"
	msgInvalidShift       = "horaires invalides : jour de 1 à 7, heures HH:MM, début avant la fin"
	msgDuplicateDay       = "un même jour apparaît plusieurs fois"
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

// Handle PUT /api/v1/admin/stylists/{stylistId}/shifts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stylistID, err := handlers.PathUUID(r, "stylistId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidStylistID)
		return
	}

	var req models.ReplaceShiftsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/stylists/{id}/shifts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Replace(r.Context(), stylistID, &req)
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrStylistNotFound):
			handlers.RespondNotFound(w, msgStylistNotFound)
		case errors.Is(err, shifts.ErrInvalidShift):
			handlers.RespondBadRequest(w, msgInvalidShift)
		case errors.Is(err, shifts.ErrDuplicateDay):
			handlers.RespondBadRequest(w, msgDuplicateDay)
		default:
			h.logger.Error("PUT /admin/stylists/{id}/shifts - Failed to replace shifts: stylist_id=%s, error=%v", stylistID, err)
			handlers.RespondFailure(w, r)
		}
		return
	}

	h.logger.Info("PUT /admin/stylists/{id}/shifts - Shifts updated: stylist_id=%s, days=%d", stylistID, len(resp.Shifts))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
