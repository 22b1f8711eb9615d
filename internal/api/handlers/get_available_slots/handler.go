package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/BarberBookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidStylistID = "identifiant de coiffeur invalide"
	msgMissingDate      = "le paramètre date est obligatoire (AAAA-MM-JJ)"
	msgInvalidDate      = "format de date invalide, attendu AAAA-MM-JJ"
	msgStylistNotFound  = "coiffeur introuvable"
)

type Handler struct {
	useCase  SlotFinder
	location *time.Location
	logger   Logger
}

func NewHandler(useCase SlotFinder, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/stylists/{stylistId}/available-slots?date=2025-03-10
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stylistID, err := handlers.PathUUID(r, "stylistId")
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid stylist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStylistID)
		return
	}

	rawDate := r.URL.Query().Get("date")
	if rawDate == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := handlers.ParseDate(rawDate, h.location)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid date=%q: %v", rawDate, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		StylistID: stylistID,
		Date:      date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrStylistNotFound):
			h.logger.Warn("GET /available-slots - Stylist not found: stylist_id=%s", stylistID)
			handlers.RespondNotFound(w, msgStylistNotFound)
		default:
			h.logger.Error("GET /available-slots - Failed to get slots: stylist_id=%s, date=%s, error=%v",
				stylistID, rawDate, err)
			handlers.RespondFailure(w, r)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
