package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	createBooking "github.com/m04kA/BarberBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "corps de requête invalide"
	msgInvalidServiceID   = "identifiant de service invalide"
	msgInvalidStylistID   = "identifiant de coiffeur invalide"
	msgInvalidDate        = "format de date invalide, attendu AAAA-MM-JJ"
	msgInvalidTime        = "format d'heure invalide, attendu HH:MM"
	msgSlotNotAvailable   = "ce créneau n'est plus disponible"
	msgServiceNotFound    = "service introuvable"
	msgStylistNotFound    = "coiffeur introuvable"
	msgStylistUnavailable = "ce coiffeur ne prend pas de rendez-vous"
	msgInvalidBookingDate = "impossible de réserver à une date passée"
	msgStylistOff         = "le coiffeur ne travaille pas à ce moment"
	msgInvalidTimeSlot    = "créneau horaire invalide"
	msgTooLateToBook      = "ce créneau est déjà passé"
	msgInvalidInput       = "coordonnées du client invalides"
)

type Handler struct {
	useCase  BookingCreator
	location *time.Location
	logger   Logger
}

func NewHandler(useCase BookingCreator, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(h.location)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		switch {
		case errors.Is(err, errInvalidServiceID):
			handlers.RespondBadRequest(w, msgInvalidServiceID)
		case errors.Is(err, errInvalidStylistID):
			handlers.RespondBadRequest(w, msgInvalidStylistID)
		case errors.Is(err, errInvalidTime):
			handlers.RespondBadRequest(w, msgInvalidTime)
		default:
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: stylist_id=%s, date=%s, time=%s",
				req.StylistID, req.BookingDate, req.BookingTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrStylistNotFound):
			h.logger.Warn("POST /bookings - Stylist not found: stylist_id=%s", req.StylistID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		case errors.Is(err, createBooking.ErrStylistUnavailable):
			h.logger.Warn("POST /bookings - Stylist unavailable: stylist_id=%s", req.StylistID)
			handlers.RespondConflict(w, msgStylistUnavailable)

		case errors.Is(err, createBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrStylistOff):
			handlers.RespondBadRequest(w, msgStylistOff)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: stylist_id=%s, service_id=%s, error=%v",
				req.StylistID, req.ServiceID, err)
			handlers.RespondFailure(w, r)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, stylist_id=%s",
		result.ID, result.StylistID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
