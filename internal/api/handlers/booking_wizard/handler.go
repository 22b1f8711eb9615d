package booking_wizard

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/internal/wizard"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

const (
	msgInvalidRequestBody = "corps de requête invalide"
	msgInvalidSessionID   = "identifiant de session invalide"
	msgInvalidServiceID   = "identifiant de service invalide"
	msgInvalidStylistID   = "identifiant de coiffeur invalide"
	msgInvalidDate        = "format de date invalide, attendu AAAA-MM-JJ"
	msgInvalidTime        = "format d'heure invalide, attendu HH:MM"
	msgSessionNotFound    = "session de réservation introuvable ou expirée"
	msgSessionBusy        = "la session est déjà en cours de traitement"
	msgSessionClosed      = "cette réservation a déjà été envoyée"
	msgWrongStep          = "cette action n'est pas possible à cette étape"
	msgNoServices         = "veuillez sélectionner au moins un service"
	msgNoStylist          = "veuillez sélectionner un coiffeur"
	msgNoDateTime         = "veuillez sélectionner une date et une heure"
	msgDetailsIncomplete  = "le nom, l'email et le téléphone sont obligatoires"
	msgNoPreviousStep     = "vous êtes déjà à la première étape"
	msgUseSubmit          = "dernière étape, veuillez confirmer la réservation"
	msgServiceNotFound    = "service introuvable"
	msgStylistNotFound    = "coiffeur introuvable"
	msgStylistUnavailable = "ce coiffeur ne prend pas de rendez-vous"
	msgPastDate           = "impossible de réserver à une date passée"
	msgSundayClosed       = "le salon est fermé le dimanche"
	msgTimeUnavailable    = "ce créneau n'est pas disponible"
	msgInvalidInput       = "coordonnées du client invalides"
	msgSlotTaken          = "ce créneau vient d'être réservé"
	msgBookingFailed      = "la réservation a échoué"
	msgPartialFailure     = "certains services n'ont pas pu être réservés, vous pouvez réessayer"
	msgTotalFailure       = "aucun service n'a pu être réservé, vous pouvez réessayer"
)

type Handler struct {
	machine  WizardMachine
	location *time.Location
	logger   Logger
}

func NewHandler(machine WizardMachine, location *time.Location, logger Logger) *Handler {
	return &Handler{
		machine:  machine,
		location: location,
		logger:   logger,
	}
}

// Start POST /api/v1/wizard/sessions
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	view, err := h.machine.Start(r.Context())
	if err != nil {
		h.logger.Error("POST /wizard/sessions - Failed to start session: %v", err)
		handlers.RespondFailure(w, r)
		return
	}
	h.logger.Info("POST /wizard/sessions - Session started: session_id=%s", view.Session.ID)
	handlers.RespondJSON(w, http.StatusCreated, fromView(view))
}

// Get GET /api/v1/wizard/sessions/{sessionId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.machine.Get(r.Context(), id)
	h.respondView(w, r, "GET /wizard/sessions/{id}", id, view, err)
}

// SelectServices PUT /api/v1/wizard/sessions/{sessionId}/services
func (h *Handler) SelectServices(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req SelectServicesRequest
	if !h.decode(w, r, &req) {
		return
	}

	serviceIDs := make([]uuid.UUID, 0, len(req.ServiceIDs))
	for _, raw := range req.ServiceIDs {
		serviceID, err := uuid.Parse(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		serviceIDs = append(serviceIDs, serviceID)
	}

	view, err := h.machine.SelectServices(r.Context(), id, serviceIDs)
	h.respondView(w, r, "PUT /wizard/sessions/{id}/services", id, view, err)
}

// SelectStylist PUT /api/v1/wizard/sessions/{sessionId}/stylist
func (h *Handler) SelectStylist(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req SelectStylistRequest
	if !h.decode(w, r, &req) {
		return
	}
	stylistID, err := uuid.Parse(req.StylistID)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidStylistID)
		return
	}

	view, err := h.machine.SelectStylist(r.Context(), id, stylistID)
	h.respondView(w, r, "PUT /wizard/sessions/{id}/stylist", id, view, err)
}

// SelectDate PUT /api/v1/wizard/sessions/{sessionId}/date
func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req SelectDateRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := handlers.ParseDate(req.Date, h.location)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	view, err := h.machine.SelectDate(r.Context(), id, date)
	h.respondView(w, r, "PUT /wizard/sessions/{id}/date", id, view, err)
}

// SelectTime PUT /api/v1/wizard/sessions/{sessionId}/time
func (h *Handler) SelectTime(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req SelectTimeRequest
	if !h.decode(w, r, &req) {
		return
	}
	slot, err := types.NewTimeStringFromString(req.Time)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	view, err := h.machine.SelectTime(r.Context(), id, slot)
	h.respondView(w, r, "PUT /wizard/sessions/{id}/time", id, view, err)
}

// SetDetails PUT /api/v1/wizard/sessions/{sessionId}/details
func (h *Handler) SetDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req DetailsRequest
	if !h.decode(w, r, &req) {
		return
	}

	view, err := h.machine.SetDetails(r.Context(), id, domain.ClientDetails{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	h.respondView(w, r, "PUT /wizard/sessions/{id}/details", id, view, err)
}

// Next POST /api/v1/wizard/sessions/{sessionId}/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.machine.Next(r.Context(), id)
	h.respondView(w, r, "POST /wizard/sessions/{id}/next", id, view, err)
}

// Previous POST /api/v1/wizard/sessions/{sessionId}/previous
func (h *Handler) Previous(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.machine.Previous(r.Context(), id)
	h.respondView(w, r, "POST /wizard/sessions/{id}/previous", id, view, err)
}

// Submit POST /api/v1/wizard/sessions/{sessionId}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	result, err := h.machine.Submit(r.Context(), id)

	var submitErr *wizard.SubmitError
	if errors.As(err, &submitErr) {
		resp := SubmitFailureResponse{
			Code:     http.StatusConflict,
			Message:  msgTotalFailure,
			Partial:  submitErr.Partial(),
			Outcomes: fromOutcomes(submitErr.Outcomes),
		}
		if resp.Partial {
			resp.Message = msgPartialFailure
		}
		if result != nil && result.Session != nil {
			resp.Session = fromSession(result.Session)
		}
		h.logger.Warn("POST /wizard/sessions/{id}/submit - Submit failed: session_id=%s, partial=%t, failed=%d",
			id, resp.Partial, len(submitErr.Failed()))
		handlers.RespondJSON(w, http.StatusConflict, resp)
		return
	}
	if err != nil {
		h.respondError(w, r, "POST /wizard/sessions/{id}/submit", id, err)
		return
	}

	h.logger.Info("POST /wizard/sessions/{id}/submit - Booked %d services: session_id=%s", len(result.Outcomes), id)
	handlers.RespondJSON(w, http.StatusCreated, SubmitResponse{
		Session:  fromSession(result.Session),
		Outcomes: fromOutcomes(result.Outcomes),
	})
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := handlers.PathUUID(r, "sessionId")
	if err != nil {
		h.logger.Warn("%s %s - Invalid session ID: %v", r.Method, r.URL.Path, err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := handlers.DecodeJSON(r, v); err != nil {
		h.logger.Warn("%s %s - Invalid request body: %v", r.Method, r.URL.Path, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return false
	}
	return true
}

func (h *Handler) respondView(w http.ResponseWriter, r *http.Request, op string, id uuid.UUID, view *wizard.View, err error) {
	if err != nil {
		h.respondError(w, r, op, id, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, fromView(view))
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, id uuid.UUID, err error) {
	status, message := http.StatusInternalServerError, ""

	switch {
	case errors.Is(err, wizard.ErrSessionNotFound):
		status, message = http.StatusNotFound, msgSessionNotFound
	case errors.Is(err, wizard.ErrSessionBusy):
		status, message = http.StatusConflict, msgSessionBusy
	case errors.Is(err, wizard.ErrSessionClosed):
		status, message = http.StatusConflict, msgSessionClosed
	case errors.Is(err, wizard.ErrWrongStep):
		status, message = http.StatusConflict, msgWrongStep
	case errors.Is(err, wizard.ErrNoServices):
		status, message = http.StatusBadRequest, msgNoServices
	case errors.Is(err, wizard.ErrNoStylist):
		status, message = http.StatusBadRequest, msgNoStylist
	case errors.Is(err, wizard.ErrNoDateTime):
		status, message = http.StatusBadRequest, msgNoDateTime
	case errors.Is(err, wizard.ErrDetailsIncomplete):
		status, message = http.StatusBadRequest, msgDetailsIncomplete
	case errors.Is(err, wizard.ErrNoPreviousStep):
		status, message = http.StatusBadRequest, msgNoPreviousStep
	case errors.Is(err, wizard.ErrUseSubmit):
		status, message = http.StatusBadRequest, msgUseSubmit
	case errors.Is(err, wizard.ErrServiceNotFound):
		status, message = http.StatusNotFound, msgServiceNotFound
	case errors.Is(err, wizard.ErrStylistNotFound):
		status, message = http.StatusNotFound, msgStylistNotFound
	case errors.Is(err, wizard.ErrStylistUnavailable):
		status, message = http.StatusConflict, msgStylistUnavailable
	case errors.Is(err, wizard.ErrPastDate):
		status, message = http.StatusBadRequest, msgPastDate
	case errors.Is(err, wizard.ErrSundayClosed):
		status, message = http.StatusBadRequest, msgSundayClosed
	case errors.Is(err, wizard.ErrTimeUnavailable):
		status, message = http.StatusConflict, msgTimeUnavailable
	case errors.Is(err, wizard.ErrInvalidInput):
		status, message = http.StatusBadRequest, msgInvalidInput
	}

	if message == "" {
		h.logger.Error("%s - Wizard error: session_id=%s, error=%v", op, id, err)
		handlers.RespondFailure(w, r)
		return
	}
	h.logger.Warn("%s - Rejected: session_id=%s, reason=%v", op, id, err)
	handlers.RespondError(w, status, message)
}
