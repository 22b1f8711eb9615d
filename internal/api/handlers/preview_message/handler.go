package preview_message

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/domain"
	sendMessage "github.com/m04kA/BarberBookingService/internal/usecase/send_appointment_message"
)

const (
	msgInvalidAppointmentID = "identifiant de rendez-vous invalide"
	msgNotFound             = "rendez-vous introuvable"
	msgInvalidMessageType   = "type de message invalide, valeurs possibles : confirmation, reschedule, reminder"
)

// PreviewResponse текст для окна подтверждения (копирование, просмотр)
type PreviewResponse struct {
	AppointmentID string `json:"appointmentId"`
	MessageType   string `json:"messageType"`
	Subject       string `json:"subject"`
	Text          string `json:"text"`
	CanWhatsApp   bool   `json:"canWhatsApp"`
	CanEmail      bool   `json:"canEmail"`
}

type Handler struct {
	useCase PreviewUseCase
	logger  Logger
}

func NewHandler(useCase PreviewUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/appointments/{appointmentId}/messages/preview?messageType=confirmation
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "appointmentId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	messageType := domain.MessageType(strings.ToLower(r.URL.Query().Get("messageType")))
	if messageType == "" {
		messageType = domain.MessageConfirmation
	}

	result, err := h.useCase.Preview(r.Context(), &sendMessage.PreviewRequest{
		AppointmentID: id,
		MessageType:   messageType,
	})
	if err != nil {
		switch {
		case errors.Is(err, sendMessage.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, sendMessage.ErrInvalidMessageType):
			handlers.RespondBadRequest(w, msgInvalidMessageType)
		default:
			h.logger.Error("GET /admin/appointments/{id}/messages/preview - Failed to render: id=%s, error=%v", id, err)
			handlers.RespondFailure(w, r)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, PreviewResponse{
		AppointmentID: result.AppointmentID.String(),
		MessageType:   string(result.MessageType),
		Subject:       result.Subject,
		Text:          result.Text,
		CanWhatsApp:   result.CanWhatsApp,
		CanEmail:      result.CanEmail,
	})
}
