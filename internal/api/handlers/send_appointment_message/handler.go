package send_appointment_message

import (
	"errors"
	"net/http"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/domain"
	sendMessage "github.com/m04kA/BarberBookingService/internal/usecase/send_appointment_message"
)

const (
	msgInvalidRequestBody    = "corps de requête invalide"
	msgInvalidAppointmentID  = "identifiant de rendez-vous invalide"
	msgNotFound              = "rendez-vous introuvable"
	msgInvalidMessageType    = "type de message invalide, valeurs possibles : confirmation, reschedule, reminder"
	msgInvalidDeliveryMethod = "mode d'envoi invalide, valeurs possibles : whatsapp, email"
	msgMissingPhone          = "le client n'a pas de numéro de téléphone"
	msgMissingEmail          = "le client n'a pas d'adresse email"
	msgInvalidPhone          = "le numéro de téléphone du client est invalide"
	msgInvalidTransition     = "un rendez-vous annulé ne peut pas être confirmé"
	msgDeliveryFailed        = "l'envoi du message a échoué, le rendez-vous n'a pas été modifié"
)

type Handler struct {
	useCase SendMessageUseCase
	logger  Logger
}

func NewHandler(useCase SendMessageUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/appointments/{appointmentId}/messages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("POST /admin/appointments/{id}/messages - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req SendMessageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/appointments/{id}/messages - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq := req.ToUseCaseRequest(id)
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, sendMessage.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, sendMessage.ErrInvalidMessageType):
			handlers.RespondBadRequest(w, msgInvalidMessageType)

		case errors.Is(err, sendMessage.ErrInvalidDeliveryMethod):
			handlers.RespondBadRequest(w, msgInvalidDeliveryMethod)

		case errors.Is(err, sendMessage.ErrMissingContactMethod):
			h.logger.Warn("POST /admin/appointments/{id}/messages - Missing contact: id=%s, method=%s", id, req.DeliveryMethod)
			message := msgMissingPhone
			if useCaseReq.DeliveryMethod != domain.DeliveryWhatsApp {
				message = msgMissingEmail
			}
			handlers.RespondError(w, http.StatusUnprocessableEntity, message)

		case errors.Is(err, sendMessage.ErrInvalidPhone):
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidPhone)

		case errors.Is(err, sendMessage.ErrInvalidTransition):
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, sendMessage.ErrDeliveryFailed):
			h.logger.Error("POST /admin/appointments/{id}/messages - Delivery failed: id=%s, method=%s, error=%v",
				id, req.DeliveryMethod, err)
			handlers.RespondError(w, http.StatusBadGateway, msgDeliveryFailed)

		default:
			h.logger.Error("POST /admin/appointments/{id}/messages - Failed to send message: id=%s, error=%v", id, err)
			handlers.RespondFailure(w, r)
		}
		return
	}

	h.logger.Info("POST /admin/appointments/{id}/messages - Message sent: id=%s, type=%s, method=%s, simulated=%t",
		id, result.MessageType, result.DeliveryMethod, result.Simulated)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
