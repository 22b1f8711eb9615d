package notifications_feed

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/service/notifications"
)

const (
	msgInvalidLimit          = "paramètre limit invalide"
	msgInvalidNotificationID = "identifiant de notification invalide"
	msgNotFound              = "notification introuvable"
)

// MarkAllReadResponse число отмеченных уведомлений
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/admin/notifications?limit=20
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = n
	}

	list, err := h.service.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("GET /admin/notifications - Failed to list notifications: %v", err)
		handlers.RespondFailure(w, r)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, list)
}

// MarkRead PATCH /api/v1/admin/notifications/{notificationId}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "notificationId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidNotificationID)
		return
	}

	if err := h.service.MarkRead(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, notifications.ErrNotificationNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		default:
			h.logger.Error("PATCH /admin/notifications/{id}/read - Failed: id=%s, error=%v", id, err)
			handlers.RespondFailure(w, r)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead POST /api/v1/admin/notifications/read-all
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.MarkAllRead(r.Context())
	if err != nil {
		h.logger.Error("POST /admin/notifications/read-all - Failed: %v", err)
		handlers.RespondFailure(w, r)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, MarkAllReadResponse{Updated: n})
}
