package list_stylists

import (
	"net/http"
	"strconv"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/service/catalog/models"
)

const msgInvalidAvailableOnly = "paramètre availableOnly invalide"

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type StylistsResponse struct {
	Stylists []models.StylistResponse `json:"stylists"`
}

// Handle GET /api/v1/stylists?availableOnly=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	availableOnly := false
	if raw := r.URL.Query().Get("availableOnly"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /stylists - Invalid availableOnly=%q", raw)
			handlers.RespondBadRequest(w, msgInvalidAvailableOnly)
			return
		}
		availableOnly = v
	}

	stylists, err := h.service.ListStylists(r.Context(), availableOnly)
	if err != nil {
		h.logger.Error("GET /stylists - Failed to list stylists: %v", err)
		handlers.RespondFailure(w, r)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, StylistsResponse{Stylists: stylists})
}
