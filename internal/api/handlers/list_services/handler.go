package list_services

import (
	"net/http"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/service/catalog/models"
)

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

// ServicesResponse список услуг по возрастанию цены
type ServicesResponse struct {
	Services []models.ServiceResponse `json:"services"`
}

// Handle GET /api/v1/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListServices(r.Context())
	if err != nil {
		h.logger.Error("GET /services - Failed to list services: %v", err)
		handlers.RespondFailure(w, r)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ServicesResponse{Services: services})
}
