package get_stats

import (
	"net/http"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
)

type Handler struct {
	service StatsService
	logger  Logger
}

func NewHandler(service StatsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/stats - Failed to compute stats: %v", err)
		handlers.RespondFailure(w, r)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, stats)
}
