package get_available_slots

import (
	"github.com/m04kA/BarberBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/BarberBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	StylistID string   `json:"stylistId"`
	Date      string   `json:"date"`  // "2025-03-10"
	Slots     []string `json:"slots"` // ["09:00", "09:30", ...]
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, s.String())
	}
	return &AvailableSlotsResponse{
		StylistID: resp.StylistID.String(),
		Date:      resp.Date.Format(domain.DateFormat),
		Slots:     slots,
	}
}
