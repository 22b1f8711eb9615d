package replace_shifts

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/service/shifts/models"
)

type ShiftService interface {
	Replace(ctx context.Context, stylistID uuid.UUID, req *models.ReplaceShiftsRequest) (*models.ShiftsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
