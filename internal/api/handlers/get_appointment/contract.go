package get_appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetDetails(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
