package appointments_stream

import (
	"context"

	"github.com/m04kA/BarberBookingService/internal/infra/events"
	"github.com/m04kA/BarberBookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	List(ctx context.Context, filter string) (*models.AppointmentListResponse, error)
}

// EventSource источник сигналов об изменении записей
type EventSource interface {
	Subscribe() (<-chan events.Event, func())
}

type Metrics interface {
	AddStreamClients(delta float64)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
