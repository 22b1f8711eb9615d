package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	GetDetails(ctx context.Context, id uuid.UUID) (*domain.AppointmentDetails, error)
	ListDetails(ctx context.Context, q domain.AppointmentsQuery) ([]*domain.AppointmentDetails, error)
	ListByClientEmail(ctx context.Context, email string) ([]*domain.AppointmentDetails, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountBetween(ctx context.Context, from, to time.Time) (int, error)
	CountDistinctClients(ctx context.Context) (int, error)
}

// StylistCounter источник числа мастеров для дашборда
type StylistCounter interface {
	CountStylists(ctx context.Context) (int, error)
}

// Notifier генерация уведомлений (best-effort)
type Notifier interface {
	StatusChanged(ctx context.Context, a *domain.Appointment, from, to domain.AppointmentStatus)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
