package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/slotlock"
)

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetBookedSlots(ctx context.Context, stylistID uuid.UUID, date time.Time) ([]domain.BookedSlot, error)
	GetActiveInGroup(ctx context.Context, groupID, serviceID uuid.UUID) (*domain.Appointment, error)
}

// CatalogRepository интерфейс каталога услуг и мастеров
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	GetStylistByID(ctx context.Context, id uuid.UUID) (*domain.Stylist, error)
}

// ShiftRepository интерфейс репозитория графиков
type ShiftRepository interface {
	ListByStylist(ctx context.Context, stylistID uuid.UUID) ([]*domain.Shift, error)
}

// SlotLocker сериализует конкурентные записи на один слот до обращения к БД
type SlotLocker interface {
	Acquire(ctx context.Context, key string) (slotlock.ReleaseFunc, error)
}

// Notifier генерация уведомлений (best-effort)
type Notifier interface {
	BookingCreated(ctx context.Context, a *domain.Appointment)
}

// Metrics счетчики записей
type Metrics interface {
	IncBookingCreated()
	IncBookingConflict()
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
