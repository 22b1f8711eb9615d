package wizard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/internal/usecase/create_booking"
	"github.com/m04kA/BarberBookingService/pkg/slotlock"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// Catalog услуги и мастера по ID
type Catalog interface {
	GetServiceByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	GetStylistByID(ctx context.Context, id uuid.UUID) (*domain.Stylist, error)
}

// SlotSource свободные слоты мастера на дату
type SlotSource interface {
	AvailableSlots(ctx context.Context, stylistID uuid.UUID, date time.Time) ([]types.TimeString, error)
}

// Booker создание одной записи
type Booker interface {
	Execute(ctx context.Context, req *create_booking.Request) (*create_booking.Response, error)
}

// SessionStore хранилище черновиков
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.WizardSession, error)
	Save(ctx context.Context, session *domain.WizardSession) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SessionLocker сериализует запросы к одной сессии
type SessionLocker interface {
	Acquire(ctx context.Context, key string) (slotlock.ReleaseFunc, error)
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
