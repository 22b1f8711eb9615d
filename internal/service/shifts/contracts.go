package shifts

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

// ShiftRepository интерфейс репозитория графиков
type ShiftRepository interface {
	ListByStylist(ctx context.Context, stylistID uuid.UUID) ([]*domain.Shift, error)
	ReplaceForStylist(ctx context.Context, stylistID uuid.UUID, shifts []*domain.Shift) error
}

// StylistGetter проверка существования мастера
type StylistGetter interface {
	GetStylistByID(ctx context.Context, id uuid.UUID) (*domain.Stylist, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
