package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	ListRecent(ctx context.Context, limit uint64) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) (int64, error)
}

// Metrics счетчик неудачных уведомлений
type Metrics interface {
	IncNotificationFailure(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
