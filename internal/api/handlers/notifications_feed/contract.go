package notifications_feed

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/service/notifications/models"
)

type NotificationService interface {
	List(ctx context.Context, limit int) (*models.NotificationListResponse, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
