package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

// CatalogRepository интерфейс репозитория услуг и мастеров
type CatalogRepository interface {
	ListServices(ctx context.Context) ([]*domain.Service, error)
	GetServiceByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	ListStylists(ctx context.Context, availableOnly bool) ([]*domain.Stylist, error)
	GetStylistByID(ctx context.Context, id uuid.UUID) (*domain.Stylist, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
