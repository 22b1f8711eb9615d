package booking_wizard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/internal/wizard"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

type WizardMachine interface {
	Start(ctx context.Context) (*wizard.View, error)
	Get(ctx context.Context, id uuid.UUID) (*wizard.View, error)
	SelectServices(ctx context.Context, id uuid.UUID, serviceIDs []uuid.UUID) (*wizard.View, error)
	SelectStylist(ctx context.Context, id uuid.UUID, stylistID uuid.UUID) (*wizard.View, error)
	SelectDate(ctx context.Context, id uuid.UUID, date time.Time) (*wizard.View, error)
	SelectTime(ctx context.Context, id uuid.UUID, slot types.TimeString) (*wizard.View, error)
	SetDetails(ctx context.Context, id uuid.UUID, details domain.ClientDetails) (*wizard.View, error)
	Next(ctx context.Context, id uuid.UUID) (*wizard.View, error)
	Previous(ctx context.Context, id uuid.UUID) (*wizard.View, error)
	Submit(ctx context.Context, id uuid.UUID) (*wizard.SubmitResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
