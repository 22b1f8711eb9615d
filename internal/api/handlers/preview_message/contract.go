package preview_message

import (
	"context"

	sendMessage "github.com/m04kA/BarberBookingService/internal/usecase/send_appointment_message"
)

type PreviewUseCase interface {
	Preview(ctx context.Context, req *sendMessage.PreviewRequest) (*sendMessage.PreviewResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
