package send_appointment_message

import (
	"context"

	sendMessage "github.com/m04kA/BarberBookingService/internal/usecase/send_appointment_message"
)

type SendMessageUseCase interface {
	Execute(ctx context.Context, req *sendMessage.Request) (*sendMessage.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
