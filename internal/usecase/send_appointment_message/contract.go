package send_appointment_message

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/internal/integrations/email"
	"github.com/m04kA/BarberBookingService/internal/integrations/whatsapp"
	"github.com/m04kA/BarberBookingService/internal/messaging/templates"
)

// AppointmentReader чтение записи с названием услуги и именем мастера
type AppointmentReader interface {
	GetDetails(ctx context.Context, id uuid.UUID) (*domain.AppointmentDetails, error)
}

// StatusChanger смена статуса записи вместе с уведомлением о смене
type StatusChanger interface {
	Transition(ctx context.Context, id uuid.UUID, to domain.AppointmentStatus) (*domain.Appointment, error)
}

// Renderer шаблоны сообщений
type Renderer interface {
	Render(messageType domain.MessageType, f templates.Facts) (string, error)
	Subject(messageType domain.MessageType) string
}

// WhatsAppSender клиент WhatsApp-шлюза
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phone, templateName, text string) (*whatsapp.Result, error)
}

// EmailSender отправка писем
type EmailSender interface {
	Send(ctx context.Context, msg email.Message) (*email.Result, error)
}

// MessageLogRepository журнал отправленных сообщений
type MessageLogRepository interface {
	Create(ctx context.Context, l *domain.MessageLog) error
}

// Notifier генерация уведомлений (best-effort)
type Notifier interface {
	MessageSent(ctx context.Context, a *domain.Appointment, messageType domain.MessageType, method domain.DeliveryMethod)
}

// Metrics счетчик сообщений
type Metrics interface {
	IncMessageSent(channel, messageType, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
