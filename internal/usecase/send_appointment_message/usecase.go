package send_appointment_message

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/BarberBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/BarberBookingService/internal/integrations/email"
	"github.com/m04kA/BarberBookingService/internal/integrations/whatsapp"
	"github.com/m04kA/BarberBookingService/internal/messaging/templates"
	"github.com/m04kA/BarberBookingService/internal/service/appointments"
)

const (
	resultSent      = "sent"
	resultSimulated = "simulated"
	resultFailed    = "failed"
)

// UseCase use case для отправки сообщения клиенту по записи.
// Подтверждение записи и сообщение-подтверждение связаны: статус меняется только после успешной отправки
type UseCase struct {
	appointments AppointmentReader
	statuses     StatusChanger
	renderer     Renderer
	whatsApp     WhatsAppSender
	email        EmailSender
	messageLog   MessageLogRepository
	notifier     Notifier
	metrics      Metrics
	opts         Options
	tracer       trace.Tracer
	logger       Logger
}

// NewUseCase создает новый экземпляр use case; messageLog и metrics могут быть nil
func NewUseCase(
	appointments AppointmentReader,
	statuses StatusChanger,
	renderer Renderer,
	whatsApp WhatsAppSender,
	emailSender EmailSender,
	messageLog MessageLogRepository,
	notifier Notifier,
	metrics Metrics,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.CountryCode == "" {
		opts.CountryCode = domain.DefaultCountryCode
	}
	return &UseCase{
		appointments: appointments,
		statuses:     statuses,
		renderer:     renderer,
		whatsApp:     whatsApp,
		email:        emailSender,
		messageLog:   messageLog,
		notifier:     notifier,
		metrics:      metrics,
		opts:         opts,
		tracer:       otel.Tracer("barber-booking/send_appointment_message"),
		logger:       logger,
	}
}

// Execute рендерит и отправляет сообщение.
// Контакт проверяется до любых изменений; для confirmation запись после отправки переводится в confirmed
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := uc.tracer.Start(ctx, "SendAppointmentMessage")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	uc.logger.Info("SendAppointmentMessage: appointment=%s, type=%s, method=%s",
		req.AppointmentID, req.MessageType, req.DeliveryMethod)

	// 1. Валидация
	if !req.MessageType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMessageType, req.MessageType)
	}
	if !req.DeliveryMethod.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDeliveryMethod, req.DeliveryMethod)
	}
	span.SetAttributes(
		attribute.String("message.type", string(req.MessageType)),
		attribute.String("message.method", string(req.DeliveryMethod)),
	)

	// 2. Запись с услугой и мастером
	details, err := uc.getDetails(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Подтвердить можно только активную запись
	if req.MessageType == domain.MessageConfirmation && !domain.CanTransition(details.Status, domain.StatusConfirmed) {
		uc.logger.Warn("SendAppointmentMessage: appointment id=%s in status=%s cannot be confirmed", details.ID, details.Status)
		return nil, fmt.Errorf("%w: status %s", ErrInvalidTransition, details.Status)
	}

	// 4. Контакт клиента
	recipient, err := uc.recipient(details, req.DeliveryMethod)
	if err != nil {
		uc.logger.Warn("SendAppointmentMessage: appointment id=%s: %v", details.ID, err)
		return nil, err
	}

	// 5. Текст
	text, err := uc.render(details, req.MessageType)
	if err != nil {
		return nil, err
	}

	// 6. Отправка
	simulated, providerID, err := uc.deliver(ctx, details, req, recipient, text)
	if err != nil {
		uc.record(ctx, details, req, recipient, text, domain.MessageFailed, nil)
		uc.incSent(req, resultFailed)
		return nil, err
	}

	status := domain.MessageSent
	result := resultSent
	if simulated {
		status = domain.MessageSimulated
		result = resultSimulated
	}
	uc.record(ctx, details, req, recipient, text, status, providerID)
	uc.incSent(req, result)

	// 7. Подтверждение записи
	appointment := &details.Appointment
	if req.MessageType == domain.MessageConfirmation {
		confirmed, err := uc.statuses.Transition(ctx, details.ID, domain.StatusConfirmed)
		if err != nil {
			uc.logger.Error("SendAppointmentMessage: message sent but confirmation failed for id=%s: %v", details.ID, err)
			switch {
			case errors.Is(err, appointments.ErrAppointmentNotFound):
				return nil, ErrAppointmentNotFound
			case errors.Is(err, appointments.ErrInvalidTransition):
				return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
			}
			return nil, fmt.Errorf("%w: confirm appointment: %v", ErrInternal, err)
		}
		appointment = confirmed
	}

	// 8. Уведомление для персонала
	uc.notifier.MessageSent(ctx, appointment, req.MessageType, req.DeliveryMethod)

	uc.logger.Info("SendAppointmentMessage: %s sent by %s for appointment id=%s (simulated=%t)",
		req.MessageType, req.DeliveryMethod, details.ID, simulated)

	return &Response{
		AppointmentID:  appointment.ID,
		MessageType:    req.MessageType,
		DeliveryMethod: req.DeliveryMethod,
		Recipient:      recipient,
		Text:           text,
		Simulated:      simulated,
		Status:         appointment.Status,
		Confirmed:      appointment.Confirmed(),
	}, nil
}

// Preview текст сообщения без отправки и без изменения записи
func (uc *UseCase) Preview(ctx context.Context, req *PreviewRequest) (*PreviewResponse, error) {
	if !req.MessageType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMessageType, req.MessageType)
	}

	details, err := uc.getDetails(ctx, &Request{AppointmentID: req.AppointmentID, MessageType: req.MessageType})
	if err != nil {
		return nil, err
	}

	text, err := uc.render(details, req.MessageType)
	if err != nil {
		return nil, err
	}

	return &PreviewResponse{
		AppointmentID: details.ID,
		MessageType:   req.MessageType,
		Subject:       uc.renderer.Subject(req.MessageType),
		Text:          text,
		CanWhatsApp:   strings.TrimSpace(details.ClientPhone) != "",
		CanEmail:      strings.TrimSpace(details.ClientEmail) != "",
	}, nil
}

func (uc *UseCase) getDetails(ctx context.Context, req *Request) (*domain.AppointmentDetails, error) {
	details, err := uc.appointments.GetDetails(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("SendAppointmentMessage: appointment id=%s not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("SendAppointmentMessage: failed to get appointment id=%s: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	return details, nil
}

// recipient телефон в международном формате или email
func (uc *UseCase) recipient(details *domain.AppointmentDetails, method domain.DeliveryMethod) (string, error) {
	switch method {
	case domain.DeliveryWhatsApp:
		if strings.TrimSpace(details.ClientPhone) == "" {
			return "", fmt.Errorf("%w: client has no phone number", ErrMissingContactMethod)
		}
		phone, err := whatsapp.NormalizePhone(details.ClientPhone, uc.opts.CountryCode)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidPhone, details.ClientPhone)
		}
		return phone, nil
	default:
		address := strings.TrimSpace(details.ClientEmail)
		if address == "" {
			return "", fmt.Errorf("%w: client has no email", ErrMissingContactMethod)
		}
		return address, nil
	}
}

func (uc *UseCase) render(details *domain.AppointmentDetails, messageType domain.MessageType) (string, error) {
	text, err := uc.renderer.Render(messageType, templates.Facts{
		ClientName:   details.ClientName,
		Date:         details.BookingDate,
		Time:         details.BookingTime,
		ServiceTitle: details.ServiceTitle,
		StylistName:  details.StylistName,
	})
	if err != nil {
		if errors.Is(err, templates.ErrUnknownMessageType) {
			return "", fmt.Errorf("%w: %q", ErrInvalidMessageType, messageType)
		}
		uc.logger.Error("SendAppointmentMessage: render %s failed: %v", messageType, err)
		return "", fmt.Errorf("%w: render: %v", ErrInternal, err)
	}
	return text, nil
}

func (uc *UseCase) deliver(ctx context.Context, details *domain.AppointmentDetails, req *Request, recipient, text string) (bool, *string, error) {
	if req.DeliveryMethod == domain.DeliveryWhatsApp {
		res, err := uc.whatsApp.SendMessage(ctx, recipient, req.MessageType.TemplateName(), text)
		if err != nil {
			uc.logger.Error("SendAppointmentMessage: whatsapp send to=%s failed: %v", recipient, err)
			if errors.Is(err, whatsapp.ErrInvalidPhone) {
				return false, nil, fmt.Errorf("%w: %v", ErrInvalidPhone, err)
			}
			return false, nil, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		}
		return res.Simulated, nonEmpty(res.MessageID), nil
	}

	res, err := uc.email.Send(ctx, email.Message{
		To:      recipient,
		ToName:  details.ClientName,
		Subject: uc.renderer.Subject(req.MessageType),
		Body:    text,
	})
	if err != nil {
		uc.logger.Error("SendAppointmentMessage: email send to=%s failed: %v", recipient, err)
		return false, nil, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	return res.Simulated, nonEmpty(res.MessageID), nil
}

// record журнал сообщений; ошибка записи не влияет на результат
func (uc *UseCase) record(ctx context.Context, details *domain.AppointmentDetails, req *Request, recipient, text string, status domain.MessageLogStatus, providerID *string) {
	if uc.messageLog == nil {
		return
	}
	err := uc.messageLog.Create(ctx, &domain.MessageLog{
		AppointmentID:  details.ID,
		Channel:        req.DeliveryMethod,
		Recipient:      recipient,
		TemplateName:   req.MessageType.TemplateName(),
		MessagePreview: text,
		Status:         status,
		ProviderID:     providerID,
	})
	if err != nil {
		uc.logger.Warn("SendAppointmentMessage: failed to write message log for id=%s: %v", details.ID, err)
	}
}

func (uc *UseCase) incSent(req *Request, result string) {
	if uc.metrics != nil {
		uc.metrics.IncMessageSent(string(req.DeliveryMethod), string(req.MessageType), result)
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
