package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	// ErrNotConfigured возвращается, когда отправитель создан без API ключа
	ErrNotConfigured = errors.New("email: sender not configured")

	// ErrInvalidRecipient возвращается при пустом адресе получателя
	ErrInvalidRecipient = errors.New("email: invalid recipient")

	// ErrDeliveryFailed возвращается при ошибке SendGrid (сеть или статус >= 400)
	ErrDeliveryFailed = errors.New("email: delivery failed")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Message письмо клиенту
type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// Result результат отправки
type Result struct {
	MessageID string
	Simulated bool
}

// Config параметры SendGrid
type Config struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridSender отправляет письма через SendGrid API
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       Logger
}

// NewSendGridSender возвращает nil, если API ключ не задан
func NewSendGridSender(cfg Config, log Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.FromName == "" {
		cfg.FromName = "Salon"
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log,
	}
}

// Send отправляет письмо
func (s *SendGridSender) Send(ctx context.Context, msg Message) (*Result, error) {
	if s == nil || s.client == nil {
		return nil, ErrNotConfigured
	}
	if msg.To == "" {
		return nil, ErrInvalidRecipient
	}

	response, err := s.client.SendWithContext(ctx, buildMail(s.fromName, s.fromEmail, msg))
	if err != nil {
		s.log.Error("SendGrid send failed to=%s: %v", msg.To, err)
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	if response.StatusCode >= 400 {
		s.log.Error("SendGrid returned status=%d to=%s: %s", response.StatusCode, msg.To, response.Body)
		return nil, fmt.Errorf("%w: sendgrid returned status %d", ErrDeliveryFailed, response.StatusCode)
	}

	var messageID string
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}

	s.log.Info("Email sent via SendGrid to=%s, subject=%q, status=%d", msg.To, msg.Subject, response.StatusCode)
	return &Result{MessageID: messageID}, nil
}

func buildMail(fromName, fromEmail string, msg Message) *mail.SGMailV3 {
	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	return mail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")
}

// StubSender ничего не отправляет, только логирует (email выключен)
type StubSender struct {
	log Logger
}

func NewStubSender(log Logger) *StubSender {
	return &StubSender{log: log}
}

func (s *StubSender) Send(_ context.Context, msg Message) (*Result, error) {
	if msg.To == "" {
		return nil, ErrInvalidRecipient
	}
	s.log.Info("Email disabled, simulated send to=%s, subject=%q", msg.To, msg.Subject)
	return &Result{Simulated: true}, nil
}
