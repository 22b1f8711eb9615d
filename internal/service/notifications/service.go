package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	notificationRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/notification"
	"github.com/m04kA/BarberBookingService/internal/service/notifications/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

var statusLabels = map[domain.AppointmentStatus]string{
	domain.StatusPending:   "en attente",
	domain.StatusConfirmed: "confirmé",
	domain.StatusCancelled: "annulé",
}

var deliveryLabels = map[domain.DeliveryMethod]string{
	domain.DeliveryWhatsApp: "WhatsApp",
	domain.DeliveryEmail:    "email",
}

var messageLabels = map[domain.MessageType]string{
	domain.MessageConfirmation: "Confirmation",
	domain.MessageReschedule:   "Reprogrammation",
	domain.MessageReminder:     "Rappel",
}

// Service генерирует уведомления для персонала и отдает ленту.
// Методы генерации не возвращают ошибок: сбой уведомления не должен ломать основную операцию
type Service struct {
	repo    NotificationRepository
	metrics Metrics
	logger  Logger
}

// NewService создает новый экземпляр сервиса уведомлений; metrics может быть nil
func NewService(repo NotificationRepository, metrics Metrics, logger Logger) *Service {
	return &Service{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
	}
}

// BookingCreated уведомление о новой записи
func (s *Service) BookingCreated(ctx context.Context, a *domain.Appointment) {
	s.emit(ctx, &domain.Notification{
		Title: "Nouveau rendez-vous",
		Content: fmt.Sprintf("%s a réservé le %s à %s (en attente)",
			a.ClientName, a.BookingDate.Format(domain.DateFormat), a.BookingTime),
		Type:          domain.NotificationAppointment,
		AppointmentID: &a.ID,
	})
}

// StatusChanged уведомление о смене статуса
func (s *Service) StatusChanged(ctx context.Context, a *domain.Appointment, from, to domain.AppointmentStatus) {
	notificationType := domain.NotificationAppointment
	switch to {
	case domain.StatusConfirmed:
		notificationType = domain.NotificationConfirmed
	case domain.StatusCancelled:
		notificationType = domain.NotificationCancelled
	}

	s.emit(ctx, &domain.Notification{
		Title: "Statut du rendez-vous modifié",
		Content: fmt.Sprintf("Rendez-vous de %s le %s à %s : %s → %s",
			a.ClientName, a.BookingDate.Format(domain.DateFormat), a.BookingTime,
			statusLabels[from], statusLabels[to]),
		Type:          notificationType,
		AppointmentID: &a.ID,
	})
}

// MessageSent уведомление об отправленном клиенту сообщении
func (s *Service) MessageSent(ctx context.Context, a *domain.Appointment, messageType domain.MessageType, method domain.DeliveryMethod) {
	s.emit(ctx, &domain.Notification{
		Title: fmt.Sprintf("%s envoyée par %s", messageLabels[messageType], deliveryLabels[method]),
		Content: fmt.Sprintf("Message envoyé à %s pour le rendez-vous du %s à %s",
			a.ClientName, a.BookingDate.Format(domain.DateFormat), a.BookingTime),
		Type:          messageType.NotificationType(),
		AppointmentID: &a.ID,
	})
}

// emit сохраняет уведомление, ошибки только логируются
func (s *Service) emit(ctx context.Context, n *domain.Notification) {
	if _, err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn("Notifications: failed to create type=%s: %v", n.Type, err)
		if s.metrics != nil {
			s.metrics.IncNotificationFailure(string(n.Type))
		}
		return
	}
	s.logger.Info("Notifications: created type=%s, id=%s", n.Type, n.ID)
}

// List последние уведомления, новые сверху
func (s *Service) List(ctx context.Context, limit int) (*models.NotificationListResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	list, err := s.repo.ListRecent(ctx, uint64(limit))
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainNotificationList(list), nil
}

// MarkRead отмечает уведомление прочитанным
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: repository error for id=%s: %v", id, err)
		return fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}
	return nil
}

// MarkAllRead отмечает все уведомления прочитанными
func (s *Service) MarkAllRead(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx)
	if err != nil {
		s.logger.Error("MarkAllRead: repository error: %v", err)
		return 0, fmt.Errorf("%w: MarkAllRead - repository error: %v", ErrInternal, err)
	}
	s.logger.Info("MarkAllRead: %d notifications marked as read", n)
	return n, nil
}
