package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/BarberBookingService/internal/service/appointments/models"
)

// Service административные операции над записями
type Service struct {
	repo         AppointmentRepository
	stylists     StylistCounter
	notifier     Notifier
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	repo AppointmentRepository,
	stylists StylistCounter,
	notifier Notifier,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		repo:         repo,
		stylists:     stylists,
		notifier:     notifier,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// List записи по фильтру, упорядоченные по дате и времени.
// Строки с одинаковым ключом клиент+дата+время+услуга схлопываются в одну:
// при работающем ограничении уникальности слота таких дублей быть не должно
func (s *Service) List(ctx context.Context, filter string) (*models.AppointmentListResponse, error) {
	if filter == "" {
		filter = string(domain.FilterAll)
	}
	f := domain.AppointmentFilter(filter)
	if !f.IsValid() {
		s.logger.Warn("List: invalid filter=%s", filter)
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, filter)
	}

	list, err := s.repo.ListDetails(ctx, domain.AppointmentsQuery{Filter: f, Today: s.today()})
	if err != nil {
		s.logger.Error("List: repository error for filter=%s: %v", filter, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	deduped := dedupe(list)
	if dropped := len(list) - len(deduped); dropped > 0 {
		s.logger.Warn("List: dropped %d duplicate rows for filter=%s", dropped, filter)
	}

	s.logger.Info("List: fetched %d appointments for filter=%s", len(deduped), filter)
	return models.FromDomainDetailsList(deduped), nil
}

// GetDetails запись с названием услуги и именем мастера
func (s *Service) GetDetails(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	details, err := s.repo.GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetDetails: appointment id=%s not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetDetails: repository error for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetDetails - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainDetails(details)
	return &resp, nil
}

// UpdateStatus смена статуса из админки
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	status := domain.AppointmentStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.IsValid() {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%s", req.Status, id)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}
	if req.Confirmed != nil && *req.Confirmed != (status == domain.StatusConfirmed) {
		s.logger.Warn("UpdateStatus: confirmed=%t contradicts status=%s", *req.Confirmed, status)
		return nil, fmt.Errorf("%w: confirmed must be true only for status confirmed", ErrInvalidInput)
	}

	a, err := s.Transition(ctx, id, status)
	if err != nil {
		return nil, err
	}

	resp := models.FromDomainAppointment(a)
	return &resp, nil
}

// Transition переводит запись в новый статус и генерирует уведомление.
// Повторная установка текущего статуса ничего не меняет
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to domain.AppointmentStatus) (*domain.Appointment, error) {
	s.logger.Info("Transition: appointment id=%s to status=%s", id, to)

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Transition: appointment id=%s not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Transition: repository error for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Transition - repository error: %v", ErrInternal, err)
	}

	if !domain.CanTransition(a.Status, to) {
		s.logger.Warn("Transition: appointment id=%s cannot go from %s to %s", id, a.Status, to)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}
	if a.Status == to {
		return a, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			s.logger.Warn("Transition: appointment id=%s deleted concurrently", id)
			return nil, ErrAppointmentNotFound
		case errors.Is(err, appointmentRepo.ErrSlotNotAvailable):
			return nil, ErrSlotNotAvailable
		}
		s.logger.Error("Transition: repository error for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Transition - repository error: %v", ErrInternal, err)
	}

	from := a.Status
	a.Status = to
	s.notifier.StatusChanged(ctx, a, from, to)

	s.logger.Info("Transition: appointment id=%s moved %s -> %s", id, from, to)
	return a, nil
}

// Delete безвозвратно удаляет запись из любого статуса.
// Подтверждение действия проверяется на уровне HTTP
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("Delete: deleting appointment id=%s", id)

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Delete: appointment id=%s not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: repository error for appointment id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: appointment id=%s deleted", id)
	return nil
}

// Stats счетчики дашборда: сегодня, текущая неделя (пн-вс), уникальные клиенты, мастера
func (s *Service) Stats(ctx context.Context) (*models.StatsResponse, error) {
	today := s.today()
	weekStart, weekEnd := weekBounds(today)

	var stats domain.DashboardStats
	var err error

	if stats.BookingsToday, err = s.repo.CountBetween(ctx, today, today); err != nil {
		return nil, s.statsError("bookings today", err)
	}
	if stats.BookingsWeek, err = s.repo.CountBetween(ctx, weekStart, weekEnd); err != nil {
		return nil, s.statsError("bookings week", err)
	}
	if stats.TotalClients, err = s.repo.CountDistinctClients(ctx); err != nil {
		return nil, s.statsError("clients", err)
	}
	if stats.TotalStylists, err = s.stylists.CountStylists(ctx); err != nil {
		return nil, s.statsError("stylists", err)
	}

	return models.FromDomainStats(stats), nil
}

func (s *Service) statsError(what string, err error) error {
	s.logger.Error("Stats: failed to count %s: %v", what, err)
	return fmt.Errorf("%w: Stats - count %s: %v", ErrInternal, what, err)
}

// GetClientAppointments история записей клиента по email
func (s *Service) GetClientAppointments(ctx context.Context, email string) (*models.AppointmentListResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	list, err := s.repo.ListByClientEmail(ctx, email)
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainDetailsList(list), nil
}

// today календарный день салона
func (s *Service) today() time.Time {
	now := s.timeProvider.Now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
}

// weekBounds понедельник и воскресенье недели, содержащей day
func weekBounds(day time.Time) (time.Time, time.Time) {
	offset := domain.DayOfWeek(day) - 1
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// dedupe оставляет первую строку для каждого ключа клиент+дата+время+услуга
func dedupe(list []*domain.AppointmentDetails) []*domain.AppointmentDetails {
	seen := make(map[string]struct{}, len(list))
	out := make([]*domain.AppointmentDetails, 0, len(list))
	for _, d := range list {
		key := fmt.Sprintf("%s-%s-%s-%s",
			d.ClientName, d.BookingDate.Format(domain.DateFormat), d.BookingTime, d.ServiceID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	return out
}
