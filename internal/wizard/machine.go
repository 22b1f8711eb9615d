// Package wizard ведет клиента по четырем шагам записи: услуги, мастер, дата и время, контакты.
// Состояние хранится в SessionStore, каждая операция читает сессию, меняет ее и сохраняет целиком.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/BarberBookingService/internal/domain"
	catalogRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/BarberBookingService/internal/infra/storage/wizardsession"
	"github.com/m04kA/BarberBookingService/internal/usecase/create_booking"
	"github.com/m04kA/BarberBookingService/pkg/slotlock"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

const defaultMaxParallel = 4

// Machine машина состояний мастера записи
type Machine struct {
	catalog      Catalog
	slots        SlotSource
	booker       Booker
	store        SessionStore
	locker       SessionLocker
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewMachine создает машину состояний; при locker == nil сессии блокируются в памяти процесса
func NewMachine(catalog Catalog, slots SlotSource, booker Booker, store SessionStore, locker SessionLocker, opts Options, logger Logger) *Machine {
	if locker == nil {
		locker = slotlock.NewLocalLocker(0)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = defaultMaxParallel
	}
	return &Machine{
		catalog:      catalog,
		slots:        slots,
		booker:       booker,
		store:        store,
		locker:       locker,
		opts:         opts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Start новая сессия на шаге 1
func (m *Machine) Start(ctx context.Context) (*View, error) {
	now := m.timeProvider.Now()
	session := &domain.WizardSession{
		ID:        uuid.New(),
		Step:      domain.StepServices,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Save(ctx, session); err != nil {
		m.logger.Error("Wizard.Start: failed to save session: %v", err)
		return nil, fmt.Errorf("%w: save session: %v", ErrInternal, err)
	}
	m.logger.Info("Wizard.Start: session id=%s", session.ID)
	return m.view(ctx, session), nil
}

// Get текущее состояние со сводкой и слотами
func (m *Machine) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	session, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.view(ctx, session), nil
}

// SelectServices выбор услуг на шаге 1, повторы отбрасываются
func (m *Machine) SelectServices(ctx context.Context, id uuid.UUID, serviceIDs []uuid.UUID) (*View, error) {
	return m.update(ctx, id, func(s *domain.WizardSession) error {
		if s.Step != domain.StepServices {
			return ErrWrongStep
		}
		if len(s.Booked) > 0 {
			return fmt.Errorf("%w: some services are already booked", ErrWrongStep)
		}

		seen := make(map[uuid.UUID]struct{}, len(serviceIDs))
		selected := make([]uuid.UUID, 0, len(serviceIDs))
		for _, serviceID := range serviceIDs {
			if _, dup := seen[serviceID]; dup {
				continue
			}
			seen[serviceID] = struct{}{}

			if _, err := m.catalog.GetServiceByID(ctx, serviceID); err != nil {
				if errors.Is(err, catalogRepo.ErrServiceNotFound) {
					return fmt.Errorf("%w: %s", ErrServiceNotFound, serviceID)
				}
				return fmt.Errorf("%w: get service: %v", ErrInternal, err)
			}
			selected = append(selected, serviceID)
		}
		s.ServiceIDs = selected
		return nil
	})
}

// SelectStylist выбор мастера на шаге 2 (или смена на шаге 3); время, которого больше нет, сбрасывается
func (m *Machine) SelectStylist(ctx context.Context, id uuid.UUID, stylistID uuid.UUID) (*View, error) {
	return m.update(ctx, id, func(s *domain.WizardSession) error {
		if s.Step != domain.StepStylist && s.Step != domain.StepDateTime {
			return ErrWrongStep
		}
		if err := m.ensureNotBooked(s); err != nil {
			return err
		}

		stylist, err := m.catalog.GetStylistByID(ctx, stylistID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStylistNotFound) {
				return fmt.Errorf("%w: %s", ErrStylistNotFound, stylistID)
			}
			return fmt.Errorf("%w: get stylist: %v", ErrInternal, err)
		}
		if !stylist.Available {
			return ErrStylistUnavailable
		}

		s.StylistID = &stylistID
		return m.revalidateTime(ctx, s)
	})
}

// SelectDate выбор даты на шаге 3: не раньше сегодня и не воскресенье
func (m *Machine) SelectDate(ctx context.Context, id uuid.UUID, date time.Time) (*View, error) {
	return m.update(ctx, id, func(s *domain.WizardSession) error {
		if s.Step != domain.StepDateTime {
			return ErrWrongStep
		}
		if err := m.ensureNotBooked(s); err != nil {
			return err
		}

		day := dateOnly(date)
		if err := m.checkDate(day); err != nil {
			return err
		}

		s.Date = &day
		return m.revalidateTime(ctx, s)
	})
}

// SelectTime выбор времени из свободных слотов мастера на выбранную дату
func (m *Machine) SelectTime(ctx context.Context, id uuid.UUID, slot types.TimeString) (*View, error) {
	return m.update(ctx, id, func(s *domain.WizardSession) error {
		if s.Step != domain.StepDateTime {
			return ErrWrongStep
		}
		if err := m.ensureNotBooked(s); err != nil {
			return err
		}
		if s.StylistID == nil || s.Date == nil {
			return ErrNoDateTime
		}

		available, err := m.available(ctx, s)
		if err != nil {
			return err
		}
		if !contains(available, slot) {
			return fmt.Errorf("%w: %s", ErrTimeUnavailable, slot)
		}

		s.Time = slot
		return nil
	})
}

// SetDetails контакты клиента на шаге 4
func (m *Machine) SetDetails(ctx context.Context, id uuid.UUID, details domain.ClientDetails) (*View, error) {
	return m.update(ctx, id, func(s *domain.WizardSession) error {
		if s.Step != domain.StepDetails {
			return ErrWrongStep
		}

		details.Name = strings.TrimSpace(details.Name)
		details.Email = strings.TrimSpace(details.Email)
		details.Phone = strings.TrimSpace(details.Phone)
		details.Notes = strings.TrimSpace(details.Notes)

		if details.Email != "" {
			if addr, err := mail.ParseAddress(details.Email); err != nil || addr.Address != details.Email {
				return fmt.Errorf("%w: invalid email", ErrInvalidInput)
			}
		}

		s.Details = details
		return nil
	})
}

// Next переход вперед, если текущий шаг заполнен
func (m *Machine) Next(ctx context.Context, id uuid.UUID) (*View, error) {
	return m.update(ctx, id, func(s *domain.WizardSession) error {
		switch s.Step {
		case domain.StepServices:
			if len(s.ServiceIDs) == 0 {
				return ErrNoServices
			}
		case domain.StepStylist:
			if s.StylistID == nil {
				return ErrNoStylist
			}
		case domain.StepDateTime:
			if s.Date == nil || s.Time == "" {
				return ErrNoDateTime
			}
			if len(s.Booked) == 0 {
				if err := m.checkDate(*s.Date); err != nil {
					return err
				}
				// слот мог уйти, пока клиент был на шаге
				available, err := m.available(ctx, s)
				if err != nil {
					return err
				}
				if !contains(available, s.Time) {
					return fmt.Errorf("%w: %s", ErrTimeUnavailable, s.Time)
				}
			}
		case domain.StepDetails:
			return ErrUseSubmit
		}
		s.Step++
		return nil
	})
}

// Previous шаг назад; выбор сохраняется
func (m *Machine) Previous(ctx context.Context, id uuid.UUID) (*View, error) {
	return m.update(ctx, id, func(s *domain.WizardSession) error {
		if s.Step == domain.StepServices {
			return ErrNoPreviousStep
		}
		s.Step--
		return nil
	})
}

// Submit создает по записи на каждую выбранную услугу параллельно.
// Все записи одной отправки получают GroupID = ID сессии и могут делить слот мастера.
// При сбое сессия возвращается на шаг 4 с сохраненным выбором, уже созданные записи не откатываются
func (m *Machine) Submit(ctx context.Context, id uuid.UUID) (*SubmitResult, error) {
	release, err := m.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Step.Editable() {
		return nil, ErrSessionClosed
	}
	if session.Step != domain.StepDetails {
		return nil, ErrWrongStep
	}
	if !session.Details.Complete() {
		return nil, ErrDetailsIncomplete
	}
	if len(session.ServiceIDs) == 0 || session.StylistID == nil || session.Date == nil || session.Time == "" {
		return nil, ErrNoDateTime
	}

	// начатая запись доводится до конца, даже если клиент ушел
	ctx = context.WithoutCancel(ctx)

	session.Step = domain.StepSubmitting
	if err := m.save(ctx, session); err != nil {
		return nil, err
	}

	m.logger.Info("Wizard.Submit: session id=%s, %d services, stylist=%s, %s %s",
		session.ID, len(session.ServiceIDs), *session.StylistID, session.Date.Format(domain.DateFormat), session.Time)

	outcomes := m.fanOut(ctx, session)

	if session.Booked == nil {
		session.Booked = make(map[uuid.UUID]uuid.UUID, len(outcomes))
	}
	failed := 0
	for _, o := range outcomes {
		if o.Booked() {
			session.Booked[o.ServiceID] = o.AppointmentID
			continue
		}
		failed++
	}

	if failed > 0 {
		submitErr := &SubmitError{Outcomes: outcomes}
		session.Step = domain.StepDetails
		session.LastError = submitErr.Error()
		if err := m.save(ctx, session); err != nil {
			m.restoreDetails(ctx, session, err)
			return nil, err
		}
		m.logger.Warn("Wizard.Submit: session id=%s: %d of %d services not booked (partial=%t)",
			session.ID, failed, len(outcomes), submitErr.Partial())
		return &SubmitResult{Session: session, Outcomes: outcomes}, submitErr
	}

	submitted := *session
	submitted.Step = domain.StepSubmitted
	submitted.ClearSelection()
	if err := m.save(ctx, &submitted); err != nil {
		m.restoreDetails(ctx, session, err)
		return nil, err
	}

	m.logger.Info("Wizard.Submit: session id=%s booked %d services", session.ID, len(outcomes))
	return &SubmitResult{Session: &submitted, Outcomes: outcomes}, nil
}

// restoreDetails возвращает сессию на шаг 4 с заполненным Booked, чтобы повтор не создал записи заново.
// Если и это сохранение не удалось, сессия остается в StepSubmitting до истечения TTL
func (m *Machine) restoreDetails(ctx context.Context, session *domain.WizardSession, cause error) {
	session.Step = domain.StepDetails
	session.LastError = cause.Error()
	if err := m.save(ctx, session); err != nil {
		m.logger.Error("Wizard.Submit: session id=%s stuck after booking %d services: %v",
			session.ID, len(session.Booked), err)
	}
}

func (m *Machine) fanOut(ctx context.Context, session *domain.WizardSession) []Outcome {
	outcomes := make([]Outcome, len(session.ServiceIDs))
	titles := m.serviceTitles(ctx, session.ServiceIDs)

	var notes *string
	if session.Details.Notes != "" {
		notes = &session.Details.Notes
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(m.opts.MaxParallel)

	for i, serviceID := range session.ServiceIDs {
		outcomes[i] = Outcome{ServiceID: serviceID, ServiceTitle: titles[serviceID]}
		if appointmentID, ok := session.Booked[serviceID]; ok {
			outcomes[i].AppointmentID = appointmentID
			continue
		}

		req := &create_booking.Request{
			ServiceID:   serviceID,
			StylistID:   *session.StylistID,
			ClientName:  session.Details.Name,
			ClientEmail: session.Details.Email,
			ClientPhone: session.Details.Phone,
			Date:        *session.Date,
			Time:        session.Time,
			Notes:       notes,
			GroupID:     session.ID,
		}

		g.Go(func() error {
			resp, err := m.booker.Execute(ctx, req)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				m.logger.Warn("Wizard.Submit: service=%s not booked: %v", serviceID, err)
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].AppointmentID = resp.ID
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// update общий цикл: лок, чтение, изменение, сохранение. При ошибке fn сессия не меняется
func (m *Machine) update(ctx context.Context, id uuid.UUID, fn func(s *domain.WizardSession) error) (*View, error) {
	release, err := m.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Step.Editable() {
		return nil, ErrSessionClosed
	}

	if err := fn(session); err != nil {
		m.logger.Warn("Wizard: session id=%s step=%s: %v", id, session.Step, err)
		return nil, err
	}

	if err := m.save(ctx, session); err != nil {
		return nil, err
	}
	return m.view(ctx, session), nil
}

func (m *Machine) lock(ctx context.Context, id uuid.UUID) (func(), error) {
	release, err := m.locker.Acquire(ctx, "wizard:"+id.String())
	switch {
	case errors.Is(err, slotlock.ErrLockTimeout):
		return nil, ErrSessionBusy
	case err != nil:
		m.logger.Error("Wizard: session lock unavailable for id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: session lock: %v", ErrInternal, err)
	}
	return func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			m.logger.Warn("Wizard: failed to release session lock id=%s: %v", id, err)
		}
	}, nil
}

func (m *Machine) load(ctx context.Context, id uuid.UUID) (*domain.WizardSession, error) {
	session, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, wizardsession.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		m.logger.Error("Wizard: failed to load session id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: load session: %v", ErrInternal, err)
	}
	return session, nil
}

func (m *Machine) save(ctx context.Context, session *domain.WizardSession) error {
	session.UpdatedAt = m.timeProvider.Now()
	if err := m.store.Save(ctx, session); err != nil {
		m.logger.Error("Wizard: failed to save session id=%s: %v", session.ID, err)
		return fmt.Errorf("%w: save session: %v", ErrInternal, err)
	}
	return nil
}

// ensureNotBooked после частичной записи мастер, дата и время закреплены за уже созданными записями
func (m *Machine) ensureNotBooked(s *domain.WizardSession) error {
	if len(s.Booked) > 0 {
		return fmt.Errorf("%w: some services are already booked", ErrWrongStep)
	}
	return nil
}

func (m *Machine) checkDate(day time.Time) error {
	today := dateOnly(m.timeProvider.Now().In(m.opts.Location))
	if day.Before(today) {
		return ErrPastDate
	}
	if domain.IsSunday(day) {
		return ErrSundayClosed
	}
	return nil
}

// revalidateTime сбрасывает время, если его нет среди пересчитанных слотов
func (m *Machine) revalidateTime(ctx context.Context, s *domain.WizardSession) error {
	if s.Time == "" {
		return nil
	}
	if s.StylistID == nil || s.Date == nil {
		s.Time = ""
		return nil
	}

	available, err := m.available(ctx, s)
	if err != nil {
		return err
	}
	if !contains(available, s.Time) {
		m.logger.Info("Wizard: session id=%s time %s is no longer available, cleared", s.ID, s.Time)
		s.Time = ""
	}
	return nil
}

func (m *Machine) available(ctx context.Context, s *domain.WizardSession) ([]types.TimeString, error) {
	if s.StylistID == nil || s.Date == nil {
		return nil, nil
	}
	slots, err := m.slots.AvailableSlots(ctx, *s.StylistID, *s.Date)
	if err != nil {
		m.logger.Error("Wizard: failed to get slots for session id=%s: %v", s.ID, err)
		return nil, fmt.Errorf("%w: available slots: %v", ErrInternal, err)
	}
	return slots, nil
}

func (m *Machine) view(ctx context.Context, s *domain.WizardSession) *View {
	v := &View{
		Session:    s,
		Summary:    m.summary(ctx, s),
		CanAdvance: canAdvance(s),
	}
	if s.Step == domain.StepDateTime {
		slots, err := m.available(ctx, s)
		if err == nil {
			v.Slots = slots
		}
	}
	return v
}

// summary названия выбранных услуг и мастера; удаленные из каталога позиции пропускаются
func (m *Machine) summary(ctx context.Context, s *domain.WizardSession) *Summary {
	sum := &Summary{Services: make([]SummaryService, 0, len(s.ServiceIDs))}
	for _, serviceID := range s.ServiceIDs {
		svc, err := m.catalog.GetServiceByID(ctx, serviceID)
		if err != nil {
			m.logger.Warn("Wizard: summary skips service id=%s: %v", serviceID, err)
			continue
		}
		sum.Services = append(sum.Services, SummaryService{
			ID:       svc.ID.String(),
			Title:    svc.Title,
			Price:    svc.Price,
			Duration: svc.Duration,
		})
		sum.TotalPrice += svc.Price
		sum.TotalDuration += svc.Duration
	}
	if s.StylistID != nil {
		if stylist, err := m.catalog.GetStylistByID(ctx, *s.StylistID); err == nil {
			sum.StylistName = stylist.Name
		}
	}
	if s.Date != nil {
		sum.Date = s.Date.Format(domain.DateFormat)
	}
	sum.Time = s.Time.String()
	return sum
}

func (m *Machine) serviceTitles(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]string {
	titles := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if svc, err := m.catalog.GetServiceByID(ctx, id); err == nil {
			titles[id] = svc.Title
		} else {
			titles[id] = id.String()
		}
	}
	return titles
}

func canAdvance(s *domain.WizardSession) bool {
	switch s.Step {
	case domain.StepServices:
		return len(s.ServiceIDs) > 0
	case domain.StepStylist:
		return s.StylistID != nil
	case domain.StepDateTime:
		return s.Date != nil && s.Time != ""
	case domain.StepDetails:
		return s.Details.Complete()
	default:
		return false
	}
}

func contains(slots []types.TimeString, slot types.TimeString) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
