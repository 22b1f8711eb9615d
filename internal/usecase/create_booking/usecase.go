package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/BarberBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/BarberBookingService/pkg/slotlock"
	"github.com/m04kA/BarberBookingService/pkg/txmanager"
)

// UseCase use case для создания записи
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	shiftRepo    ShiftRepository
	locker       SlotLocker
	notifier     Notifier
	metrics      Metrics
	txManager    TransactionManager
	opts         Options
	tracer       trace.Tracer
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case; locker и metrics могут быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	shiftRepo ShiftRepository,
	locker SlotLocker,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	opts Options,
	logger Logger,
) *UseCase {
	if locker == nil {
		locker = slotlock.NoopLocker{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Grid.IntervalMinutes == 0 {
		opts.Grid = domain.DefaultSlotGrid()
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		shiftRepo:    shiftRepo,
		locker:       locker,
		notifier:     notifier,
		metrics:      metrics,
		txManager:    txManager,
		opts:         opts,
		tracer:       otel.Tracer("barber-booking/create_booking"),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания записи.
// Слот проверяется и занимается в сериализуемой транзакции; перед ней берется лок слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := uc.tracer.Start(ctx, "CreateBooking")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	normalizeRequest(req)
	uc.logger.Info("CreateBooking: service=%s, stylist=%s, date=%s, time=%s, group=%s",
		req.ServiceID, req.StylistID, req.Date.Format(domain.DateFormat), req.Time, req.GroupID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("booking.stylist_id", req.StylistID.String()),
		attribute.String("booking.date", req.Date.Format(domain.DateFormat)),
		attribute.String("booking.time", req.Time.String()),
	)

	// 2. Получаем текущее время в часовом поясе салона
	now := uc.timeProvider.Now().In(uc.opts.Location)

	// 3. Услуга
	if _, err := uc.catalogRepo.GetServiceByID(ctx, req.ServiceID); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Мастер
	stylist, err := uc.catalogRepo.GetStylistByID(ctx, req.StylistID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStylistNotFound) {
			uc.logger.Warn("CreateBooking: stylist id=%s not found", req.StylistID)
			return nil, ErrStylistNotFound
		}
		uc.logger.Error("CreateBooking: failed to get stylist id=%s: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
	}
	if !stylist.Available {
		uc.logger.Warn("CreateBooking: stylist id=%s is not available", req.StylistID)
		return nil, ErrStylistUnavailable
	}

	// 5. Слот: сетка, рабочее окно мастера, не в прошлом
	window, err := uc.workingWindow(ctx, req.StylistID, req.Date)
	if err != nil {
		return nil, err
	}
	if err := validateSlot(uc.opts.Grid, window, req.Date, req.Time, now); err != nil {
		uc.logger.Warn("CreateBooking: slot validation failed: %v", err)
		return nil, err
	}

	// 6. Лок слота (Redis); если хранилище локов недоступно, остается защита БД
	release, err := uc.locker.Acquire(ctx, slotlock.SlotKey(req.StylistID, req.Date, req.Time.String()))
	switch {
	case errors.Is(err, slotlock.ErrLockTimeout):
		uc.logger.Warn("CreateBooking: slot %s %s is being booked concurrently", req.Date.Format(domain.DateFormat), req.Time)
		uc.incConflict()
		return nil, ErrSlotNotAvailable
	case err != nil:
		uc.logger.Warn("CreateBooking: slot lock unavailable, relying on database: %v", err)
	default:
		defer func() {
			if relErr := release(context.WithoutCancel(ctx)); relErr != nil {
				uc.logger.Warn("CreateBooking: failed to release slot lock: %v", relErr)
			}
		}()
	}

	// 7. Проверка и вставка в сериализуемой транзакции
	var created *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booked, err := uc.bookingRepo.GetBookedSlots(txCtx, req.StylistID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get booked slots: %v", err)
			return fmt.Errorf("%w: failed to get booked slots: %w", ErrInternal, err)
		}

		if bookedInGroup(booked, req) {
			return errAlreadyBooked
		}
		if isTaken(booked, req) {
			return ErrSlotNotAvailable
		}

		whatsApp := true
		if req.WhatsAppNotifications != nil {
			whatsApp = *req.WhatsAppNotifications
		}

		created, err = uc.bookingRepo.Create(txCtx, &domain.Appointment{
			GroupID:               req.GroupID,
			ServiceID:             req.ServiceID,
			StylistID:             req.StylistID,
			ClientName:            req.ClientName,
			ClientEmail:           req.ClientEmail,
			ClientPhone:           req.ClientPhone,
			BookingDate:           req.Date,
			BookingTime:           req.Time,
			Notes:                 req.Notes,
			Status:                domain.StatusPending,
			WhatsAppNotifications: whatsApp,
		})
		if err != nil {
			switch {
			case errors.Is(err, appointmentRepo.ErrAlreadyBooked):
				return errAlreadyBooked
			case errors.Is(err, appointmentRepo.ErrSlotNotAvailable):
				return ErrSlotNotAvailable
			case errors.Is(err, appointmentRepo.ErrReferenceNotFound):
				return fmt.Errorf("%w: service or stylist was removed", ErrInvalidInput)
			}
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}
		return nil
	})

	if errors.Is(err, errAlreadyBooked) {
		return uc.existingInGroup(ctx, req)
	}
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, txmanager.ErrSerializationRetriesExceeded) {
			uc.logger.Warn("CreateBooking: slot stylist=%s %s %s already taken",
				req.StylistID, req.Date.Format(domain.DateFormat), req.Time)
			uc.incConflict()
			return nil, ErrSlotNotAvailable
		}
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: successfully created appointment id=%s, group=%s", created.ID, created.GroupID)
	if uc.metrics != nil {
		uc.metrics.IncBookingCreated()
	}
	span.SetAttributes(attribute.String("booking.id", created.ID.String()))

	// 8. Уведомление для персонала, ошибка не влияет на результат
	uc.notifier.BookingCreated(ctx, created)

	return toResponse(created), nil
}

// existingInGroup повторная отправка группы: возвращается уже созданная запись, уведомление не дублируется
func (uc *UseCase) existingInGroup(ctx context.Context, req *Request) (*Response, error) {
	existing, err := uc.bookingRepo.GetActiveInGroup(ctx, req.GroupID, req.ServiceID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get booking of group=%s service=%s: %v", req.GroupID, req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get existing booking: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: group=%s already has appointment id=%s for service=%s",
		req.GroupID, existing.ID, req.ServiceID)
	resp := toResponse(existing)
	resp.AlreadyBooked = true
	return resp, nil
}

// bookedInGroup у группы уже есть активная запись на эту услугу
func bookedInGroup(booked []domain.BookedSlot, req *Request) bool {
	if req.GroupID == uuid.Nil {
		return false
	}
	for _, b := range booked {
		if b.GroupID == req.GroupID && b.ServiceID == req.ServiceID {
			return true
		}
	}
	return false
}

// isTaken слот занят активной записью другой группы
func isTaken(booked []domain.BookedSlot, req *Request) bool {
	for _, b := range booked {
		if b.Time != req.Time {
			continue
		}
		if req.GroupID == uuid.Nil || b.GroupID != req.GroupID {
			return true
		}
	}
	return false
}

func (uc *UseCase) workingWindow(ctx context.Context, stylistID uuid.UUID, date time.Time) (domain.WorkingWindow, error) {
	grid := uc.opts.Grid
	if uc.opts.IgnoreShifts {
		return domain.WorkingWindow{Open: true, Start: grid.Open, End: grid.Close}, nil
	}

	shifts, err := uc.shiftRepo.ListByStylist(ctx, stylistID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get shifts for stylist=%s: %v", stylistID, err)
		return domain.WorkingWindow{}, fmt.Errorf("%w: failed to get shifts: %v", ErrInternal, err)
	}
	return domain.ResolveWorkingWindow(date, shifts, grid), nil
}

func (uc *UseCase) incConflict() {
	if uc.metrics != nil {
		uc.metrics.IncBookingConflict()
	}
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:                    a.ID,
		GroupID:               a.GroupID,
		ServiceID:             a.ServiceID,
		StylistID:             a.StylistID,
		ClientName:            a.ClientName,
		ClientEmail:           a.ClientEmail,
		ClientPhone:           a.ClientPhone,
		BookingDate:           a.BookingDate,
		BookingTime:           a.BookingTime,
		Notes:                 a.Notes,
		Status:                a.Status,
		Confirmed:             a.Confirmed(),
		WhatsAppNotifications: a.WhatsAppNotifications,
		CreatedAt:             a.CreatedAt,
	}
}
