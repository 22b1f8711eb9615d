package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	catalogRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// UseCase use case для получения доступных слотов мастера на дату
type UseCase struct {
	stylists     StylistGetter
	shiftRepo    ShiftRepository
	bookingRepo  BookingRepository
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	stylists StylistGetter,
	shiftRepo ShiftRepository,
	bookingRepo BookingRepository,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Grid.IntervalMinutes == 0 {
		opts.Grid = domain.DefaultSlotGrid()
	}
	return &UseCase{
		stylists:     stylists,
		shiftRepo:    shiftRepo,
		bookingRepo:  bookingRepo,
		opts:         opts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов.
// Без мастера или даты возвращает пустой список, а не ошибку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp := &Response{
		StylistID: req.StylistID,
		Date:      req.Date,
		Slots:     []types.TimeString{},
	}

	if req.StylistID == uuid.Nil || req.Date.IsZero() {
		return resp, nil
	}

	uc.logger.Info("GetAvailableSlots: stylist=%s, date=%s", req.StylistID, req.Date.Format(domain.DateFormat))

	// 1. Мастер должен существовать и быть доступным
	stylist, err := uc.stylists.GetStylistByID(ctx, req.StylistID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStylistNotFound) {
			uc.logger.Warn("GetAvailableSlots: stylist id=%s not found", req.StylistID)
			return nil, ErrStylistNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get stylist id=%s: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
	}
	if !stylist.Available {
		uc.logger.Info("GetAvailableSlots: stylist id=%s is not available", req.StylistID)
		return resp, nil
	}

	// 2. Рабочее окно на этот день
	window, err := uc.workingWindow(ctx, req.StylistID, req.Date)
	if err != nil {
		return nil, err
	}
	if !window.Open {
		uc.logger.Info("GetAvailableSlots: stylist id=%s is off on %s", req.StylistID, req.Date.Format(domain.DateFormat))
		return resp, nil
	}

	// 3. Сетка
	grid, err := uc.opts.Grid.Slots()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate grid: %v", err)
		return nil, fmt.Errorf("%w: failed to generate grid: %v", ErrInternal, err)
	}

	// 4. Занятые слоты
	booked, err := uc.bookingRepo.GetBookedSlots(ctx, req.StylistID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get booked slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get booked slots: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now().In(uc.opts.Location)
	resp.Slots = computeSlots(grid, window, booked, req.Date, now)

	uc.logger.Info("GetAvailableSlots: %d of %d slots available for stylist=%s, date=%s",
		len(resp.Slots), len(grid), req.StylistID, req.Date.Format(domain.DateFormat))
	return resp, nil
}

// AvailableSlots короткая форма Execute для мастера записи
func (uc *UseCase) AvailableSlots(ctx context.Context, stylistID uuid.UUID, date time.Time) ([]types.TimeString, error) {
	resp, err := uc.Execute(ctx, &Request{StylistID: stylistID, Date: date})
	if err != nil {
		return nil, err
	}
	return resp.Slots, nil
}

func (uc *UseCase) workingWindow(ctx context.Context, stylistID uuid.UUID, date time.Time) (domain.WorkingWindow, error) {
	grid := uc.opts.Grid
	if uc.opts.IgnoreShifts {
		return domain.WorkingWindow{Open: true, Start: grid.Open, End: grid.Close}, nil
	}

	shifts, err := uc.shiftRepo.ListByStylist(ctx, stylistID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get shifts for stylist=%s: %v", stylistID, err)
		return domain.WorkingWindow{}, fmt.Errorf("%w: failed to get shifts: %v", ErrInternal, err)
	}
	return domain.ResolveWorkingWindow(date, shifts, grid), nil
}
