package shifts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	catalogRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/catalog"
	shiftRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/shift"
	"github.com/m04kA/BarberBookingService/internal/service/shifts/models"
)

// Service сервис недельных графиков мастеров
type Service struct {
	shiftRepo ShiftRepository
	stylists  StylistGetter
	txManager TransactionManager
	grid      domain.SlotGrid
	logger    Logger
}

// NewService создает новый экземпляр сервиса графиков; grid задает график по умолчанию
func NewService(
	shiftRepo ShiftRepository,
	stylists StylistGetter,
	txManager TransactionManager,
	grid domain.SlotGrid,
	logger Logger,
) *Service {
	if grid.IntervalMinutes == 0 {
		grid = domain.DefaultSlotGrid()
	}
	return &Service{
		shiftRepo: shiftRepo,
		stylists:  stylists,
		txManager: txManager,
		grid:      grid,
		logger:    logger,
	}
}

// Get график мастера; если ничего не настроено, отдает график по умолчанию (пн-сб на всю сетку салона)
func (s *Service) Get(ctx context.Context, stylistID uuid.UUID) (*models.ShiftsResponse, error) {
	if err := s.ensureStylist(ctx, stylistID); err != nil {
		return nil, err
	}

	list, err := s.shiftRepo.ListByStylist(ctx, stylistID)
	if err != nil {
		s.logger.Error("Get: repository error for stylist=%s: %v", stylistID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	if len(list) == 0 {
		s.logger.Info("Get: no shifts for stylist=%s, returning defaults", stylistID)
		return models.FromDomainShifts(stylistID.String(), domain.DefaultShifts(stylistID, s.grid), true), nil
	}

	return models.FromDomainShifts(stylistID.String(), list, false), nil
}

// Replace заменяет недельный график мастера целиком в одной транзакции
func (s *Service) Replace(ctx context.Context, stylistID uuid.UUID, req *models.ReplaceShiftsRequest) (*models.ShiftsResponse, error) {
	s.logger.Info("Replace: updating %d shifts for stylist=%s", len(req.Shifts), stylistID)

	list, err := validateShifts(req.Shifts)
	if err != nil {
		s.logger.Warn("Replace: validation failed for stylist=%s: %v", stylistID, err)
		return nil, err
	}

	if err := s.ensureStylist(ctx, stylistID); err != nil {
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.shiftRepo.ReplaceForStylist(txCtx, stylistID, list)
	})
	if err != nil {
		switch {
		case errors.Is(err, shiftRepo.ErrStylistNotFound):
			return nil, ErrStylistNotFound
		case errors.Is(err, shiftRepo.ErrDuplicateDay):
			return nil, ErrDuplicateDay
		}
		s.logger.Error("Replace: repository error for stylist=%s: %v", stylistID, err)
		return nil, fmt.Errorf("%w: Replace - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Replace: shifts updated for stylist=%s", stylistID)
	return models.FromDomainShifts(stylistID.String(), list, false), nil
}

func (s *Service) ensureStylist(ctx context.Context, stylistID uuid.UUID) error {
	if _, err := s.stylists.GetStylistByID(ctx, stylistID); err != nil {
		if errors.Is(err, catalogRepo.ErrStylistNotFound) {
			s.logger.Warn("Shifts: stylist id=%s not found", stylistID)
			return ErrStylistNotFound
		}
		s.logger.Error("Shifts: failed to get stylist id=%s: %v", stylistID, err)
		return fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
	}
	return nil
}

// validateShifts проверяет каждый день и отсутствие повторов
func validateShifts(items []models.ShiftItem) ([]*domain.Shift, error) {
	if len(items) > domain.MaxDayOfWeek {
		return nil, fmt.Errorf("%w: at most %d days", ErrInvalidShift, domain.MaxDayOfWeek)
	}

	seen := make(map[int]bool, len(items))
	list := make([]*domain.Shift, 0, len(items))
	for _, item := range items {
		shift, err := item.ToDomainShift()
		if err != nil {
			return nil, fmt.Errorf("%w: day %d: %v", ErrInvalidShift, item.DayOfWeek, err)
		}
		if !shift.IsValid() {
			return nil, fmt.Errorf("%w: day %d must be 1..7 with start before end", ErrInvalidShift, item.DayOfWeek)
		}
		if seen[shift.DayOfWeek] {
			return nil, fmt.Errorf("%w: day %d", ErrDuplicateDay, shift.DayOfWeek)
		}
		seen[shift.DayOfWeek] = true
		list = append(list, shift)
	}
	return list, nil
}
