package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	catalogRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/BarberBookingService/internal/service/catalog/models"
)

// Service каталог услуг и мастеров (только чтение)
type Service struct {
	repo   CatalogRepository
	logger Logger
}

func NewService(repo CatalogRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListServices услуги по возрастанию цены
func (s *Service) ListServices(ctx context.Context) ([]models.ServiceResponse, error) {
	list, err := s.repo.ListServices(ctx)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	resp := make([]models.ServiceResponse, 0, len(list))
	for _, item := range list {
		resp = append(resp, models.FromDomainService(item))
	}
	return resp, nil
}

// ListStylists мастера; availableOnly скрывает недоступных
func (s *Service) ListStylists(ctx context.Context, availableOnly bool) ([]models.StylistResponse, error) {
	list, err := s.repo.ListStylists(ctx, availableOnly)
	if err != nil {
		s.logger.Error("ListStylists: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListStylists - repository error: %v", ErrInternal, err)
	}

	resp := make([]models.StylistResponse, 0, len(list))
	for _, item := range list {
		resp = append(resp, models.FromDomainStylist(item))
	}
	return resp, nil
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*models.ServiceResponse, error) {
	item, err := s.repo.GetServiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetService: repository error for id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetService - repository error: %v", ErrInternal, err)
	}
	resp := models.FromDomainService(item)
	return &resp, nil
}

func (s *Service) GetStylist(ctx context.Context, id uuid.UUID) (*models.StylistResponse, error) {
	item, err := s.repo.GetStylistByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStylistNotFound) {
			return nil, ErrStylistNotFound
		}
		s.logger.Error("GetStylist: repository error for id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetStylist - repository error: %v", ErrInternal, err)
	}
	resp := models.FromDomainStylist(item)
	return &resp, nil
}
