package models

import "github.com/m04kA/BarberBookingService/internal/domain"

// ServiceResponse услуга салона
type ServiceResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"` // минуты
	Icon        string  `json:"icon,omitempty"`
}

// StylistResponse мастер
type StylistResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Experience  string   `json:"experience,omitempty"`
	Specialties []string `json:"specialties"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Available   bool     `json:"available"`
}

// FromDomainService конвертирует domain.Service в ServiceResponse
func FromDomainService(s *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID.String(),
		Title:       s.Title,
		Description: s.Description,
		Price:       s.Price,
		Duration:    s.Duration,
		Icon:        s.Icon,
	}
}

// FromDomainStylist конвертирует domain.Stylist в StylistResponse
func FromDomainStylist(s *domain.Stylist) StylistResponse {
	specialties := s.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	return StylistResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Role:        s.Role,
		Experience:  s.Experience,
		Specialties: specialties,
		ImageURL:    s.ImageURL,
		Available:   s.Available,
	}
}
