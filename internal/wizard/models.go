package wizard

import (
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// Options часовой пояс салона, число параллельных записей при отправке
type Options struct {
	Location    *time.Location
	MaxParallel int
}

// SummaryService услуга в сводке шага 4
type SummaryService struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Duration int     `json:"duration"`
}

// Summary сводка выбора: названия вместо ID, только чтение
type Summary struct {
	Services      []SummaryService `json:"services"`
	StylistName   string           `json:"stylistName,omitempty"`
	Date          string           `json:"date,omitempty"`
	Time          string           `json:"time,omitempty"`
	TotalPrice    float64          `json:"totalPrice"`
	TotalDuration int              `json:"totalDuration"`
}

// View состояние сессии для клиента
type View struct {
	Session    *domain.WizardSession
	Summary    *Summary
	Slots      []types.TimeString
	CanAdvance bool
}

// SubmitResult успешная отправка: по записи на каждую услугу
type SubmitResult struct {
	Session  *domain.WizardSession
	Outcomes []Outcome
}
