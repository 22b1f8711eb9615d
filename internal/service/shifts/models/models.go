package models

import (
	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// ShiftItem график на один день недели (1 = понедельник, 7 = воскресенье)
type ShiftItem struct {
	DayOfWeek   int    `json:"dayOfWeek"`
	StartTime   string `json:"startTime"` // "09:00"
	EndTime     string `json:"endTime"`   // "18:00"
	IsAvailable bool   `json:"isAvailable"`
}

// ReplaceShiftsRequest новый недельный график мастера
type ReplaceShiftsRequest struct {
	Shifts []ShiftItem `json:"shifts"`
}

// ShiftsResponse недельный график мастера
type ShiftsResponse struct {
	StylistID string      `json:"stylistId"`
	IsDefault bool        `json:"isDefault"` // график не настроен, показан график по умолчанию
	Shifts    []ShiftItem `json:"shifts"`
}

// ToDomainShift конвертирует ShiftItem в domain.Shift; время нормализуется к HH:MM
func (i ShiftItem) ToDomainShift() (*domain.Shift, error) {
	start, err := types.NewTimeStringFromString(i.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(i.EndTime)
	if err != nil {
		return nil, err
	}
	return &domain.Shift{
		DayOfWeek:   i.DayOfWeek,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: i.IsAvailable,
	}, nil
}

// FromDomainShifts конвертирует список графиков
func FromDomainShifts(stylistID string, shifts []*domain.Shift, isDefault bool) *ShiftsResponse {
	resp := &ShiftsResponse{
		StylistID: stylistID,
		IsDefault: isDefault,
		Shifts:    make([]ShiftItem, 0, len(shifts)),
	}
	for _, s := range shifts {
		resp.Shifts = append(resp.Shifts, ShiftItem{
			DayOfWeek:   s.DayOfWeek,
			StartTime:   s.StartTime.String(),
			EndTime:     s.EndTime.String(),
			IsAvailable: s.IsAvailable,
		})
	}
	return resp
}
