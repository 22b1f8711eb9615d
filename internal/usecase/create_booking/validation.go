package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// normalizeRequest обрезает пробелы в текстовых полях
func normalizeRequest(req *Request) {
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientEmail = strings.TrimSpace(req.ClientEmail)
	req.ClientPhone = strings.TrimSpace(req.ClientPhone)
	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		if notes == "" {
			req.Notes = nil
		} else {
			req.Notes = &notes
		}
	}
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	if req.StylistID == uuid.Nil {
		return fmt.Errorf("%w: stylistId is required", ErrInvalidInput)
	}

	if req.ClientName == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.ClientName) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName is too long", ErrInvalidInput)
	}

	if req.ClientEmail == "" {
		return fmt.Errorf("%w: clientEmail is required", ErrInvalidInput)
	}
	if len(req.ClientEmail) > domain.MaxEmailLength {
		return fmt.Errorf("%w: clientEmail is too long", ErrInvalidInput)
	}
	if addr, err := mail.ParseAddress(req.ClientEmail); err != nil || addr.Address != req.ClientEmail {
		return fmt.Errorf("%w: invalid clientEmail", ErrInvalidInput)
	}

	if req.ClientPhone == "" {
		return fmt.Errorf("%w: clientPhone is required", ErrInvalidInput)
	}
	if len(req.ClientPhone) > domain.MaxPhoneLength {
		return fmt.Errorf("%w: clientPhone is too long", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время указано
	if req.Time.IsZero() {
		return fmt.Errorf("%w: time is required", ErrInvalidInput)
	}
	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	return nil
}

// validateSlot слот должен быть в сетке, в рабочем окне мастера и не в прошлом
func validateSlot(grid domain.SlotGrid, window domain.WorkingWindow, date time.Time, slot types.TimeString, now time.Time) error {
	day := dateOnly(date)
	today := dateOnly(now)

	if day.Before(today) {
		return ErrInvalidDate
	}

	if !grid.Contains(slot) {
		return fmt.Errorf("%w: %s is not on the %d-minute grid %s-%s",
			ErrInvalidTimeSlot, slot, grid.IntervalMinutes, grid.Open, grid.Close)
	}

	if !window.Covers(slot) {
		return ErrStylistOff
	}

	if day.Equal(today) && !slot.IsAfter(types.NewTimeString(now)) {
		return ErrTooLateToBook
	}

	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
