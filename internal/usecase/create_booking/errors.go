package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrStylistNotFound возвращается, когда мастер не найден
	ErrStylistNotFound = errors.New("create_booking: stylist not found")

	// ErrStylistUnavailable возвращается, когда мастер не принимает записи
	ErrStylistUnavailable = errors.New("create_booking: stylist is not available")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrStylistOff возвращается, когда мастер не работает в этот день или в это время
	ErrStylistOff = errors.New("create_booking: stylist does not work at this time")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает со слотом сетки
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrTooLateToBook возвращается, когда слот сегодня уже начался
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда слот уже занят (гонка проиграна)
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// errAlreadyBooked не выходит наружу, Execute отвечает существующей записью
var errAlreadyBooked = errors.New("create_booking: already booked in group")
