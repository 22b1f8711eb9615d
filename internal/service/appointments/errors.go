package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrInvalidStatus возвращается при неизвестном статусе
	ErrInvalidStatus = errors.New("appointments: invalid status")

	// ErrInvalidTransition возвращается при недопустимой смене статуса (например, из cancelled)
	ErrInvalidTransition = errors.New("appointments: status transition not allowed")

	// ErrInvalidFilter возвращается при неизвестном фильтре списка
	ErrInvalidFilter = errors.New("appointments: invalid filter")

	// ErrSlotNotAvailable возвращается, когда слот уже занят другой активной записью
	ErrSlotNotAvailable = errors.New("appointments: slot not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
