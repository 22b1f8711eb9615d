package shifts

import "errors"

var (
	// ErrStylistNotFound возвращается, когда мастер не найден
	ErrStylistNotFound = errors.New("shifts: stylist not found")

	// ErrInvalidShift возвращается при некорректном дне недели или интервале
	ErrInvalidShift = errors.New("shifts: invalid shift")

	// ErrDuplicateDay возвращается, когда в запросе два графика на один день
	ErrDuplicateDay = errors.New("shifts: duplicate day of week")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("shifts: internal error")
)
