package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotNotAvailable возвращается при нарушении ограничения "один активный клиент на слот мастера"
	ErrSlotNotAvailable = errors.New("appointment.repository: slot not available")

	// ErrAlreadyBooked возвращается, когда в группе уже есть активная запись на эту услугу
	ErrAlreadyBooked = errors.New("appointment.repository: service already booked in this group")

	// ErrReferenceNotFound возвращается, когда услуга или мастер не существуют
	ErrReferenceNotFound = errors.New("appointment.repository: referenced service or stylist not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
