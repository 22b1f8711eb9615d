package send_appointment_message

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("send_appointment_message: appointment not found")

	// ErrInvalidMessageType возвращается при неизвестном типе сообщения
	ErrInvalidMessageType = errors.New("send_appointment_message: invalid message type")

	// ErrInvalidDeliveryMethod возвращается при неизвестном способе доставки
	ErrInvalidDeliveryMethod = errors.New("send_appointment_message: invalid delivery method")

	// ErrMissingContactMethod возвращается, когда у клиента нет телефона или email для выбранного способа
	ErrMissingContactMethod = errors.New("send_appointment_message: missing contact method")

	// ErrInvalidPhone возвращается, когда номер клиента не удалось нормализовать
	ErrInvalidPhone = errors.New("send_appointment_message: invalid phone number")

	// ErrInvalidTransition возвращается при подтверждении отмененной записи
	ErrInvalidTransition = errors.New("send_appointment_message: appointment cannot be confirmed")

	// ErrDeliveryFailed возвращается, когда шлюз или SendGrid не приняли сообщение
	ErrDeliveryFailed = errors.New("send_appointment_message: delivery failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("send_appointment_message: internal error")
)
