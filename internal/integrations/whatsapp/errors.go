package whatsapp

import "errors"

var (
	// ErrInvalidPhone возвращается, когда номер пустой или после нормализации не похож на телефон
	ErrInvalidPhone = errors.New("whatsapp: invalid phone number")

	// ErrRecipientRejected возвращается, когда шлюз отклонил получателя или сообщение (4xx)
	ErrRecipientRejected = errors.New("whatsapp client: recipient rejected by gateway")

	// ErrGatewayUnavailable возвращается при сетевой ошибке или 5xx от шлюза, можно повторить
	ErrGatewayUnavailable = errors.New("whatsapp client: gateway unavailable")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("whatsapp client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("whatsapp client: invalid response")
)
