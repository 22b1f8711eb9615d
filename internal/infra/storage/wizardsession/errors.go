package wizardsession

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессии нет или она истекла
	ErrSessionNotFound = errors.New("wizardsession.store: session not found")

	// ErrEncode возвращается при ошибке сериализации сессии
	ErrEncode = errors.New("wizardsession.store: failed to encode session")

	// ErrStorage возвращается при ошибке Redis
	ErrStorage = errors.New("wizardsession.store: storage error")
)
