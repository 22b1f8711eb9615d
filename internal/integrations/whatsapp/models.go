package whatsapp

// sendRequest тело запроса к шлюзу
type sendRequest struct {
	To       string `json:"to"`
	Template string `json:"template"`
	Language string `json:"language,omitempty"`
	Text     string `json:"text"`
}

// sendResponse ответ шлюза на отправку
type sendResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// ErrorResponse модель ошибки от шлюза
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Result результат отправки
type Result struct {
	Phone     string // номер в международном формате
	MessageID string // пусто в режиме симуляции
	Simulated bool   // шлюз выключен, сообщение только залогировано
}
