package shift

import "errors"

var (
	// ErrStylistNotFound возвращается, когда мастер для графика не существует
	ErrStylistNotFound = errors.New("shift.repository: stylist not found")

	// ErrDuplicateDay возвращается при двух графиках на один день недели
	ErrDuplicateDay = errors.New("shift.repository: duplicate day of week")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("shift.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("shift.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("shift.repository: failed to scan row")
)
