package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound возвращается, когда черновик не найден или истек
	ErrSessionNotFound = errors.New("wizard: session not found")

	// ErrSessionBusy возвращается, когда сессия занята другим запросом
	ErrSessionBusy = errors.New("wizard: session is busy")

	// ErrSessionClosed возвращается при изменении отправленной или отправляемой сессии
	ErrSessionClosed = errors.New("wizard: session is submitting or already submitted")

	// ErrWrongStep возвращается, когда выбор делается не на своем шаге
	ErrWrongStep = errors.New("wizard: selection does not belong to the current step")

	// ErrNoServices возвращается при переходе с шага 1 без услуг
	ErrNoServices = errors.New("wizard: select at least one service")

	// ErrNoStylist возвращается при переходе с шага 2 без мастера
	ErrNoStylist = errors.New("wizard: select a stylist")

	// ErrNoDateTime возвращается при переходе с шага 3 без даты или времени
	ErrNoDateTime = errors.New("wizard: select a date and a time")

	// ErrDetailsIncomplete возвращается при отправке без имени, email или телефона
	ErrDetailsIncomplete = errors.New("wizard: name, email and phone are required")

	// ErrNoPreviousStep возвращается при попытке вернуться с шага 1
	ErrNoPreviousStep = errors.New("wizard: already on the first step")

	// ErrUseSubmit возвращается при попытке перейти дальше шага 4
	ErrUseSubmit = errors.New("wizard: last step, submit instead")

	// ErrServiceNotFound возвращается при выборе несуществующей услуги
	ErrServiceNotFound = errors.New("wizard: service not found")

	// ErrStylistNotFound возвращается при выборе несуществующего мастера
	ErrStylistNotFound = errors.New("wizard: stylist not found")

	// ErrStylistUnavailable возвращается при выборе мастера, который не принимает записи
	ErrStylistUnavailable = errors.New("wizard: stylist is not available")

	// ErrPastDate возвращается при выборе даты раньше сегодняшней
	ErrPastDate = errors.New("wizard: date is in the past")

	// ErrSundayClosed возвращается при выборе воскресенья
	ErrSundayClosed = errors.New("wizard: the salon is closed on Sundays")

	// ErrTimeUnavailable возвращается, когда выбранного времени нет среди свободных слотов
	ErrTimeUnavailable = errors.New("wizard: time is not available")

	// ErrInvalidInput возвращается при некорректных данных клиента
	ErrInvalidInput = errors.New("wizard: invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("wizard: internal error")
)

// Outcome результат записи на одну услугу
type Outcome struct {
	ServiceID     uuid.UUID
	ServiceTitle  string
	AppointmentID uuid.UUID
	Err           error
}

// Booked запись на услугу создана (в этой или в предыдущей попытке)
func (o Outcome) Booked() bool {
	return o.Err == nil && o.AppointmentID != uuid.Nil
}

// SubmitError отправка не создала все записи.
// Partial отличает частичный сбой (часть услуг записана) от полного
type SubmitError struct {
	Outcomes []Outcome
}

func (e *SubmitError) Error() string {
	failed := e.Failed()
	titles := make([]string, 0, len(failed))
	for _, o := range failed {
		titles = append(titles, o.ServiceTitle)
	}
	kind := "all bookings failed"
	if e.Partial() {
		kind = "partial failure"
	}
	return fmt.Sprintf("wizard: %s: %s", kind, strings.Join(titles, ", "))
}

// Failed услуги без записи
func (e *SubmitError) Failed() []Outcome {
	var out []Outcome
	for _, o := range e.Outcomes {
		if !o.Booked() {
			out = append(out, o)
		}
	}
	return out
}

// Partial хотя бы одна услуга записана
func (e *SubmitError) Partial() bool {
	for _, o := range e.Outcomes {
		if o.Booked() {
			return true
		}
	}
	return false
}

// Unwrap отдает ошибки отдельных записей для errors.Is
func (e *SubmitError) Unwrap() []error {
	var errs []error
	for _, o := range e.Outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errs
}
