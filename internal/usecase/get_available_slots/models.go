package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// Options сетка салона и режим учета графиков
type Options struct {
	Grid         domain.SlotGrid
	IgnoreShifts bool           // true = только сетка, графики мастеров не учитываются
	Location     *time.Location // часовой пояс салона, по нему определяется "сегодня"
}

// Request модель запроса на получение доступных слотов
type Request struct {
	StylistID uuid.UUID // пустой ID = мастер не выбран
	Date      time.Time // нулевая дата = дата не выбрана
}

// Response модель ответа со списком доступных слотов
type Response struct {
	StylistID uuid.UUID
	Date      time.Time
	Slots     []types.TimeString // по возрастанию, "HH:MM"
}
