package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/dbmetrics"
	"github.com/m04kA/BarberBookingService/pkg/pgerr"
	"github.com/m04kA/BarberBookingService/pkg/psqlbuilder"
)

const (
	tableName = "bookings"

	groupServiceConstraint = "bookings_group_service_key"
)

var appointmentColumns = []string{
	"b.id",
	"b.group_id",
	"b.service_id",
	"b.stylist_id",
	"b.client_name",
	"b.client_email",
	"b.client_phone",
	"b.booking_date",
	"b.booking_time",
	"b.notes",
	"b.status",
	"b.whatsapp_notifications",
	"b.created_at",
	"b.updated_at",
}

// detailsColumns при удаленной услуге или мастере join дает NULL, поэтому COALESCE
var detailsColumns = append(append([]string{}, appointmentColumns...),
	"COALESCE(s.title, '')",
	"COALESCE(s.price, 0)",
	"COALESCE(s.duration, 0)",
	"COALESCE(st.name, '')",
)

// Repository репозиторий записей клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись.
// Exclusion-ограничение bookings_active_slot_excl (тот же мастер, дата и время, другая group_id,
// статус не cancelled) дает ошибку 23P01, которая превращается в ErrSlotNotAvailable.
// Уникальный индекс bookings_group_service_key (одна активная запись на услугу в группе) дает ErrAlreadyBooked.
// Ошибки сериализации оборачиваются через %w, чтобы менеджер транзакций мог повторить попытку.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.GroupID == uuid.Nil {
		a.GroupID = a.ID
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"id",
			"group_id",
			"service_id",
			"stylist_id",
			"client_name",
			"client_email",
			"client_phone",
			"booking_date",
			"booking_time",
			"notes",
			"status",
			"confirmed",
			"whatsapp_notifications",
		).
		Values(
			a.ID,
			a.GroupID,
			a.ServiceID,
			a.StylistID,
			a.ClientName,
			a.ClientEmail,
			a.ClientPhone,
			a.BookingDate.Format(domain.DateFormat),
			a.BookingTime,
			a.Notes,
			a.Status,
			a.Confirmed(),
			a.WhatsAppNotifications,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		switch {
		case pgerr.Code(err) == pgerr.CodeUniqueViolation && pgerr.Constraint(err) == groupServiceConstraint:
			return nil, ErrAlreadyBooked
		case pgerr.IsConflict(err):
			return nil, ErrSlotNotAvailable
		case pgerr.IsForeignKeyViolation(err):
			return nil, ErrReferenceNotFound
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From(tableName + " b").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var a domain.Appointment
	err = scanAppointment(executor.QueryRowContext(ctx, query, args...), &a)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return &a, nil
}

// GetActiveInGroup активная запись группы на услугу
func (r *Repository) GetActiveInGroup(ctx context.Context, groupID, serviceID uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From(tableName + " b").
		Where(squirrel.Eq{"b.group_id": groupID}).
		Where(squirrel.Eq{"b.service_id": serviceID}).
		Where(squirrel.NotEq{"b.status": domain.StatusCancelled}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveInGroup - build select query: %v", ErrBuildQuery, err)
	}

	var a domain.Appointment
	err = scanAppointment(executor.QueryRowContext(ctx, query, args...), &a)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveInGroup - scan appointment: %v", ErrScanRow, err)
	}

	return &a, nil
}

// GetDetails получает запись вместе с названием услуги и именем мастера
func (r *Repository) GetDetails(ctx context.Context, id uuid.UUID) (*domain.AppointmentDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := detailsSelect().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDetails - build select query: %v", ErrBuildQuery, err)
	}

	var d domain.AppointmentDetails
	err = scanDetails(executor.QueryRowContext(ctx, query, args...), &d)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDetails - scan appointment: %v", ErrScanRow, err)
	}

	return &d, nil
}

// ListDetails список записей для администратора, по дате и времени по возрастанию
func (r *Repository) ListDetails(ctx context.Context, q domain.AppointmentsQuery) ([]*domain.AppointmentDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := detailsSelect()
	today := q.Today.Format(domain.DateFormat)

	switch q.Filter {
	case domain.FilterToday:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.booking_date": today})
	case domain.FilterUpcoming:
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"b.booking_date": today})
	case domain.FilterConfirmed:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": domain.StatusConfirmed})
	case domain.FilterPending:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": domain.StatusPending})
	}

	query, args, err := selectBuilder.
		OrderBy("b.booking_date ASC", "b.booking_time ASC", "b.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDetails - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDetails - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanDetailsRows(rows)
}

// ListByClientEmail история записей клиента (без учета регистра email), новые сверху
func (r *Repository) ListByClientEmail(ctx context.Context, email string) ([]*domain.AppointmentDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := detailsSelect().
		Where(squirrel.Expr("LOWER(b.client_email) = LOWER(?)", email)).
		OrderBy("b.booking_date DESC", "b.booking_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClientEmail - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClientEmail - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanDetailsRows(rows)
}

// GetBookedSlots занятые слоты мастера на дату (отмененные записи слот не занимают).
// Внутри транзакции строки блокируются через FOR UPDATE.
func (r *Repository) GetBookedSlots(ctx context.Context, stylistID uuid.UUID, date time.Time) ([]domain.BookedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("booking_time", "group_id", "service_id").
		From(tableName).
		Where(squirrel.Eq{"stylist_id": stylistID}).
		Where(squirrel.Eq{"booking_date": date.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		OrderBy("booking_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookedSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookedSlots - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]domain.BookedSlot, 0)
	for rows.Next() {
		var slot domain.BookedSlot
		if err := rows.Scan(&slot.Time, &slot.GroupID, &slot.ServiceID); err != nil {
			return nil, fmt.Errorf("%w: GetBookedSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBookedSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// UpdateStatus меняет статус; флаг confirmed пишется из статуса
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", status).
		Set("confirmed", status == domain.StatusConfirmed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsConflict(err) {
			return ErrSlotNotAvailable
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Delete физически удаляет запись
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// CountBetween число активных записей с датой в [from, to]
func (r *Repository) CountBetween(ctx context.Context, from, to time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableName).
		Where(squirrel.GtOrEq{"booking_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"booking_date": to.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountBetween - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountBetween - scan count: %v", ErrScanRow, err)
	}
	return count, nil
}

// CountDistinctClients число уникальных клиентов (по email без учета регистра)
func (r *Repository) CountDistinctClients(ctx context.Context) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(DISTINCT LOWER(client_email))").
		From(tableName).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountDistinctClients - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountDistinctClients - scan count: %v", ErrScanRow, err)
	}
	return count, nil
}

func detailsSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(detailsColumns...).
		From(tableName + " b").
		LeftJoin("services s ON s.id = b.service_id").
		LeftJoin("stylists st ON st.id = b.stylist_id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func appointmentDest(a *domain.Appointment, createdAt, updatedAt *sql.NullTime) []interface{} {
	return []interface{}{
		&a.ID,
		&a.GroupID,
		&a.ServiceID,
		&a.StylistID,
		&a.ClientName,
		&a.ClientEmail,
		&a.ClientPhone,
		&a.BookingDate,
		&a.BookingTime,
		&a.Notes,
		&a.Status,
		&a.WhatsAppNotifications,
		createdAt,
		updatedAt,
	}
}

func scanAppointment(row rowScanner, a *domain.Appointment) error {
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(appointmentDest(a, &createdAt, &updatedAt)...); err != nil {
		return err
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return nil
}

func scanDetails(row rowScanner, d *domain.AppointmentDetails) error {
	var createdAt, updatedAt sql.NullTime
	dest := append(appointmentDest(&d.Appointment, &createdAt, &updatedAt),
		&d.ServiceTitle,
		&d.ServicePrice,
		&d.ServiceDuration,
		&d.StylistName,
	)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	d.CreatedAt = createdAt.Time
	d.UpdatedAt = updatedAt.Time
	return nil
}

func scanDetailsRows(rows *sql.Rows) ([]*domain.AppointmentDetails, error) {
	result := make([]*domain.AppointmentDetails, 0)
	for rows.Next() {
		var d domain.AppointmentDetails
		if err := scanDetails(rows, &d); err != nil {
			return nil, fmt.Errorf("%w: scanDetailsRows - scan row: %v", ErrScanRow, err)
		}
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanDetailsRows - rows error: %v", ErrScanRow, err)
	}
	return result, nil
}
