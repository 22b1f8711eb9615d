package shift

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/dbmetrics"
	"github.com/m04kA/BarberBookingService/pkg/pgerr"
	"github.com/m04kA/BarberBookingService/pkg/psqlbuilder"
)

const tableName = "shifts"

var shiftColumns = []string{
	"id",
	"stylist_id",
	"day_of_week",
	"start_time",
	"end_time",
	"is_available",
	"created_at",
	"updated_at",
}

// Repository графики работы мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория графиков
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByStylist недельный график мастера, упорядоченный по дню недели.
// Пустой результат означает, что график не настроен.
func (r *Repository) ListByStylist(ctx context.Context, stylistID uuid.UUID) ([]*domain.Shift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(shiftColumns...).
		From(tableName).
		Where(squirrel.Eq{"stylist_id": stylistID}).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStylist - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStylist - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		var (
			s                    domain.Shift
			createdAt, updatedAt sql.NullTime
		)
		if err := rows.Scan(
			&s.ID,
			&s.StylistID,
			&s.DayOfWeek,
			&s.StartTime,
			&s.EndTime,
			&s.IsAvailable,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListByStylist - scan row: %v", ErrScanRow, err)
		}
		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time
		shifts = append(shifts, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByStylist - rows error: %v", ErrScanRow, err)
	}

	return shifts, nil
}

// ReplaceForStylist заменяет недельный график мастера целиком.
// Должен вызываться внутри транзакции, иначе между DELETE и INSERT виден пустой график.
func (r *Repository) ReplaceForStylist(ctx context.Context, stylistID uuid.UUID, shifts []*domain.Shift) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"stylist_id": stylistID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForStylist - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceForStylist - execute delete: %v", ErrExecQuery, err)
	}

	if len(shifts) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert(tableName).
		Columns("id", "stylist_id", "day_of_week", "start_time", "end_time", "is_available")
	for _, s := range shifts {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		s.StylistID = stylistID
		insert = insert.Values(s.ID, stylistID, s.DayOfWeek, s.StartTime, s.EndTime, s.IsAvailable)
	}

	insertQuery, insertArgs, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForStylist - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		switch {
		case pgerr.IsForeignKeyViolation(err):
			return ErrStylistNotFound
		case pgerr.IsConflict(err):
			return ErrDuplicateDay
		}
		return fmt.Errorf("%w: ReplaceForStylist - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
