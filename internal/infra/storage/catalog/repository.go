package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/dbmetrics"
	"github.com/m04kA/BarberBookingService/pkg/psqlbuilder"
)

var serviceColumns = []string{"id", "title", "description", "price", "duration", "icon"}

var stylistColumns = []string{"id", "name", "role", "experience", "specialties", "image_url", "available", "user_id"}

// Repository каталог услуг и мастеров (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListServices все услуги, от дешевых к дорогим
func (r *Repository) ListServices(ctx context.Context) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		OrderBy("price ASC", "title ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var s domain.Service
		if err := scanService(rows, &s); err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %v", ErrScanRow, err)
		}
		services = append(services, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// GetServiceByID получает услугу по ID
func (r *Repository) GetServiceByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Service
	err = scanService(executor.QueryRowContext(ctx, query, args...), &s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - scan service: %v", ErrScanRow, err)
	}

	return &s, nil
}

// ListStylists мастера по имени; availableOnly оставляет только принимающих записи
func (r *Repository) ListStylists(ctx context.Context, availableOnly bool) ([]*domain.Stylist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(stylistColumns...).
		From("stylists").
		OrderBy("name ASC")
	if availableOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"available": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStylists - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStylists - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	stylists := make([]*domain.Stylist, 0)
	for rows.Next() {
		var s domain.Stylist
		if err := scanStylist(rows, &s); err != nil {
			return nil, fmt.Errorf("%w: ListStylists - scan row: %v", ErrScanRow, err)
		}
		stylists = append(stylists, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStylists - rows error: %v", ErrScanRow, err)
	}

	return stylists, nil
}

// GetStylistByID получает мастера по ID
func (r *Repository) GetStylistByID(ctx context.Context, id uuid.UUID) (*domain.Stylist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(stylistColumns...).
		From("stylists").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStylistByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Stylist
	err = scanStylist(executor.QueryRowContext(ctx, query, args...), &s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStylistByID - scan stylist: %v", ErrScanRow, err)
	}

	return &s, nil
}

// CountStylists общее число мастеров
func (r *Repository) CountStylists(ctx context.Context) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").From("stylists").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountStylists - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountStylists - scan count: %v", ErrScanRow, err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner, s *domain.Service) error {
	var description, icon sql.NullString
	if err := row.Scan(&s.ID, &s.Title, &description, &s.Price, &s.Duration, &icon); err != nil {
		return err
	}
	s.Description = description.String
	s.Icon = icon.String
	return nil
}

func scanStylist(row rowScanner, s *domain.Stylist) error {
	var (
		role, experience, imageURL sql.NullString
		userID                     uuid.NullUUID
		specialties                pq.StringArray
	)
	if err := row.Scan(&s.ID, &s.Name, &role, &experience, &specialties, &imageURL, &s.Available, &userID); err != nil {
		return err
	}
	s.Role = role.String
	s.Experience = experience.String
	s.ImageURL = imageURL.String
	s.Specialties = []string(specialties)
	if userID.Valid {
		id := userID.UUID
		s.UserID = &id
	}
	return nil
}
