package appointment

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/dbmetrics"
	"github.com/m04kA/BarberBookingService/pkg/pgerr"
)

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), db, mock
}

func sampleAppointment() *domain.Appointment {
	return &domain.Appointment{
		ServiceID:             uuid.New(),
		StylistID:             uuid.New(),
		ClientName:            "Jean Dupont",
		ClientEmail:           "jean@example.com",
		ClientPhone:           "0612345678",
		BookingDate:           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		BookingTime:           "14:00",
		Status:                domain.StatusPending,
		WhatsAppNotifications: true,
	}
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"Jean Dupont", "jean@example.com", "0612345678",
			"2025-03-10", sqlmock.AnyArg(), nil, sqlmock.AnyArg(), false, true,
		).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := repo.Create(context.Background(), sampleAppointment())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, created.ID, created.GroupID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_UniqueViolation(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_active_slot_key"})

	_, err := repo.Create(context.Background(), sampleAppointment())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_SameServiceInGroup(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_group_service_key"})

	_, err := repo.Create(context.Background(), sampleAppointment())

	assert.ErrorIs(t, err, ErrAlreadyBooked)
	assert.NotErrorIs(t, err, ErrSlotNotAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetActiveInGroup(t *testing.T) {
	repo, _, mock := newRepo(t)
	id, groupID, serviceID, stylistID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM bookings b WHERE b.group_id = \$1 AND b.service_id = \$2 AND b.status <> \$3`).
		WithArgs(groupID, serviceID, domain.StatusCancelled).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "group_id", "service_id", "stylist_id", "client_name", "client_email", "client_phone",
			"booking_date", "booking_time", "notes", "status", "whatsapp_notifications", "created_at", "updated_at",
		}).AddRow(id.String(), groupID.String(), serviceID.String(), stylistID.String(), "Jean Dupont", "jean@example.com", "0612345678",
			time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "14:00", nil, "pending", true, now, now))

	a, err := repo.GetActiveInGroup(context.Background(), groupID, serviceID)
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, groupID, a.GroupID)
	assert.Equal(t, "14:00", a.BookingTime.String())

	mock.ExpectQuery(`SELECT .* FROM bookings b WHERE b.group_id`).
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetActiveInGroup(context.Background(), groupID, serviceID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_SerializationFailureIsRetryable(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "40001"})

	_, err := repo.Create(context.Background(), sampleAppointment())

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.True(t, pgerr.IsRetryable(err))
}

func TestRepository_GetBookedSlots_LocksInsideTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)
	stylistID := uuid.New()
	groupID := uuid.New()

	mock.ExpectBegin()
	serviceID := uuid.New()
	mock.ExpectQuery(`SELECT booking_time, group_id, service_id FROM bookings WHERE .* FOR UPDATE`).
		WithArgs(stylistID, "2025-03-10", domain.StatusCancelled).
		WillReturnRows(sqlmock.NewRows([]string{"booking_time", "group_id", "service_id"}).
			AddRow("10:00", groupID.String(), uuid.NewString()).
			AddRow("14:30:00", groupID.String(), serviceID.String()))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	slots, err := repo.GetBookedSlots(ctx, stylistID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	require.Len(t, slots, 2)
	assert.Equal(t, "10:00", slots[0].Time.String())
	assert.Equal(t, "14:30", slots[1].Time.String())
	assert.Equal(t, groupID, slots[1].GroupID)
	assert.Equal(t, serviceID, slots[1].ServiceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListDetails_TodayFilter(t *testing.T) {
	repo, _, mock := newRepo(t)
	id := uuid.New()
	now := time.Now()

	columns := []string{
		"id", "group_id", "service_id", "stylist_id", "client_name", "client_email", "client_phone",
		"booking_date", "booking_time", "notes", "status", "whatsapp_notifications", "created_at", "updated_at",
		"title", "price", "duration", "name",
	}

	mock.ExpectQuery(`LEFT JOIN services s .* LEFT JOIN stylists st .* WHERE b.booking_date = \$1 ORDER BY b.booking_date ASC`).
		WithArgs("2025-03-10").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			id.String(), id.String(), uuid.NewString(), uuid.NewString(), "Jean", "jean@example.com", "0600000000",
			time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "09:30", nil, "confirmed", true, now, now,
			"", 0.0, 0, "Marc",
		))

	list, err := repo.ListDetails(context.Background(), domain.AppointmentsQuery{
		Filter: domain.FilterToday,
		Today:  time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, domain.StatusConfirmed, list[0].Status)
	assert.True(t, list[0].Confirmed())
	assert.Empty(t, list[0].ServiceTitle)
	assert.Equal(t, "Marc", list[0].StylistName)
	assert.Nil(t, list[0].Notes)
}

func TestRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE bookings SET status = \\$1, confirmed = \\$2, updated_at = NOW\\(\\) WHERE id = \\$3").
		WithArgs(domain.StatusConfirmed, true, id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), id, domain.StatusConfirmed)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("SELECT .* FROM bookings b WHERE b.id = \\$1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo, _, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM bookings WHERE id = \\$1").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
