package notification

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	appointmentID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO notifications \(id,title,content,type,appointment_id,read\)`).
		WithArgs(sqlmock.AnyArg(), "Nouveau rendez-vous", "Jean - 14:00", domain.NotificationAppointment, appointmentID, false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	n, err := repo.Create(context.Background(), &domain.Notification{
		Title:         "Nouveau rendez-vous",
		Content:       "Jean - 14:00",
		Type:          domain.NotificationAppointment,
		AppointmentID: &appointmentID,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, n.ID)
	assert.Equal(t, now, n.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
