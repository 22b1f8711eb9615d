package wizardsession

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

func sampleSession() *domain.WizardSession {
	stylist := uuid.New()
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	service := uuid.New()
	return &domain.WizardSession{
		ID:         uuid.New(),
		Step:       domain.StepDetails,
		ServiceIDs: []uuid.UUID{service},
		StylistID:  &stylist,
		Date:       &date,
		Time:       "14:00",
		Details:    domain.ClientDetails{Name: "Jean", Email: "jean@example.com", Phone: "0612345678"},
		Booked:     map[uuid.UUID]uuid.UUID{service: uuid.New()},
	}
}

func TestRedisStore_SaveGetDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisStore(client, 30*time.Minute)
	ctx := context.Background()
	session := sampleSession()

	require.NoError(t, store.Save(ctx, session))
	assert.Equal(t, 30*time.Minute, mr.TTL("wizard:session:"+session.ID.String()))

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Step, got.Step)
	assert.Equal(t, session.ServiceIDs, got.ServiceIDs)
	assert.Equal(t, *session.StylistID, *got.StylistID)
	assert.True(t, session.Date.Equal(*got.Date))
	assert.Equal(t, session.Time, got.Time)
	assert.Equal(t, session.Booked, got.Booked)

	require.NoError(t, store.Delete(ctx, session.ID))
	_, err = store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_Expired(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisStore(client, time.Minute)
	session := sampleSession()
	require.NoError(t, store.Save(context.Background(), session))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_BackendDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	_, err := NewRedisStore(client, time.Minute).Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrStorage)
}

func TestMemoryStore_CopiesAndExpires(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	session := sampleSession()
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	got.Time = "15:00"

	again, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "14:00", again.Time.String())

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
