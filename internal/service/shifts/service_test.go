package shifts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BarberBookingService/internal/domain"
	catalogRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/BarberBookingService/internal/service/shifts/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeShiftRepo struct {
	stored   map[uuid.UUID][]*domain.Shift
	replaced int
}

func (f *fakeShiftRepo) ListByStylist(_ context.Context, id uuid.UUID) ([]*domain.Shift, error) {
	return f.stored[id], nil
}

func (f *fakeShiftRepo) ReplaceForStylist(_ context.Context, id uuid.UUID, shifts []*domain.Shift) error {
	f.replaced++
	f.stored[id] = shifts
	return nil
}

type fakeStylists map[uuid.UUID]bool

func (f fakeStylists) GetStylistByID(_ context.Context, id uuid.UUID) (*domain.Stylist, error) {
	if !f[id] {
		return nil, catalogRepo.ErrStylistNotFound
	}
	return &domain.Stylist{ID: id}, nil
}

type inlineTx struct{ calls int }

func (tx *inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	return fn(ctx)
}

func setup() (*Service, *fakeShiftRepo, *inlineTx, uuid.UUID) {
	id := uuid.New()
	repo := &fakeShiftRepo{stored: map[uuid.UUID][]*domain.Shift{}}
	tx := &inlineTx{}
	return NewService(repo, fakeStylists{id: true}, tx, domain.DefaultSlotGrid(), nopLogger{}), repo, tx, id
}

func TestService_Get_DefaultsWhenEmpty(t *testing.T) {
	svc, _, _, id := setup()

	resp, err := svc.Get(context.Background(), id)
	require.NoError(t, err)

	assert.True(t, resp.IsDefault)
	require.Len(t, resp.Shifts, 7)
	assert.False(t, resp.Shifts[6].IsAvailable)
	assert.Equal(t, "09:00", resp.Shifts[0].StartTime)
	assert.Equal(t, "19:00", resp.Shifts[0].EndTime)
}

func TestService_Get_DefaultsFollowSalonGrid(t *testing.T) {
	id := uuid.New()
	repo := &fakeShiftRepo{stored: map[uuid.UUID][]*domain.Shift{}}
	grid := domain.SlotGrid{Open: "10:00", Close: "20:00", IntervalMinutes: 30}
	svc := NewService(repo, fakeStylists{id: true}, &inlineTx{}, grid, nopLogger{})

	resp, err := svc.Get(context.Background(), id)
	require.NoError(t, err)

	// экран графиков показывает то же окно, что принимает запись
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	window := domain.ResolveWorkingWindow(monday, nil, grid)
	assert.Equal(t, window.Start.String(), resp.Shifts[0].StartTime)
	assert.Equal(t, window.End.String(), resp.Shifts[0].EndTime)
}

func TestService_Replace(t *testing.T) {
	svc, repo, tx, id := setup()

	resp, err := svc.Replace(context.Background(), id, &models.ReplaceShiftsRequest{Shifts: []models.ShiftItem{
		{DayOfWeek: 1, StartTime: "10:00", EndTime: "12:00:00", IsAvailable: true},
		{DayOfWeek: 7, StartTime: "09:00", EndTime: "18:00", IsAvailable: false},
	}})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, 1, repo.replaced)
	assert.False(t, resp.IsDefault)
	assert.Equal(t, "12:00", resp.Shifts[0].EndTime)

	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, got.Shifts, 2)
}

func TestService_Replace_Validation(t *testing.T) {
	tests := []struct {
		name    string
		items   []models.ShiftItem
		wantErr error
	}{
		{"day out of range", []models.ShiftItem{{DayOfWeek: 8, StartTime: "09:00", EndTime: "10:00"}}, ErrInvalidShift},
		{"end before start", []models.ShiftItem{{DayOfWeek: 2, StartTime: "18:00", EndTime: "09:00"}}, ErrInvalidShift},
		{"bad time", []models.ShiftItem{{DayOfWeek: 2, StartTime: "9h", EndTime: "10:00"}}, ErrInvalidShift},
		{"duplicate day", []models.ShiftItem{
			{DayOfWeek: 3, StartTime: "09:00", EndTime: "10:00"},
			{DayOfWeek: 3, StartTime: "11:00", EndTime: "12:00"},
		}, ErrDuplicateDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, id := setup()
			_, err := svc.Replace(context.Background(), id, &models.ReplaceShiftsRequest{Shifts: tt.items})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, repo.replaced)
		})
	}
}

func TestService_UnknownStylist(t *testing.T) {
	svc, _, _, _ := setup()

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrStylistNotFound)
}
