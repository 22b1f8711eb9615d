package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BarberBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/BarberBookingService/internal/service/notifications"
	"github.com/m04kA/BarberBookingService/pkg/slotlock"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

// memBookings хранилище записей с проверкой уникальности активного слота, как в БД
type memBookings struct {
	mu   sync.Mutex
	rows []*domain.Appointment
}

func (m *memBookings) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *a
	created.ID = uuid.New()
	if created.GroupID == uuid.Nil {
		created.GroupID = created.ID
	}
	for _, r := range m.rows {
		if r.GroupID == created.GroupID && r.ServiceID == created.ServiceID && r.Status != domain.StatusCancelled {
			return nil, appointmentRepo.ErrAlreadyBooked
		}
		if r.StylistID == created.StylistID && r.BookingDate.Equal(created.BookingDate) &&
			r.BookingTime == created.BookingTime && r.GroupID != created.GroupID && r.Status != domain.StatusCancelled {
			return nil, appointmentRepo.ErrSlotNotAvailable
		}
	}
	created.CreatedAt = time.Now()
	m.rows = append(m.rows, &created)
	return &created, nil
}

func (m *memBookings) GetActiveInGroup(_ context.Context, groupID, serviceID uuid.UUID) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.rows {
		if r.GroupID == groupID && r.ServiceID == serviceID && r.Status != domain.StatusCancelled {
			found := *r
			return &found, nil
		}
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (m *memBookings) GetBookedSlots(_ context.Context, stylistID uuid.UUID, date time.Time) ([]domain.BookedSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.BookedSlot
	for _, r := range m.rows {
		if r.StylistID == stylistID && r.BookingDate.Equal(date) && r.Status != domain.StatusCancelled {
			out = append(out, domain.BookedSlot{Time: r.BookingTime, GroupID: r.GroupID, ServiceID: r.ServiceID})
		}
	}
	return out, nil
}

func (m *memBookings) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type fakeCatalog struct {
	services map[uuid.UUID]*domain.Service
	stylists map[uuid.UUID]*domain.Stylist
}

func (f *fakeCatalog) GetServiceByID(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeCatalog) GetStylistByID(_ context.Context, id uuid.UUID) (*domain.Stylist, error) {
	s, ok := f.stylists[id]
	if !ok {
		return nil, catalogRepo.ErrStylistNotFound
	}
	return s, nil
}

type fakeShifts []*domain.Shift

func (f fakeShifts) ListByStylist(context.Context, uuid.UUID) ([]*domain.Shift, error) { return f, nil }

// serialTx имитирует SERIALIZABLE: транзакции выполняются строго по очереди
type serialTx struct{ mu sync.Mutex }

func (s *serialTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx)
}

// looseTx не сериализует ничего, защита только на локе слота
type looseTx struct{}

func (looseTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type countingMetrics struct {
	mu        sync.Mutex
	created   int
	conflicts int
}

func (c *countingMetrics) IncBookingCreated() {
	c.mu.Lock()
	c.created++
	c.mu.Unlock()
}

func (c *countingMetrics) IncBookingConflict() {
	c.mu.Lock()
	c.conflicts++
	c.mu.Unlock()
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (r *recordingNotifier) BookingCreated(context.Context, *domain.Appointment) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
}

type failingNotificationRepo struct{}

func (failingNotificationRepo) Create(context.Context, *domain.Notification) (*domain.Notification, error) {
	return nil, errors.New("notifications table is gone")
}

func (failingNotificationRepo) ListRecent(context.Context, uint64) ([]*domain.Notification, error) {
	return nil, nil
}

func (failingNotificationRepo) MarkRead(context.Context, uuid.UUID) error { return nil }

func (failingNotificationRepo) MarkAllRead(context.Context) (int64, error) { return 0, nil }

var (
	// понедельник
	bookingDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	sunday     = time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	weekBefore = time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc        *UseCase
	bookings  *memBookings
	metrics   *countingMetrics
	notifier  *recordingNotifier
	serviceID uuid.UUID
	beardID   uuid.UUID
	stylistID uuid.UUID
}

type fixtureOpts struct {
	locker       SlotLocker
	tx           TransactionManager
	notifier     Notifier
	shifts       fakeShifts
	ignoreShifts bool
	now          time.Time
	unavailable  bool
	hideBooked   bool
}

// blindBookings не видит чужих незакоммиченных записей, остается только ограничение при вставке
type blindBookings struct{ *memBookings }

func (blindBookings) GetBookedSlots(context.Context, uuid.UUID, time.Time) ([]domain.BookedSlot, error) {
	return nil, nil
}

func newFixture(o fixtureOpts) *fixture {
	f := &fixture{
		bookings:  &memBookings{},
		metrics:   &countingMetrics{},
		notifier:  &recordingNotifier{},
		serviceID: uuid.New(),
		beardID:   uuid.New(),
		stylistID: uuid.New(),
	}
	if o.tx == nil {
		o.tx = &serialTx{}
	}
	if o.now.IsZero() {
		o.now = weekBefore
	}
	var notifier Notifier = f.notifier
	if o.notifier != nil {
		notifier = o.notifier
	}

	catalog := &fakeCatalog{
		services: map[uuid.UUID]*domain.Service{
			f.serviceID: {ID: f.serviceID, Title: "Coupe Homme", Duration: 30},
			f.beardID:   {ID: f.beardID, Title: "Taille de Barbe", Duration: 30},
		},
		stylists: map[uuid.UUID]*domain.Stylist{f.stylistID: {ID: f.stylistID, Name: "Marc", Available: !o.unavailable}},
	}

	var bookings BookingRepository = f.bookings
	if o.hideBooked {
		bookings = blindBookings{f.bookings}
	}

	f.uc = NewUseCase(bookings, catalog, o.shifts, o.locker, notifier, f.metrics, o.tx,
		Options{Grid: domain.DefaultSlotGrid(), IgnoreShifts: o.ignoreShifts, Location: time.UTC}, nopLogger{})
	f.uc.timeProvider = fixedTime{t: o.now}
	return f
}

func (f *fixture) request(tm types.TimeString) *Request {
	return &Request{
		ServiceID:   f.serviceID,
		StylistID:   f.stylistID,
		ClientName:  "Jean Dupont",
		ClientEmail: "jean@example.com",
		ClientPhone: "06 12 34 56 78",
		Date:        bookingDay,
		Time:        tm,
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(fixtureOpts{})
	notes := "  première visite "
	req := f.request("14:00")
	req.Notes = &notes

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, resp.ID, resp.GroupID)
	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.False(t, resp.Confirmed)
	assert.True(t, resp.WhatsAppNotifications)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, "première visite", *resp.Notes)
	assert.Equal(t, 1, f.metrics.created)
	assert.Equal(t, 1, f.notifier.calls)
}

func TestExecute_WhatsAppOptOut(t *testing.T) {
	f := newFixture(fixtureOpts{})
	off := false
	req := f.request("10:00")
	req.WhatsAppNotifications = &off

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.WhatsAppNotifications)
}

func TestExecute_SlotAlreadyTaken(t *testing.T) {
	f := newFixture(fixtureOpts{})
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, f.request("11:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, f.request("11:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, 1, f.bookings.count())
	assert.Equal(t, 1, f.metrics.conflicts)
}

func TestExecute_SameGroupSharesSlot(t *testing.T) {
	f := newFixture(fixtureOpts{})
	ctx := context.Background()
	group := uuid.New()

	first := f.request("15:30")
	first.GroupID = group
	second := f.request("15:30")
	second.ServiceID = f.beardID
	second.GroupID = group

	r1, err := f.uc.Execute(ctx, first)
	require.NoError(t, err)
	r2, err := f.uc.Execute(ctx, second)
	require.NoError(t, err)

	assert.Equal(t, group, r1.GroupID)
	assert.Equal(t, group, r2.GroupID)
	assert.NotEqual(t, r1.ID, r2.ID)

	// чужая группа на тот же слот не проходит
	other := f.request("15:30")
	other.GroupID = uuid.New()
	_, err = f.uc.Execute(ctx, other)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_RepeatedGroupServiceReturnsExisting(t *testing.T) {
	f := newFixture(fixtureOpts{})
	ctx := context.Background()
	group := uuid.New()

	req := f.request("10:30")
	req.GroupID = group
	first, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.AlreadyBooked)

	again := f.request("10:30")
	again.GroupID = group
	second, err := f.uc.Execute(ctx, again)
	require.NoError(t, err)

	assert.True(t, second.AlreadyBooked)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.bookings.count())
	assert.Equal(t, 1, f.metrics.created)
	assert.Zero(t, f.metrics.conflicts)
	assert.Equal(t, 1, f.notifier.calls)
}

func TestExecute_GroupServiceConstraintOnInsert(t *testing.T) {
	f := newFixture(fixtureOpts{hideBooked: true})
	ctx := context.Background()
	group := uuid.New()

	req := f.request("11:30")
	req.GroupID = group
	first, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)

	again := f.request("11:30")
	again.GroupID = group
	second, err := f.uc.Execute(ctx, again)
	require.NoError(t, err)

	assert.True(t, second.AlreadyBooked)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.bookings.count())
	assert.Equal(t, 1, f.notifier.calls)
}

func TestExecute_ConcurrentRequestsBookOnce(t *testing.T) {
	f := newFixture(fixtureOpts{})
	const workers = 12

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.uc.Execute(context.Background(), f.request("16:00"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotNotAvailable):
				conflicts++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 1, f.bookings.count())
}

func TestExecute_ConcurrentRequestsWithRedisLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	f := newFixture(fixtureOpts{
		locker: slotlock.NewRedisLocker(client, 5*time.Second, 3*time.Second, "test"),
		tx:     looseTx{},
	})
	const workers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), f.request("17:30"))
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, f.bookings.count())
	assert.Empty(t, mr.Keys(), "all slot locks are released")
}

func TestExecute_NotificationFailureDoesNotFailBooking(t *testing.T) {
	feed := notifications.NewService(failingNotificationRepo{}, nil, nopLogger{})
	f := newFixture(fixtureOpts{notifier: feed})

	resp, err := f.uc.Execute(context.Background(), f.request("09:00"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, 1, f.bookings.count())
}

func TestExecute_SlotValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    fixtureOpts
		date    time.Time
		time    types.TimeString
		wantErr error
	}{
		{name: "off grid", date: bookingDay, time: "09:15", wantErr: ErrInvalidTimeSlot},
		{name: "after close", date: bookingDay, time: "19:00", wantErr: ErrInvalidTimeSlot},
		{name: "past date", date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time: "10:00", wantErr: ErrInvalidDate},
		{name: "sunday closed by default", date: sunday, time: "10:00", wantErr: ErrStylistOff},
		{
			name:    "outside shift",
			opts:    fixtureOpts{shifts: fakeShifts{{DayOfWeek: 1, StartTime: "12:00", EndTime: "18:00", IsAvailable: true}}},
			date:    bookingDay,
			time:    "10:00",
			wantErr: ErrStylistOff,
		},
		{
			name:    "today started slot",
			opts:    fixtureOpts{now: time.Date(2025, 3, 10, 14, 10, 0, 0, time.UTC)},
			date:    bookingDay,
			time:    "14:00",
			wantErr: ErrTooLateToBook,
		},
		{
			name:    "today slot equal to now",
			opts:    fixtureOpts{now: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)},
			date:    bookingDay,
			time:    "14:00",
			wantErr: ErrTooLateToBook,
		},
		{name: "stylist unavailable", opts: fixtureOpts{unavailable: true}, date: bookingDay, time: "10:00", wantErr: ErrStylistUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.opts)
			req := f.request(tt.time)
			req.Date = tt.date

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.bookings.count())
		})
	}
}

func TestExecute_SundayAllowedWhenShiftsIgnored(t *testing.T) {
	f := newFixture(fixtureOpts{ignoreShifts: true})
	req := f.request("10:00")
	req.Date = sunday

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{name: "missing name", mutate: func(r *Request) { r.ClientName = "   " }},
		{name: "missing email", mutate: func(r *Request) { r.ClientEmail = "" }},
		{name: "bad email", mutate: func(r *Request) { r.ClientEmail = "jean@" }},
		{name: "display name email", mutate: func(r *Request) { r.ClientEmail = "Jean <jean@example.com>" }},
		{name: "missing phone", mutate: func(r *Request) { r.ClientPhone = "" }},
		{name: "missing date", mutate: func(r *Request) { r.Date = time.Time{} }},
		{name: "missing time", mutate: func(r *Request) { r.Time = "" }},
		{name: "missing service", mutate: func(r *Request) { r.ServiceID = uuid.Nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(fixtureOpts{})
			req := f.request("10:00")
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_UnknownReferences(t *testing.T) {
	f := newFixture(fixtureOpts{})

	req := f.request("10:00")
	req.ServiceID = uuid.New()
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	req = f.request("10:00")
	req.StylistID = uuid.New()
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStylistNotFound)
}

func TestExecute_LockTimeoutIsConflict(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	locker := slotlock.NewRedisLocker(client, 5*time.Second, 50*time.Millisecond, "test")
	f := newFixture(fixtureOpts{locker: locker})

	held, err := locker.Acquire(context.Background(), slotlock.SlotKey(f.stylistID, bookingDay, "12:00"))
	require.NoError(t, err)
	defer held(context.Background())

	_, err = f.uc.Execute(context.Background(), f.request("12:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_LockBackendDownFallsBackToDatabase(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	f := newFixture(fixtureOpts{locker: slotlock.NewRedisLocker(client, time.Second, 50*time.Millisecond, "test")})

	_, err := f.uc.Execute(context.Background(), f.request("12:30"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.bookings.count())
}
