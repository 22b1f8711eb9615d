package booking_wizard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BarberBookingService/internal/domain"
	createBooking "github.com/m04kA/BarberBookingService/internal/usecase/create_booking"
	"github.com/m04kA/BarberBookingService/internal/wizard"
	"github.com/m04kA/BarberBookingService/pkg/logger"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// fakeMachine отдает заранее заданный результат и запоминает аргументы
type fakeMachine struct {
	session *domain.WizardSession
	err     error
	submit  *wizard.SubmitResult

	gotServices []uuid.UUID
	gotDate     time.Time
	gotTime     types.TimeString
}

func (f *fakeMachine) view() (*wizard.View, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &wizard.View{
		Session:    f.session,
		Summary:    &wizard.Summary{Services: []wizard.SummaryService{}},
		Slots:      []types.TimeString{"09:00"},
		CanAdvance: true,
	}, nil
}

func (f *fakeMachine) Start(context.Context) (*wizard.View, error) { return f.view() }

func (f *fakeMachine) Get(context.Context, uuid.UUID) (*wizard.View, error) { return f.view() }

func (f *fakeMachine) SelectServices(_ context.Context, _ uuid.UUID, ids []uuid.UUID) (*wizard.View, error) {
	f.gotServices = ids
	return f.view()
}

func (f *fakeMachine) SelectStylist(context.Context, uuid.UUID, uuid.UUID) (*wizard.View, error) {
	return f.view()
}

func (f *fakeMachine) SelectDate(_ context.Context, _ uuid.UUID, date time.Time) (*wizard.View, error) {
	f.gotDate = date
	return f.view()
}

func (f *fakeMachine) SelectTime(_ context.Context, _ uuid.UUID, slot types.TimeString) (*wizard.View, error) {
	f.gotTime = slot
	return f.view()
}

func (f *fakeMachine) SetDetails(context.Context, uuid.UUID, domain.ClientDetails) (*wizard.View, error) {
	return f.view()
}

func (f *fakeMachine) Next(context.Context, uuid.UUID) (*wizard.View, error) { return f.view() }

func (f *fakeMachine) Previous(context.Context, uuid.UUID) (*wizard.View, error) { return f.view() }

func (f *fakeMachine) Submit(context.Context, uuid.UUID) (*wizard.SubmitResult, error) {
	return f.submit, f.err
}

func newSession() *domain.WizardSession {
	return &domain.WizardSession{ID: uuid.New(), Step: domain.StepServices}
}

func call(h http.HandlerFunc, sessionID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/wizard/sessions/"+sessionID, strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"sessionId": sessionID})
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestStart(t *testing.T) {
	m := &fakeMachine{session: newSession()}
	h := NewHandler(m, time.UTC, logger.Discard())

	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/api/v1/wizard/sessions", nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, m.session.ID.String(), resp.ID)
	assert.Equal(t, 1, resp.Step)
	assert.Equal(t, "services", resp.StepName)
	assert.Equal(t, []string{"09:00"}, resp.AvailableSlots)
	assert.True(t, resp.CanAdvance)
}

func TestSelections_ParseInput(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	m := &fakeMachine{session: newSession()}
	h := NewHandler(m, loc, logger.Discard())
	id := m.session.ID.String()
	serviceID := uuid.New()

	rec := call(h.SelectServices, id, `{"serviceIds":["`+serviceID.String()+`"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uuid.UUID{serviceID}, m.gotServices)

	rec = call(h.SelectDate, id, `{"date":"2025-03-10"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), m.gotDate)

	rec = call(h.SelectTime, id, `{"time":"14:00:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.TimeString("14:00"), m.gotTime)

	assert.Equal(t, http.StatusBadRequest, call(h.SelectServices, id, `{"serviceIds":["x"]}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(h.SelectStylist, id, `{"stylistId":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(h.SelectDate, id, `{"date":"lundi"}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(h.SelectTime, id, `{"time":"25:00"}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(h.Get, "not-a-uuid", ``).Code)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{wizard.ErrSessionNotFound, http.StatusNotFound},
		{wizard.ErrSessionBusy, http.StatusConflict},
		{wizard.ErrWrongStep, http.StatusConflict},
		{wizard.ErrNoServices, http.StatusBadRequest},
		{wizard.ErrSundayClosed, http.StatusBadRequest},
		{wizard.ErrPastDate, http.StatusBadRequest},
		{wizard.ErrTimeUnavailable, http.StatusConflict},
		{wizard.ErrStylistNotFound, http.StatusNotFound},
		{wizard.ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		h := NewHandler(&fakeMachine{err: tc.err}, time.UTC, logger.Discard())
		rec := call(h.Next, uuid.NewString(), ``)
		assert.Equal(t, tc.code, rec.Code, "err=%v", tc.err)
	}
}

func TestSubmit_Success(t *testing.T) {
	session := newSession()
	session.Step = domain.StepSubmitted
	appointmentID := uuid.New()

	m := &fakeMachine{submit: &wizard.SubmitResult{
		Session: session,
		Outcomes: []wizard.Outcome{
			{ServiceID: uuid.New(), ServiceTitle: "Coupe", AppointmentID: appointmentID},
		},
	}}
	h := NewHandler(m, time.UTC, logger.Discard())

	rec := call(h.Submit, session.ID.String(), ``)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp SubmitResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "submitted", resp.Session.StepName)
	require.Len(t, resp.Outcomes, 1)
	assert.True(t, resp.Outcomes[0].Booked)
	assert.Equal(t, appointmentID.String(), *resp.Outcomes[0].AppointmentID)
}

func TestSubmit_PartialFailure(t *testing.T) {
	session := newSession()
	session.Step = domain.StepDetails
	booked := wizard.Outcome{ServiceID: uuid.New(), ServiceTitle: "Coupe", AppointmentID: uuid.New()}
	failed := wizard.Outcome{ServiceID: uuid.New(), ServiceTitle: "Barbe", Err: createBooking.ErrSlotNotAvailable}
	outcomes := []wizard.Outcome{booked, failed}

	m := &fakeMachine{
		submit: &wizard.SubmitResult{Session: session, Outcomes: outcomes},
		err:    &wizard.SubmitError{Outcomes: outcomes},
	}
	h := NewHandler(m, time.UTC, logger.Discard())

	rec := call(h.Submit, session.ID.String(), ``)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp SubmitFailureResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Partial)
	assert.Equal(t, msgPartialFailure, resp.Message)
	require.Len(t, resp.Outcomes, 2)
	assert.True(t, resp.Outcomes[0].Booked)
	assert.False(t, resp.Outcomes[1].Booked)
	assert.Equal(t, msgSlotTaken, resp.Outcomes[1].Error)
	require.NotNil(t, resp.Session)
	assert.Equal(t, "details", resp.Session.StepName)
}

func TestSubmit_TotalFailure(t *testing.T) {
	outcomes := []wizard.Outcome{{ServiceID: uuid.New(), ServiceTitle: "Coupe", Err: createBooking.ErrInternal}}
	m := &fakeMachine{
		submit: &wizard.SubmitResult{Session: newSession(), Outcomes: outcomes},
		err:    &wizard.SubmitError{Outcomes: outcomes},
	}
	h := NewHandler(m, time.UTC, logger.Discard())

	rec := call(h.Submit, uuid.NewString(), ``)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp SubmitFailureResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Partial)
	assert.Equal(t, msgTotalFailure, resp.Message)
	assert.Equal(t, msgBookingFailed, resp.Outcomes[0].Error)
}
