package update_appointment_status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BarberBookingService/internal/service/appointments"
	"github.com/m04kA/BarberBookingService/internal/service/appointments/models"
	"github.com/m04kA/BarberBookingService/pkg/logger"
)

type fakeService struct {
	got *models.UpdateStatusRequest
	err error
}

func (f *fakeService) UpdateStatus(_ context.Context, id uuid.UUID, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id.String(), Status: req.Status, Confirmed: req.Status == "confirmed"}, nil
}

func serve(svc *fakeService, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/appointments/"+id+"/status", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Discard()).Handle(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, uuid.NewString(), `{"status":"confirmed"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Confirmed)
	assert.Equal(t, "confirmed", svc.got.Status)
}

func TestHandle_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: %q", appointments.ErrInvalidStatus, "done"), http.StatusBadRequest},
		{appointments.ErrInvalidInput, http.StatusBadRequest},
		{appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{appointments.ErrInvalidTransition, http.StatusConflict},
		{appointments.ErrSlotNotAvailable, http.StatusConflict},
		{appointments.ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := serve(&fakeService{err: tc.err}, uuid.NewString(), `{"status":"pending"}`)
		assert.Equal(t, tc.code, rec.Code, "err=%v", tc.err)
	}

	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, uuid.NewString(), `status=confirmed`).Code)
}
