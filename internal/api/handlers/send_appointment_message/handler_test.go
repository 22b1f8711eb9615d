package send_appointment_message

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

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/domain"
	sendMessage "github.com/m04kA/BarberBookingService/internal/usecase/send_appointment_message"
	"github.com/m04kA/BarberBookingService/pkg/logger"
)

type fakeUseCase struct {
	got *sendMessage.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *sendMessage.Request) (*sendMessage.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &sendMessage.Response{
		AppointmentID:  req.AppointmentID,
		MessageType:    req.MessageType,
		DeliveryMethod: req.DeliveryMethod,
		Recipient:      "+33612345678",
		Text:           "Bonjour Jean",
		Status:         domain.StatusConfirmed,
		Confirmed:      true,
	}, nil
}

func serve(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/appointments/"+id+"/messages", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Discard()).Handle(rec, req)
	return rec
}

func TestHandle_Sent(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(uc, `{"messageType":"Confirmation","deliveryMethod":" whatsapp "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.MessageConfirmation, uc.got.MessageType)
	assert.Equal(t, domain.DeliveryWhatsApp, uc.got.DeliveryMethod)

	var resp SendMessageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Confirmed)
	assert.Equal(t, "+33612345678", resp.Recipient)
}

func TestHandle_MissingContact(t *testing.T) {
	uc := &fakeUseCase{err: fmt.Errorf("%w: no phone", sendMessage.ErrMissingContactMethod)}

	rec := serve(uc, `{"messageType":"confirmation","deliveryMethod":"whatsapp"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, msgMissingPhone, resp.Message)

	rec = serve(uc, `{"messageType":"reminder","deliveryMethod":"email"}`)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, msgMissingEmail, resp.Message)
}

func TestHandle_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{sendMessage.ErrAppointmentNotFound, http.StatusNotFound},
		{sendMessage.ErrInvalidMessageType, http.StatusBadRequest},
		{sendMessage.ErrInvalidDeliveryMethod, http.StatusBadRequest},
		{sendMessage.ErrInvalidPhone, http.StatusUnprocessableEntity},
		{sendMessage.ErrInvalidTransition, http.StatusConflict},
		{fmt.Errorf("%w: gateway 502", sendMessage.ErrDeliveryFailed), http.StatusBadGateway},
		{sendMessage.ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := serve(&fakeUseCase{err: tc.err}, `{"messageType":"confirmation","deliveryMethod":"whatsapp"}`)
		assert.Equal(t, tc.code, rec.Code, "err=%v", tc.err)
	}
}
