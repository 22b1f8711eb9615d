package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/BarberBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/BarberBookingService/pkg/logger"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

type fakeUseCase struct {
	got *getAvailableSlots.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &getAvailableSlots.Response{
		StylistID: req.StylistID,
		Date:      req.Date,
		Slots:     []types.TimeString{"09:00", "09:30"},
	}, nil
}

func request(stylistID, date string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stylists/"+stylistID+"/available-slots?date="+date, nil)
	return mux.SetURLVars(req, map[string]string{"stylistId": stylistID})
}

func TestHandle_OK(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, time.UTC, logger.Discard())
	stylistID := uuid.New()

	rec := httptest.NewRecorder()
	h.Handle(rec, request(stylistID.String(), "2025-03-10"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, stylistID, uc.got.StylistID)

	var resp AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"09:00", "09:30"}, resp.Slots)
	assert.Equal(t, "2025-03-10", resp.Date)
}

func TestHandle_Errors(t *testing.T) {
	cases := map[string]struct {
		uc      *fakeUseCase
		stylist string
		date    string
		code    int
	}{
		"bad stylist":  {&fakeUseCase{}, "7", "2025-03-10", http.StatusBadRequest},
		"missing date": {&fakeUseCase{}, uuid.NewString(), "", http.StatusBadRequest},
		"bad date":     {&fakeUseCase{}, uuid.NewString(), "2025-13-01", http.StatusBadRequest},
		"not found":    {&fakeUseCase{err: getAvailableSlots.ErrStylistNotFound}, uuid.NewString(), "2025-03-10", http.StatusNotFound},
		"internal":     {&fakeUseCase{err: getAvailableSlots.ErrInternal}, uuid.NewString(), "2025-03-10", http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHandler(tc.uc, time.UTC, logger.Discard()).Handle(rec, request(tc.stylist, tc.date))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
