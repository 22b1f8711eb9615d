package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"french local with spaces", "06 12 34 56 78", "+33612345678"},
		{"missing plus", "33612", "+33612"},
		{"already international", "+4470", "+4470"},
		{"tabs and newlines", "\t07 00\n11", "+3370011"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw, "+33")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhone_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "06-12", "abc"} {
		_, err := NormalizePhone(raw, "+33")
		assert.ErrorIs(t, err, ErrInvalidPhone, raw)
	}
}

func TestNormalizePhone_CountryCodeWithoutPlus(t *testing.T) {
	got, err := NormalizePhone("0612", "33")
	require.NoError(t, err)
	assert.Equal(t, "+33612", got)
}

func TestClient_SendMessage(t *testing.T) {
	var received sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message_id":"wamid.1","status":"queued"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{
		Enabled:     true,
		BaseURL:     srv.URL,
		Token:       "secret",
		Timeout:     time.Second,
		Language:    "fr",
		CountryCode: "+33",
	}, nopLogger{})

	res, err := client.SendMessage(context.Background(), "06 12 34 56 78", "appointment_confirmation", "Bonjour Jean")

	require.NoError(t, err)
	assert.Equal(t, "wamid.1", res.MessageID)
	assert.False(t, res.Simulated)
	assert.Equal(t, "+33612345678", received.To)
	assert.Equal(t, "appointment_confirmation", received.Template)
	assert.Equal(t, "Bonjour Jean", received.Text)
}

func TestClient_SendMessage_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"bad recipient", http.StatusBadRequest, ErrRecipientRejected},
		{"gateway down", http.StatusBadGateway, ErrGatewayUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"code":1,"message":"nope"}`))
			}))
			defer srv.Close()

			client := NewClient(Config{Enabled: true, BaseURL: srv.URL, Timeout: time.Second, CountryCode: "+33"}, nopLogger{})
			_, err := client.SendMessage(context.Background(), "0612", "appointment_reminder", "x")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_SendMessage_Disabled(t *testing.T) {
	client := NewClient(Config{CountryCode: "+33"}, nopLogger{})

	res, err := client.SendMessage(context.Background(), "0612345678", "appointment_confirmation", "x")

	require.NoError(t, err)
	assert.True(t, res.Simulated)
	assert.Equal(t, "+33612345678", res.Phone)
}

func TestClient_SendMessage_InvalidPhoneNeverCallsGateway(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(Config{Enabled: true, BaseURL: srv.URL, Timeout: time.Second}, nopLogger{})
	_, err := client.SendMessage(context.Background(), " ", "appointment_confirmation", "x")

	assert.ErrorIs(t, err, ErrInvalidPhone)
	assert.False(t, called)
}
