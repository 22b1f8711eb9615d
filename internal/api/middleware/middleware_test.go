package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BarberBookingService/pkg/metrics"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuth(t *testing.T) {
	var got SessionContext
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetSession(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "u-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, SessionContext{UserID: "u-1", Role: RoleClient}, got)
}

func TestRequireAdmin(t *testing.T) {
	h := Auth(RequireAdmin(http.HandlerFunc(okHandler)))

	cases := []struct {
		role string
		want int
	}{
		{"", http.StatusForbidden},
		{"client", http.StatusForbidden},
		{"Admin", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderUserID, "u-1")
		req.Header.Set(HeaderUserRole, tc.role)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, "role=%q", tc.role)
	}
}

func TestGetUserID_Missing(t *testing.T) {
	_, ok := GetUserID(context.Background())
	assert.False(t, ok)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer("test", reg)

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "path" && l.GetValue() == "/items/{id}" {
					found = true
				}
				assert.NotEqual(t, "/items/a", l.GetValue())
			}
		}
	}
	assert.True(t, found)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://salon.example/"})(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/bookings", nil)
	req.Header.Set("Origin", "https://salon.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://salon.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestTimeout_SetsDeadline(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)

	ok = false
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)
}

func TestRateLimiter(t *testing.T) {
	limiter, err := NewRateLimiter(1, 2, nil)
	require.NoError(t, err)
	h := limiter.Middleware(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func rateLimitedCodes(h http.Handler, remoteAddr string, forwarded ...string) []int {
	codes := make([]int, 0, len(forwarded))
	for _, fwd := range forwarded {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = remoteAddr
		if fwd != "" {
			req.Header.Set("X-Forwarded-For", fwd)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	return codes
}

func TestRateLimiter_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	limiter, err := NewRateLimiter(1, 2, []string{"10.0.0.0/8"})
	require.NoError(t, err)
	h := limiter.Middleware(http.HandlerFunc(okHandler))

	// клиент сам подставляет новый адрес в каждый запрос
	codes := rateLimitedCodes(h, "203.0.113.7:4242", "1.1.1.1", "2.2.2.2", "3.3.3.3")
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_TrustedProxyForwardsClientAddress(t *testing.T) {
	limiter, err := NewRateLimiter(1, 2, []string{"10.0.0.0/8", "192.168.1.10"})
	require.NoError(t, err)
	h := limiter.Middleware(http.HandlerFunc(okHandler))

	// два клиента за одним прокси считаются раздельно
	codes := rateLimitedCodes(h, "10.0.0.5:443", "198.51.100.1", "198.51.100.1", "198.51.100.2")
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusOK}, codes)

	// подделанный левый адрес не помогает: берется ближайший недоверенный
	codes = rateLimitedCodes(h, "10.0.0.5:443", "9.9.9.9, 198.51.100.1", "8.8.8.8, 198.51.100.1, 192.168.1.10")
	assert.Equal(t, []int{http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestNewRateLimiter_InvalidTrustedProxy(t *testing.T) {
	_, err := NewRateLimiter(1, 2, []string{"not-an-ip"})
	assert.Error(t, err)

	prefixes, err := ParseTrustedProxies([]string{" 10.0.0.1 ", "", "172.16.0.0/12"})
	require.NoError(t, err)
	assert.Len(t, prefixes, 2)
}
