package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerKey(t *testing.T) {
	limiter := NewRateLimiter(1, 2, time.Minute)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))

	// другой клиент не затронут
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1000"))

	// через секунду накапливается один токен
	now = now.Add(time.Second)
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1003"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1004"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(1, 1, time.Minute)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.allow("ip:a")
	now = now.Add(30 * time.Second)
	limiter.allow("ip:b")

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, limiter.Cleanup())
	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "ip:b")
}

func TestClientKey_PrefersUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	assert.Equal(t, "ip:10.0.0.1", clientKey(req))

	req.Header.Set(HeaderUserID, "9")
	var key string
	Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = clientKey(r)
	})).ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "user:9", key)
}
