package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})

	assert.NotNil(t, rl)
	assert.Equal(t, 10, rl.config.Requests)
	assert.Equal(t, time.Minute, rl.config.Window)
	assert.NotNil(t, rl.config.KeyFunc)
	assert.Equal(t, "Demasiadas solicitudes. Intenta de nuevo más tarde.", rl.config.Message)
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()

	doRequest := func(handler echo.HandlerFunc, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		assert.NoError(t, handler(c))
		return rec
	}

	okHandler := func(c echo.Context) error {
		return c.String(http.StatusOK, "success")
	}

	t.Run("WithinLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 2,
			Window:   time.Second,
		})
		handler := rl.Middleware()(okHandler)

		assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1").Code)
		assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1").Code)
	})

	t.Run("ExceededLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 1,
			Window:   time.Second,
		})
		handler := rl.Middleware()(okHandler)

		assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.2").Code)

		rec := doRequest(handler, "10.0.0.2")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), `"ok":false`)
	})

	t.Run("SeparateKeysPerIP", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 1,
			Window:   time.Second,
		})
		handler := rl.Middleware()(okHandler)

		assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.3").Code)
		assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.4").Code)
	})

	t.Run("WindowReset", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 1,
			Window:   50 * time.Millisecond,
		})
		handler := rl.Middleware()(okHandler)

		assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.5").Code)
		assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "10.0.0.5").Code)

		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.5").Code)
	})
}
