package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/usergroups/internal/config"
	"github.com/deppfellow/usergroups/internal/errs"
	"github.com/deppfellow/usergroups/internal/server"
)

func newTestServer(rateLimit float64) *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server: config.ServerConfig{
				CORSAllowedOrigins: []string{"*"},
				RateLimit:          rateLimit,
			},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "bad id\twith spaces")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Len(t, rec.Body.String(), 36)
	assert.NotContains(t, rec.Body.String(), " ")
}

func TestValidRequestID(t *testing.T) {
	assert.True(t, validRequestID("3f2b-xyz"))
	assert.False(t, validRequestID(""))
	assert.False(t, validRequestID(strings.Repeat("a", maxRequestIDLength+1)))
	assert.False(t, validRequestID("line\nbreak"))
}

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"http error", errs.NewConflictError("taken", true, nil), http.StatusConflict, "taken"},
		{"route not found", echo.ErrNotFound, http.StatusNotFound, "Route not found"},
		{"method not allowed", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"echo 5xx hides message", echo.NewHTTPError(http.StatusBadGateway, "upstream 10.0.0.1"), http.StatusBadGateway, "Bad Gateway"},
		{"validation kind", errs.Validationf("op", "bad input"), http.StatusBadRequest, "Bad input"},
		{"not found kind", errs.NotFound("op", "user"), http.StatusNotFound, "User not found"},
		{"plain error", errors.New("secret detail"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toHTTPError(tt.err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestGlobalErrorHandler_WritesErrorField(t *testing.T) {
	global := NewGlobalMiddlewares(newTestServer(0))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	global.GlobalErrorHandler(errors.New("pq: password authentication failed"), c)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error","code":"INTERNAL_SERVER_ERROR","status":500,"override":false}`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(1)
	middlewares := NewMiddlewares(s)

	e := echo.New()
	e.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler
	e.Use(middlewares.RateLimit.Limit())
	e.GET("/users", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/status", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
		codes = append(codes, rec.Code)
	}
	assert.Contains(t, codes, http.StatusTooManyRequests)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	e := echo.New()
	e.Use(NewRateLimitMiddleware(newTestServer(0)).Limit())
	e.GET("/users", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestResponseStatus(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "written response", err: nil, want: http.StatusCreated},
		{name: "not found kind", err: errs.NotFound("GetGroup", "group"), want: http.StatusNotFound},
		{name: "transaction failed", err: errs.TransactionFailed("op", errors.New("boom")), want: http.StatusInternalServerError},
		{name: "echo error", err: echo.NewHTTPError(http.StatusMethodNotAllowed), want: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			if tt.err == nil {
				require.NoError(t, c.NoContent(http.StatusCreated))
			}

			assert.Equal(t, tt.want, ResponseStatus(c, tt.err))
		})
	}
}
