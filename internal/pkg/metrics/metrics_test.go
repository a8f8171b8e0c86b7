package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	before := testutil.ToFloat64(Registrations.WithLabelValues(OutcomeSuccess))
	Registrations.WithLabelValues(OutcomeSuccess).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Registrations.WithLabelValues(OutcomeSuccess)))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `memberdir_http_request_duration_seconds_count{method="GET",route="/ping",status="200"}`)
	assert.Contains(t, w.Body.String(), "memberdir_registrations_total")
}
