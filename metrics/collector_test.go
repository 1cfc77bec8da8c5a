package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingCreated(t *testing.T) {
	c := NewCollector()
	c.BookingCreated("Wedding", 1200)
	c.BookingCreated("Wedding", 0)
	c.BookingCreated("Birthday", 300)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.bookings.WithLabelValues("Wedding")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.bookings.WithLabelValues("Birthday")))
	assert.Equal(t, 1500.0, testutil.ToFloat64(c.revenue))
}

func TestStatusTransition(t *testing.T) {
	c := NewCollector()
	c.StatusTransition("booking", "Pending", "Cancelled")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("booking", "Pending", "Cancelled")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector()
	c.ObserveRequest("GET", "/menus", http.StatusOK, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",route="/menus",status="200"} 1`)
	assert.Contains(t, body, "http_request_duration_seconds_bucket")
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.StatusTransition("order", "Pending", "Preparing")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.transitions.WithLabelValues("order", "Pending", "Preparing")))
}
