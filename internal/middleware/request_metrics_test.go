package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitprogress/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestMetrics(t *testing.T) {
	m := metrics.NewTestManager()

	r := mux.NewRouter()
	r.Use(RequestMetrics(m))
	r.HandleFunc("/progress/evaluate/history", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}).Methods("GET").Name("evaluation-history")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/progress/evaluate/history", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRequests.WithLabelValues("GET", "418")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HistogramRequestDuration))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.GaugeRequests))
}
