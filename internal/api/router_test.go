package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddlewareStatusLabels(t *testing.T) {
	t.Run("silent handler counts as 200", func(t *testing.T) {
		h := metricsMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/silent", nil))

		assert.Equal(t, float64(1), testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/silent", "200")))
		assert.Equal(t, float64(0), testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/silent", "0")))
	})

	t.Run("explicit status is recorded", func(t *testing.T) {
		h := metricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil))

		assert.Equal(t, float64(1), testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/missing", "404")))
	})

	t.Run("body without WriteHeader counts as 200", func(t *testing.T) {
		h := metricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("ok"))
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/body", nil))

		assert.Equal(t, float64(1), testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/body", "200")))
	})
}
