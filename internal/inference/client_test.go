package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaguard/pkg/logging"
	"aquaguard/pkg/metrics"
)

func testClient(t *testing.T, baseURL string) (*Client, *metrics.Collector) {
	t.Helper()
	collector := metrics.NewCollector("test", prometheus.NewRegistry())
	return NewClient(baseURL, 5*time.Second, logging.NewNopLogger(), collector), collector
}

func TestClient_Predict_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-123", r.Header.Get("X-Request-ID"))

		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []float64{1, 1, 25, 32, 6.8, 7.5, 500, 800}, req.Features)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(response{Prediction: []float64{25.4, 31.8, 6.9, 7.4, 520, 790}}))
	}))
	defer srv.Close()

	c, collector := testClient(t, srv.URL+"/")
	ctx := logging.WithRequestID(context.Background(), "req-123")

	got, err := c.Predict(ctx, []float64{1, 1, 25, 32, 6.8, 7.5, 500, 800})
	require.NoError(t, err)
	assert.Equal(t, []float64{25.4, 31.8, 6.9, 7.4, 520, 790}, got)
	assert.Equal(t, 1, testutil.CollectAndCount(collector.ModelRequestDuration))
}

func TestClient_Predict_StatusError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		transient bool
	}{
		{name: "bad request", status: http.StatusBadRequest, transient: false},
		{name: "server error", status: http.StatusInternalServerError, transient: true},
		{name: "unavailable", status: http.StatusServiceUnavailable, transient: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "model not loaded", tt.status)
			}))
			defer srv.Close()

			c, _ := testClient(t, srv.URL)
			_, err := c.Predict(context.Background(), []float64{1})

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, "model not loaded", statusErr.Body)
			assert.Equal(t, tt.transient, statusErr.IsTransient())
		})
	}
}

func TestClient_Predict_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL)
	_, err := c.Predict(context.Background(), []float64{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Predict_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(response{Prediction: []float64{1, 2, 3, 4, 5, 6}})
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Predict(ctx, []float64{1})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
