package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aquaguard/pkg/logging"
	"aquaguard/pkg/metrics"
)

// Client calls a remote regression model over HTTP. It satisfies
// services.Model.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.StructuredLogger
	metrics    *metrics.Collector
}

// NewClient creates a model client for the service at baseURL
func NewClient(baseURL string, timeout time.Duration, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		metrics: metricsCollector,
	}
}

// StatusError is returned when the model service answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("model service error: status %d: %s", e.StatusCode, e.Body)
}

// IsTransient returns true for server-side failures
func (e *StatusError) IsTransient() bool {
	return e.StatusCode >= 500
}

// Predict posts the feature vector to {baseURL}/predict and returns the
// predicted values
func (c *Client) Predict(ctx context.Context, features []float64) ([]float64, error) {
	timer := c.metrics.NewTimer(c.metrics.ModelRequestDuration)
	defer timer.ObserveDuration()

	body, err := json.Marshal(request{Features: features})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var modelResp response
	if err := json.NewDecoder(resp.Body).Decode(&modelResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.logger.Debug(ctx, "[MODEL_PREDICT] Model responded", logging.Fields{
		"features": len(features),
		"outputs":  len(modelResp.Prediction),
	})

	return modelResp.Prediction, nil
}

// Model service wire types.

type request struct {
	Features []float64 `json:"features"`
}

type response struct {
	Prediction []float64 `json:"prediction"`
}
