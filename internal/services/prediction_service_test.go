package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaguard/internal/models"
)

func TestPredict_Kalyani(t *testing.T) {
	logger, collector := newTestDeps()
	model := &fakeModel{output: []float64{25.0, 32.0, 6.8, 7.5, 500, 800}}
	svc := NewPredictionService(model, nil, logger, collector)

	result, err := svc.Predict(context.Background(), "KALYANI INDUSTRIAL AREA")
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 1, 25.0, 32.0, 6.8, 7.5, 500, 800}, model.features)
	assert.Equal(t, models.Range{Min: 25.0, Max: 32.0}, result.Temperature)
	assert.Equal(t, models.Range{Min: 6.8, Max: 7.5}, result.PH)
	assert.Equal(t, models.Range{Min: 500, Max: 800}, result.Conductivity)

	for _, v := range []float64{
		result.Temperature.Min, result.Temperature.Max,
		result.PH.Min, result.PH.Max,
		result.Conductivity.Min, result.Conductivity.Max,
	} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}

	want := EstimateRecharge(7.15, 650, 28.5, DefaultRechargeParams())
	assert.InDelta(t, want.VolumeMCM, result.Recharge.VolumeMCM, 1e-9)
	assert.InDelta(t, want.Percentage, result.Recharge.Percentage, 1e-9)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.PredictionsTotal.WithLabelValues(OutcomeSuccess)))
	assert.InDelta(t, want.Percentage, testutil.ToFloat64(collector.RechargePercentage), 1e-9)
}

func TestPredict_StationMatching(t *testing.T) {
	tests := []struct {
		station   string
		supported bool
	}{
		{"KALYANI INDUSTRIAL AREA", true},
		{"kalyani", true},
		{"Near Kalyani Lake", true},
		{"MUMBAI STATION", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.station, func(t *testing.T) {
			logger, collector := newTestDeps()
			svc := NewPredictionService(&fakeModel{output: []float64{1, 2, 3, 4, 5, 6}}, nil, logger, collector)

			_, err := svc.Predict(context.Background(), tt.station)
			assert.Equal(t, tt.supported, Supports(tt.station))
			if tt.supported {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrNotSupported))
			assert.Equal(t, "predictions are only supported for Kalyani", err.Error())
		})
	}
}

func TestPredict_NotSupportedSkipsModel(t *testing.T) {
	logger, collector := newTestDeps()
	model := &fakeModel{output: []float64{1, 2, 3, 4, 5, 6}}
	svc := NewPredictionService(model, nil, logger, collector)

	_, err := svc.Predict(context.Background(), "MUMBAI STATION")
	require.ErrorIs(t, err, ErrNotSupported)
	assert.Nil(t, model.features)
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.PredictionsTotal.WithLabelValues(OutcomeNotSupported)))
}

func TestPredict_InternalErrors(t *testing.T) {
	modelErr := errors.New("model unavailable")

	tests := []struct {
		name  string
		model Model
		cause error
	}{
		{name: "no model", model: nil},
		{name: "model error", model: &fakeModel{err: modelErr}, cause: modelErr},
		{name: "short output", model: &fakeModel{output: []float64{1, 2, 3}}},
		{name: "long output", model: &fakeModel{output: []float64{1, 2, 3, 4, 5, 6, 7}}},
		{name: "nan output", model: &fakeModel{output: []float64{1, 2, math.NaN(), 4, 5, 6}}},
		{name: "inf output", model: &fakeModel{output: []float64{1, 2, 3, 4, math.Inf(1), 6}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, collector := newTestDeps()
			svc := NewPredictionService(tt.model, nil, logger, collector)

			result, err := svc.Predict(context.Background(), "KALYANI")
			assert.Nil(t, result)

			var internal *InternalError
			require.True(t, errors.As(err, &internal))
			assert.False(t, errors.Is(err, ErrNotSupported))
			assert.NotEmpty(t, err.Error())
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
			assert.Equal(t, 1.0, testutil.ToFloat64(collector.PredictionsTotal.WithLabelValues(OutcomeInternalError)))
		})
	}
}

func TestPredictionService_Render(t *testing.T) {
	result := &models.PredictionResult{}

	tests := []struct {
		name     string
		renderer Renderer
		want     *models.Plots
	}{
		{name: "no renderer", renderer: nil, want: nil},
		{name: "renderer output", renderer: &fakeRenderer{plots: &models.Plots{Plot2D: "aGVsbG8=", Plot3D: "d29ybGQ="}}, want: &models.Plots{Plot2D: "aGVsbG8=", Plot3D: "d29ybGQ="}},
		{name: "renderer failure", renderer: &fakeRenderer{err: errors.New("no display")}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, collector := newTestDeps()
			svc := NewPredictionService(&fakeModel{}, tt.renderer, logger, collector)
			assert.Equal(t, tt.want, svc.Render(context.Background(), result))
		})
	}
}
