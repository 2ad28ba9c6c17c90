package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"aquaguard/internal/models"
	"aquaguard/pkg/logging"
	"aquaguard/pkg/metrics"
)

// Model maps an eight-element feature vector to six predicted values ordered
// [tempMin, tempMax, phMin, phMax, condMin, condMax]
type Model interface {
	Predict(ctx context.Context, features []float64) ([]float64, error)
}

// Renderer produces chart images for a prediction
type Renderer interface {
	Render(ctx context.Context, result *models.PredictionResult) (*models.Plots, error)
}

// Prediction outcomes
const (
	OutcomeSuccess       = "success"
	OutcomeNotSupported  = "not_supported"
	OutcomeInternalError = "internal_error"
)

const modelOutputSize = 6

// kalyaniFeatures are representative West Bengal groundwater parameters:
// station code, state code, temperature min/max, pH min/max and
// conductivity min/max.
var kalyaniFeatures = []float64{1, 1, 25.0, 32.0, 6.8, 7.5, 500, 800}

// PredictionService forecasts water-quality ranges for supported stations
type PredictionService struct {
	model    Model
	renderer Renderer
	params   RechargeParams
	logger   *logging.ContextLogger
	metrics  *metrics.Collector
}

// NewPredictionService creates a new prediction service. renderer may be nil.
func NewPredictionService(model Model, renderer Renderer, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *PredictionService {
	return &PredictionService{
		model:    model,
		renderer: renderer,
		params:   DefaultRechargeParams(),
		logger:   logger.WithFields(logging.Fields{"component": "prediction_service"}),
		metrics:  metricsCollector,
	}
}

// Supports reports whether predictions are available for the station
func Supports(station string) bool {
	return strings.Contains(strings.ToUpper(station), "KALYANI")
}

// Predict returns the forecast for a station. It fails with ErrNotSupported
// for unknown stations and with *InternalError when the model call fails or
// returns unusable output.
func (s *PredictionService) Predict(ctx context.Context, station string) (*models.PredictionResult, error) {
	timer := s.metrics.NewTimer(s.metrics.PredictionDuration)
	defer timer.ObserveDuration()

	if !Supports(station) {
		s.metrics.RecordPrediction(OutcomeNotSupported)
		s.logger.Info(ctx, "[PREDICT_UNSUPPORTED] Prediction requested for unsupported station", logging.Fields{
			"station": station,
		})
		return nil, ErrNotSupported
	}

	result, err := s.predict(ctx)
	if err != nil {
		s.metrics.RecordPrediction(OutcomeInternalError)
		s.logger.Error(ctx, "[PREDICT_ERROR] Prediction failed", logging.Fields{
			"station": station,
		}, err)
		return nil, err
	}

	s.metrics.RecordPrediction(OutcomeSuccess)
	s.metrics.RechargePercentage.Set(result.Recharge.Percentage)
	s.logger.Info(ctx, "[PREDICT_SUCCESS] Prediction completed", logging.Fields{
		"station":             station,
		"recharge_volume":     result.Recharge.VolumeMCM,
		"recharge_percentage": result.Recharge.Percentage,
	})

	return result, nil
}

func (s *PredictionService) predict(ctx context.Context) (*models.PredictionResult, error) {
	if s.model == nil {
		return nil, &InternalError{Op: "predict", Err: fmt.Errorf("no prediction model configured")}
	}

	features := make([]float64, len(kalyaniFeatures))
	copy(features, kalyaniFeatures)

	output, err := s.model.Predict(ctx, features)
	if err != nil {
		return nil, &InternalError{Op: "model predict", Err: err}
	}
	if len(output) != modelOutputSize {
		return nil, &InternalError{
			Op:  "model predict",
			Err: fmt.Errorf("expected %d predicted values, got %d", modelOutputSize, len(output)),
		}
	}
	for i, v := range output {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &InternalError{
				Op:  "model predict",
				Err: fmt.Errorf("predicted value %d is not finite: %v", i, v),
			}
		}
	}

	tempMin, tempMax := output[0], output[1]
	phMin, phMax := output[2], output[3]
	condMin, condMax := output[4], output[5]

	avgPH := (phMin + phMax) / 2
	avgCond := (condMin + condMax) / 2
	avgTemp := (tempMin + tempMax) / 2

	return &models.PredictionResult{
		Temperature:  models.Range{Min: tempMin, Max: tempMax},
		PH:           models.Range{Min: phMin, Max: phMax},
		Conductivity: models.Range{Min: condMin, Max: condMax},
		Recharge:     EstimateRecharge(avgPH, avgCond, avgTemp, s.params),
	}, nil
}

// Render produces plots for a prediction when a renderer is configured.
// Rendering failures are logged and yield nil plots.
func (s *PredictionService) Render(ctx context.Context, result *models.PredictionResult) *models.Plots {
	if s.renderer == nil || result == nil {
		return nil
	}

	plots, err := s.renderer.Render(ctx, result)
	if err != nil {
		s.logger.Warn(ctx, "[PREDICT_RENDER_FAILED] Plot rendering failed, omitting plots", logging.Fields{
			"error": err.Error(),
		})
		return nil
	}

	return plots
}
