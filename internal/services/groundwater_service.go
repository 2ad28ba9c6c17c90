package services

import (
	"context"
	"errors"

	"aquaguard/internal/models"
	"aquaguard/internal/repository"
	"aquaguard/pkg/logging"
	"aquaguard/pkg/metrics"
)

// GroundwaterService builds nested state -> district -> value results from
// flat groundwater rows
type GroundwaterService struct {
	repo    repository.MonitoringRepository
	logger  *logging.ContextLogger
	metrics *metrics.Collector
}

// NewGroundwaterService creates a new groundwater service
func NewGroundwaterService(repo repository.MonitoringRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *GroundwaterService {
	return &GroundwaterService{
		repo:    repo,
		logger:  logger.WithFields(logging.Fields{"component": "groundwater_service"}),
		metrics: metricsCollector,
	}
}

// GetGroundwaterData returns groundwater data for all states, one state, or
// one district of a state. An empty state or district means the filter is not
// set; district is only honoured together with state. Storage failures are
// logged and produce an empty result.
func (s *GroundwaterService) GetGroundwaterData(ctx context.Context, state, district string) models.GroundwaterResult {
	timer := s.metrics.NewTimer(s.metrics.AggregationDuration)
	defer timer.ObserveDuration()

	result, err := s.aggregate(ctx, state, district)
	if err != nil {
		s.metrics.RecordAggregationFailure("groundwater")
		s.logger.Error(ctx, "[GROUNDWATER_ERROR] Failed to retrieve groundwater data", logging.Fields{
			"state":    state,
			"district": district,
		}, err)
		return models.GroundwaterResult{}
	}

	return result
}

func (s *GroundwaterService) aggregate(ctx context.Context, state, district string) (models.GroundwaterResult, error) {
	states := []string{state}
	if state == "" {
		var err error
		if states, err = s.repo.GroundwaterStates(ctx); err != nil {
			return nil, err
		}
	}

	result := make(models.GroundwaterResult, len(states))
	for _, currentState := range states {
		districts := []string{district}
		if district == "" || state != currentState {
			var err error
			if districts, err = s.repo.GroundwaterDistricts(ctx, currentState); err != nil {
				return nil, err
			}
		}

		districtMap := make(models.DistrictMap, len(districts))
		for _, currentDistrict := range districts {
			rows, err := s.repo.GroundwaterRows(ctx, currentState, currentDistrict)
			if err != nil {
				return nil, err
			}
			districtMap[currentDistrict] = s.districtValue(ctx, rows)
		}
		result[currentState] = districtMap
	}

	s.logger.Debug(ctx, "[GROUNDWATER_AGGREGATED] Groundwater data aggregated", logging.Fields{
		"state":    state,
		"district": district,
		"states":   len(result),
	})

	return result, nil
}

// districtValue applies the union rule: any row with a city makes the value
// city-level and rows without a city are skipped. Otherwise the last row is
// the district-level record.
func (s *GroundwaterService) districtValue(ctx context.Context, rows []*models.GroundwaterRow) models.DistrictValue {
	var district *models.GroundwaterRecord
	var cities map[string]*models.GroundwaterRecord

	for _, row := range rows {
		rec := s.toRecord(ctx, row)
		if row.HasCity() {
			if cities == nil {
				cities = make(map[string]*models.GroundwaterRecord)
			}
			cities[*row.CityName] = rec
			continue
		}
		district = rec
	}

	if cities != nil {
		return models.CityLevel(cities)
	}
	if district != nil {
		return models.DistrictLevel(district)
	}
	return models.CityLevel(nil)
}

func (s *GroundwaterService) toRecord(ctx context.Context, row *models.GroundwaterRow) *models.GroundwaterRecord {
	rec, err := row.ToRecord()
	if err != nil {
		var vErr *models.ValidationError
		fields := logging.Fields{
			"id":       row.ID,
			"state":    row.StateName,
			"district": row.DistrictName,
		}
		if errors.As(err, &vErr) {
			fields["field"] = vErr.Field
		}
		s.logger.Warn(ctx, "[GROUNDWATER_INVALID_JSON] Dropping malformed series from record", fields)
	}
	return rec
}
