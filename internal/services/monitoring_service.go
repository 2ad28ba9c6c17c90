package services

import (
	"context"

	"aquaguard/internal/models"
	"aquaguard/internal/repository"
	"aquaguard/pkg/logging"
	"aquaguard/pkg/metrics"
)

// MonitoringService serves the ocean, station, region and sighting catalogue.
// Storage failures degrade to empty lists.
type MonitoringService struct {
	repo    repository.MonitoringRepository
	logger  *logging.ContextLogger
	metrics *metrics.Collector
}

// NewMonitoringService creates a new monitoring service
func NewMonitoringService(repo repository.MonitoringRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *MonitoringService {
	return &MonitoringService{
		repo:    repo,
		logger:  logger.WithFields(logging.Fields{"component": "monitoring_service"}),
		metrics: metricsCollector,
	}
}

// ListOceanData returns every ocean metric with its points
func (s *MonitoringService) ListOceanData(ctx context.Context) []*models.OceanMetric {
	data, err := s.repo.ListOceanData(ctx)
	if err != nil {
		s.degrade(ctx, "ocean_data", err)
		return []*models.OceanMetric{}
	}
	return data
}

// OceanDataByRegion returns the ocean metrics of a region, matched exactly
func (s *MonitoringService) OceanDataByRegion(ctx context.Context, region string) []*models.OceanMetric {
	data, err := s.repo.OceanDataByRegion(ctx, region)
	if err != nil {
		s.degrade(ctx, "ocean_data_by_region", err)
		return []*models.OceanMetric{}
	}
	return data
}

// ListStations returns every monitoring station
func (s *MonitoringService) ListStations(ctx context.Context) []*models.Station {
	stations, err := s.repo.ListStations(ctx)
	if err != nil {
		s.degrade(ctx, "stations", err)
		return []*models.Station{}
	}
	return stations
}

// ListRegions returns all regions. Regions with an inverted bounding box are
// logged and still returned.
func (s *MonitoringService) ListRegions(ctx context.Context) []*models.Region {
	regions, err := s.repo.ListRegions(ctx)
	if err != nil {
		s.degrade(ctx, "regions", err)
		return []*models.Region{}
	}

	for _, r := range regions {
		if err := r.Validate(); err != nil {
			s.logger.Warn(ctx, "[REGION_INVALID] Region bounding box is inverted", logging.Fields{
				"region": r.Name,
				"error":  err.Error(),
			})
		}
	}

	return regions
}

// ListSightings returns all sightings
func (s *MonitoringService) ListSightings(ctx context.Context) []*models.Sighting {
	sightings, err := s.repo.ListSightings(ctx)
	if err != nil {
		s.degrade(ctx, "sightings", err)
		return []*models.Sighting{}
	}
	return sightings
}

// SightingStates lists states with sightings
func (s *MonitoringService) SightingStates(ctx context.Context) []string {
	states, err := s.repo.SightingStates(ctx)
	if err != nil {
		s.degrade(ctx, "sighting_states", err)
		return []string{}
	}
	return states
}

// SightingDistricts lists districts with sightings. An empty state lists the
// districts of every state.
func (s *MonitoringService) SightingDistricts(ctx context.Context, state string) []string {
	districts, err := s.repo.SightingDistricts(ctx, state)
	if err != nil {
		s.degrade(ctx, "sighting_districts", err)
		return []string{}
	}
	return districts
}

// SightingStations lists stations with sightings in a district. Both state
// and district are required; otherwise the result is empty.
func (s *MonitoringService) SightingStations(ctx context.Context, state, district string) []string {
	if state == "" || district == "" {
		return []string{}
	}

	stations, err := s.repo.SightingStations(ctx, state, district)
	if err != nil {
		s.degrade(ctx, "sighting_stations", err)
		return []string{}
	}
	return stations
}

// HealthCheck reports whether storage is reachable
func (s *MonitoringService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

func (s *MonitoringService) degrade(ctx context.Context, operation string, err error) {
	s.metrics.RecordAggregationFailure(operation)
	s.logger.Error(ctx, "[CATALOGUE_ERROR] Failed to load catalogue data", logging.Fields{
		"operation": operation,
	}, err)
}
