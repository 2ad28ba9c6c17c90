package services

import (
	"context"

	"aquaguard/internal/models"
	"aquaguard/internal/repository"
	"aquaguard/pkg/logging"
	"aquaguard/pkg/metrics"
)

// SearchService matches free text against state and district names
type SearchService struct {
	repo    repository.MonitoringRepository
	logger  *logging.ContextLogger
	metrics *metrics.Collector
}

// NewSearchService creates a new search service
func NewSearchService(repo repository.MonitoringRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *SearchService {
	return &SearchService{
		repo:    repo,
		logger:  logger.WithFields(logging.Fields{"component": "search_service"}),
		metrics: metricsCollector,
	}
}

// SearchLocations returns matching states followed by matching districts.
// Matching is a case-insensitive substring match, so an empty query matches
// everything. Storage failures are logged and produce an empty slice.
func (s *SearchService) SearchLocations(ctx context.Context, query string) []models.LocationMatch {
	pattern := "%" + query + "%"

	states, err := s.repo.SearchGroundwaterStates(ctx, pattern)
	if err != nil {
		return s.degrade(ctx, query, err)
	}

	districts, err := s.repo.SearchGroundwaterDistricts(ctx, pattern)
	if err != nil {
		return s.degrade(ctx, query, err)
	}

	matches := make([]models.LocationMatch, 0, len(states)+len(districts))
	for _, state := range states {
		matches = append(matches, models.LocationMatch{
			Name: state,
			Type: models.LocationState,
		})
	}
	for _, d := range districts {
		matches = append(matches, models.LocationMatch{
			Name:   d.Name,
			Type:   models.LocationDistrict,
			Parent: d.State,
		})
	}

	s.metrics.SearchResults.Observe(float64(len(matches)))
	s.logger.Debug(ctx, "[SEARCH] Locations matched", logging.Fields{
		"query":     query,
		"states":    len(states),
		"districts": len(districts),
	})

	return matches
}

func (s *SearchService) degrade(ctx context.Context, query string, err error) []models.LocationMatch {
	s.metrics.RecordAggregationFailure("search")
	s.logger.Error(ctx, "[SEARCH_ERROR] Failed to search locations", logging.Fields{
		"query": query,
	}, err)
	return []models.LocationMatch{}
}
