package repository

import (
	"context"
	"fmt"
	"strings"

	"aquaguard/internal/models"
	"aquaguard/pkg/database"
	"aquaguard/pkg/logging"
	"aquaguard/pkg/metrics"
)

// MonitoringRepository provides read access to groundwater and coastal
// monitoring data
type MonitoringRepository interface {
	// Groundwater operations
	GroundwaterStates(ctx context.Context) ([]string, error)
	GroundwaterDistricts(ctx context.Context, state string) ([]string, error)
	GroundwaterRows(ctx context.Context, state, district string) ([]*models.GroundwaterRow, error)

	// Search operations, pattern is a LIKE pattern matched case-insensitively
	SearchGroundwaterStates(ctx context.Context, pattern string) ([]string, error)
	SearchGroundwaterDistricts(ctx context.Context, pattern string) ([]models.DistrictRef, error)

	// Ocean operations
	ListOceanData(ctx context.Context) ([]*models.OceanMetric, error)
	OceanDataByRegion(ctx context.Context, region string) ([]*models.OceanMetric, error)

	// Station and region operations
	ListStations(ctx context.Context) ([]*models.Station, error)
	ListRegions(ctx context.Context) ([]*models.Region, error)

	// Sighting operations
	ListSightings(ctx context.Context) ([]*models.Sighting, error)
	SightingStates(ctx context.Context) ([]string, error)
	SightingDistricts(ctx context.Context, state string) ([]string, error)
	SightingStations(ctx context.Context, state, district string) ([]string, error)

	// Utility operations
	HealthCheck(ctx context.Context) error
}

// monitoringRepository implements MonitoringRepository
type monitoringRepository struct {
	db      *database.DB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewMonitoringRepository creates a new monitoring repository
func NewMonitoringRepository(db *database.DB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) MonitoringRepository {
	return &monitoringRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

const groundwaterColumns = `
	id, state_name, district_name, city_name, year, level, quality,
	latitude, longitude, color, rainfall, annual_extractable,
	current_extraction, ground_water_recharge, natural_discharges,
	extraction_percentage, historical_levels, monthly_rainfall`

// GroundwaterStates lists the distinct states present in the groundwater table
func (r *monitoringRepository) GroundwaterStates(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT state_name
		FROM groundwater
		ORDER BY state_name
	`

	states := []string{}
	if err := r.db.SelectContext(ctx, "groundwater_states", &states, query); err != nil {
		return nil, fmt.Errorf("failed to list groundwater states: %w", err)
	}

	return states, nil
}

// GroundwaterDistricts lists the distinct districts of a state
func (r *monitoringRepository) GroundwaterDistricts(ctx context.Context, state string) ([]string, error) {
	query := `
		SELECT DISTINCT district_name
		FROM groundwater
		WHERE state_name = ?
		ORDER BY district_name
	`

	districts := []string{}
	if err := r.db.SelectContext(ctx, "groundwater_districts", &districts, query, state); err != nil {
		return nil, fmt.Errorf("failed to list districts for %s: %w", state, err)
	}

	return districts, nil
}

// GroundwaterRows returns every row for a (state, district) pair in storage order
func (r *monitoringRepository) GroundwaterRows(ctx context.Context, state, district string) ([]*models.GroundwaterRow, error) {
	query := `SELECT` + groundwaterColumns + `
		FROM groundwater
		WHERE state_name = ? AND district_name = ?
		ORDER BY id
	`

	rows := []*models.GroundwaterRow{}
	if err := r.db.SelectContext(ctx, "groundwater_rows", &rows, query, state, district); err != nil {
		return nil, fmt.Errorf("failed to get groundwater rows for %s/%s: %w", state, district, err)
	}

	r.logger.Debug(ctx, "[REPO_GROUNDWATER_ROWS] Rows loaded", logging.Fields{
		"state":    state,
		"district": district,
		"count":    len(rows),
	})

	return rows, nil
}

// SearchGroundwaterStates returns distinct states whose name matches pattern
func (r *monitoringRepository) SearchGroundwaterStates(ctx context.Context, pattern string) ([]string, error) {
	query := `
		SELECT DISTINCT state_name
		FROM groundwater
		WHERE LOWER(state_name) LIKE LOWER(?)
		ORDER BY state_name
	`

	states := []string{}
	if err := r.db.SelectContext(ctx, "search_states", &states, query, pattern); err != nil {
		return nil, fmt.Errorf("failed to search states: %w", err)
	}

	return states, nil
}

// SearchGroundwaterDistricts returns distinct (district, state) pairs whose
// district name matches pattern
func (r *monitoringRepository) SearchGroundwaterDistricts(ctx context.Context, pattern string) ([]models.DistrictRef, error) {
	query := `
		SELECT DISTINCT district_name AS name, state_name
		FROM groundwater
		WHERE LOWER(district_name) LIKE LOWER(?)
		ORDER BY state_name, name
	`

	districts := []models.DistrictRef{}
	if err := r.db.SelectContext(ctx, "search_districts", &districts, query, pattern); err != nil {
		return nil, fmt.Errorf("failed to search districts: %w", err)
	}

	return districts, nil
}

// ListOceanData returns all ocean metrics with their points attached
func (r *monitoringRepository) ListOceanData(ctx context.Context) ([]*models.OceanMetric, error) {
	query := `
		SELECT id, region, data_type, min_value, max_value
		FROM ocean_data
		ORDER BY id
	`

	oceanData := []*models.OceanMetric{}
	if err := r.db.SelectContext(ctx, "list_ocean_data", &oceanData, query); err != nil {
		return nil, fmt.Errorf("failed to list ocean data: %w", err)
	}

	if err := r.attachPoints(ctx, oceanData); err != nil {
		return nil, err
	}

	return oceanData, nil
}

// OceanDataByRegion returns the ocean metrics of one region, matched exactly.
// An unknown region yields an empty slice.
func (r *monitoringRepository) OceanDataByRegion(ctx context.Context, region string) ([]*models.OceanMetric, error) {
	query := `
		SELECT id, region, data_type, min_value, max_value
		FROM ocean_data
		WHERE region = ?
		ORDER BY id
	`

	oceanData := []*models.OceanMetric{}
	if err := r.db.SelectContext(ctx, "ocean_data_by_region", &oceanData, query, region); err != nil {
		return nil, fmt.Errorf("failed to get ocean data for %s: %w", region, err)
	}

	if err := r.attachPoints(ctx, oceanData); err != nil {
		return nil, err
	}

	return oceanData, nil
}

// attachPoints loads the points of all given metrics in a single query
func (r *monitoringRepository) attachPoints(ctx context.Context, oceanData []*models.OceanMetric) error {
	if len(oceanData) == 0 {
		return nil
	}

	byID := make(map[int64]*models.OceanMetric, len(oceanData))
	placeholders := make([]string, 0, len(oceanData))
	args := make([]interface{}, 0, len(oceanData))
	for _, m := range oceanData {
		m.Points = []models.OceanPoint{}
		byID[m.ID] = m
		placeholders = append(placeholders, "?")
		args = append(args, m.ID)
	}

	query := `
		SELECT id, ocean_data_id, latitude, longitude, value
		FROM ocean_data_points
		WHERE ocean_data_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY ocean_data_id, id
	`

	var points []models.OceanPoint
	if err := r.db.SelectContext(ctx, "ocean_data_points", &points, query, args...); err != nil {
		return fmt.Errorf("failed to load ocean data points: %w", err)
	}

	for _, p := range points {
		if m, ok := byID[p.OceanDataID]; ok {
			m.Points = append(m.Points, p)
		}
	}

	return nil
}

// ListStations returns every monitoring station
func (r *monitoringRepository) ListStations(ctx context.Context) ([]*models.Station, error) {
	query := `
		SELECT id, color, agency_name, state_name, district_name, tahsil_name,
			station_name, latitude, longitude, station_type, station_status
		FROM districts
		ORDER BY id
	`

	stations := []*models.Station{}
	if err := r.db.SelectContext(ctx, "list_stations", &stations, query); err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}

	return stations, nil
}

// ListRegions returns all map regions
func (r *monitoringRepository) ListRegions(ctx context.Context) ([]*models.Region, error) {
	query := `
		SELECT id, name, sw_lat, sw_lng, ne_lat, ne_lng, center_lat, center_lng
		FROM regions
		ORDER BY id
	`

	regions := []*models.Region{}
	if err := r.db.SelectContext(ctx, "list_regions", &regions, query); err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}

	return regions, nil
}

// ListSightings returns all water-quality sightings
func (r *monitoringRepository) ListSightings(ctx context.Context) ([]*models.Sighting, error) {
	query := `
		SELECT id, state_name, district_name, station_name, latitude, longitude,
			temperature, ph, salinity
		FROM sightings
		ORDER BY id
	`

	sightings := []*models.Sighting{}
	if err := r.db.SelectContext(ctx, "list_sightings", &sightings, query); err != nil {
		return nil, fmt.Errorf("failed to list sightings: %w", err)
	}

	return sightings, nil
}

// SightingStates lists the distinct states with sightings
func (r *monitoringRepository) SightingStates(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT state_name
		FROM sightings
		ORDER BY state_name
	`

	states := []string{}
	if err := r.db.SelectContext(ctx, "sighting_states", &states, query); err != nil {
		return nil, fmt.Errorf("failed to list sighting states: %w", err)
	}

	return states, nil
}

// SightingDistricts lists the distinct districts with sightings, optionally
// limited to one state
func (r *monitoringRepository) SightingDistricts(ctx context.Context, state string) ([]string, error) {
	query := `SELECT DISTINCT district_name FROM sightings`
	var args []interface{}
	if state != "" {
		query += ` WHERE state_name = ?`
		args = append(args, state)
	}
	query += ` ORDER BY district_name`

	districts := []string{}
	if err := r.db.SelectContext(ctx, "sighting_districts", &districts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list sighting districts: %w", err)
	}

	return districts, nil
}

// SightingStations lists the distinct station names with sightings, filtered
// by state and district when given
func (r *monitoringRepository) SightingStations(ctx context.Context, state, district string) ([]string, error) {
	query := `SELECT DISTINCT station_name FROM sightings WHERE station_name IS NOT NULL`
	var args []interface{}
	if state != "" {
		query += ` AND state_name = ?`
		args = append(args, state)
	}
	if district != "" {
		query += ` AND district_name = ?`
		args = append(args, district)
	}
	query += ` ORDER BY station_name`

	stations := []string{}
	if err := r.db.SelectContext(ctx, "sighting_stations", &stations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list sighting stations: %w", err)
	}

	return stations, nil
}

// HealthCheck performs a health check on the repository
func (r *monitoringRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}
