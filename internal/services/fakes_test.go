package services

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"aquaguard/internal/models"
	"aquaguard/internal/repository"
	"aquaguard/pkg/logging"
	"aquaguard/pkg/metrics"
)

var errStorage = errors.New("connection refused")

// fakeRepository is an in-memory MonitoringRepository. Setting err makes
// every call fail.
type fakeRepository struct {
	groundwater []*models.GroundwaterRow
	sightings   []*models.Sighting
	regions     []*models.Region
	stations    []*models.Station
	ocean       []*models.OceanMetric
	err         error

	rowCalls int
}

var _ repository.MonitoringRepository = (*fakeRepository)(nil)

func (f *fakeRepository) GroundwaterStates(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return distinct(len(f.groundwater), func(i int) (string, bool) {
		return f.groundwater[i].StateName, true
	}), nil
}

func (f *fakeRepository) GroundwaterDistricts(ctx context.Context, state string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return distinct(len(f.groundwater), func(i int) (string, bool) {
		return f.groundwater[i].DistrictName, f.groundwater[i].StateName == state
	}), nil
}

func (f *fakeRepository) GroundwaterRows(ctx context.Context, state, district string) ([]*models.GroundwaterRow, error) {
	f.rowCalls++
	if f.err != nil {
		return nil, f.err
	}
	rows := []*models.GroundwaterRow{}
	for _, r := range f.groundwater {
		if r.StateName == state && r.DistrictName == district {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func (f *fakeRepository) SearchGroundwaterStates(ctx context.Context, pattern string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	needle := strings.ToLower(strings.Trim(pattern, "%"))
	return distinct(len(f.groundwater), func(i int) (string, bool) {
		name := f.groundwater[i].StateName
		return name, strings.Contains(strings.ToLower(name), needle)
	}), nil
}

func (f *fakeRepository) SearchGroundwaterDistricts(ctx context.Context, pattern string) ([]models.DistrictRef, error) {
	if f.err != nil {
		return nil, f.err
	}
	needle := strings.ToLower(strings.Trim(pattern, "%"))
	seen := map[models.DistrictRef]bool{}
	refs := []models.DistrictRef{}
	for _, r := range f.groundwater {
		ref := models.DistrictRef{Name: r.DistrictName, State: r.StateName}
		if seen[ref] || !strings.Contains(strings.ToLower(ref.Name), needle) {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs, nil
}

func (f *fakeRepository) ListOceanData(ctx context.Context) ([]*models.OceanMetric, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ocean, nil
}

func (f *fakeRepository) OceanDataByRegion(ctx context.Context, region string) ([]*models.OceanMetric, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*models.OceanMetric{}
	for _, m := range f.ocean {
		if m.Region == region {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListStations(ctx context.Context) ([]*models.Station, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stations, nil
}

func (f *fakeRepository) ListRegions(ctx context.Context) ([]*models.Region, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.regions, nil
}

func (f *fakeRepository) ListSightings(ctx context.Context) ([]*models.Sighting, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sightings, nil
}

func (f *fakeRepository) SightingStates(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return distinct(len(f.sightings), func(i int) (string, bool) {
		return f.sightings[i].StateName, true
	}), nil
}

func (f *fakeRepository) SightingDistricts(ctx context.Context, state string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return distinct(len(f.sightings), func(i int) (string, bool) {
		return f.sightings[i].DistrictName, state == "" || f.sightings[i].StateName == state
	}), nil
}

func (f *fakeRepository) SightingStations(ctx context.Context, state, district string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return distinct(len(f.sightings), func(i int) (string, bool) {
		s := f.sightings[i]
		if s.StationName == nil {
			return "", false
		}
		return *s.StationName, s.StateName == state && s.DistrictName == district
	}), nil
}

func (f *fakeRepository) HealthCheck(ctx context.Context) error {
	return f.err
}

func distinct(n int, at func(int) (string, bool)) []string {
	seen := map[string]bool{}
	out := []string{}
	for i := 0; i < n; i++ {
		v, ok := at(i)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// fakeModel returns a fixed output or error and records the features it saw
type fakeModel struct {
	output   []float64
	err      error
	features []float64
}

func (m *fakeModel) Predict(ctx context.Context, features []float64) ([]float64, error) {
	m.features = features
	return m.output, m.err
}

type fakeRenderer struct {
	plots *models.Plots
	err   error
}

func (r *fakeRenderer) Render(ctx context.Context, result *models.PredictionResult) (*models.Plots, error) {
	return r.plots, r.err
}

func newTestDeps() (*logging.StructuredLogger, *metrics.Collector) {
	return logging.NewNopLogger(), metrics.NewCollector("test", prometheus.NewRegistry())
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
