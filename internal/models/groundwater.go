package models

import (
	"encoding/json"
	"strings"
)

// GroundwaterFieldNames maps groundwater storage columns to the field names
// used in API responses. The client depends on these names; changing one is
// a breaking API change.
var GroundwaterFieldNames = []FieldName{
	{Column: "id", Response: "id"},
	{Column: "year", Response: "year"},
	{Column: "level", Response: "level"},
	{Column: "quality", Response: "quality"},
	{Column: "latitude", Response: "latitude"},
	{Column: "longitude", Response: "longitude"},
	{Column: "color", Response: "color"},
	{Column: "rainfall", Response: "rainfall"},
	{Column: "annual_extractable", Response: "annualExtractable"},
	{Column: "current_extraction", Response: "groundWaterExtraction"},
	{Column: "ground_water_recharge", Response: "groundWaterRecharge"},
	{Column: "natural_discharges", Response: "naturalDischarges"},
	{Column: "extraction_percentage", Response: "extraction"},
	{Column: "historical_levels", Response: "historicalLevels"},
	{Column: "monthly_rainfall", Response: "monthlyRainfall"},
}

// FieldName pairs a storage column with its response field
type FieldName struct {
	Column   string
	Response string
}

// ResponseField returns the response name for a storage column
func ResponseField(column string) (string, bool) {
	for _, f := range GroundwaterFieldNames {
		if f.Column == column {
			return f.Response, true
		}
	}
	return "", false
}

// GroundwaterRow is one row of the groundwater table as stored.
// Nullable columns are pointers.
type GroundwaterRow struct {
	ID                   int64    `db:"id"`
	StateName            string   `db:"state_name"`
	DistrictName         string   `db:"district_name"`
	CityName             *string  `db:"city_name"`
	Year                 *int     `db:"year"`
	Level                *float64 `db:"level"`
	Quality              *string  `db:"quality"`
	Latitude             *float64 `db:"latitude"`
	Longitude            *float64 `db:"longitude"`
	Color                *string  `db:"color"`
	Rainfall             *float64 `db:"rainfall"`
	AnnualExtractable    *float64 `db:"annual_extractable"`
	CurrentExtraction    *float64 `db:"current_extraction"`
	GroundWaterRecharge  *float64 `db:"ground_water_recharge"`
	NaturalDischarges    *float64 `db:"natural_discharges"`
	ExtractionPercentage *float64 `db:"extraction_percentage"`
	HistoricalLevels     *string  `db:"historical_levels"`
	MonthlyRainfall      *string  `db:"monthly_rainfall"`
}

// HasCity reports whether the row is a city-level record
func (r *GroundwaterRow) HasCity() bool {
	return r.CityName != nil && *r.CityName != ""
}

// GroundwaterRecord is a groundwater row reshaped for API responses.
// JSON names follow GroundwaterFieldNames. The series columns hold the stored
// JSON verbatim, nulls and extra keys included.
type GroundwaterRecord struct {
	ID                    int64             `json:"id"`
	Year                  *int              `json:"year"`
	Level                 *float64          `json:"level"`
	Quality               *string           `json:"quality"`
	Latitude              *float64          `json:"latitude"`
	Longitude             *float64          `json:"longitude"`
	Color                 *string           `json:"color"`
	Rainfall              *float64          `json:"rainfall"`
	AnnualExtractable     *float64          `json:"annualExtractable"`
	GroundWaterExtraction *float64          `json:"groundWaterExtraction"`
	GroundWaterRecharge   *float64          `json:"groundWaterRecharge"`
	NaturalDischarges     *float64          `json:"naturalDischarges"`
	Extraction            *float64          `json:"extraction"`
	HistoricalLevels      json.RawMessage   `json:"historicalLevels,omitempty"`
	MonthlyRainfall       json.RawMessage   `json:"monthlyRainfall,omitempty"`
}

// ToRecord reshapes the row into its response form. The embedded JSON
// columns are checked for validity and passed through unchanged. NULL or
// blank JSON columns are left out of the record. A malformed JSON column is
// also left out and reported as a *ValidationError; the record is returned in
// every case.
func (r *GroundwaterRow) ToRecord() (*GroundwaterRecord, error) {
	rec := &GroundwaterRecord{
		ID:                    r.ID,
		Year:                  r.Year,
		Level:                 r.Level,
		Quality:               r.Quality,
		Latitude:              r.Latitude,
		Longitude:             r.Longitude,
		Color:                 r.Color,
		Rainfall:              r.Rainfall,
		AnnualExtractable:     r.AnnualExtractable,
		GroundWaterExtraction: r.CurrentExtraction,
		GroundWaterRecharge:   r.GroundWaterRecharge,
		NaturalDischarges:     r.NaturalDischarges,
		Extraction:            r.ExtractionPercentage,
	}

	var firstErr error
	var err error
	if rec.HistoricalLevels, err = rawSeries("historical_levels", r.HistoricalLevels); err != nil {
		firstErr = err
	}
	if rec.MonthlyRainfall, err = rawSeries("monthly_rainfall", r.MonthlyRainfall); err != nil && firstErr == nil {
		firstErr = err
	}

	return rec, firstErr
}

func rawSeries(column string, stored *string) (json.RawMessage, error) {
	raw, ok := nonBlank(stored)
	if !ok {
		return nil, nil
	}
	if !json.Valid([]byte(raw)) {
		return nil, &ValidationError{Field: column, Value: raw, Message: "invalid " + column + " JSON"}
	}
	return json.RawMessage(raw), nil
}

func nonBlank(s *string) (string, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "", false
	}
	return *s, true
}

// DistrictValue is the aggregated groundwater value for one (state, district)
// pair: either a single district-level record or a map of city-level records.
type DistrictValue struct {
	District *GroundwaterRecord
	Cities   map[string]*GroundwaterRecord
}

// DistrictLevel wraps a single district-level record
func DistrictLevel(rec *GroundwaterRecord) DistrictValue {
	return DistrictValue{District: rec}
}

// CityLevel wraps city-level records keyed by city name
func CityLevel(cities map[string]*GroundwaterRecord) DistrictValue {
	if cities == nil {
		cities = map[string]*GroundwaterRecord{}
	}
	return DistrictValue{Cities: cities}
}

// IsCityLevel reports whether the value holds city-level records
func (v DistrictValue) IsCityLevel() bool {
	return v.District == nil
}

// MarshalJSON encodes the record itself or the city map; an empty value is {}
func (v DistrictValue) MarshalJSON() ([]byte, error) {
	if v.District != nil {
		return json.Marshal(v.District)
	}
	if v.Cities == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v.Cities)
}

// DistrictMap holds the district values of one state
type DistrictMap map[string]DistrictValue

// GroundwaterResult is the nested state -> district -> value response
type GroundwaterResult map[string]DistrictMap
