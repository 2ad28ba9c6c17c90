package models

import "fmt"

// Ocean metric types
const (
	OceanTemperature = "temperature"
	OceanSalinity    = "salinity"
	OceanPH          = "ph"
)

// OceanMetric is a coastal-water parameter range for a region together with
// its sampled points
type OceanMetric struct {
	ID       int64        `json:"id" db:"id"`
	Region   string       `json:"region" db:"region"`
	DataType string       `json:"data_type" db:"data_type"`
	MinValue *float64     `json:"min_value" db:"min_value"`
	MaxValue *float64     `json:"max_value" db:"max_value"`
	Points   []OceanPoint `json:"points" db:"-"`
}

// OceanPoint is a single sample belonging to exactly one OceanMetric
type OceanPoint struct {
	ID          int64   `json:"id" db:"id"`
	OceanDataID int64   `json:"ocean_data_id" db:"ocean_data_id"`
	Latitude    float64 `json:"latitude" db:"latitude"`
	Longitude   float64 `json:"longitude" db:"longitude"`
	Value       float64 `json:"value" db:"value"`
}

// Station is a monitoring point from the districts table
type Station struct {
	ID            string   `json:"id" db:"id"`
	Color         *string  `json:"color" db:"color"`
	AgencyName    *string  `json:"agency_name" db:"agency_name"`
	StateName     string   `json:"state_name" db:"state_name"`
	DistrictName  string   `json:"district_name" db:"district_name"`
	TahsilName    *string  `json:"tahsil_name" db:"tahsil_name"`
	StationName   *string  `json:"station_name" db:"station_name"`
	Latitude      *float64 `json:"latitude" db:"latitude"`
	Longitude     *float64 `json:"longitude" db:"longitude"`
	StationType   *string  `json:"station_type" db:"station_type"`
	StationStatus *string  `json:"station_status" db:"station_status"`
}

// Region is a named bounding box with a map center
type Region struct {
	ID        int64    `json:"id" db:"id"`
	Name      string   `json:"name" db:"name"`
	SWLat     *float64 `json:"sw_lat" db:"sw_lat"`
	SWLng     *float64 `json:"sw_lng" db:"sw_lng"`
	NELat     *float64 `json:"ne_lat" db:"ne_lat"`
	NELng     *float64 `json:"ne_lng" db:"ne_lng"`
	CenterLat *float64 `json:"center_lat" db:"center_lat"`
	CenterLng *float64 `json:"center_lng" db:"center_lng"`
}

// Validate checks that the south-west corner does not exceed the north-east
// corner. Missing coordinates are not an error.
func (r *Region) Validate() error {
	if r.SWLat != nil && r.NELat != nil && *r.SWLat > *r.NELat {
		return &ValidationError{
			Field:   "sw_lat",
			Value:   fmt.Sprintf("%g", *r.SWLat),
			Message: fmt.Sprintf("region %s: sw_lat %g exceeds ne_lat %g", r.Name, *r.SWLat, *r.NELat),
		}
	}
	if r.SWLng != nil && r.NELng != nil && *r.SWLng > *r.NELng {
		return &ValidationError{
			Field:   "sw_lng",
			Value:   fmt.Sprintf("%g", *r.SWLng),
			Message: fmt.Sprintf("region %s: sw_lng %g exceeds ne_lng %g", r.Name, *r.SWLng, *r.NELng),
		}
	}
	return nil
}

// Sighting is a single water-quality observation snapshot
type Sighting struct {
	ID           string   `json:"id" db:"id"`
	StateName    string   `json:"state_name" db:"state_name"`
	DistrictName string   `json:"district_name" db:"district_name"`
	StationName  *string  `json:"station_name" db:"station_name"`
	Latitude     *float64 `json:"latitude" db:"latitude"`
	Longitude    *float64 `json:"longitude" db:"longitude"`
	Temperature  *float64 `json:"temperature" db:"temperature"`
	PH           *float64 `json:"ph" db:"ph"`
	Salinity     *float64 `json:"salinity" db:"salinity"`
}

// Location match types
const (
	LocationState    = "state"
	LocationDistrict = "district"
)

// LocationMatch is one search hit. Parent is set for districts only.
type LocationMatch struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Parent string `json:"parent,omitempty"`
}

// DistrictRef names a district together with its state
type DistrictRef struct {
	Name  string `db:"name"`
	State string `db:"state_name"`
}
