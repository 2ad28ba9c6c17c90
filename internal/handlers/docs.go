package handlers

import (
	"encoding/json"
	"net/http"
)

type object = map[string]interface{}

func queryParam(name, description string, required bool) object {
	return object{
		"name":        name,
		"in":          "query",
		"description": description,
		"required":    required,
		"schema":      object{"type": "string"},
	}
}

func pathParam(name, description string) object {
	return object{
		"name":        name,
		"in":          "path",
		"description": description,
		"required":    true,
		"schema":      object{"type": "string"},
	}
}

func ref(schema string) object {
	return object{"$ref": "#/components/schemas/" + schema}
}

func arrayOf(schema string) object {
	return object{"type": "array", "items": ref(schema)}
}

func jsonResponse(description string, schema object) object {
	return object{
		"description": description,
		"content": object{
			"application/json": object{"schema": schema},
		},
	}
}

func getOperation(tag, summary string, params []object, responses object) object {
	op := object{
		"tags":      []string{tag},
		"summary":   summary,
		"responses": responses,
	}
	if len(params) > 0 {
		op["parameters"] = params
	}
	return object{"get": op}
}

func ok(schema object) object {
	return object{"200": jsonResponse("Successful response", schema)}
}

func openAPIDocument() object {
	errorResponse := func(description string) object {
		return jsonResponse(description, ref("Error"))
	}

	paths := object{
		"/health": getOperation("system", "Service and database health", nil, object{
			"200": jsonResponse("Healthy", ref("Health")),
			"503": jsonResponse("Database unavailable", ref("Health")),
		}),
		"/api/ocean-data": getOperation("ocean", "List ocean metrics with their points", nil,
			ok(arrayOf("OceanMetric"))),
		"/api/ocean-data/regions/{region}": getOperation("ocean", "Ocean metrics for one region",
			[]object{pathParam("region", "Region key such as maharashtra, matched exactly")},
			ok(arrayOf("OceanMetric"))),
		"/api/districts": getOperation("stations", "List monitoring stations", nil,
			ok(arrayOf("Station"))),
		"/api/districts/{state}": getOperation("sightings", "Districts with sightings in a state",
			[]object{pathParam("state", "State name, matched exactly")},
			ok(object{"type": "array", "items": object{"type": "string"}})),
		"/api/regions": getOperation("stations", "List bounding-box regions", nil,
			ok(arrayOf("Region"))),
		"/api/sightings": getOperation("sightings", "List sightings", nil,
			ok(arrayOf("Sighting"))),
		"/api/groundwater": getOperation("groundwater", "Groundwater readings nested by state and district",
			[]object{
				queryParam("state", "Restrict to one state", false),
				queryParam("district", "Restrict to one district; ignored without state", false),
			},
			ok(object{"type": "object", "additionalProperties": true})),
		"/api/search": getOperation("search", "Search states and districts by substring",
			[]object{queryParam("q", "Case-insensitive substring", false)},
			ok(arrayOf("LocationMatch"))),
		"/api/search/states": getOperation("search", "States with sightings", nil,
			ok(object{"type": "array", "items": object{"type": "string"}})),
		"/api/search/districts": getOperation("search", "Districts with sightings in a state, or every monitoring station without one",
			[]object{queryParam("state", "State name; when omitted the response is the station list", false)},
			ok(object{"oneOf": []object{
				{"type": "array", "items": object{"type": "string"}},
				arrayOf("Station"),
			}})),
		"/api/search/stations": getOperation("search", "Stations with sightings in a district",
			[]object{
				queryParam("state", "State name", true),
				queryParam("district", "District name", true),
			},
			ok(object{"type": "array", "items": object{"type": "string"}})),
		"/api/predict/{city}": getOperation("predictions", "Water quality and recharge forecast",
			[]object{pathParam("city", "Station name; only Kalyani is supported")},
			object{
				"200": jsonResponse("Successful response", ref("PredictionResponse")),
				"400": errorResponse("Station not supported"),
				"500": errorResponse("Model failure"),
			}),
	}

	number := object{"type": "number"}
	str := object{"type": "string"}
	rangeRef := ref("Range")

	schemas := object{
		"Error": object{"type": "object", "properties": object{
			"error": str, "status": str, "code": object{"type": "integer"},
		}},
		"Health": object{"type": "object", "properties": object{
			"status": str, "database": str, "timestamp": object{"type": "string", "format": "date-time"},
		}},
		"OceanPoint": object{"type": "object", "properties": object{
			"id": object{"type": "integer"}, "ocean_data_id": object{"type": "integer"},
			"latitude": number, "longitude": number, "value": number,
		}},
		"OceanMetric": object{"type": "object", "properties": object{
			"id": object{"type": "integer"}, "region": str,
			"data_type": object{"type": "string", "enum": []string{"temperature", "salinity", "ph"}},
			"min_value": number, "max_value": number,
			"points": arrayOf("OceanPoint"),
		}},
		"Station": object{"type": "object", "properties": object{
			"id": str, "color": str, "agency_name": str, "state_name": str, "district_name": str,
			"tahsil_name": str, "station_name": str, "latitude": number, "longitude": number,
			"station_type": str, "station_status": str,
		}},
		"Region": object{"type": "object", "properties": object{
			"id": object{"type": "integer"}, "name": str,
			"sw_lat": number, "sw_lng": number, "ne_lat": number, "ne_lng": number,
			"center_lat": number, "center_lng": number,
		}},
		"Sighting": object{"type": "object", "properties": object{
			"id": str, "state_name": str, "district_name": str, "station_name": str,
			"latitude": number, "longitude": number, "temperature": number, "ph": number, "salinity": number,
		}},
		"LocationMatch": object{"type": "object", "properties": object{
			"name": str, "type": object{"type": "string", "enum": []string{"state", "district"}}, "parent": str,
		}},
		"Range": object{"type": "object", "properties": object{"min": number, "max": number}},
		"PredictionResponse": object{"type": "object", "properties": object{
			"predictions": object{"type": "object", "properties": object{
				"temperature":  rangeRef,
				"pH":           rangeRef,
				"conductivity": rangeRef,
				"recharge": object{"type": "object", "properties": object{
					"volume": number, "percentage": number,
				}},
			}},
			"plots": object{"type": "object", "properties": object{"plot_2d": str, "plot_3d": str}},
		}},
	}

	return object{
		"openapi": "3.0.0",
		"info": object{
			"title":       "AquaGuard API",
			"description": "Groundwater, ocean and station monitoring with water quality forecasts",
			"version":     "1.0.0",
		},
		"servers": []object{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths":      paths,
		"components": object{"schemas": schemas},
	}
}

// OpenAPISpec returns the OpenAPI 3.0 document for the AquaGuard API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(openAPIDocument())
}
