package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"

	"aquaguard/internal/models"
	"aquaguard/internal/services"
	"aquaguard/pkg/logging"
	"aquaguard/pkg/metrics"
)

// Banner is served at the API root
const Banner = "AquaGuard Groundwater Monitoring API"

// NotSupportedMessage is returned to clients asking for an unsupported forecast
const NotSupportedMessage = "Currently only supporting predictions for Kalyani"

// APIHandler handles the monitoring, groundwater, search and prediction endpoints
type APIHandler struct {
	groundwater *services.GroundwaterService
	search      *services.SearchService
	monitoring  *services.MonitoringService
	predictions *services.PredictionService
	clock       clockwork.Clock
	logger      *logging.StructuredLogger
	metrics     *metrics.Collector
}

// NewAPIHandler creates a new API handler. A nil clock uses real time.
func NewAPIHandler(
	groundwater *services.GroundwaterService,
	search *services.SearchService,
	monitoring *services.MonitoringService,
	predictions *services.PredictionService,
	clock clockwork.Clock,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *APIHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &APIHandler{
		groundwater: groundwater,
		search:      search,
		monitoring:  monitoring,
		predictions: predictions,
		clock:       clock,
		logger:      logger,
		metrics:     metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
	Code   int    `json:"code"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// Index handles GET /
func (h *APIHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(Banner))
}

// HealthCheck handles GET /health
func (h *APIHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := HealthResponse{
		Status:    "healthy",
		Database:  "ok",
		Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
	}
	statusCode := http.StatusOK

	if err := h.monitoring.HealthCheck(ctx); err != nil {
		h.logger.Warn(ctx, "[HEALTH_CHECK_FAILED] Database unreachable", logging.Fields{
			"error": err.Error(),
		})
		resp.Status = "unhealthy"
		resp.Database = "unavailable"
		statusCode = http.StatusServiceUnavailable
	}

	h.sendJSON(w, resp, statusCode)
}

// GetOceanData handles GET /api/ocean-data
func (h *APIHandler) GetOceanData(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, h.monitoring.ListOceanData(r.Context()), http.StatusOK)
}

// GetOceanDataByRegion handles GET /api/ocean-data/regions/{region}
func (h *APIHandler) GetOceanDataByRegion(w http.ResponseWriter, r *http.Request) {
	region := mux.Vars(r)["region"]

	h.sendJSON(w, h.monitoring.OceanDataByRegion(r.Context(), region), http.StatusOK)
}

// GetDistricts handles GET /api/districts
func (h *APIHandler) GetDistricts(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, h.monitoring.ListStations(r.Context()), http.StatusOK)
}

// GetDistrictsByState handles GET /api/districts/{state}. It lists the
// districts with sightings in the state.
func (h *APIHandler) GetDistrictsByState(w http.ResponseWriter, r *http.Request) {
	state := mux.Vars(r)["state"]
	h.sendJSON(w, h.monitoring.SightingDistricts(r.Context(), state), http.StatusOK)
}

// GetRegions handles GET /api/regions
func (h *APIHandler) GetRegions(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, h.monitoring.ListRegions(r.Context()), http.StatusOK)
}

// GetSightings handles GET /api/sightings
func (h *APIHandler) GetSightings(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, h.monitoring.ListSightings(r.Context()), http.StatusOK)
}

// GetGroundwater handles GET /api/groundwater?state=&district=
func (h *APIHandler) GetGroundwater(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result := h.groundwater.GetGroundwaterData(r.Context(), query.Get("state"), query.Get("district"))
	h.sendJSON(w, result, http.StatusOK)
}

// Search handles GET /api/search?q=
func (h *APIHandler) Search(w http.ResponseWriter, r *http.Request) {
	matches := h.search.SearchLocations(r.Context(), r.URL.Query().Get("q"))
	h.sendJSON(w, matches, http.StatusOK)
}

// GetSearchStates handles GET /api/search/states
func (h *APIHandler) GetSearchStates(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, h.monitoring.SightingStates(r.Context()), http.StatusOK)
}

// GetSearchDistricts handles GET /api/search/districts?state=. Without a
// state it falls back to the full station list.
func (h *APIHandler) GetSearchDistricts(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		h.sendJSON(w, h.monitoring.ListStations(r.Context()), http.StatusOK)
		return
	}
	h.sendJSON(w, h.monitoring.SightingDistricts(r.Context(), state), http.StatusOK)
}

// GetSearchStations handles GET /api/search/stations?state=&district=
func (h *APIHandler) GetSearchStations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	stations := h.monitoring.SightingStations(r.Context(), query.Get("state"), query.Get("district"))
	h.sendJSON(w, stations, http.StatusOK)
}

// Predict handles GET /api/predict/{city}
func (h *APIHandler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	city := mux.Vars(r)["city"]

	result, err := h.predictions.Predict(ctx, city)
	if err != nil {
		if errors.Is(err, services.ErrNotSupported) {
			h.metrics.RecordAPIError("not_supported", "/api/predict/{city}")
			h.sendError(w, r, NotSupportedMessage, http.StatusBadRequest)
			return
		}
		h.metrics.RecordAPIError("internal_error", "/api/predict/{city}")
		h.sendError(w, r, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := models.PredictionResponse{
		Predictions: result,
		Plots:       h.predictions.Render(ctx, result),
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// sendJSON sends a JSON response
func (h *APIHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *APIHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.logger.Debug(r.Context(), "[API_ERROR] Request failed", logging.Fields{
		"path":   r.URL.Path,
		"status": statusCode,
		"error":  message,
	})

	response := ErrorResponse{
		Error:  message,
		Status: http.StatusText(statusCode),
		Code:   statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all API routes
func (h *APIHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Index).Methods(http.MethodGet)
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/ocean-data", h.GetOceanData).Methods(http.MethodGet)
	api.HandleFunc("/ocean-data/regions/{region}", h.GetOceanDataByRegion).Methods(http.MethodGet)
	api.HandleFunc("/districts", h.GetDistricts).Methods(http.MethodGet)
	api.HandleFunc("/districts/{state}", h.GetDistrictsByState).Methods(http.MethodGet)
	api.HandleFunc("/regions", h.GetRegions).Methods(http.MethodGet)
	api.HandleFunc("/sightings", h.GetSightings).Methods(http.MethodGet)
	api.HandleFunc("/groundwater", h.GetGroundwater).Methods(http.MethodGet)
	api.HandleFunc("/search", h.Search).Methods(http.MethodGet)
	api.HandleFunc("/search/states", h.GetSearchStates).Methods(http.MethodGet)
	api.HandleFunc("/search/districts", h.GetSearchDistricts).Methods(http.MethodGet)
	api.HandleFunc("/search/stations", h.GetSearchStations).Methods(http.MethodGet)
	api.HandleFunc("/predict/{city}", h.Predict).Methods(http.MethodGet)
	api.HandleFunc("/docs", SwaggerUI).Methods(http.MethodGet)
	api.HandleFunc("/docs/openapi.json", OpenAPISpec).Methods(http.MethodGet)
}

// NewRouter wires routes, middleware and an optional metrics endpoint
func NewRouter(h *APIHandler, metricsHandler http.Handler) http.Handler {
	router := mux.NewRouter()
	router.Use(RequestID, Instrument(h.metrics, h.logger))

	h.RegisterRoutes(router)
	if metricsHandler != nil {
		router.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}

	return CORS(router)
}
