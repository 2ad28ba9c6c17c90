package models

// Range is a predicted min/max pair
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RechargeEstimate is the recharge potential derived from water quality
type RechargeEstimate struct {
	VolumeMCM  float64 `json:"volume"`
	Percentage float64 `json:"percentage"`
}

// Plots holds base64 encoded PNG charts produced by a renderer
type Plots struct {
	Plot2D string `json:"plot_2d"`
	Plot3D string `json:"plot_3d"`
}

// PredictionResult is computed per request and never stored
type PredictionResult struct {
	Temperature  Range            `json:"temperature"`
	PH           Range            `json:"pH"`
	Conductivity Range            `json:"conductivity"`
	Recharge     RechargeEstimate `json:"recharge"`
}

// PredictionResponse is the API envelope for a prediction
type PredictionResponse struct {
	Predictions *PredictionResult `json:"predictions"`
	Plots       *Plots            `json:"plots,omitempty"`
}
