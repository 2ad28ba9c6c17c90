package services

import (
	"math"

	"aquaguard/internal/models"
)

// Reference values for water-quality factors
const (
	idealPH            = 7.5
	idealTemperature   = 25.0
	conductivityScale  = 5000.0
	phWeight           = 0.4
	conductivityWeight = 0.4
	temperatureWeight  = 0.2
)

// RechargeParams describes the catchment used to scale recharge potential
type RechargeParams struct {
	RainfallMetersPerYear   float64
	CatchmentAreaM2         float64
	BaseRechargeCoefficient float64
}

// DefaultRechargeParams returns the catchment assumed for station predictions
func DefaultRechargeParams() RechargeParams {
	return RechargeParams{
		RainfallMetersPerYear:   1.5,
		CatchmentAreaM2:         1.0e8,
		BaseRechargeCoefficient: 0.20,
	}
}

// MaxTheoreticalRechargeMCM is the recharge volume in million cubic metres
// for a perfect quality factor
func (p RechargeParams) MaxTheoreticalRechargeMCM() float64 {
	return p.RainfallMetersPerYear * p.CatchmentAreaM2 * p.BaseRechargeCoefficient / 1e6
}

// QualityFactors holds the per-parameter scores and their weighted composite
type QualityFactors struct {
	PH           float64
	Conductivity float64
	Temperature  float64
	Quality      float64
}

// ComputeQualityFactors scores averaged water-quality parameters against
// their ideal values. Factors are not clamped and go negative for extreme
// inputs.
func ComputeQualityFactors(avgPH, avgConductivity, avgTemperature float64) QualityFactors {
	f := QualityFactors{
		PH:           1.0 - math.Abs(idealPH-avgPH)/idealPH,
		Conductivity: 1.0 / (1.0 + avgConductivity/conductivityScale),
		Temperature:  1.0 - math.Abs(idealTemperature-avgTemperature)/idealTemperature,
	}
	f.Quality = phWeight*f.PH + conductivityWeight*f.Conductivity + temperatureWeight*f.Temperature
	return f
}

// EstimateRecharge derives recharge volume and percentage from averaged
// water-quality parameters
func EstimateRecharge(avgPH, avgConductivity, avgTemperature float64, params RechargeParams) models.RechargeEstimate {
	factors := ComputeQualityFactors(avgPH, avgConductivity, avgTemperature)

	maxRecharge := params.MaxTheoreticalRechargeMCM()
	volume := maxRecharge * factors.Quality

	// Must stay a ratio of volumes, not Quality*100.
	percentage := (volume / maxRecharge) * 100

	return models.RechargeEstimate{
		VolumeMCM:  volume,
		Percentage: percentage,
	}
}
