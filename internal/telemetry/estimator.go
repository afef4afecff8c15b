package telemetry

import "github.com/cassiama/ProjectLISA/internal"

// Per-minute watt weights for each usage delta. These values are part of the
// scoring contract and must not drift.
const (
	weightNormalMode      = 0.25
	weightPerformanceMode = 0.33
	weightEnergySaverMode = 0.25 * 0.9
	weightStreaming       = 0.27
	weightAppsDownloaded  = 1.5
	weightIdle            = 0.05
	weightCharging        = 0.8
	weightBrightness      = 0.5

	// emissionFactor converts watt-hours of avoided draw into kWh-equivalent
	// savings; baselineWattHours is the fixed reference consumption the
	// percentage is expressed against.
	emissionFactor    = 0.39
	baselineWattHours = 520
)

// Estimate is the scored difference between two successive usage logs.
// PercentOfBaseline is not clamped: it is negative on a regression and can
// exceed 100. Consumers clamp as needed.
type Estimate struct {
	DeltaWattMinutes  float64 `json:"delta_watt_minutes"`
	SavingsKWh        float64 `json:"savings_kwh"`
	PercentOfBaseline float64 `json:"percent_of_baseline"`
}

// EstimateSavings computes the estimated carbon-relevant energy delta between
// the previous and current log. Pure and deterministic: identical inputs
// always produce identical output.
func EstimateSavings(prev, cur internal.UsageLog) Estimate {
	delta := float64(cur.NormalModeMinutes-prev.NormalModeMinutes)*weightNormalMode +
		float64(cur.PerformanceModeMinutes-prev.PerformanceModeMinutes)*weightPerformanceMode +
		float64(cur.EnergySaverModeMinutes-prev.EnergySaverModeMinutes)*weightEnergySaverMode -
		float64(cur.StreamingMinutes-prev.StreamingMinutes)*weightStreaming -
		float64(cur.AppsDownloaded-prev.AppsDownloaded)*weightAppsDownloaded -
		float64(cur.IdleMinutes-prev.IdleMinutes)*weightIdle +
		float64(cur.ChargingTimeMinutes-prev.ChargingTimeMinutes)*weightCharging +
		float64(cur.AverageBrightness-prev.AverageBrightness)*weightBrightness

	savingsKWh := (delta / 60) * emissionFactor
	percent := savingsKWh / baselineWattHours * 100

	return Estimate{
		DeltaWattMinutes:  delta,
		SavingsKWh:        savingsKWh,
		PercentOfBaseline: percent,
	}
}
