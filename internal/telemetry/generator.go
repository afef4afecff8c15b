// Package telemetry synthesizes device usage logs and estimates the carbon
// savings between two successive logs.
package telemetry

import (
	"math/rand"
	"sync"

	"github.com/cassiama/ProjectLISA/internal"
)

// DefaultMaxChangeRatio bounds log-to-log change for the smoothed generator.
const DefaultMaxChangeRatio = 0.75

// Baseline returns the canonical all-zero log that seeds a device's first
// reconciliation interval.
func Baseline() internal.UsageLog {
	return internal.UsageLog{Baseline: true}
}

// Generator produces the next usage log for a device given the one it
// replaces. Implementations must be safe for concurrent use: one generator is
// shared by every request handler.
type Generator interface {
	Next(prev internal.UsageLog) internal.UsageLog
}

// NoClampGenerator draws every field independently on each call. Successive
// logs are unrelated; this is the historical behavior.
type NoClampGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewNoClampGenerator(rng *rand.Rand) *NoClampGenerator {
	return &NoClampGenerator{rng: rng}
}

func (g *NoClampGenerator) Next(prev internal.UsageLog) internal.UsageLog {
	g.mu.Lock()
	defer g.mu.Unlock()
	return randomLog(g.rng)
}

// SmoothedGenerator draws a fresh log and then bounds each scalar field to
// within MaxChangeRatio of the previous log's value, so consecutive logs stay
// plausible. The partition and ordering constraints are repaired after
// clamping. A baseline previous log disables clamping for that call.
type SmoothedGenerator struct {
	mu             sync.Mutex
	rng            *rand.Rand
	MaxChangeRatio float64
}

func NewSmoothedGenerator(rng *rand.Rand, maxChangeRatio float64) *SmoothedGenerator {
	if maxChangeRatio <= 0 {
		maxChangeRatio = DefaultMaxChangeRatio
	}
	return &SmoothedGenerator{rng: rng, MaxChangeRatio: maxChangeRatio}
}

func (g *SmoothedGenerator) Next(prev internal.UsageLog) internal.UsageLog {
	g.mu.Lock()
	log := randomLog(g.rng)
	g.mu.Unlock()
	if prev.Baseline {
		return log
	}

	log.BatteryLevel = clampDelta(prev.BatteryLevel, log.BatteryLevel, g.MaxChangeRatio)
	log.ScreenTimeMinutes = clampDelta(prev.ScreenTimeMinutes, log.ScreenTimeMinutes, g.MaxChangeRatio)
	log.NormalModeMinutes = clampDelta(prev.NormalModeMinutes, log.NormalModeMinutes, g.MaxChangeRatio)
	log.PerformanceModeMinutes = clampDelta(prev.PerformanceModeMinutes, log.PerformanceModeMinutes, g.MaxChangeRatio)
	log.AppsDownloaded = clampDelta(prev.AppsDownloaded, log.AppsDownloaded, g.MaxChangeRatio)
	log.StreamingMinutes = clampDelta(prev.StreamingMinutes, log.StreamingMinutes, g.MaxChangeRatio)
	log.IdleMinutes = clampDelta(prev.IdleMinutes, log.IdleMinutes, g.MaxChangeRatio)
	log.ChargingTimeMinutes = clampDelta(prev.ChargingTimeMinutes, log.ChargingTimeMinutes, g.MaxChangeRatio)
	log.DeletedItems = clampDelta(prev.DeletedItems, log.DeletedItems, g.MaxChangeRatio)
	log.AverageBrightness = clampDelta(prev.AverageBrightness, log.AverageBrightness, g.MaxChangeRatio)

	// Repair the screen-time partition and ordering constraints broken by
	// clamping.
	if log.NormalModeMinutes > log.ScreenTimeMinutes {
		log.NormalModeMinutes = log.ScreenTimeMinutes
	}
	if log.PerformanceModeMinutes > log.ScreenTimeMinutes-log.NormalModeMinutes {
		log.PerformanceModeMinutes = log.ScreenTimeMinutes - log.NormalModeMinutes
	}
	log.EnergySaverModeMinutes = log.ScreenTimeMinutes - log.NormalModeMinutes - log.PerformanceModeMinutes
	if log.StreamingMinutes >= log.ScreenTimeMinutes {
		log.StreamingMinutes = maxInt(0, log.ScreenTimeMinutes-1)
	}
	if log.IdleMinutes >= log.ScreenTimeMinutes-log.StreamingMinutes {
		log.IdleMinutes = maxInt(0, log.ScreenTimeMinutes-log.StreamingMinutes-1)
	}
	return log
}

// randomLog draws one non-baseline log. The mode minutes partition the screen
// time exactly; streaming stays below screen time and idle below the
// remainder.
func randomLog(rng *rand.Rand) internal.UsageLog {
	screenTime := rng.Intn(1440)
	normal := intn(rng, screenTime)
	performance := intn(rng, screenTime-normal)
	energySaver := screenTime - normal - performance
	streaming := intn(rng, screenTime)
	idle := intn(rng, screenTime-streaming)
	start := rng.Intn(100)
	end := start + intn(rng, 101-start)

	return internal.UsageLog{
		BatteryLevel:           rng.Intn(101),
		ScreenTimeMinutes:      screenTime,
		NormalModeMinutes:      normal,
		PerformanceModeMinutes: performance,
		EnergySaverModeMinutes: energySaver,
		AppsDownloaded:         rng.Intn(20),
		StreamingMinutes:       streaming,
		IdleMinutes:            idle,
		ChargeCycle:            internal.ChargeCycle{Start: start, End: end},
		ChargingTimeMinutes:    rng.Intn(1440),
		DeletedItems:           rng.Intn(1000),
		AverageBrightness:      rng.Intn(101),
	}
}

// intn is rand.Intn tolerant of non-positive bounds.
func intn(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.Intn(n)
}

// clampDelta bounds value to prev ± ratio*prev.
func clampDelta(prev, value int, ratio float64) int {
	maxDiff := int(float64(prev) * ratio)
	if value > prev+maxDiff {
		return prev + maxDiff
	}
	if value < prev-maxDiff {
		return prev - maxDiff
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
