// Package config holds the engine configuration file and the settings that
// can change while the engine runs.
package config

import "sync"

// RuntimeSettings holds values toggled while the engine runs
type RuntimeSettings struct {
	mu        sync.RWMutex
	fpsLimit  int // frames per second, 0 = unlimited
	timeScale float64
}

var globalRuntimeSettings = &RuntimeSettings{
	fpsLimit:  0,
	timeScale: 1.0,
}

const (
	maxFPSLimit  = 1000
	maxTimeScale = 10.0
)

// Apply copies the runtime values of c into the global settings
func Apply(c *Configuration) {
	SetFPSLimit(c.Engine.FPSLimit)
	SetTimeScale(c.Engine.TimeScale)
}

// GetFPSLimit returns the frame cap, 0 when unlimited
func GetFPSLimit() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.fpsLimit
}

// SetFPSLimit sets the frame cap
func SetFPSLimit(limit int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()

	// Negative means unlimited
	if limit < 0 {
		limit = 0
	}
	if limit > maxFPSLimit {
		limit = maxFPSLimit
	}

	globalRuntimeSettings.fpsLimit = limit
}

// GetTimeScale returns the scheduler time scale
func GetTimeScale() float64 {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.timeScale
}

// SetTimeScale sets the scheduler time scale, clamped to (0, 10]. Values at
// or below zero reset it to 1.
func SetTimeScale(scale float64) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()

	if scale <= 0 {
		scale = 1.0
	}
	if scale > maxTimeScale {
		scale = maxTimeScale
	}

	globalRuntimeSettings.timeScale = scale
}
