package config

import (
	"math"
	"time"
)

// DifficultyManager owns the speed ramp: speed grows linearly with elapsed
// time, independent of frame rate, and is clamped to the configured maximum.
type DifficultyManager struct {
	cfg DifficultyConfig
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{cfg: cfg}
}

// InitialSpeed returns the speed a session starts at.
func (d *DifficultyManager) InitialSpeed() float64 {
	return d.cfg.InitialSpeed
}

// MaxSpeed returns the speed cap.
func (d *DifficultyManager) MaxSpeed() float64 {
	return d.cfg.MaxSpeed
}

// IsEnabled returns whether the speed ramp is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.RampPerMs > 0 && d.cfg.MaxSpeed > d.cfg.InitialSpeed
}

// Advance returns the speed after elapsed time has passed.
// Negative elapsed values are treated as zero, so the result never decreases.
func (d *DifficultyManager) Advance(speed float64, elapsed time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	ms := float64(elapsed) / float64(time.Millisecond)
	return clampF(speed+d.cfg.RampPerMs*ms, d.cfg.InitialSpeed, d.cfg.MaxSpeed)
}

// Level returns how far along the ramp the given speed is (0.0 to 1.0).
func (d *DifficultyManager) Level(speed float64) float64 {
	span := d.cfg.MaxSpeed - d.cfg.InitialSpeed
	if span <= 0 {
		return 0
	}
	return clampF((speed-d.cfg.InitialSpeed)/span, 0.0, 1.0)
}

// TimeToMax returns the uninterrupted play time after which the cap is reached.
func (d *DifficultyManager) TimeToMax() time.Duration {
	if !d.IsEnabled() {
		return 0
	}
	ms := (d.cfg.MaxSpeed - d.cfg.InitialSpeed) / d.cfg.RampPerMs
	return time.Duration(ms * float64(time.Millisecond))
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
