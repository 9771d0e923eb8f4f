// Package config provides YAML-based configuration loading and difficulty
// management for the runner and its beat scheduler.
package config

import (
	"errors"
	"fmt"
	"time"
)

// RunnerConfig contains all configuration for a runner session.
type RunnerConfig struct {
	Lanes      LanesConfig      `yaml:"lanes"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Beat       BeatConfig       `yaml:"beat"`
	Audio      AudioConfig      `yaml:"audio"`
	Visual     VisualConfig     `yaml:"visual"`
	Review     ReviewConfig     `yaml:"review"`
}

// LanesConfig defines the discrete tracks shared by the player and objects.
type LanesConfig struct {
	Count     int       `yaml:"count"`
	Start     int       `yaml:"start"`     // Lane the player occupies at session start
	Positions []float64 `yaml:"positions"` // Horizontal lane centers, percent of width
}

// PhysicsConfig defines the vertical layout and integration constants.
// Vertical positions are percentages of the visible column (0 = top).
type PhysicsConfig struct {
	PlayerY          float64 `yaml:"player_y"`
	SpawnY           float64 `yaml:"spawn_y"`
	ExitY            float64 `yaml:"exit_y"`
	CollisionBand    float64 `yaml:"collision_band"`     // Half-width of the band around PlayerY
	ReferenceFrameMs float64 `yaml:"reference_frame_ms"` // Frame duration speed units are expressed in
	StallThresholdMs float64 `yaml:"stall_threshold_ms"` // Frames longer than this are not integrated
}

// SpawnConfig defines the object spawn cadence and kind policy.
type SpawnConfig struct {
	BPM               float64 `yaml:"bpm"`
	BeatsPerSpawn     float64 `yaml:"beats_per_spawn"`
	CadenceFactor     float64 `yaml:"cadence_factor"`
	GraceMs           float64 `yaml:"grace_ms"`
	CollectibleChance float64 `yaml:"collectible_chance"` // After the grace period
}

// ScoringConfig defines score rewards.
type ScoringConfig struct {
	CollectReward int `yaml:"collect_reward"`
}

// DifficultyConfig defines the speed ramp.
type DifficultyConfig struct {
	InitialSpeed float64 `yaml:"initial_speed"`
	MaxSpeed     float64 `yaml:"max_speed"`
	RampPerMs    float64 `yaml:"ramp_per_ms"` // Speed added per elapsed millisecond
}

// BeatConfig defines the musical clock of the beat scheduler.
type BeatConfig struct {
	Tempo         float64 `yaml:"tempo"`          // Beats per minute
	Subdivision   int     `yaml:"subdivision"`    // Steps per beat
	PatternLength int     `yaml:"pattern_length"` // Step index modulus
	LookAheadSec  float64 `yaml:"look_ahead_sec"`
	IntervalMs    int     `yaml:"interval_ms"` // Scheduler timer period
}

// AudioConfig defines the audio output.
type AudioConfig struct {
	Enabled       bool    `yaml:"enabled"`
	SampleRate    int     `yaml:"sample_rate"`
	BufferMs      int     `yaml:"buffer_ms"`
	MasterGain    float64 `yaml:"master_gain"`
	LowBandHz     float64 `yaml:"low_band_hz"`    // Cutoff of the intensity analyser
	IntensityGain float64 `yaml:"intensity_gain"` // Scales low-band RMS into [0, 1]
}

// VisualConfig defines presentation cadences.
type VisualConfig struct {
	StrobeMs           int     `yaml:"strobe_ms"`
	StrobeFlashMs      int     `yaml:"strobe_flash_ms"`
	IntensityThreshold float64 `yaml:"intensity_threshold"` // Grid lights up above this
}

// ReviewConfig defines the post-game review service.
type ReviewConfig struct {
	URL       string `yaml:"url"` // Empty uses the built-in critic
	TimeoutMs int    `yaml:"timeout_ms"`
}

// SpawnInterval returns the effective time between spawns.
func (c SpawnConfig) SpawnInterval() time.Duration {
	if c.BPM <= 0 {
		return 0
	}
	ms := 60 / c.BPM * 1000 * c.BeatsPerSpawn * c.CadenceFactor
	return time.Duration(ms * float64(time.Millisecond))
}

// Grace returns the hazard-free window after session start.
func (c SpawnConfig) Grace() time.Duration {
	return time.Duration(c.GraceMs * float64(time.Millisecond))
}

// StallThreshold returns the longest frame that is still integrated.
func (c PhysicsConfig) StallThreshold() time.Duration {
	return time.Duration(c.StallThresholdMs * float64(time.Millisecond))
}

// StepDuration returns the length of one sequencer step in seconds.
func (c BeatConfig) StepDuration() float64 {
	if c.Tempo <= 0 || c.Subdivision <= 0 {
		return 0
	}
	return 60 / c.Tempo / float64(c.Subdivision)
}

// Interval returns the scheduler timer period.
func (c BeatConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// Timeout returns the review deadline.
func (c ReviewConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Validate checks the config for values the simulation cannot run with.
func (c RunnerConfig) Validate() error {
	switch {
	case c.Lanes.Count < 1:
		return fmt.Errorf("%w: lanes.count must be positive, got %d", ErrInvalid, c.Lanes.Count)
	case c.Lanes.Start < 0 || c.Lanes.Start >= c.Lanes.Count:
		return fmt.Errorf("%w: lanes.start %d outside [0, %d)", ErrInvalid, c.Lanes.Start, c.Lanes.Count)
	case len(c.Lanes.Positions) != 0 && len(c.Lanes.Positions) != c.Lanes.Count:
		return fmt.Errorf("%w: lanes.positions has %d entries for %d lanes", ErrInvalid, len(c.Lanes.Positions), c.Lanes.Count)
	case c.Physics.ReferenceFrameMs <= 0:
		return fmt.Errorf("%w: physics.reference_frame_ms must be positive", ErrInvalid)
	case c.Physics.StallThresholdMs <= 0:
		return fmt.Errorf("%w: physics.stall_threshold_ms must be positive", ErrInvalid)
	case c.Physics.CollisionBand <= 0:
		return fmt.Errorf("%w: physics.collision_band must be positive", ErrInvalid)
	case c.Physics.ExitY <= c.Physics.SpawnY:
		return fmt.Errorf("%w: physics.exit_y must be below spawn_y", ErrInvalid)
	case c.Spawn.BPM <= 0 || c.Spawn.BeatsPerSpawn <= 0 || c.Spawn.CadenceFactor <= 0:
		return fmt.Errorf("%w: spawn cadence must be positive", ErrInvalid)
	case c.Spawn.CollectibleChance < 0 || c.Spawn.CollectibleChance > 1:
		return fmt.Errorf("%w: spawn.collectible_chance %.2f outside [0, 1]", ErrInvalid, c.Spawn.CollectibleChance)
	case c.Difficulty.InitialSpeed < 0 || c.Difficulty.MaxSpeed < c.Difficulty.InitialSpeed:
		return fmt.Errorf("%w: difficulty speed range [%.2f, %.2f]", ErrInvalid, c.Difficulty.InitialSpeed, c.Difficulty.MaxSpeed)
	case c.Difficulty.RampPerMs < 0:
		return fmt.Errorf("%w: difficulty.ramp_per_ms must not be negative", ErrInvalid)
	case c.Beat.Tempo <= 0 || c.Beat.Subdivision <= 0:
		return fmt.Errorf("%w: beat tempo and subdivision must be positive", ErrInvalid)
	case c.Beat.PatternLength <= 0 || c.Beat.PatternLength%64 != 0:
		return fmt.Errorf("%w: beat.pattern_length %d must be a positive multiple of 64", ErrInvalid, c.Beat.PatternLength)
	case c.Beat.LookAheadSec <= 0 || c.Beat.IntervalMs <= 0:
		return fmt.Errorf("%w: beat look-ahead and interval must be positive", ErrInvalid)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI value to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// IsFixedPreset returns true if the preset disables the speed ramp.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
