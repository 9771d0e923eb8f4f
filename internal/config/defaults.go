package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the default runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Lanes: LanesConfig{
			Count:     3,
			Start:     1,
			Positions: []float64{20, 50, 80},
		},
		Physics: PhysicsConfig{
			PlayerY:          85,
			SpawnY:           -10,
			ExitY:            110,
			CollisionBand:    6,
			ReferenceFrameMs: 16.67,
			StallThresholdMs: 100,
		},
		Spawn: SpawnConfig{
			BPM:               123,
			BeatsPerSpawn:     1.5,
			CadenceFactor:     0.7,
			GraceMs:           3000,
			CollectibleChance: 0.6,
		},
		Scoring: ScoringConfig{
			CollectReward: 15,
		},
		Difficulty: DifficultyConfig{
			InitialSpeed: 3.5,
			MaxSpeed:     24,
			RampPerMs:    0.00035,
		},
		Beat: BeatConfig{
			Tempo:         138,
			Subdivision:   4,
			PatternLength: 512, // 32 bars of 16 steps
			LookAheadSec:  0.1,
			IntervalMs:    25,
		},
		Audio: AudioConfig{
			Enabled:       true,
			SampleRate:    44100,
			BufferMs:      50,
			MasterGain:    0.45,
			LowBandHz:     150,
			IntensityGain: 3.0,
		},
		Visual: VisualConfig{
			StrobeMs:           435,
			StrobeFlashMs:      25,
			IntensityThreshold: 0.16,
		},
		Review: ReviewConfig{
			TimeoutMs: 4000,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
