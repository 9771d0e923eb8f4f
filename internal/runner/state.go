// Package runner implements the lane-runner simulation: a timestamp-driven
// loop that spawns falling objects on a tempo-derived cadence, integrates
// their motion independently of frame rate, and resolves collisions against
// the player's lane.
package runner

import "time"

// Kind classifies a falling object.
type Kind int

const (
	KindCollectible Kind = iota // Scores on contact
	KindHazard                  // Ends the session on contact
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindCollectible:
		return "collectible"
	case KindHazard:
		return "hazard"
	default:
		return "unknown"
	}
}

// Player is the runner controlled by lane-change input.
type Player struct {
	Lane  int
	Y     float64 // Fixed vertical position, percent of the column
	Score int
}

// Object is a falling collectible or hazard.
type Object struct {
	ID   uint64
	Lane int
	Y    float64 // Progress from spawn (top) to exit (bottom)
	Kind Kind
}

// Snapshot is an immutable copy of the simulation state for renderers.
type Snapshot struct {
	Player    Player
	Objects   []Object
	Speed     float64
	Level     float64       // Position on the speed ramp, 0.0 to 1.0
	Running   bool          // False before Start and after game over
	Elapsed   time.Duration // Session time up to the last accepted frame
	Collected int           // Collectibles picked up this session
}
