package runner

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/beatrunner/internal/config"
	"github.com/vovakirdan/beatrunner/internal/core"
)

// Sounds receives the one-shot reaction triggers emitted by the loop.
type Sounds interface {
	Collect()
	Hit()
}

// Loop owns the simulation state and advances it once per display frame.
// It is not safe for concurrent use; the host calls every method from the
// same goroutine that delivers frames.
type Loop struct {
	cfg        config.RunnerConfig
	difficulty *config.DifficultyManager
	sounds     Sounds
	rng        *rand.Rand

	player    Player
	objects   []Object
	speed     float64
	collected int
	nextID    uint64

	sessionStart time.Duration
	lastSpawn    time.Duration
	lastFrame    time.Duration
	spawned      bool // Whether this session has spawned anything yet

	spawnInterval time.Duration
	grace         time.Duration
	stall         time.Duration

	running    bool
	onGameOver func(finalScore int)
}

// New creates a loop for the given configuration. Sounds may be nil.
func New(cfg config.RunnerConfig, sounds Sounds, seed int64) *Loop {
	return &Loop{
		cfg:           cfg,
		difficulty:    config.NewDifficultyManager(cfg.Difficulty),
		sounds:        sounds,
		rng:           rand.New(rand.NewSource(seed)),
		objects:       make([]Object, 0, 16),
		speed:         cfg.Difficulty.InitialSpeed,
		spawnInterval: cfg.Spawn.SpawnInterval(),
		grace:         cfg.Spawn.Grace(),
		stall:         cfg.Physics.StallThreshold(),
		player: Player{
			Lane: cfg.Lanes.Start,
			Y:    cfg.Physics.PlayerY,
		},
	}
}

// Start begins a new session at the host timestamp now. onGameOver is called
// exactly once, with the final score, when a hazard is hit.
func (l *Loop) Start(now time.Duration, onGameOver func(finalScore int)) {
	l.player = Player{
		Lane: l.cfg.Lanes.Start,
		Y:    l.cfg.Physics.PlayerY,
	}
	l.objects = l.objects[:0]
	l.speed = l.difficulty.InitialSpeed()
	l.collected = 0
	l.sessionStart = now
	l.lastFrame = now
	l.lastSpawn = now
	l.spawned = false
	l.onGameOver = onGameOver
	l.running = true
}

// Tick advances the world to the host timestamp now and reports whether the
// loop wants another frame. It returns false once the session has ended.
func (l *Loop) Tick(now time.Duration) bool {
	if !l.running {
		return false
	}

	elapsed := now - l.lastFrame
	if elapsed < 0 {
		// Non-monotonic timestamp: integrate nothing and keep the newest frame time
		elapsed = 0
	} else {
		l.lastFrame = now
	}

	// The host was suspended; absorb the gap instead of integrating it
	if elapsed > l.stall {
		return true
	}

	l.speed = l.difficulty.Advance(l.speed, elapsed)

	if !l.spawned || now-l.lastSpawn > l.spawnInterval {
		l.spawn(now, l.rng.Intn(l.cfg.Lanes.Count), l.rng.Float64())
	}

	return l.integrate(elapsed)
}

// spawn adds one object in the given lane. draw is a uniform sample in [0, 1)
// deciding the kind once the grace period is over.
func (l *Loop) spawn(now time.Duration, lane int, draw float64) {
	kind := KindCollectible
	if now-l.sessionStart >= l.grace && draw <= 1-l.cfg.Spawn.CollectibleChance {
		kind = KindHazard
	}

	l.nextID++
	l.objects = append(l.objects, Object{
		ID:   l.nextID,
		Lane: core.Clamp(lane, 0, l.cfg.Lanes.Count-1),
		Y:    l.cfg.Physics.SpawnY,
		Kind: kind,
	})
	l.lastSpawn = now
	l.spawned = true
}

// integrate moves every object, then despawns and resolves collisions.
// Returns false if a hazard ended the session.
func (l *Loop) integrate(elapsed time.Duration) bool {
	ms := float64(elapsed) / float64(time.Millisecond)
	dy := l.speed * (ms / l.cfg.Physics.ReferenceFrameMs)

	live := l.objects[:0]
	for _, obj := range l.objects {
		obj.Y += dy

		if obj.Y > l.cfg.Physics.ExitY {
			continue
		}

		if l.inCollisionBand(obj) {
			if obj.Kind == KindHazard {
				l.objects = live
				l.gameOver()
				return false
			}
			l.player.Score += l.cfg.Scoring.CollectReward
			l.collected++
			if l.sounds != nil {
				l.sounds.Collect()
			}
			continue
		}

		live = append(live, obj)
	}
	l.objects = live
	return true
}

// inCollisionBand reports whether obj is level with the player in the same lane.
func (l *Loop) inCollisionBand(obj Object) bool {
	band := l.cfg.Physics.CollisionBand
	atPlayer := obj.Y > l.player.Y-band && obj.Y < l.player.Y+band
	return atPlayer && obj.Lane == l.player.Lane
}

// gameOver ends the session. Later ticks are no-ops until the next Start.
func (l *Loop) gameOver() {
	l.running = false
	if l.sounds != nil {
		l.sounds.Hit()
	}
	if cb := l.onGameOver; cb != nil {
		l.onGameOver = nil
		cb(l.player.Score)
	}
}

// ShiftLeft moves the player one lane left, stopping at the first lane.
func (l *Loop) ShiftLeft() {
	l.shift(-1)
}

// ShiftRight moves the player one lane right, stopping at the last lane.
func (l *Loop) ShiftRight() {
	l.shift(1)
}

func (l *Loop) shift(delta int) {
	if !l.running {
		return
	}
	l.player.Lane = core.Clamp(l.player.Lane+delta, 0, l.cfg.Lanes.Count-1)
}

// Running reports whether a session is in progress.
func (l *Loop) Running() bool {
	return l.running
}

// Speed returns the current fall speed.
func (l *Loop) Speed() float64 {
	return l.speed
}

// Snapshot returns a copy of the current state.
func (l *Loop) Snapshot() Snapshot {
	objects := make([]Object, len(l.objects))
	copy(objects, l.objects)

	return Snapshot{
		Player:    l.player,
		Objects:   objects,
		Speed:     l.speed,
		Level:     l.difficulty.Level(l.speed),
		Running:   l.running,
		Elapsed:   l.lastFrame - l.sessionStart,
		Collected: l.collected,
	}
}
