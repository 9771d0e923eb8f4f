package beat

import (
	"time"

	"github.com/vovakirdan/beatrunner/internal/config"
)

// Clock is the audio-domain time source, in seconds.
type Clock interface {
	Now() float64
}

// availability is implemented by clocks that can be absent, such as an audio
// device that failed to open.
type availability interface {
	Available() bool
}

// Sink receives scheduled events.
type Sink interface {
	Trigger(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

// Trigger calls f(ev).
func (f SinkFunc) Trigger(ev Event) {
	f(ev)
}

// Scheduler is a look-ahead step sequencer. The host calls Tick every
// Interval with the generation returned by Generation; each call emits every
// step whose start time falls inside the look-ahead window.
//
// A Scheduler is not safe for concurrent use.
type Scheduler struct {
	clock Clock
	sinks []Sink

	stepDuration float64
	lookAhead    float64
	length       int
	interval     time.Duration

	step      int
	next      float64
	variation int
	running   bool
	gen       uint64
}

// New creates a stopped scheduler.
func New(clock Clock, cfg config.BeatConfig, sinks ...Sink) *Scheduler {
	length := cfg.PatternLength
	if length <= 0 || length%PhraseLength != 0 {
		length = PatternLength
	}
	return &Scheduler{
		clock:        clock,
		sinks:        append([]Sink(nil), sinks...),
		stepDuration: cfg.StepDuration(),
		lookAhead:    cfg.LookAheadSec,
		length:       length,
		interval:     cfg.Interval(),
	}
}

// Subscribe adds a sink for all future events.
func (s *Scheduler) Subscribe(sink Sink) {
	s.sinks = append(s.sinks, sink)
}

func (s *Scheduler) available() bool {
	if s.clock == nil {
		return false
	}
	if a, ok := s.clock.(availability); ok {
		return a.Available()
	}
	return true
}

// Start rewinds to step 0 at the current audio time and performs the first
// look-ahead scan. It returns false, changing nothing, when the scheduler is
// already running or there is no audio clock.
func (s *Scheduler) Start() bool {
	if s.running || !s.available() || s.stepDuration <= 0 {
		return false
	}
	s.step = 0
	s.next = s.clock.Now()
	s.gen++
	s.running = true
	s.scan()
	return true
}

// Stop halts scheduling. Timer ticks armed before Stop become stale.
// Events already handed to sinks are not recalled.
func (s *Scheduler) Stop() bool {
	if !s.running {
		return false
	}
	s.running = false
	s.gen++
	return true
}

// Tick runs one timer period for generation gen. It returns false when the
// tick is stale and the host should not re-arm the timer.
func (s *Scheduler) Tick(gen uint64) bool {
	if !s.running || gen != s.gen {
		return false
	}
	s.scan()
	return true
}

func (s *Scheduler) scan() {
	now := s.clock.Now()
	// After a stall the missed steps are dropped and the sequence resumes at
	// the current time.
	if s.next < now-s.lookAhead {
		s.next = now
	}
	horizon := now + s.lookAhead
	for s.next < horizon {
		s.variation = NextVariation(s.step, s.variation)
		for _, ev := range PatternOf(s.step, s.length, s.variation) {
			ev.Time = s.next
			s.emit(ev)
		}
		s.next += s.stepDuration
		s.step = (s.step + 1) % s.length
	}
}

// Collect fires the collect one-shot now.
func (s *Scheduler) Collect() {
	s.oneShot(KindCollect)
}

// Hit fires the hit one-shot now.
func (s *Scheduler) Hit() {
	s.oneShot(KindHit)
}

func (s *Scheduler) oneShot(kind Kind) {
	if !s.available() {
		return
	}
	s.emit(Event{Kind: kind, Time: s.clock.Now(), Step: -1})
}

func (s *Scheduler) emit(ev Event) {
	for _, sink := range s.sinks {
		sink.Trigger(ev)
	}
}

// Running reports whether the scheduler is started.
func (s *Scheduler) Running() bool {
	return s.running
}

// Generation identifies the current run; timer messages carry it back to Tick.
func (s *Scheduler) Generation() uint64 {
	return s.gen
}

// Interval is how often the host should call Tick.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// StepDuration is the length of one sixteenth note in seconds.
func (s *Scheduler) StepDuration() float64 {
	return s.stepDuration
}

// Variation returns the current variation counter (0 to 3).
func (s *Scheduler) Variation() int {
	return s.variation
}

// Step returns the next step to be scheduled.
func (s *Scheduler) Step() int {
	return s.step
}
