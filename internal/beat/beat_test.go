package beat

import (
	"math"
	"reflect"
	"testing"

	"github.com/vovakirdan/beatrunner/internal/config"
)

type fakeClock struct {
	now      float64
	disabled bool
}

func (c *fakeClock) Now() float64    { return c.now }
func (c *fakeClock) Available() bool { return !c.disabled }

type recorder struct {
	events []Event
}

func (r *recorder) Trigger(ev Event) {
	r.events = append(r.events, ev)
}

func kinds(events []Event) []Kind {
	out := make([]Kind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func newTestScheduler(clock Clock) (*Scheduler, *recorder) {
	rec := &recorder{}
	return New(clock, config.DefaultRunnerConfig().Beat, rec), rec
}

func TestPatternRules(t *testing.T) {
	tests := []struct {
		step      int
		variation int
		expected  []Kind
	}{
		{0, 0, []Kind{KindKick, KindArp}},
		{1, 0, []Kind{KindHat, KindBass}},
		{2, 0, []Kind{KindBass, KindArp}},
		{4, 0, []Kind{KindKick, KindAccent, KindArp}},
		{12, 0, []Kind{KindKick, KindAccent}},
		{14, 0, []Kind{KindBass}},
		{28, 1, []Kind{KindKick, KindAccent}},
		{28, 2, []Kind{KindKick, KindAccent, KindVariationBeep}},
		{60, 3, []Kind{KindKick, KindAccent, KindVariationBeep}},
		{512, 0, []Kind{KindKick, KindArp}}, // Wraps to step 0
	}

	for _, tc := range tests {
		got := kinds(Pattern(tc.step, tc.variation))
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("Pattern(%d, %d) = %v, expected %v", tc.step, tc.variation, got, tc.expected)
		}
	}
}

func TestPatternFrequencies(t *testing.T) {
	tests := []struct {
		step int
		kind Kind
		freq float64
	}{
		{1, KindBass, 32.70},
		{5, KindBass, 36.71},
		{9, KindBass, 38.89},
		{13, KindBass, 43.65},
		{0, KindArp, 261.63},
		{2, KindArp, 349.23},
		{6, KindArp, 311.13},
		{4, KindArp, 466.16},
		{8, KindArp, 392.00},
		{28, KindVariationBeep, 1760},
	}

	for _, tc := range tests {
		found := false
		for _, ev := range Pattern(tc.step, 3) {
			if ev.Kind == tc.kind {
				found = true
				if ev.Freq != tc.freq {
					t.Errorf("step %d %s freq = %v, expected %v", tc.step, tc.kind, ev.Freq, tc.freq)
				}
			}
		}
		if !found {
			t.Errorf("step %d: no %s event", tc.step, tc.kind)
		}
	}
}

func TestPatternDeterministic(t *testing.T) {
	for variation := 0; variation < 4; variation++ {
		for step := 0; step < PatternLength; step++ {
			a, b := Pattern(step, variation), Pattern(step, variation)
			if !reflect.DeepEqual(a, b) {
				t.Fatalf("Pattern(%d, %d) not deterministic", step, variation)
			}
		}
	}
}

func TestNextVariation(t *testing.T) {
	tests := []struct {
		step, in, expected int
	}{
		{0, 0, 1},
		{1, 1, 1},
		{63, 1, 1},
		{64, 1, 2},
		{128, 2, 3},
		{192, 3, 0},
	}
	for _, tc := range tests {
		if got := NextVariation(tc.step, tc.in); got != tc.expected {
			t.Errorf("NextVariation(%d, %d) = %d, expected %d", tc.step, tc.in, got, tc.expected)
		}
	}
}

func TestSchedulerStartEmitsLookAhead(t *testing.T) {
	clock := &fakeClock{now: 10}
	s, rec := newTestScheduler(clock)

	if !s.Start() {
		t.Fatal("Start should succeed")
	}

	// Step is ~0.1087s, so only step 0 starts before 10.1
	if s.Step() != 1 {
		t.Errorf("after first scan next step = %d, expected 1", s.Step())
	}
	if len(rec.events) == 0 {
		t.Fatal("first scan should emit step 0")
	}
	for _, ev := range rec.events {
		if ev.Step != 0 || ev.Time != 10 {
			t.Errorf("unexpected event %+v, expected step 0 at 10s", ev)
		}
	}
}

func TestSchedulerEventTimestamps(t *testing.T) {
	clock := &fakeClock{}
	s, rec := newTestScheduler(clock)
	s.Start()

	gen := s.Generation()
	for i := 0; i < 400; i++ {
		clock.now += 0.025
		if !s.Tick(gen) {
			t.Fatalf("tick %d rejected", i)
		}
	}

	step := 60.0 / 138 / 4
	last := -1.0
	for _, ev := range rec.events {
		if ev.Time < last {
			t.Fatalf("events out of order: %v after %v", ev.Time, last)
		}
		last = ev.Time
		expected := float64(ev.Step) * step
		if math.Abs(ev.Time-expected) > 1e-9 {
			t.Fatalf("step %d at %v, expected %v", ev.Step, ev.Time, expected)
		}
		if ev.Time >= clock.now+0.1 {
			t.Fatalf("event at %v beyond look-ahead horizon %v", ev.Time, clock.now+0.1)
		}
	}
}

func TestSchedulerStartIdempotent(t *testing.T) {
	clock := &fakeClock{}
	s, rec := newTestScheduler(clock)

	s.Start()
	gen := s.Generation()
	n := len(rec.events)

	if s.Start() {
		t.Error("second Start should be a no-op")
	}
	if s.Generation() != gen || len(rec.events) != n {
		t.Error("second Start changed scheduler state")
	}
}

func TestSchedulerStopIdempotent(t *testing.T) {
	clock := &fakeClock{}
	s, _ := newTestScheduler(clock)

	if s.Stop() {
		t.Error("Stop on a stopped scheduler should return false")
	}
	s.Start()
	if !s.Stop() {
		t.Error("Stop on a running scheduler should return true")
	}
	if s.Stop() {
		t.Error("second Stop should return false")
	}
}

func TestSchedulerStaleTick(t *testing.T) {
	clock := &fakeClock{}
	s, rec := newTestScheduler(clock)

	s.Start()
	old := s.Generation()
	s.Stop()
	s.Start()

	n := len(rec.events)
	clock.now += 1
	if s.Tick(old) {
		t.Error("tick from a previous run should be rejected")
	}
	if len(rec.events) != n {
		t.Error("stale tick emitted events")
	}
	if !s.Tick(s.Generation()) {
		t.Error("current generation tick should run")
	}
}

func TestSchedulerTickAfterStop(t *testing.T) {
	clock := &fakeClock{}
	s, rec := newTestScheduler(clock)

	s.Start()
	gen := s.Generation()
	s.Stop()

	n := len(rec.events)
	clock.now += 1
	if s.Tick(gen) {
		t.Error("tick after Stop should return false")
	}
	if len(rec.events) != n {
		t.Error("tick after Stop emitted events")
	}
}

func TestSchedulerRestartRewindsStep(t *testing.T) {
	clock := &fakeClock{}
	s, rec := newTestScheduler(clock)

	s.Start()
	for i := 0; i < 20; i++ {
		clock.now += 0.025
		s.Tick(s.Generation())
	}
	s.Stop()

	rec.events = nil
	clock.now = 100
	s.Start()
	if rec.events[0].Step != 0 || rec.events[0].Time != 100 {
		t.Errorf("restart should schedule step 0 at now, got %+v", rec.events[0])
	}
}

func TestSchedulerUnavailableClock(t *testing.T) {
	clock := &fakeClock{disabled: true}
	s, rec := newTestScheduler(clock)

	if s.Start() {
		t.Error("Start without audio should fail")
	}
	if s.Running() {
		t.Error("scheduler should stay stopped without audio")
	}
	s.Collect()
	s.Hit()
	if len(rec.events) != 0 {
		t.Errorf("no events expected without audio, got %d", len(rec.events))
	}

	if New(nil, config.DefaultRunnerConfig().Beat).Start() {
		t.Error("Start with a nil clock should fail")
	}
}

func TestSchedulerOneShots(t *testing.T) {
	clock := &fakeClock{now: 3.5}
	s, rec := newTestScheduler(clock)

	s.Collect()
	s.Hit()

	expected := []Event{
		{Kind: KindCollect, Time: 3.5, Step: -1},
		{Kind: KindHit, Time: 3.5, Step: -1},
	}
	if !reflect.DeepEqual(rec.events, expected) {
		t.Errorf("one-shots = %+v, expected %+v", rec.events, expected)
	}
}

func TestSchedulerWrapsAndCyclesVariation(t *testing.T) {
	clock := &fakeClock{}
	s, rec := newTestScheduler(clock)
	s.Start()

	// Two full patterns
	for clock.now < 2*PatternLength*s.StepDuration() {
		clock.now += 0.025
		s.Tick(s.Generation())
	}

	beeps := 0
	maxStep := 0
	for _, ev := range rec.events {
		if ev.Step > maxStep {
			maxStep = ev.Step
		}
		if ev.Kind == KindVariationBeep {
			beeps++
		}
	}
	if maxStep != PatternLength-1 {
		t.Errorf("max step = %d, expected %d", maxStep, PatternLength-1)
	}
	if beeps == 0 {
		t.Error("variation beeps should appear once the variation exceeds 1")
	}
}

func TestSchedulerCustomLength(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		expected int
	}{
		{"short", 128, 128},
		{"long", 1024, 1024},
		{"off the phrase grid", 100, PatternLength},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultRunnerConfig().Beat
			cfg.PatternLength = tc.length
			clock := &fakeClock{}
			rec := &recorder{}
			s := New(clock, cfg, rec)
			s.Start()

			for clock.now < float64(tc.expected+8)*s.StepDuration() {
				clock.now += 0.025
				s.Tick(s.Generation())
			}

			maxStep := 0
			wrapped := false
			for _, ev := range rec.events {
				maxStep = max(maxStep, ev.Step)
				if ev.Step == 0 && ev.Time > 0 {
					wrapped = true
				}
			}
			if maxStep != tc.expected-1 {
				t.Errorf("max step = %d, expected %d", maxStep, tc.expected-1)
			}
			if !wrapped {
				t.Errorf("step index never wrapped after %d steps", tc.expected)
			}
		})
	}
}

func TestPatternOfWrapsAtLength(t *testing.T) {
	if !reflect.DeepEqual(PatternOf(600, 1024, 0), PatternOf(600+1024, 1024, 0)) {
		t.Error("PatternOf should repeat every length steps")
	}
	// Arp note choice depends on the raw step, so 512 is not step 0 here
	if reflect.DeepEqual(PatternOf(512, 1024, 0), Pattern(512, 0)) {
		t.Error("a 1024-step pattern should not fold back at 512")
	}
}

func TestSchedulerResyncsAfterStall(t *testing.T) {
	clock := &fakeClock{}
	s, rec := newTestScheduler(clock)
	s.Start()
	rec.events = nil

	clock.now = 5
	s.Tick(s.Generation())

	if len(rec.events) == 0 {
		t.Fatal("scan after a stall should schedule the current step")
	}
	steps := map[int]bool{}
	for _, ev := range rec.events {
		if ev.Time < clock.now-s.lookAhead {
			t.Errorf("%s at %.3fs lies in the past at %.3fs", ev.Kind, ev.Time, clock.now)
		}
		steps[ev.Step] = true
	}
	if len(steps) > 1 {
		t.Errorf("stall produced a burst of %d steps", len(steps))
	}
	if !steps[1] {
		t.Errorf("sequence should resume at step 1, got steps %v", steps)
	}
}

func TestSubscribeAndSinkFunc(t *testing.T) {
	clock := &fakeClock{}
	s := New(clock, config.DefaultRunnerConfig().Beat)

	var got []Kind
	s.Subscribe(SinkFunc(func(ev Event) { got = append(got, ev.Kind) }))
	s.Hit()

	if !reflect.DeepEqual(got, []Kind{KindHit}) {
		t.Errorf("SinkFunc received %v", got)
	}
}

func TestKindString(t *testing.T) {
	if KindVariationBeep.String() != "variation" || Kind(42).String() != "unknown" {
		t.Error("unexpected Kind names")
	}
}
