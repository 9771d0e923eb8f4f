package audio

import (
	"math"
	"testing"

	"github.com/vovakirdan/beatrunner/internal/beat"
	"github.com/vovakirdan/beatrunner/internal/config"
)

func testConfig() config.AudioConfig {
	cfg := config.DefaultRunnerConfig().Audio
	cfg.SampleRate = 1000
	return cfg
}

// pull drains n samples from the engine output and returns them.
func pull(t *testing.T, e *Engine, n int) [][2]float64 {
	t.Helper()
	buf := make([][2]float64, n)
	got, ok := e.out.Stream(buf)
	if got != n || !ok {
		t.Fatalf("engine output drained: got %d samples, ok=%v", got, ok)
	}
	return buf
}

func peak(samples [][2]float64) float64 {
	p := 0.0
	for _, s := range samples {
		p = math.Max(p, math.Abs(s[0]))
	}
	return p
}

func TestDisabledEngine(t *testing.T) {
	e := Disabled()

	if e.Available() {
		t.Error("disabled engine should not be available")
	}
	if e.Now() != 0 {
		t.Errorf("disabled clock = %v, expected 0", e.Now())
	}
	e.Trigger(beat.Event{Kind: beat.KindKick})
	e.Close()
	e.Refresh()
	if e.Pending() != 0 || e.Intensity() != 0 {
		t.Error("disabled engine should hold no voices and read zero intensity")
	}
}

func TestOpenDisabledByConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	e, err := Open(cfg, nil)
	if err != ErrDisabled {
		t.Errorf("Open() error = %v, expected ErrDisabled", err)
	}
	if e == nil || e.Available() {
		t.Error("Open with audio off should return a disabled engine")
	}
}

func TestClockAdvancesWithOutput(t *testing.T) {
	e := newEngine(testConfig())

	if e.Now() != 0 {
		t.Fatalf("fresh clock = %v, expected 0", e.Now())
	}
	pull(t, e, 250)
	if e.Now() != 0.25 {
		t.Errorf("clock after 250 samples at 1kHz = %v, expected 0.25", e.Now())
	}
}

func TestTriggerDelaysUntilEventTime(t *testing.T) {
	e := newEngine(testConfig())

	e.Trigger(beat.Event{Kind: beat.KindKick, Time: 0.1})
	if e.Pending() != 1 {
		t.Fatalf("expected 1 pending voice, got %d", e.Pending())
	}

	if p := peak(pull(t, e, 100)); p != 0 {
		t.Errorf("output before the event time should be silent, peak %v", p)
	}
	if p := peak(pull(t, e, 50)); p == 0 {
		t.Error("kick should sound after its start time")
	}
}

func TestTriggerMeasuresDelayUnderLock(t *testing.T) {
	e := newEngine(testConfig())
	// The output goroutine streams a 50-sample buffer before Trigger gets the lock
	e.lock = func() { e.out.Stream(make([][2]float64, 50)) }

	e.Trigger(beat.Event{Kind: beat.KindKick, Time: 0.1})
	if e.Now() != 0.05 {
		t.Fatalf("clock after contended trigger = %v, expected 0.05", e.Now())
	}

	if p := peak(pull(t, e, 50)); p != 0 {
		t.Errorf("samples 50-99 should be silent, peak %v", p)
	}
	if p := peak(pull(t, e, 50)); p == 0 {
		t.Error("kick scheduled for sample 100 should sound by sample 149")
	}
}

func TestVoicesFinish(t *testing.T) {
	e := newEngine(testConfig())

	e.Trigger(beat.Event{Kind: beat.KindHat})
	e.Trigger(beat.Event{Kind: beat.KindCollect})
	pull(t, e, 500)
	pull(t, e, 10)

	if n := e.Pending(); n != 0 {
		t.Errorf("short voices should drain from the mix, %d left", n)
	}
}

func TestCloseClearsVoices(t *testing.T) {
	e := newEngine(testConfig())
	e.Trigger(beat.Event{Kind: beat.KindHit, Time: 5})
	e.Close()

	if e.Pending() != 0 {
		t.Error("Close should drop queued voices")
	}
}

func TestIntensityFollowsLowEnd(t *testing.T) {
	e := newEngine(testConfig())

	pull(t, e, 100)
	e.Refresh()
	if e.Intensity() != 0 {
		t.Errorf("silent output intensity = %v, expected 0", e.Intensity())
	}

	e.Trigger(beat.Event{Kind: beat.KindKick, Time: e.Now()})
	pull(t, e, 100)
	e.Refresh()
	loud := e.Intensity()
	if loud <= 0 || loud > 1 {
		t.Errorf("kick intensity = %v, expected within (0, 1]", loud)
	}

	e.Refresh()
	if e.Intensity() >= loud {
		t.Error("intensity should decay when no samples arrive")
	}
}

func TestEveryKindHasVoice(t *testing.T) {
	for k := beat.KindKick; k <= beat.KindHit; k++ {
		if newVoice(beat.Event{Kind: k}, 1000, 1) == nil {
			t.Errorf("no voice for %s", k)
		}
	}
	if newVoice(beat.Event{Kind: beat.Kind(99)}, 1000, 1) != nil {
		t.Error("unknown kind should have no voice")
	}
}

func TestEnvelopeShape(t *testing.T) {
	tests := []struct {
		name     string
		r        recipe
		t        float64
		expected float64
	}{
		{"attack midpoint", recipe{peak: 0.4, attack: 0.01, decay: 0.14}, 0.005, 0.2},
		{"peak", recipe{peak: 0.4, attack: 0.01, decay: 0.14}, 0.01, 0.4},
		{"exp floor", recipe{peak: 1, decay: 0.1}, 0.1, decayFloor},
		{"linear half", recipe{peak: 0.8, decay: 0.4, linDecay: true}, 0.2, 0.4},
		{"linear end", recipe{peak: 0.8, decay: 0.4, linDecay: true}, 0.5, 0},
	}

	for _, tc := range tests {
		e := &envelope{r: tc.r}
		if got := e.gainAt(tc.t); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("%s: gainAt(%v) = %v, expected %v", tc.name, tc.t, got, tc.expected)
		}
	}
}

func TestOscillatorGlide(t *testing.T) {
	o := &oscillator{r: recipes[beat.KindHit]}
	if f := o.freqAt(0.2); math.Abs(f-25) > 1e-9 {
		t.Errorf("linear glide midpoint = %v, expected 25", f)
	}

	o = &oscillator{r: recipes[beat.KindKick]}
	if f := o.freqAt(1); math.Abs(f-42) > 1e-9 {
		t.Errorf("glide should settle on the end frequency, got %v", f)
	}
}

func TestSchedulerDrivesEngine(t *testing.T) {
	e := newEngine(testConfig())
	s := beat.New(e, config.DefaultRunnerConfig().Beat, e)

	if !s.Start() {
		t.Fatal("scheduler should start on an enabled engine")
	}
	if e.Pending() == 0 {
		t.Error("first scan should queue voices")
	}
}
