// Package audio renders beat events into sound with beep and exposes the
// audio clock the beat scheduler schedules against.
package audio

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/beatrunner/internal/beat"
	"github.com/vovakirdan/beatrunner/internal/config"
)

// ErrDisabled is returned by Open when audio is turned off in config.
var ErrDisabled = errors.New("audio: disabled")

var (
	speakerOnce sync.Once
	speakerErr  error
)

// Engine mixes scheduled voices onto a single output stream. Its clock is
// the number of samples the output device has pulled.
//
// A disabled Engine is valid: it reports itself unavailable, its clock reads
// zero and triggers are dropped.
type Engine struct {
	enabled  bool
	rate     beep.SampleRate
	mixer    *beep.Mixer
	out      beep.Streamer
	analyser *Analyser
	played   atomic.Int64
	voices   atomic.Int64 // Seeds noise voices

	// Guard mixer mutations against the output goroutine
	lock   func()
	unlock func()
}

// Disabled returns an engine that produces no sound.
func Disabled() *Engine {
	return &Engine{analyser: NewAnalyser(0, 0, 0)}
}

// Open initialises the speaker and starts streaming. The speaker is set up
// once per process; if that fails, or audio is off in cfg, Open returns a
// disabled engine together with the reason.
func Open(cfg config.AudioConfig, logger *log.Logger) (*Engine, error) {
	if !cfg.Enabled {
		return Disabled(), ErrDisabled
	}

	e := newEngine(cfg)
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(e.rate, e.rate.N(time.Duration(cfg.BufferMs)*time.Millisecond))
	})
	if speakerErr != nil {
		if logger != nil {
			logger.Warn("audio unavailable, continuing silent", "err", speakerErr)
		}
		return Disabled(), fmt.Errorf("audio: init speaker: %w", speakerErr)
	}

	e.lock, e.unlock = speaker.Lock, speaker.Unlock
	speaker.Play(e.out)
	if logger != nil {
		logger.Debug("audio started", "rate", int(e.rate), "buffer_ms", cfg.BufferMs)
	}
	return e, nil
}

// newEngine builds the mixing graph without touching the output device.
func newEngine(cfg config.AudioConfig) *Engine {
	rate := beep.SampleRate(cfg.SampleRate)
	if rate <= 0 {
		rate = 44100
	}
	e := &Engine{
		enabled:  true,
		rate:     rate,
		mixer:    &beep.Mixer{},
		analyser: NewAnalyser(int(rate), cfg.LowBandHz, cfg.IntensityGain),
		lock:     func() {},
		unlock:   func() {},
	}
	e.out = &tap{
		streamer: newVolume(e.mixer, cfg.MasterGain),
		engine:   e,
	}
	return e
}

// Available reports whether sound is actually produced.
func (e *Engine) Available() bool {
	return e.enabled
}

// Now returns the audio clock in seconds.
func (e *Engine) Now() float64 {
	if !e.enabled {
		return 0
	}
	return float64(e.played.Load()) / float64(e.rate)
}

// Trigger queues the voice for ev, delayed until ev.Time on the audio clock.
// Events already in the past start immediately.
func (e *Engine) Trigger(ev beat.Event) {
	if !e.enabled {
		return
	}
	v := newVoice(ev, e.rate, e.voices.Add(1))
	if v == nil {
		return
	}

	// The output goroutine advances the clock while holding the lock, so the
	// delay is measured only once it is ours.
	e.lock()
	defer e.unlock()
	if delay := int((ev.Time - e.Now()) * float64(e.rate)); delay > 0 {
		v = beep.Seq(beep.Silence(delay), v)
	}
	e.mixer.Add(v)
}

// Pending returns the number of voices still queued or playing.
func (e *Engine) Pending() int {
	if !e.enabled {
		return 0
	}
	e.lock()
	defer e.unlock()
	return e.mixer.Len()
}

// Refresh publishes a new intensity reading. Call once per display frame.
func (e *Engine) Refresh() {
	e.analyser.Refresh()
}

// Intensity returns the current low-band energy in [0, 1].
func (e *Engine) Intensity() float64 {
	return e.analyser.Intensity()
}

// Close drops every queued voice. The speaker itself stays open for the
// life of the process.
func (e *Engine) Close() {
	if !e.enabled {
		return
	}
	e.lock()
	e.mixer.Clear()
	e.unlock()
}

// tap advances the clock and feeds the analyser with the mixed output.
// It never drains: gaps in the mix are filled with silence so the clock
// keeps running while nothing is queued.
type tap struct {
	streamer beep.Streamer
	engine   *Engine
}

func (t *tap) Stream(samples [][2]float64) (n int, ok bool) {
	n, _ = t.streamer.Stream(samples)
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	t.engine.analyser.observe(samples)
	t.engine.played.Add(int64(len(samples)))
	return len(samples), true
}

func (t *tap) Err() error { return t.streamer.Err() }

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
