package audio

import (
	"math"
	"math/rand"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/beatrunner/internal/beat"
)

type waveType int

const (
	waveSine waveType = iota
	waveSquare
	waveSaw
	waveTriangle
	waveNoise
)

// recipe describes one synthesized voice. Times are in seconds.
type recipe struct {
	wave     waveType
	freq     float64 // Start frequency; overridden by a pitched event
	endFreq  float64 // Zero holds freq
	glide    float64
	linGlide bool // Linear instead of exponential pitch glide

	peak     float64
	attack   float64 // Linear ramp from silence to peak
	decay    float64 // Time from peak to the floor
	linDecay bool    // Linear to zero instead of exponential to the floor
	length   float64
}

const decayFloor = 0.001

var recipes = map[beat.Kind]recipe{
	beat.KindKick:          {wave: waveSine, freq: 85, endFreq: 42, glide: 0.12, peak: 1.4, decay: 0.28, length: 0.3},
	beat.KindAccent:        {wave: waveNoise, peak: 0.07, decay: 0.08, length: 0.1},
	beat.KindHat:           {wave: waveNoise, peak: 0.025, decay: 0.015, length: 0.015},
	beat.KindBass:          {wave: waveSquare, peak: 0.4, attack: 0.01, decay: 0.14, length: 0.15},
	beat.KindArp:           {wave: waveSaw, peak: 0.08, attack: 0.005, decay: 0.115, length: 0.15},
	beat.KindVariationBeep: {wave: waveSine, freq: 1760, peak: 0.05, decay: 0.05, length: 0.05},
	beat.KindCollect:       {wave: waveTriangle, freq: 523.25, endFreq: 1046.5, glide: 0.05, peak: 0.2, decay: 0.08, length: 0.08},
	beat.KindHit:           {wave: waveSaw, freq: 40, endFreq: 10, glide: 0.4, linGlide: true, peak: 0.8, decay: 0.4, linDecay: true, length: 0.4},
}

// newVoice renders an event into a finite streamer. Unknown kinds yield nil.
func newVoice(ev beat.Event, rate beep.SampleRate, seed int64) beep.Streamer {
	r, ok := recipes[ev.Kind]
	if !ok {
		return nil
	}
	if ev.Freq > 0 {
		r.freq = ev.Freq
	}

	var src beep.Streamer
	if r.wave == waveSine && r.endFreq == 0 {
		if tone, err := generators.SineTone(rate, r.freq); err == nil {
			src = tone
		}
	}
	if src == nil {
		src = &oscillator{r: r, rate: float64(rate), rng: rand.New(rand.NewSource(seed))}
	}

	return &envelope{
		streamer: src,
		r:        r,
		rate:     float64(rate),
		total:    rate.N(secondsToDuration(r.length)),
	}
}

// oscillator generates a raw wave, gliding pitch when the recipe asks for it.
type oscillator struct {
	r     recipe
	rate  float64
	pos   int
	phase float64
	rng   *rand.Rand
}

func (o *oscillator) freqAt(t float64) float64 {
	if o.r.endFreq <= 0 || o.r.glide <= 0 {
		return o.r.freq
	}
	p := math.Min(t/o.r.glide, 1)
	if o.r.linGlide {
		return o.r.freq + (o.r.endFreq-o.r.freq)*p
	}
	return o.r.freq * math.Pow(o.r.endFreq/o.r.freq, p)
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		var val float64
		switch o.r.wave {
		case waveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case waveSquare:
			if o.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case waveSaw:
			val = 2 * (o.phase - 0.5)
		case waveTriangle:
			val = 4*math.Abs(o.phase-0.5) - 1
		case waveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		t := float64(o.pos) / o.rate
		o.phase += o.freqAt(t) / o.rate
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies the recipe's gain curve and ends the voice after total samples.
type envelope struct {
	streamer beep.Streamer
	r        recipe
	rate     float64
	pos      int
	total    int
}

func (e *envelope) gainAt(t float64) float64 {
	r := e.r
	if t < r.attack {
		return r.peak * t / r.attack
	}
	d := t - r.attack
	if r.decay <= 0 {
		return r.peak
	}
	if r.linDecay {
		return math.Max(0, r.peak*(1-d/r.decay))
	}
	return r.peak * math.Pow(decayFloor/r.peak, math.Min(d/r.decay, 1))
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	remaining := e.total - e.pos
	if remaining <= 0 {
		return 0, false
	}
	if len(samples) > remaining {
		samples = samples[:remaining]
	}

	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := e.gainAt(float64(e.pos) / e.rate)
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, n > 0
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear gain. math.Log2(0) is -Inf, so zero is silent.
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
