package audio

import (
	"math"
	"sync"
)

// Analyser measures low-frequency energy of the mixed output. The audio
// goroutine feeds it through observe; the UI publishes a reading once per
// frame with Refresh and reads it with Intensity.
type Analyser struct {
	mu    sync.Mutex
	alpha float64 // One-pole low-pass coefficient
	lp    float64
	sum   float64
	count int

	gain  float64
	level float64 // Last published reading, UI goroutine only
}

// NewAnalyser creates an analyser with the given low-pass cutoff.
// gain scales the low-band RMS into the [0, 1] reading.
func NewAnalyser(rate int, cutoffHz, gain float64) *Analyser {
	alpha := 1.0
	if rate > 0 && cutoffHz > 0 {
		alpha = 1 - math.Exp(-2*math.Pi*cutoffHz/float64(rate))
	}
	return &Analyser{alpha: alpha, gain: gain}
}

func (a *Analyser) observe(samples [][2]float64) {
	a.mu.Lock()
	for _, s := range samples {
		mono := (s[0] + s[1]) / 2
		a.lp += a.alpha * (mono - a.lp)
		a.sum += a.lp * a.lp
	}
	a.count += len(samples)
	a.mu.Unlock()
}

// Refresh publishes the energy observed since the previous call.
// With no new samples the reading decays toward zero.
func (a *Analyser) Refresh() {
	a.mu.Lock()
	sum, count := a.sum, a.count
	a.sum, a.count = 0, 0
	a.mu.Unlock()

	if count == 0 {
		a.level *= 0.8
		return
	}
	rms := math.Sqrt(sum / float64(count))
	a.level = math.Min(1, rms*a.gain)
}

// Intensity returns the last published reading in [0, 1].
func (a *Analyser) Intensity() float64 {
	return a.level
}
