// Package beat implements the look-ahead step sequencer that drives the
// soundtrack. It emits timestamped events on the audio clock; rendering them
// into sound is the job of whatever Sink is subscribed.
package beat

// Kind identifies the instrument voice an event should trigger.
type Kind int

const (
	KindKick Kind = iota
	KindAccent
	KindHat
	KindBass
	KindArp
	KindVariationBeep
	KindCollect // Reaction one-shot, not part of the pattern
	KindHit     // Reaction one-shot, not part of the pattern
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindKick:
		return "kick"
	case KindAccent:
		return "accent"
	case KindHat:
		return "hat"
	case KindBass:
		return "bass"
	case KindArp:
		return "arp"
	case KindVariationBeep:
		return "variation"
	case KindCollect:
		return "collect"
	case KindHit:
		return "hit"
	default:
		return "unknown"
	}
}

// Event is one voice to start at Time seconds on the audio clock.
type Event struct {
	Kind Kind
	Time float64
	Step int
	Freq float64 // Zero for unpitched voices
}

// PatternLength is the default number of steps before the step index wraps.
const PatternLength = 512

// PhraseLength is the number of steps between variation changes. Pattern
// lengths must be a multiple of it.
const PhraseLength = 64

var (
	bassNotes = [4]float64{32.70, 36.71, 38.89, 43.65}
	arpNotes  = [5]float64{261.63, 311.13, 349.23, 392.00, 466.16}
)

const variationBeepFreq = 1760.0

// Pattern returns the events for one step under the given variation, in
// trigger order. Time is left zero for the scheduler to stamp.
func Pattern(step, variation int) []Event {
	return PatternOf(step, PatternLength, variation)
}

// PatternOf is Pattern for a sequence that wraps after length steps.
func PatternOf(step, length, variation int) []Event {
	step = mod(step, length)
	events := make([]Event, 0, 4)

	if step%4 == 0 {
		events = append(events, Event{Kind: KindKick, Step: step})
	}
	if step%8 == 4 {
		events = append(events, Event{Kind: KindAccent, Step: step})
	}
	if step%2 == 1 {
		events = append(events, Event{Kind: KindHat, Step: step})
	}
	if step%4 != 0 {
		events = append(events, Event{Kind: KindBass, Step: step, Freq: bassNotes[(step%16)/4]})
	}
	if step%16 < 12 && step%2 == 0 {
		events = append(events, Event{Kind: KindArp, Step: step, Freq: arpNotes[step%5]})
	}
	if variation > 1 && step%32 == 28 {
		events = append(events, Event{Kind: KindVariationBeep, Step: step, Freq: variationBeepFreq})
	}

	return events
}

// NextVariation returns the variation in effect for step, given the one in
// effect before it. The counter advances at the top of every 64-step phrase.
func NextVariation(step, variation int) int {
	if mod(step, PhraseLength) == 0 {
		return (variation + 1) % 4
	}
	return variation
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
