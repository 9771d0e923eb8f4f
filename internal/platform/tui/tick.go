// Package tui hosts the runner in a Bubble Tea program. All timers are
// delivered as messages to the single Update goroutine, which is the only
// place the simulation, beat scheduler and session state are touched.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/beatrunner/internal/review"
)

// FrameMsg asks the runner for one display frame.
type FrameMsg struct {
	Gen uint64 // Run the frame belongs to
	At  time.Time
}

// BeatMsg is one period of the beat scheduler's timer.
type BeatMsg struct {
	Gen uint64 // Scheduler generation that armed the timer
}

// StrobeMsg switches the strobe flash on or off.
type StrobeMsg struct {
	Gen uint64
	On  bool
}

// ReviewMsg delivers the critic's review for a finished run.
type ReviewMsg struct {
	Seq  uint64
	Text string
}

// frameCmd returns a command that delivers the next frame at the given rate.
func frameCmd(fps int, gen uint64) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{Gen: gen, At: t}
	})
}

func beatCmd(interval time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return BeatMsg{Gen: gen}
	})
}

func strobeCmd(after time.Duration, gen uint64, on bool) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return StrobeMsg{Gen: gen, On: on}
	})
}

// reviewCmd fetches the review off the Update goroutine.
func reviewCmd(r review.Reviewer, seq uint64, score int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ReviewMsg{Seq: seq, Text: review.Fetch(context.Background(), r, score, timeout)}
	}
}
