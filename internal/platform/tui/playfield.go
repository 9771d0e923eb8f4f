package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/beatrunner/internal/config"
	"github.com/vovakirdan/beatrunner/internal/core"
	"github.com/vovakirdan/beatrunner/internal/runner"
)

const (
	gridColumnStep = 6
	gridRowStep    = 3
	speedBarWidth  = 10
)

// hud carries the session values the playfield shows around the simulation.
type hud struct {
	record    int
	intensity float64
	strobe    bool
	audio     bool
}

// drawPlayfield renders a runner snapshot onto the screen. Row 0 holds the
// HUD; the rest is the lane column, mapped from percent coordinates.
func drawPlayfield(s *core.Screen, snap runner.Snapshot, cfg config.RunnerConfig, h hud) {
	s.Clear()
	if s.Width() < 3 || s.Height() < 4 {
		s.DrawText(0, 0, "too small", core.ColorRed)
		return
	}

	field := core.NewRect(0, 1, s.Width(), s.Height()-1)
	drawGrid(s, field, h.intensity >= cfg.Visual.IntensityThreshold, h.strobe)

	positions := lanePositions(cfg.Lanes)
	for _, pct := range positions {
		x := core.PercentToCell(pct, field.X, field.W)
		color := core.ColorGray
		if h.strobe {
			color = core.ColorBrightWhite
		}
		s.DrawVLine(x, field.Y, field.H, '┊', color)
	}

	for _, obj := range snap.Objects {
		if obj.Lane < 0 || obj.Lane >= len(positions) {
			continue
		}
		x := core.PercentToCell(positions[obj.Lane], field.X, field.W)
		y := core.PercentToCell(obj.Y, field.Y, field.H)
		if y < field.Y || y >= field.Bottom() {
			continue
		}
		switch obj.Kind {
		case runner.KindCollectible:
			s.SetColored(x, y, '♪', core.ColorBrightCyan)
		case runner.KindHazard:
			s.DrawText(x-1, y, "▀█▀", core.ColorBrightRed)
		}
	}

	if p := snap.Player; p.Lane >= 0 && p.Lane < len(positions) {
		x := core.PercentToCell(positions[p.Lane], field.X, field.W)
		y := core.Clamp(core.PercentToCell(p.Y, field.Y, field.H), field.Y, field.Bottom()-1)
		s.DrawText(x-1, y, "/◆\\", core.ColorBrightWhite)
	}

	drawHUD(s, snap, h)
}

// drawGrid fills the background. The grid lights up while the low end of
// the mix is loud.
func drawGrid(s *core.Screen, field core.Rect, lit, strobe bool) {
	color := core.ColorDeepCyan
	if lit {
		color = core.ColorDeepPurple
	}
	if strobe {
		color = core.ColorGray
	}
	for y := field.Y; y < field.Bottom(); y++ {
		if (y-field.Y)%gridRowStep != 0 {
			continue
		}
		for x := field.X; x < field.Right(); x += gridColumnStep {
			s.SetColored(x, y, '·', color)
		}
	}
}

func drawHUD(s *core.Screen, snap runner.Snapshot, h hud) {
	left := fmt.Sprintf(" SCORE %d  RECORD %d", snap.Player.Score, h.record)
	s.DrawText(0, 0, left, core.ColorBrightWhite)

	filled := int(snap.Level*speedBarWidth + 0.5)
	bar := strings.Repeat("▮", filled) + strings.Repeat("▯", speedBarWidth-filled)
	right := "SPEED " + bar + " "
	if !h.audio {
		right = "MUTE  " + right
	}
	s.DrawText(s.Width()-len([]rune(right)), 0, right, core.ColorCyan)
}

// lanePositions returns the horizontal lane centers in percent. Without
// configured positions the lanes are spread evenly.
func lanePositions(cfg config.LanesConfig) []float64 {
	if len(cfg.Positions) == cfg.Count && cfg.Count > 0 {
		return cfg.Positions
	}
	out := make([]float64, cfg.Count)
	for i := range out {
		out[i] = (float64(i) + 0.5) * 100 / float64(cfg.Count)
	}
	return out
}
