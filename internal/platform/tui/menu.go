package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/beatrunner/internal/review"
)

// menuView renders the title panel.
func (m App) menuView() string {
	var b strings.Builder
	b.WriteString(taglineStyle.Render("FOLLOW THE BEAT"))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("B E A T R U N N E R"))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Catch the ♪ for " + strconv.Itoa(m.cfg.Scoring.CollectReward) + " points. Dodge the ▀█▀."))
	b.WriteString("\n")
	if m.sess.record > 0 {
		b.WriteString(dimStyle.Render("Session record: " + strconv.Itoa(m.sess.record)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keyMapper.Keys().helpFor(stateMenu)))
	return panelStyle.Render(b.String())
}

func (m App) gameOverView() string {
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		statBlock("SCORE", scoreStyle.Render(strconv.Itoa(m.sess.lastScore))),
		"      ",
		statBlock("RECORD", recordStyle.Render(strconv.Itoa(m.sess.record))),
	)

	text := m.review
	if text != review.Loading {
		text = "\"" + text + "\""
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		alertStyle.Render("PERFORMANCE TERMINATED"),
		"",
		stats,
		"",
		panelStyle.Render(dimStyle.Render("CRITIC'S REVIEW")+"\n\n"+reviewStyle.Render(text)),
		"",
		m.help.View(m.keyMapper.Keys().helpFor(stateGameOver)),
	)
}

func statBlock(label, value string) string {
	return lipgloss.JoinVertical(lipgloss.Center, dimStyle.Render(label), value)
}

// place centers content in the window.
func (m App) place(content string) string {
	if m.runtime.ScreenW <= 0 || m.runtime.ScreenH <= 0 {
		return content
	}
	return lipgloss.Place(m.runtime.ScreenW, m.runtime.ScreenH, lipgloss.Center, lipgloss.Center, content)
}

