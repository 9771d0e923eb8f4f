package main

import (
	"errors"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/beatrunner/internal/audio"
	"github.com/vovakirdan/beatrunner/internal/core"
	"github.com/vovakirdan/beatrunner/internal/platform/tui"
	"github.com/vovakirdan/beatrunner/internal/review"
	"github.com/vovakirdan/beatrunner/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a session",
	Long: `Start a session in this terminal.

Controls:
  Left/A/H    - Move one lane left
  Right/D/L   - Move one lane right
  Enter/R     - Start or retry
  M/Esc       - Main menu
  S           - Runs of this session
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - Slow start, gentle ramp, long grace period
  normal - Default ramp
  hard   - Fast start, steep ramp, short grace period
  fixed  - No speed ramp

Runs are kept only while the program is open.

Examples:
  beatrunner play
  beatrunner play --difficulty easy
  beatrunner play --config ./my-runner.yaml --mute`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	// Logs must not reach the alt screen
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	engine, err := audio.Open(cfg.Audio, logger)
	if err != nil && !errors.Is(err, audio.ErrDisabled) {
		logger.Warn("playing without sound", "err", err)
	}
	defer engine.Close()

	store, err := storage.Open()
	if err != nil {
		logger.Warn("could not open run log", "err", err)
		store = nil
	}
	defer store.Close()

	sessionID := uuid.NewString()
	logger.Info("session started", "session", sessionID, "audio", engine.Available(), "difficulty", flagDifficulty)

	runErr := tui.Run(tui.Options{
		Config: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Engine:    engine,
		Store:     store,
		Reviewer:  review.New(cfg.Review),
		Logger:    logger,
		SessionID: sessionID,
	})

	if best, err := store.Best(sessionID); err == nil {
		logger.Info("session ended", "session", sessionID, "best", best)
	}
	return runErr
}
