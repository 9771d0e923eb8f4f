package tui

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/beatrunner/internal/audio"
	"github.com/vovakirdan/beatrunner/internal/beat"
	"github.com/vovakirdan/beatrunner/internal/config"
	"github.com/vovakirdan/beatrunner/internal/core"
	"github.com/vovakirdan/beatrunner/internal/review"
	"github.com/vovakirdan/beatrunner/internal/runner"
	"github.com/vovakirdan/beatrunner/internal/storage"
)

type screenState int

const (
	stateMenu screenState = iota
	statePlaying
	stateGameOver
	stateScores
)

// Options configures an App.
type Options struct {
	Config    config.RunnerConfig
	Runtime   core.RuntimeConfig
	Engine    *audio.Engine   // nil plays silent
	Store     *storage.Store  // nil keeps no run log
	Reviewer  review.Reviewer // nil uses review.New(Config.Review)
	Logger    *log.Logger     // nil discards
	SessionID string          // Empty generates one
}

// session holds the state shared by every copy of the value-receiver App.
type session struct {
	runGen    uint64 // Bumped per run; stale frame and strobe ticks are dropped
	reviewSeq uint64
	over      bool // Set by the loop's game-over callback
	final     int
	record    int
	lastScore int
}

// App is the Bubble Tea model for a runner session: main menu, play,
// game over and the session scoreboard.
type App struct {
	cfg       config.RunnerConfig
	runtime   core.RuntimeConfig
	sessionID string

	loop     *runner.Loop
	sched    *beat.Scheduler
	engine   *audio.Engine
	store    *storage.Store
	reviewer review.Reviewer
	logger   *log.Logger

	screen    *core.Screen
	keyMapper *KeyMapper
	help      help.Model
	board     ScoreboardModel

	state    screenState
	sess     *session
	epoch    time.Time
	strobe   bool
	review   string
	quitting bool
}

// NewApp creates the session model.
func NewApp(opts Options) App {
	rt := opts.Runtime
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	if rt.TickRate <= 0 {
		rt.TickRate = 60
	}

	engine := opts.Engine
	if engine == nil {
		engine = audio.Disabled()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	reviewer := opts.Reviewer
	if reviewer == nil {
		reviewer = review.New(opts.Config.Review)
	}
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sched := beat.New(engine, opts.Config.Beat, engine)

	return App{
		cfg:       opts.Config,
		runtime:   rt,
		sessionID: sessionID,
		loop:      runner.New(opts.Config, sched, rt.Seed),
		sched:     sched,
		engine:    engine,
		store:     opts.Store,
		reviewer:  reviewer,
		logger:    logger.With("session", sessionID[:min(8, len(sessionID))]),
		screen:    core.NewScreen(rt.ScreenW, rt.ScreenH),
		keyMapper: NewKeyMapper(),
		help:      help.New(),
		state:     stateMenu,
		sess:      &session{},
		epoch:     time.Now(),
	}
}

// Init implements tea.Model.
func (m App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.runtime.ScreenW = msg.Width
		m.runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		if m.state == stateScores {
			m.board = m.board.Resize(msg.Width, msg.Height)
		}
		return m, nil

	case FrameMsg:
		return m.handleFrame(msg)

	case BeatMsg:
		if m.sched.Tick(msg.Gen) {
			return m, beatCmd(m.sched.Interval(), msg.Gen)
		}
		return m, nil

	case StrobeMsg:
		return m.handleStrobe(msg)

	case ReviewMsg:
		if msg.Seq == m.sess.reviewSeq {
			m.review = msg.Text
		}
		return m, nil
	}

	if m.state == stateScores {
		var cmd tea.Cmd
		m.board, cmd = m.board.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKey(msg)
	if action == core.ActionQuit {
		return m.quit()
	}

	switch m.state {
	case stateMenu:
		switch action {
		case core.ActionConfirm:
			return m.startRun()
		case core.ActionScores:
			return m.openScores(), nil
		}

	case statePlaying:
		switch action {
		case core.ActionLeft:
			m.loop.ShiftLeft()
		case core.ActionRight:
			m.loop.ShiftRight()
		}

	case stateGameOver:
		switch action {
		case core.ActionConfirm, core.ActionRetry:
			return m.startRun()
		case core.ActionMenu:
			m.state = stateMenu
		case core.ActionScores:
			return m.openScores(), nil
		}

	case stateScores:
		if action == core.ActionMenu {
			m.state = stateMenu
			return m, nil
		}
		var cmd tea.Cmd
		m.board, cmd = m.board.Update(msg)
		return m, cmd
	}

	return m, nil
}

// startRun begins a new run and arms the frame, beat and strobe timers.
func (m App) startRun() (tea.Model, tea.Cmd) {
	s := m.sess
	s.runGen++
	s.reviewSeq++ // Drop any review still in flight
	s.over = false

	m.loop.Start(m.now(time.Now()), func(final int) {
		s.over = true
		s.final = final
	})
	m.state = statePlaying
	m.strobe = false
	m.review = ""

	cmds := []tea.Cmd{
		frameCmd(m.runtime.TickRate, s.runGen),
		strobeCmd(m.strobeEvery(), s.runGen, true),
	}
	if m.sched.Start() {
		cmds = append(cmds, beatCmd(m.sched.Interval(), m.sched.Generation()))
	}

	m.logger.Debug("run started", "run", s.runGen, "audio", m.engine.Available())
	return m, tea.Batch(cmds...)
}

func (m App) handleFrame(msg FrameMsg) (tea.Model, tea.Cmd) {
	if m.state != statePlaying || msg.Gen != m.sess.runGen {
		return m, nil
	}

	m.engine.Refresh()
	if m.loop.Tick(m.now(msg.At)) {
		return m, frameCmd(m.runtime.TickRate, msg.Gen)
	}
	return m.endRun()
}

// endRun moves to the game-over screen once the loop has stopped.
func (m App) endRun() (tea.Model, tea.Cmd) {
	s := m.sess
	m.sched.Stop()
	m.strobe = false
	m.state = stateGameOver

	snap := m.loop.Snapshot()
	final := snap.Player.Score
	if s.over {
		final = s.final
	}
	s.lastScore = final
	if final > s.record {
		s.record = final
	}

	if m.store != nil {
		_, err := m.store.SaveRun(storage.Run{
			SessionID: m.sessionID,
			Score:     final,
			Collected: snap.Collected,
			Duration:  snap.Elapsed,
			MaxSpeed:  snap.Speed,
		})
		if err != nil {
			m.logger.Warn("could not record run", "err", err)
		}
	}
	m.logger.Info("run over", "score", final, "collected", snap.Collected, "elapsed", snap.Elapsed.Round(time.Millisecond))

	s.reviewSeq++
	m.review = review.Loading
	return m, reviewCmd(m.reviewer, s.reviewSeq, final, m.cfg.Review.Timeout())
}

func (m App) handleStrobe(msg StrobeMsg) (tea.Model, tea.Cmd) {
	if m.state != statePlaying || msg.Gen != m.sess.runGen {
		m.strobe = false
		return m, nil
	}
	m.strobe = msg.On
	if !msg.On {
		return m, nil
	}
	flash := time.Duration(m.cfg.Visual.StrobeFlashMs) * time.Millisecond
	return m, tea.Batch(
		strobeCmd(flash, msg.Gen, false),
		strobeCmd(m.strobeEvery(), msg.Gen, true),
	)
}

func (m App) openScores() App {
	m.board = NewScoreboardModel(m.store, m.sessionID, m.runtime.ScreenW, m.runtime.ScreenH)
	m.state = stateScores
	return m
}

func (m App) quit() (tea.Model, tea.Cmd) {
	m.sched.Stop()
	m.engine.Close()
	m.quitting = true
	return m, tea.Quit
}

// now converts a wall-clock frame time into the loop's host timestamp.
func (m App) now(t time.Time) time.Duration {
	return t.Sub(m.epoch)
}

func (m App) strobeEvery() time.Duration {
	ms := m.cfg.Visual.StrobeMs
	if ms <= 0 {
		ms = 435
	}
	return time.Duration(ms) * time.Millisecond
}

// View implements tea.Model.
func (m App) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case statePlaying:
		drawPlayfield(m.screen, m.loop.Snapshot(), m.cfg, hud{
			record:    m.sess.record,
			intensity: m.engine.Intensity(),
			strobe:    m.strobe,
			audio:     m.engine.Available(),
		})
		return RenderScreen(m.screen)
	case stateGameOver:
		return m.place(m.gameOverView())
	case stateScores:
		return m.board.View()
	default:
		return m.place(m.menuView())
	}
}

// Record returns the best score of this session.
func (m App) Record() int {
	return m.sess.record
}

// Run starts the Bubble Tea program for a local session.
func Run(opts Options) error {
	app := NewApp(opts)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
