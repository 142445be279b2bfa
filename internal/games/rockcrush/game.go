// Package rockcrush adapts the tile-matching engine to the platform: it maps
// cursor and pointer input to taps, replays cascades at a visible pace and
// draws the board.
package rockcrush

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rock-crush/internal/config"
	"github.com/vovakirdan/rock-crush/internal/core"
	"github.com/vovakirdan/rock-crush/internal/games/rockcrush/engine"
	"github.com/vovakirdan/rock-crush/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic Mode = "classic" // Fixed move budget
	ModeEndless Mode = "endless" // Unlimited moves, ends on stalemate
)

const (
	messageTicks = 90 // How long status messages stay up
)

// Game implements Rock Crush on top of engine.Session.
type Game struct {
	mode    Mode
	preset  config.DifficultyPreset
	cfg     config.CrushConfig
	session *engine.Session
	store   engine.Store
	memory  *engine.MemoryStore // Used when the platform gives no store
	tick    uint64

	// Screen dimensions
	screenW  int
	screenH  int
	tooSmall bool
	layout   layout

	cursor engine.Pos
	paused bool

	// Cascade playback: frames still to show and ticks left on the current one
	frames     []engine.Frame
	frameTicks int

	hint      *engine.Move
	hintTicks int
	hintsUsed int

	message      string
	messageTicks int
}

// Package-level variables for config
var (
	configPath string
	difficulty = config.DifficultyNormal
	logger     = log.New(io.Discard)
)

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficulty sets the difficulty preset for games created afterwards.
func SetDifficulty(preset config.DifficultyPreset) {
	difficulty = preset
}

// GetDifficulty returns the currently selected preset.
func GetDifficulty() config.DifficultyPreset {
	return difficulty
}

// SetLogger routes engine and game diagnostics to l.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// New creates a classic mode game using the package difficulty.
func New() *Game {
	return &Game{mode: ModeClassic, preset: difficulty, memory: engine.NewMemoryStore()}
}

// NewEndless creates an endless mode game using the package difficulty.
func NewEndless() *Game {
	return &Game{mode: ModeEndless, preset: difficulty, memory: engine.NewMemoryStore()}
}

// SetPreset overrides the difficulty for this game only. Takes effect on the next Reset.
func (g *Game) SetPreset(p config.DifficultyPreset) {
	g.preset = p
}

func init() {
	registry.Register("rockcrush", func() registry.Game {
		return New()
	})
	registry.Register("rockcrush_endless", func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "rockcrush_endless"
	}
	return "rockcrush"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Rock Crush (Endless)"
	}
	return "Rock Crush"
}

// UseStore makes the game keep its high score in st.
func (g *Game) UseStore(st registry.KVStore) {
	g.store = st
}

// LoadConfig resolves the config for a mode: file chain, difficulty preset,
// then the mode's move rule.
func LoadConfig(mode Mode, preset config.DifficultyPreset) config.CrushConfig {
	cfg, err := config.LoadCrush(configPath)
	if err != nil {
		logger.Warn("using default config", "path", configPath, "error", err)
		cfg = config.DefaultCrushConfig()
	}
	config.ApplyCrushPreset(&cfg, preset)
	if mode == ModeEndless {
		cfg.Gameplay.Moves = 0
	}
	return cfg
}

// EngineConfig converts a loaded config to session parameters.
// Endless games keep a separate high score.
func EngineConfig(cfg config.CrushConfig, mode Mode) engine.Config {
	key := cfg.Storage.HighScoreKey
	if mode == ModeEndless {
		key += ":endless"
	}
	return engine.Config{
		GridSize:        cfg.Board.Size,
		PaletteSize:     cfg.Board.Palette,
		MovesBudget:     cfg.Gameplay.Moves,
		PointsPerTile:   cfg.Gameplay.PointsPerTile,
		MaxRetries:      cfg.Generator.MaxRetries,
		MaxReshuffles:   cfg.Generator.MaxReshuffles,
		MaxCascadeSteps: cfg.Cascade.MaxSteps,
		HighScoreKey:    key,
	}
}

// Reset initializes/restarts the game with a fresh board.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.cfg = LoadConfig(g.mode, g.preset)
	g.start(cfg)
}

// start builds a new session from g.cfg.
func (g *Game) start(cfg core.RuntimeConfig) {
	store := g.store
	if store == nil {
		store = g.memory
	}
	rng := engine.NewRandom(cfg.Seed)
	opts := []engine.Option{engine.WithStore(store), engine.WithLogger(logger)}

	s, err := engine.New(EngineConfig(g.cfg, g.mode), rng, opts...)
	if err != nil {
		logger.Error("invalid board config, falling back to defaults", "error", err)
		g.cfg = config.DefaultCrushConfig()
		if g.mode == ModeEndless {
			g.cfg.Gameplay.Moves = 0
		}
		s, err = engine.New(EngineConfig(g.cfg, g.mode), rng, opts...)
		if err != nil {
			logger.Error("default board config rejected, keeping the current game", "error", err)
			return
		}
	}

	g.session = s
	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.cursor = engine.P(g.cfg.Board.Size/2, g.cfg.Board.Size/2)
	g.paused = false
	g.frames = nil
	g.frameTicks = 0
	g.hint = nil
	g.hintTicks = 0
	g.hintsUsed = 0
	g.message = ""
	g.messageTicks = 0

	// A fresh board may already be down to one move
	if a, err := s.Analyze(); err == nil && a.Hint != nil {
		g.showHint(*a.Hint)
	}

	g.checkScreenSize()
}

// Resize adapts the layout to a new terminal size without restarting the game.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// checkScreenSize computes the layout and whether it fits.
func (g *Game) checkScreenSize() {
	g.layout = computeLayout(g.cfg.Board.Size, g.screenW, g.screenH)
	g.tooSmall = !g.layout.fits
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.session == nil || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	// Handle pause
	if in.Has(core.ActionPause) && !g.over() {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.advanceTimers()

	// Input is ignored while a cascade is on screen
	if g.animating() {
		g.advancePlayback()
		return core.StepResult{State: g.State()}
	}

	if g.session.Status() == engine.StatusGameOver {
		// Restart is handled by the platform
		if in.Has(core.ActionConfirm) && g.session.PersistErr() != nil {
			g.retrySave()
		}
		return core.StepResult{State: g.State()}
	}

	g.handleInput(in)
	return core.StepResult{State: g.State()}
}

// handleInput moves the cursor and turns confirm/tap into engine taps.
func (g *Game) handleInput(in core.InputFrame) {
	last := g.cfg.Board.Size - 1

	switch {
	case in.Has(core.ActionUp):
		g.cursor.Row = core.Clamp(g.cursor.Row-1, 0, last)
	case in.Has(core.ActionDown):
		g.cursor.Row = core.Clamp(g.cursor.Row+1, 0, last)
	case in.Has(core.ActionLeft):
		g.cursor.Col = core.Clamp(g.cursor.Col-1, 0, last)
	case in.Has(core.ActionRight):
		g.cursor.Col = core.Clamp(g.cursor.Col+1, 0, last)
	}

	if in.Tap != nil {
		if p, ok := g.layout.cellAt(in.Tap.X, in.Tap.Y); ok {
			g.cursor = p
			g.tap(p)
			return
		}
	}

	switch {
	case in.Has(core.ActionConfirm):
		g.tap(g.cursor)
	case in.Has(core.ActionHint):
		g.requestHint()
	}
}

// tap forwards one select to the engine and reacts to the outcome.
func (g *Game) tap(p engine.Pos) {
	turn, err := g.session.Select(p)
	switch {
	case errors.Is(err, engine.ErrBusy), errors.Is(err, engine.ErrGameOver):
		return
	case err != nil:
		g.flash("Can't select there")
		return
	}

	switch turn.Outcome {
	case engine.OutcomeRejected:
		g.flash("No match")
	case engine.OutcomeAccepted:
		g.play(turn)
	}
}

// play queues a turn's frames and posts its messages.
func (g *Game) play(turn engine.Turn) {
	g.hint = nil
	g.hintTicks = 0
	g.startPlayback(turn.Frames)

	switch {
	case turn.PersistErr != nil:
		logger.Warn("high score not saved", "error", turn.PersistErr)
		g.flash("High score not saved!")
	case turn.NewHighScore:
		g.flash("New high score!")
	case turn.Rounds > 1:
		g.flash(comboText(turn.Rounds, turn.Points))
	}

	if turn.Hint != nil {
		g.showHint(*turn.Hint)
	}
}

// retrySave writes the high score again after a failed save.
func (g *Game) retrySave() {
	if err := g.session.PersistHighScore(); err != nil {
		logger.Warn("high score still not saved", "error", err)
		g.flash("High score not saved!")
		return
	}
	g.flash("High score saved")
}

// requestHint shows a suggested move, counting it against the hint limit.
func (g *Game) requestHint() {
	limit := g.cfg.Gameplay.HintLimit
	if limit > 0 && g.hintsUsed >= limit {
		g.flash("No hints left")
		return
	}
	m, ok := g.session.SuggestMove()
	if !ok {
		return
	}
	g.hintsUsed++
	g.showHint(m)
}

func (g *Game) showHint(m engine.Move) {
	g.hint = &m
	g.hintTicks = g.cfg.Animation.HintTicks
}

func (g *Game) flash(msg string) {
	g.message = msg
	g.messageTicks = messageTicks
}

func (g *Game) advanceTimers() {
	if g.messageTicks > 0 {
		g.messageTicks--
		if g.messageTicks == 0 {
			g.message = ""
		}
	}
	// Hints count down only once the board has settled on screen
	if g.hintTicks > 0 && !g.animating() {
		g.hintTicks--
		if g.hintTicks == 0 {
			g.hint = nil
		}
	}
}

// over reports whether the game has ended and its last cascade was shown.
func (g *Game) over() bool {
	return g.session != nil && g.session.Status() == engine.StatusGameOver && !g.animating()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.session.Score(),
		GameOver: g.over(),
		Paused:   g.paused || g.tooSmall,
	}
}

// Result reports the moves spent and the end reason for the score history.
func (g *Game) Result() (int, string) {
	if g.session == nil {
		return 0, ""
	}
	st := g.session.Snapshot()
	if st.EndReason == engine.EndNone {
		return st.MovesUsed, "quit"
	}
	return st.MovesUsed, st.EndReason.String()
}

// Session exposes the underlying engine session.
func (g *Game) Session() *engine.Session {
	return g.session
}
