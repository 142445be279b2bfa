package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rock-crush/internal/core"
	"github.com/vovakirdan/rock-crush/internal/registry"
	"github.com/vovakirdan/rock-crush/internal/storage"
)

// helpHeight is the number of rows below the game kept for key help.
const helpHeight = 1

var controlsStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("208")).
	Padding(1, 2)

// Model is the Bubble Tea model for running a game.
type Model struct {
	game         registry.Game
	screen       *core.Screen
	store        *storage.Store
	config       core.RuntimeConfig // Game area; the terminal is helpHeight rows taller
	keyMapper    *KeyMapper
	help         help.Model
	inputFrame   core.InputFrame
	gameState    core.GameState
	showControls bool
	quitting     bool
	backToMenu   bool
	resultSaved  bool // Whether the current game has been recorded
}

// logger receives platform diagnostics; the alt screen owns the terminal.
var logger = log.New(io.Discard)

// SetLogger routes platform diagnostics to l.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// NewModel creates a new Bubble Tea model for the given game.
// Games that keep state in the platform store get it before their first Reset.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	if su, ok := game.(registry.StoreUser); ok && store != nil {
		su.UseStore(store)
	}

	h := help.New()
	h.Width = cfg.ScreenW
	cfg.ScreenH = gameHeight(cfg.ScreenH)

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       h,
		inputFrame: core.NewInputFrame(),
	}
}

// gameHeight returns the rows left for the game in a terminal of height h.
func gameHeight(h int) int {
	return max(h-helpHeight, 0)
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if !m.showControls {
			m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input. While the controls panel is open only
// the toggle and quit keys are handled.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys
	if key.Matches(msg, keys.Controls) {
		m.showControls = !m.showControls
		return m, nil
	}
	if m.showControls && !key.Matches(msg, keys.Quit) {
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.saveResult()
		m.quitting = true
		return m, tea.Quit
	}

	// Back to menu only from the pause or game over screens
	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.saveResult()
		m.backToMenu = true
		return m, tea.Quit
	}

	if key.Matches(msg, keys.Screenshot) {
		if err := m.saveScreenshot(); err != nil {
			logger.Warn("screenshot failed", "error", err)
		}
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = gameHeight(msg.Height)
	m.screen.Resize(m.config.ScreenW, m.config.ScreenH)
	m.help.Width = msg.Width

	// Games that can relayout keep their progress
	if r, ok := m.game.(registry.Resizable); ok {
		r.Resize(m.config.ScreenW, m.config.ScreenH)
		return m, nil
	}
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		// Reset seed for new game
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.resultSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	// Run game simulation
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Record the game once it ends
	if m.gameState.GameOver {
		m.saveResult()
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// saveResult records the current game in the score history, once.
// Games left before they end are recorded only if they scored.
func (m *Model) saveResult() {
	if m.resultSaved || m.store == nil {
		return
	}
	if !m.gameState.GameOver && m.gameState.Score == 0 {
		return
	}

	res := storage.GameResult{GameID: m.game.ID(), Score: m.gameState.Score}
	if rr, ok := m.game.(registry.ResultReporter); ok {
		res.MovesUsed, res.EndReason = rr.Result()
	}

	if _, err := m.store.SaveResult(res); err != nil {
		logger.Warn("score not saved", "game", res.GameID, "error", err)
	}
	m.resultSaved = true
}

// saveScreenshot saves the current screen as text under ~/.rockcrush/screenshots.
func (m *Model) saveScreenshot() error {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	dir := filepath.Join(home, ".rockcrush", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	logger.Info("screenshot saved", "path", path)
	return nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	keys := m.keyMapper.Keys
	var board string
	if m.showControls {
		keys.Controls.SetHelp("c", "hide controls")
		panel := controlsStyle.Render(titleStyle.Render("Controls") + "\n\n" + m.help.FullHelpView(keys.FullHelp()))
		board = lipgloss.Place(m.config.ScreenW, m.config.ScreenH, lipgloss.Center, lipgloss.Center, panel)
	} else {
		m.game.Render(m.screen)
		board = RenderScreen(m.screen)
	}

	return board + "\n" + centerText(m.help.ShortHelpView(keys.ShortHelp()), m.config.ScreenW)
}

// ShowingControls reports whether the controls panel is open.
func (m Model) ShowingControls() bool {
	return m.showControls
}

// IsQuitting returns true if the user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked to go back to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
// Returns true if the player asked to go back to the menu.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	model := NewModel(game, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Clicks select rocks
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(Model)
	return ok && m.BackToMenu(), nil
}
