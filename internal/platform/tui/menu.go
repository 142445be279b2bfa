package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/rock-crush/internal/core"
	"github.com/vovakirdan/rock-crush/internal/games/rockcrush"
	"github.com/vovakirdan/rock-crush/internal/games/rockcrush/engine"
	"github.com/vovakirdan/rock-crush/internal/storage"
)

// menuEntry is a line of the main menu.
type menuEntry int

const (
	entryPlay menuEntry = iota
	entryScores
	entryQuit
)

var menuLabels = map[menuEntry]string{
	entryPlay:   "Play",
	entryScores: "Scoreboard",
	entryQuit:   "Quit",
}

// Shared menu styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	entries        []menuEntry
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	best           int // Classic high score
	bestEndless    int
	quitting       bool
	play           bool
	openScoreboard bool
}

// NewMenuModel creates the main menu, reading best scores from store.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		entries:     []menuEntry{entryPlay, entryScores, entryQuit},
		width:       cfg.ScreenW,
		height:      cfg.ScreenH,
		config:      cfg,
		keyMapper:   NewKeyMapper(),
		best:        bestScore(store, "rockcrush"),
		bestEndless: bestScore(store, "rockcrush_endless"),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}

	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = (m.cursor - 1 + len(m.entries)) % len(m.entries)

	case MenuActionDown:
		m.cursor = (m.cursor + 1) % len(m.entries)

	case MenuActionSelect:
		return m.choose(m.entries[m.cursor])

	case MenuActionScoreboard:
		return m.choose(entryScores)
	}

	return m, nil
}

// choose acts on a menu entry; every choice ends the menu.
func (m MenuModel) choose(e menuEntry) (tea.Model, tea.Cmd) {
	switch e {
	case entryPlay:
		m.play = true
	case entryScores:
		m.openScoreboard = true
	default:
		m.quitting = true
	}
	return m, tea.Quit
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("R O C K   C R U S H"), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(rockBanner(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(subtleStyle.Render("Line up three or more rocks to crush them"), m.width))
	b.WriteString("\n\n")

	for i, e := range m.entries {
		line := "  " + menuLabels[e] + "  "
		if i == m.cursor {
			line = selectedStyle.Render("> " + menuLabels[e] + " <")
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.best > 0 || m.bestEndless > 0 {
		b.WriteString("\n")
		best := fmt.Sprintf("Best: %d classic  ·  %d endless", m.best, m.bestEndless)
		b.WriteString(centerText(subtleStyle.Render(best), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(subtleStyle.Render("↑/↓ move  enter choose  tab scores  q quit"), m.width))
	b.WriteString("\n")

	return b.String()
}

// WantsPlay returns true if the user chose to play.
func (m MenuModel) WantsPlay() bool {
	return m.play
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// rockBanner renders one rock of each kind in its color.
func rockBanner() string {
	glyphs := make([]string, 0, 8)
	for k := engine.Kind(1); k <= 8; k++ {
		r := rockcrush.RockFor(k)
		glyphs = append(glyphs, cellStyle{fg: r.Color}.style().Render(string(r.Glyph)))
	}
	return strings.Join(glyphs, " ")
}

// bestScore returns the best recorded score of a mode, or 0 without a store.
func bestScore(store *storage.Store, gameID string) int {
	if store == nil {
		return 0
	}
	best, err := store.HighScore(gameID)
	if err != nil {
		logger.Warn("cannot read best score", "game", gameID, "error", err)
		return 0
	}
	return best
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Config          core.RuntimeConfig
	Play            bool
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns what the user chose.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(store, cfg), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	return MenuResult{
		Config:          m.Config(),
		Play:            m.WantsPlay(),
		WantsScoreboard: m.WantsScoreboard(),
		Quit:            m.IsQuitting() || !(m.WantsPlay() || m.WantsScoreboard()),
	}, nil
}
