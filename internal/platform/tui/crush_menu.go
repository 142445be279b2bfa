package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rock-crush/internal/config"
	"github.com/vovakirdan/rock-crush/internal/core"
	"github.com/vovakirdan/rock-crush/internal/games/rockcrush"
)

// CrushSelection holds the user's choices from the Rock Crush setup screen.
type CrushSelection struct {
	Mode       rockcrush.Mode
	Difficulty config.DifficultyPreset
}

// GameID returns the registry ID for the selected mode.
func (s CrushSelection) GameID() string {
	if s.Mode == rockcrush.ModeEndless {
		return "rockcrush_endless"
	}
	return "rockcrush"
}

// setupRow is a line of the setup screen.
type setupRow int

const (
	rowMode setupRow = iota
	rowDifficulty
	rowStart
	rowCount
)

var setupModes = []struct {
	mode rockcrush.Mode
	name string
	info string
}{
	{rockcrush.ModeClassic, "Classic", "limited moves, chase the high score"},
	{rockcrush.ModeEndless, "Endless", "no move limit, play until the board locks up"},
}

var presetInfo = map[config.DifficultyPreset]string{
	config.DifficultyEasy:   "4 kinds of rock, 40 moves, unlimited hints",
	config.DifficultyNormal: "5 kinds of rock, 30 moves, 3 hints",
	config.DifficultyHard:   "6 kinds of rock, 25 moves, 1 hint",
}

// setupKeyMap is shown in the help line of the setup screen.
type setupKeyMap struct {
	Move   key.Binding
	Change key.Binding
	Start  key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func (k setupKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Change, k.Start, k.Back, k.Quit}
}

func (k setupKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultSetupKeyMap() setupKeyMap {
	return setupKeyMap{
		Move:   key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "move")),
		Change: key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "change")),
		Start:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// CrushSetupModel lets users choose the mode and difficulty before a game.
type CrushSetupModel struct {
	row       setupRow
	modeIdx   int
	presetIdx int
	presets   []config.DifficultyPreset
	width     int
	height    int
	keyMapper *KeyMapper
	keys      setupKeyMap
	help      help.Model
	selection CrushSelection
	choosing  bool
	quitting  bool
	back      bool
}

// NewCrushSetupModel creates the setup screen, preselecting the given preset.
func NewCrushSetupModel(width, height int, preset config.DifficultyPreset) CrushSetupModel {
	presets := config.Presets()
	idx := 0
	for i, p := range presets {
		if p == preset {
			idx = i
		}
	}

	h := help.New()
	h.Width = width

	return CrushSetupModel{
		row:       rowStart,
		presetIdx: idx,
		presets:   presets,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		keys:      defaultSetupKeyMap(),
		help:      h,
		choosing:  true,
	}
}

// Init initializes the model.
func (m CrushSetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m CrushSetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m CrushSetupModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	case MenuActionUp:
		if m.row > rowMode {
			m.row--
		}
	case MenuActionDown:
		if m.row < rowCount-1 {
			m.row++
		}
	case MenuActionLeft:
		m.change(-1)
	case MenuActionRight:
		m.change(1)
	case MenuActionSelect:
		if m.row != rowStart {
			m.change(1)
			return m, nil
		}
		m.choosing = false
		m.selection = CrushSelection{
			Mode:       setupModes[m.modeIdx].mode,
			Difficulty: m.presets[m.presetIdx],
		}
		return m, tea.Quit
	}
	return m, nil
}

// change cycles the option on the current row.
func (m *CrushSetupModel) change(delta int) {
	switch m.row {
	case rowMode:
		m.modeIdx = (m.modeIdx + delta + len(setupModes)) % len(setupModes)
	case rowDifficulty:
		m.presetIdx = (m.presetIdx + delta + len(m.presets)) % len(m.presets)
	}
}

// View renders the setup screen.
func (m CrushSetupModel) View() string {
	if m.quitting || m.back || !m.choosing {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("R O C K   C R U S H"), m.width))
	b.WriteString("\n\n")

	mode := setupModes[m.modeIdx]
	preset := m.presets[m.presetIdx]
	rows := []struct {
		label string
		value string
		info  string
	}{
		{"Mode", mode.name, mode.info},
		{"Difficulty", strings.ToUpper(string(preset[:1])) + string(preset[1:]), presetInfo[preset]},
		{"", "Start", ""},
	}
	if mode.mode == rockcrush.ModeEndless {
		rows[1].info = strings.Split(presetInfo[preset], ",")[0]
	}

	for i, r := range rows {
		line := fmt.Sprintf("%-10s  < %s >", r.label, r.value)
		if setupRow(i) == rowStart {
			line = fmt.Sprintf("[ %s ]", r.value)
		}
		if setupRow(i) == m.row {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
		if r.info != "" {
			b.WriteString(centerText(subtleStyle.Render(r.info), m.width))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(centerText(m.help.View(m.keys), m.width))
	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m CrushSetupModel) Selected() *CrushSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m CrushSetupModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m CrushSetupModel) WantsBack() bool {
	return m.back
}

// RunCrushSetup runs the setup screen and returns the selection.
// A nil selection means the user backed out or quit.
func RunCrushSetup(cfg core.RuntimeConfig, preset config.DifficultyPreset) (*CrushSelection, bool, error) {
	model := NewCrushSetupModel(cfg.ScreenW, cfg.ScreenH, preset)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, false, err
	}

	m, ok := finalModel.(CrushSetupModel)
	if !ok {
		return nil, true, nil
	}

	return m.Selected(), m.IsQuitting(), nil
}
