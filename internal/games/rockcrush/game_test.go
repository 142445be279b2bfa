package rockcrush

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/vovakirdan/rock-crush/internal/config"
	"github.com/vovakirdan/rock-crush/internal/core"
	"github.com/vovakirdan/rock-crush/internal/games/rockcrush/engine"
)

// swapRows has no runs; swapping (3,2) and (3,3) lines up three 3s.
func swapRows() [][]engine.Kind {
	return [][]engine.Kind{
		{1, 2, 3, 4},
		{3, 4, 1, 2},
		{1, 2, 3, 4},
		{3, 3, 1, 3},
	}
}

// newTestGame starts a 4x4 game on an 80x24 screen, optionally on a fixed board.
func newTestGame(t *testing.T, g *Game, rows [][]engine.Kind) *Game {
	t.Helper()

	g.cfg = config.DefaultCrushConfig()
	g.cfg.Board.Size = 4
	if g.mode == ModeEndless {
		g.cfg.Gameplay.Moves = 0
	}
	g.start(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7})

	if rows != nil {
		err := g.session.Restore(engine.State{
			Grid:      rows,
			MovesLeft: g.cfg.Gameplay.Moves,
			Status:    engine.StatusPlaying,
		})
		if err != nil {
			t.Fatalf("Restore: %v", err)
		}
	}
	g.hint = nil
	g.hintTicks = 0
	return g
}

// glyphAt returns the screen position of a cell's rock.
func glyphAt(g *Game, p engine.Pos) (int, int) {
	x, y := g.layout.cellOrigin(p)
	return x + 1, y
}

func tapInput(g *Game, p engine.Pos) core.InputFrame {
	in := core.NewInputFrame()
	in.SetTap(glyphAt(g, p))
	return in
}

func actionInput(a core.Action) core.InputFrame {
	in := core.NewInputFrame()
	in.Set(a)
	return in
}

// playbackTicks sums the display time of the queued frames.
func playbackTicks(g *Game) int {
	total := g.frameTicks
	for _, f := range g.frames[1:] {
		total += g.phaseTicks(f.Phase)
	}
	return total
}

func TestIDsAndTitles(t *testing.T) {
	tests := []struct {
		game  *Game
		id    string
		title string
	}{
		{New(), "rockcrush", "Rock Crush"},
		{NewEndless(), "rockcrush_endless", "Rock Crush (Endless)"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := tt.game.ID(); got != tt.id {
				t.Errorf("ID() = %q, want %q", got, tt.id)
			}
			if got := tt.game.Title(); got != tt.title {
				t.Errorf("Title() = %q, want %q", got, tt.title)
			}
		})
	}
}

func TestEngineConfig(t *testing.T) {
	cfg := config.DefaultCrushConfig()

	classic := EngineConfig(cfg, ModeClassic)
	want := engine.DefaultConfig()
	if classic != want {
		t.Errorf("EngineConfig(default, classic) = %+v, want %+v", classic, want)
	}

	cfg.Gameplay.Moves = 0
	endless := EngineConfig(cfg, ModeEndless)
	if endless.HighScoreKey != "rockCrushHighScore:endless" {
		t.Errorf("endless key = %q, want %q", endless.HighScoreKey, "rockCrushHighScore:endless")
	}
	if endless.MovesBudget != 0 {
		t.Errorf("endless budget = %d, want 0", endless.MovesBudget)
	}
}

func TestLayoutCellAt(t *testing.T) {
	l := computeLayout(4, 80, 24)
	if !l.fits {
		t.Fatal("4x4 board should fit 80x24")
	}

	// Board is 14 wide, so the border starts at x=33 and the first cell at x=34.
	tests := []struct {
		name string
		x, y int
		want engine.Pos
		ok   bool
	}{
		{"top left bracket", 34, 4, engine.P(0, 0), true},
		{"top left rock", 35, 4, engine.P(0, 0), true},
		{"second column", 37, 4, engine.P(0, 1), true},
		{"bottom right", 45, 7, engine.P(3, 3), true},
		{"border", 33, 4, engine.Pos{}, false},
		{"past right edge", 46, 4, engine.Pos{}, false},
		{"hud", 40, 1, engine.Pos{}, false},
		{"below board", 40, 8, engine.Pos{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.cellAt(tt.x, tt.y)
			if ok != tt.ok || got != tt.want {
				t.Errorf("cellAt(%d, %d) = %v, %v, want %v, %v", tt.x, tt.y, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTooSmallScreen(t *testing.T) {
	g := New()
	g.cfg = config.DefaultCrushConfig()
	g.start(core.RuntimeConfig{ScreenW: 20, ScreenH: 10, Seed: 1})

	if !g.State().Paused {
		t.Error("too small screen should report paused")
	}

	g.Step(actionInput(core.ActionRight))
	if g.cursor != engine.P(4, 4) {
		t.Errorf("cursor moved to %v on a too small screen", g.cursor)
	}

	scr := core.NewScreen(20, 10)
	g.Render(scr)
	if !strings.Contains(scr.String(), "Window too small") {
		t.Errorf("render = %q, want too small message", scr.String())
	}
}

func TestCursorMovesAndClamps(t *testing.T) {
	g := newTestGame(t, New(), swapRows())
	g.cursor = engine.P(0, 0)

	steps := []struct {
		action core.Action
		want   engine.Pos
	}{
		{core.ActionUp, engine.P(0, 0)},
		{core.ActionLeft, engine.P(0, 0)},
		{core.ActionRight, engine.P(0, 1)},
		{core.ActionDown, engine.P(1, 1)},
		{core.ActionRight, engine.P(1, 2)},
		{core.ActionRight, engine.P(1, 3)},
		{core.ActionRight, engine.P(1, 3)},
	}

	for i, s := range steps {
		g.Step(actionInput(s.action))
		if g.cursor != s.want {
			t.Fatalf("step %d (%v): cursor = %v, want %v", i, s.action, g.cursor, s.want)
		}
	}
}

func TestConfirmSelectsAtCursor(t *testing.T) {
	g := newTestGame(t, New(), swapRows())
	g.cursor = engine.P(1, 1)

	g.Step(actionInput(core.ActionConfirm))
	sel := g.session.Snapshot().Selected
	if sel == nil || *sel != engine.P(1, 1) {
		t.Fatalf("selected = %v, want (1,1)", sel)
	}

	g.Step(actionInput(core.ActionConfirm))
	if sel := g.session.Snapshot().Selected; sel != nil {
		t.Errorf("second confirm should deselect, selected = %v", *sel)
	}
}

func TestTapSwapPlaysBackCascade(t *testing.T) {
	g := newTestGame(t, New(), swapRows())

	g.Step(tapInput(g, engine.P(3, 2)))
	if g.cursor != engine.P(3, 2) {
		t.Errorf("tap should move cursor, got %v", g.cursor)
	}
	if g.animating() {
		t.Fatal("first tap should only select")
	}

	g.Step(tapInput(g, engine.P(3, 3)))
	if !g.animating() {
		t.Fatal("accepted swap should start playback")
	}
	if f, _ := g.currentFrame(); f.Phase != engine.PhaseSwap {
		t.Errorf("first frame phase = %v, want swap", f.Phase)
	}

	score := g.session.Score()
	if score < 30 || score%10 != 0 {
		t.Errorf("score = %d, want a multiple of 10 of at least 30", score)
	}
	if got := g.session.MovesLeft(); got != 29 {
		t.Errorf("moves left = %d, want 29", got)
	}

	// Input during playback is ignored.
	cursor := g.cursor
	total := playbackTicks(g)
	for range total - 1 {
		g.Step(actionInput(core.ActionLeft))
		if !g.animating() {
			t.Fatal("playback ended early")
		}
	}
	if g.cursor != cursor {
		t.Errorf("cursor moved during playback: %v", g.cursor)
	}

	g.Step(core.NewInputFrame())
	if g.animating() {
		t.Error("playback should end after its ticks")
	}
}

func TestZeroTickPhasesAreSkipped(t *testing.T) {
	g := newTestGame(t, New(), swapRows())
	g.cfg.Animation.SwapTicks = 0
	g.cfg.Animation.ClearTicks = 0
	g.cfg.Animation.DropTicks = 0

	g.Step(tapInput(g, engine.P(3, 2)))
	g.Step(tapInput(g, engine.P(3, 3)))

	if g.animating() {
		t.Error("no frames should play when every phase has zero ticks")
	}
	if g.session.Score() < 30 {
		t.Errorf("score = %d, want at least 30", g.session.Score())
	}
}

func TestRejectedSwapFlashesMessage(t *testing.T) {
	g := newTestGame(t, New(), swapRows())
	before := g.session.Snapshot().Grid

	g.Step(tapInput(g, engine.P(0, 0)))
	g.Step(tapInput(g, engine.P(0, 1)))

	if g.message != "No match" {
		t.Errorf("message = %q, want %q", g.message, "No match")
	}
	if g.animating() {
		t.Error("rejected swap should not animate")
	}
	st := g.session.Snapshot()
	if st.Selected != nil {
		t.Errorf("selection should clear after a reject, got %v", *st.Selected)
	}
	for r := range before {
		for c := range before[r] {
			if st.Grid[r][c] != before[r][c] {
				t.Fatalf("grid changed at (%d,%d)", r, c)
			}
		}
	}

	for range messageTicks {
		g.Step(core.NewInputFrame())
	}
	if g.message != "" {
		t.Errorf("message should expire, got %q", g.message)
	}
}

func TestOutOfMovesEndsAfterPlayback(t *testing.T) {
	g := newTestGame(t, New(), nil)
	store := engine.NewMemoryStore()
	g.UseStore(store)
	g.start(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7})
	if err := g.session.Restore(engine.State{Grid: swapRows(), MovesLeft: 1, Status: engine.StatusPlaying}); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	g.Step(tapInput(g, engine.P(3, 2)))
	g.Step(tapInput(g, engine.P(3, 3)))

	if g.session.Status() != engine.StatusGameOver {
		t.Fatalf("status = %v, want game over", g.session.Status())
	}
	if g.State().GameOver {
		t.Error("game over should wait for playback")
	}

	for range playbackTicks(g) {
		g.Step(core.NewInputFrame())
	}
	if !g.State().GameOver {
		t.Fatal("game over should show after playback")
	}

	moves, reason := g.Result()
	if moves != 1 || reason != "out_of_moves" {
		t.Errorf("Result() = %d, %q, want 1, %q", moves, reason, "out_of_moves")
	}

	v, ok, err := store.Get("rockCrushHighScore")
	if err != nil || !ok {
		t.Fatalf("high score not stored: ok=%v err=%v", ok, err)
	}
	if v != strconv.Itoa(g.session.Score()) {
		t.Errorf("stored high score = %q, want %d", v, g.session.Score())
	}

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	if !strings.Contains(scr.String(), "GAME OVER") || !strings.Contains(scr.String(), "Out of moves") {
		t.Errorf("game over overlay missing:\n%s", scr.String())
	}
}

// flakyStore fails the first writes and then behaves like a MemoryStore.
type flakyStore struct {
	*engine.MemoryStore
	failures int
}

func (f *flakyStore) Set(key, value string) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("database is locked")
	}
	return f.MemoryStore.Set(key, value)
}

func TestRetrySaveAfterFailedHighScore(t *testing.T) {
	g := newTestGame(t, New(), nil)
	store := &flakyStore{MemoryStore: engine.NewMemoryStore(), failures: 1}
	g.UseStore(store)
	g.start(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7})
	if err := g.session.Restore(engine.State{Grid: swapRows(), MovesLeft: 1, Status: engine.StatusPlaying}); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	g.Step(tapInput(g, engine.P(3, 2)))
	g.Step(tapInput(g, engine.P(3, 3)))
	for range playbackTicks(g) {
		g.Step(core.NewInputFrame())
	}
	if !g.State().GameOver || g.session.PersistErr() == nil {
		t.Fatalf("want game over with a failed save, over=%v err=%v", g.State().GameOver, g.session.PersistErr())
	}

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	if !strings.Contains(scr.String(), "Retry save") {
		t.Errorf("game over box should offer a retry:\n%s", scr.String())
	}

	g.Step(actionInput(core.ActionConfirm))
	if err := g.session.PersistErr(); err != nil {
		t.Fatalf("retry should clear the error, got %v", err)
	}
	if g.message != "High score saved" {
		t.Errorf("message = %q, want %q", g.message, "High score saved")
	}
	if v, ok, _ := store.Get("rockCrushHighScore"); !ok || v != strconv.Itoa(g.session.Score()) {
		t.Errorf("stored high score = %q (ok=%v), want %d", v, ok, g.session.Score())
	}
}

func TestResultBeforeGameOver(t *testing.T) {
	g := newTestGame(t, New(), swapRows())
	moves, reason := g.Result()
	if moves != 0 || reason != "quit" {
		t.Errorf("Result() = %d, %q, want 0, %q", moves, reason, "quit")
	}
}

func TestHintLimit(t *testing.T) {
	g := newTestGame(t, New(), swapRows())
	g.cfg.Gameplay.HintLimit = 1

	g.Step(actionInput(core.ActionHint))
	if g.hint == nil {
		t.Fatal("first hint should be shown")
	}
	if !g.hint.A.Adjacent(g.hint.B) {
		t.Errorf("hint %v is not an adjacent swap", *g.hint)
	}
	if g.hintsUsed != 1 {
		t.Errorf("hintsUsed = %d, want 1", g.hintsUsed)
	}

	g.hint = nil
	g.Step(actionInput(core.ActionHint))
	if g.hint != nil {
		t.Error("hint shown past the limit")
	}
	if g.message != "No hints left" {
		t.Errorf("message = %q, want %q", g.message, "No hints left")
	}
}

func TestHintExpires(t *testing.T) {
	g := newTestGame(t, New(), swapRows())
	g.cfg.Gameplay.HintLimit = 0
	g.cfg.Animation.HintTicks = 3

	g.Step(actionInput(core.ActionHint))
	if g.hint == nil {
		t.Fatal("hint should be shown with no limit")
	}
	for range 3 {
		g.Step(core.NewInputFrame())
	}
	if g.hint != nil {
		t.Error("hint should expire")
	}
}

func TestPauseBlocksInput(t *testing.T) {
	g := newTestGame(t, New(), swapRows())
	g.cursor = engine.P(0, 0)

	g.Step(actionInput(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("game should be paused")
	}
	g.Step(actionInput(core.ActionRight))
	if g.cursor != engine.P(0, 0) {
		t.Errorf("cursor moved while paused: %v", g.cursor)
	}

	g.Step(actionInput(core.ActionPause))
	g.Step(actionInput(core.ActionRight))
	if g.cursor != engine.P(0, 1) {
		t.Errorf("cursor = %v after resume, want (0,1)", g.cursor)
	}
}

func TestRenderBoard(t *testing.T) {
	g := newTestGame(t, New(), swapRows())
	scr := core.NewScreen(80, 24)
	g.Render(scr)

	if !strings.Contains(scr.Row(0), "Rock Crush") {
		t.Errorf("title row = %q", scr.Row(0))
	}
	if !strings.Contains(scr.Row(1), "Score: 0") || !strings.Contains(scr.Row(1), "Moves: 30/30") {
		t.Errorf("hud row = %q", scr.Row(1))
	}

	tests := []struct {
		pos  engine.Pos
		kind engine.Kind
	}{
		{engine.P(0, 0), 1},
		{engine.P(0, 1), 2},
		{engine.P(1, 1), 4},
		{engine.P(3, 2), 1},
	}
	for _, tt := range tests {
		x, y := glyphAt(g, tt.pos)
		cell := scr.GetCell(x, y)
		want := RockFor(tt.kind)
		if cell.Rune != want.Glyph || cell.Color != want.Color {
			t.Errorf("cell %v = %q/%v, want %q/%v", tt.pos, cell.Rune, cell.Color, want.Glyph, want.Color)
		}
	}

	// Cursor starts in the middle and is drawn as a background.
	x, y := glyphAt(g, engine.P(2, 2))
	if bg := scr.GetCell(x, y).Background; bg != core.ColorGray {
		t.Errorf("cursor background = %v, want gray", bg)
	}
}

func TestRenderSelection(t *testing.T) {
	g := newTestGame(t, New(), swapRows())
	g.Step(tapInput(g, engine.P(0, 0)))

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	x, y := g.layout.cellOrigin(engine.P(0, 0))
	if scr.Get(x, y) != '[' || scr.Get(x+2, y) != ']' {
		t.Errorf("selection brackets = %q %q", scr.Get(x, y), scr.Get(x+2, y))
	}
}

func TestEndlessHUD(t *testing.T) {
	g := newTestGame(t, NewEndless(), swapRows())
	scr := core.NewScreen(80, 24)
	g.Render(scr)
	if !strings.Contains(scr.Row(1), "Moves: 0") {
		t.Errorf("endless hud = %q, want moves used", scr.Row(1))
	}

	g.Step(tapInput(g, engine.P(3, 2)))
	g.Step(tapInput(g, engine.P(3, 3)))
	if g.session.MovesUsed() != 1 {
		t.Fatalf("moves used = %d, want 1", g.session.MovesUsed())
	}
	for range playbackTicks(g) {
		g.Step(core.NewInputFrame())
	}
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 9})
	g.Render(scr)
	if !strings.Contains(scr.Row(1), "Moves: 0") {
		t.Errorf("hud after restart = %q, want moves used back at 0", scr.Row(1))
	}
	if g.session.Config().MovesBudget != 0 {
		t.Errorf("endless budget = %d, want 0", g.session.Config().MovesBudget)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := newTestGame(t, New(), swapRows())
	g.Step(tapInput(g, engine.P(3, 2)))
	g.Step(tapInput(g, engine.P(3, 3)))
	for range playbackTicks(g) {
		g.Step(core.NewInputFrame())
	}
	snap := g.Snapshot()

	other := newTestGame(t, New(), nil)
	if err := other.ApplySnapshot(snap); err != nil {
		t.Fatalf("ApplySnapshot: %v", err)
	}
	got := other.Snapshot()
	if got.Hash() != snap.Hash() {
		t.Errorf("hash after restore = %d, want %d", got.Hash(), snap.Hash())
	}
	if other.session.Score() != g.session.Score() {
		t.Errorf("score = %d, want %d", other.session.Score(), g.session.Score())
	}

	endless := newTestGame(t, NewEndless(), nil)
	if err := endless.ApplySnapshot(snap); err == nil {
		t.Error("ApplySnapshot should reject a snapshot from another mode")
	}

	snap.Board = snap.Board[:3]
	if err := other.ApplySnapshot(snap); err == nil {
		t.Error("ApplySnapshot should reject a truncated board")
	}
}

func TestSameSeedSameBoard(t *testing.T) {
	a := newTestGame(t, New(), nil)
	b := newTestGame(t, New(), nil)

	sa, sb := a.Snapshot(), b.Snapshot()
	if sa.Hash() != sb.Hash() {
		t.Error("games with the same seed should start on the same board")
	}
}

func TestLoadConfigModes(t *testing.T) {
	classic := LoadConfig(ModeClassic, config.DifficultyHard)
	if classic.Board.Palette != 6 || classic.Gameplay.Moves != 25 {
		t.Errorf("hard classic = palette %d, moves %d, want 6, 25", classic.Board.Palette, classic.Gameplay.Moves)
	}

	endless := LoadConfig(ModeEndless, config.DifficultyEasy)
	if endless.Gameplay.Moves != 0 {
		t.Errorf("endless moves = %d, want 0", endless.Gameplay.Moves)
	}
	if endless.Board.Palette != 4 {
		t.Errorf("easy palette = %d, want 4", endless.Board.Palette)
	}
}

func TestSetPresetOverridesPackageDifficulty(t *testing.T) {
	g := New()
	if g.preset != GetDifficulty() {
		t.Errorf("new game preset = %q, want %q", g.preset, GetDifficulty())
	}
	g.SetPreset(config.DifficultyEasy)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 3})
	if got := g.session.Config().PaletteSize; got != 4 {
		t.Errorf("palette = %d, want 4", got)
	}
}

func TestResizeKeepsGame(t *testing.T) {
	g := newTestGame(t, New(), swapRows())
	g.Step(tapInput(g, engine.P(0, 0)))

	g.Resize(20, 10)
	if !g.State().Paused {
		t.Error("shrinking below the board should pause")
	}

	g.Resize(100, 30)
	if g.State().Paused {
		t.Error("growing back should resume")
	}
	if sel := g.session.Snapshot().Selected; sel == nil || *sel != engine.P(0, 0) {
		t.Errorf("resize lost the selection: %v", sel)
	}
	if x, _ := g.layout.cellOrigin(engine.P(0, 0)); x != (100-14)/2+1 {
		t.Errorf("board not re-centered, first cell at x=%d", x)
	}
}

func TestStepWithoutSession(t *testing.T) {
	g := New()
	res := g.Step(actionInput(core.ActionConfirm))
	if res.State.GameOver || res.State.Score != 0 {
		t.Errorf("state = %+v, want zero state", res.State)
	}
	if moves, reason := g.Result(); moves != 0 || reason != "" {
		t.Errorf("Result() = %d, %q, want 0, empty", moves, reason)
	}
}

func TestInvalidConfigFallsBackToDefaults(t *testing.T) {
	g := New()
	g.cfg = config.DefaultCrushConfig()
	g.cfg.Board.Palette = 1
	g.start(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})

	if g.session == nil {
		t.Fatal("session not created")
	}
	if got := g.session.Config().PaletteSize; got != config.DefaultCrushConfig().Board.Palette {
		t.Errorf("palette = %d, want the default %d", got, config.DefaultCrushConfig().Board.Palette)
	}
}
