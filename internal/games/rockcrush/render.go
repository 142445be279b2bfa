package rockcrush

import (
	"fmt"

	"github.com/vovakirdan/rock-crush/internal/core"
	"github.com/vovakirdan/rock-crush/internal/games/rockcrush/engine"
)

const (
	cellWidth = 3 // Bracket, rock, bracket
	hudHeight = 3
	footerH   = 1 // Status message; key help is drawn by the platform
	minWidth  = 44 // Widest HUD line
)

// Rock is how one kind is drawn.
type Rock struct {
	Name  string
	Glyph rune
	Color core.Color
}

// rocks maps kinds 1..8 to their look; index 0 is Empty.
var rocks = [...]Rock{
	{"Empty", ' ', core.ColorDefault},
	{"Green", '●', core.ColorBrightGreen},
	{"Blue", '◆', core.ColorBrightBlue},
	{"Red", '▲', core.ColorBrightRed},
	{"Yellow", '■', core.ColorBrightYellow},
	{"Pink", '★', core.ColorPink},
	{"Cyan", '♥', core.ColorBrightCyan},
	{"Orange", '✚', core.ColorOrange},
	{"White", '◉', core.ColorBrightWhite},
}

// RockFor returns the glyph and color of a kind.
func RockFor(k engine.Kind) Rock {
	if int(k) < len(rocks) {
		return rocks[k]
	}
	return Rock{"Unknown", '?', core.ColorGray}
}

// layout places the board on screen.
type layout struct {
	fits  bool
	size  int
	board core.Rect // Including the border
}

func computeLayout(size, screenW, screenH int) layout {
	boardW := size*cellWidth + 2
	boardH := size + 2
	l := layout{
		size:  size,
		board: core.NewRect((screenW-boardW)/2, hudHeight, boardW, boardH),
	}
	l.fits = screenW >= core.Max(boardW, minWidth) && screenH >= hudHeight+boardH+footerH
	return l
}

// cellAt maps a screen position to the board cell under it.
func (l layout) cellAt(x, y int) (engine.Pos, bool) {
	inner := core.NewRect(l.board.X+1, l.board.Y+1, l.size*cellWidth, l.size)
	if !inner.Contains(x, y) {
		return engine.Pos{}, false
	}
	return engine.P(y-inner.Y, (x-inner.X)/cellWidth), true
}

// cellOrigin returns the screen position of a cell's left bracket.
func (l layout) cellOrigin(p engine.Pos) (int, int) {
	return l.board.X + 1 + p.Col*cellWidth, l.board.Y + 1 + p.Row
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.session == nil {
		return
	}
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	st := g.session.Snapshot()
	g.renderHUD(dst, st)
	g.renderBoard(dst, st)
	g.renderFooter(dst, st)
	g.renderOverlays(dst, st)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws the title, score, moves, best score and hints left.
func (g *Game) renderHUD(dst *core.Screen, st engine.State) {
	dst.DrawTextCenteredColored(0, g.Title(), core.ColorOrange)

	moves := fmt.Sprintf("Moves: %d/%d", st.MovesLeft, st.MovesBudget)
	if st.MovesBudget == 0 {
		moves = fmt.Sprintf("Moves: %d", st.MovesUsed)
	}
	line := fmt.Sprintf("Score: %-6d %s   Best: %d", st.Score, moves, core.Max(st.HighScore, st.Score))
	dst.DrawTextCentered(1, line)

	if limit := g.cfg.Gameplay.HintLimit; limit > 0 {
		dst.DrawTextCenteredColored(2, fmt.Sprintf("Hints left: %d", core.Max(limit-g.hintsUsed, 0)), core.ColorGray)
	}
}

// renderBoard draws the border and every rock, taking cascade frames,
// cursor, selection and hint into account.
func (g *Game) renderBoard(dst *core.Screen, st engine.State) {
	dst.DrawBoxColored(g.layout.board, core.ColorGray)

	grid := st.Grid
	marked := map[engine.Pos]bool{}
	frame, playing := g.currentFrame()
	if playing {
		grid = frame.Grid
		for _, p := range frame.Cells {
			marked[p] = true
		}
	}

	hinted := map[engine.Pos]bool{}
	if g.hint != nil && !playing {
		hinted[g.hint.A] = true
		hinted[g.hint.B] = true
	}

	for r, row := range grid {
		for c, k := range row {
			p := engine.P(r, c)
			x, y := g.layout.cellOrigin(p)

			var bg core.Color
			if p == g.cursor && !playing && !g.over() {
				bg = core.ColorGray
			}

			glyph := RockFor(k)
			cell := core.Cell{Rune: glyph.Glyph, Color: glyph.Color, Background: bg}
			if marked[p] {
				cell.Bold = true
				if frame.Phase == engine.PhaseClear {
					cell.Rune, cell.Color = '✶', core.ColorBrightWhite
				}
			}

			left, right := core.Cell{Rune: ' ', Background: bg}, core.Cell{Rune: ' ', Background: bg}
			switch {
			case st.Selected != nil && *st.Selected == p && !playing:
				left = core.Cell{Rune: '[', Color: core.ColorBrightWhite, Background: bg, Bold: true}
				right = core.Cell{Rune: ']', Color: core.ColorBrightWhite, Background: bg, Bold: true}
			case hinted[p]:
				left = core.Cell{Rune: '›', Color: core.ColorBrightYellow, Background: bg}
				right = core.Cell{Rune: '‹', Color: core.ColorBrightYellow, Background: bg}
			}

			dst.SetCell(x, y, left)
			dst.SetCell(x+1, y, cell)
			dst.SetCell(x+2, y, right)
		}
	}
}

// renderFooter draws the status message below the board.
func (g *Game) renderFooter(dst *core.Screen, st engine.State) {
	y := g.layout.board.Bottom()

	msg := g.message
	switch {
	case msg != "":
	case g.hint != nil && g.hintTicks > 0:
		msg = "Try swapping the marked rocks"
	case st.Status == engine.StatusNotStarted:
		msg = "Line up three rocks to crush them"
	}
	if msg != "" {
		dst.DrawTextCenteredColored(y, msg, core.ColorBrightYellow)
	}
}

// renderOverlays draws the pause and game over boxes over the board.
func (g *Game) renderOverlays(dst *core.Screen, st engine.State) {
	switch {
	case g.paused:
		g.renderBox(dst, core.ColorCyan, "PAUSED", "", "P - Resume  B - Menu")
	case g.over():
		reason := "No moves left"
		if st.EndReason == engine.EndOutOfMoves {
			reason = "Out of moves"
		}
		score := fmt.Sprintf("Score: %d", st.Score)
		if st.Score > 0 && st.Score >= st.HighScore {
			score = fmt.Sprintf("Score: %d  NEW BEST!", st.Score)
		}
		keys := "R - Restart  B - Menu  Q - Quit"
		if g.session.PersistErr() != nil {
			keys = "Enter - Retry save  " + keys
		}
		g.renderBox(dst, core.ColorBrightRed, "GAME OVER", reason, score, fmt.Sprintf("Best: %d", st.HighScore), "", keys)
	}
}

// renderBox draws a framed text box centered on the board.
func (g *Game) renderBox(dst *core.Screen, color core.Color, title string, lines ...string) {
	w := len([]rune(title)) + 4
	for _, l := range lines {
		w = core.Max(w, len([]rune(l))+4)
	}
	h := len(lines) + 3

	box := g.layout.board.Centered(w, h)
	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBoxColored(box, color)

	dst.DrawTextColored(box.X+(w-len([]rune(title)))/2, box.Y+1, title, color)
	for i, l := range lines {
		dst.DrawText(box.X+(w-len([]rune(l)))/2, box.Y+2+i, l)
	}
}
