package rockcrush

import (
	"fmt"

	"github.com/vovakirdan/rock-crush/internal/games/rockcrush/engine"
)

// startPlayback queues cascade frames. Phases configured with zero ticks are skipped.
func (g *Game) startPlayback(frames []engine.Frame) {
	g.frames = g.frames[:0]
	for _, f := range frames {
		if g.phaseTicks(f.Phase) > 0 {
			g.frames = append(g.frames, f)
		}
	}
	if len(g.frames) > 0 {
		g.frameTicks = g.phaseTicks(g.frames[0].Phase)
	}
}

// advancePlayback counts down the current frame and moves to the next.
func (g *Game) advancePlayback() {
	if len(g.frames) == 0 {
		return
	}
	g.frameTicks--
	if g.frameTicks > 0 {
		return
	}
	g.frames = g.frames[1:]
	if len(g.frames) > 0 {
		g.frameTicks = g.phaseTicks(g.frames[0].Phase)
	}
}

// animating reports whether cascade frames are still being shown.
func (g *Game) animating() bool {
	return len(g.frames) > 0
}

// currentFrame returns the frame on screen, if any.
func (g *Game) currentFrame() (engine.Frame, bool) {
	if len(g.frames) == 0 {
		return engine.Frame{}, false
	}
	return g.frames[0], true
}

func (g *Game) phaseTicks(p engine.Phase) int {
	switch p {
	case engine.PhaseSwap:
		return g.cfg.Animation.SwapTicks
	case engine.PhaseClear:
		return g.cfg.Animation.ClearTicks
	case engine.PhaseDrop:
		return g.cfg.Animation.DropTicks
	default:
		return 0
	}
}

func comboText(rounds, points int) string {
	return fmt.Sprintf("Combo x%d! +%d", rounds, points)
}
