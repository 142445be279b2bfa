package core

// RuntimeConfig is what the platform hands a game on Reset: the terminal
// size, the tick rate and the seed for the board RNG.
type RuntimeConfig struct {
	ScreenW  int   // Terminal width in cells
	ScreenH  int   // Terminal height in cells
	TickRate int   // Steps per second
	Seed     int64 // 0 lets the platform pick a time-based seed
}

// DefaultConfig returns an 80x24 terminal at 60 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}
}

// GameState is the part of a game's state the platform acts on:
// the score to record and whether restart/back keys apply.
type GameState struct {
	Score    int
	GameOver bool // Ended and fully shown; the platform records the result
	Paused   bool // Paused or waiting for a larger window
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
}
