package engine

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Config holds the session parameters.
type Config struct {
	GridSize        int    // Board dimension N
	PaletteSize     int    // Number of tile kinds
	MovesBudget     int    // Moves per game; 0 means unlimited
	PointsPerTile   int    // Points per cleared cell
	MaxRetries      int    // Generator redraws per cell
	MaxReshuffles   int    // Generator regenerations while stuck
	MaxCascadeSteps int    // Cascade rounds per swap; 0 means unbounded
	HighScoreKey    string // Store key for the high score
}

// DefaultConfig returns the classic Rock Crush setup: 8×8, five kinds, 30 moves.
func DefaultConfig() Config {
	return Config{
		GridSize:        8,
		PaletteSize:     5,
		MovesBudget:     30,
		PointsPerTile:   10,
		MaxRetries:      50,
		MaxReshuffles:   100,
		MaxCascadeSteps: 100,
		HighScoreKey:    "rockCrushHighScore",
	}
}

// Validate checks that the config describes a playable board.
func (c Config) Validate() error {
	switch {
	case c.GridSize < MinRun:
		return fmt.Errorf("%w: grid size %d is below %d", ErrInvalidConfig, c.GridSize, MinRun)
	case c.PaletteSize < 3:
		return fmt.Errorf("%w: palette size %d is below 3", ErrInvalidConfig, c.PaletteSize)
	case c.PaletteSize > 255:
		return fmt.Errorf("%w: palette size %d exceeds 255", ErrInvalidConfig, c.PaletteSize)
	case c.MovesBudget < 0:
		return fmt.Errorf("%w: negative moves budget %d", ErrInvalidConfig, c.MovesBudget)
	case c.PointsPerTile < 0:
		return fmt.Errorf("%w: negative points per tile %d", ErrInvalidConfig, c.PointsPerTile)
	case c.MaxRetries < 0 || c.MaxReshuffles < 0 || c.MaxCascadeSteps < 0:
		return fmt.Errorf("%w: negative generator or cascade bound", ErrInvalidConfig)
	case c.HighScoreKey == "":
		return fmt.Errorf("%w: empty high score key", ErrInvalidConfig)
	}
	return nil
}

// Option customizes a Session.
type Option func(*Session)

// WithStore sets the key-value store used for the high score.
func WithStore(st Store) Option {
	return func(s *Session) {
		if st != nil {
			s.store = st
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Stats counts diagnostic events over the session's lifetime. Reset does not
// clear them; State.MovesUsed counts the current game.
type Stats struct {
	Turns            int // Accepted swaps across all games
	ForcedPlacements int // Generator placements past the retry cap
	Reshuffles       int // Generator regenerations
	CascadeLimitHits int // Swaps whose cascade hit MaxCascadeSteps
}

// Outcome describes what a Select or AttemptSwap call did.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSelected
	OutcomeDeselected
	OutcomeReselected
	OutcomeAccepted
	OutcomeRejected
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeSelected:
		return "selected"
	case OutcomeDeselected:
		return "deselected"
	case OutcomeReselected:
		return "reselected"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Analysis is the result of solvability analysis on a settled grid.
type Analysis struct {
	Legal        int   // Number of legal moves found (0 when the check was skipped)
	Hint         *Move // Set when exactly one legal move remains
	GameOver     bool
	EndReason    EndReason
	NewHighScore bool
	PersistErr   error // High score write failure; session state is unaffected
}

// Turn reports the effects of one Select or AttemptSwap call.
type Turn struct {
	Outcome Outcome
	Move    Move
	Points  int     // Total points from every cascade round
	Rounds  int     // Cascade rounds resolved
	Frames  []Frame // Swap, clear and drop snapshots in order
	Analysis
}

// State is a copy of the session's observable state.
type State struct {
	Grid        [][]Kind
	Score       int
	MovesLeft   int
	MovesBudget int
	MovesUsed   int
	HighScore   int
	Status      Status
	EndReason   EndReason
	Hint        *Move
	Selected    *Pos
	Busy        bool
}

// Session owns one game: the grid, score, move budget and status.
// Sessions are independent; methods are safe for concurrent use, and swaps
// arriving while another swap settles are rejected with ErrBusy.
type Session struct {
	mu   sync.RWMutex
	busy atomic.Bool

	cfg    Config
	rng    RandomSource
	store  Store
	logger *log.Logger

	grid    *Grid
	scratch *Grid

	score      int
	movesLeft  int
	movesUsed  int
	highScore  int
	status     Status
	endReason  EndReason
	hint       *Move
	selected   *Pos
	stats      Stats
	persistErr error
}

// New validates cfg, reads the stored high score and generates the first grid.
func New(cfg Config, rng RandomSource, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}

	s := &Session{
		cfg:    cfg,
		rng:    rng,
		store:  NewMemoryStore(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.loadHighScore()
	s.newGame()
	return s, nil
}

// loadHighScore reads the stored high score. Failures are logged and leave it at 0.
func (s *Session) loadHighScore() {
	v, ok, err := s.store.Get(s.cfg.HighScoreKey)
	if err != nil {
		s.persistErr = err
		s.logger.Warn("could not read high score", "key", s.cfg.HighScoreKey, "error", err)
		return
	}
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		s.logger.Warn("ignoring malformed high score", "key", s.cfg.HighScoreKey, "value", v)
		return
	}
	s.highScore = n
}

// newGame generates a fresh grid and resets the per-game counters.
func (s *Session) newGame() {
	res := Generate(GenParams{
		Size:          s.cfg.GridSize,
		Palette:       s.cfg.PaletteSize,
		MaxRetries:    s.cfg.MaxRetries,
		MaxReshuffles: s.cfg.MaxReshuffles,
	}, s.rng)
	if res.Forced > 0 {
		s.logger.Debug("generator forced placements", "count", res.Forced)
	}

	s.grid = res.Grid
	s.scratch = NewGrid(s.cfg.GridSize)
	s.stats.ForcedPlacements += res.Forced
	s.stats.Reshuffles += res.Reshuffles

	s.score = 0
	s.movesLeft = s.cfg.MovesBudget
	s.movesUsed = 0
	s.status = StatusNotStarted
	s.endReason = EndNone
	s.hint = nil
	s.selected = nil
}

// Reset discards the grid and starts a new game. The high score is kept, and
// so is a failed high score write: PersistErr stays set until a write succeeds.
func (s *Session) Reset() error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.newGame()
	return nil
}

// AttemptSwap validates and, if it produces a match, commits the swap of a and b,
// then resolves the cascade and analyses the settled grid.
//
// Invalid coordinates return ErrInvalidMove with no side effects. A legal but
// matchless swap returns OutcomeRejected: the grid and moves are untouched and
// the selection is cleared.
func (s *Session) AttemptSwap(a, b Pos) (Turn, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return Turn{}, ErrBusy
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attemptSwap(a, b)
}

// Select applies one tap: the first tap selects, tapping the selected cell
// deselects it, tapping a neighbour attempts the swap, and tapping any other
// cell moves the selection there.
func (s *Session) Select(p Pos) (Turn, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return Turn{}, ErrBusy
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.grid.InBounds(p) {
		return Turn{}, fmt.Errorf("%w: %v is off the board", ErrInvalidMove, p)
	}
	if s.status == StatusGameOver {
		return Turn{}, ErrGameOver
	}

	switch {
	case s.selected == nil:
		s.selected = &p
		return Turn{Outcome: OutcomeSelected}, nil
	case *s.selected == p:
		s.selected = nil
		return Turn{Outcome: OutcomeDeselected}, nil
	case s.selected.Adjacent(p):
		return s.attemptSwap(*s.selected, p)
	default:
		s.selected = &p
		return Turn{Outcome: OutcomeReselected}, nil
	}
}

// attemptSwap must be called with s.mu held and the busy flag set.
// Coordinates are checked before the game state, so a bad move is reported
// as ErrInvalidMove even after the game ended.
func (s *Session) attemptSwap(a, b Pos) (Turn, error) {
	if err := s.checkMove(a, b); err != nil {
		return Turn{}, err
	}
	if s.status == StatusGameOver || s.outOfMoves() {
		return Turn{}, ErrGameOver
	}

	move := Move{A: a, B: b}
	if !CanSwap(s.grid, s.scratch, move) {
		s.selected = nil
		return Turn{Outcome: OutcomeRejected, Move: move}, nil
	}

	s.grid.Swap(a, b)
	if s.cfg.MovesBudget > 0 {
		s.movesLeft--
	}
	s.movesUsed++
	s.selected = nil
	if s.status == StatusNotStarted {
		s.status = StatusPlaying
	}
	s.stats.Turns++

	turn := Turn{Outcome: OutcomeAccepted, Move: move}
	turn.Frames = append(turn.Frames, Frame{
		Phase: PhaseSwap,
		Grid:  s.grid.Rows(),
		Cells: []Pos{a, b},
	})

	s.settle(&turn)
	turn.Analysis = s.analyze()
	return turn, nil
}

// outOfMoves reports whether a budgeted game has spent every move.
func (s *Session) outOfMoves() bool {
	return s.cfg.MovesBudget > 0 && s.movesLeft <= 0
}

// checkMove rejects coordinates that cannot form a swap.
func (s *Session) checkMove(a, b Pos) error {
	switch {
	case !s.grid.InBounds(a):
		return fmt.Errorf("%w: %v is off the board", ErrInvalidMove, a)
	case !s.grid.InBounds(b):
		return fmt.Errorf("%w: %v is off the board", ErrInvalidMove, b)
	case a == b:
		return fmt.Errorf("%w: cannot swap %v with itself", ErrInvalidMove, a)
	case !a.Adjacent(b):
		return fmt.Errorf("%w: %v and %v are not adjacent", ErrInvalidMove, a, b)
	}
	return nil
}

// Analyze runs solvability analysis on the current grid and applies its
// state transitions (game over, hint). It is run automatically after every
// accepted swap.
func (s *Session) Analyze() (Analysis, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return Analysis{}, ErrBusy
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyze(), nil
}

// analyze must be called with s.mu held.
func (s *Session) analyze() Analysis {
	if s.status == StatusGameOver {
		return Analysis{GameOver: true, EndReason: s.endReason}
	}

	if s.outOfMoves() {
		return s.finish(EndOutOfMoves, 0)
	}

	moves := LegalMoves(s.grid)
	switch len(moves) {
	case 0:
		return s.finish(EndStalemate, 0)
	case 1:
		hint := moves[0]
		s.hint = &hint
	default:
		s.hint = nil
	}

	a := Analysis{Legal: len(moves)}
	if s.hint != nil {
		hint := *s.hint
		a.Hint = &hint
	}
	return a
}

// finish ends the game and persists the high score when it was beaten.
func (s *Session) finish(reason EndReason, legal int) Analysis {
	s.status = StatusGameOver
	s.endReason = reason
	s.hint = nil
	s.selected = nil

	a := Analysis{Legal: legal, GameOver: true, EndReason: reason}
	if s.score > s.highScore {
		s.highScore = s.score
		a.NewHighScore = true
		a.PersistErr = s.persistHighScore()
	}

	s.logger.Info("game over",
		"reason", reason,
		"score", s.score,
		"high_score", s.highScore,
	)
	return a
}

// persistHighScore writes the in-memory high score. Must be called with s.mu held.
func (s *Session) persistHighScore() error {
	if err := s.store.Set(s.cfg.HighScoreKey, strconv.Itoa(s.highScore)); err != nil {
		s.persistErr = fmt.Errorf("engine: persist high score: %w", err)
		s.logger.Warn("could not save high score", "score", s.highScore, "error", err)
		return s.persistErr
	}
	s.persistErr = nil
	return nil
}

// PersistHighScore retries writing the current high score to the store.
func (s *Session) PersistHighScore() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistHighScore()
}

// Restore replaces the session state, e.g. to resume a saved game or to set
// up a specific board. The selection and hint are cleared. A budgeted game
// restored with no moves left is ended as out of moves.
func (s *Session) Restore(st State) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.busy.Store(false)

	g := GridFromRows(st.Grid)
	switch {
	case g == nil || g.Size() != s.cfg.GridSize:
		return fmt.Errorf("%w: grid must be %dx%d", ErrInvalidConfig, s.cfg.GridSize, s.cfg.GridSize)
	case g.EmptyCount() > 0:
		return fmt.Errorf("%w: %d empty cells", ErrInvalidConfig, g.EmptyCount())
	case st.Score < 0:
		return fmt.Errorf("%w: negative score %d", ErrInvalidConfig, st.Score)
	case st.MovesLeft < 0 || (s.cfg.MovesBudget > 0 && st.MovesLeft > s.cfg.MovesBudget):
		return fmt.Errorf("%w: moves left %d outside 0..%d", ErrInvalidConfig, st.MovesLeft, s.cfg.MovesBudget)
	case st.MovesUsed < 0:
		return fmt.Errorf("%w: negative moves used %d", ErrInvalidConfig, st.MovesUsed)
	case st.Status < StatusNotStarted || st.Status > StatusGameOver:
		return fmt.Errorf("%w: unknown status %d", ErrInvalidConfig, int(st.Status))
	case st.EndReason < EndNone || st.EndReason > EndOutOfMoves:
		return fmt.Errorf("%w: unknown end reason %d", ErrInvalidConfig, int(st.EndReason))
	case (st.Status == StatusGameOver) != (st.EndReason != EndNone):
		return fmt.Errorf("%w: status %v with end reason %v", ErrInvalidConfig, st.Status, st.EndReason)
	}
	for _, row := range st.Grid {
		for _, k := range row {
			if int(k) > s.cfg.PaletteSize {
				return fmt.Errorf("%w: kind %d outside palette 1..%d", ErrInvalidConfig, k, s.cfg.PaletteSize)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = g
	s.score = st.Score
	s.movesLeft = st.MovesLeft
	s.movesUsed = st.MovesUsed
	s.status = st.Status
	s.endReason = st.EndReason
	s.hint = nil
	s.selected = nil
	if s.status != StatusGameOver && s.outOfMoves() {
		s.status = StatusGameOver
		s.endReason = EndOutOfMoves
	}
	return nil
}

// Snapshot returns a copy of the observable state for rendering.
func (s *Session) Snapshot() State {
	busy := s.busy.Load()

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Grid:        s.grid.Rows(),
		Score:       s.score,
		MovesLeft:   s.movesLeft,
		MovesBudget: s.cfg.MovesBudget,
		MovesUsed:   s.movesUsed,
		HighScore:   s.highScore,
		Status:      s.status,
		EndReason:   s.endReason,
		Busy:        busy,
	}
	if s.hint != nil {
		hint := *s.hint
		st.Hint = &hint
	}
	if s.selected != nil {
		sel := *s.selected
		st.Selected = &sel
	}
	return st
}

// SuggestMove returns the first legal move, for player-requested hints.
func (s *Session) SuggestMove() (Move, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	moves := legalMoves(s.grid, 1)
	if len(moves) == 0 {
		return Move{}, false
	}
	return moves[0], true
}

// Grid returns a copy of the current grid.
func (s *Session) Grid() *Grid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.Clone()
}

// Score returns the current score.
func (s *Session) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score
}

// MovesLeft returns the remaining move budget.
func (s *Session) MovesLeft() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.movesLeft
}

// MovesUsed returns the number of accepted swaps in the current game.
func (s *Session) MovesUsed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.movesUsed
}

// HighScore returns the best score known to the session.
func (s *Session) HighScore() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.highScore
}

// Status returns the lifecycle state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Hint returns the single remaining legal move, if analysis found exactly one.
func (s *Session) Hint() (Move, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.hint == nil {
		return Move{}, false
	}
	return *s.hint, true
}

// Busy reports whether a swap is currently settling.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Stats returns the diagnostic counters.
func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Config returns the session's configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// PersistErr returns the last store failure, or nil.
func (s *Session) PersistErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErr
}
