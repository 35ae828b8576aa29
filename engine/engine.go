package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTurnBudget is the time the engine allows itself per move.
const DefaultTurnBudget = 300 * time.Millisecond

// Config tunes the search. The zero value is not useful; start from
// DefaultConfig.
type Config struct {
	// TurnBudget stops new root moves from being searched once elapsed.
	// A root move already being searched is allowed to finish, so the
	// engine can overrun the budget by the cost of one root subtree.
	TurnBudget time.Duration
	// MaxDepth caps iterative deepening when positive.
	MaxDepth int

	Cache         CachePolicy
	CacheCapacity int

	// RepetitionZero scores repeated positions as 0 instead of
	// min(0, beta).
	RepetitionZero bool
	// RememberAllBest keeps every iteration winner of the turn at the
	// front of the move order, not only the latest one.
	RememberAllBest bool
}

func DefaultConfig() Config {
	return Config{
		TurnBudget: DefaultTurnBudget,
		Cache:      CacheOff,
	}
}

// Iteration describes one finished pass of iterative deepening.
type Iteration struct {
	Depth    int
	Move     Move
	Score    int
	Ties     int
	Nodes    uint64
	QNodes   uint64
	Elapsed  time.Duration
	TimedOut bool
}

// Result is the outcome of one Think call.
type Result struct {
	Move Move
	// Score is the value of Move for the side to move at Depth. It is 0
	// when Depth is -1, unless the side to move is already mated.
	Score int
	// Depth is the deepest iteration whose answer was committed, or -1
	// when no iteration completed.
	Depth     int
	Nodes     uint64
	QNodes    uint64
	CacheSize int
	Elapsed   time.Duration
	TimedOut  bool
	// Mate is set when Move was found to force checkmate.
	Mate bool
	// Forced is set when Move was the only legal move.
	Forced bool
}

type Engine struct {
	cfg         Config
	eval        PositionEvaluator
	rng         *rand.Rand
	logger      zerolog.Logger
	onIteration func(Iteration)
}

type Option func(*Engine)

// WithEvaluator replaces DefaultEvaluator.
func WithEvaluator(eval PositionEvaluator) Option {
	return func(e *Engine) { e.eval = eval }
}

// WithRand sets the source used to break ties between equal moves.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithIterationHook registers fn to be called after every iteration,
// including one cut short by the budget.
func WithIterationHook(fn func(Iteration)) Option {
	return func(e *Engine) { e.onIteration = fn }
}

func New(cfg Config, opts ...Option) *Engine {
	if cfg.TurnBudget <= 0 {
		cfg.TurnBudget = DefaultTurnBudget
	}
	e := &Engine{
		cfg:    cfg,
		eval:   DefaultEvaluator{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

func (e *Engine) Config() Config { return e.cfg }

// ChooseMove returns the move to play in pos, or NullMove when pos has no
// legal move.
func (e *Engine) ChooseMove(ctx context.Context, pos Position, timer Timer) Move {
	return e.Think(ctx, pos, timer).Move
}

// Think runs iterative deepening on pos until the turn budget is spent,
// ctx is done, a forced mate is found or MaxDepth is reached. pos is left
// exactly as it was given.
func (e *Engine) Think(ctx context.Context, pos Position, timer Timer) Result {
	s := newSearch(pos, e.eval, e.cfg)
	res := Result{Move: NullMove, Depth: -1}

	root := pos.AppendLegalMoves(make([]Move, 0, 64), false)
	switch len(root) {
	case 0:
		if pos.InCheckmate() {
			res.Score = MinScore
		}
		return res
	case 1:
		res.Move, res.Forced, res.Elapsed = root[0], true, timer.Elapsed()
		return res
	}

	var (
		ties     = make([]Move, 0, len(root))
		partial  = NullMove
		timedOut bool
	)

	for depth := 0; e.cfg.MaxDepth <= 0 || depth <= e.cfg.MaxDepth; depth++ {
		best := MinScore
		ties = ties[:0]
		s.orderMoves(root)

		for _, m := range root {
			if timer.Elapsed() > e.cfg.TurnBudget || ctx.Err() != nil {
				timedOut = true
				break
			}

			pos.MakeMove(m)
			s.ply++
			score := -s.negamax(MinScore, MaxScore, depth)
			s.ply--
			pos.UndoMove(m)

			if score == MaxScore {
				res.Move, res.Score, res.Depth, res.Mate = m, score, depth, true
				e.finish(s, &res, timer)
				e.logger.Debug().Int("depth", depth).Str("move", m.String()).Msg("forced mate found")
				return res
			}

			if score > best {
				best = score
				ties = ties[:0]
			}
			if score == best {
				ties = append(ties, m)
			}
		}

		if len(ties) > 0 {
			pick := ties[e.rng.Intn(len(ties))]
			if timedOut {
				// The moves left unsearched could have been better, so
				// this pick is kept only as a last resort.
				if res.Depth < 0 {
					partial = pick
				}
			} else {
				res.Move, res.Score, res.Depth = pick, best, depth
				s.remember(pick)
			}
		}

		e.report(Iteration{
			Depth:    depth,
			Move:     res.Move,
			Score:    res.Score,
			Ties:     len(ties),
			Nodes:    s.nodes,
			QNodes:   s.qnodes,
			Elapsed:  timer.Elapsed(),
			TimedOut: timedOut,
		})

		if timedOut {
			break
		}
	}

	if res.Move.IsNull() {
		res.Move = partial
		if res.Move.IsNull() {
			res.Move = root[0]
		}
	}
	res.TimedOut = timedOut
	e.finish(s, &res, timer)
	return res
}

func (e *Engine) finish(s *search, res *Result, timer Timer) {
	res.Nodes, res.QNodes = s.nodes, s.qnodes
	if s.cache != nil {
		res.CacheSize = s.cache.Len()
	}
	res.Elapsed = timer.Elapsed()
}

func (e *Engine) report(it Iteration) {
	e.logger.Debug().
		Int("depth", it.Depth).
		Str("move", it.Move.String()).
		Int("score", it.Score).
		Int("ties", it.Ties).
		Uint64("nodes", it.Nodes).
		Uint64("qnodes", it.QNodes).
		Dur("elapsed", it.Elapsed).
		Bool("timed_out", it.TimedOut).
		Msg("iteration")
	if e.onIteration != nil {
		e.onIteration(it)
	}
}
