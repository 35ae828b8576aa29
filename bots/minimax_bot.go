package bots

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CharaWein/chessGo/board"
	"github.com/CharaWein/chessGo/engine"
	"github.com/notnil/chess"
)

// MinimaxBot plays the move chosen by the iterative deepening search.
// It is safe to share between goroutines; calls are serialised.
type MinimaxBot struct {
	mu     sync.Mutex
	name   string
	engine *engine.Engine
}

// NewMinimaxBot searches at most depth plies past the root move, or
// without a depth limit when depth is zero, within budget per move.
func NewMinimaxBot(depth int, budget time.Duration, opts ...engine.Option) *MinimaxBot {
	cfg := engine.DefaultConfig()
	cfg.MaxDepth = depth
	cfg.TurnBudget = budget
	return NewEngineBot(cfg, opts...)
}

func NewEngineBot(cfg engine.Config, opts ...engine.Option) *MinimaxBot {
	e := engine.New(cfg, opts...)
	name := fmt.Sprintf("Minimax Bot (%s)", e.Config().TurnBudget)
	if cfg.MaxDepth > 0 {
		name = fmt.Sprintf("Minimax Bot (depth %d)", cfg.MaxDepth)
	}
	return &MinimaxBot{name: name, engine: e}
}

func (b *MinimaxBot) Name() string {
	return b.name
}

func (b *MinimaxBot) BestMove(game *chess.Game) *chess.Move {
	m, _ := b.Analyze(context.Background(), game)
	return m
}

// Analyze searches the current position of game, which is not modified.
// The move is nil when the game has no legal move.
func (b *MinimaxBot) Analyze(ctx context.Context, game *chess.Game) (*chess.Move, engine.Result) {
	if game == nil {
		return nil, engine.Result{Move: engine.NullMove, Depth: -1}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	pos := board.New(game)
	res := b.engine.Think(ctx, pos, engine.StartTimer())
	if res.Move.IsNull() {
		return nil, res
	}
	m, ok := pos.ToChess(res.Move)
	if !ok {
		return nil, res
	}
	return m, res
}
