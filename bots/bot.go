// bot.go
package bots

import (
	"context"

	"github.com/CharaWein/chessGo/engine"
	"github.com/notnil/chess"
)

// ChessBot is a player the game can ask for a move.
type ChessBot interface {
	BestMove(game *chess.Game) *chess.Move
	Name() string
}

// Analyzer is a ChessBot that can also report how it reached its move.
type Analyzer interface {
	ChessBot
	Analyze(ctx context.Context, game *chess.Game) (*chess.Move, engine.Result)
}
