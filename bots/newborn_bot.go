package bots

import (
	"github.com/CharaWein/chessGo/board"
	"github.com/CharaWein/chessGo/engine"
	"github.com/notnil/chess"
)

// NewbornBot plays the move the search would look at first, without
// searching: captures of valuable pieces and promotions before quiet
// moves, and nothing onto an attacked square if it can help it.
type NewbornBot struct{}

func NewNewbornBot() *NewbornBot {
	return &NewbornBot{}
}

func (b *NewbornBot) BestMove(game *chess.Game) *chess.Move {
	pos := board.New(game)
	moves := pos.AppendLegalMoves(nil, false)
	if len(moves) == 0 {
		return nil
	}
	engine.OrderMoves(pos, moves)
	m, _ := pos.ToChess(moves[0])
	return m
}

func (b *NewbornBot) Name() string {
	return "Newborn"
}
