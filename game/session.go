// Package game runs chess games between humans and bots and records
// every bot decision.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/CharaWein/chessGo/bots"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

var (
	ErrGameOver    = errors.New("game is over")
	ErrIllegalMove = errors.New("illegal move")
	ErrNoMove      = errors.New("bot returned no move")
	// ErrStale is returned when the position changed while a bot was
	// thinking.
	ErrStale = errors.New("position changed during search")
)

// MoveRecord describes one move played in a session.
type MoveRecord struct {
	Game      int64  `parquet:"game" json:"game"`
	Ply       int32  `parquet:"ply" json:"ply"`
	Player    string `parquet:"player,dict" json:"player"`
	White     bool   `parquet:"white" json:"white"`
	FEN       string `parquet:"fen" json:"fen"`
	UCI       string `parquet:"uci" json:"uci"`
	Depth     int32  `parquet:"depth" json:"depth"`
	Score     int64  `parquet:"score" json:"score"`
	Nodes     int64  `parquet:"nodes" json:"nodes"`
	QNodes    int64  `parquet:"qnodes" json:"qnodes"`
	ElapsedMs int64  `parquet:"elapsed_ms" json:"elapsed_ms"`
	Mate      bool   `parquet:"mate" json:"mate"`
	Forced    bool   `parquet:"forced" json:"forced"`
}

// Session owns a chess game. It is safe for concurrent use: a bot can
// think in one goroutine while another reads the position.
type Session struct {
	mu      sync.Mutex
	id      int64
	game    *chess.Game
	records []MoveRecord
	logger  zerolog.Logger
}

type Option func(*Session)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithFEN starts the session from fen instead of the initial position.
func WithFEN(fen string) (Option, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	return func(s *Session) { s.game = chess.NewGame(opt) }, nil
}

func NewSession(id int64, opts ...Option) *Session {
	s := &Session{id: id, game: chess.NewGame(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() int64 { return s.id }

// Position returns the current position. Positions are immutable, so the
// result can be read without holding any lock.
func (s *Session) Position() *chess.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Position()
}

func (s *Session) Outcome() chess.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Outcome()
}

func (s *Session) Method() chess.Method {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Method()
}

// BotToMove reports whether the game is still running and the side to
// move is not the human's.
func (s *Session) BotToMove(human chess.Color) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Outcome() == chess.NoOutcome && s.game.Position().Turn() != human
}

// Ply is the number of moves played in the session.
func (s *Session) Ply() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.game.Moves())
}

func (s *Session) Records() []MoveRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MoveRecord(nil), s.records...)
}

// PlayHuman plays the move from one square to another. promo is only
// looked at for pawn promotions; chess.NoPieceType there means a queen.
func (s *Session) PlayHuman(name string, from, to chess.Square, promo chess.PieceType) (MoveRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.Outcome() != chess.NoOutcome {
		return MoveRecord{}, ErrGameOver
	}
	if promo == chess.NoPieceType {
		promo = chess.Queen
	}
	var move *chess.Move
	for _, m := range s.game.ValidMoves() {
		if m.S1() != from || m.S2() != to {
			continue
		}
		if m.Promo() == chess.NoPieceType || m.Promo() == promo {
			move = m
			break
		}
	}
	if move == nil {
		return MoveRecord{}, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
	}

	rec := s.newRecord(name, move)
	rec.Depth = -1
	return rec, s.apply(move, rec)
}

// PlayBot asks bot for a move and plays it. The bot works on a copy of
// the game, so the session stays readable while it thinks.
func (s *Session) PlayBot(ctx context.Context, bot bots.ChessBot) (MoveRecord, error) {
	s.mu.Lock()
	if s.game.Outcome() != chess.NoOutcome {
		s.mu.Unlock()
		return MoveRecord{}, ErrGameOver
	}
	snapshot := s.game.Clone()
	ply := len(s.game.Moves())
	s.mu.Unlock()

	var (
		move *chess.Move
		rec  MoveRecord
	)
	if a, ok := bot.(bots.Analyzer); ok {
		m, res := a.Analyze(ctx, snapshot)
		move = m
		rec = MoveRecord{
			Depth:     int32(res.Depth),
			Score:     int64(res.Score),
			Nodes:     int64(res.Nodes),
			QNodes:    int64(res.QNodes),
			ElapsedMs: res.Elapsed.Milliseconds(),
			Mate:      res.Mate,
			Forced:    res.Forced,
		}
	} else {
		move = bot.BestMove(snapshot)
		rec.Depth = -1
	}
	if move == nil {
		return MoveRecord{}, fmt.Errorf("%s: %w", bot.Name(), ErrNoMove)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.game.Moves()) != ply {
		return MoveRecord{}, ErrStale
	}

	base := s.newRecord(bot.Name(), move)
	rec.Game, rec.Ply, rec.Player, rec.White, rec.FEN, rec.UCI = base.Game, base.Ply, base.Player, base.White, base.FEN, base.UCI
	return rec, s.apply(move, rec)
}

func (s *Session) newRecord(player string, move *chess.Move) MoveRecord {
	pos := s.game.Position()
	return MoveRecord{
		Game:   s.id,
		Ply:    int32(len(s.game.Moves())),
		Player: player,
		White:  pos.Turn() == chess.White,
		FEN:    pos.String(),
		UCI:    chess.UCINotation{}.Encode(pos, move),
	}
}

func (s *Session) apply(move *chess.Move, rec MoveRecord) error {
	if err := s.game.Move(move); err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	s.records = append(s.records, rec)
	s.logger.Debug().
		Int64("game", rec.Game).
		Int32("ply", rec.Ply).
		Str("player", rec.Player).
		Str("move", rec.UCI).
		Int32("depth", rec.Depth).
		Int64("score", rec.Score).
		Msg("move played")
	if o := s.game.Outcome(); o != chess.NoOutcome {
		s.logger.Info().Int64("game", s.id).Str("outcome", o.String()).Str("method", s.game.Method().String()).Msg("game over")
	}
	return nil
}

// PlayOut plays white against black until the game ends, maxPlies moves
// have been played in total (when positive) or ctx is done.
func PlayOut(ctx context.Context, s *Session, white, black bots.ChessBot, maxPlies int) error {
	for s.Outcome() == chess.NoOutcome {
		if maxPlies > 0 && s.Ply() >= maxPlies {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		bot := white
		if s.Position().Turn() == chess.Black {
			bot = black
		}
		if _, err := s.PlayBot(ctx, bot); err != nil {
			return fmt.Errorf("game %d ply %d: %w", s.ID(), s.Ply(), err)
		}
	}
	return nil
}
