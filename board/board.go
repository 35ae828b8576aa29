// Package board adapts github.com/notnil/chess positions to the
// engine.Position interface.
package board

import (
	"fmt"

	"github.com/CharaWein/chessGo/engine"
	"github.com/notnil/chess"
)

type cell struct {
	kind  engine.PieceKind
	white bool
}

// frame is one position on the make/undo stack with its piece table
// decoded once.
type frame struct {
	pos       *chess.Position
	cells     [64]cell
	white     bool
	enPassant int
	key       uint64
	// skip marks a frame pushed by TrySkipTurn.
	skip bool
}

func newFrame(pos *chess.Position) frame {
	f := frame{pos: pos, white: pos.Turn() == chess.White, enPassant: -1}
	b := pos.Board()
	for sq := 0; sq < 64; sq++ {
		p := b.Piece(chess.Square(sq))
		if p == chess.NoPiece {
			continue
		}
		f.cells[sq] = cell{kind: kindOf(p.Type()), white: p.Color() == chess.White}
	}
	if ep := pos.EnPassantSquare(); ep != chess.NoSquare {
		f.enPassant = int(ep) % 8
	}
	f.key = f.fingerprint()
	return f
}

// Board is an engine.Position backed by notnil/chess. It keeps a stack
// of immutable chess positions, so undo is a pop.
type Board struct {
	frames []frame
	// seen counts fingerprints of every position before the current one,
	// both from the game history and the moves made on the board.
	seen  map[uint64]int
	moves []*chess.Move
}

// New builds a Board at the current position of game. Earlier positions
// of the game count towards repetition.
func New(game *chess.Game) *Board {
	positions := game.Positions()
	b := &Board{
		frames: make([]frame, 0, 64),
		seen:   make(map[uint64]int, len(positions)+64),
	}
	for _, p := range positions[:len(positions)-1] {
		b.seen[newFrame(p).key]++
	}
	b.frames = append(b.frames, newFrame(positions[len(positions)-1]))
	return b
}

// FromFEN builds a Board with no history from a FEN string.
func FromFEN(fen string) (*Board, error) {
	game, err := gameFromFEN(fen)
	if err != nil {
		return nil, err
	}
	return New(game), nil
}

func gameFromFEN(fen string) (*chess.Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	return chess.NewGame(opt), nil
}

func (b *Board) cur() *frame { return &b.frames[len(b.frames)-1] }

// Position returns the chess position the board is currently at.
func (b *Board) Position() *chess.Position { return b.cur().pos }

// Depth is the number of moves made on the board and not yet undone.
func (b *Board) Depth() int { return len(b.frames) - 1 }

func (b *Board) AppendLegalMoves(dst []engine.Move, capturesOnly bool) []engine.Move {
	f := b.cur()
	for _, cm := range f.pos.ValidMoves() {
		m := f.convert(cm)
		if capturesOnly && !m.IsCapture() {
			continue
		}
		dst = append(dst, m)
	}
	return dst
}

// Convert maps a move of the current position to its engine form.
func (b *Board) Convert(cm *chess.Move) engine.Move {
	return b.cur().convert(cm)
}

func (f *frame) convert(cm *chess.Move) engine.Move {
	m := engine.Move{
		From:      engine.Square(cm.S1()),
		To:        engine.Square(cm.S2()),
		Piece:     f.cells[cm.S1()].kind,
		Captured:  f.cells[cm.S2()].kind,
		Promotion: kindOf(cm.Promo()),
	}
	if cm.HasTag(chess.EnPassant) {
		m.Captured = engine.Pawn
	}
	return m
}

// ToChess finds the legal chess move matching m in the current position.
func (b *Board) ToChess(m engine.Move) (*chess.Move, bool) {
	for _, cm := range b.cur().pos.ValidMoves() {
		if engine.Square(cm.S1()) == m.From && engine.Square(cm.S2()) == m.To && kindOf(cm.Promo()) == m.Promotion {
			return cm, true
		}
	}
	return nil, false
}

// MakeMove plays m, which must be legal in the current position.
func (b *Board) MakeMove(m engine.Move) {
	cm, ok := b.ToChess(m)
	if !ok {
		panic(fmt.Sprintf("board: illegal move %v in %s", m, b.cur().pos))
	}
	prev := b.cur()
	b.seen[prev.key]++
	b.moves = append(b.moves, cm)
	b.frames = append(b.frames, newFrame(prev.pos.Update(cm)))
}

func (b *Board) UndoMove(m engine.Move) {
	if len(b.frames) < 2 || b.cur().skip {
		panic("board: undo without matching move")
	}
	last := b.moves[len(b.moves)-1]
	if engine.Square(last.S1()) != m.From || engine.Square(last.S2()) != m.To {
		panic(fmt.Sprintf("board: undo %v but last move was %s", m, last))
	}
	b.moves = b.moves[:len(b.moves)-1]
	b.frames = b.frames[:len(b.frames)-1]
	prev := b.cur()
	if b.seen[prev.key]--; b.seen[prev.key] <= 0 {
		delete(b.seen, prev.key)
	}
}

// Layout of chess.Position.MarshalBinary: 96 board bytes, half move
// clock, move count (2 bytes), en passant square, then a flags byte.
const (
	positionBytes   = 101
	flagsOffset     = 100
	flagBlackToMove = 1 << 4
	flagEnPassant   = 1 << 5
)

// TrySkipTurn hands the move to the opponent without moving a piece. The
// en passant right, if any, is dropped.
func (b *Board) TrySkipTurn() bool {
	if b.InCheck() {
		return false
	}
	data, err := b.cur().pos.MarshalBinary()
	if err != nil || len(data) != positionBytes {
		return false
	}
	data[flagsOffset] ^= flagBlackToMove
	data[flagsOffset] &^= flagEnPassant

	skipped := &chess.Position{}
	if err := skipped.UnmarshalBinary(data); err != nil {
		return false
	}
	f := newFrame(skipped)
	f.skip = true
	b.frames = append(b.frames, f)
	return true
}

func (b *Board) UndoSkipTurn() {
	if !b.cur().skip {
		panic("board: no skipped turn to undo")
	}
	b.frames = b.frames[:len(b.frames)-1]
}

func (b *Board) InCheck() bool {
	f := b.cur()
	return f.attacked(f.kingSquare(f.white), !f.white)
}

func (b *Board) InCheckmate() bool {
	return b.cur().pos.Status() == chess.Checkmate
}

func (b *Board) Fingerprint() uint64 { return b.cur().key }

func (b *Board) IsRepeated() bool { return b.seen[b.cur().key] > 0 }

func (b *Board) WhiteToMove() bool { return b.cur().white }

func (b *Board) PieceCount(kind engine.PieceKind, white bool) int {
	n := 0
	for _, c := range b.cur().cells {
		if c.kind == kind && c.white == white {
			n++
		}
	}
	return n
}

func (b *Board) PieceSquares(kind engine.PieceKind, white bool) []engine.Square {
	var out []engine.Square
	for sq, c := range b.cur().cells {
		if c.kind == kind && c.white == white {
			out = append(out, engine.Square(sq))
		}
	}
	return out
}

func (b *Board) KingSquare(white bool) engine.Square {
	return b.cur().kingSquare(white)
}

func (f *frame) kingSquare(white bool) engine.Square {
	for sq, c := range f.cells {
		if c.kind == engine.King && c.white == white {
			return engine.Square(sq)
		}
	}
	return -1
}

func (b *Board) SquareAttackedByOpponent(sq engine.Square) bool {
	f := b.cur()
	return f.attacked(sq, !f.white)
}

// InsufficientMaterial reports positions where neither side can mate:
// bare kings, a single minor piece, or bishops all on one square colour.
func (b *Board) InsufficientMaterial() bool {
	var minors, knights int
	bishopColors := [2]bool{}
	for sq, c := range b.cur().cells {
		switch c.kind {
		case engine.Pawn, engine.Rook, engine.Queen:
			return false
		case engine.Knight:
			knights++
			minors++
		case engine.Bishop:
			minors++
			bishopColors[(sq/8+sq%8)%2] = true
		}
	}
	switch {
	case minors <= 1:
		return true
	case knights == 0:
		return !(bishopColors[0] && bishopColors[1])
	default:
		return false
	}
}

func kindOf(t chess.PieceType) engine.PieceKind {
	switch t {
	case chess.Pawn:
		return engine.Pawn
	case chess.Knight:
		return engine.Knight
	case chess.Bishop:
		return engine.Bishop
	case chess.Rook:
		return engine.Rook
	case chess.Queen:
		return engine.Queen
	case chess.King:
		return engine.King
	default:
		return engine.NoPiece
	}
}

var _ engine.Position = (*Board)(nil)
