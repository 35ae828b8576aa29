package engine

import "math"

const (
	// MinScore marks a forced loss for the side to move.
	MinScore = -math.MaxInt32
	// MaxScore marks a forced win for the side to move.
	MaxScore = math.MaxInt32
)

// PieceKind is a piece type without colour.
type PieceKind uint8

const (
	NoPiece PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindLetters = [...]byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}

func (k PieceKind) String() string {
	if int(k) >= len(kindLetters) || k == NoPiece {
		return ""
	}
	return string(kindLetters[k])
}

// Square indexes the board from a1 (0) to h8 (63).
type Square int8

func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

func (s Square) File() int { return int(s) % 8 }
func (s Square) Rank() int { return int(s) / 8 }

func (s Square) String() string {
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// Move is produced by a Position and handed back to it unchanged.
// Two moves are the same move when they compare equal.
type Move struct {
	From      Square
	To        Square
	Piece     PieceKind
	Captured  PieceKind
	Promotion PieceKind
}

// NullMove is returned when there is nothing to play.
var NullMove Move

func (m Move) IsNull() bool      { return m == NullMove }
func (m Move) IsCapture() bool   { return m.Captured != NoPiece }
func (m Move) IsPromotion() bool { return m.Promotion != NoPiece }

// String renders the move in UCI notation.
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	return m.From.String() + m.To.String() + m.Promotion.String()
}

// Position is the board the engine searches. The engine never copies it:
// every MakeMove is paired with an UndoMove in reverse order, and every
// successful TrySkipTurn with an UndoSkipTurn, before control returns to
// the caller.
type Position interface {
	// AppendLegalMoves appends the legal moves of the side to move to dst.
	// With capturesOnly set only captures are appended.
	AppendLegalMoves(dst []Move, capturesOnly bool) []Move
	MakeMove(m Move)
	UndoMove(m Move)

	// TrySkipTurn passes the move to the opponent. It reports false, and
	// changes nothing, when the side to move is in check.
	TrySkipTurn() bool
	UndoSkipTurn()

	InCheck() bool
	InCheckmate() bool

	// Fingerprint hashes the position including the side to move.
	Fingerprint() uint64
	// IsRepeated reports whether the current position already occurred
	// earlier in the game or on the current search path.
	IsRepeated() bool

	WhiteToMove() bool
	PieceCount(kind PieceKind, white bool) int
	PieceSquares(kind PieceKind, white bool) []Square
	KingSquare(white bool) Square
	SquareAttackedByOpponent(sq Square) bool
	InsufficientMaterial() bool
}
