package engine

import "sort"

// bestFirst is the priority of a move that won an earlier iteration.
const bestFirst = MinScore

// captureWeight scales the victim's value so that any capture outranks
// the attacked-square penalty of the capturing piece.
const captureWeight = 10

// priority guesses how promising a move is; lower sorts first.
func (s *search) priority(m Move) int {
	if _, ok := s.bias[m]; ok {
		return bestFirst
	}

	guess := 0
	if m.IsCapture() {
		guess = captureWeight * PieceValue(m.Captured)
	}
	if m.IsPromotion() {
		guess += PieceValue(m.Promotion)
	}
	if s.pos.SquareAttackedByOpponent(m.To) {
		guess -= PieceValue(m.Piece)
	}
	return -guess
}

// orderMoves sorts moves ascending by priority. The sort is stable, so
// sorting an already ordered list leaves it untouched.
func (s *search) orderMoves(moves []Move) {
	if len(moves) < 2 {
		return
	}
	keys := s.keyBuffer(len(moves))
	for i, m := range moves {
		keys[i] = s.priority(m)
	}
	sort.Stable(byPriority{moves: moves, keys: keys})
}

func (s *search) keyBuffer(n int) []int {
	if cap(s.keys) < n {
		s.keys = make([]int, n)
	}
	return s.keys[:n]
}

type byPriority struct {
	moves []Move
	keys  []int
}

func (b byPriority) Len() int           { return len(b.moves) }
func (b byPriority) Less(i, j int) bool { return b.keys[i] < b.keys[j] }

func (b byPriority) Swap(i, j int) {
	b.moves[i], b.moves[j] = b.moves[j], b.moves[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

// OrderMoves sorts moves of pos most promising first, using the same
// guess the search applies before looking at them.
func OrderMoves(pos Position, moves []Move) {
	s := search{pos: pos}
	s.orderMoves(moves)
}
