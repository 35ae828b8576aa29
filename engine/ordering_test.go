package engine

import (
	"slices"
	"testing"
)

// attackPosition is a treePosition whose attacked squares are listed.
type attackPosition struct {
	*treePosition
	attacked map[Square]bool
}

func (p attackPosition) SquareAttackedByOpponent(sq Square) bool { return p.attacked[sq] }

func TestOrderMoves(t *testing.T) {
	quiet := Move{From: 1, To: 10, Piece: Knight}
	hanging := Move{From: 2, To: 20, Piece: Queen}
	takesPawn := Move{From: 3, To: 30, Piece: Rook, Captured: Pawn}
	takesQueen := Move{From: 4, To: 40, Piece: Pawn, Captured: Queen}
	promotes := Move{From: 5, To: 50, Piece: Pawn, Promotion: Queen}

	pos := attackPosition{
		treePosition: newTreePosition(leaf(0)),
		attacked:     map[Square]bool{20: true, 30: true},
	}
	s := newSearch(pos, nodeEvaluator{}, Config{Cache: CacheOff})

	moves := []Move{quiet, hanging, takesPawn, promotes, takesQueen}
	s.orderMoves(moves)

	want := []Move{takesQueen, promotes, takesPawn, quiet, hanging}
	if !slices.Equal(moves, want) {
		t.Fatalf("order = %v, want %v", moves, want)
	}

	s.remember(hanging)
	s.orderMoves(moves)
	if moves[0] != hanging {
		t.Fatalf("remembered move not first: %v", moves)
	}
}

func TestOrderMovesIsStable(t *testing.T) {
	a := Move{From: 1, To: 2, Piece: Knight}
	b := Move{From: 3, To: 4, Piece: Bishop}
	c := Move{From: 5, To: 6, Piece: Rook}
	d := Move{From: 7, To: 8, Piece: Knight, Captured: Pawn}

	s := newSearch(newTreePosition(leaf(0)), nodeEvaluator{}, Config{Cache: CacheOff})
	moves := []Move{a, b, c, d}
	s.orderMoves(moves)
	want := []Move{d, a, b, c}
	if !slices.Equal(moves, want) {
		t.Fatalf("order = %v, want %v", moves, want)
	}

	again := slices.Clone(moves)
	s.orderMoves(again)
	if !slices.Equal(again, moves) {
		t.Fatalf("reordering changed the list: %v then %v", moves, again)
	}
}

func TestRememberAllBest(t *testing.T) {
	a := Move{From: 1, To: 2, Piece: Knight}
	b := Move{From: 3, To: 4, Piece: Bishop}
	c := Move{From: 5, To: 6, Piece: Rook}

	tests := []struct {
		name string
		all  bool
		want []Move
	}{
		{"latest only", false, []Move{c, a, b}},
		{"every winner", true, []Move{b, c, a}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSearch(newTreePosition(leaf(0)), nodeEvaluator{}, Config{Cache: CacheOff, RememberAllBest: tt.all})
			s.remember(b)
			s.remember(c)
			moves := []Move{a, b, c}
			s.orderMoves(moves)
			if !slices.Equal(moves, tt.want) {
				t.Fatalf("order = %v, want %v", moves, tt.want)
			}
		})
	}
}

func TestOrderMovesExported(t *testing.T) {
	quiet := Move{From: 1, To: 10, Piece: Knight}
	capture := Move{From: 2, To: 20, Piece: Knight, Captured: Rook}
	moves := []Move{quiet, capture}

	OrderMoves(newTreePosition(leaf(0)), moves)
	if moves[0] != capture {
		t.Fatalf("capture not ordered first: %v", moves)
	}
}
