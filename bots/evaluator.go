package bots

import "github.com/CharaWein/chessGo/engine"

const (
	doubledPawnPenalty  = 30
	isolatedPawnPenalty = 50
	kingShelterBonus    = 20
	kingExposurePenalty = 30
)

// PositionalEvaluator adds pawn structure and king shelter terms on top
// of engine.DefaultEvaluator.
type PositionalEvaluator struct {
	engine.DefaultEvaluator
}

func (e PositionalEvaluator) Evaluate(pos engine.Position) int {
	extra := pawnStructure(pos, true) - pawnStructure(pos, false)
	if !e.IsEndgame(pos) {
		occ := occupancy(pos)
		extra += kingShelter(pos, occ, true) - kingShelter(pos, occ, false)
	}
	if !pos.WhiteToMove() {
		extra = -extra
	}
	return e.DefaultEvaluator.Evaluate(pos) + extra
}

// pawnStructure penalises doubled and isolated pawns of one side.
func pawnStructure(pos engine.Position, white bool) int {
	var files [8]int
	for _, sq := range pos.PieceSquares(engine.Pawn, white) {
		files[sq.File()]++
	}

	score := 0
	for f, n := range files {
		if n == 0 {
			continue
		}
		if n > 1 {
			score -= doubledPawnPenalty * (n - 1)
		}
		left := f > 0 && files[f-1] > 0
		right := f < 7 && files[f+1] > 0
		if !left && !right {
			score -= isolatedPawnPenalty
		}
	}
	return score
}

type occupant int8

const (
	empty occupant = iota
	whitePiece
	blackPiece
)

func occupancy(pos engine.Position) [64]occupant {
	var occ [64]occupant
	for kind := engine.Pawn; kind <= engine.King; kind++ {
		for _, sq := range pos.PieceSquares(kind, true) {
			occ[sq] = whitePiece
		}
		for _, sq := range pos.PieceSquares(kind, false) {
			occ[sq] = blackPiece
		}
	}
	return occ
}

// kingShelter rewards own pieces next to the king and penalises enemy
// pieces there.
func kingShelter(pos engine.Position, occ [64]occupant, white bool) int {
	king := pos.KingSquare(white)
	own, enemy := whitePiece, blackPiece
	if !white {
		own, enemy = blackPiece, whitePiece
	}

	score := 0
	for df := -1; df <= 1; df++ {
		for dr := -1; dr <= 1; dr++ {
			if df == 0 && dr == 0 {
				continue
			}
			f, r := king.File()+df, king.Rank()+dr
			if f < 0 || f > 7 || r < 0 || r > 7 {
				continue
			}
			switch occ[engine.NewSquare(f, r)] {
			case own:
				score += kingShelterBonus
			case enemy:
				score -= kingExposurePenalty
			}
		}
	}
	return score
}
