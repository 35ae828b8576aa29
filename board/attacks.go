package board

import "github.com/CharaWein/chessGo/engine"

var (
	knightSteps   = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps     = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	diagonalRays  = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	orthogonalRay = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

func (f *frame) at(file, rank int) cell {
	return f.cells[rank*8+file]
}

// attacked reports whether any piece of the given colour attacks sq.
func (f *frame) attacked(sq engine.Square, byWhite bool) bool {
	file, rank := sq.File(), sq.Rank()

	// A pawn attacks diagonally forward, so look one rank behind sq from
	// the attacker's point of view.
	pawnRank := rank - 1
	if !byWhite {
		pawnRank = rank + 1
	}
	for _, df := range [2]int{-1, 1} {
		if onBoard(file+df, pawnRank) {
			if c := f.at(file+df, pawnRank); c.kind == engine.Pawn && c.white == byWhite {
				return true
			}
		}
	}

	if f.step(file, rank, knightSteps[:], engine.Knight, byWhite) ||
		f.step(file, rank, kingSteps[:], engine.King, byWhite) {
		return true
	}

	return f.slide(file, rank, diagonalRays[:], engine.Bishop, byWhite) ||
		f.slide(file, rank, orthogonalRay[:], engine.Rook, byWhite)
}

func (f *frame) step(file, rank int, steps [][2]int, kind engine.PieceKind, white bool) bool {
	for _, d := range steps {
		ff, rr := file+d[0], rank+d[1]
		if !onBoard(ff, rr) {
			continue
		}
		if c := f.at(ff, rr); c.kind == kind && c.white == white {
			return true
		}
	}
	return false
}

// slide walks each ray until the first occupied square; a queen or the
// given slider of the attacking colour there attacks sq.
func (f *frame) slide(file, rank int, rays [][2]int, kind engine.PieceKind, white bool) bool {
	for _, d := range rays {
		for ff, rr := file+d[0], rank+d[1]; onBoard(ff, rr); ff, rr = ff+d[0], rr+d[1] {
			c := f.at(ff, rr)
			if c.kind == engine.NoPiece {
				continue
			}
			if c.white == white && (c.kind == kind || c.kind == engine.Queen) {
				return true
			}
			break
		}
	}
	return false
}
