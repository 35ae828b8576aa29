package engine

// PositionEvaluator scores a leaf position for the side to move.
type PositionEvaluator interface {
	Evaluate(pos Position) int
	// IsEndgame tells quiescence search when material is too thin for
	// delta pruning to be safe.
	IsEndgame(pos Position) bool
}

const (
	// endgameMaterial is the non-king material at or below which both
	// sides are considered to be in the endgame.
	endgameMaterial = 1300
	centerBonus     = 6
	kingDistanceMax = 14
)

var pieceValues = [...]int{
	NoPiece: 0,
	Pawn:    100,
	Knight:  320,
	Bishop:  330,
	Rook:    500,
	Queen:   900,
	King:    10000,
}

// PieceValue returns the material value of a piece kind in centipawns.
func PieceValue(kind PieceKind) int {
	if int(kind) >= len(pieceValues) {
		return 0
	}
	return pieceValues[kind]
}

var materialKinds = [...]PieceKind{Pawn, Knight, Bishop, Rook, Queen}

// centerKinds earn the opening center-control bonus.
var centerKinds = [...]PieceKind{Pawn, Knight, Bishop}

// DefaultEvaluator counts material and adds a phase dependent term:
// center control before the endgame, king mop-up or mobility after it.
type DefaultEvaluator struct {
	// MobilityWithMopUp adds the mobility differential in every endgame
	// instead of only when material is level.
	MobilityWithMopUp bool
}

func (e DefaultEvaluator) Evaluate(pos Position) int {
	white, black := material(pos, true), material(pos, false)
	score := white - black

	if isEndgame(pos, white, black) {
		if white != black {
			score += mopUp(pos, white > black)
		}
		if white == black || e.MobilityWithMopUp {
			score += mobility(pos)
		}
	} else {
		score += centerControl(pos, true) - centerControl(pos, false)
	}

	if !pos.WhiteToMove() {
		return -score
	}
	return score
}

func (e DefaultEvaluator) IsEndgame(pos Position) bool {
	return isEndgame(pos, material(pos, true), material(pos, false))
}

func material(pos Position, white bool) int {
	total := 0
	for _, kind := range materialKinds {
		total += pos.PieceCount(kind, white) * pieceValues[kind]
	}
	return total
}

// isEndgame: both sides thin on material, one side stripped bare, or no
// pawns left while mate is still possible.
func isEndgame(pos Position, white, black int) bool {
	if white <= endgameMaterial && black <= endgameMaterial {
		return true
	}
	if white == 0 || black == 0 {
		return true
	}
	return pos.PieceCount(Pawn, true)+pos.PieceCount(Pawn, false) == 0 && !pos.InsufficientMaterial()
}

func centerControl(pos Position, white bool) int {
	total := 0
	for _, kind := range centerKinds {
		for _, sq := range pos.PieceSquares(kind, white) {
			total += centerBonus - CenterDistance(sq)
		}
	}
	return total
}

// mopUp rewards pushing the losing king away from the center and walking
// the winning king towards it. White relative.
func mopUp(pos Position, whiteAhead bool) int {
	loser := pos.KingSquare(!whiteAhead)
	winner := pos.KingSquare(whiteAhead)
	trap := CenterDistance(loser) + kingDistanceMax - ManhattanDistance(winner, loser)
	if !whiteAhead {
		return -trap
	}
	return trap
}

// mobility is the legal move count of the side to move minus the
// opponent's, white relative. Zero when the opponent cannot be given the
// move (side to move in check).
func mobility(pos Position) int {
	if !pos.TrySkipTurn() {
		return 0
	}
	theirs := countMoves(pos)
	pos.UndoSkipTurn()
	ours := countMoves(pos)

	diff := ours - theirs
	if !pos.WhiteToMove() {
		return -diff
	}
	return diff
}

func countMoves(pos Position) int {
	var buf [256]Move
	return len(pos.AppendLegalMoves(buf[:0], false))
}

// CenterDistance is the Manhattan distance from sq to the nearest of the
// four central squares d4, e4, d5, e5.
func CenterDistance(sq Square) int {
	return max(3-sq.File(), sq.File()-4) + max(3-sq.Rank(), sq.Rank()-4)
}

func ManhattanDistance(a, b Square) int {
	return abs(a.File()-b.File()) + abs(a.Rank()-b.Rank())
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
