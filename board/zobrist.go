package board

import "github.com/notnil/chess"

// Zobrist keys for position fingerprints. The generator is seeded with a
// constant so fingerprints are stable across runs.
var (
	zobristPiece     [2][7][64]uint64
	zobristCastle    [4]uint64
	zobristEnPassant [8]uint64
	zobristBlack     uint64
)

type xorshift struct{ state uint64 }

func (x *xorshift) next() uint64 {
	x.state ^= x.state >> 12
	x.state ^= x.state << 25
	x.state ^= x.state >> 27
	return x.state * 0x2545F4914F6CDD1D
}

func init() {
	rng := &xorshift{state: 0x6A09E667F3BCC908}
	for c := range zobristPiece {
		for k := range zobristPiece[c] {
			for sq := range zobristPiece[c][k] {
				zobristPiece[c][k][sq] = rng.next()
			}
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = rng.next()
	}
	for i := range zobristEnPassant {
		zobristEnPassant[i] = rng.next()
	}
	zobristBlack = rng.next()
}

func colorIndex(white bool) int {
	if white {
		return 0
	}
	return 1
}

// fingerprint hashes piece placement, side to move, castling rights and
// the en passant file. Move counters are left out so that repeated
// positions hash alike.
func (f *frame) fingerprint() uint64 {
	var key uint64
	for sq, c := range f.cells {
		if c.kind != 0 {
			key ^= zobristPiece[colorIndex(c.white)][c.kind][sq]
		}
	}
	if !f.white {
		key ^= zobristBlack
	}
	rights := f.pos.CastleRights()
	for i, cr := range [...]struct {
		color chess.Color
		side  chess.Side
	}{
		{chess.White, chess.KingSide},
		{chess.White, chess.QueenSide},
		{chess.Black, chess.KingSide},
		{chess.Black, chess.QueenSide},
	} {
		if rights.CanCastle(cr.color, cr.side) {
			key ^= zobristCastle[i]
		}
	}
	if f.enPassant >= 0 {
		key ^= zobristEnPassant[f.enPassant%8]
	}
	return key
}
