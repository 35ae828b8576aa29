package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// node is one position of a hand-built game tree. value is the static
// score for the side to move at that node.
type node struct {
	id       uint64
	value    int
	children []*node
	captured []PieceKind
	mated    bool
	repeated bool
}

func leaf(value int) *node { return &node{value: value} }

func branch(value int, children ...*node) *node {
	return &node{value: value, children: children}
}

// number assigns unique fingerprints depth first.
func number(n *node) *node {
	var next uint64
	var walk func(*node)
	walk = func(n *node) {
		next++
		n.id = next
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(n)
	return n
}

// treePosition walks a node tree with make/undo and fails loudly on any
// unbalanced call.
type treePosition struct {
	path  []*node
	makes int
	undos int
	evals int
}

func newTreePosition(root *node) *treePosition {
	return &treePosition{path: []*node{number(root)}}
}

func (p *treePosition) cur() *node { return p.path[len(p.path)-1] }

func moveFor(n *node, i int) Move {
	m := Move{From: Square(0), To: Square(i), Piece: Knight}
	if i < len(n.captured) {
		m.Captured = n.captured[i]
	}
	return m
}

func (p *treePosition) AppendLegalMoves(dst []Move, capturesOnly bool) []Move {
	n := p.cur()
	for i := range n.children {
		m := moveFor(n, i)
		if capturesOnly && !m.IsCapture() {
			continue
		}
		dst = append(dst, m)
	}
	return dst
}

func (p *treePosition) MakeMove(m Move) {
	n := p.cur()
	i := int(m.To)
	if i >= len(n.children) || moveFor(n, i) != m {
		panic(fmt.Sprintf("illegal move %v at node %d", m, n.id))
	}
	p.makes++
	p.path = append(p.path, n.children[i])
}

func (p *treePosition) UndoMove(m Move) {
	if len(p.path) < 2 {
		panic("undo at root")
	}
	parent := p.path[len(p.path)-2]
	if parent.children[int(m.To)] != p.cur() {
		panic(fmt.Sprintf("undo of %v does not match last move", m))
	}
	p.undos++
	p.path = p.path[:len(p.path)-1]
}

func (p *treePosition) TrySkipTurn() bool { return false }
func (p *treePosition) UndoSkipTurn()     { panic("skip turn never granted") }

func (p *treePosition) InCheck() bool { return p.cur().mated }
func (p *treePosition) InCheckmate() bool {
	return p.cur().mated && len(p.cur().children) == 0
}

func (p *treePosition) Fingerprint() uint64 { return p.cur().id }
func (p *treePosition) IsRepeated() bool    { return p.cur().repeated }
func (p *treePosition) WhiteToMove() bool   { return len(p.path)%2 == 1 }

func (p *treePosition) PieceCount(PieceKind, bool) int        { return 0 }
func (p *treePosition) PieceSquares(PieceKind, bool) []Square { return nil }
func (p *treePosition) KingSquare(bool) Square                { return 0 }
func (p *treePosition) SquareAttackedByOpponent(Square) bool  { return false }
func (p *treePosition) InsufficientMaterial() bool            { return false }

// nodeEvaluator reads the static score stored on the node.
type nodeEvaluator struct {
	endgame bool
}

func (e nodeEvaluator) Evaluate(pos Position) int {
	tp := pos.(*treePosition)
	tp.evals++
	return tp.cur().value
}

func (e nodeEvaluator) IsEndgame(Position) bool { return e.endgame }

// minimax is the full-width reference the pruned search must agree with.
func minimax(n *node, depth int) int {
	if depth == 0 {
		return n.value
	}
	if len(n.children) == 0 {
		if n.mated {
			return MinScore
		}
		return 0
	}
	best := MinScore
	for _, c := range n.children {
		best = max(best, -minimax(c, depth-1))
	}
	return best
}

func randomTree(rng *rand.Rand, depth int) *node {
	n := &node{value: rng.Intn(1001) - 500}
	if depth == 0 {
		return n
	}
	width := rng.Intn(4)
	if width == 0 {
		n.mated = rng.Intn(2) == 0
		return n
	}
	for i := 0; i < width; i++ {
		n.children = append(n.children, randomTree(rng, depth-1))
	}
	return n
}

type fixedTimer time.Duration

func (t fixedTimer) Elapsed() time.Duration { return time.Duration(t) }

// scriptedTimer reports no time spent for the first free calls and an
// exhausted budget afterwards.
type scriptedTimer struct {
	free  int
	calls int
}

func (t *scriptedTimer) Elapsed() time.Duration {
	t.calls++
	if t.calls <= t.free {
		return 0
	}
	return time.Hour
}
