package engine

import (
	"context"
	"math/rand"
	"testing"
)

func testEngine(cfg Config, opts ...Option) *Engine {
	opts = append([]Option{
		WithEvaluator(nodeEvaluator{endgame: true}),
		WithRand(rand.New(rand.NewSource(1))),
	}, opts...)
	return New(cfg, opts...)
}

func TestThinkSingleLegalMove(t *testing.T) {
	pos := newTreePosition(branch(0, branch(0, leaf(1), leaf(2))))
	e := testEngine(Config{MaxDepth: 4})

	res := e.Think(context.Background(), pos, fixedTimer(0))
	if !res.Forced || res.Move != moveFor(pos.cur(), 0) || res.Score != 0 {
		t.Fatalf("expected the only move to be forced, got %+v", res)
	}
	if pos.makes != 0 || pos.evals != 0 {
		t.Fatalf("single move was searched: %d makes, %d evals", pos.makes, pos.evals)
	}
}

func TestThinkNoLegalMoves(t *testing.T) {
	pos := newTreePosition(&node{mated: true})
	if m := testEngine(Config{MaxDepth: 2}).ChooseMove(context.Background(), pos, fixedTimer(0)); !m.IsNull() {
		t.Fatalf("expected NullMove, got %v", m)
	}
}

func TestThinkScoreWithoutSearch(t *testing.T) {
	tests := []struct {
		name string
		root *node
		want int
	}{
		{"checkmated", &node{mated: true}, MinScore},
		{"stalemated", &node{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := testEngine(Config{MaxDepth: 2}).Think(context.Background(), newTreePosition(tt.root), fixedTimer(0))
			if res.Score != tt.want || res.Depth != -1 {
				t.Fatalf("got %+v, want score %d at depth -1", res, tt.want)
			}
		})
	}
}

func TestThinkReturnsMateImmediately(t *testing.T) {
	root := branch(0, leaf(-800), leaf(-900), &node{mated: true}, leaf(-700))
	pos := newTreePosition(root)

	var iterations []Iteration
	e := testEngine(Config{MaxDepth: 6}, WithIterationHook(func(it Iteration) {
		iterations = append(iterations, it)
	}))

	res := e.Think(context.Background(), pos, fixedTimer(0))
	if !res.Mate || res.Move != moveFor(root, 2) || res.Score != MaxScore {
		t.Fatalf("expected mating move, got %+v", res)
	}
	if res.Depth != 1 || len(iterations) != 1 {
		t.Fatalf("search continued after mate: depth %d, %d iterations", res.Depth, len(iterations))
	}
	if pos.makes != pos.undos || len(pos.path) != 1 {
		t.Fatalf("position not restored: %d makes, %d undos", pos.makes, pos.undos)
	}
}

func TestThinkLeavesPositionUnchanged(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		root := randomTree(rng, 5)
		if len(root.children) < 2 {
			continue
		}
		pos := newTreePosition(root)
		before := pos.Fingerprint()
		testEngine(Config{MaxDepth: 4, Cache: CacheAlways}).Think(context.Background(), pos, fixedTimer(0))

		if pos.Fingerprint() != before || pos.makes != pos.undos || len(pos.path) != 1 {
			t.Fatalf("tree %d: position changed by search (%d makes, %d undos)", i, pos.makes, pos.undos)
		}
	}
}

func TestThinkPicksMinimaxBest(t *testing.T) {
	// Root values after the reply: a=-300, b=50, c=-20.
	root := branch(0,
		branch(0, leaf(-300), leaf(400)),
		branch(0, leaf(50), leaf(90)),
		branch(0, leaf(-20)),
	)
	pos := newTreePosition(root)

	res := testEngine(Config{MaxDepth: 1, Cache: CacheOff}).Think(context.Background(), pos, fixedTimer(0))
	if res.Move != moveFor(root, 1) || res.Score != 50 || res.Depth != 1 {
		t.Fatalf("got %+v, want move b scoring 50 at depth 1", res)
	}
}

func TestThinkTieBreakIsUniform(t *testing.T) {
	root := branch(0, leaf(10), leaf(10), leaf(10))
	e := testEngine(Config{MaxDepth: 1, Cache: CacheOff}, WithRand(rand.New(rand.NewSource(42))))

	const runs = 3000
	counts := map[Move]int{}
	for i := 0; i < runs; i++ {
		counts[e.ChooseMove(context.Background(), newTreePosition(root), fixedTimer(0))]++
	}

	if len(counts) != 3 {
		t.Fatalf("expected all three tied moves to be chosen, got %v", counts)
	}
	for m, n := range counts {
		if n < runs/3-200 || n > runs/3+200 {
			t.Fatalf("move %v chosen %d times out of %d", m, n, runs)
		}
	}
}

func TestThinkTimeoutKeepsCommittedMove(t *testing.T) {
	// Depth 0 prefers a (100 vs 0 vs -200). Depth 1 would prefer b, but
	// the budget runs out before c is searched, so that iteration must
	// not replace a.
	root := branch(0,
		branch(-100, leaf(-300)),
		branch(0, leaf(50)),
		branch(200, leaf(0)),
	)
	pos := newTreePosition(root)

	// One timer call per root move plus one for the depth 0 report, then
	// two more root moves at depth 1.
	timer := &scriptedTimer{free: 6}
	res := testEngine(Config{Cache: CacheOff}).Think(context.Background(), pos, timer)

	if !res.TimedOut {
		t.Fatalf("expected the search to time out")
	}
	if res.Move != moveFor(root, 0) || res.Depth != 0 || res.Score != 100 {
		t.Fatalf("partial iteration overwrote the answer: %+v", res)
	}
	if pos.makes != pos.undos {
		t.Fatalf("unbalanced make/undo after timeout")
	}
}

func TestThinkCancelledStillAnswers(t *testing.T) {
	root := branch(0, leaf(0), leaf(0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := testEngine(Config{}).Think(ctx, newTreePosition(root), fixedTimer(0))
	if res.Move.IsNull() || res.Depth != -1 || !res.TimedOut || res.Score != 0 {
		t.Fatalf("expected a fallback move from a cancelled search, got %+v", res)
	}
}
