package bots

import (
	"math/rand"
	"sync"

	"github.com/notnil/chess"
)

type RandomBot struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomBot returns a bot playing uniformly random legal moves. The
// same seed gives the same sequence of choices.
func NewRandomBot(seed int64) *RandomBot {
	return &RandomBot{rng: rand.New(rand.NewSource(seed))}
}

func (b *RandomBot) BestMove(game *chess.Game) *chess.Move {
	moves := game.ValidMoves()
	if len(moves) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return moves[b.rng.Intn(len(moves))]
}

func (b *RandomBot) Name() string {
	return "Random Bot"
}
