package bots

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/CharaWein/chessGo/engine"
)

// Registry keeps bots by name in registration order.
type Registry struct {
	names []string
	bots  map[string]ChessBot
}

func NewRegistry() *Registry {
	return &Registry{bots: make(map[string]ChessBot)}
}

// Register adds bot under name, replacing any bot already registered
// with that name.
func (r *Registry) Register(name string, bot ChessBot) {
	if _, ok := r.bots[name]; !ok {
		r.names = append(r.names, name)
	}
	r.bots[name] = bot
}

func (r *Registry) Get(name string) (ChessBot, bool) {
	bot, ok := r.bots[name]
	return bot, ok
}

// MustGet is Get for names known to be registered.
func (r *Registry) MustGet(name string) ChessBot {
	bot, ok := r.bots[name]
	if !ok {
		panic(fmt.Sprintf("bots: %q is not registered", name))
	}
	return bot
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Next returns the name registered after name, wrapping around. An
// unknown name yields the first one.
func (r *Registry) Next(name string) string {
	if len(r.names) == 0 {
		return ""
	}
	for i, n := range r.names {
		if n == name {
			return r.names[(i+1)%len(r.names)]
		}
	}
	return r.names[0]
}

// DefaultRegistry holds the built-in bots. "engine" uses cfg as given;
// the fixed depth bots keep cfg's tunables with their own depth. seed
// drives the random bot and the tie breaking of every engine bot, each
// from its own source.
func DefaultRegistry(cfg engine.Config, seed int64, opts ...engine.Option) *Registry {
	r := NewRegistry()
	var k int64
	seeded := func(extra ...engine.Option) []engine.Option {
		k++
		out := []engine.Option{engine.WithRand(rand.New(rand.NewSource(seed + k)))}
		out = append(out, opts...)
		return append(out, extra...)
	}

	r.Register("engine", NewEngineBot(cfg, seeded()...))
	r.Register("newborn", NewNewbornBot())
	r.Register("random", NewRandomBot(seed))

	for _, depth := range []int{3, 5} {
		c := cfg
		c.MaxDepth = depth
		c.TurnBudget = time.Duration(depth) * 2 * time.Second
		r.Register(fmt.Sprintf("minimax%d", depth), NewEngineBot(c, seeded()...))
	}

	// Options apply in order, so the evaluator goes last to win over
	// any evaluator in opts.
	pb := NewEngineBot(cfg, seeded(engine.WithEvaluator(PositionalEvaluator{}))...)
	pb.name = "Positional " + pb.name
	r.Register("positional", pb)
	return r
}
