package engine

// search holds everything one Think call mutates. It is created fresh per
// turn and never shared, so nothing leaks from one turn into the next.
type search struct {
	pos   Position
	eval  PositionEvaluator
	cache *Cache
	cfg   Config

	// bias holds the moves that won earlier iterations of this turn;
	// the orderer tries them first.
	bias map[Move]struct{}

	// frames are per-ply move buffers reused across the whole turn.
	frames [][]Move
	keys   []int
	ply    int

	nodes  uint64
	qnodes uint64
}

func newSearch(pos Position, eval PositionEvaluator, cfg Config) *search {
	var cache *Cache
	if cfg.Cache != CacheOff {
		cache = NewCache(cfg.CacheCapacity)
	}
	return &search{
		pos:    pos,
		eval:   eval,
		cache:  cache,
		cfg:    cfg,
		bias:   make(map[Move]struct{}, 4),
		frames: make([][]Move, 0, 32),
	}
}

// moves fills the buffer of the current ply with legal moves.
func (s *search) moves(capturesOnly bool) []Move {
	for len(s.frames) <= s.ply {
		s.frames = append(s.frames, make([]Move, 0, 64))
	}
	buf := s.pos.AppendLegalMoves(s.frames[s.ply][:0], capturesOnly)
	s.frames[s.ply] = buf
	return buf
}

// remember biases ordering of later iterations towards m.
func (s *search) remember(m Move) {
	if !s.cfg.RememberAllBest {
		clear(s.bias)
	}
	s.bias[m] = struct{}{}
}

// usesCache reports whether the position just reached goes through the
// transposition cache.
func (s *search) usesCache() bool {
	switch {
	case s.cache == nil:
		return false
	case s.cfg.Cache == CacheAlways:
		return true
	default:
		return s.eval.IsEndgame(s.pos)
	}
}

// quiescence is the depth passed to child for capture-only nodes.
const quiescence = -1

// child plays m, scores the resulting position with the window
// (alpha, beta) given from the opponent's point of view, and returns the
// score from the mover's point of view. The move is undone on every path.
func (s *search) child(m Move, alpha, beta, depth int) int {
	s.pos.MakeMove(m)
	s.ply++

	var score int
	if s.usesCache() {
		fp := s.pos.Fingerprint()
		cached, ok := s.cache.Get(fp)
		if !ok {
			cached = s.visit(alpha, beta, depth)
			s.cache.Put(fp, cached)
		}
		score = cached
	} else {
		score = s.visit(alpha, beta, depth)
	}

	s.ply--
	s.pos.UndoMove(m)
	return -score
}

func (s *search) visit(alpha, beta, depth int) int {
	if depth == quiescence {
		return s.quiesce(alpha, beta)
	}
	return s.negamax(alpha, beta, depth)
}
