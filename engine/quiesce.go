package engine

const (
	// bigDelta is the largest swing one move can bring: winning a queen
	// while promoting a pawn to another one.
	bigDelta = 2*900 - 100
	// deltaMargin is the slack allowed on top of a capture's value before
	// the capture is considered unable to raise alpha.
	deltaMargin = 200
)

// quiesce searches captures only until the position is quiet, so that
// the evaluator is never trusted in the middle of an exchange.
func (s *search) quiesce(alpha, beta int) int {
	s.qnodes++

	stand := s.eval.Evaluate(s.pos)
	if stand >= beta {
		return beta
	}

	// Delta pruning is unsafe with little material left, where a single
	// capture or promotion can decide the game.
	prune := !s.eval.IsEndgame(s.pos)
	if prune && stand+bigDelta < alpha {
		return alpha
	}

	if stand > alpha {
		alpha = stand
	}

	captures := s.moves(true)
	if len(captures) == 0 {
		return stand
	}

	s.orderMoves(captures)
	for _, m := range captures {
		if prune && stand+deltaMargin+PieceValue(m.Captured) < alpha {
			continue
		}
		score := s.child(m, -beta, -alpha, quiescence)
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}
