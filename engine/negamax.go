package engine

// negamax returns the value of the current position for the side to move,
// searched depth plies deep and clamped fail-hard to [alpha, beta].
func (s *search) negamax(alpha, beta, depth int) int {
	if depth == 0 {
		return s.quiesce(alpha, beta)
	}
	s.nodes++

	moves := s.moves(false)
	if len(moves) == 0 {
		if s.pos.InCheckmate() {
			return MinScore
		}
		return 0
	}

	// A position seen before can be forced again, so the side to move can
	// hope for no more than a draw here.
	if s.pos.IsRepeated() {
		if s.cfg.RepetitionZero {
			return 0
		}
		return min(0, beta)
	}

	s.orderMoves(moves)
	for _, m := range moves {
		score := s.child(m, -beta, -alpha, depth-1)
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}
