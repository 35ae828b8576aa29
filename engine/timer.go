package engine

import "time"

// Timer reports how long the current turn has been running.
type Timer interface {
	Elapsed() time.Duration
}

type stopwatch struct {
	start time.Time
}

// StartTimer returns a Timer measuring wall clock time from now.
func StartTimer() Timer {
	return stopwatch{start: time.Now()}
}

func (s stopwatch) Elapsed() time.Duration {
	return time.Since(s.start)
}
