package model

import "time"

// Summary aggregates a finished batch run. Result order follows completion,
// not submission; only the counts are deterministic for deterministic input.
type Summary struct {
	Results   []UnitResult
	Passed    int
	Failed    int
	TimedOut  int
	Cancelled int
	Wall      time.Duration
}

// Total returns the number of units the batch resolved, including skipped ones.
func (s *Summary) Total() int { return len(s.Results) }

// Ok reports whether every unit passed.
func (s *Summary) Ok() bool {
	return s.Failed == 0 && s.TimedOut == 0 && s.Cancelled == 0
}

// Count folds a single result into the aggregate counters.
func (s *Summary) Count(r UnitResult) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusPass:
		s.Passed++
	case StatusFail:
		s.Failed++
	case StatusTimeout:
		s.TimedOut++
	case StatusCancelled:
		s.Cancelled++
	}
}
